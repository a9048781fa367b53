package controllers

import (
	"strconv"
	"time"

	"hostelhub_go/middleware"
	"hostelhub_go/models"
	"hostelhub_go/services"
	"hostelhub_go/utils"

	"github.com/gofiber/fiber/v2"
)

type FeeController struct {
	billing *services.BillingService
}

func NewFeeController() *FeeController {
	return &FeeController{billing: services.NewBillingService()}
}

// CreateFeeRequest represents the fee creation body
type CreateFeeRequest struct {
	Month      string    `json:"month" validate:"required"`
	Year       int       `json:"year" validate:"required,gte=2000,lte=2100"`
	Amount     int       `json:"amount" validate:"required,gte=0"`
	DueDate    time.Time `json:"due_date" validate:"required"`
	ConsumerID string    `json:"consumer_id"`
}

// UpdateVoucherRequest carries the patchable voucher fields
type UpdateVoucherRequest struct {
	Amount  *int       `json:"amount" validate:"omitempty,gte=0"`
	DueDate *time.Time `json:"due_date"`
	Status  *string    `json:"status" validate:"omitempty,oneof=Pending Unpaid Paid"`
}

// GetAllFees lists every fee period, newest first.
func (fc *FeeController) GetAllFees(c *fiber.Ctx) error {
	fees, err := fc.billing.ListFees()
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"fees":    fees,
	})
}

// CreateFee defines the fee entry for a (month, year) period.
func (fc *FeeController) CreateFee(c *fiber.Ctx) error {
	var req CreateFeeRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest("Invalid request body")
	}
	if err := utils.ValidateStruct(req); err != nil {
		return err
	}

	fee, err := fc.billing.CreateFee(services.CreateFeeInput{
		Month:      req.Month,
		Year:       req.Year,
		Amount:     req.Amount,
		DueDate:    req.DueDate,
		ConsumerID: req.ConsumerID,
	})
	if err != nil {
		return err
	}

	middleware.LogActivity(c, "CREATE", "fees", fee.ID, fiber.Map{
		"month": fee.Month,
		"year":  fee.Year,
	})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Fee created successfully",
		"fee":     fee,
	})
}

// GenerateVoucher creates the current period's voucher for a student.
func (fc *FeeController) GenerateVoucher(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return utils.BadRequest("Invalid student id")
	}
	if err := requireSelfOrAdminClaims(c, uint(id)); err != nil {
		return err
	}

	voucher, err := fc.billing.GenerateVoucher(uint(id))
	if err != nil {
		return err
	}

	middleware.LogActivity(c, "CREATE", "vouchers", voucher.ID, fiber.Map{
		"student_id": id,
		"month":      voucher.Month,
		"year":       voucher.Year,
	})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Voucher generated successfully",
		"voucher": voucher,
	})
}

// GetVouchersByMonth lists a period's vouchers with student details.
func (fc *FeeController) GetVouchersByMonth(c *fiber.Ctx) error {
	month := c.Params("month")
	year, err := strconv.Atoi(c.Params("year"))
	if err != nil {
		return utils.BadRequest("Invalid year")
	}
	if !utils.IsValidMonth(month) {
		return utils.BadRequest("Invalid month name!")
	}

	rows, err := fc.billing.VouchersByMonth(month, year)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"vouchers": rows,
	})
}

// GetVouchersByStudent lists a student's vouchers newest first.
func (fc *FeeController) GetVouchersByStudent(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return utils.BadRequest("Invalid student id")
	}
	if err := requireSelfOrAdminClaims(c, uint(id)); err != nil {
		return err
	}

	vouchers, err := fc.billing.VouchersByStudent(uint(id))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"vouchers": vouchers,
	})
}

// UpdateVoucher patches a voucher's amount, due date or status.
func (fc *FeeController) UpdateVoucher(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return utils.BadRequest("Invalid voucher id")
	}

	var req UpdateVoucherRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest("Invalid request body")
	}
	if err := utils.ValidateStruct(req); err != nil {
		return err
	}

	voucher, err := fc.billing.UpdateVoucher(uint(id), services.UpdateVoucherInput{
		Amount:  req.Amount,
		DueDate: req.DueDate,
		Status:  req.Status,
	})
	if err != nil {
		return err
	}

	middleware.LogActivity(c, "UPDATE", "vouchers", uint(id), nil)

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Voucher updated successfully",
		"voucher": voucher,
	})
}

func requireSelfOrAdminClaims(c *fiber.Ctx, studentID uint) error {
	claims, err := middleware.GetCurrentClaims(c)
	if err != nil {
		return utils.Unauthorized("Access token is required")
	}
	if claims.Role != models.RoleAdmin && claims.StudentID != studentID {
		return utils.Forbidden("You can only access your own vouchers!")
	}
	return nil
}
