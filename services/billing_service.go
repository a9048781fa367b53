package services

import (
	"sort"
	"strings"
	"time"

	"hostelhub_go/database"
	"hostelhub_go/models"
	"hostelhub_go/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BillingService generates and maintains fee vouchers. A voucher's
// amount is captured at generation time (room price + period surcharge)
// and never recomputed afterwards.
type BillingService struct {
	db *gorm.DB
}

func NewBillingService() *BillingService {
	return &BillingService{db: database.GetDB()}
}

// VoucherAmount is the captured total for a voucher: the student's room
// price plus the hostel-wide surcharge of the fee period.
func VoucherAmount(roomPrice, feeAmount int) int {
	return roomPrice + feeAmount
}

// VoucherView is the voucher joined with its fee period's display fields.
type VoucherView struct {
	ID         uint      `json:"id"`
	Month      string    `json:"month"`
	Year       int       `json:"year"`
	Amount     int       `json:"amount"`
	DueDate    time.Time `json:"due_date"`
	ConsumerID string    `json:"consumer_id"`
	Status     string    `json:"status"`
}

// MonthVoucherRow is one line of the per-period listing: the voucher
// joined with its student and room, tolerating dangling references.
type MonthVoucherRow struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	RoomNo string `json:"room_no"`
	Amount int    `json:"amount"`
	Status string `json:"status"`
}

// CreateFeeInput carries the admin-entered fee period definition.
type CreateFeeInput struct {
	Month      string    `json:"month"`
	Year       int       `json:"year"`
	Amount     int       `json:"amount"`
	DueDate    time.Time `json:"due_date"`
	ConsumerID string    `json:"consumer_id"`
}

// CreateFee inserts the fee schedule entry for a (month, year) period.
// The period is unique; a blank consumer id gets generated.
func (s *BillingService) CreateFee(in CreateFeeInput) (*models.Fee, error) {
	if !utils.IsValidMonth(in.Month) {
		return nil, utils.BadRequest("Invalid month name!")
	}

	var existing models.Fee
	if err := s.db.Where("month = ? AND year = ?", in.Month, in.Year).First(&existing).Error; err == nil {
		return nil, utils.Conflict("Voucher already exists for the specified month and year!")
	}

	consumerID := strings.TrimSpace(in.ConsumerID)
	if consumerID == "" {
		consumerID = uuid.New().String()
	}

	fee := models.Fee{
		Month:      in.Month,
		Year:       in.Year,
		Amount:     in.Amount,
		DueDate:    in.DueDate,
		ConsumerID: consumerID,
	}
	if err := s.db.Create(&fee).Error; err != nil {
		// The composite unique index backstops the pre-check under
		// concurrent creates.
		if utils.IsDuplicateKeyError(err) {
			return nil, utils.Conflict("Voucher already exists for the specified month and year!")
		}
		return nil, err
	}
	return &fee, nil
}

// ListFees returns all fee schedule entries, newest period first.
func (s *BillingService) ListFees() ([]models.Fee, error) {
	var fees []models.Fee
	if err := s.db.Find(&fees).Error; err != nil {
		return nil, err
	}
	if len(fees) == 0 {
		return nil, utils.NotFound("Fee not found!")
	}
	// Month names don't sort lexically; order by (year, month index).
	sort.Slice(fees, func(i, j int) bool {
		if fees[i].Year != fees[j].Year {
			return fees[i].Year > fees[j].Year
		}
		return utils.MonthIndex(fees[i].Month) > utils.MonthIndex(fees[j].Month)
	})
	return fees, nil
}

// GenerateVoucher creates the current period's voucher for a student.
// Duplicate generation is rejected with a conflict; a unique index on
// (fee_id, student_id) closes the race two concurrent calls would
// otherwise win together.
func (s *BillingService) GenerateVoucher(studentID uint) (*VoucherView, error) {
	month, year := utils.CurrentPeriod(time.Now())

	var view *VoucherView
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var fee models.Fee
		if err := tx.Where("month = ? AND year = ?", month, year).First(&fee).Error; err != nil {
			return utils.NotFound("Current month's voucher hasn't been created!")
		}

		var student models.Student
		if err := forUpdate(tx).First(&student, studentID).Error; err != nil {
			return utils.NotFound("Student not found!")
		}
		if student.RoomID == nil {
			return utils.InvalidState("Student must be assigned a room before generating voucher!")
		}

		var room models.Room
		if err := tx.First(&room, *student.RoomID).Error; err != nil {
			return utils.NotFound("Room not found!")
		}

		var existing models.Voucher
		if err := tx.Where("fee_id = ? AND student_id = ?", fee.ID, student.ID).First(&existing).Error; err == nil {
			return utils.Conflict("Voucher already generated for this month!")
		}

		voucher := models.Voucher{
			FeeID:     fee.ID,
			StudentID: student.ID,
			Amount:    VoucherAmount(room.Price, fee.Amount),
			DueDate:   fee.DueDate,
			Status:    models.VoucherStatusPending,
		}
		if err := tx.Create(&voucher).Error; err != nil {
			if utils.IsDuplicateKeyError(err) {
				return utils.Conflict("Voucher already generated for this month!")
			}
			return err
		}

		view = &VoucherView{
			ID:         voucher.ID,
			Month:      fee.Month,
			Year:       fee.Year,
			Amount:     voucher.Amount,
			DueDate:    voucher.DueDate,
			ConsumerID: fee.ConsumerID,
			Status:     voucher.Status,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// VouchersByMonth lists the vouchers of a fee period joined with each
// student's name, email and room number. Dangling student or room
// references render as "N/A" rather than failing the listing.
func (s *BillingService) VouchersByMonth(month string, year int) ([]MonthVoucherRow, error) {
	var fee models.Fee
	if err := s.db.Where("month = ? AND year = ?", month, year).First(&fee).Error; err != nil {
		return nil, utils.NotFound("Fees for the specified month not found!")
	}

	var vouchers []models.Voucher
	if err := s.db.Where("fee_id = ?", fee.ID).Find(&vouchers).Error; err != nil {
		return nil, err
	}
	if len(vouchers) == 0 {
		return nil, utils.NotFound("Vouchers not found!")
	}

	rows := make([]MonthVoucherRow, 0, len(vouchers))
	for _, voucher := range vouchers {
		row := MonthVoucherRow{
			Name:   utils.NA,
			Email:  utils.NA,
			RoomNo: utils.NA,
			Amount: voucher.Amount,
			Status: voucher.Status,
		}
		var student models.Student
		if err := s.db.First(&student, voucher.StudentID).Error; err == nil {
			row.Name = student.Name
			row.Email = student.Email
			if student.RoomID != nil {
				var room models.Room
				if err := s.db.First(&room, *student.RoomID).Error; err == nil {
					row.RoomNo = utils.IntString(room.RoomNo)
				}
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// VouchersByStudent lists a student's vouchers joined with their fee
// period's display fields, most recent first.
func (s *BillingService) VouchersByStudent(studentID uint) ([]VoucherView, error) {
	var vouchers []models.Voucher
	if err := s.db.Preload("Fee").
		Where("student_id = ?", studentID).
		Order("created_at DESC").
		Find(&vouchers).Error; err != nil {
		return nil, err
	}
	if len(vouchers) == 0 {
		return nil, utils.NotFound("Vouchers not found!")
	}

	views := make([]VoucherView, 0, len(vouchers))
	for _, voucher := range vouchers {
		views = append(views, VoucherView{
			ID:         voucher.ID,
			Month:      voucher.Fee.Month,
			Year:       voucher.Fee.Year,
			Amount:     voucher.Amount,
			DueDate:    voucher.Fee.DueDate,
			ConsumerID: voucher.Fee.ConsumerID,
			Status:     voucher.Status,
		})
	}
	return views, nil
}

// UpdateVoucherInput carries the patchable voucher fields. Amount and
// the voucher's captured due date copy can be edited; the consumer id
// belongs to the fee period and is not patchable here. Status accepts
// any of Pending/Unpaid/Paid with no transition restriction.
type UpdateVoucherInput struct {
	Amount  *int       `json:"amount"`
	DueDate *time.Time `json:"due_date"`
	Status  *string    `json:"status"`
}

// UpdateVoucher merges the provided fields into a voucher and returns
// the refreshed joined view.
func (s *BillingService) UpdateVoucher(voucherID uint, in UpdateVoucherInput) (*VoucherView, error) {
	var voucher models.Voucher
	if err := s.db.Preload("Fee").First(&voucher, voucherID).Error; err != nil {
		return nil, utils.NotFound("Voucher not found!")
	}

	if in.Status != nil && !utils.IsValidVoucherStatus(*in.Status) {
		return nil, utils.BadRequest("Status must be 'Pending', 'Unpaid' or 'Paid'!")
	}

	if in.Amount != nil {
		voucher.Amount = *in.Amount
	}
	if in.DueDate != nil {
		voucher.DueDate = *in.DueDate
	}
	if in.Status != nil {
		voucher.Status = *in.Status
	}
	if err := s.db.Save(&voucher).Error; err != nil {
		return nil, err
	}

	return &VoucherView{
		ID:         voucher.ID,
		Month:      voucher.Fee.Month,
		Year:       voucher.Fee.Year,
		Amount:     voucher.Amount,
		DueDate:    voucher.DueDate,
		ConsumerID: voucher.Fee.ConsumerID,
		Status:     voucher.Status,
	}, nil
}

// CurrentFeeStatus returns the student's voucher status for the current
// fee period, "N/A" when either the period or the voucher is missing.
func (s *BillingService) CurrentFeeStatus(studentID uint) string {
	month, year := utils.CurrentPeriod(time.Now())
	var fee models.Fee
	if err := s.db.Where("month = ? AND year = ?", month, year).First(&fee).Error; err != nil {
		return utils.NA
	}
	var voucher models.Voucher
	if err := s.db.Where("fee_id = ? AND student_id = ?", fee.ID, studentID).First(&voucher).Error; err != nil {
		return utils.NA
	}
	return voucher.Status
}
