package controllers

import (
	"time"

	"hostelhub_go/database"
	"hostelhub_go/models"
	"hostelhub_go/services"
	"hostelhub_go/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type DashboardController struct {
	billing *services.BillingService
}

func NewDashboardController() *DashboardController {
	return &DashboardController{billing: services.NewBillingService()}
}

// Period identifies one fee period for the dashboard charts.
type Period struct {
	Month string
	Year  int
}

// TrailingPeriods returns the last n fee periods ending at now, oldest
// first. Stepping with AddDate keeps the sequence correct across year
// boundaries.
func TrailingPeriods(now time.Time, n int) []Period {
	// Anchor on the first of the month so stepping back from a day 29+
	// cannot overflow into the wrong month.
	anchor := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	periods := make([]Period, 0, n)
	for i := n - 1; i >= 0; i-- {
		t := anchor.AddDate(0, -i, 0)
		periods = append(periods, Period{Month: utils.MonthName(t.Month()), Year: t.Year()})
	}
	return periods
}

// AvailableBeds counts the open places across rooms: an Available
// Single contributes one, an Available Double contributes its free
// places. Occupied and Maintenance rooms contribute nothing.
func AvailableBeds(rooms []models.Room) int {
	beds := 0
	for _, room := range rooms {
		if room.Status != models.RoomStatusAvailable {
			continue
		}
		free := room.Capacity() - len(room.Students)
		if free > 0 {
			beds += free
		}
	}
	return beds
}

// voucherCounts tallies Paid and Unpaid vouchers, optionally scoped to
// one student (studentID 0 means hostel-wide). Pending vouchers are in
// neither bucket.
func voucherCounts(db *gorm.DB, studentID uint) (paid, unpaid int64) {
	paidQ := db.Model(&models.Voucher{}).Where("status = ?", models.VoucherStatusPaid)
	unpaidQ := db.Model(&models.Voucher{}).Where("status = ?", models.VoucherStatusUnpaid)
	if studentID != 0 {
		paidQ = paidQ.Where("student_id = ?", studentID)
		unpaidQ = unpaidQ.Where("student_id = ?", studentID)
	}
	paidQ.Count(&paid)
	unpaidQ.Count(&unpaid)
	return paid, unpaid
}

// AdminDashboard aggregates hostel-wide counts. Individual lookups
// failing fall back to zero values rather than failing the whole
// response.
func (dc *DashboardController) AdminDashboard(c *fiber.Ctx) error {
	db := database.DB

	var totalStudents int64
	db.Model(&models.Student{}).Where("role = ?", models.RoleStudent).Count(&totalStudents)

	var rooms []models.Room
	db.Preload("Students").Find(&rooms)
	availableRooms := 0
	for _, room := range rooms {
		if room.Status == models.RoomStatusAvailable {
			availableRooms++
		}
	}

	var feesCollected int64
	db.Model(&models.Voucher{}).Where("status = ?", models.VoucherStatusPaid).
		Select("COALESCE(SUM(amount), 0)").Scan(&feesCollected)

	paidCount, unpaidCount := voucherCounts(db, 0)

	var suggestionCount int64
	db.Model(&models.Suggestion{}).Count(&suggestionCount)

	now := time.Now()
	paidByMonth := make([]fiber.Map, 0, 6)
	for _, p := range TrailingPeriods(now, 6) {
		var count int64
		var fee models.Fee
		if err := db.Where("month = ? AND year = ?", p.Month, p.Year).First(&fee).Error; err == nil {
			db.Model(&models.Voucher{}).
				Where("fee_id = ? AND status = ?", fee.ID, models.VoucherStatusPaid).
				Count(&count)
		}
		paidByMonth = append(paidByMonth, fiber.Map{
			"month": p.Month,
			"year":  p.Year,
			"paid":  count,
		})
	}

	registrations := make([]fiber.Map, 0, 6)
	for _, p := range TrailingPeriods(now, 6) {
		start := time.Date(p.Year, time.Month(utils.MonthIndex(p.Month)), 1, 0, 0, 0, 0, time.Local)
		end := start.AddDate(0, 1, 0)
		var count int64
		db.Model(&models.Student{}).
			Where("role = ? AND created_at >= ? AND created_at < ?", models.RoleStudent, start, end).
			Count(&count)
		registrations = append(registrations, fiber.Map{
			"month":         p.Month,
			"year":          p.Year,
			"registrations": count,
		})
	}

	return c.JSON(fiber.Map{
		"success":         true,
		"total_students":  totalStudents,
		"available_rooms": availableRooms,
		"available_beds":  AvailableBeds(rooms),
		"fees_collected":  feesCollected,
		"paid_count":      paidCount,
		"unpaid_count":    unpaidCount,
		"suggestions":     suggestionCount,
		"paid_by_month":   paidByMonth,
		"registrations":   registrations,
	})
}

// StudentDashboard aggregates one student's view: announcements,
// whether a room change is outstanding, the current period's fee
// status and lifetime paid/unpaid voucher counts.
func (dc *DashboardController) StudentDashboard(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return utils.BadRequest("Invalid student id")
	}
	if err := requireSelfOrAdminClaims(c, uint(id)); err != nil {
		return err
	}

	db := database.DB

	var student models.Student
	if err := db.First(&student, id).Error; err != nil {
		return utils.NotFound("Student not found!")
	}

	var announcementCount int64
	db.Model(&models.Announcement{}).Count(&announcementCount)

	paidCount, unpaidCount := voucherCounts(db, student.ID)

	return c.JSON(fiber.Map{
		"success":             true,
		"announcements":       announcementCount,
		"room_change_pending": student.RoomChangeRequestID != nil,
		"fee_status":          dc.billing.CurrentFeeStatus(student.ID),
		"paid_count":          paidCount,
		"unpaid_count":        unpaidCount,
	})
}
