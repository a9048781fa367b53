package controllers

import (
	"testing"
	"time"

	"hostelhub_go/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestTrailingPeriods(t *testing.T) {
	tests := []struct {
		name  string
		now   time.Time
		n     int
		first Period
		last  Period
	}{
		{
			name:  "mid year",
			now:   time.Date(2026, time.August, 15, 0, 0, 0, 0, time.UTC),
			n:     6,
			first: Period{Month: "March", Year: 2026},
			last:  Period{Month: "August", Year: 2026},
		},
		{
			name:  "spans year boundary",
			now:   time.Date(2026, time.February, 10, 0, 0, 0, 0, time.UTC),
			n:     6,
			first: Period{Month: "September", Year: 2025},
			last:  Period{Month: "February", Year: 2026},
		},
		{
			name:  "january start",
			now:   time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
			n:     3,
			first: Period{Month: "November", Year: 2025},
			last:  Period{Month: "January", Year: 2026},
		},
		{
			name:  "month end does not overflow",
			now:   time.Date(2026, time.July, 31, 23, 0, 0, 0, time.UTC),
			n:     6,
			first: Period{Month: "February", Year: 2026},
			last:  Period{Month: "July", Year: 2026},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			periods := TrailingPeriods(tc.now, tc.n)
			if len(periods) != tc.n {
				t.Fatalf("expected %d periods, got %d", tc.n, len(periods))
			}
			if periods[0] != tc.first {
				t.Fatalf("expected first period %+v, got %+v", tc.first, periods[0])
			}
			if periods[len(periods)-1] != tc.last {
				t.Fatalf("expected last period %+v, got %+v", tc.last, periods[len(periods)-1])
			}
		})
	}
}

func TestTrailingPeriodsConsecutive(t *testing.T) {
	now := time.Date(2026, time.March, 29, 0, 0, 0, 0, time.UTC)
	periods := TrailingPeriods(now, 12)

	for i := 1; i < len(periods); i++ {
		prev := time.Date(periods[i-1].Year, monthOf(t, periods[i-1].Month), 1, 0, 0, 0, 0, time.UTC)
		cur := time.Date(periods[i].Year, monthOf(t, periods[i].Month), 1, 0, 0, 0, 0, time.UTC)
		if !prev.AddDate(0, 1, 0).Equal(cur) {
			t.Fatalf("periods not consecutive: %+v then %+v", periods[i-1], periods[i])
		}
	}
}

func monthOf(t *testing.T, name string) time.Month {
	t.Helper()
	parsed, err := time.Parse("January", name)
	if err != nil {
		t.Fatalf("invalid month name %q", name)
	}
	return parsed.Month()
}

func TestAvailableBeds(t *testing.T) {
	occupied := func(n int) []models.Student {
		return make([]models.Student, n)
	}

	tests := []struct {
		name     string
		rooms    []models.Room
		expected int
	}{
		{
			name:     "no rooms",
			rooms:    nil,
			expected: 0,
		},
		{
			name: "empty single and double",
			rooms: []models.Room{
				{RoomType: models.RoomTypeSingle, Status: models.RoomStatusAvailable},
				{RoomType: models.RoomTypeDouble, Status: models.RoomStatusAvailable},
			},
			expected: 3,
		},
		{
			name: "half full double contributes one",
			rooms: []models.Room{
				{RoomType: models.RoomTypeDouble, Status: models.RoomStatusAvailable, Students: occupied(1)},
			},
			expected: 1,
		},
		{
			name: "occupied and maintenance contribute nothing",
			rooms: []models.Room{
				{RoomType: models.RoomTypeSingle, Status: models.RoomStatusOccupied, Students: occupied(1)},
				{RoomType: models.RoomTypeDouble, Status: models.RoomStatusMaintenance},
			},
			expected: 0,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := AvailableBeds(tc.rooms); got != tc.expected {
				t.Fatalf("expected %d beds, got %d", tc.expected, got)
			}
		})
	}
}

func TestVoucherCounts(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&models.Voucher{}); err != nil {
		t.Fatalf("failed to migrate test schema: %v", err)
	}

	seed := []models.Voucher{
		{FeeID: 1, StudentID: 1, Amount: 100, DueDate: time.Now(), Status: models.VoucherStatusPaid},
		{FeeID: 1, StudentID: 2, Amount: 100, DueDate: time.Now(), Status: models.VoucherStatusUnpaid},
		{FeeID: 1, StudentID: 3, Amount: 100, DueDate: time.Now(), Status: models.VoucherStatusPending},
		{FeeID: 2, StudentID: 1, Amount: 100, DueDate: time.Now(), Status: models.VoucherStatusPaid},
	}
	for i := range seed {
		if err := db.Create(&seed[i]).Error; err != nil {
			t.Fatalf("failed to seed voucher: %v", err)
		}
	}

	paid, unpaid := voucherCounts(db, 0)
	if paid != 2 || unpaid != 1 {
		t.Fatalf("hostel-wide counts: expected paid=2 unpaid=1, got paid=%d unpaid=%d", paid, unpaid)
	}

	// A Pending voucher counts as neither paid nor unpaid.
	paid, unpaid = voucherCounts(db, 3)
	if paid != 0 || unpaid != 0 {
		t.Fatalf("pending-only student: expected paid=0 unpaid=0, got paid=%d unpaid=%d", paid, unpaid)
	}

	paid, unpaid = voucherCounts(db, 1)
	if paid != 2 || unpaid != 0 {
		t.Fatalf("student 1: expected paid=2 unpaid=0, got paid=%d unpaid=%d", paid, unpaid)
	}
}
