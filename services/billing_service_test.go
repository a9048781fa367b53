package services

import (
	"testing"

	"hostelhub_go/models"
	"hostelhub_go/utils"
)

func TestVoucherAmount(t *testing.T) {
	tests := []struct {
		name      string
		roomPrice int
		feeAmount int
		expected  int
	}{
		{name: "room plus surcharge", roomPrice: 12000, feeAmount: 1500, expected: 13500},
		{name: "zero surcharge", roomPrice: 8000, feeAmount: 0, expected: 8000},
		{name: "surcharge only", roomPrice: 0, feeAmount: 500, expected: 500},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := VoucherAmount(tc.roomPrice, tc.feeAmount); got != tc.expected {
				t.Fatalf("expected %d, got %d", tc.expected, got)
			}
		})
	}
}

func TestGenerateVoucher(t *testing.T) {
	db := newTestDB(t)
	svc := &BillingService{db: db}

	fee := createCurrentFee(t, db, 1500)
	room := createTestRoom(t, db, 401, models.RoomTypeSingle)
	student := createTestStudent(t, db, "voucher@test.com", &room.ID)

	view, err := svc.GenerateVoucher(student.ID)
	if err != nil {
		t.Fatalf("generation failed: %v", err)
	}
	if view.Amount != VoucherAmount(room.Price, fee.Amount) {
		t.Fatalf("expected amount %d, got %d", VoucherAmount(room.Price, fee.Amount), view.Amount)
	}
	if view.Status != models.VoucherStatusPending {
		t.Fatalf("new voucher should be Pending, got %q", view.Status)
	}
	if view.Month != fee.Month || view.Year != fee.Year {
		t.Fatalf("voucher period %s %d does not match fee period %s %d",
			view.Month, view.Year, fee.Month, fee.Year)
	}

	if status := svc.CurrentFeeStatus(student.ID); status != models.VoucherStatusPending {
		t.Fatalf("fee status should be Pending, got %q", status)
	}
}

func TestGenerateVoucherTwiceConflicts(t *testing.T) {
	db := newTestDB(t)
	svc := &BillingService{db: db}

	createCurrentFee(t, db, 1500)
	room := createTestRoom(t, db, 402, models.RoomTypeSingle)
	student := createTestStudent(t, db, "twice@test.com", &room.ID)

	if _, err := svc.GenerateVoucher(student.ID); err != nil {
		t.Fatalf("first generation failed: %v", err)
	}
	_, err := svc.GenerateVoucher(student.ID)
	appErr := expectAppError(t, err, 409)
	if appErr.Message != "Voucher already generated for this month!" {
		t.Fatalf("unexpected message %q", appErr.Message)
	}

	var count int64
	db.Model(&models.Voucher{}).Where("student_id = ?", student.ID).Count(&count)
	if count != 1 {
		t.Fatalf("expected exactly one voucher, got %d", count)
	}
}

func TestGenerateVoucherRequiresRoom(t *testing.T) {
	db := newTestDB(t)
	svc := &BillingService{db: db}

	createCurrentFee(t, db, 1500)
	student := createTestStudent(t, db, "roomless@test.com", nil)

	_, err := svc.GenerateVoucher(student.ID)
	expectAppError(t, err, 422)
}

func TestGenerateVoucherRequiresCurrentFee(t *testing.T) {
	db := newTestDB(t)
	svc := &BillingService{db: db}

	room := createTestRoom(t, db, 403, models.RoomTypeSingle)
	student := createTestStudent(t, db, "nofee@test.com", &room.ID)

	_, err := svc.GenerateVoucher(student.ID)
	expectAppError(t, err, 404)
}

func TestCurrentFeeStatusDefaultsToNA(t *testing.T) {
	db := newTestDB(t)
	svc := &BillingService{db: db}

	student := createTestStudent(t, db, "nostatus@test.com", nil)
	if status := svc.CurrentFeeStatus(student.ID); status != utils.NA {
		t.Fatalf("expected %q, got %q", utils.NA, status)
	}
}
