package utils

import (
	"testing"

	"hostelhub_go/models"
)

func TestRefString(t *testing.T) {
	if got := RefString(nil); got != NA {
		t.Fatalf("nil ref should render as %q, got %q", NA, got)
	}
	id := uint(42)
	if got := RefString(&id); got != "42" {
		t.Fatalf("expected \"42\", got %q", got)
	}
}

func TestToStudentDTOUnassigned(t *testing.T) {
	student := models.Student{
		Name:  "Amina",
		Email: "amina@example.com",
	}

	dto := ToStudentDTO(student, nil, "")

	if dto.RoomID != NA || dto.RoomNo != NA || dto.RoomType != NA {
		t.Fatalf("unassigned student should render N/A room fields, got %+v", dto)
	}
	if dto.RoomChangeRequest != NA {
		t.Fatalf("no request should render as %q, got %q", NA, dto.RoomChangeRequest)
	}
	if dto.FeeStatus != NA {
		t.Fatalf("empty fee status should default to %q, got %q", NA, dto.FeeStatus)
	}
}

func TestToStudentDTOWithRoom(t *testing.T) {
	roomID := uint(7)
	student := models.Student{
		Name:   "Bilal",
		Email:  "bilal@example.com",
		RoomID: &roomID,
	}
	room := models.Room{
		RoomNo:   204,
		RoomType: models.RoomTypeDouble,
		Status:   models.RoomStatusAvailable,
		Price:    8000,
	}

	dto := ToStudentDTO(student, &room, models.VoucherStatusPaid)

	if dto.RoomID != "7" {
		t.Fatalf("expected room id \"7\", got %q", dto.RoomID)
	}
	if dto.RoomNo != "204" || dto.RoomType != models.RoomTypeDouble {
		t.Fatalf("room fields not flattened: %+v", dto)
	}
	if dto.RoomPrice != 8000 {
		t.Fatalf("expected price 8000, got %d", dto.RoomPrice)
	}
	if dto.FeeStatus != models.VoucherStatusPaid {
		t.Fatalf("expected fee status %q, got %q", models.VoucherStatusPaid, dto.FeeStatus)
	}
}

func TestToStudentDTODanglingRoom(t *testing.T) {
	// Reference set but the room row is gone: render N/A, don't fail.
	roomID := uint(99)
	student := models.Student{RoomID: &roomID}

	dto := ToStudentDTO(student, nil, NA)

	if dto.RoomID != "99" {
		t.Fatalf("raw reference should still render, got %q", dto.RoomID)
	}
	if dto.RoomNo != NA || dto.RoomType != NA {
		t.Fatalf("dangling room should render N/A details, got %+v", dto)
	}
}
