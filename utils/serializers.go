package utils

import (
	"strconv"
	"time"

	"hostelhub_go/models"
)

// NA is the display placeholder for absent references. Storage uses
// nullable foreign keys; listings keep rendering "N/A" so clients built
// against the old payloads stay working even with dangling references.
const NA = "N/A"

// StudentDTO is the student payload with room fields flattened in.
type StudentDTO struct {
	ID                uint       `json:"id"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
	Name              string     `json:"name"`
	Email             string     `json:"email"`
	ProfileURL        string     `json:"profile_url"`
	College           string     `json:"college"`
	Course            string     `json:"course"`
	Hostel            string     `json:"hostel"`
	Role              string     `json:"role"`
	Verified          bool       `json:"verified"`
	RoomID            string     `json:"room_id"`
	RoomChangeRequest string     `json:"room_change_request"`
	RoomBookedUntil   *time.Time `json:"room_booked_until,omitempty"`
	RoomNo            string     `json:"room_no"`
	RoomType          string     `json:"room_type"`
	RoomStatus        string     `json:"room_status,omitempty"`
	RoomPrice         int        `json:"room_price,omitempty"`
	FeeStatus         string     `json:"fee_status"`
}

// ToStudentDTO flattens a student and their (possibly absent) room into
// the wire shape. A nil or dangling room renders as "N/A" throughout.
func ToStudentDTO(s models.Student, room *models.Room, feeStatus string) StudentDTO {
	dto := StudentDTO{
		ID:                s.ID,
		CreatedAt:         s.CreatedAt,
		UpdatedAt:         s.UpdatedAt,
		Name:              s.Name,
		Email:             s.Email,
		ProfileURL:        s.ProfileURL,
		College:           s.College,
		Course:            s.Course,
		Hostel:            s.Hostel,
		Role:              s.Role,
		Verified:          s.Verified,
		RoomID:            RefString(s.RoomID),
		RoomChangeRequest: RefString(s.RoomChangeRequestID),
		RoomBookedUntil:   s.RoomBookedUntil,
		RoomNo:            NA,
		RoomType:          NA,
		FeeStatus:         feeStatus,
	}
	if dto.FeeStatus == "" {
		dto.FeeStatus = NA
	}
	if room != nil {
		dto.RoomNo = IntString(room.RoomNo)
		dto.RoomType = room.RoomType
		dto.RoomStatus = room.Status
		dto.RoomPrice = room.Price
	}
	return dto
}

// RefString renders a nullable reference as its id or "N/A".
func RefString(id *uint) string {
	if id == nil {
		return NA
	}
	return strconv.FormatUint(uint64(*id), 10)
}

// IntString formats an int in base 10.
func IntString(v int) string {
	return strconv.Itoa(v)
}
