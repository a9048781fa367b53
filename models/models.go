package models

import (
	"database/sql/driver"
	"time"

	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// JSON field type for GORM
type JSON []byte

func (j JSON) Value() (driver.Value, error) {
	if j.IsNull() {
		return nil, nil
	}
	return string(j), nil
}

func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	s, ok := value.([]byte)
	if !ok {
		return nil
	}
	*j = append((*j)[0:0], s...)
	return nil
}

func (j JSON) MarshalJSON() ([]byte, error) {
	if j == nil {
		return []byte("null"), nil
	}
	return j, nil
}

func (j *JSON) UnmarshalJSON(data []byte) error {
	if j == nil {
		return nil
	}
	*j = append((*j)[0:0], data...)
	return nil
}

func (j JSON) IsNull() bool {
	return len(j) == 0 || string(j) == "null"
}

// Room types and statuses
const (
	RoomTypeSingle = "Single"
	RoomTypeDouble = "Double"

	RoomStatusAvailable   = "Available"
	RoomStatusOccupied    = "Occupied"
	RoomStatusMaintenance = "Maintenance"
)

// Voucher statuses
const (
	VoucherStatusPending = "Pending"
	VoucherStatusUnpaid  = "Unpaid"
	VoucherStatusPaid    = "Paid"
)

// Student roles
const (
	RoleAdmin   = "admin"
	RoleStudent = "student"
)

// Student model. RoomID and RoomChangeRequestID are nullable references:
// nil RoomID means the student is unassigned, nil RoomChangeRequestID
// means no request is outstanding. A consistent record never has both
// fields pointing at the same room.
type Student struct {
	BaseModel
	Name                string     `json:"name" gorm:"size:255;not null"`
	Email               string     `json:"email" gorm:"size:255;not null;uniqueIndex"`
	Password            string     `json:"-" gorm:"size:255;not null"`
	ProfileURL          string     `json:"profile_url" gorm:"size:500"`
	College             string     `json:"college" gorm:"size:100;not null"`
	Course              string     `json:"course" gorm:"size:100;not null"`
	Hostel              string     `json:"hostel" gorm:"size:50;not null"`
	Role                string     `json:"role" gorm:"size:50;not null;default:'student'"`
	Verified            bool       `json:"verified" gorm:"default:false"`
	RoomID              *uint      `json:"room_id"`
	RoomChangeRequestID *uint      `json:"room_change_request"`
	RoomBookedUntil     *time.Time `json:"room_booked_until"`

	// Relationships
	Room          *Room `json:"room,omitempty" gorm:"foreignKey:RoomID"`
	RequestedRoom *Room `json:"requested_room,omitempty" gorm:"foreignKey:RoomChangeRequestID"`
}

// Room model. Occupants are the students whose RoomID references this
// room; the count is bounded by the capacity implied by RoomType.
type Room struct {
	BaseModel
	RoomNo   int    `json:"room_no" gorm:"not null;uniqueIndex"`
	RoomType string `json:"room_type" gorm:"size:50;not null"`
	Status   string `json:"status" gorm:"size:50;not null;default:'Available'"`
	Price    int    `json:"price" gorm:"not null"`

	// Relationships
	Students []Student `json:"students,omitempty" gorm:"foreignKey:RoomID"`
}

// Capacity returns the number of beds implied by the room type.
func (r *Room) Capacity() int {
	if r.RoomType == RoomTypeDouble {
		return 2
	}
	return 1
}

// Fee model: one entry per (month, year) defining the hostel-wide
// surcharge and due date shared by all vouchers of that period.
type Fee struct {
	BaseModel
	Month      string    `json:"month" gorm:"size:20;not null;uniqueIndex:idx_fee_period"`
	Year       int       `json:"year" gorm:"not null;uniqueIndex:idx_fee_period"`
	Amount     int       `json:"amount" gorm:"not null"`
	DueDate    time.Time `json:"due_date" gorm:"not null"`
	ConsumerID string    `json:"consumer_id" gorm:"size:100;not null"`
}

// Voucher model. Amount and DueDate are captured at generation time
// from the room price and the fee entry; they are not recomputed later.
// The composite unique index enforces at most one voucher per
// (student, fee period) pair at the database level.
type Voucher struct {
	BaseModel
	FeeID     uint      `json:"fee_id" gorm:"not null;uniqueIndex:idx_voucher_period"`
	StudentID uint      `json:"student_id" gorm:"not null;uniqueIndex:idx_voucher_period"`
	Amount    int       `json:"amount" gorm:"not null"`
	DueDate   time.Time `json:"due_date" gorm:"not null"`
	Status    string    `json:"status" gorm:"size:50;not null;default:'Pending'"`

	// Relationships
	Fee     Fee     `json:"fee,omitempty" gorm:"foreignKey:FeeID"`
	Student Student `json:"student,omitempty" gorm:"foreignKey:StudentID"`
}

// Announcement model
type Announcement struct {
	BaseModel
	Title       string    `json:"title" gorm:"size:255;not null"`
	Date        time.Time `json:"date" gorm:"not null"`
	Description string    `json:"description" gorm:"type:text;not null"`
}

// Suggestion model
type Suggestion struct {
	BaseModel
	StudentID uint   `json:"student_id" gorm:"not null"`
	Title     string `json:"title" gorm:"size:255;not null"`
	Message   string `json:"message" gorm:"type:text;not null"`

	// Relationships
	Student Student `json:"student,omitempty" gorm:"foreignKey:StudentID"`
}

// Log model for activity tracking
type ActivityLog struct {
	BaseModel
	StudentID  uint   `json:"student_id"`
	Action     string `json:"action" gorm:"size:100;not null"`
	Resource   string `json:"resource" gorm:"size:100;not null"`
	ResourceID uint   `json:"resource_id"`
	Details    JSON   `json:"details" gorm:"type:json"`
	IPAddress  string `json:"ip_address" gorm:"size:45"`
	UserAgent  string `json:"user_agent" gorm:"size:500"`
}
