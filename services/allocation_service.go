package services

import (
	"errors"
	"time"

	"hostelhub_go/database"
	"hostelhub_go/models"
	"hostelhub_go/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AllocationService orchestrates room-change requests, approvals and
// occupancy bookkeeping. Every multi-entity mutation runs inside a
// single transaction with the touched rows locked FOR UPDATE, so a pair
// of concurrent approvals cannot both pass the capacity check.
type AllocationService struct {
	db *gorm.DB
}

func NewAllocationService() *AllocationService {
	return &AllocationService{db: database.GetDB()}
}

// forUpdate adds a row lock on engines that support it. SQLite has no
// FOR UPDATE syntax; its writes serialize on the database lock instead.
func forUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// CapacityFor returns the bed count implied by a room type.
func CapacityFor(roomType string) int {
	if roomType == models.RoomTypeDouble {
		return 2
	}
	return 1
}

// RecomputeRoomStatus derives a room's status from its occupant count.
// Maintenance is sticky: it is only ever cleared by an explicit status
// update, never by occupancy changes.
func RecomputeRoomStatus(roomType, current string, occupants int) string {
	if current == models.RoomStatusMaintenance {
		return models.RoomStatusMaintenance
	}
	if occupants >= CapacityFor(roomType) {
		return models.RoomStatusOccupied
	}
	return models.RoomStatusAvailable
}

// RoomRequestView is the admin approval-queue row: the requesting
// student joined with the requested room and their current-month fee
// status.
type RoomRequestView struct {
	StudentID uint   `json:"student_id"`
	RoomID    uint   `json:"room_id"`
	Email     string `json:"email"`
	FeeStatus string `json:"fee_status"`
	RoomNo    int    `json:"room_no"`
	RoomPrice int    `json:"room_price"`
}

// RequestRoomChange records a student's intent to move into the room
// with the given number. The room itself is untouched until approval.
func (s *AllocationService) RequestRoomChange(studentID uint, roomNo int) (*models.Student, error) {
	var student models.Student
	if err := s.db.First(&student, studentID).Error; err != nil {
		return nil, utils.NotFound("Student not found!")
	}

	var room models.Room
	if err := s.db.Where("room_no = ?", roomNo).First(&room).Error; err != nil {
		return nil, utils.NotFound("Room not found!")
	}

	if room.Status != models.RoomStatusAvailable {
		return nil, utils.Conflict("Room not available!")
	}
	if student.RoomID != nil && *student.RoomID == room.ID {
		return nil, utils.Conflict("Student already occupies this room!")
	}

	student.RoomChangeRequestID = &room.ID
	if err := s.db.Save(&student).Error; err != nil {
		return nil, err
	}
	return &student, nil
}

// DecideRequest approves or rejects a pending room-change request. A
// rejection only clears the request. An approval vacates the student's
// previous room (if any), assigns the new one and recomputes both room
// statuses, all within one transaction.
func (s *AllocationService) DecideRequest(studentID, roomID uint, approved bool) (*models.Student, error) {
	var student models.Student

	if !approved {
		if err := s.db.First(&student, studentID).Error; err != nil {
			return nil, utils.NotFound("Student not found!")
		}
		student.RoomChangeRequestID = nil
		if err := s.db.Save(&student).Error; err != nil {
			return nil, err
		}
		return &student, nil
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := forUpdate(tx).First(&student, studentID).Error; err != nil {
			return utils.NotFound("Student not found!")
		}
		if student.RoomChangeRequestID == nil {
			return utils.InvalidState("Student has no room-change request outstanding!")
		}
		if *student.RoomChangeRequestID != roomID {
			return utils.Conflict("Request does not match the given room!")
		}

		var room models.Room
		if err := forUpdate(tx).First(&room, roomID).Error; err != nil {
			return utils.NotFound("Room not found!")
		}
		if room.Status == models.RoomStatusMaintenance {
			return utils.Conflict("Room not available!")
		}
		if student.RoomID != nil && *student.RoomID == room.ID {
			return utils.Conflict("Student already exists in this room!")
		}

		occupants, err := occupantCount(tx, room.ID)
		if err != nil {
			return err
		}
		if occupants >= room.Capacity() {
			return utils.Conflict("Room not available!")
		}

		// Vacate the previous room before occupying the new one.
		if student.RoomID != nil {
			if err := vacateRoom(tx, *student.RoomID, student.ID); err != nil {
				return err
			}
		}

		student.RoomID = &room.ID
		student.RoomChangeRequestID = nil
		if err := tx.Save(&student).Error; err != nil {
			return err
		}

		room.Status = RecomputeRoomStatus(room.RoomType, room.Status, occupants+1)
		return tx.Save(&room).Error
	})
	if err != nil {
		return nil, err
	}
	return &student, nil
}

// RemoveStudent detaches a student from a room and recomputes the
// room's status. Both the direct admin path and approval-driven moves
// go through the same recompute.
func (s *AllocationService) RemoveStudent(roomID, studentID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var student models.Student
		if err := forUpdate(tx).First(&student, studentID).Error; err != nil {
			return utils.NotFound("Student not found!")
		}

		var room models.Room
		if err := forUpdate(tx).First(&room, roomID).Error; err != nil {
			return utils.NotFound("Room not found!")
		}

		if student.RoomID == nil || *student.RoomID != room.ID {
			return utils.InvalidState("Student is not an occupant of this room!")
		}

		student.RoomID = nil
		if err := tx.Save(&student).Error; err != nil {
			return err
		}

		occupants, err := occupantCount(tx, room.ID)
		if err != nil {
			return err
		}
		room.Status = RecomputeRoomStatus(room.RoomType, room.Status, occupants)
		return tx.Save(&room).Error
	})
}

// AddStudent assigns the student with the given email to a room
// directly (admin action, no request involved).
func (s *AllocationService) AddStudent(roomID uint, email string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var student models.Student
		if err := forUpdate(tx).Where("email = ?", email).First(&student).Error; err != nil {
			return utils.NotFound("Student not found!")
		}

		var room models.Room
		if err := forUpdate(tx).First(&room, roomID).Error; err != nil {
			return utils.NotFound("Room not found!")
		}

		if room.Status != models.RoomStatusAvailable {
			return utils.Conflict("Room not available!")
		}
		if student.RoomID != nil && *student.RoomID == room.ID {
			return utils.Conflict("Student already exists in this room!")
		}

		occupants, err := occupantCount(tx, room.ID)
		if err != nil {
			return err
		}
		if occupants >= room.Capacity() {
			return utils.Conflict("Room not available!")
		}

		if student.RoomID != nil {
			if err := vacateRoom(tx, *student.RoomID, student.ID); err != nil {
				return err
			}
		}

		student.RoomID = &room.ID
		// A pending request for this very room is now moot.
		if student.RoomChangeRequestID != nil && *student.RoomChangeRequestID == room.ID {
			student.RoomChangeRequestID = nil
		}
		if err := tx.Save(&student).Error; err != nil {
			return err
		}

		room.Status = RecomputeRoomStatus(room.RoomType, room.Status, occupants+1)
		return tx.Save(&room).Error
	})
}

// PendingRequests lists every outstanding room-change request joined
// with the requested room and the student's current-month fee status.
// Missing fee data renders as "N/A" instead of failing the listing.
func (s *AllocationService) PendingRequests() ([]RoomRequestView, error) {
	var students []models.Student
	if err := s.db.Preload("RequestedRoom").
		Where("room_change_request_id IS NOT NULL").
		Find(&students).Error; err != nil {
		return nil, err
	}
	if len(students) == 0 {
		return nil, utils.NotFound("Requested students not found!")
	}

	month, year := utils.CurrentPeriod(time.Now())
	var fee models.Fee
	feeFound := s.db.Where("month = ? AND year = ?", month, year).First(&fee).Error == nil

	views := make([]RoomRequestView, 0, len(students))
	for _, student := range students {
		if student.RequestedRoom == nil {
			// Dangling request reference: skip rather than fail the queue.
			continue
		}
		feeStatus := utils.NA
		if feeFound {
			var voucher models.Voucher
			if err := s.db.Where("fee_id = ? AND student_id = ?", fee.ID, student.ID).
				First(&voucher).Error; err == nil {
				feeStatus = voucher.Status
			}
		}
		views = append(views, RoomRequestView{
			StudentID: student.ID,
			RoomID:    student.RequestedRoom.ID,
			Email:     student.Email,
			FeeStatus: feeStatus,
			RoomNo:    student.RequestedRoom.RoomNo,
			RoomPrice: student.RequestedRoom.Price,
		})
	}
	if len(views) == 0 {
		return nil, utils.NotFound("Requested students not found!")
	}
	return views, nil
}

// DeleteRoom removes a room and clears every student reference to it,
// so no dangling room ids survive the delete. The delete is hard: a
// soft-deleted row would keep holding the unique room number and block
// re-creating it.
func (s *AllocationService) DeleteRoom(roomID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var room models.Room
		if err := forUpdate(tx).First(&room, roomID).Error; err != nil {
			return utils.NotFound("Room not found!")
		}

		if err := tx.Model(&models.Student{}).
			Where("room_id = ?", room.ID).
			Update("room_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Student{}).
			Where("room_change_request_id = ?", room.ID).
			Update("room_change_request_id", nil).Error; err != nil {
			return err
		}

		return tx.Unscoped().Delete(&room).Error
	})
}

// DeleteStudent removes a student, detaching them from their room first
// and recomputing that room's status. Hard delete, so the email becomes
// free for a fresh signup.
func (s *AllocationService) DeleteStudent(studentID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var student models.Student
		if err := forUpdate(tx).First(&student, studentID).Error; err != nil {
			return utils.NotFound("Student not found!")
		}

		if student.RoomID != nil {
			if err := vacateRoom(tx, *student.RoomID, student.ID); err != nil {
				// A dangling room reference must not block the delete.
				var appErr *utils.AppError
				if !errors.As(err, &appErr) || appErr.Status != 404 {
					return err
				}
			}
		}

		return tx.Unscoped().Delete(&student).Error
	})
}

// vacateRoom recomputes a room's status as if the given student had
// already left it. The caller is responsible for clearing the student's
// own room reference.
func vacateRoom(tx *gorm.DB, roomID, studentID uint) error {
	var room models.Room
	if err := forUpdate(tx).First(&room, roomID).Error; err != nil {
		return utils.NotFound("Room not found!")
	}
	occupants, err := occupantCount(tx, room.ID, studentID)
	if err != nil {
		return err
	}
	room.Status = RecomputeRoomStatus(room.RoomType, room.Status, occupants)
	return tx.Save(&room).Error
}

// occupantCount counts students assigned to a room, optionally
// excluding ids (used when a student is mid-move).
func occupantCount(tx *gorm.DB, roomID uint, excluding ...uint) (int, error) {
	var count int64
	q := tx.Model(&models.Student{}).Where("room_id = ?", roomID)
	if len(excluding) > 0 {
		q = q.Where("id NOT IN ?", excluding)
	}
	if err := q.Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}
