package services

import (
	"testing"

	"hostelhub_go/models"
)

func TestCapacityFor(t *testing.T) {
	tests := []struct {
		name     string
		roomType string
		expected int
	}{
		{name: "single", roomType: models.RoomTypeSingle, expected: 1},
		{name: "double", roomType: models.RoomTypeDouble, expected: 2},
		{name: "unknown defaults to single", roomType: "Triple", expected: 1},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := CapacityFor(tc.roomType); got != tc.expected {
				t.Fatalf("expected capacity %d, got %d", tc.expected, got)
			}
		})
	}
}

func TestRecomputeRoomStatus(t *testing.T) {
	tests := []struct {
		name      string
		roomType  string
		current   string
		occupants int
		expected  string
	}{
		{
			name:      "empty single is available",
			roomType:  models.RoomTypeSingle,
			current:   models.RoomStatusOccupied,
			occupants: 0,
			expected:  models.RoomStatusAvailable,
		},
		{
			name:      "full single is occupied",
			roomType:  models.RoomTypeSingle,
			current:   models.RoomStatusAvailable,
			occupants: 1,
			expected:  models.RoomStatusOccupied,
		},
		{
			name:      "double with one student stays available",
			roomType:  models.RoomTypeDouble,
			current:   models.RoomStatusAvailable,
			occupants: 1,
			expected:  models.RoomStatusAvailable,
		},
		{
			name:      "double with two students is occupied",
			roomType:  models.RoomTypeDouble,
			current:   models.RoomStatusAvailable,
			occupants: 2,
			expected:  models.RoomStatusOccupied,
		},
		{
			name:      "occupied double frees a bed",
			roomType:  models.RoomTypeDouble,
			current:   models.RoomStatusOccupied,
			occupants: 1,
			expected:  models.RoomStatusAvailable,
		},
		{
			name:      "maintenance survives vacating",
			roomType:  models.RoomTypeDouble,
			current:   models.RoomStatusMaintenance,
			occupants: 0,
			expected:  models.RoomStatusMaintenance,
		},
		{
			name:      "maintenance survives occupancy",
			roomType:  models.RoomTypeSingle,
			current:   models.RoomStatusMaintenance,
			occupants: 1,
			expected:  models.RoomStatusMaintenance,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got := RecomputeRoomStatus(tc.roomType, tc.current, tc.occupants)
			if got != tc.expected {
				t.Fatalf("expected %q, got %q", tc.expected, got)
			}
		})
	}
}

func TestDecideRequestApproveGuards(t *testing.T) {
	t.Run("conflict when room is at capacity", func(t *testing.T) {
		db := newTestDB(t)
		svc := &AllocationService{db: db}

		room := createTestRoom(t, db, 101, models.RoomTypeSingle)
		createTestStudent(t, db, "occupant@test.com", &room.ID)
		room.Status = RecomputeRoomStatus(room.RoomType, room.Status, 1)
		if err := db.Save(room).Error; err != nil {
			t.Fatalf("failed to save room: %v", err)
		}

		requester := createTestStudent(t, db, "requester@test.com", nil)
		requester.RoomChangeRequestID = &room.ID
		if err := db.Save(requester).Error; err != nil {
			t.Fatalf("failed to save requester: %v", err)
		}

		_, err := svc.DecideRequest(requester.ID, room.ID, true)
		appErr := expectAppError(t, err, 409)
		if appErr.Message != "Room not available!" {
			t.Fatalf("unexpected message %q", appErr.Message)
		}

		var fresh models.Student
		if err := db.First(&fresh, requester.ID).Error; err != nil {
			t.Fatalf("failed to reload requester: %v", err)
		}
		if fresh.RoomID != nil {
			t.Fatal("requester must not be assigned after a failed approval")
		}
	})

	t.Run("conflict when student already occupies the room", func(t *testing.T) {
		db := newTestDB(t)
		svc := &AllocationService{db: db}

		room := createTestRoom(t, db, 201, models.RoomTypeDouble)
		student := createTestStudent(t, db, "double@test.com", &room.ID)
		student.RoomChangeRequestID = &room.ID
		if err := db.Save(student).Error; err != nil {
			t.Fatalf("failed to save student: %v", err)
		}

		_, err := svc.DecideRequest(student.ID, room.ID, true)
		appErr := expectAppError(t, err, 409)
		if appErr.Message != "Student already exists in this room!" {
			t.Fatalf("unexpected message %q", appErr.Message)
		}
	})

	t.Run("conflict when room is under maintenance", func(t *testing.T) {
		db := newTestDB(t)
		svc := &AllocationService{db: db}

		room := createTestRoom(t, db, 301, models.RoomTypeSingle)
		room.Status = models.RoomStatusMaintenance
		if err := db.Save(room).Error; err != nil {
			t.Fatalf("failed to save room: %v", err)
		}

		student := createTestStudent(t, db, "maint@test.com", nil)
		student.RoomChangeRequestID = &room.ID
		if err := db.Save(student).Error; err != nil {
			t.Fatalf("failed to save student: %v", err)
		}

		_, err := svc.DecideRequest(student.ID, room.ID, true)
		expectAppError(t, err, 409)
	})
}

func TestDecideRequestApproveMovesStudent(t *testing.T) {
	db := newTestDB(t)
	svc := &AllocationService{db: db}

	oldRoom := createTestRoom(t, db, 102, models.RoomTypeSingle)
	newRoom := createTestRoom(t, db, 202, models.RoomTypeDouble)

	student := createTestStudent(t, db, "mover@test.com", &oldRoom.ID)
	oldRoom.Status = models.RoomStatusOccupied
	if err := db.Save(oldRoom).Error; err != nil {
		t.Fatalf("failed to save old room: %v", err)
	}
	student.RoomChangeRequestID = &newRoom.ID
	if err := db.Save(student).Error; err != nil {
		t.Fatalf("failed to save student: %v", err)
	}

	moved, err := svc.DecideRequest(student.ID, newRoom.ID, true)
	if err != nil {
		t.Fatalf("approval failed: %v", err)
	}
	if moved.RoomID == nil || *moved.RoomID != newRoom.ID {
		t.Fatal("student must be assigned to the requested room")
	}
	if moved.RoomChangeRequestID != nil {
		t.Fatal("request must be cleared after approval")
	}

	var vacated, occupied models.Room
	if err := db.First(&vacated, oldRoom.ID).Error; err != nil {
		t.Fatalf("failed to reload old room: %v", err)
	}
	if err := db.First(&occupied, newRoom.ID).Error; err != nil {
		t.Fatalf("failed to reload new room: %v", err)
	}
	if vacated.Status != models.RoomStatusAvailable {
		t.Fatalf("vacated room should be Available, got %q", vacated.Status)
	}
	if occupied.Status != models.RoomStatusAvailable {
		t.Fatalf("half-full double should stay Available, got %q", occupied.Status)
	}
}

func TestDecideRequestReject(t *testing.T) {
	db := newTestDB(t)
	svc := &AllocationService{db: db}

	room := createTestRoom(t, db, 103, models.RoomTypeSingle)
	student := createTestStudent(t, db, "reject@test.com", nil)
	student.RoomChangeRequestID = &room.ID
	if err := db.Save(student).Error; err != nil {
		t.Fatalf("failed to save student: %v", err)
	}

	cleared, err := svc.DecideRequest(student.ID, room.ID, false)
	if err != nil {
		t.Fatalf("rejection failed: %v", err)
	}
	if cleared.RoomChangeRequestID != nil {
		t.Fatal("request must be cleared after rejection")
	}
	if cleared.RoomID != nil {
		t.Fatal("rejection must not assign a room")
	}
}

func TestAddStudentGuards(t *testing.T) {
	db := newTestDB(t)
	svc := &AllocationService{db: db}

	room := createTestRoom(t, db, 104, models.RoomTypeSingle)
	occupant := createTestStudent(t, db, "first@test.com", nil)

	if err := svc.AddStudent(room.ID, occupant.Email); err != nil {
		t.Fatalf("first assignment failed: %v", err)
	}
	var fresh models.Room
	if err := db.First(&fresh, room.ID).Error; err != nil {
		t.Fatalf("failed to reload room: %v", err)
	}
	if fresh.Status != models.RoomStatusOccupied {
		t.Fatalf("full single should be Occupied, got %q", fresh.Status)
	}

	second := createTestStudent(t, db, "second@test.com", nil)
	err := svc.AddStudent(room.ID, second.Email)
	appErr := expectAppError(t, err, 409)
	if appErr.Message != "Room not available!" {
		t.Fatalf("unexpected message %q", appErr.Message)
	}
}

func TestDeleteStudentFreesEmail(t *testing.T) {
	db := newTestDB(t)
	svc := &AllocationService{db: db}

	room := createTestRoom(t, db, 105, models.RoomTypeSingle)
	student := createTestStudent(t, db, "returning@test.com", &room.ID)
	room.Status = models.RoomStatusOccupied
	if err := db.Save(room).Error; err != nil {
		t.Fatalf("failed to save room: %v", err)
	}

	if err := svc.DeleteStudent(student.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	var fresh models.Room
	if err := db.First(&fresh, room.ID).Error; err != nil {
		t.Fatalf("failed to reload room: %v", err)
	}
	if fresh.Status != models.RoomStatusAvailable {
		t.Fatalf("vacated room should be Available, got %q", fresh.Status)
	}

	// The same email must be able to sign up again.
	createTestStudent(t, db, "returning@test.com", nil)
}

func TestDeleteRoomFreesRoomNumber(t *testing.T) {
	db := newTestDB(t)
	svc := &AllocationService{db: db}

	room := createTestRoom(t, db, 106, models.RoomTypeSingle)
	student := createTestStudent(t, db, "tenant@test.com", &room.ID)

	if err := svc.DeleteRoom(room.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	var fresh models.Student
	if err := db.First(&fresh, student.ID).Error; err != nil {
		t.Fatalf("failed to reload student: %v", err)
	}
	if fresh.RoomID != nil {
		t.Fatal("student must be detached when their room is deleted")
	}

	// The same room number must be able to be created again.
	createTestRoom(t, db, 106, models.RoomTypeSingle)
}
