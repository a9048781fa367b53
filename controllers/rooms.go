package controllers

import (
	"hostelhub_go/database"
	"hostelhub_go/middleware"
	"hostelhub_go/models"
	"hostelhub_go/services"
	"hostelhub_go/utils"

	"github.com/gofiber/fiber/v2"
)

type RoomController struct {
	allocation *services.AllocationService
}

func NewRoomController() *RoomController {
	return &RoomController{allocation: services.NewAllocationService()}
}

// CreateRoomRequest represents the room creation body
type CreateRoomRequest struct {
	RoomNo   int    `json:"room_no" validate:"required,gt=0"`
	RoomType string `json:"room_type" validate:"required,oneof=Single Double"`
	Price    int    `json:"price" validate:"required,gt=0"`
}

// UpdateRoomRequest carries the patchable room fields
type UpdateRoomRequest struct {
	RoomNo   *int    `json:"room_no" validate:"omitempty,gt=0"`
	RoomType *string `json:"room_type" validate:"omitempty,oneof=Single Double"`
	Status   *string `json:"status" validate:"omitempty,oneof=Available Occupied Maintenance"`
	Price    *int    `json:"price" validate:"omitempty,gt=0"`
}

// GetAllRooms lists every room with its occupants' names and emails.
func (rc *RoomController) GetAllRooms(c *fiber.Ctx) error {
	var rooms []models.Room
	if err := database.DB.Preload("Students").Order("room_no ASC").Find(&rooms).Error; err != nil {
		return utils.Internal("Failed to fetch rooms")
	}
	if len(rooms) == 0 {
		return utils.NotFound("Rooms not found!")
	}

	payload := make([]fiber.Map, 0, len(rooms))
	for _, room := range rooms {
		occupants := make([]fiber.Map, 0, len(room.Students))
		for _, s := range room.Students {
			occupants = append(occupants, fiber.Map{
				"id":    s.ID,
				"name":  s.Name,
				"email": s.Email,
			})
		}
		payload = append(payload, fiber.Map{
			"id":        room.ID,
			"room_no":   room.RoomNo,
			"room_type": room.RoomType,
			"status":    room.Status,
			"price":     room.Price,
			"capacity":  room.Capacity(),
			"students":  occupants,
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"rooms":   payload,
	})
}

// GetRoom returns a single room with its occupants.
func (rc *RoomController) GetRoom(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return utils.BadRequest("Invalid room id")
	}

	var room models.Room
	if err := database.DB.Preload("Students").First(&room, id).Error; err != nil {
		return utils.NotFound("Room not found!")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"room":    room,
	})
}

// CreateRoom creates a room; room numbers are unique.
func (rc *RoomController) CreateRoom(c *fiber.Ctx) error {
	var req CreateRoomRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest("Invalid request body")
	}
	if err := utils.ValidateStruct(req); err != nil {
		return err
	}

	var existing models.Room
	if err := database.DB.Where("room_no = ?", req.RoomNo).First(&existing).Error; err == nil {
		return utils.Conflict("Room already exists with this number!")
	}

	room := models.Room{
		RoomNo:   req.RoomNo,
		RoomType: req.RoomType,
		Status:   models.RoomStatusAvailable,
		Price:    req.Price,
	}
	if err := database.DB.Create(&room).Error; err != nil {
		if utils.IsDuplicateKeyError(err) {
			return utils.Conflict("Room already exists with this number!")
		}
		return utils.Internal("Failed to create room")
	}

	middleware.LogActivity(c, "CREATE", "rooms", room.ID, fiber.Map{"room_no": room.RoomNo})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Room created successfully",
		"room":    room,
	})
}

// UpdateRoom patches room fields. A Double cannot shrink to Single
// while two students occupy it, and Occupied/Available transitions are
// recomputed rather than trusted from the client.
func (rc *RoomController) UpdateRoom(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return utils.BadRequest("Invalid room id")
	}

	var req UpdateRoomRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest("Invalid request body")
	}
	if err := utils.ValidateStruct(req); err != nil {
		return err
	}

	var room models.Room
	if err := database.DB.Preload("Students").First(&room, id).Error; err != nil {
		return utils.NotFound("Room not found!")
	}

	if req.RoomNo != nil && *req.RoomNo != room.RoomNo {
		var existing models.Room
		if err := database.DB.Where("room_no = ? AND id != ?", *req.RoomNo, room.ID).First(&existing).Error; err == nil {
			return utils.Conflict("Room already exists with this number!")
		}
		room.RoomNo = *req.RoomNo
	}
	if req.RoomType != nil {
		if *req.RoomType == models.RoomTypeSingle && len(room.Students) > 1 {
			return utils.InvalidState("Cannot change to Single while two students occupy the room!")
		}
		room.RoomType = *req.RoomType
	}
	if req.Price != nil {
		room.Price = *req.Price
	}
	if req.Status != nil {
		room.Status = *req.Status
	}
	// Occupancy wins over a client-supplied Available/Occupied value;
	// Maintenance set above sticks.
	room.Status = services.RecomputeRoomStatus(room.RoomType, room.Status, len(room.Students))

	if err := database.DB.Save(&room).Error; err != nil {
		return utils.Internal("Failed to update room")
	}

	middleware.LogActivity(c, "UPDATE", "rooms", room.ID, fiber.Map{"room_no": room.RoomNo})

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Room updated successfully",
		"room":    room,
	})
}

// DeleteRoom removes a room and clears the room and request references
// of every student pointing at it.
func (rc *RoomController) DeleteRoom(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return utils.BadRequest("Invalid room id")
	}

	if err := rc.allocation.DeleteRoom(uint(id)); err != nil {
		return err
	}

	middleware.LogActivity(c, "DELETE", "rooms", uint(id), nil)

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Room deleted successfully",
	})
}

// ApproveRequest decides an outstanding room change request.
type ApproveRequest struct {
	StudentID uint `json:"student_id" validate:"required"`
	RoomID    uint `json:"room_id" validate:"required"`
	Approved  bool `json:"approved"`
}

// Approve accepts or rejects a student's pending room change.
func (rc *RoomController) Approve(c *fiber.Ctx) error {
	var req ApproveRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest("Invalid request body")
	}
	if err := utils.ValidateStruct(req); err != nil {
		return err
	}

	student, err := rc.allocation.DecideRequest(req.StudentID, req.RoomID, req.Approved)
	if err != nil {
		return err
	}

	action := "rejected"
	if req.Approved {
		action = "approved"
	}
	middleware.LogActivity(c, "UPDATE", "rooms", req.RoomID, fiber.Map{
		"student_id": req.StudentID,
		"decision":   action,
	})

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Room change request " + action,
		"student": fiber.Map{
			"id":                  student.ID,
			"room_id":             utils.RefString(student.RoomID),
			"room_change_request": utils.RefString(student.RoomChangeRequestID),
		},
	})
}

// PendingRequests lists every outstanding room change request with the
// requester's email, fee status and the requested room's details.
func (rc *RoomController) PendingRequests(c *fiber.Ctx) error {
	requests, err := rc.allocation.PendingRequests()
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"requests": requests,
	})
}

// RemoveStudent detaches a student from a room and recomputes its
// status.
func (rc *RoomController) RemoveStudent(c *fiber.Ctx) error {
	roomID, err := c.ParamsInt("id")
	if err != nil {
		return utils.BadRequest("Invalid room id")
	}

	var req struct {
		StudentID uint `json:"student_id" validate:"required"`
	}
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest("Invalid request body")
	}
	if err := utils.ValidateStruct(req); err != nil {
		return err
	}

	if err := rc.allocation.RemoveStudent(uint(roomID), req.StudentID); err != nil {
		return err
	}

	middleware.LogActivity(c, "UPDATE", "rooms", uint(roomID), fiber.Map{
		"student_id": req.StudentID,
		"action":     "remove_student",
	})

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Student removed from room successfully",
	})
}

// AddStudent assigns a student (looked up by email) to an available
// room directly, bypassing the request flow.
func (rc *RoomController) AddStudent(c *fiber.Ctx) error {
	roomID, err := c.ParamsInt("id")
	if err != nil {
		return utils.BadRequest("Invalid room id")
	}

	var req struct {
		Email string `json:"email" validate:"required,email"`
	}
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest("Invalid request body")
	}
	if err := utils.ValidateStruct(req); err != nil {
		return err
	}

	if err := rc.allocation.AddStudent(uint(roomID), req.Email); err != nil {
		return err
	}

	middleware.LogActivity(c, "UPDATE", "rooms", uint(roomID), fiber.Map{
		"email":  req.Email,
		"action": "add_student",
	})

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Student added to room successfully",
	})
}
