package controllers

import (
	"time"

	"hostelhub_go/config"
	"hostelhub_go/database"
	"hostelhub_go/middleware"
	"hostelhub_go/models"
	"hostelhub_go/services"
	"hostelhub_go/storage"
	"hostelhub_go/utils"

	"github.com/gofiber/fiber/v2"
)

type StudentController struct {
	allocation *services.AllocationService
	billing    *services.BillingService
	storage    *storage.StorageService
}

func NewStudentController(storageService *storage.StorageService) *StudentController {
	return &StudentController{
		allocation: services.NewAllocationService(),
		billing:    services.NewBillingService(),
		storage:    storageService,
	}
}

// UpdateStudentRequest carries the self-editable profile fields
type UpdateStudentRequest struct {
	Name       *string `json:"name" validate:"omitempty,min=2,max=255"`
	ProfileURL *string `json:"profile_url" validate:"omitempty,url"`
}

// GetAllStudents lists every student account with room number and
// current-month fee status joined in. Dangling room references render
// as "N/A".
func (sc *StudentController) GetAllStudents(c *fiber.Ctx) error {
	var students []models.Student
	if err := database.DB.Where("role = ?", models.RoleStudent).Order("name ASC").Find(&students).Error; err != nil {
		return utils.Internal("Failed to fetch students")
	}
	if len(students) == 0 {
		return utils.NotFound("Students not found!")
	}

	// One room lookup per distinct id instead of per student.
	rooms := make(map[uint]*models.Room)
	for _, s := range students {
		if s.RoomID == nil {
			continue
		}
		if _, seen := rooms[*s.RoomID]; seen {
			continue
		}
		var room models.Room
		if err := database.DB.First(&room, *s.RoomID).Error; err == nil {
			rooms[*s.RoomID] = &room
		} else {
			rooms[*s.RoomID] = nil
		}
	}

	payload := make([]utils.StudentDTO, 0, len(students))
	for _, s := range students {
		var room *models.Room
		if s.RoomID != nil {
			room = rooms[*s.RoomID]
		}
		payload = append(payload, utils.ToStudentDTO(s, room, sc.billing.CurrentFeeStatus(s.ID)))
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"students": payload,
	})
}

// GetStudent returns one student with room fields flattened in.
func (sc *StudentController) GetStudent(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return utils.BadRequest("Invalid student id")
	}

	var student models.Student
	if err := database.DB.First(&student, id).Error; err != nil {
		return utils.NotFound("Student not found!")
	}

	var room *models.Room
	if student.RoomID != nil {
		var r models.Room
		if err := database.DB.First(&r, *student.RoomID).Error; err == nil {
			room = &r
		}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"student": utils.ToStudentDTO(student, room, sc.billing.CurrentFeeStatus(student.ID)),
	})
}

// UpdateStudent patches a student's own profile fields. Admins may
// patch any student.
func (sc *StudentController) UpdateStudent(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return utils.BadRequest("Invalid student id")
	}
	if err := sc.requireSelfOrAdmin(c, uint(id)); err != nil {
		return err
	}

	var req UpdateStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest("Invalid request body")
	}
	if err := utils.ValidateStruct(req); err != nil {
		return err
	}

	var student models.Student
	if err := database.DB.First(&student, id).Error; err != nil {
		return utils.NotFound("Student not found!")
	}

	if req.Name != nil {
		student.Name = utils.SanitizeString(*req.Name)
	}
	if req.ProfileURL != nil {
		student.ProfileURL = *req.ProfileURL
	}
	if err := database.DB.Save(&student).Error; err != nil {
		return utils.Internal("Failed to update student")
	}

	middleware.LogActivity(c, "UPDATE", "students", student.ID, nil)

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Student updated successfully",
		"student": utils.ToStudentDTO(student, nil, utils.NA),
	})
}

// DeleteStudent removes an account, vacating its room inside the same
// transaction.
func (sc *StudentController) DeleteStudent(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return utils.BadRequest("Invalid student id")
	}

	if err := sc.allocation.DeleteStudent(uint(id)); err != nil {
		return err
	}

	middleware.LogActivity(c, "DELETE", "students", uint(id), nil)

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Student deleted successfully",
	})
}

// RequestRoomChange files the student's request for a different room.
func (sc *StudentController) RequestRoomChange(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return utils.BadRequest("Invalid student id")
	}
	if err := sc.requireSelfOrAdmin(c, uint(id)); err != nil {
		return err
	}

	var req struct {
		RoomNo int `json:"room_no" validate:"required,gt=0"`
	}
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest("Invalid request body")
	}
	if err := utils.ValidateStruct(req); err != nil {
		return err
	}

	student, err := sc.allocation.RequestRoomChange(uint(id), req.RoomNo)
	if err != nil {
		return err
	}

	middleware.LogActivity(c, "UPDATE", "students", student.ID, fiber.Map{
		"action":  "room_change_request",
		"room_no": req.RoomNo,
	})

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Room change requested successfully",
		"student": fiber.Map{
			"id":                  student.ID,
			"room_id":             utils.RefString(student.RoomID),
			"room_change_request": utils.RefString(student.RoomChangeRequestID),
		},
	})
}

// UploadAvatar stores a profile image in S3 and saves its URL.
func (sc *StudentController) UploadAvatar(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return utils.BadRequest("Invalid student id")
	}
	if err := sc.requireSelfOrAdmin(c, uint(id)); err != nil {
		return err
	}
	if sc.storage == nil {
		return utils.Internal("File storage is not configured")
	}

	var student models.Student
	if err := database.DB.First(&student, id).Error; err != nil {
		return utils.NotFound("Student not found!")
	}

	file, err := c.FormFile("avatar")
	if err != nil {
		return utils.BadRequest("Avatar file is required")
	}
	if file.Size > config.AppConfig.MaxFileSize {
		return utils.BadRequest("Avatar file is too large")
	}

	url, err := sc.storage.UploadAvatar(file, student.ID)
	if err != nil {
		return utils.Internal("Failed to upload avatar")
	}

	// Old avatar cleanup is best effort.
	if student.ProfileURL != "" {
		go sc.storage.DeleteFile(student.ProfileURL)
	}

	student.ProfileURL = url
	student.UpdatedAt = time.Now()
	if err := database.DB.Save(&student).Error; err != nil {
		return utils.Internal("Failed to save avatar URL")
	}

	middleware.LogActivity(c, "UPDATE", "students", student.ID, fiber.Map{"action": "avatar_upload"})

	return c.JSON(fiber.Map{
		"success":     true,
		"message":     "Avatar uploaded successfully",
		"profile_url": url,
	})
}

func (sc *StudentController) requireSelfOrAdmin(c *fiber.Ctx, studentID uint) error {
	claims, err := middleware.GetCurrentClaims(c)
	if err != nil {
		return utils.Unauthorized("Access token is required")
	}
	if claims.Role != models.RoleAdmin && claims.StudentID != studentID {
		return utils.Forbidden("You can only modify your own account!")
	}
	return nil
}
