package controllers

import (
	"time"

	"hostelhub_go/database"
	"hostelhub_go/middleware"
	"hostelhub_go/models"
	"hostelhub_go/services/websocket"
	"hostelhub_go/utils"

	"github.com/gofiber/fiber/v2"
)

type AnnouncementController struct {
	hub *websocket.Hub
}

func NewAnnouncementController(hub *websocket.Hub) *AnnouncementController {
	return &AnnouncementController{hub: hub}
}

// CreateAnnouncementRequest represents the announcement creation body
type CreateAnnouncementRequest struct {
	Title       string     `json:"title" validate:"required,min=2,max=255"`
	Date        *time.Time `json:"date"`
	Description string     `json:"description" validate:"required"`
}

// GetAllAnnouncements lists announcements, newest first.
func (ac *AnnouncementController) GetAllAnnouncements(c *fiber.Ctx) error {
	var announcements []models.Announcement
	if err := database.DB.Order("date DESC").Find(&announcements).Error; err != nil {
		return utils.Internal("Failed to fetch announcements")
	}
	if len(announcements) == 0 {
		return utils.NotFound("Announcements not found!")
	}

	return c.JSON(fiber.Map{
		"success":       true,
		"announcements": announcements,
	})
}

// CreateAnnouncement publishes an announcement and pushes it to every
// connected feed client.
func (ac *AnnouncementController) CreateAnnouncement(c *fiber.Ctx) error {
	var req CreateAnnouncementRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest("Invalid request body")
	}
	if err := utils.ValidateStruct(req); err != nil {
		return err
	}

	date := time.Now()
	if req.Date != nil {
		date = *req.Date
	}

	announcement := models.Announcement{
		Title:       utils.SanitizeString(req.Title),
		Date:        date,
		Description: req.Description,
	}
	if err := database.DB.Create(&announcement).Error; err != nil {
		return utils.Internal("Failed to create announcement")
	}

	if ac.hub != nil {
		ac.hub.Broadcast("announcement", announcement)
	}

	middleware.LogActivity(c, "CREATE", "announcements", announcement.ID, fiber.Map{"title": announcement.Title})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":      true,
		"message":      "Announcement created successfully",
		"announcement": announcement,
	})
}

// DeleteAnnouncement removes an announcement.
func (ac *AnnouncementController) DeleteAnnouncement(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return utils.BadRequest("Invalid announcement id")
	}

	var announcement models.Announcement
	if err := database.DB.First(&announcement, id).Error; err != nil {
		return utils.NotFound("Announcement not found!")
	}
	if err := database.DB.Delete(&announcement).Error; err != nil {
		return utils.Internal("Failed to delete announcement")
	}

	middleware.LogActivity(c, "DELETE", "announcements", announcement.ID, nil)

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Announcement deleted successfully",
	})
}
