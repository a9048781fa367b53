package controllers

import (
	"hostelhub_go/database"
	"hostelhub_go/middleware"
	"hostelhub_go/models"
	"hostelhub_go/utils"

	"github.com/gofiber/fiber/v2"
)

type SuggestionController struct{}

func NewSuggestionController() *SuggestionController {
	return &SuggestionController{}
}

// CreateSuggestionRequest represents the suggestion creation body
type CreateSuggestionRequest struct {
	Title   string `json:"title" validate:"required,min=2,max=255"`
	Message string `json:"message" validate:"required"`
}

// GetAllSuggestions lists suggestions with each author's name and
// email joined in; a deleted author renders as "N/A".
func (sc *SuggestionController) GetAllSuggestions(c *fiber.Ctx) error {
	var suggestions []models.Suggestion
	if err := database.DB.Preload("Student").Order("created_at DESC").Find(&suggestions).Error; err != nil {
		return utils.Internal("Failed to fetch suggestions")
	}
	if len(suggestions) == 0 {
		return utils.NotFound("Suggestions not found!")
	}

	payload := make([]fiber.Map, 0, len(suggestions))
	for _, s := range suggestions {
		name, email := utils.NA, utils.NA
		if s.Student.ID != 0 {
			name = s.Student.Name
			email = s.Student.Email
		}
		payload = append(payload, fiber.Map{
			"id":         s.ID,
			"created_at": s.CreatedAt,
			"title":      s.Title,
			"message":    s.Message,
			"name":       name,
			"email":      email,
		})
	}

	return c.JSON(fiber.Map{
		"success":     true,
		"suggestions": payload,
	})
}

// CreateSuggestion files a suggestion under the authenticated student.
func (sc *SuggestionController) CreateSuggestion(c *fiber.Ctx) error {
	student, err := middleware.GetCurrentStudent(c)
	if err != nil {
		return utils.Unauthorized("Access token is required")
	}

	var req CreateSuggestionRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest("Invalid request body")
	}
	if err := utils.ValidateStruct(req); err != nil {
		return err
	}

	suggestion := models.Suggestion{
		StudentID: student.ID,
		Title:     utils.SanitizeString(req.Title),
		Message:   req.Message,
	}
	if err := database.DB.Create(&suggestion).Error; err != nil {
		return utils.Internal("Failed to create suggestion")
	}

	middleware.LogActivity(c, "CREATE", "suggestions", suggestion.ID, fiber.Map{"title": suggestion.Title})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":    true,
		"message":    "Suggestion submitted successfully",
		"suggestion": suggestion,
	})
}

// DeleteSuggestion removes a suggestion.
func (sc *SuggestionController) DeleteSuggestion(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return utils.BadRequest("Invalid suggestion id")
	}

	var suggestion models.Suggestion
	if err := database.DB.First(&suggestion, id).Error; err != nil {
		return utils.NotFound("Suggestion not found!")
	}
	if err := database.DB.Delete(&suggestion).Error; err != nil {
		return utils.Internal("Failed to delete suggestion")
	}

	middleware.LogActivity(c, "DELETE", "suggestions", suggestion.ID, nil)

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Suggestion deleted successfully",
	})
}
