package controllers

import (
	"encoding/json"
	"strconv"
	"time"

	"hostelhub_go/database"
	"hostelhub_go/middleware"
	"hostelhub_go/models"
	"hostelhub_go/services"
	"hostelhub_go/utils"

	"github.com/gofiber/fiber/v2"
)

type LogController struct {
	flush *services.LogFlushService
}

func NewLogController() *LogController {
	return &LogController{flush: services.NewLogFlushService()}
}

// LogResponse represents one activity log entry
type LogResponse struct {
	ID         uint                   `json:"id"`
	StudentID  uint                   `json:"student_id"`
	Action     string                 `json:"action"`
	Resource   string                 `json:"resource"`
	ResourceID uint                   `json:"resource_id"`
	Details    map[string]interface{} `json:"details,omitempty"`
	IPAddress  string                 `json:"ip_address"`
	CreatedAt  time.Time              `json:"created_at"`
}

func toLogResponse(log models.ActivityLog) LogResponse {
	resp := LogResponse{
		ID:         log.ID,
		StudentID:  log.StudentID,
		Action:     log.Action,
		Resource:   log.Resource,
		ResourceID: log.ResourceID,
		IPAddress:  log.IPAddress,
		CreatedAt:  log.CreatedAt,
	}
	if len(log.Details) > 0 {
		var details map[string]interface{}
		if err := json.Unmarshal(log.Details, &details); err == nil {
			resp.Details = details
		}
	}
	return resp
}

// GetLogs retrieves paginated activity logs with optional filters.
func (lc *LogController) GetLogs(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 50
	}

	query := database.DB.Model(&models.ActivityLog{})
	if studentID := c.Query("student_id"); studentID != "" {
		query = query.Where("student_id = ?", studentID)
	}
	if action := c.Query("action"); action != "" {
		query = query.Where("action = ?", action)
	}
	if resource := c.Query("resource"); resource != "" {
		query = query.Where("resource = ?", resource)
	}
	if startDate := c.Query("start_date"); startDate != "" {
		if parsed, err := time.Parse("2006-01-02", startDate); err == nil {
			query = query.Where("created_at >= ?", parsed)
		}
	}
	if endDate := c.Query("end_date"); endDate != "" {
		if parsed, err := time.Parse("2006-01-02", endDate); err == nil {
			query = query.Where("created_at < ?", parsed.Add(24*time.Hour))
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return utils.Internal("Failed to count logs")
	}

	var activityLogs []models.ActivityLog
	if err := query.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&activityLogs).Error; err != nil {
		return utils.Internal("Failed to retrieve logs")
	}

	logs := make([]LogResponse, 0, len(activityLogs))
	for _, log := range activityLogs {
		logs = append(logs, toLogResponse(log))
	}

	return c.JSON(fiber.Map{
		"success":     true,
		"logs":        logs,
		"total":       total,
		"page":        page,
		"limit":       limit,
		"total_pages": (total + int64(limit) - 1) / int64(limit),
	})
}

// GetLog retrieves a single log entry.
func (lc *LogController) GetLog(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return utils.BadRequest("Invalid log id")
	}

	var activityLog models.ActivityLog
	if err := database.DB.First(&activityLog, id).Error; err != nil {
		return utils.NotFound("Log not found!")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"log":     toLogResponse(activityLog),
	})
}

// FlushCachedLogs forces the Redis write-behind queue into the
// database immediately.
func (lc *LogController) FlushCachedLogs(c *fiber.Ctx) error {
	if err := lc.flush.FlushCachedLogs(); err != nil {
		return utils.Internal("Failed to flush cached logs")
	}

	middleware.LogActivity(c, "UPDATE", "logs", 0, fiber.Map{"action": "manual_flush"})

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Cached logs flushed to database",
	})
}
