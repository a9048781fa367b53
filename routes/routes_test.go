package routes

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"hostelhub_go/config"
	"hostelhub_go/database"
	"hostelhub_go/middleware"
	"hostelhub_go/models"
	"hostelhub_go/services"
	"hostelhub_go/services/websocket"

	"github.com/gofiber/fiber/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestApp wires the full route table against an in-memory database
// and returns the app plus a valid admin bearer token.
func setupTestApp(t *testing.T) (*fiber.App, string) {
	t.Helper()

	config.LoadConfig()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(
		&models.Student{},
		&models.Room{},
		&models.Fee{},
		&models.Voucher{},
		&models.Announcement{},
		&models.Suggestion{},
		&models.ActivityLog{},
	); err != nil {
		t.Fatalf("failed to migrate test schema: %v", err)
	}
	database.DB = db
	database.RedisClient = nil

	admin := models.Student{
		Name:     "Admin",
		Email:    "admin@test.com",
		Password: "hashed",
		College:  "Test College",
		Course:   "Engineering",
		Hostel:   "Hostel1",
		Role:     models.RoleAdmin,
		Verified: true,
	}
	if err := db.Create(&admin).Error; err != nil {
		t.Fatalf("failed to create admin: %v", err)
	}
	token, err := middleware.GenerateToken(&admin)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	app := fiber.New()
	SetupRoutes(app, websocket.NewHub(), nil, nil, services.NewHealthService("test", "test"))
	return app, token
}

func TestMutatingRequestWritesOneAuditRow(t *testing.T) {
	app, token := setupTestApp(t)

	body, err := json.Marshal(fiber.Map{
		"room_no":   707,
		"room_type": models.RoomTypeSingle,
		"price":     9000,
	})
	if err != nil {
		t.Fatalf("failed to marshal body: %v", err)
	}
	req := httptest.NewRequest("POST", "/api/rooms/create", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	// The audit write is asynchronous; wait for it to land.
	deadline := time.Now().Add(3 * time.Second)
	var count int64
	for time.Now().Before(deadline) {
		database.DB.Model(&models.ActivityLog{}).Count(&count)
		if count > 0 {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	if count == 0 {
		t.Fatal("audit row was never written")
	}

	// Give any stray second writer time to land, then recount.
	time.Sleep(300 * time.Millisecond)
	database.DB.Model(&models.ActivityLog{}).Count(&count)
	if count != 1 {
		t.Fatalf("expected exactly one audit row, got %d", count)
	}

	var entry models.ActivityLog
	if err := database.DB.First(&entry).Error; err != nil {
		t.Fatalf("failed to load audit row: %v", err)
	}
	if entry.Action != "CREATE" || entry.Resource != "rooms" {
		t.Fatalf("unexpected audit entry: action=%q resource=%q", entry.Action, entry.Resource)
	}
	if entry.Details.IsNull() {
		t.Fatal("audit entry should carry action details")
	}
}
