package services

import (
	"fmt"
	"testing"
	"time"

	"hostelhub_go/models"
	"hostelhub_go/utils"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a throwaway in-memory database with the full schema.
// The pool is pinned to one connection so every query and transaction
// sees the same in-memory store.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

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
	return db
}

func createTestRoom(t *testing.T, db *gorm.DB, roomNo int, roomType string) *models.Room {
	t.Helper()
	room := models.Room{
		RoomNo:   roomNo,
		RoomType: roomType,
		Status:   models.RoomStatusAvailable,
		Price:    10000,
	}
	if err := db.Create(&room).Error; err != nil {
		t.Fatalf("failed to create room %d: %v", roomNo, err)
	}
	return &room
}

func createTestStudent(t *testing.T, db *gorm.DB, email string, roomID *uint) *models.Student {
	t.Helper()
	student := models.Student{
		Name:     "Test Student",
		Email:    email,
		Password: "hashed",
		College:  "Test College",
		Course:   "Engineering",
		Hostel:   "Hostel1",
		Role:     models.RoleStudent,
		Verified: true,
		RoomID:   roomID,
	}
	if err := db.Create(&student).Error; err != nil {
		t.Fatalf("failed to create student %s: %v", email, err)
	}
	return &student
}

func createCurrentFee(t *testing.T, db *gorm.DB, amount int) *models.Fee {
	t.Helper()
	month, year := utils.CurrentPeriod(time.Now())
	fee := models.Fee{
		Month:      month,
		Year:       year,
		Amount:     amount,
		DueDate:    time.Now().AddDate(0, 0, 7),
		ConsumerID: fmt.Sprintf("test-%s-%d", month, year),
	}
	if err := db.Create(&fee).Error; err != nil {
		t.Fatalf("failed to create fee: %v", err)
	}
	return &fee
}

func expectAppError(t *testing.T, err error, status int) *utils.AppError {
	t.Helper()
	if err == nil {
		t.Fatal("expected an error, got nil")
	}
	appErr, ok := err.(*utils.AppError)
	if !ok {
		t.Fatalf("expected *utils.AppError, got %T: %v", err, err)
	}
	if appErr.Status != status {
		t.Fatalf("expected status %d, got %d (%s)", status, appErr.Status, appErr.Message)
	}
	return appErr
}
