package seeders

import (
	"log"
	"time"

	"hostelhub_go/database"
	"hostelhub_go/models"
	"hostelhub_go/utils"

	"github.com/google/uuid"
)

// SeedAll runs all seeders
func SeedAll() {
	log.Println("Starting database seeding...")

	SeedAdmin()
	SeedRooms()
	SeedCurrentFee()

	log.Println("Database seeding completed successfully!")
}

// SeedAdmin creates the bootstrap admin account. The password must be
// changed after first login.
func SeedAdmin() {
	var count int64
	database.DB.Model(&models.Student{}).Where("role = ?", models.RoleAdmin).Count(&count)
	if count > 0 {
		log.Println("Admin already seeded, skipping...")
		return
	}

	hashed, err := utils.HashPassword("admin123")
	if err != nil {
		log.Printf("Error hashing admin password: %v", err)
		return
	}

	admin := models.Student{
		Name:     "Hostel Admin",
		Email:    "admin@hostelhub.app",
		Password: hashed,
		College:  "Administration",
		Course:   "Social Sciences",
		Hostel:   "Hostel1",
		Role:     models.RoleAdmin,
		Verified: true,
	}
	if err := database.DB.Create(&admin).Error; err != nil {
		log.Printf("Error seeding admin: %v", err)
		return
	}

	log.Println("Admin seeded successfully")
}

// SeedRooms seeds an initial block of rooms: singles on the first
// floor, doubles on the second.
func SeedRooms() {
	var count int64
	database.DB.Model(&models.Room{}).Count(&count)
	if count > 0 {
		log.Println("Rooms already seeded, skipping...")
		return
	}

	rooms := make([]models.Room, 0, 20)
	for no := 101; no <= 110; no++ {
		rooms = append(rooms, models.Room{
			RoomNo:   no,
			RoomType: models.RoomTypeSingle,
			Status:   models.RoomStatusAvailable,
			Price:    12000,
		})
	}
	for no := 201; no <= 210; no++ {
		rooms = append(rooms, models.Room{
			RoomNo:   no,
			RoomType: models.RoomTypeDouble,
			Status:   models.RoomStatusAvailable,
			Price:    8000,
		})
	}

	for _, room := range rooms {
		if err := database.DB.Create(&room).Error; err != nil {
			log.Printf("Error seeding room %d: %v", room.RoomNo, err)
		}
	}

	log.Println("Rooms seeded successfully")
}

// SeedCurrentFee creates the fee entry for the current period so
// voucher generation works out of the box.
func SeedCurrentFee() {
	now := time.Now()
	month, year := utils.CurrentPeriod(now)

	var count int64
	database.DB.Model(&models.Fee{}).Where("month = ? AND year = ?", month, year).Count(&count)
	if count > 0 {
		log.Println("Current fee already seeded, skipping...")
		return
	}

	fee := models.Fee{
		Month:      month,
		Year:       year,
		Amount:     1500,
		DueDate:    time.Date(now.Year(), now.Month(), 25, 0, 0, 0, 0, time.Local),
		ConsumerID: uuid.New().String(),
	}
	if err := database.DB.Create(&fee).Error; err != nil {
		log.Printf("Error seeding current fee: %v", err)
		return
	}

	log.Println("Current fee seeded successfully")
}
