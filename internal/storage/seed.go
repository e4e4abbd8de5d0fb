// internal/storage/seed.go
package storage

import (
	"log"

	"attendance_backend/internal/models"
	"gorm.io/gorm"
)

// SeedShifts inserts the default shift table when it is empty. NIGHT
// ends after midnight, which is what the variance math's wraparound
// handling exists for.
func SeedShifts(db *gorm.DB) {
	var n int64
	if err := db.Model(&models.ShiftSchedule{}).Count(&n).Error; err != nil {
		log.Printf("shift seed: count failed: %v", err)
		return
	}
	if n > 0 {
		return
	}

	defaults := []models.ShiftSchedule{
		{Code: "DAY", Name: "Day", StartTime: "09:00", EndTime: "17:00"},
		{Code: "EVENING", Name: "Evening", StartTime: "14:00", EndTime: "22:00"},
		{Code: "NIGHT", Name: "Night", StartTime: "18:00", EndTime: "02:00"},
	}
	if err := db.Create(&defaults).Error; err != nil {
		log.Printf("shift seed: insert failed: %v", err)
		return
	}
	log.Printf("seeded %d default shifts", len(defaults))
}
