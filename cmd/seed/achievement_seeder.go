package main

import (
	"log"

	"eras-capsule-be/internal/model"
	"eras-capsule-be/pkg/events"

	"gorm.io/gorm"
)

func strPtr(s string) *string { return &s }

// SeedAchievements populates the achievement registry the tracker evaluates
// on every incoming event.
func SeedAchievements(db *gorm.DB) {
	achievements := []model.Achievement{
		{
			Code:         "FIRST_CAPSULE",
			Name:         "Time Traveler",
			Description:  "Seal your first time capsule",
			TriggerEvent: events.TypeCapsuleSealed,
			Threshold:    1,
			TitleReward:  strPtr("Time Traveler"),
			IsActive:     true,
		},
		{
			Code:         "CAPSULE_COLLECTOR",
			Name:         "Chronicler",
			Description:  "Seal ten time capsules",
			TriggerEvent: events.TypeCapsuleSealed,
			Threshold:    10,
			TitleReward:  strPtr("Chronicler"),
			IsActive:     true,
		},
		{
			Code:         "FIRST_VAULT_MEDIA",
			Name:         "Keeper of Memories",
			Description:  "Add your first memory to the vault",
			TriggerEvent: events.TypeMediaVaulted,
			Threshold:    1,
			IsActive:     true,
		},
		{
			Code:         "VAULT_CURATOR",
			Name:         "Archivist",
			Description:  "Grow your vault to fifty memories",
			TriggerEvent: events.TypeMediaVaulted,
			Threshold:    50,
			TitleReward:  strPtr("Archivist"),
			IsActive:     true,
		},
		{
			Code:         "FIRST_ECHO",
			Name:         "Heard Across Time",
			Description:  "Receive your first echo",
			TriggerEvent: events.TypeEchoReceived,
			Threshold:    1,
			IsActive:     true,
		},
		{
			Code:         "DEVOTED_RETURNEE",
			Name:         "Devoted Returnee",
			Description:  "Sign in a hundred times",
			TriggerEvent: events.TypeUserLogin,
			Threshold:    100,
			TitleReward:  strPtr("Devoted"),
			IsActive:     true,
		},
	}

	for _, a := range achievements {
		if err := db.Where("code = ?", a.Code).FirstOrCreate(&a).Error; err != nil {
			log.Printf("Error seeding achievement %s: %v", a.Code, err)
		}
	}
	log.Println("✅ Achievements seeded successfully.")
}
