package main

import (
	"log"

	"eras-capsule-be/internal/model"
	"eras-capsule-be/pkg/events"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SeedNotificationTypes populates the notification registry. The consumer
// ignores events whose code has no active row here.
func SeedNotificationTypes(db *gorm.DB) {
	types := []model.NotificationType{
		{
			Code:        events.TypeUserLogin,
			DisplayName: "Login Activity",
			Template:    "Welcome back, {full_name}",
			TargetType:  "SELF",
			Priority:    "LOW",
			IsActive:    true,
			Channels:    datatypes.JSON([]byte(`["web"]`)),
		},
		{
			Code:        events.TypeCapsuleSealed,
			DisplayName: "Capsule Sealed",
			Template:    "Your capsule \"{title}\" is sealed until {deliver_at}",
			TargetType:  "SELF",
			Priority:    "MEDIUM",
			IsActive:    true,
			Channels:    datatypes.JSON([]byte(`["web"]`)),
		},
		{
			Code:        events.TypeCapsuleDelivered,
			DisplayName: "Capsule Delivered",
			Template:    "{sender_name} sent you a time capsule: \"{title}\"",
			TargetType:  "RECIPIENT",
			Priority:    "HIGH",
			IsActive:    true,
			Channels:    datatypes.JSON([]byte(`["web", "email"]`)),
		},
		{
			Code:        events.TypeEchoReceived,
			DisplayName: "Echo Received",
			Template:    "{sender_name} responded to \"{capsule_title}\"",
			TargetType:  "SELF",
			Priority:    "MEDIUM",
			IsActive:    true,
			Channels:    datatypes.JSON([]byte(`["web"]`)),
		},
		{
			Code:        events.TypeMediaVaulted,
			DisplayName: "Media Vaulted",
			Template:    "\"{file_name}\" was added to your vault",
			TargetType:  "SELF",
			Priority:    "LOW",
			IsActive:    true,
			Channels:    datatypes.JSON([]byte(`["web"]`)),
		},
		{
			Code:        events.TypeAchievementUnlocked,
			DisplayName: "Achievement Unlocked",
			Template:    "Achievement unlocked: {achievement_name}",
			TargetType:  "SELF",
			Priority:    "MEDIUM",
			IsActive:    true,
			Channels:    datatypes.JSON([]byte(`["web"]`)),
		},
		{
			Code:        "SYSTEM_BROADCAST",
			DisplayName: "System Announcement",
			Template:    "{message}",
			TargetType:  "BROADCAST",
			Priority:    "HIGH",
			IsActive:    true,
			Channels:    datatypes.JSON([]byte(`["web"]`)),
		},
	}

	for _, t := range types {
		if err := db.Where("code = ?", t.Code).FirstOrCreate(&t).Error; err != nil {
			log.Printf("Error seeding notification type %s: %v", t.Code, err)
		}
	}
	log.Println("✅ Notification types seeded successfully.")
}
