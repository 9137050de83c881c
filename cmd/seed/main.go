package main

import (
	"log"
	"os"

	"eras-capsule-be/pkg/database"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
)

func main() {
	// Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDB(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	color.Cyan("🚀 Seeding Eras registries")

	color.Yellow("\n1. Notification Types")
	SeedNotificationTypes(db)

	color.Yellow("\n2. Achievements")
	SeedAchievements(db)

	color.Green("\nSeeding completed!")
}
