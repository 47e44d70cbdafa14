package main

import (
	"log"
	"os"

	"career-coach-be/internal/model"
	"career-coach-be/pkg/database"

	"github.com/joho/godotenv"
	"gorm.io/datatypes"
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

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Seeding demo user...")

	demoUser := model.User{
		Email:    "demo@careercoach.local",
		FullName: "Demo User",
		Profile: datatypes.JSON([]byte(`{
			"target_role": "Backend Engineer",
			"experience_years": 3,
			"skills": ["Go", "PostgreSQL", "Docker"],
			"preferred_city": "Jakarta"
		}`)),
	}

	var existing model.User
	if err := db.Where("email = ?", demoUser.Email).First(&existing).Error; err == nil {
		log.Printf("User '%s' already exists, skipping...", demoUser.Email)
	} else {
		if err := db.Create(&demoUser).Error; err != nil {
			log.Printf("Error creating demo user: %v", err)
		} else {
			log.Printf("Created demo user: %s (%s)", demoUser.Email, demoUser.Id)
		}
	}

	log.Println("Seeding knowledge documents...")
	SeedKnowledgeDocuments(db)

	log.Println("Seeding completed!")
}
