package config

import (
	"fmt"
	"log"
	"os"

	"github.com/Jubbyperson/nutrition-chatbot/models"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// LoadEnv reads .env if present and verifies required variables.
// The AI coach is a core feature, so a missing OPENAI_API_KEY is fatal
// at startup rather than a runtime surprise.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on environment")
	}

	if os.Getenv("OPENAI_API_KEY") == "" {
		log.Fatalf("OPENAI_API_KEY not set. Add it to your .env file.")
	}
	if os.Getenv("JWT_SECRET") == "" {
		log.Fatalf("JWT_SECRET not set. Add it to your .env file.")
	}
}

func InitDB() {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := DB.AutoMigrate(
		&models.User{},
		&models.DailyLog{},
		&models.Alert{},
	); err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}
}
