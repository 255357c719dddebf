package services

import (
	"testing"

	"github.com/Jubbyperson/nutrition-chatbot/config"
	"github.com/Jubbyperson/nutrition-chatbot/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens a fresh in-memory database, wires the package globals
// to it, and registers cleanup.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// a single connection keeps every query on the same in-memory DB
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.DailyLog{}, &models.Alert{}))

	config.DB = db
	InitAlertDeps(db, nil)
	t.Cleanup(func() {
		config.DB = nil
		InitAlertDeps(nil, nil)
		_ = sqlDB.Close()
	})
	return db
}

// createTestUser stores a user whose computed target is 2349 kcal/day
// (180 lbs, 70 in, 30 y/o male, moderate activity, losing weight).
func createTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	user := &models.User{
		Email:         "test@example.com",
		Password:      "not-a-real-hash",
		Age:           30,
		HeightInches:  70,
		WeightLbs:     180,
		Sex:           "male",
		ActivityLevel: "moderate",
		Goal:          "lose_weight",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}
