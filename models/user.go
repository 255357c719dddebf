package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Email         string `gorm:"uniqueIndex;not null"`
	Password      string `gorm:"not null"` // bcrypt hash
	Age           int
	HeightInches  float64
	WeightLbs     float64
	Sex           string // "male" | "female" | "other"
	ActivityLevel string // see utils.ActivityLevels
	Goal          string // see utils.Goals
	ResetToken    string
	ResetTokenExp time.Time
}
