package models

import (
	"time"

	"gorm.io/gorm"
)

// DailyLog is one day of nutrition tracking. Date is truncated to local
// midnight; logging twice on the same day replaces the earlier values.
type DailyLog struct {
	gorm.Model
	UserID    uint      `gorm:"index;not null"`
	Date      time.Time `gorm:"index;not null"`
	WeightLbs float64
	Calories  float64
	Protein   float64 // grams
	Carbs     float64 // grams
	Fat       float64 // grams
}
