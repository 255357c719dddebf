package services

import (
	"fmt"
	"sort"
	"time"

	"github.com/Jubbyperson/nutrition-chatbot/config"
	"github.com/Jubbyperson/nutrition-chatbot/models"
	"github.com/Jubbyperson/nutrition-chatbot/utils"

	"gorm.io/gorm"
)

// overshootThreshold triggers a warning alert when a day's calories exceed
// the user's target by more than 15%.
const overshootThreshold = 1.15

func dayStartLocal(t time.Time) time.Time {
	loc := time.Local
	tt := t.In(loc)
	return time.Date(tt.Year(), tt.Month(), tt.Day(), 0, 0, 0, 0, loc)
}

type LogInput struct {
	Date      string  `json:"date"` // YYYY-MM-DD, empty means today
	WeightLbs float64 `json:"weight_lbs"`
	Calories  float64 `json:"calories"`
	Protein   float64 `json:"protein"`
	Carbs     float64 `json:"carbs"`
	Fat       float64 `json:"fat"`
}

// UpsertDailyLog validates and saves one day of tracking. Saving the same
// day twice replaces the earlier values.
func UpsertDailyLog(userID uint, in LogInput) (*models.DailyLog, error) {
	if errs := utils.ValidateLogData(in.WeightLbs, in.Calories, in.Protein, in.Carbs, in.Fat, in.Date); len(errs) > 0 {
		fields := make([]string, 0, len(errs))
		for f := range errs {
			fields = append(fields, f)
		}
		sort.Strings(fields)
		return nil, fmt.Errorf("invalid log: %s", errs[fields[0]])
	}

	day := dayStartLocal(time.Now())
	if in.Date != "" {
		parsed, err := time.ParseInLocation("2006-01-02", in.Date, time.Local)
		if err != nil {
			return nil, fmt.Errorf("invalid date: %w", err)
		}
		day = dayStartLocal(parsed)
	}

	entry := models.DailyLog{
		UserID:    userID,
		Date:      day,
		WeightLbs: in.WeightLbs,
		Calories:  in.Calories,
		Protein:   in.Protein,
		Carbs:     in.Carbs,
		Fat:       in.Fat,
	}

	// Assign takes a map, not the struct: struct assigns skip zero values,
	// and a fasted day legitimately logs 0 calories/macros.
	if err := config.DB.
		Where("user_id = ? AND date = ?", userID, day).
		Assign(map[string]interface{}{
			"weight_lbs": in.WeightLbs,
			"calories":   in.Calories,
			"protein":    in.Protein,
			"carbs":      in.Carbs,
			"fat":        in.Fat,
		}).
		FirstOrCreate(&entry).Error; err != nil {
		return nil, err
	}

	checkCalorieOvershoot(userID, &entry)
	return &entry, nil
}

// ListLogs returns a user's logs in [from, to], newest last. Zero times
// default to the trailing 30 days.
func ListLogs(userID uint, from, to time.Time) ([]models.DailyLog, error) {
	if to.IsZero() {
		to = time.Now()
	}
	if from.IsZero() {
		from = to.AddDate(0, 0, -30)
	}

	var logs []models.DailyLog
	err := config.DB.
		Where("user_id = ? AND date >= ? AND date < ?", userID, dayStartLocal(from), dayStartLocal(to).Add(24*time.Hour)).
		Order("date ASC").
		Find(&logs).Error
	return logs, err
}

func LatestLog(userID uint) (*models.DailyLog, error) {
	var entry models.DailyLog
	err := config.DB.
		Where("user_id = ?", userID).
		Order("date DESC").
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// DeleteLog removes one of the user's logs. Deleting a log that does not
// exist (or belongs to someone else) returns gorm.ErrRecordNotFound.
func DeleteLog(userID, logID uint) error {
	res := config.DB.
		Where("id = ? AND user_id = ?", logID, userID).
		Delete(&models.DailyLog{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// checkCalorieOvershoot emits a warning alert when the saved day blows
// past the computed calorie target. Users without a complete profile are
// skipped.
func checkCalorieOvershoot(userID uint, entry *models.DailyLog) {
	var user models.User
	if err := config.DB.First(&user, userID).Error; err != nil {
		return
	}
	profile, err := ProfileForUser(&user)
	if err != nil {
		return
	}
	if profile.TargetCalories <= 0 {
		return
	}
	if entry.Calories > profile.TargetCalories*overshootThreshold {
		EmitAlert(userID, "warning", fmt.Sprintf(
			"Logged %.0f kcal on %s, over your %.0f kcal target.",
			entry.Calories, entry.Date.Format("2006-01-02"), profile.TargetCalories,
		))
	}
}
