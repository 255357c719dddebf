package services

import (
	"testing"
	"time"

	"github.com/Jubbyperson/nutrition-chatbot/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestUpsertDailyLogCreatesEntry(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db)

	entry, err := UpsertDailyLog(user.ID, LogInput{
		Date:      "2025-03-10",
		WeightLbs: 180,
		Calories:  2000,
		Protein:   150,
		Carbs:     200,
		Fat:       70,
	})
	require.NoError(t, err)

	assert.Equal(t, user.ID, entry.UserID)
	assert.Equal(t, float64(2000), entry.Calories)
	assert.Equal(t, "2025-03-10", entry.Date.Format("2006-01-02"))
}

func TestUpsertDailyLogReplacesSameDay(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db)

	_, err := UpsertDailyLog(user.ID, LogInput{Date: "2025-03-10", WeightLbs: 180, Calories: 2000, Protein: 150, Carbs: 200, Fat: 70})
	require.NoError(t, err)
	_, err = UpsertDailyLog(user.ID, LogInput{Date: "2025-03-10", WeightLbs: 179, Calories: 2200, Protein: 160, Carbs: 210, Fat: 75})
	require.NoError(t, err)

	var logs []models.DailyLog
	require.NoError(t, db.Where("user_id = ?", user.ID).Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, float64(2200), logs[0].Calories)
	assert.Equal(t, float64(179), logs[0].WeightLbs)
}

func TestUpsertDailyLogReplacesWithZeroValues(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db)

	_, err := UpsertDailyLog(user.ID, LogInput{Date: "2025-03-10", WeightLbs: 180, Calories: 2000, Protein: 150, Carbs: 200, Fat: 70})
	require.NoError(t, err)

	// a fasted day: valid zeros must overwrite the earlier numbers
	entry, err := UpsertDailyLog(user.ID, LogInput{Date: "2025-03-10", WeightLbs: 180, Calories: 0, Protein: 0, Carbs: 0, Fat: 0})
	require.NoError(t, err)
	assert.Equal(t, float64(0), entry.Calories)

	var logs []models.DailyLog
	require.NoError(t, db.Where("user_id = ?", user.ID).Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, float64(0), logs[0].Calories)
	assert.Equal(t, float64(0), logs[0].Protein)
	assert.Equal(t, float64(0), logs[0].Carbs)
	assert.Equal(t, float64(0), logs[0].Fat)
}

func TestUpsertDailyLogRejectsInvalidInput(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db)

	_, err := UpsertDailyLog(user.ID, LogInput{Date: "2025-03-10", WeightLbs: 10, Calories: 2000})
	assert.Error(t, err)

	_, err = UpsertDailyLog(user.ID, LogInput{Date: "10/03/2025", WeightLbs: 180, Calories: 2000})
	assert.Error(t, err)
}

func TestUpsertDailyLogEmitsOvershootAlert(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db)

	// target is 2349 kcal; 3000 is well past the 15% threshold
	_, err := UpsertDailyLog(user.ID, LogInput{Date: "2025-03-10", WeightLbs: 180, Calories: 3000, Protein: 150, Carbs: 200, Fat: 70})
	require.NoError(t, err)

	alerts, err := ListAlerts(user.ID, 10)
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, "warning", alerts[0].Type)
	assert.Contains(t, alerts[0].Message, "3000 kcal")
	assert.Contains(t, alerts[0].Message, "2349 kcal target")
}

func TestUpsertDailyLogNoAlertUnderTarget(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db)

	_, err := UpsertDailyLog(user.ID, LogInput{Date: "2025-03-10", WeightLbs: 180, Calories: 2300, Protein: 150, Carbs: 200, Fat: 70})
	require.NoError(t, err)

	alerts, err := ListAlerts(user.ID, 10)
	require.NoError(t, err)
	assert.Empty(t, alerts)
}

func TestListLogsRange(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db)

	for _, d := range []string{"2025-03-08", "2025-03-10", "2025-03-12"} {
		_, err := UpsertDailyLog(user.ID, LogInput{Date: d, WeightLbs: 180, Calories: 2000, Protein: 150, Carbs: 200, Fat: 70})
		require.NoError(t, err)
	}

	from := time.Date(2025, 3, 9, 0, 0, 0, 0, time.Local)
	to := time.Date(2025, 3, 11, 0, 0, 0, 0, time.Local)
	logs, err := ListLogs(user.ID, from, to)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "2025-03-10", logs[0].Date.Format("2006-01-02"))
}

func TestLatestLog(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db)

	_, err := UpsertDailyLog(user.ID, LogInput{Date: "2025-03-08", WeightLbs: 181, Calories: 1900, Protein: 140, Carbs: 190, Fat: 65})
	require.NoError(t, err)
	_, err = UpsertDailyLog(user.ID, LogInput{Date: "2025-03-10", WeightLbs: 180, Calories: 2000, Protein: 150, Carbs: 200, Fat: 70})
	require.NoError(t, err)

	latest, err := LatestLog(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-10", latest.Date.Format("2006-01-02"))
	assert.Equal(t, float64(180), latest.WeightLbs)
}

func TestDeleteLog(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db)
	other := &models.User{Email: "other@example.com", Password: "x"}
	require.NoError(t, db.Create(other).Error)

	entry, err := UpsertDailyLog(user.ID, LogInput{Date: "2025-03-10", WeightLbs: 180, Calories: 2000, Protein: 150, Carbs: 200, Fat: 70})
	require.NoError(t, err)

	// another user's delete must not touch the row
	assert.ErrorIs(t, DeleteLog(other.ID, entry.ID), gorm.ErrRecordNotFound)
	var count int64
	db.Model(&models.DailyLog{}).Where("user_id = ?", user.ID).Count(&count)
	assert.Equal(t, int64(1), count)

	require.NoError(t, DeleteLog(user.ID, entry.ID))
	db.Model(&models.DailyLog{}).Where("user_id = ?", user.ID).Count(&count)
	assert.Equal(t, int64(0), count)

	// gone now, so a repeat delete reports not found
	assert.ErrorIs(t, DeleteLog(user.ID, entry.ID), gorm.ErrRecordNotFound)
}
