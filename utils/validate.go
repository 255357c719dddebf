package utils

import (
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode"
)

// ActivityLevels maps the accepted activity level keys to a description
// shown to clients.
var ActivityLevels = map[string]string{
	"sedentary":   "Little or no exercise",
	"light":       "Light exercise 1-3 days/week",
	"moderate":    "Moderate exercise 3-5 days/week",
	"active":      "Hard exercise 6-7 days/week",
	"very_active": "Very hard exercise & physical job or training twice per day",
}

// Goals maps the accepted goal keys to a description.
var Goals = map[string]string{
	"lose_weight":       "Lose weight",
	"maintain":          "Maintain weight",
	"gain_muscle":       "Build muscle",
	"improve_endurance": "Improve endurance",
}

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

func ValidateEmail(email string) bool {
	return email != "" && emailPattern.MatchString(email)
}

// ValidatePassword requires at least 8 characters with one uppercase,
// one lowercase and one digit.
func ValidatePassword(password string) bool {
	if len(password) < 8 {
		return false
	}
	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	return hasUpper && hasLower && hasDigit
}

func ValidateAge(age int) bool {
	return age >= 13 && age <= 120
}

// ValidateHeight checks height in inches (20in to 100in).
func ValidateHeight(height float64) bool {
	return height >= 20 && height <= 100
}

// ValidateWeight checks weight in pounds (50lbs to 661lbs, i.e. up to 300kg).
func ValidateWeight(weight float64) bool {
	return weight >= 50 && weight <= 661
}

func ValidateSex(sex string) bool {
	switch strings.ToLower(sex) {
	case "male", "female", "other":
		return true
	}
	return false
}

func ValidateActivityLevel(level string) bool {
	_, ok := ActivityLevels[strings.ToLower(level)]
	return ok
}

func ValidateGoal(goal string) bool {
	_, ok := Goals[strings.ToLower(goal)]
	return ok
}

// ValidateNutritionValues keeps logged intake inside plausible bounds:
// calories 0-10000, protein 0-500g, carbs 0-1000g, fat 0-500g.
func ValidateNutritionValues(calories, protein, carbs, fat float64) bool {
	if calories < 0 || calories > 10000 {
		return false
	}
	if protein < 0 || protein > 500 {
		return false
	}
	if carbs < 0 || carbs > 1000 {
		return false
	}
	return fat >= 0 && fat <= 500
}

func ValidateDate(dateStr string) bool {
	if dateStr == "" {
		return true
	}
	_, err := time.Parse("2006-01-02", dateStr)
	return err == nil
}

// ValidateUserData checks all signup fields and returns a field -> message
// map; an empty map means the data is valid.
func ValidateUserData(email, password string, age int, height, weight float64, sex, activityLevel, goal string) map[string]string {
	errs := map[string]string{}

	if !ValidateEmail(email) {
		errs["email"] = "Invalid email format"
	}
	if !ValidatePassword(password) {
		errs["password"] = "Password must be at least 8 characters with 1 uppercase, 1 lowercase, and 1 number"
	}
	if !ValidateAge(age) {
		errs["age"] = "Age must be between 13 and 120"
	}
	if !ValidateHeight(height) {
		errs["height"] = "Height must be between 20 and 100 inches"
	}
	if !ValidateWeight(weight) {
		errs["weight"] = "Weight must be between 50 and 661 pounds"
	}
	if !ValidateSex(sex) {
		errs["sex"] = "Sex must be 'male', 'female', or 'other'"
	}
	if !ValidateActivityLevel(activityLevel) {
		errs["activity_level"] = "Activity level must be one of: " + keysOf(ActivityLevels)
	}
	if !ValidateGoal(goal) {
		errs["goal"] = "Goal must be one of: " + keysOf(Goals)
	}

	return errs
}

// ValidateLogData checks a daily nutrition log entry.
func ValidateLogData(weight, calories, protein, carbs, fat float64, date string) map[string]string {
	errs := map[string]string{}

	if !ValidateWeight(weight) {
		errs["weight"] = "Weight must be between 50 and 661 pounds"
	}
	if !ValidateNutritionValues(calories, protein, carbs, fat) {
		errs["nutrition"] = "Nutrition values must be reasonable (calories: 0-10000, protein: 0-500, carbs: 0-1000, fat: 0-500)"
	}
	if !ValidateDate(date) {
		errs["date"] = "Date must be in YYYY-MM-DD format"
	}

	return errs
}

func keysOf(m map[string]string) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys) // stable order for error messages
	return strings.Join(keys, ", ")
}
