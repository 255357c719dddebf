package utils

import (
	"errors"
	"math"
	"strings"
)

// Unit conversion constants.
const (
	LbsToKg    = 0.453592
	InchesToCm = 2.54
)

// Profile holds a user's calculated daily nutrition needs.
type Profile struct {
	WeightLbs     float64 `json:"weight_lbs"`
	HeightInches  float64 `json:"height_inches"`
	Age           int     `json:"age"`
	Sex           string  `json:"sex"`
	ActivityLevel string  `json:"activity_level"`

	BMR            float64 `json:"bmr"`
	TDEE           float64 `json:"tdee"`
	TargetCalories float64 `json:"target_calories"`
	ProteinGrams   float64 `json:"protein_grams"`
	CarbsGrams     float64 `json:"carbs_grams"`
	FatGrams       float64 `json:"fat_grams"`
	WaterOz        float64 `json:"water_oz"`
}

var activityMultipliers = map[string]float64{
	"sedentary":   1.2,
	"light":       1.375,
	"moderate":    1.55,
	"active":      1.725,
	"very_active": 1.9,
}

var goalCalorieAdjustments = map[string]float64{
	"lose_weight":       0.85, // 15% deficit
	"maintain":          1.0,
	"gain_muscle":       1.1,  // 10% surplus
	"improve_endurance": 1.05, // 5% surplus
}

// grams of protein per kg of bodyweight
var goalProteinMultipliers = map[string]float64{
	"lose_weight":       2.2, // higher protein for muscle preservation
	"maintain":          1.8,
	"gain_muscle":       2.0,
	"improve_endurance": 1.6,
}

// share of target calories from fat
var goalFatPercentages = map[string]float64{
	"lose_weight":       0.25,
	"maintain":          0.30,
	"gain_muscle":       0.25,
	"improve_endurance": 0.25,
}

// oz of water per lb of bodyweight
var waterMultipliers = map[string]float64{
	"sedentary":   0.5,
	"light":       0.55,
	"moderate":    0.6,
	"active":      0.65,
	"very_active": 0.7,
}

// CalculateBMR computes Basal Metabolic Rate with the Mifflin-St Jeor
// equation. Weight is in pounds, height in inches. Anything other than
// "male" uses the female constant.
func CalculateBMR(weightLbs, heightInches float64, age int, sex string) float64 {
	weightKg := weightLbs * LbsToKg
	heightCm := heightInches * InchesToCm

	bmr := (10 * weightKg) + (6.25 * heightCm) - (5 * float64(age))
	if strings.ToLower(sex) == "male" {
		bmr += 5
	} else {
		bmr -= 161
	}
	return math.Round(bmr)
}

// CalculateTDEE scales BMR by the activity multiplier. Unknown levels
// fall back to sedentary.
func CalculateTDEE(bmr float64, activityLevel string) float64 {
	mult, ok := activityMultipliers[strings.ToLower(activityLevel)]
	if !ok {
		mult = 1.2
	}
	return math.Round(bmr * mult)
}

// CalculateTargetCalories adjusts TDEE for the user's goal. Unknown goals
// maintain.
func CalculateTargetCalories(tdee float64, goal string) float64 {
	adj, ok := goalCalorieAdjustments[strings.ToLower(goal)]
	if !ok {
		adj = 1.0
	}
	return math.Round(tdee * adj)
}

// CalculateMacros distributes target calories: protein from bodyweight
// (4 kcal/g), fat as a share of calories (9 kcal/g), the remainder to
// carbs (4 kcal/g).
func CalculateMacros(targetCalories float64, goal string, weightLbs float64) (protein, carbs, fat float64) {
	g := strings.ToLower(goal)

	protMult, ok := goalProteinMultipliers[g]
	if !ok {
		protMult = 1.8
	}
	protein = math.Round(weightLbs * LbsToKg * protMult)
	proteinCalories := protein * 4

	fatPct, ok := goalFatPercentages[g]
	if !ok {
		fatPct = 0.30
	}
	fatCalories := targetCalories * fatPct
	fat = math.Round(fatCalories / 9)

	carbCalories := targetCalories - proteinCalories - fatCalories
	carbs = math.Round(carbCalories / 4)

	return protein, carbs, fat
}

// CalculateWaterNeeds returns recommended daily water in ounces,
// 0.5-0.7oz per pound depending on activity level.
func CalculateWaterNeeds(weightLbs float64, activityLevel string) float64 {
	mult, ok := waterMultipliers[strings.ToLower(activityLevel)]
	if !ok {
		mult = 0.5
	}
	return math.Round(weightLbs * mult)
}

// CalculateProfile validates inputs and derives the full set of targets.
func CalculateProfile(weightLbs, heightInches float64, age int, sex, activityLevel, goal string) (*Profile, error) {
	if weightLbs <= 0 || heightInches <= 0 || age <= 0 {
		return nil, errors.New("weight, height, and age must be positive")
	}
	if !ValidateSex(sex) {
		return nil, errors.New("sex must be 'male', 'female', or 'other'")
	}
	if !ValidateActivityLevel(activityLevel) {
		return nil, errors.New("activity level must be one of: " + keysOf(ActivityLevels))
	}
	if !ValidateGoal(goal) {
		return nil, errors.New("goal must be one of: " + keysOf(Goals))
	}

	bmr := CalculateBMR(weightLbs, heightInches, age, sex)
	tdee := CalculateTDEE(bmr, activityLevel)
	target := CalculateTargetCalories(tdee, goal)
	protein, carbs, fat := CalculateMacros(target, goal, weightLbs)
	water := CalculateWaterNeeds(weightLbs, activityLevel)

	return &Profile{
		WeightLbs:      weightLbs,
		HeightInches:   heightInches,
		Age:            age,
		Sex:            strings.ToLower(sex),
		ActivityLevel:  strings.ToLower(activityLevel),
		BMR:            bmr,
		TDEE:           tdee,
		TargetCalories: target,
		ProteinGrams:   protein,
		CarbsGrams:     carbs,
		FatGrams:       fat,
		WaterOz:        water,
	}, nil
}

// CalculateBMI expects height in inches and weight in pounds.
func CalculateBMI(heightInches, weightLbs float64) (float64, error) {
	if heightInches <= 0 || weightLbs <= 0 {
		return 0, errors.New("height and weight must be positive")
	}
	if !ValidateHeight(heightInches) || !ValidateWeight(weightLbs) {
		return 0, errors.New("height/weight out of plausible range")
	}

	h := heightInches * InchesToCm / 100.0 // to meters
	bmi := weightLbs * LbsToKg / (h * h)
	return math.Round(bmi*10) / 10, nil
}

func BMICategory(bmi float64) string {
	switch {
	case bmi < 18.5:
		return "Underweight"
	case bmi < 25.0:
		return "Normal weight"
	case bmi < 30.0:
		return "Overweight"
	case bmi < 35.0:
		return "Obesity class I"
	case bmi < 40.0:
		return "Obesity class II"
	default:
		return "Obesity class III"
	}
}
