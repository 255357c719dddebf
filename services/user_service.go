package services

import (
	"errors"
	"strings"

	"github.com/Jubbyperson/nutrition-chatbot/config"
	"github.com/Jubbyperson/nutrition-chatbot/models"
	"github.com/Jubbyperson/nutrition-chatbot/utils"
)

type ProfileUpdateInput struct {
	Age           int     `json:"age"`
	HeightInches  float64 `json:"height_inches"`
	WeightLbs     float64 `json:"weight_lbs"`
	Sex           string  `json:"sex"`
	ActivityLevel string  `json:"activity_level"`
	Goal          string  `json:"goal"`
}

// GetUserProfile returns the stored account fields together with the
// computed nutrition targets and BMI.
func GetUserProfile(userID uint) (map[string]interface{}, error) {
	var user models.User
	if err := config.DB.First(&user, userID).Error; err != nil {
		return nil, errors.New("user not found")
	}

	out := map[string]interface{}{
		"id":             user.ID,
		"email":          user.Email,
		"age":            user.Age,
		"height_inches":  user.HeightInches,
		"weight_lbs":     user.WeightLbs,
		"sex":            user.Sex,
		"activity_level": user.ActivityLevel,
		"goal":           user.Goal,
	}

	if profile, err := utils.CalculateProfile(
		user.WeightLbs, user.HeightInches, user.Age,
		user.Sex, user.ActivityLevel, user.Goal,
	); err == nil {
		out["targets"] = profile
	}
	if bmi, err := utils.CalculateBMI(user.HeightInches, user.WeightLbs); err == nil {
		out["bmi"] = bmi
		out["bmi_category"] = utils.BMICategory(bmi)
	}

	return out, nil
}

func UpdateUserProfile(userID uint, in ProfileUpdateInput) error {
	var user models.User
	if err := config.DB.First(&user, userID).Error; err != nil {
		return errors.New("user not found")
	}

	if in.Age > 0 {
		if !utils.ValidateAge(in.Age) {
			return errors.New("age must be between 13 and 120")
		}
		user.Age = in.Age
	}
	if in.HeightInches > 0 {
		if !utils.ValidateHeight(in.HeightInches) {
			return errors.New("height must be between 20 and 100 inches")
		}
		user.HeightInches = in.HeightInches
	}
	if in.WeightLbs > 0 {
		if !utils.ValidateWeight(in.WeightLbs) {
			return errors.New("weight must be between 50 and 661 pounds")
		}
		user.WeightLbs = in.WeightLbs
	}
	if in.Sex != "" {
		if !utils.ValidateSex(in.Sex) {
			return errors.New("sex must be 'male', 'female', or 'other'")
		}
		user.Sex = strings.ToLower(in.Sex)
	}
	if in.ActivityLevel != "" {
		if !utils.ValidateActivityLevel(in.ActivityLevel) {
			return errors.New("unknown activity level")
		}
		user.ActivityLevel = strings.ToLower(in.ActivityLevel)
	}
	if in.Goal != "" {
		if !utils.ValidateGoal(in.Goal) {
			return errors.New("unknown goal")
		}
		user.Goal = strings.ToLower(in.Goal)
	}

	return config.DB.Save(&user).Error
}

// ProfileForUser computes the nutrition targets for a stored user.
func ProfileForUser(user *models.User) (*utils.Profile, error) {
	return utils.CalculateProfile(
		user.WeightLbs, user.HeightInches, user.Age,
		user.Sex, user.ActivityLevel, user.Goal,
	)
}
