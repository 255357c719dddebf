package services

import (
	"errors"
	"strings"
	"time"

	"github.com/Jubbyperson/nutrition-chatbot/config"
	"github.com/Jubbyperson/nutrition-chatbot/models"
	"github.com/Jubbyperson/nutrition-chatbot/utils"

	"gorm.io/gorm"
)

var ErrEmailTaken = errors.New("email already exists")

type SignupInput struct {
	Email         string
	Password      string
	Age           int
	HeightInches  float64
	WeightLbs     float64
	Sex           string
	ActivityLevel string
	Goal          string
}

func RegisterUser(in SignupInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))

	var existing models.User
	err := config.DB.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil, ErrEmailTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Email:         email,
		Password:      hashed,
		Age:           in.Age,
		HeightInches:  in.HeightInches,
		WeightLbs:     in.WeightLbs,
		Sex:           strings.ToLower(in.Sex),
		ActivityLevel: strings.ToLower(in.ActivityLevel),
		Goal:          strings.ToLower(in.Goal),
	}
	if err := config.DB.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func AuthenticateUser(email, password string) (string, error) {
	var user models.User
	result := config.DB.Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user)
	if result.Error != nil {
		return "", errors.New("invalid email or password")
	}

	if !utils.CheckPasswordHash(password, user.Password) {
		return "", errors.New("invalid email or password")
	}

	return utils.GenerateJWT(user.ID, user.Email)
}

func FindUserByEmail(email string) (*models.User, error) {
	var user models.User
	result := config.DB.First(&user, "email = ?", email)
	if result.Error != nil {
		return nil, errors.New("user not found")
	}
	return &user, nil
}

// StartPasswordReset stores a short-lived reset code on the user record.
// Callers should not reveal whether the email exists.
func StartPasswordReset(email string) (string, error) {
	user, err := FindUserByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return "", err
	}

	token := utils.GenerateRandomToken(6)
	user.ResetToken = token
	user.ResetTokenExp = time.Now().Add(15 * time.Minute)
	if err := config.DB.Save(user).Error; err != nil {
		return "", err
	}
	return token, nil
}

func ResetPassword(token, newPassword string) error {
	var user models.User
	result := config.DB.Where("reset_token = ? AND reset_token <> ''", token).First(&user)
	if result.Error != nil || time.Now().After(user.ResetTokenExp) {
		return errors.New("invalid or expired token")
	}

	hashed, err := utils.HashPassword(newPassword)
	if err != nil {
		return err
	}

	user.Password = hashed
	user.ResetToken = ""
	user.ResetTokenExp = time.Time{}
	return config.DB.Save(&user).Error
}
