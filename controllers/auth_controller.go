package controllers

import (
	"errors"
	"net/http"

	"github.com/Jubbyperson/nutrition-chatbot/services"
	"github.com/Jubbyperson/nutrition-chatbot/utils"

	"github.com/gin-gonic/gin"
)

type RegisterInput struct {
	Email           string  `json:"email" binding:"required"`
	Password        string  `json:"password" binding:"required"`
	ConfirmPassword string  `json:"confirm_password" binding:"required"`
	Age             int     `json:"age" binding:"required"`
	HeightInches    float64 `json:"height_inches" binding:"required"`
	WeightLbs       float64 `json:"weight_lbs" binding:"required"`
	Sex             string  `json:"sex" binding:"required"`
	ActivityLevel   string  `json:"activity_level" binding:"required"`
	Goal            string  `json:"goal" binding:"required"`
}

func Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.Password != input.ConfirmPassword {
		c.JSON(http.StatusBadRequest, gin.H{"error": "passwords do not match"})
		return
	}

	if errs := utils.ValidateUserData(
		input.Email, input.Password, input.Age,
		input.HeightInches, input.WeightLbs,
		input.Sex, input.ActivityLevel, input.Goal,
	); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"errors": errs})
		return
	}

	user, err := services.RegisterUser(services.SignupInput{
		Email:         input.Email,
		Password:      input.Password,
		Age:           input.Age,
		HeightInches:  input.HeightInches,
		WeightLbs:     input.WeightLbs,
		Sex:           input.Sex,
		ActivityLevel: input.ActivityLevel,
		Goal:          input.Goal,
	})
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// log the new user straight in, like the signup flow in the web UI
	token, err := utils.GenerateJWT(user.ID, user.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not generate token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "registration successful", "token": token})
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := services.AuthenticateUser(input.Email, input.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

func ForgotPassword(c *gin.Context) {
	var input struct {
		Email string `json:"email"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	// Always answer the same way so the endpoint can't be used to probe
	// which emails exist.
	token, err := services.StartPasswordReset(input.Email)
	if err == nil {
		_ = utils.SendResetEmail(input.Email, token)
	}

	c.JSON(http.StatusOK, gin.H{"message": "If the email exists, a reset code has been sent"})
}

func ResetPassword(c *gin.Context) {
	var input struct {
		Token       string `json:"token"`
		NewPassword string `json:"new_password"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	if !utils.ValidatePassword(input.NewPassword) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Password must be at least 8 characters with 1 uppercase, 1 lowercase, and 1 number"})
		return
	}

	if err := services.ResetPassword(input.Token, input.NewPassword); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password has been reset"})
}
