package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	valid := []string{"user@example.com", "first.last+tag@sub.domain.org", "a_b%c@host.io"}
	for _, e := range valid {
		assert.True(t, ValidateEmail(e), e)
	}
	invalid := []string{"", "plain", "missing@tld", "@nouser.com", "spaces in@mail.com"}
	for _, e := range invalid {
		assert.False(t, ValidateEmail(e), e)
	}
}

func TestValidatePassword(t *testing.T) {
	assert.True(t, ValidatePassword("Passw0rd"))
	assert.True(t, ValidatePassword("longEnough123"))

	assert.False(t, ValidatePassword("Sh0rt"))        // too short
	assert.False(t, ValidatePassword("alllower1"))    // no uppercase
	assert.False(t, ValidatePassword("ALLUPPER1"))    // no lowercase
	assert.False(t, ValidatePassword("NoDigitsHere")) // no digit
}

func TestRangeValidators(t *testing.T) {
	assert.True(t, ValidateAge(13))
	assert.True(t, ValidateAge(120))
	assert.False(t, ValidateAge(12))
	assert.False(t, ValidateAge(121))

	assert.True(t, ValidateHeight(70))
	assert.False(t, ValidateHeight(19))
	assert.False(t, ValidateHeight(101))

	assert.True(t, ValidateWeight(180))
	assert.False(t, ValidateWeight(49))
	assert.False(t, ValidateWeight(662))
}

func TestValidateSexActivityGoal(t *testing.T) {
	assert.True(t, ValidateSex("male"))
	assert.True(t, ValidateSex("Female"))
	assert.True(t, ValidateSex("other"))
	assert.False(t, ValidateSex("unknown"))

	assert.True(t, ValidateActivityLevel("very_active"))
	assert.False(t, ValidateActivityLevel("olympic"))

	assert.True(t, ValidateGoal("improve_endurance"))
	assert.False(t, ValidateGoal("bulk"))
}

func TestValidateNutritionValues(t *testing.T) {
	assert.True(t, ValidateNutritionValues(2000, 150, 200, 70))
	assert.True(t, ValidateNutritionValues(0, 0, 0, 0))

	assert.False(t, ValidateNutritionValues(-1, 150, 200, 70))
	assert.False(t, ValidateNutritionValues(10001, 150, 200, 70))
	assert.False(t, ValidateNutritionValues(2000, 501, 200, 70))
	assert.False(t, ValidateNutritionValues(2000, 150, 1001, 70))
	assert.False(t, ValidateNutritionValues(2000, 150, 200, 501))
}

func TestValidateDate(t *testing.T) {
	assert.True(t, ValidateDate(""))
	assert.True(t, ValidateDate("2025-03-10"))
	assert.False(t, ValidateDate("03/10/2025"))
	assert.False(t, ValidateDate("2025-13-01"))
}

func TestValidateUserData(t *testing.T) {
	errs := ValidateUserData("user@example.com", "Passw0rd", 30, 70, 180, "male", "moderate", "lose_weight")
	assert.Empty(t, errs)

	errs = ValidateUserData("bad-email", "weak", 5, 10, 20, "robot", "olympic", "bulk")
	assert.Len(t, errs, 8)
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "password")
	assert.Contains(t, errs, "age")
	assert.Contains(t, errs, "height")
	assert.Contains(t, errs, "weight")
	assert.Contains(t, errs, "sex")
	assert.Contains(t, errs, "activity_level")
	assert.Contains(t, errs, "goal")
}

func TestValidateLogData(t *testing.T) {
	errs := ValidateLogData(180, 2000, 150, 200, 70, "2025-03-10")
	assert.Empty(t, errs)

	errs = ValidateLogData(10, 20000, 150, 200, 70, "not-a-date")
	assert.Contains(t, errs, "weight")
	assert.Contains(t, errs, "nutrition")
	assert.Contains(t, errs, "date")
}
