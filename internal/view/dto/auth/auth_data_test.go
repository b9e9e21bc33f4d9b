package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoginCardData_Labels(t *testing.T) {
	login := LoginCardData{}
	assert.Equal(t, "Login", login.SubmitLabel())
	assert.Equal(t, "Don't have an account? Register", login.ToggleLabel())
	assert.Equal(t, "login", login.Mode())

	register := LoginCardData{Register: true}
	assert.Equal(t, "Register", register.SubmitLabel())
	assert.Equal(t, "Already have an account? Login", register.ToggleLabel())
	assert.Equal(t, "register", register.Mode())

	register.Submitting = true
	assert.Equal(t, "Please wait...", register.SubmitLabel())
}
