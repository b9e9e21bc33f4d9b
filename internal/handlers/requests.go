package handlers

import (
	"github.com/go-playground/validator/v10"
)

// CustomValidator wraps the go-playground/validator library to implement Echo's Validator interface.
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new CustomValidator.
func NewValidator() *CustomValidator {
	return &CustomValidator{validator: validator.New()}
}

// Validate implements the echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// LoginFormRequest is a post from the login card. Required-field checks
// belong to the form controller, so nothing here is validated.
type LoginFormRequest struct {
	FormID   string `form:"form_id"`
	Mode     string `form:"mode"`
	FullName string `form:"full_name"`
	Email    string `form:"email"`
	Password string `form:"password"`
}

// SessionSocketRequest selects the screen a session socket watches.
type SessionSocketRequest struct {
	Screen string `query:"screen" validate:"required,oneof=login home"`
}
