package utils

import (
	"github.com/go-playground/validator/v10"
)

// NewValidator builds the request validator shared by the handlers.
func NewValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}
