package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"grocery-price-tracker/domain"
)

// statusFor maps domain errors onto HTTP status codes so every handler
// reports the error taxonomy the same way. Not-found answers identically
// for missing and foreign-owned resources.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrReceiptNotFound),
		errors.Is(err, domain.ErrItemNotFound),
		errors.Is(err, domain.ErrUserNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrEmailAlreadyRegistered):
		return fiber.StatusConflict
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrTokenInvalid),
		errors.Is(err, domain.ErrTokenExpired):
		return fiber.StatusUnauthorized
	case errors.Is(err, domain.ErrExtractorNotConfigured),
		errors.Is(err, domain.ErrExtractorFailed):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusBadRequest
	}
}
