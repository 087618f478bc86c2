package handlers

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"

	"contactly/internal/database"
	authsvc "contactly/internal/platform/auth"
	contactsvc "contactly/internal/platform/contact"
	"contactly/pkg/logger"
)

// errorKind maps a service error to an HTTP status and a stable kind string,
// so clients can discriminate errors without parsing message text.
func errorKind(err error) (int, string) {
	switch {
	case errors.Is(err, authsvc.ErrDuplicateEmail), errors.Is(err, contactsvc.ErrDuplicateEmail):
		return fiber.StatusBadRequest, "duplicate_email"
	case errors.Is(err, authsvc.ErrDuplicateDomain), errors.Is(err, database.ErrDuplicateDomain):
		return fiber.StatusBadRequest, "duplicate_domain"
	case errors.Is(err, authsvc.ErrInvalidCredentials):
		return fiber.StatusUnauthorized, "invalid_credentials"
	case errors.Is(err, authsvc.ErrUserNotFound):
		return fiber.StatusNotFound, "user_not_found"
	case errors.Is(err, contactsvc.ErrContactNotFound):
		return fiber.StatusNotFound, "contact_not_found"
	case errors.Is(err, authsvc.ErrInvalidResetToken):
		return fiber.StatusBadRequest, "invalid_reset_token"
	default:
		return fiber.StatusInternalServerError, "server_error"
	}
}

func errorResponse(c *fiber.Ctx, err error) error {
	status, kind := errorKind(err)

	message := err.Error()
	if status == fiber.StatusInternalServerError {
		log := logger.Get()
		log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
		message = "Internal server error"
	}

	return c.Status(status).JSON(fiber.Map{"error": message, "kind": kind})
}

func validationErrorResponse(c *fiber.Ctx, err error) error {
	var errorMessages []string
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, fieldErr := range validationErrors {
			errorMessages = append(errorMessages, fmt.Sprintf("%s is %s", fieldErr.Field(), fieldErr.Tag()))
		}
	} else {
		errorMessages = append(errorMessages, err.Error())
	}

	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error":  "Validation failed",
		"kind":   "validation_error",
		"errors": errorMessages,
	})
}
