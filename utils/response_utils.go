package utils

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// RespondWithError sends a JSON error response.
func RespondWithError(c *fiber.Ctx, statusCode int, message string) error {
	return c.Status(statusCode).JSON(fiber.Map{
		"status":  "error",
		"message": message,
	})
}

// RespondWithJSON sends a JSON success response.
func RespondWithJSON(c *fiber.Ctx, statusCode int, data interface{}) error {
	return c.Status(statusCode).JSON(fiber.Map{
		"status": "success",
		"data":   data,
	})
}

// FormatValidationErrors flattens validator/v10 errors into messages fit for
// the error envelope.
func FormatValidationErrors(err error) []string {
	var messages []string
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, ve := range verrs {
			msg := fmt.Sprintf("Field '%s' failed on the '%s' tag", ve.Field(), ve.Tag())
			if ve.Param() != "" {
				msg = fmt.Sprintf("%s (value: %s)", msg, ve.Param())
			}
			messages = append(messages, msg)
		}
		return messages
	}
	return []string{err.Error()}
}
