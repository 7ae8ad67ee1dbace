package utils

import (
	"errors"

	"github.com/curiokeep/curiokeep/internal/types"
	"github.com/gofiber/fiber/v2"
)

// ErrorResponse sends the standard error envelope: {"error": ..., "details": ...}
func ErrorResponse(c *fiber.Ctx, status int, message string, details string) error {
	body := fiber.Map{"error": message}
	if details != "" {
		body["details"] = details
	}
	return c.Status(status).JSON(body)
}

// APIErrorResponse converts a service error into the standard envelope.
// Non-APIError values are treated as upstream failures.
func APIErrorResponse(c *fiber.Ctx, err error) error {
	var apiErr *types.APIError
	if errors.As(err, &apiErr) {
		return ErrorResponse(c, apiErr.Code, apiErr.Message, apiErr.Details)
	}
	return ErrorResponse(c, fiber.StatusInternalServerError, "Internal server error", err.Error())
}

// MessageResponse sends a simple {"message": ...} payload
func MessageResponse(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"message": message})
}

// ErrorResponseStruct defines the schema for error responses
type ErrorResponseStruct struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// MessageResponseStruct defines the schema for simple message responses
type MessageResponseStruct struct {
	Message string `json:"message"`
}
