package handlers

import (
	"errors"
	"log"

	"plotpilot/internal/services"
	"plotpilot/pkg/openai"

	"github.com/gofiber/fiber/v2"
)

// writeError maps a service error to its status code and JSON body. Every
// handler funnels failures through here so no raw fault reaches the client.
func writeError(c *fiber.Ctx, err error) error {
	var validationErr *services.ValidationError
	if errors.As(err, &validationErr) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   validationErr.Message,
		})
	}

	var conflictErr *services.ConflictError
	if errors.As(err, &conflictErr) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   conflictErr.Message,
		})
	}

	if errors.Is(err, services.ErrInvalidCredentials) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid username or password",
		})
	}

	var generationErr *openai.GenerationError
	if errors.As(err, &generationErr) {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   generationErr.Message,
		})
	}

	log.Printf("Unhandled error: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"success": false,
		"error":   "Something went wrong. Please try again.",
	})
}
