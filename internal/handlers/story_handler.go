package handlers

import (
	"log"

	"plotpilot/internal/services"

	"github.com/gofiber/fiber/v2"
)

// Defaults applied when generate request fields are absent.
const (
	defaultCharacter = "The Protagonist"
	defaultTheme     = "Adventure"
	defaultGenre     = "Fantasy"
	defaultLocation  = "Unknown Land"
	defaultLength    = "medium"
)

// StoryHandler handles HTTP requests for story generation and listing.
// All of its routes sit behind the session guard.
type StoryHandler struct {
	storyService *services.StoryService
}

// NewStoryHandler creates a new StoryHandler.
func NewStoryHandler(storyService *services.StoryService) *StoryHandler {
	return &StoryHandler{
		storyService: storyService,
	}
}

// RegisterRoutes registers the story routes with the Fiber app.
func (h *StoryHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/generate", h.HandleGenerate)
	router.Get("/my-stories", h.HandleMyStories)
}

// GenerateRequest represents the request body for story generation.
type GenerateRequest struct {
	CharacterName string `json:"characterName"`
	Theme         string `json:"theme"`
	Genre         string `json:"genre"`
	Location      string `json:"location"`
	Length        string `json:"length"`
}

// HandleGenerate generates a story for the authenticated user and persists it.
func (h *StoryHandler) HandleGenerate(c *fiber.Ctx) error {
	userID, ok := c.Locals("user_id").(string)
	if !ok || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"error":   "Please log in to continue",
		})
	}

	var req GenerateRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing generate request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}

	if req.CharacterName == "" {
		req.CharacterName = defaultCharacter
	}
	if req.Theme == "" {
		req.Theme = defaultTheme
	}
	if req.Genre == "" {
		req.Genre = defaultGenre
	}
	if req.Location == "" {
		req.Location = defaultLocation
	}
	if req.Length == "" {
		req.Length = defaultLength
	}

	story, err := h.storyService.GenerateStory(userID, req.CharacterName, req.Theme, req.Genre, req.Location, req.Length)
	if err != nil {
		log.Printf("Story generation failed for user %s: %v", userID, err)
		return writeError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"story":     story.StoryText,
		"character": story.CharacterName,
		"theme":     story.Theme,
		"genre":     story.Genre,
		"location":  story.Location,
	})
}

// HandleMyStories lists the authenticated user's most recent stories.
func (h *StoryHandler) HandleMyStories(c *fiber.Ctx) error {
	userID, ok := c.Locals("user_id").(string)
	if !ok || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"error":   "Please log in to continue",
		})
	}

	summaries, err := h.storyService.ListRecentStories(userID)
	if err != nil {
		log.Printf("Failed to list stories for user %s: %v", userID, err)
		return writeError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"stories": summaries,
	})
}
