package repositories

import "plotpilot/internal/models"

// StoryRepository defines the interface for story data access.
type StoryRepository interface {
	Create(story *models.Story) error
	// ListRecentByUser returns up to limit story summaries for the user,
	// most recent first. The generated text is not included.
	ListRecentByUser(userID string, limit int) ([]models.StorySummary, error)
}
