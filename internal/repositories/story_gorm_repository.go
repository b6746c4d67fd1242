package repositories

import (
	"fmt"

	"plotpilot/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMStoryRepository is a GORM implementation of StoryRepository.
type GORMStoryRepository struct {
	db *gorm.DB
}

// NewGORMStoryRepository creates a new instance of GORMStoryRepository.
func NewGORMStoryRepository(db *gorm.DB) *GORMStoryRepository {
	return &GORMStoryRepository{
		db: db,
	}
}

// Create inserts a new story row.
func (r *GORMStoryRepository) Create(story *models.Story) error {
	if story.ID == "" {
		story.ID = uuid.New().String()
	}
	if err := r.db.Create(story).Error; err != nil {
		return fmt.Errorf("failed to create story: %w", err)
	}
	return nil
}

// ListRecentByUser returns up to limit summaries of the user's stories,
// ordered by creation time descending.
func (r *GORMStoryRepository) ListRecentByUser(userID string, limit int) ([]models.StorySummary, error) {
	summaries := make([]models.StorySummary, 0, limit)
	err := r.db.Model(&models.Story{}).
		Select("id", "character_name", "theme", "genre", "location", "created_at").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&summaries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list stories for user %s: %w", userID, err)
	}
	return summaries, nil
}
