package repositories

import (
	"sort"
	"sync"
	"time"

	"plotpilot/internal/models"

	"github.com/google/uuid"
)

// MockStoryRepository is an in-memory implementation of StoryRepository.
type MockStoryRepository struct {
	stories map[string]models.Story
	mu      sync.RWMutex
}

// NewMockStoryRepository creates a new instance of MockStoryRepository.
func NewMockStoryRepository() *MockStoryRepository {
	return &MockStoryRepository{
		stories: make(map[string]models.Story),
	}
}

// Create adds a new story.
func (r *MockStoryRepository) Create(story *models.Story) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if story.ID == "" {
		story.ID = uuid.New().String()
	}
	if story.CreatedAt.IsZero() {
		story.CreatedAt = time.Now()
	}
	r.stories[story.ID] = *story
	return nil
}

// ListRecentByUser returns up to limit summaries of the user's stories,
// most recent first.
func (r *MockStoryRepository) ListRecentByUser(userID string, limit int) ([]models.StorySummary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	owned := make([]models.Story, 0)
	for _, story := range r.stories {
		if story.UserID == userID {
			owned = append(owned, story)
		}
	}
	sort.Slice(owned, func(i, j int) bool {
		return owned[i].CreatedAt.After(owned[j].CreatedAt)
	})

	if len(owned) > limit {
		owned = owned[:limit]
	}
	summaries := make([]models.StorySummary, 0, len(owned))
	for _, story := range owned {
		summaries = append(summaries, models.StorySummary{
			ID:            story.ID,
			CharacterName: story.CharacterName,
			Theme:         story.Theme,
			Genre:         story.Genre,
			Location:      story.Location,
			CreatedAt:     story.CreatedAt,
		})
	}
	return summaries, nil
}
