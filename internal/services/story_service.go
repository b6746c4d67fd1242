package services

import (
	"fmt"
	"log"
	"time"

	"plotpilot/internal/models"
	"plotpilot/internal/repositories"
	"plotpilot/pkg/rabbitmq"

	"github.com/google/uuid"
)

// recentStoriesLimit caps how many stories the listing returns.
const recentStoriesLimit = 10

// StoryGenerator produces story text from the prompt parameters. Implemented
// by pkg/openai.Client; stubbed in tests.
type StoryGenerator interface {
	GenerateStory(characterName, theme, genre, location, length string) (string, error)
}

// StoryService handles story generation and persistence.
type StoryService struct {
	storyRepo repositories.StoryRepository
	generator StoryGenerator
	mqClient  *rabbitmq.Client // optional, may be nil
}

// NewStoryService creates a new StoryService. mqClient may be nil, in which
// case story events are not published.
func NewStoryService(storyRepo repositories.StoryRepository, generator StoryGenerator, mqClient *rabbitmq.Client) *StoryService {
	return &StoryService{
		storyRepo: storyRepo,
		generator: generator,
		mqClient:  mqClient,
	}
}

// GenerateStory asks the generation provider for a story and persists it for
// the user. When generation fails, nothing is persisted and the provider's
// error is returned as-is for the boundary to map.
func (s *StoryService) GenerateStory(userID, characterName, theme, genre, location, length string) (*models.Story, error) {
	text, err := s.generator.GenerateStory(characterName, theme, genre, location, length)
	if err != nil {
		return nil, err
	}

	story := &models.Story{
		ID:            uuid.New().String(),
		UserID:        userID,
		CharacterName: characterName,
		Theme:         theme,
		Genre:         genre,
		Location:      location,
		StoryText:     text,
		CreatedAt:     time.Now(),
	}
	if err := s.storyRepo.Create(story); err != nil {
		return nil, fmt.Errorf("failed to save story: %w", err)
	}

	// Publish a story.generated event. Failures are logged only: the story
	// is already persisted and the request must not fail because of the broker.
	if s.mqClient != nil {
		event := map[string]interface{}{
			"storyID": story.ID,
			"userID":  story.UserID,
			"genre":   story.Genre,
			"theme":   story.Theme,
		}
		if err := s.mqClient.PublishStoryGenerated(event); err != nil {
			log.Printf("Warning: failed to publish story generated event for story %s: %v", story.ID, err)
		}
	}

	return story, nil
}

// ListRecentStories returns summaries of the user's most recent stories,
// newest first, capped at 10.
func (s *StoryService) ListRecentStories(userID string) ([]models.StorySummary, error) {
	summaries, err := s.storyRepo.ListRecentByUser(userID, recentStoriesLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list stories: %w", err)
	}
	return summaries, nil
}
