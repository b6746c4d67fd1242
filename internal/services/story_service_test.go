package services_test

import (
	"fmt"
	"testing"

	"plotpilot/internal/models"
	"plotpilot/internal/services"
	"plotpilot/pkg/openai"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockStoryRepository is a mock implementation of repositories.StoryRepository
type MockStoryRepository struct {
	mock.Mock
}

func (m *MockStoryRepository) Create(story *models.Story) error {
	args := m.Called(story)
	return args.Error(0)
}

func (m *MockStoryRepository) ListRecentByUser(userID string, limit int) ([]models.StorySummary, error) {
	args := m.Called(userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.StorySummary), args.Error(1)
}

// stubGenerator is a canned services.StoryGenerator that records its inputs.
type stubGenerator struct {
	text       string
	err        error
	lastLength string
	calls      int
}

func (g *stubGenerator) GenerateStory(characterName, theme, genre, location, length string) (string, error) {
	g.calls++
	g.lastLength = length
	if g.err != nil {
		return "", g.err
	}
	return g.text, nil
}

func TestStoryService_GenerateStory(t *testing.T) {
	mockRepo := new(MockStoryRepository)
	generator := &stubGenerator{text: "Once upon a time in Eldoria..."}
	storyService := services.NewStoryService(mockRepo, generator, nil)

	mockRepo.On("Create", mock.AnythingOfType("*models.Story")).Return(nil).Once()

	story, err := storyService.GenerateStory("user-123", "Mira", "Courage", "Fantasy", "Eldoria", "long")
	assert.NoError(t, err)
	assert.Equal(t, "user-123", story.UserID)
	assert.Equal(t, "Mira", story.CharacterName)
	assert.Equal(t, "Courage", story.Theme)
	assert.Equal(t, "Fantasy", story.Genre)
	assert.Equal(t, "Eldoria", story.Location)
	assert.Equal(t, "Once upon a time in Eldoria...", story.StoryText)
	assert.NotEmpty(t, story.ID)
	assert.False(t, story.CreatedAt.IsZero())
	// The length category is passed through to the adapter untouched
	assert.Equal(t, "long", generator.lastLength)
	mockRepo.AssertExpectations(t)

	// The persisted row carries the same values as the returned story
	saved := mockRepo.Calls[0].Arguments.Get(0).(*models.Story)
	assert.Equal(t, story.ID, saved.ID)
	assert.Equal(t, story.StoryText, saved.StoryText)
}

func TestStoryService_GenerateStoryFailureIsNotPersisted(t *testing.T) {
	mockRepo := new(MockStoryRepository)
	generator := &stubGenerator{err: &openai.GenerationError{Message: "Incorrect API key provided"}}
	storyService := services.NewStoryService(mockRepo, generator, nil)

	story, err := storyService.GenerateStory("user-123", "Mira", "Courage", "Fantasy", "Eldoria", "medium")
	assert.Nil(t, story)

	// The provider error passes through untouched for the boundary to map
	var generationErr *openai.GenerationError
	assert.ErrorAs(t, err, &generationErr)
	assert.Equal(t, "Incorrect API key provided", generationErr.Message)

	// A failed generation leaves no story behind
	mockRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestStoryService_GenerateStoryStorageFailure(t *testing.T) {
	mockRepo := new(MockStoryRepository)
	generator := &stubGenerator{text: "A story"}
	storyService := services.NewStoryService(mockRepo, generator, nil)

	mockRepo.On("Create", mock.AnythingOfType("*models.Story")).Return(fmt.Errorf("database is locked")).Once()

	story, err := storyService.GenerateStory("user-123", "Mira", "Courage", "Fantasy", "Eldoria", "medium")
	assert.Nil(t, story)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to save story")
	mockRepo.AssertExpectations(t)
}

func TestStoryService_ListRecentStories(t *testing.T) {
	mockRepo := new(MockStoryRepository)
	storyService := services.NewStoryService(mockRepo, &stubGenerator{}, nil)

	summaries := []models.StorySummary{
		{ID: "story-2", CharacterName: "Mira"},
		{ID: "story-1", CharacterName: "Bram"},
	}
	mockRepo.On("ListRecentByUser", "user-123", 10).Return(summaries, nil).Once()

	got, err := storyService.ListRecentStories("user-123")
	assert.NoError(t, err)
	assert.Equal(t, summaries, got)
	mockRepo.AssertExpectations(t)

	// A user with no stories gets an empty list, not an error
	mockRepo.On("ListRecentByUser", "user-456", 10).Return([]models.StorySummary{}, nil).Once()
	got, err = storyService.ListRecentStories("user-456")
	assert.NoError(t, err)
	assert.Empty(t, got)
	mockRepo.AssertExpectations(t)
}
