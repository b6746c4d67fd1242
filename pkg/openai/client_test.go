package openai_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"plotpilot/pkg/openai"

	"github.com/stretchr/testify/assert"
)

type capturedRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
}

// newCompletionServer returns a test server that records the last request
// and answers with the given story text.
func newCompletionServer(t *testing.T, storyText string, captured *capturedRequest, authHeader *string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/chat/completions", r.URL.Path)
		*authHeader = r.Header.Get("Authorization")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(captured))

		w.Header().Set("Content-Type", "application/json")
		resp := map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": storyText}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
}

func TestClient_GenerateStory(t *testing.T) {
	var captured capturedRequest
	var authHeader string
	server := newCompletionServer(t, "Once upon a time...", &captured, &authHeader)
	defer server.Close()

	client := openai.NewClient(openai.Config{APIKey: "test-key", BaseURL: server.URL})

	text, err := client.GenerateStory("Mira", "Courage", "Fantasy", "Eldoria", "medium")
	assert.NoError(t, err)
	assert.Equal(t, "Once upon a time...", text)

	// Credential and fixed sampling parameters
	assert.Equal(t, "Bearer test-key", authHeader)
	assert.Equal(t, "gpt-4o-mini", captured.Model)
	assert.Equal(t, 4096, captured.MaxTokens)
	assert.InDelta(t, 0.9, captured.Temperature, 0.0001)

	// System persona plus a single user prompt embedding the parameters
	assert.Len(t, captured.Messages, 2)
	assert.Equal(t, "system", captured.Messages[0].Role)
	assert.Contains(t, captured.Messages[0].Content, "creative storytelling expert")
	assert.Equal(t, "user", captured.Messages[1].Role)
	prompt := captured.Messages[1].Content
	assert.Contains(t, prompt, "Character Name: Mira")
	assert.Contains(t, prompt, "Theme: Courage")
	assert.Contains(t, prompt, "Genre: Fantasy")
	assert.Contains(t, prompt, "Location/Setting: Eldoria")
	assert.Contains(t, prompt, "Length: 1000-1500 words")
}

func TestClient_GenerateStoryLengthBands(t *testing.T) {
	tests := []struct {
		length string
		band   string
	}{
		{"short", "500-800 words"},
		{"medium", "1000-1500 words"},
		{"long", "2000-3000 words"},
		{"epic", "1000-1500 words"}, // unrecognized falls back to medium
		{"", "1000-1500 words"},
	}

	for _, tt := range tests {
		t.Run("length="+tt.length, func(t *testing.T) {
			var captured capturedRequest
			var authHeader string
			server := newCompletionServer(t, "story", &captured, &authHeader)
			defer server.Close()

			client := openai.NewClient(openai.Config{APIKey: "test-key", BaseURL: server.URL})
			_, err := client.GenerateStory("Mira", "Courage", "Fantasy", "Eldoria", tt.length)
			assert.NoError(t, err)
			assert.Contains(t, captured.Messages[1].Content, "Length: "+tt.band)
		})
	}
}

func TestClient_GenerateStoryProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]string{"message": "Incorrect API key provided"},
		})
	}))
	defer server.Close()

	client := openai.NewClient(openai.Config{APIKey: "bad-key", BaseURL: server.URL})

	text, err := client.GenerateStory("Mira", "Courage", "Fantasy", "Eldoria", "medium")
	assert.Empty(t, text)

	// The provider's message is surfaced verbatim
	var generationErr *openai.GenerationError
	assert.ErrorAs(t, err, &generationErr)
	assert.Equal(t, "Incorrect API key provided", generationErr.Message)
}

func TestClient_GenerateStoryEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{"choices": []interface{}{}})
	}))
	defer server.Close()

	client := openai.NewClient(openai.Config{APIKey: "test-key", BaseURL: server.URL})

	_, err := client.GenerateStory("Mira", "Courage", "Fantasy", "Eldoria", "medium")
	var generationErr *openai.GenerationError
	assert.ErrorAs(t, err, &generationErr)
}

func TestClient_GenerateStoryTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // Connection refused from here on

	client := openai.NewClient(openai.Config{APIKey: "test-key", BaseURL: server.URL})

	_, err := client.GenerateStory("Mira", "Courage", "Fantasy", "Eldoria", "medium")
	var generationErr *openai.GenerationError
	assert.ErrorAs(t, err, &generationErr)
	assert.NotEmpty(t, generationErr.Message)
}
