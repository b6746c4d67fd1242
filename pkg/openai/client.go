// Package openai calls the OpenAI chat-completions API to generate stories.
package openai

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"
	defaultModel   = "gpt-4o-mini"

	// Fixed sampling parameters for story generation.
	temperature = 0.9
	maxTokens   = 4096

	systemPrompt = "You are a creative storytelling expert who writes engaging, immersive stories."
)

// lengthBands maps a length category to the target word-count band embedded
// in the prompt. Unrecognized categories fall back to the medium band.
var lengthBands = map[string]string{
	"short":  "500-800 words",
	"medium": "1000-1500 words",
	"long":   "2000-3000 words",
}

// GenerationError reports a failed generation call. Message carries the
// provider's error message when one was returned, otherwise the transport
// error text.
type GenerationError struct {
	Message string
}

// Error implements the error interface.
func (e *GenerationError) Error() string {
	return e.Message
}

// Config holds the settings for the OpenAI client.
type Config struct {
	APIKey  string
	BaseURL string // defaults to the public OpenAI endpoint
	Model   string // defaults to gpt-4o-mini
}

// Client is a story-generation client for the OpenAI chat-completions API.
// Calls are blocking with no retry; the zero-value http.Client is used, so
// any timeout is whatever the transport defaults to.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewClient creates a new Client, applying defaults for unset config fields.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    cfg.BaseURL,
		model:      cfg.Model,
		httpClient: &http.Client{},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// GenerateStory builds the story prompt from the given parameters and asks
// the model for a complete story. Any transport or provider failure is
// returned as a *GenerationError.
func (c *Client) GenerateStory(characterName, theme, genre, location, length string) (string, error) {
	wordCount, ok := lengthBands[length]
	if !ok {
		wordCount = lengthBands["medium"]
	}

	prompt := fmt.Sprintf(`Write an engaging and creative story with the following specifications:
Character Name: %s
Theme: %s
Genre: %s
Location/Setting: %s
Length: %s

Please write a complete, well-structured story with a clear beginning, middle, and end. Make it immersive, descriptive, and engaging. Include dialogue where appropriate and bring the characters and setting to life.`,
		characterName, theme, genre, location, wordCount)

	reqBody := chatCompletionRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", &GenerationError{Message: fmt.Sprintf("failed to encode request: %v", err)}
	}

	req, err := http.NewRequest(http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", &GenerationError{Message: fmt.Sprintf("failed to build request: %v", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &GenerationError{Message: err.Error()}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &GenerationError{Message: fmt.Sprintf("failed to read response: %v", err)}
	}

	var completion chatCompletionResponse
	if err := json.Unmarshal(respBody, &completion); err != nil {
		return "", &GenerationError{Message: fmt.Sprintf("failed to decode response: %v", err)}
	}

	if resp.StatusCode != http.StatusOK {
		if completion.Error != nil && completion.Error.Message != "" {
			return "", &GenerationError{Message: completion.Error.Message}
		}
		return "", &GenerationError{Message: fmt.Sprintf("unexpected status %d from generation provider", resp.StatusCode)}
	}

	if len(completion.Choices) == 0 {
		return "", &GenerationError{Message: "generation provider returned no choices"}
	}

	return completion.Choices[0].Message.Content, nil
}
