package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"saratovquest/models"
)

const openAIEndpoint = "https://api.openai.com/v1/chat/completions"

// externalCallTimeout bounds the upstream request: a slow model must
// degrade to the local responder, not stall the chat endpoint.
const externalCallTimeout = 10 * time.Second

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	MaxTokens   int             `json:"max_tokens"`
	Temperature float64         `json:"temperature"`
}

// ChatGPT calls the OpenAI chat completions API.
type ChatGPT struct {
	APIKey string
	Model  string
	URL    string
	Client *http.Client
}

func NewChatGPT(apiKey, model string) *ChatGPT {
	return &ChatGPT{
		APIKey: apiKey,
		Model:  model,
		URL:    openAIEndpoint,
		Client: &http.Client{Timeout: externalCallTimeout},
	}
}

// Chat sends the system persona and the user message and returns the
// model's completion.
func (c *ChatGPT) Chat(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	requestData := openAIRequest{
		Model: c.Model,
		Messages: []openAIMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userMessage},
		},
		MaxTokens:   500,
		Temperature: 0.7,
	}

	payload, err := json.Marshal(requestData)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request data: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, externalCallTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewBuffer(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.APIKey))

	resp, err := c.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API error: %s", string(body))
	}

	var responseData struct {
		Choices []struct {
			Message struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}

	if err := json.Unmarshal(body, &responseData); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if len(responseData.Choices) > 0 {
		return responseData.Choices[0].Message.Content, nil
	}

	return "", fmt.Errorf("unexpected response format")
}

// Assistant answers chat messages, preferring the external model and
// always recovering with the local canned responder. Upstream failures
// never reach the caller.
type Assistant struct {
	model *ChatGPT
}

// NewAssistant builds an assistant. With an empty API key the external
// model is disabled and every answer is local.
func NewAssistant(apiKey, model string) *Assistant {
	a := &Assistant{}
	if apiKey != "" {
		a.model = NewChatGPT(apiKey, model)
	}
	return a
}

// userContextLine describes the asking user for the external model so
// answers can reflect their level and premium status. A nil user is an
// anonymous guest.
func userContextLine(user *models.User) string {
	if user == nil {
		user = &models.User{Username: "Гость", Level: 1}
	}
	tier := "обычный"
	if user.IsPremium {
		tier = "Premium"
	}
	return fmt.Sprintf("Пользователь: %s, уровень: %d, %s пользователь, очки: %d",
		user.Username, user.Level, tier, user.Points)
}

// Respond returns the assistant's answer to a user message. The user
// may be nil for anonymous callers.
func (a *Assistant) Respond(ctx context.Context, message string, user *models.User) string {
	if a.model != nil {
		prompt := fmt.Sprintf("%s\n\nВопрос: %s", userContextLine(user), message)
		if answer, err := a.model.Chat(ctx, SystemPrompt, prompt); err == nil {
			return answer
		}
	}
	return FallbackResponse(message, user != nil && user.IsPremium)
}
