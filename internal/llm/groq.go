package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultGroqBaseURL = "https://api.groq.com/openai/v1"

// GroqClient calls Groq's OpenAI-compatible chat-completions endpoint.
// Implements the Provider interface.
type GroqClient struct {
	baseURL     string
	apiKey      string
	model       string
	temperature float64
	client      *http.Client
}

// NewGroqClient creates a Groq chat-completions client. An empty baseURL uses
// the public Groq API. Temperature is kept low for factual summary/chat work.
func NewGroqClient(baseURL, apiKey, model string, temperature float64, timeout time.Duration) *GroqClient {
	if baseURL == "" {
		baseURL = defaultGroqBaseURL
	}
	return &GroqClient{
		baseURL:     baseURL,
		apiKey:      apiKey,
		model:       model,
		temperature: temperature,
		client:      &http.Client{Timeout: timeout},
	}
}

// Name returns the provider name.
func (g *GroqClient) Name() string { return "groq" }

// Model returns the configured model identifier.
func (g *GroqClient) Model() string { return g.model }

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Complete sends the prompt as a single user message and returns the model's
// reply text. All failures surface as *ProviderError.
func (g *GroqClient) Complete(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(chatRequest{
		Model:       g.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: g.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", &ProviderError{Provider: g.Name(), Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &ProviderError{Provider: g.Name(), Message: "read response: " + err.Error(), Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return "", &ProviderError{Provider: g.Name(), Status: resp.StatusCode, Message: string(body)}
	}

	var result chatResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", &ProviderError{Provider: g.Name(), Status: resp.StatusCode, Message: "decode response: " + err.Error(), Err: err}
	}
	if len(result.Choices) == 0 {
		return "", &ProviderError{Provider: g.Name(), Status: resp.StatusCode, Message: "response contained no choices"}
	}

	return result.Choices[0].Message.Content, nil
}
