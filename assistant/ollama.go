package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Chatter is the single-shot text-completion capability the pipeline ranks
// with. Implementations are treated as slow and unreliable; callers bound
// every call with a context deadline.
type Chatter interface {
	Chat(ctx context.Context, system, user string) (string, error)
}

// OllamaClient talks to a local Ollama daemon over its /api/chat endpoint.
type OllamaClient struct {
	Host        string // e.g. http://localhost:11434
	Model       string
	MaxTokens   int
	Temperature float64

	HTTPClient *http.Client
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
	Options  struct {
		NumPredict  int     `json:"num_predict,omitempty"`
		Temperature float64 `json:"temperature,omitempty"`
	} `json:"options"`
}

type ollamaChatResponse struct {
	Message ollamaMessage `json:"message"`
	Error   string        `json:"error,omitempty"`
}

func (c *OllamaClient) Chat(ctx context.Context, system, user string) (string, error) {
	reqBody := ollamaChatRequest{
		Model: c.Model,
		Messages: []ollamaMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
	}
	reqBody.Options.NumPredict = c.MaxTokens
	reqBody.Options.Temperature = c.Temperature

	b, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Host+"/api/chat", bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	hc := c.HTTPClient
	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := hc.Do(req)
	if err != nil {
		return "", fmt.Errorf("ollama chat: %w", err)
	}
	defer resp.Body.Close()

	var out ollamaChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("ollama chat: decode: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		if out.Error != "" {
			return "", fmt.Errorf("ollama chat: %s", out.Error)
		}
		return "", fmt.Errorf("ollama chat: status %d", resp.StatusCode)
	}
	return out.Message.Content, nil
}
