package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/pageza/recipe-share/backend/config"
)

// Message represents a message in the chat
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request represents a chat completions request
type Request struct {
	Model          string            `json:"model"`
	Messages       []Message         `json:"messages"`
	ResponseFormat map[string]string `json:"response_format,omitempty"`
	Temperature    float64           `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// LLMService talks to an OpenAI-compatible chat completions endpoint (DeepSeek by default)
type LLMService struct {
	apiKey string
	apiURL string
	model  string
	client *http.Client
	log    *zap.Logger
}

var _ Completer = (*LLMService)(nil)

// NewLLMService creates a new LLMService instance
func NewLLMService(cfg *config.Config, log *zap.Logger) (*LLMService, error) {
	if cfg.LLMAPIKey == "" {
		return nil, errors.New("LLM_API_KEY or DEEPSEEK_API_KEY must be set")
	}

	timeout := cfg.LLMTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &LLMService{
		apiKey: cfg.LLMAPIKey,
		apiURL: cfg.LLMAPIURL,
		model:  cfg.LLMModel,
		client: &http.Client{Timeout: timeout},
		log:    log.Named("llm"),
	}, nil
}

// Complete sends messages and returns the content of the first choice. The
// model is asked for a JSON object reply.
func (s *LLMService) Complete(ctx context.Context, messages []Message) (string, error) {
	body, err := json.Marshal(Request{
		Model:          s.model,
		Messages:       messages,
		ResponseFormat: map[string]string{"type": "json_object"},
		Temperature:    0.2,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	s.log.Debug("chat completion",
		zap.Int("status", resp.StatusCode),
		zap.Duration("dur", time.Since(start)),
	)

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, truncate(string(respBody), 200))
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("API error: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return "", errors.New("no choices in response")
	}
	return parsed.Choices[0].Message.Content, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
