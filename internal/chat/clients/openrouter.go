package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/winr/fiat-onramp-app/backend/internal/shared"
)

// Message is a single chat turn forwarded to the upstream model.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// OpenRouterClient forwards chat completions to an OpenRouter-compatible
// API. Without credentials the client is soft-disabled and answers with a
// canned reply instead of failing the route.
type OpenRouterClient struct {
	logger    *slog.Logger
	apiKey    string
	apiURL    string
	model     string
	client    *http.Client
	isEnabled bool
}

// NewOpenRouterClient creates the chat proxy client.
func NewOpenRouterClient(logger *slog.Logger, apiKey, apiURL, model string) *OpenRouterClient {
	isEnabled := apiKey != "" && apiURL != "" && !shared.IsChatStubMode()

	if !isEnabled {
		logger.Warn("chat proxy is disabled, responses will be canned")
	} else {
		logger.Info("chat proxy initialized", "api_url", apiURL, "model", model)
	}

	if apiURL == "" {
		apiURL = "https://openrouter.ai/api/v1"
	}

	return &OpenRouterClient{
		logger:    logger,
		apiKey:    apiKey,
		apiURL:    apiURL,
		model:     model,
		client:    &http.Client{Timeout: 30 * time.Second},
		isEnabled: isEnabled,
	}
}

// IsEnabled reports whether real upstream calls are made.
func (c *OpenRouterClient) IsEnabled() bool {
	return c.isEnabled
}

// Complete forwards the conversation to the upstream model and returns the
// assistant reply. A disabled client returns a canned reply without any
// network traffic.
func (c *OpenRouterClient) Complete(ctx context.Context, messages []Message) (string, error) {
	if !c.isEnabled {
		c.logger.Debug("chat proxy disabled, returning canned reply")
		return "The wINR assistant is offline in this demo deployment. " +
			"Complete KYC and wait for your deposit to confirm, then the mint button unlocks.", nil
	}

	payload, err := json.Marshal(map[string]any{
		"model":    c.model,
		"messages": messages,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal chat request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/chat/completions", c.apiURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to reach chat upstream: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("chat upstream returned status %d: %s", resp.StatusCode, string(body))
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err = json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode chat response: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("chat upstream returned no choices")
	}

	c.logger.InfoContext(ctx, "chat completion proxied", "model", c.model, "messages", len(messages))
	return result.Choices[0].Message.Content, nil
}
