package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ComposioClient executes tools through the Composio REST API.
type ComposioClient struct {
	BaseURL string
	APIKey  string
	UserID  string
	client  *http.Client
}

var _ Executor = (*ComposioClient)(nil)

// NewComposioClient creates a Composio-backed executor.
func NewComposioClient(baseURL, apiKey, userID string) *ComposioClient {
	return &ComposioClient{
		BaseURL: baseURL,
		APIKey:  apiKey,
		UserID:  userID,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

// IsConfigured reports whether an API key is set.
func (c *ComposioClient) IsConfigured() bool {
	return c.APIKey != ""
}

// Execute runs one tool by slug and returns its data payload.
func (c *ComposioClient) Execute(ctx context.Context, name string, args map[string]any) (map[string]any, error) {
	if args == nil {
		args = map[string]any{}
	}
	body, err := json.Marshal(map[string]any{
		"user_id":   c.UserID,
		"arguments": args,
	})
	if err != nil {
		return nil, fmt.Errorf("marshaling tool request: %w", err)
	}

	url := c.BaseURL + "/api/v3/tools/execute/" + name
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating tool request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("composio API error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("composio API returned %d for %s: %s", resp.StatusCode, name, string(respBody))
	}

	var result struct {
		Data       map[string]any `json:"data"`
		Successful bool           `json:"successful"`
		Error      string         `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding tool response: %w", err)
	}
	if !result.Successful {
		return nil, fmt.Errorf("tool %s failed: %s", name, result.Error)
	}
	if result.Data == nil {
		result.Data = map[string]any{}
	}
	return result.Data, nil
}
