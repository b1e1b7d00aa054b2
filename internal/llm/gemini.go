package llm

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"google.golang.org/genai"
)

var retryBackoffs = []time.Duration{15 * time.Second, 30 * time.Second, 60 * time.Second}

// Client talks to the Gemini API.
type Client struct {
	client *genai.Client
	model  string
}

// NewClient creates a Gemini client for the given model.
func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key not configured")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	return &Client{client: client, model: model}, nil
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.model
}

// NewChat starts a conversation with a system prompt and tool
// declarations. History is kept in the chat, not on the server.
func (c *Client) NewChat(systemPrompt string, tools []ToolSpec) *GeminiChat {
	config := &genai.GenerateContentConfig{}
	if systemPrompt != "" {
		config.SystemInstruction = genai.NewContentFromText(systemPrompt, genai.RoleUser)
	}
	if len(tools) > 0 {
		config.Tools = []*genai.Tool{{FunctionDeclarations: declarations(tools)}}
	}
	return &GeminiChat{client: c, config: config}
}

// GeminiChat is a Chat backed by the Gemini API.
type GeminiChat struct {
	client  *Client
	config  *genai.GenerateContentConfig
	history []*genai.Content
}

var _ Chat = (*GeminiChat)(nil)

// Send delivers a user message and returns the model's reply.
func (g *GeminiChat) Send(ctx context.Context, message string) (*Response, error) {
	content := genai.NewContentFromParts([]*genai.Part{genai.NewPartFromText(message)}, genai.RoleUser)
	return g.generate(ctx, content)
}

// SendToolResults feeds tool outputs back to the model.
func (g *GeminiChat) SendToolResults(ctx context.Context, results []ToolResult) (*Response, error) {
	parts := make([]*genai.Part, 0, len(results))
	for _, r := range results {
		output := r.Output
		if output == nil {
			output = map[string]any{}
		}
		parts = append(parts, genai.NewPartFromFunctionResponse(r.Name, output))
	}
	content := genai.NewContentFromParts(parts, genai.RoleUser)
	return g.generate(ctx, content)
}

func (g *GeminiChat) generate(ctx context.Context, content *genai.Content) (*Response, error) {
	g.history = append(g.history, content)

	result, err := g.generateWithRetry(ctx)
	if err != nil {
		return nil, err
	}

	if len(result.Candidates) > 0 && result.Candidates[0].Content != nil {
		g.history = append(g.history, result.Candidates[0].Content)
	}

	resp := &Response{Text: result.Text()}
	for _, fc := range result.FunctionCalls() {
		resp.ToolCalls = append(resp.ToolCalls, ToolCall{Name: fc.Name, Args: fc.Args})
	}
	return resp, nil
}

// generateWithRetry retries rate-limited calls with fixed backoffs
// before letting the final attempt fail through.
func (g *GeminiChat) generateWithRetry(ctx context.Context) (*genai.GenerateContentResponse, error) {
	for attempt, backoff := range retryBackoffs {
		result, err := g.client.client.Models.GenerateContent(ctx, g.client.model, g.history, g.config)
		if err == nil {
			return result, nil
		}
		if !isRateLimited(err) {
			return nil, fmt.Errorf("gemini request: %w", err)
		}
		log.Printf("gemini rate limited (attempt %d/%d), retrying in %s",
			attempt+1, len(retryBackoffs), backoff)
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	result, err := g.client.client.Models.GenerateContent(ctx, g.client.model, g.history, g.config)
	if err != nil {
		return nil, fmt.Errorf("gemini request: %w", err)
	}
	return result, nil
}

func isRateLimited(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "429") || strings.Contains(msg, "RESOURCE_EXHAUSTED")
}

func declarations(tools []ToolSpec) []*genai.FunctionDeclaration {
	decls := make([]*genai.FunctionDeclaration, 0, len(tools))
	for _, t := range tools {
		schema := &genai.Schema{
			Type:       genai.TypeObject,
			Properties: map[string]*genai.Schema{},
		}
		for name, p := range t.Parameters {
			schema.Properties[name] = &genai.Schema{
				Type:        schemaType(p.Type),
				Description: p.Description,
			}
			if p.Required {
				schema.Required = append(schema.Required, name)
			}
		}
		decls = append(decls, &genai.FunctionDeclaration{
			Name:        t.Name,
			Description: t.Description,
			Parameters:  schema,
		})
	}
	return decls
}

func schemaType(t string) genai.Type {
	switch t {
	case "integer":
		return genai.TypeInteger
	case "number":
		return genai.TypeNumber
	case "boolean":
		return genai.TypeBoolean
	default:
		return genai.TypeString
	}
}
