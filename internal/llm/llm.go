// Package llm wraps the Gemini SDK behind a small chat interface so the
// agent loop can be driven by a mock in tests.
package llm

import "context"

// ToolCall is a function invocation requested by the model.
type ToolCall struct {
	Name string
	Args map[string]any
}

// ToolResult is the outcome of executing one tool call.
type ToolResult struct {
	Name   string
	Output map[string]any
}

// Response is one model turn: either free text, tool calls, or both.
type Response struct {
	Text      string
	ToolCalls []ToolCall
}

// Chat is a stateful conversation with the model.
type Chat interface {
	// Send delivers a user message and returns the model's reply.
	Send(ctx context.Context, message string) (*Response, error)
	// SendToolResults feeds tool outputs back and returns the reply.
	SendToolResults(ctx context.Context, results []ToolResult) (*Response, error)
}

// ParamSpec describes one tool parameter.
type ParamSpec struct {
	Type        string
	Description string
	Required    bool
}

// ToolSpec declares a tool the model may call.
type ToolSpec struct {
	Name        string
	Description string
	Parameters  map[string]ParamSpec
}
