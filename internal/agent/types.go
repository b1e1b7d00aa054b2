// Package agent drives the model-led analysis loops: a single-channel
// strategy run and a cross-channel batch run, both tool-calling against
// a YouTube executor with structured JSON as the final output.
package agent

import (
	"github.com/tubewise/tubewise/internal/llm"
	"github.com/tubewise/tubewise/internal/strategy"
)

// Step is one entry in the agent's reasoning and tool-call trace.
type Step struct {
	Type          string         `json:"type"`
	Tool          string         `json:"tool,omitempty"`
	Arguments     map[string]any `json:"arguments,omitempty"`
	ResultPreview string         `json:"result_preview,omitempty"`
	Content       string         `json:"content,omitempty"`
}

// ChannelRecord is the persisted channel identity returned to callers.
type ChannelRecord struct {
	ID         int64  `json:"id"`
	ChannelURL string `json:"channel_url"`
	ChannelID  string `json:"channel_id,omitempty"`
	Title      string `json:"title,omitempty"`
}

// AnalyzeResult is the outcome of a single-channel analysis.
type AnalyzeResult struct {
	Strategy *strategy.Strategy   `json:"strategy"`
	Summary  string               `json:"summary"`
	Channel  ChannelRecord        `json:"channel"`
	Videos   []strategy.VideoInfo `json:"videos"`
	Steps    []Step               `json:"agent_steps"`
}

// BatchResult is the outcome of a cross-channel batch analysis.
type BatchResult struct {
	Channels []strategy.ChannelSummary `json:"channels"`
	Strategy *strategy.CrossChannel    `json:"strategy"`
	Steps    []Step                    `json:"agent_steps"`
	BatchID  string                    `json:"batch_id,omitempty"`
}

// ChatStarter opens a model conversation with a system prompt and tool
// declarations. Tests substitute a scripted chat here.
type ChatStarter func(systemPrompt string, specs []llm.ToolSpec) llm.Chat
