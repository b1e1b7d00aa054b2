package agent

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tubewise/tubewise/internal/database"
	"github.com/tubewise/tubewise/internal/llm"
	"github.com/tubewise/tubewise/internal/memory"
)

type mockChat struct {
	responses []*llm.Response
	sent      []string
	results   [][]llm.ToolResult
}

func (m *mockChat) next() *llm.Response {
	if len(m.responses) == 0 {
		return &llm.Response{Text: "nothing left to say"}
	}
	resp := m.responses[0]
	m.responses = m.responses[1:]
	return resp
}

func (m *mockChat) Send(_ context.Context, message string) (*llm.Response, error) {
	m.sent = append(m.sent, message)
	return m.next(), nil
}

func (m *mockChat) SendToolResults(_ context.Context, results []llm.ToolResult) (*llm.Response, error) {
	m.results = append(m.results, results)
	return m.next(), nil
}

type mockExecutor struct {
	calls []string
	err   error
}

func (m *mockExecutor) Execute(_ context.Context, name string, _ map[string]any) (map[string]any, error) {
	m.calls = append(m.calls, name)
	if m.err != nil {
		return nil, m.err
	}
	return map[string]any{"ok": true}, nil
}

func newTestAgent(t *testing.T, chat *mockChat, exec *mockExecutor) *Agent {
	t.Helper()
	dir := t.TempDir()
	db, err := database.Open(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return &Agent{
		DB:       db,
		Memory:   memory.New(filepath.Join(dir, "memory.md")),
		NewChat:  func(string, []llm.ToolSpec) llm.Chat { return chat },
		Executor: exec,
	}
}

const analysisJSON = "```json\n" + `{
  "channel": {"channelId": "UCtest123", "title": "Test Channel", "url": "https://youtube.com/@test"},
  "videos": [
    {"videoId": "vid1", "title": "How I Built It", "views": 1000, "likes": 50, "comments": 10},
    {"video_id": "vid2", "title": "5 Tips", "views": "2500", "likes": 80, "comments": 20}
  ],
  "strategy": {
    "key_findings": ["Tutorials outperform vlogs"],
    "recommended_format": {"ideal_length_minutes": 8},
    "action_plan": ["Publish two tutorials next week"],
    "confidence": 0.8,
    "summary": "Tutorial-first channel with strong hooks."
  }
}` + "\n```"

func TestAnalyzeChannelPersistsStrategy(t *testing.T) {
	chat := &mockChat{responses: []*llm.Response{
		{ToolCalls: []llm.ToolCall{{Name: "YOUTUBE_GET_CHANNEL_ID_BY_HANDLE", Args: map[string]any{"handle": "@test"}}}},
		{Text: analysisJSON},
	}}
	exec := &mockExecutor{}
	a := newTestAgent(t, chat, exec)

	result, err := a.AnalyzeChannel(context.Background(), "https://youtube.com/@test")
	if err != nil {
		t.Fatalf("AnalyzeChannel: %v", err)
	}
	if result.Strategy.Confidence != 0.8 {
		t.Errorf("confidence = %v, want 0.8", result.Strategy.Confidence)
	}
	if result.Channel.ChannelID != "UCtest123" {
		t.Errorf("channel id = %q, want UCtest123", result.Channel.ChannelID)
	}
	if len(exec.calls) != 1 || exec.calls[0] != "YOUTUBE_GET_CHANNEL_ID_BY_HANDLE" {
		t.Errorf("executor calls = %v", exec.calls)
	}

	v, err := a.DB.GetVideoByVideoID("vid2")
	if err != nil {
		t.Fatalf("GetVideoByVideoID: %v", err)
	}
	if v == nil || v.Views == nil || *v.Views != 2500 {
		t.Errorf("vid2 not persisted with string-coerced views: %+v", v)
	}

	analyses, err := a.DB.ListAnalyses(10)
	if err != nil {
		t.Fatalf("ListAnalyses: %v", err)
	}
	if len(analyses) != 1 {
		t.Fatalf("analyses = %d, want 1", len(analyses))
	}
	if !strings.Contains(analyses[0].Strategy, "Tutorials outperform vlogs") {
		t.Errorf("stored strategy missing findings: %s", analyses[0].Strategy)
	}

	lines, err := a.Memory.ReadRecent(5)
	if err != nil {
		t.Fatalf("ReadRecent: %v", err)
	}
	if len(lines) != 1 || !strings.Contains(lines[0], "Tutorials outperform vlogs") {
		t.Errorf("memory lines = %v", lines)
	}

	var types []string
	for _, s := range result.Steps {
		types = append(types, s.Type)
	}
	want := []string{"tool_call", "tool_result", "reasoning"}
	if fmt.Sprint(types) != fmt.Sprint(want) {
		t.Errorf("step types = %v, want %v", types, want)
	}
}

func TestAnalyzeChannelToolErrorFedBack(t *testing.T) {
	chat := &mockChat{responses: []*llm.Response{
		{ToolCalls: []llm.ToolCall{{Name: "YOUTUBE_VIDEO_DETAILS", Args: map[string]any{"video_id": "x"}}}},
		{Text: analysisJSON},
	}}
	exec := &mockExecutor{err: fmt.Errorf("quota exceeded")}
	a := newTestAgent(t, chat, exec)

	if _, err := a.AnalyzeChannel(context.Background(), "https://youtube.com/@test"); err != nil {
		t.Fatalf("AnalyzeChannel: %v", err)
	}
	if len(chat.sent) < 2 {
		t.Fatalf("sent = %v, want error feedback message", chat.sent)
	}
	feedback := chat.sent[1]
	if !strings.Contains(feedback, "Tool execution failed with error") || !strings.Contains(feedback, "quota exceeded") {
		t.Errorf("feedback = %q", feedback)
	}
	if len(chat.results) != 0 {
		t.Errorf("tool results should not be sent after a failure, got %v", chat.results)
	}
}

func TestAnalyzeChannelFallbackOnPlainText(t *testing.T) {
	chat := &mockChat{} // every turn returns unstructured text
	a := newTestAgent(t, chat, &mockExecutor{})

	result, err := a.AnalyzeChannel(context.Background(), "https://youtube.com/@someone")
	if err != nil {
		t.Fatalf("AnalyzeChannel: %v", err)
	}
	if result.Strategy.Confidence != 0.3 {
		t.Errorf("fallback confidence = %v, want 0.3", result.Strategy.Confidence)
	}
	ch, err := a.DB.GetChannelByURL("https://youtube.com/@someone")
	if err != nil {
		t.Fatalf("GetChannelByURL: %v", err)
	}
	if ch == nil || ch.ChannelID == nil || *ch.ChannelID != "@someone" {
		t.Errorf("fallback channel identifier not stored: %+v", ch)
	}
	analyses, err := a.DB.ListAnalyses(10)
	if err != nil {
		t.Fatalf("ListAnalyses: %v", err)
	}
	if len(analyses) != 1 {
		t.Errorf("analyses = %d, want 1", len(analyses))
	}
}

func TestRunLoopRepromptsUntilTwoTurnsBeforeBudget(t *testing.T) {
	chat := &mockChat{} // every turn returns unstructured text
	a := newTestAgent(t, chat, &mockExecutor{})

	raw, lastText, _, err := a.runLoop(context.Background(), chat, "analyze", 4, "produce the JSON block")
	if err != nil {
		t.Fatalf("runLoop: %v", err)
	}
	if raw != nil {
		t.Fatalf("expected no structured output, got %s", raw)
	}
	if lastText == "" {
		t.Error("expected the last plain-text response to be kept")
	}
	// A budget of 4 leaves room for the opening message plus two
	// reprompts; the final turn gives up instead of asking again.
	if len(chat.sent) != 3 {
		t.Errorf("sends = %d (%v), want opening + 2 reprompts", len(chat.sent), chat.sent)
	}
}

const batchJSON = "```json\n" + `{
  "channels": [
    {
      "channel_url": "https://youtube.com/@alpha",
      "channel_id": "UCalpha",
      "title": "Alpha",
      "top_videos": [
        {"videoId": "a1", "title": "Why Rust Beats Go", "views": 50000, "likes": 2000, "comments": 300}
      ]
    },
    {
      "channel_url": "https://youtube.com/@beta",
      "channel_id": "UCbeta",
      "title": "Beta",
      "top_videos": []
    }
  ],
  "strategy": {
    "trending_topics": ["rust", "systems programming"],
    "common_patterns": ["comparison titles"],
    "content_gaps": ["beginner walkthroughs"],
    "next_video_suggestions": [
      {"topic": "Rust for Go developers", "why": "Both audiences overlap", "reference_channels": ["Alpha"], "estimated_appeal": "high"}
    ],
    "key_findings": ["Comparison framing wins"],
    "confidence": 0.75,
    "summary": "Comparison-driven niche with room for beginner content."
  }
}` + "\n```"

func TestAnalyzeBatchPersistsRunAndSuggestions(t *testing.T) {
	chat := &mockChat{responses: []*llm.Response{{Text: batchJSON}}}
	a := newTestAgent(t, chat, &mockExecutor{})

	urls := []string{"https://youtube.com/@alpha", "https://youtube.com/@beta"}
	result, err := a.AnalyzeBatch(context.Background(), urls)
	if err != nil {
		t.Fatalf("AnalyzeBatch: %v", err)
	}
	if len(result.Channels) != 2 {
		t.Fatalf("channels = %d, want 2", len(result.Channels))
	}
	if result.BatchID == "" || len(result.BatchID) != 12 {
		t.Errorf("batch id = %q, want 12 hex chars", result.BatchID)
	}

	suggestions, err := a.DB.ListSuggestions("", 10)
	if err != nil {
		t.Fatalf("ListSuggestions: %v", err)
	}
	if len(suggestions) != 1 || suggestions[0].Topic != "Rust for Go developers" {
		t.Errorf("suggestions = %+v", suggestions)
	}

	runs, err := a.DB.ListBatchRuns(10)
	if err != nil {
		t.Fatalf("ListBatchRuns: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("batch runs = %d, want 1", len(runs))
	}
	if runs[0].BatchID != result.BatchID {
		t.Errorf("stored batch id = %q, want %q", runs[0].BatchID, result.BatchID)
	}
	if !strings.Contains(runs[0].Strategy, "Comparison framing wins") {
		t.Errorf("stored strategy missing findings: %s", runs[0].Strategy)
	}

	lines, err := a.Memory.ReadRecent(5)
	if err != nil {
		t.Fatalf("ReadRecent: %v", err)
	}
	joined := strings.Join(lines, "\n")
	if !strings.Contains(joined, "Batch analysis of 2 channels") {
		t.Errorf("memory missing batch entry: %v", lines)
	}
}

func TestAnalyzeBatchRejectsEmptyInput(t *testing.T) {
	a := newTestAgent(t, &mockChat{}, &mockExecutor{})
	if _, err := a.AnalyzeBatch(context.Background(), []string{" ", ""}); err == nil {
		t.Fatal("expected error for empty channel list")
	}
}

func TestAnalyzeDevModeDerivesLocalStrategy(t *testing.T) {
	dir := t.TempDir()
	samplePath := filepath.Join(dir, "sample_data.json")
	sample := `{
  "channel": {"channelId": "UCsample", "title": "Sample Channel"},
  "videos": [
    {"videoId": "s1", "title": "How to Ship Faster?", "publishedAt": "2026-08-01T00:00:00Z", "views": 12000, "likes": 600, "comments": 90},
    {"videoId": "s2", "title": "7 Habits of Indie Hackers", "publishedAt": "2026-08-10T00:00:00Z", "views": 30000, "likes": 1500, "comments": 200},
    {"videoId": "s3", "title": "My Morning Routine", "publishedAt": "2026-08-15T00:00:00Z", "views": 4000, "likes": 100, "comments": 15},
    {"videoId": "s4", "title": "Why You Should Quit", "publishedAt": "2026-08-20T00:00:00Z", "views": 18000, "likes": 900, "comments": 120}
  ]
}`
	if err := os.WriteFile(samplePath, []byte(sample), 0o644); err != nil {
		t.Fatalf("writing sample data: %v", err)
	}

	a := newTestAgent(t, &mockChat{}, &mockExecutor{})
	a.DevMode = true
	a.SamplePath = samplePath

	result, err := a.AnalyzeChannel(context.Background(), "https://youtube.com/@sample")
	if err != nil {
		t.Fatalf("AnalyzeChannel: %v", err)
	}
	if result.Channel.ChannelID != "UCsample" {
		t.Errorf("channel id = %q, want UCsample", result.Channel.ChannelID)
	}
	if result.Strategy.Confidence <= 0 || result.Strategy.Confidence > 0.98 {
		t.Errorf("confidence out of range: %v", result.Strategy.Confidence)
	}
	if len(result.Videos) != 4 {
		t.Errorf("videos = %d, want 4", len(result.Videos))
	}

	v, err := a.DB.GetVideoByVideoID("s2")
	if err != nil {
		t.Fatalf("GetVideoByVideoID: %v", err)
	}
	if v == nil || v.PerformanceScore == nil || *v.PerformanceScore <= 0 {
		t.Errorf("top video missing performance score: %+v", v)
	}
}

func TestExtractChannelIdentifier(t *testing.T) {
	cases := []struct{ in, want string }{
		{"@handle", "@handle"},
		{"https://youtube.com/channel/UCabc_123-xyz", "UCabc_123-xyz"},
		{"https://www.youtube.com/@SomeCreator", "@SomeCreator"},
		{"https://youtube.com/c/CustomName", "CustomName"},
		{"plaintoken", "plaintoken"},
	}
	for _, tc := range cases {
		if got := ExtractChannelIdentifier(tc.in); got != tc.want {
			t.Errorf("ExtractChannelIdentifier(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
