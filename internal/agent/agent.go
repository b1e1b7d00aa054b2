package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/tubewise/tubewise/internal/database"
	"github.com/tubewise/tubewise/internal/llm"
	"github.com/tubewise/tubewise/internal/memory"
	"github.com/tubewise/tubewise/internal/strategy"
	"github.com/tubewise/tubewise/internal/tools"
)

const (
	maxAgentTurns = 15
	maxBatchTurns = 25
)

// Agent runs model-led channel analyses and persists their results.
type Agent struct {
	DB       *database.DB
	Memory   *memory.Log
	NewChat  ChatStarter
	Executor tools.Executor

	// DevMode skips the model entirely and derives a strategy from
	// canned sample data.
	DevMode    bool
	SamplePath string

	// MaxVideos bounds how many stored videos a learning cycle loads.
	MaxVideos int

	// DebugLogPath, when set, receives an append-only trace of every
	// agent turn, tool call, and tool result.
	DebugLogPath string
}

// AnalyzeChannel runs the agent loop for a single channel and returns
// the persisted strategy.
func (a *Agent) AnalyzeChannel(ctx context.Context, channelURL string) (*AnalyzeResult, error) {
	log.Printf("starting agent analysis for %s", channelURL)

	if a.DevMode {
		return a.analyzeDevMode(channelURL)
	}

	systemPrompt := fmt.Sprintf(systemPromptTemplate, buildMemoryContext(a.Memory))
	chat := a.NewChat(systemPrompt, tools.YouTubeToolSpecs())

	initial := fmt.Sprintf("Analyze this YouTube channel and create a strategy: %s", channelURL)
	raw, lastText, steps, err := a.runLoop(ctx, chat, initial, maxAgentTurns,
		"Please output the final strategy as a JSON block wrapped in ```json ... ``` as instructed.")
	if err != nil {
		return nil, err
	}

	if raw != nil {
		payload, perr := parseAnalysisPayload(raw)
		if perr == nil {
			return a.persistAnalysis(channelURL, payload, steps)
		}
		log.Printf("agent JSON did not match the expected shape: %v", perr)
	}

	if lastText == "" {
		lastText = "Agent could not complete analysis in time."
		log.Printf("agent exhausted max turns without final output")
	} else {
		log.Printf("agent did not produce structured JSON")
	}
	return a.fallbackAnalysis(channelURL, lastText, steps)
}

// runLoop drives one conversation until structured JSON appears or the
// turn budget runs out. Tool errors are fed back as user messages so
// the model can route around them.
func (a *Agent) runLoop(ctx context.Context, chat llm.Chat, initial string, maxTurns int, reprompt string) ([]byte, string, []Step, error) {
	var (
		steps   []Step
		pending []llm.ToolResult
	)
	msg := initial
	lastText := ""

	a.debugf("loop start: %s", truncate(initial, 200))
	for turn := 1; turn <= maxTurns; turn++ {
		log.Printf("agent turn %d/%d", turn, maxTurns)
		a.debugf("turn %d/%d", turn, maxTurns)

		var (
			resp *llm.Response
			err  error
		)
		if pending != nil {
			resp, err = chat.SendToolResults(ctx, pending)
			pending = nil
		} else {
			resp, err = chat.Send(ctx, msg)
		}
		if err != nil {
			return nil, "", steps, fmt.Errorf("agent turn %d: %w", turn, err)
		}

		if len(resp.ToolCalls) > 0 {
			results, failure := a.executeCalls(ctx, resp.ToolCalls, &steps)
			if failure != "" {
				msg = failure
				continue
			}
			pending = results
			continue
		}

		lastText = resp.Text
		steps = append(steps, Step{Type: "reasoning", Content: truncate(lastText, 1000)})
		a.debugf("model text: %s", truncate(lastText, 500))

		if raw, ok := llm.ExtractJSONBlock(lastText); ok {
			a.debugf("structured JSON found after %d turns", turn)
			return raw, lastText, steps, nil
		}
		if turn < maxTurns-1 {
			msg = reprompt
			continue
		}
		break
	}
	return nil, lastText, steps, nil
}

func (a *Agent) executeCalls(ctx context.Context, calls []llm.ToolCall, steps *[]Step) ([]llm.ToolResult, string) {
	var results []llm.ToolResult
	for _, call := range calls {
		log.Printf("agent calling tool: %s(%v)", call.Name, call.Args)
		a.debugf("tool call: %s(%v)", call.Name, call.Args)
		*steps = append(*steps, Step{Type: "tool_call", Tool: call.Name, Arguments: call.Args})

		output, err := a.Executor.Execute(ctx, call.Name, call.Args)
		if err != nil {
			log.Printf("tool execution failed: %v", err)
			a.debugf("tool %s failed: %v", call.Name, err)
			*steps = append(*steps, Step{
				Type:          "tool_result",
				Tool:          call.Name,
				ResultPreview: truncate(fmt.Sprintf("Error: %v", err), 400),
			})
			return nil, fmt.Sprintf(
				"Tool execution failed with error: %v. Try a different approach or skip this step.", err)
		}
		*steps = append(*steps, Step{
			Type:          "tool_result",
			Tool:          call.Name,
			ResultPreview: "Tool executed successfully",
		})
		a.debugf("tool %s succeeded", call.Name)
		results = append(results, llm.ToolResult{Name: call.Name, Output: output})
	}
	return results, ""
}

func (a *Agent) persistAnalysis(channelURL string, payload *analysisPayload, steps []Step) (*AnalyzeResult, error) {
	record, err := a.upsertChannel(channelURL, payload.Channel.ChannelID, payload.Channel.Title)
	if err != nil {
		return nil, err
	}

	videos := make([]strategy.VideoInfo, 0, len(payload.Videos))
	for _, v := range payload.Videos {
		if v.VideoID == "" {
			continue
		}
		if err := a.DB.UpsertVideo(videoToRow(record.ID, v.VideoInfo)); err != nil {
			return nil, err
		}
		videos = append(videos, v.VideoInfo)
	}

	if err := a.saveAnalysis(record.ID, payload.Strategy); err != nil {
		return nil, err
	}
	a.appendMemory(channelURL, payload.Strategy.KeyFindings, firstOr(payload.Strategy.ActionPlan, "Iterate on content"))

	return &AnalyzeResult{
		Strategy: payload.Strategy,
		Summary:  payload.Strategy.Summary,
		Channel:  *record,
		Videos:   videos,
		Steps:    steps,
	}, nil
}

func (a *Agent) fallbackAnalysis(channelURL, text string, steps []Step) (*AnalyzeResult, error) {
	identifier := ExtractChannelIdentifier(channelURL)
	record, err := a.upsertChannel(channelURL, identifier, "")
	if err != nil {
		return nil, err
	}

	summary := truncate(text, 500)
	fallback := &strategy.Strategy{
		KeyFindings: []string{"Agent analysis incomplete — see summary for details"},
		RecommendedFormat: map[string]any{
			"ideal_length_minutes": 8,
			"title_patterns":       []string{"Use numbers + promise", "Lead with a question"},
			"hook_template":        "Open with a bold question or outcome in first 15s.",
			"thumbnail_text":       "Short, bold text with contrast",
		},
		ActionPlan: []string{"Re-run analysis with more specific channel URL"},
		Confidence: 0.3,
		Summary:    summary,
	}
	if err := a.saveAnalysis(record.ID, fallback); err != nil {
		return nil, err
	}

	return &AnalyzeResult{
		Strategy: fallback,
		Summary:  summary,
		Channel:  *record,
		Videos:   []strategy.VideoInfo{},
		Steps:    steps,
	}, nil
}

func (a *Agent) upsertChannel(channelURL, channelID, title string) (*ChannelRecord, error) {
	ch := &database.Channel{ChannelURL: channelURL}
	if channelID != "" {
		ch.ChannelID = &channelID
	}
	if title != "" {
		ch.Title = &title
	}
	id, err := a.DB.UpsertChannel(ch)
	if err != nil {
		return nil, err
	}
	stored, err := a.DB.GetChannelByURL(channelURL)
	if err != nil {
		return nil, err
	}

	record := &ChannelRecord{ID: id, ChannelURL: channelURL}
	if stored != nil {
		if stored.ChannelID != nil {
			record.ChannelID = *stored.ChannelID
		}
		if stored.Title != nil {
			record.Title = *stored.Title
		}
	}
	return record, nil
}

func (a *Agent) saveAnalysis(channelID int64, s *strategy.Strategy) error {
	strategyJSON, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding strategy: %w", err)
	}
	if _, err := a.DB.SaveAnalysis(channelID, s.Summary, string(strategyJSON)); err != nil {
		return err
	}
	return nil
}

func (a *Agent) appendMemory(reference string, findings []string, nextStep string) {
	if a.Memory == nil {
		return
	}
	err := a.Memory.Append(memory.Entry{Reference: reference, Findings: findings, NextStep: nextStep})
	if err != nil {
		log.Printf("appending memory entry: %v", err)
	}
}

func videoToRow(channelID int64, v strategy.VideoInfo) *database.Video {
	row := &database.Video{ChannelID: channelID, VideoID: v.VideoID}
	if v.Title != "" {
		row.Title = &v.Title
	}
	if v.PublishedAt != "" {
		row.PublishedAt = &v.PublishedAt
	}
	if v.ThumbnailURL != "" {
		row.ThumbnailURL = &v.ThumbnailURL
	}
	if v.Captions != "" {
		row.Captions = &v.Captions
	}
	views, likes, comments := v.Views, v.Likes, v.Comments
	row.Views = &views
	row.Likes = &likes
	row.Comments = &comments
	fetched := nowStamp()
	row.FetchedAt = &fetched
	return row
}

func nowStamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func firstOr(items []string, fallback string) string {
	if len(items) > 0 {
		return items[0]
	}
	return fallback
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
