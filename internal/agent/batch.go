package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/tubewise/tubewise/internal/database"
	"github.com/tubewise/tubewise/internal/learning"
	"github.com/tubewise/tubewise/internal/strategy"
	"github.com/tubewise/tubewise/internal/tools"
)

// AnalyzeBatch runs the agent across several channels at once and
// produces a cross-channel strategy with next-video suggestions.
func (a *Agent) AnalyzeBatch(ctx context.Context, channelURLs []string) (*BatchResult, error) {
	urls := make([]string, 0, len(channelURLs))
	for _, u := range channelURLs {
		if trimmed := strings.TrimSpace(u); trimmed != "" {
			urls = append(urls, trimmed)
		}
	}
	if len(urls) == 0 {
		return nil, fmt.Errorf("batch analysis needs at least one channel URL")
	}
	log.Printf("starting batch analysis for %d channels", len(urls))

	learned, err := learning.Context(a.DB)
	if err != nil {
		log.Printf("loading learned rules: %v", err)
		learned = ""
	}
	systemPrompt := fmt.Sprintf(batchSystemPromptTemplate,
		buildMemoryContext(a.Memory), learned)
	chat := a.NewChat(systemPrompt, tools.YouTubeToolSpecs())

	initial := fmt.Sprintf("Analyze these YouTube channels together and produce a cross-channel strategy:\n%s",
		strings.Join(urls, "\n"))
	raw, lastText, steps, err := a.runLoop(ctx, chat, initial, maxBatchTurns,
		"Please output the final cross-channel strategy as a JSON block wrapped in ```json ... ``` as instructed.")
	if err != nil {
		return nil, err
	}

	if raw != nil {
		payload, perr := parseBatchPayload(raw)
		if perr == nil {
			return a.persistBatch(urls, payload, steps)
		}
		log.Printf("batch JSON did not match the expected shape: %v", perr)
	}

	if lastText == "" {
		lastText = "Agent could not complete the batch analysis in time."
	}
	return a.fallbackBatch(urls, lastText, steps)
}

func (a *Agent) persistBatch(urls []string, payload *batchPayload, steps []Step) (*BatchResult, error) {
	channels := make([]strategy.ChannelSummary, 0, len(payload.Channels))
	for _, ch := range payload.Channels {
		channelURL := ch.ChannelURL
		if channelURL == "" {
			continue
		}
		record, err := a.upsertChannel(channelURL, ch.ChannelID, ch.Title)
		if err != nil {
			return nil, err
		}
		topVideos := make([]strategy.VideoInfo, 0, len(ch.TopVideos))
		for _, v := range ch.TopVideos {
			if v.VideoID == "" {
				continue
			}
			if err := a.DB.UpsertVideo(videoToRow(record.ID, v.VideoInfo)); err != nil {
				return nil, err
			}
			topVideos = append(topVideos, v.VideoInfo)
		}
		channels = append(channels, strategy.ChannelSummary{
			ChannelURL: channelURL,
			ChannelID:  record.ChannelID,
			Title:      record.Title,
			TopVideos:  topVideos,
		})
	}

	cross := payload.Strategy
	a.appendMemory("batch", headOf(cross.KeyFindings, 3),
		fmt.Sprintf("Batch analysis of %d channels. Trending: %s",
			len(urls), strings.Join(headOf(cross.TrendingTopics, 3), ", ")))

	batchID := learning.BatchID(urls)
	if _, err := learning.SaveSuggestions(a.DB, cross, batchID); err != nil {
		log.Printf("saving suggestions: %v", err)
	}

	cycle := &learning.Cycle{DB: a.DB, Memory: a.Memory, MaxVideos: a.MaxVideos}
	if _, err := cycle.Run(channels); err != nil {
		log.Printf("learning cycle after batch: %v", err)
	}

	if err := a.saveBatchRun(batchID, urls, channels, cross, steps); err != nil {
		return nil, err
	}
	return &BatchResult{Channels: channels, Strategy: cross, Steps: steps, BatchID: batchID}, nil
}

func (a *Agent) fallbackBatch(urls []string, text string, steps []Step) (*BatchResult, error) {
	channels := make([]strategy.ChannelSummary, 0, len(urls))
	for _, u := range urls {
		record, err := a.upsertChannel(u, ExtractChannelIdentifier(u), "")
		if err != nil {
			return nil, err
		}
		channels = append(channels, strategy.ChannelSummary{
			ChannelURL: u,
			ChannelID:  record.ChannelID,
			Title:      record.Title,
			TopVideos:  []strategy.VideoInfo{},
		})
	}

	cross := &strategy.CrossChannel{
		TrendingTopics:       []string{},
		CommonPatterns:       []string{},
		ContentGaps:          []string{},
		NextVideoSuggestions: []strategy.NextVideoSuggestion{},
		KeyFindings:          []string{"Batch analysis incomplete — see summary for details"},
		Confidence:           0.3,
		Summary:              truncate(text, 500),
	}

	batchID := learning.BatchID(urls)
	if err := a.saveBatchRun(batchID, urls, channels, cross, steps); err != nil {
		return nil, err
	}
	return &BatchResult{Channels: channels, Strategy: cross, Steps: steps, BatchID: batchID}, nil
}

func (a *Agent) saveBatchRun(batchID string, urls []string, channels []strategy.ChannelSummary, cross *strategy.CrossChannel, steps []Step) error {
	urlsJSON, err := json.Marshal(urls)
	if err != nil {
		return fmt.Errorf("encoding batch URLs: %w", err)
	}
	channelsJSON, err := json.Marshal(channels)
	if err != nil {
		return fmt.Errorf("encoding batch channels: %w", err)
	}
	strategyJSON, err := json.Marshal(cross)
	if err != nil {
		return fmt.Errorf("encoding cross-channel strategy: %w", err)
	}
	stepsJSON, err := json.Marshal(steps)
	if err != nil {
		return fmt.Errorf("encoding agent steps: %w", err)
	}
	_, err = a.DB.SaveBatchRun(&database.BatchRecord{
		BatchID:     batchID,
		ChannelURLs: string(urlsJSON),
		Channels:    string(channelsJSON),
		Strategy:    string(strategyJSON),
		AgentSteps:  string(stepsJSON),
	})
	return err
}

func headOf(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}
