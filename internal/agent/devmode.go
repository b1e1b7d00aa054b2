package agent

import (
	"fmt"
	"log"
	"time"

	"github.com/tubewise/tubewise/internal/strategy"
	"github.com/tubewise/tubewise/internal/tools"
)

// analyzeDevMode derives a strategy from local sample data without
// touching the model or any external API.
func (a *Agent) analyzeDevMode(channelURL string) (*AnalyzeResult, error) {
	log.Printf("dev mode: deriving strategy from sample data")

	sample, err := tools.LoadSampleData(a.SamplePath)
	if err != nil {
		return nil, fmt.Errorf("loading sample data: %w", err)
	}

	record, err := a.upsertChannel(channelURL, sample.Channel.ChannelID, sample.Channel.Title)
	if err != nil {
		return nil, err
	}

	features := strategy.BuildFeatures(sample.Videos, time.Now().UTC())
	scores := make(map[string]float64, len(features))
	for _, f := range features {
		scores[f.VideoID] = f.PerformanceScore
	}
	for _, v := range sample.Videos {
		if v.VideoID == "" {
			continue
		}
		if err := a.DB.UpsertVideo(videoToRow(record.ID, v)); err != nil {
			return nil, err
		}
		if score, ok := scores[v.VideoID]; ok {
			if err := a.DB.SetPerformanceScore(v.VideoID, score); err != nil {
				return nil, err
			}
		}
	}

	var memoryLines []string
	if a.Memory != nil {
		memoryLines, err = a.Memory.ReadRecent(5)
		if err != nil {
			return nil, err
		}
	}
	derived := strategy.Derive(features, channelURL, memoryLines)

	if err := a.saveAnalysis(record.ID, derived); err != nil {
		return nil, err
	}
	a.appendMemory(channelURL, derived.KeyFindings, firstOr(derived.ActionPlan, "Iterate on content"))

	steps := []Step{{Type: "reasoning", Content: "dev mode: derived strategy from local sample data"}}
	return &AnalyzeResult{
		Strategy: derived,
		Summary:  derived.Summary,
		Channel:  *record,
		Videos:   sample.Videos,
		Steps:    steps,
	}, nil
}
