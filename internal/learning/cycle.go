package learning

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/tubewise/tubewise/internal/database"
	"github.com/tubewise/tubewise/internal/memory"
	"github.com/tubewise/tubewise/internal/strategy"
)

// Result summarizes one learning cycle.
type Result struct {
	VideosAnalyzed    int      `json:"videos_analyzed"`
	InsightsGenerated int      `json:"insights_generated"`
	MatchesFound      int      `json:"matches_found"`
	Insights          []string `json:"insights"`
}

// Cycle runs the learning loop over stored and freshly fetched videos.
type Cycle struct {
	DB        *database.DB
	Memory    *memory.Log
	MaxVideos int
}

// Run scores every known video, regenerates insights, records
// suggestion matches, and appends a summary line to memory. Fresh batch
// data not yet persisted can be passed in and is merged by video id.
func (c *Cycle) Run(channelsData []strategy.ChannelSummary) (*Result, error) {
	log.Printf("learning cycle start")

	limit := c.MaxVideos
	if limit <= 0 {
		limit = 500
	}
	stored, err := c.DB.ListVideosWithChannels(limit)
	if err != nil {
		return nil, fmt.Errorf("loading videos: %w", err)
	}

	stats := make([]VideoStat, 0, len(stored))
	seen := map[string]bool{}
	for _, v := range stored {
		seen[v.VideoID] = true
		stats = append(stats, videoStatFromRow(v))
	}
	for _, ch := range channelsData {
		for _, v := range ch.TopVideos {
			if v.VideoID == "" || seen[v.VideoID] {
				continue
			}
			seen[v.VideoID] = true
			stats = append(stats, VideoStat{
				VideoID:      v.VideoID,
				Title:        v.Title,
				ChannelKey:   ch.ChannelID,
				ChannelTitle: ch.Title,
				Views:        v.Views,
				Likes:        v.Likes,
				Comments:     v.Comments,
			})
		}
	}

	// Memory stubs and view-less videos carry no performance signal.
	filtered := stats[:0]
	for _, v := range stats {
		if strings.HasPrefix(v.VideoID, "memory_") || v.Views <= 0 {
			continue
		}
		filtered = append(filtered, v)
	}

	log.Printf("analyzing %d videos across tracked channels", len(filtered))
	if len(filtered) < 3 {
		log.Printf("not enough video data to generate insights (need >=3)")
		return &Result{VideosAnalyzed: len(filtered), Insights: []string{}}, nil
	}

	scored := ScoreVideos(filtered)

	matches, err := MatchSuggestions(c.DB, scored)
	if err != nil {
		return nil, err
	}

	insights := GenerateInsights(scored)
	if len(insights) == 0 {
		log.Printf("no new insights could be generated from current data")
		return &Result{VideosAnalyzed: len(filtered), MatchesFound: matches, Insights: []string{}}, nil
	}

	channels := map[string]bool{}
	for _, v := range scored {
		channels[v.ChannelKey] = true
	}
	evidence, err := json.Marshal(map[string]any{
		"videos_analyzed":  len(filtered),
		"channels_tracked": len(channels),
		"generated_at":     time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return nil, fmt.Errorf("encoding evidence: %w", err)
	}
	if err := c.DB.ReplaceInsights(insights, string(evidence)); err != nil {
		return nil, err
	}

	if c.Memory != nil {
		findings := insights
		if len(findings) > 3 {
			findings = findings[:3]
		}
		entry := memory.Entry{
			Reference: "learning",
			Findings:  findings,
			NextStep: fmt.Sprintf("LEARNING UPDATE %s: analyzed %d videos, generated %d insights",
				time.Now().UTC().Format("2006-01-02"), len(filtered), len(insights)),
		}
		if err := c.Memory.Append(entry); err != nil {
			log.Printf("appending learning summary to memory: %v", err)
		}
	}

	log.Printf("learning cycle done: %d videos analyzed, %d insights, %d matches",
		len(filtered), len(insights), matches)

	return &Result{
		VideosAnalyzed:    len(filtered),
		InsightsGenerated: len(insights),
		MatchesFound:      matches,
		Insights:          insights,
	}, nil
}

func videoStatFromRow(v database.VideoWithChannel) VideoStat {
	stat := VideoStat{VideoID: v.VideoID}
	if v.Title != nil {
		stat.Title = *v.Title
	}
	if v.ExternalChannelID != nil {
		stat.ChannelKey = *v.ExternalChannelID
	}
	if v.ChannelTitle != nil {
		stat.ChannelTitle = *v.ChannelTitle
	}
	if v.Views != nil {
		stat.Views = *v.Views
	}
	if v.Likes != nil {
		stat.Likes = *v.Likes
	}
	if v.Comments != nil {
		stat.Comments = *v.Comments
	}
	return stat
}

// Context renders stored insights as a prompt block for the agent, or
// an empty string when nothing has been learned yet.
func Context(db *database.DB) (string, error) {
	insights, err := db.ListInsights()
	if err != nil {
		return "", fmt.Errorf("loading insights: %w", err)
	}
	if len(insights) == 0 {
		return "", nil
	}
	if len(insights) > 10 {
		insights = insights[:10]
	}

	lines := []string{
		"LEARNED RULES (from analyzing performance of videos across tracked channels).",
		"Use these patterns to make BETTER suggestions this time:",
	}
	for _, in := range insights {
		lines = append(lines, "  - "+in.InsightText)
	}
	return strings.Join(lines, "\n"), nil
}
