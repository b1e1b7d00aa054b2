package learning

import (
	"math"
	"testing"
)

func TestScoreVideosRelativeToChannelAverage(t *testing.T) {
	scored := ScoreVideos([]VideoStat{
		{VideoID: "a", ChannelKey: "UC1", Views: 3000},
		{VideoID: "b", ChannelKey: "UC1", Views: 1000},
		{VideoID: "c", ChannelKey: "UC1", Views: 2000},
	})
	if len(scored) != 3 {
		t.Fatalf("expected 3 scored videos, got %d", len(scored))
	}
	// avg views = 2000; no likes or comments anywhere, so the
	// engagement multiplier stays neutral.
	want := map[string]float64{"a": 1.5, "b": 0.5, "c": 1.0}
	for _, v := range scored {
		if math.Abs(v.PerfScore-want[v.VideoID]) > 1e-9 {
			t.Errorf("video %s: got score %f, want %f", v.VideoID, v.PerfScore, want[v.VideoID])
		}
		if v.AvgViews != 2000 {
			t.Errorf("video %s: got avg views %d, want 2000", v.VideoID, v.AvgViews)
		}
	}
}

func TestScoreVideosEngagementMultiplierClamped(t *testing.T) {
	// "hot" has a wildly higher engagement rate than the channel
	// average; the multiplier must cap at 1.3.
	scored := ScoreVideos([]VideoStat{
		{VideoID: "hot", ChannelKey: "UC1", Views: 1, Comments: 1000},
		{VideoID: "cold", ChannelKey: "UC1", Views: 1},
		{VideoID: "mid", ChannelKey: "UC1", Views: 1, Likes: 1},
	})
	byID := map[string]ScoredVideo{}
	for _, v := range scored {
		byID[v.VideoID] = v
	}
	// perf is 1.0 for everyone (equal views), so score == multiplier.
	if byID["hot"].PerfScore != 1.3 {
		t.Errorf("expected clamped score 1.3, got %f", byID["hot"].PerfScore)
	}
	if byID["cold"].PerfScore != 0.8 {
		t.Errorf("expected floor score 0.8, got %f", byID["cold"].PerfScore)
	}
}

func TestScoreVideosSeparateChannels(t *testing.T) {
	scored := ScoreVideos([]VideoStat{
		{VideoID: "a", ChannelKey: "UC1", Views: 1000000},
		{VideoID: "b", ChannelKey: "UC2", Views: 100},
	})
	// Each channel is its own baseline, so both sit at their average.
	for _, v := range scored {
		if v.PerfScore != 1.0 {
			t.Errorf("video %s: expected 1.0, got %f", v.VideoID, v.PerfScore)
		}
	}
}

func TestScoreVideosUnidentifiedChannelIsSingleton(t *testing.T) {
	scored := ScoreVideos([]VideoStat{
		{VideoID: "orphan", Views: 50},
		{VideoID: "a", ChannelKey: "UC1", Views: 1000},
	})
	byID := map[string]ScoredVideo{}
	for _, v := range scored {
		byID[v.VideoID] = v
	}
	if byID["orphan"].ChannelKey != "video:orphan" {
		t.Errorf("expected singleton key, got %q", byID["orphan"].ChannelKey)
	}
	if byID["orphan"].PerfScore != 1.0 {
		t.Errorf("expected singleton score 1.0, got %f", byID["orphan"].PerfScore)
	}
}

func TestScoreVideosRoundsToThreeDecimals(t *testing.T) {
	scored := ScoreVideos([]VideoStat{
		{VideoID: "a", ChannelKey: "UC1", Views: 1000},
		{VideoID: "b", ChannelKey: "UC1", Views: 2000},
		{VideoID: "c", ChannelKey: "UC1", Views: 30},
	})
	for _, v := range scored {
		scaled := v.PerfScore * 1000
		if math.Abs(scaled-math.Round(scaled)) > 1e-9 {
			t.Errorf("video %s: score %f not rounded to 3 decimals", v.VideoID, v.PerfScore)
		}
	}
}
