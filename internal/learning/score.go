// Package learning implements the deterministic feedback loop: scoring
// stored videos against their channel averages, distilling performance
// patterns into insights, and tracking which suggestions paid off.
package learning

import "math"

// VideoStat is one video's raw performance numbers as seen by the
// learning loop, independent of how it was collected.
type VideoStat struct {
	VideoID      string
	Title        string
	ChannelKey   string
	ChannelTitle string
	Views        int64
	Likes        int64
	Comments     int64
}

// ScoredVideo is a VideoStat with its relative performance attached.
type ScoredVideo struct {
	VideoStat
	PerfScore float64
	AvgViews  int64
}

// partitionKey groups videos by channel. Videos without a channel
// identity form singleton groups so they only compare against themselves.
func partitionKey(v VideoStat) string {
	if v.ChannelKey != "" {
		return v.ChannelKey
	}
	return "video:" + v.VideoID
}

func engagementRate(v VideoStat) float64 {
	if v.Views <= 0 {
		return 0
	}
	return float64(v.Likes+v.Comments*3) / float64(v.Views)
}

// ScoreVideos scores each video relative to its channel's average views,
// nudged by an engagement multiplier clamped to [0.8, 1.3]. Output order
// follows the first appearance of each channel in the input.
func ScoreVideos(videos []VideoStat) []ScoredVideo {
	groups := map[string][]VideoStat{}
	var order []string
	for _, v := range videos {
		key := partitionKey(v)
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], v)
	}

	var scored []ScoredVideo
	for _, key := range order {
		group := groups[key]

		var totalViews int64
		for _, v := range group {
			totalViews += v.Views
		}
		avgViews := float64(totalViews) / float64(len(group))

		var engSum float64
		engCount := 0
		for _, v := range group {
			if v.Views > 0 {
				engSum += engagementRate(v)
				engCount++
			}
		}
		avgEng := 0.0
		if engCount > 0 {
			avgEng = engSum / float64(engCount)
		}

		for _, v := range group {
			perf := 1.0
			if avgViews > 0 {
				perf = float64(v.Views) / avgViews
			}
			engMult := 1.0
			if avgEng > 0 {
				engMult = math.Max(0.8, math.Min(1.3, engagementRate(v)/avgEng))
			}
			sv := ScoredVideo{
				VideoStat: v,
				PerfScore: math.Round(perf*engMult*1000) / 1000,
				AvgViews:  int64(math.Round(avgViews)),
			}
			sv.ChannelKey = key
			scored = append(scored, sv)
		}
	}
	return scored
}
