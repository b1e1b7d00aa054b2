package learning

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/tubewise/tubewise/internal/signals"
)

const maxInsights = 8

// GenerateInsights distills scored videos into actionable insight lines.
// It needs at least three videos to say anything.
func GenerateInsights(scored []ScoredVideo) []string {
	if len(scored) < 3 {
		return nil
	}

	ranked := make([]ScoredVideo, len(scored))
	copy(ranked, scored)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].PerfScore > ranked[j].PerfScore
	})

	cutoff := max(1, len(ranked)/4)
	top := ranked[:cutoff]
	bottom := ranked[len(ranked)-cutoff:]

	var insights []string

	// Framings that separate winners from losers.
	topFrames := newCounter()
	bottomFrames := newCounter()
	for _, v := range top {
		for _, f := range signals.DetectFramings(v.Title) {
			topFrames.add(f)
		}
	}
	for _, v := range bottom {
		for _, f := range signals.DetectFramings(v.Title) {
			bottomFrames.add(f)
		}
	}

	var winning []string
	for _, e := range topFrames.mostCommon(5) {
		topRate := float64(e.count) / float64(len(top))
		bottomRate := float64(bottomFrames.get(e.key)) / float64(len(bottom))
		if topRate > bottomRate+0.1 && e.count >= 2 {
			winning = append(winning, strings.ReplaceAll(e.key, "_", " "))
		}
	}
	if len(winning) > 0 {
		insights = append(insights, fmt.Sprintf(
			"Title framings that correlate with above-average performance: %s. Prefer these styles in suggestions.",
			strings.Join(winning, ", ")))
	}

	var losing []string
	for _, e := range bottomFrames.mostCommon(5) {
		bottomRate := float64(e.count) / float64(len(bottom))
		topRate := float64(topFrames.get(e.key)) / float64(len(top))
		if bottomRate > topRate+0.1 && e.count >= 2 {
			losing = append(losing, strings.ReplaceAll(e.key, "_", " "))
		}
	}
	if len(losing) > 0 {
		insights = append(insights, fmt.Sprintf(
			"Title framings that correlate with below-average performance: %s. Avoid or reframe these.",
			strings.Join(losing, ", ")))
	}

	// Keywords over-represented among the winners.
	topKeywords := newCounter()
	allKeywords := newCounter()
	for _, v := range top {
		for _, kw := range signals.Keywords(v.Title) {
			topKeywords.add(kw)
		}
	}
	for _, v := range ranked {
		for _, kw := range signals.Keywords(v.Title) {
			allKeywords.add(kw)
		}
	}

	var hot []string
	for _, e := range topKeywords.mostCommon(20) {
		if e.count < 2 {
			continue
		}
		topRate := float64(e.count) / float64(len(top))
		overallRate := float64(allKeywords.get(e.key)) / float64(len(ranked))
		if topRate > overallRate*1.5 {
			hot = append(hot, e.key)
		}
	}
	if len(hot) > 0 {
		if len(hot) > 6 {
			hot = hot[:6]
		}
		insights = append(insights, fmt.Sprintf(
			"Keywords over-represented in top-performing videos: %s. Topics around these tend to outperform.",
			strings.Join(hot, ", ")))
	}

	// Concrete winners worth studying.
	var examples []string
	for _, v := range top {
		if len(examples) == 3 {
			break
		}
		examples = append(examples, fmt.Sprintf(
			"%q (%.1fx avg, %s views)", v.Title, v.PerfScore, groupDigits(v.Views)))
	}
	if len(examples) > 0 {
		insights = append(insights, fmt.Sprintf(
			"Best-performing videos across tracked channels: %s. Study their topic angles and framing.",
			strings.Join(examples, "; ")))
	}

	// Framings that drive discussion.
	var highEngagement []ScoredVideo
	for _, v := range ranked {
		if v.Views > 0 && float64(v.Comments)/float64(v.Views) > 0.005 {
			highEngagement = append(highEngagement, v)
		}
	}
	if len(highEngagement) >= 2 {
		engFrames := newCounter()
		for _, v := range highEngagement {
			for _, f := range signals.DetectFramings(v.Title) {
				engFrames.add(f)
			}
		}
		var discussion []string
		for _, e := range engFrames.mostCommon(3) {
			if e.count >= 2 {
				discussion = append(discussion, strings.ReplaceAll(e.key, "_", " "))
			}
		}
		if len(discussion) > 0 {
			insights = append(insights, fmt.Sprintf(
				"Videos with high comment engagement often use: %s. These framings spark discussion.",
				strings.Join(discussion, ", ")))
		}
	}

	// Rare keywords that still made the top set point at content gaps.
	if len(ranked) >= 10 {
		corpusFreq := newCounter()
		for _, v := range ranked {
			for _, kw := range signals.Keywords(v.Title) {
				corpusFreq.add(kw)
			}
		}
		var rare []string
		for _, e := range topKeywords.mostCommon(10) {
			if corpusFreq.get(e.key) <= 2 && e.count >= 1 {
				rare = append(rare, e.key)
			}
		}
		if len(rare) > 0 {
			if len(rare) > 4 {
				rare = rare[:4]
			}
			insights = append(insights, fmt.Sprintf(
				"Underexplored topics that performed well when covered: %s. These may be content gaps worth pursuing.",
				strings.Join(rare, ", ")))
		}
	}

	if len(insights) > maxInsights {
		insights = insights[:maxInsights]
	}
	return insights
}

// groupDigits renders n with thousands separators, e.g. 1234567 -> 1,234,567.
func groupDigits(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	out := strings.Join(parts, ",")
	if neg {
		out = "-" + out
	}
	return out
}
