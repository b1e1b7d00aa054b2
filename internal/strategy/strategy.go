package strategy

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/tubewise/tubewise/internal/signals"
)

// PatternReport captures what separates a channel's top performers from
// its weakest videos.
type PatternReport struct {
	Findings     []string
	TopVideos    []VideoFeatures
	BottomVideos []VideoFeatures
}

var patternNames = []string{
	"numbers_in_title",
	"questions_in_title",
	"hook_score_high",
	"title_long",
	"starts_with_how_or_why",
	"uses_you",
}

func patternFlags(v VideoFeatures) map[string]bool {
	return map[string]bool{
		"numbers_in_title":       v.TitleHasNumber,
		"questions_in_title":     v.TitleHasQuestion,
		"hook_score_high":        v.HookScore >= 2,
		"title_long":             v.TitleLength > 40,
		"starts_with_how_or_why": signals.StartsWithQuestionWord(v.Title),
		"uses_you":               strings.Contains(strings.ToLower(v.Title), "you"),
	}
}

// AnalyzePatterns compares the two strongest videos against the weakest
// ones and reports which title traits each group favors.
func AnalyzePatterns(videos []VideoFeatures) *PatternReport {
	if len(videos) == 0 {
		return nil
	}

	ranked := rankByScore(videos)
	top := ranked[:min(2, len(ranked))]
	bottom := ranked[len(ranked)-1:]
	if len(ranked) >= 4 {
		bottom = ranked[len(ranked)-2:]
	}

	topCounts := map[string]int{}
	bottomCounts := map[string]int{}
	for _, v := range top {
		for name, set := range patternFlags(v) {
			if set {
				topCounts[name]++
			}
		}
	}
	for _, v := range bottom {
		for name, set := range patternFlags(v) {
			if set {
				bottomCounts[name]++
			}
		}
	}

	var findings []string
	for _, name := range patternNames {
		label := strings.ReplaceAll(name, "_", " ")
		switch {
		case topCounts[name] > bottomCounts[name]:
			findings = append(findings, fmt.Sprintf("Top performers favor %s", label))
		case bottomCounts[name] > topCounts[name]:
			findings = append(findings, fmt.Sprintf("Lower performers favor %s", label))
		}
	}

	var tokensTop, tokensBottom []string
	for _, v := range top {
		tokensTop = append(tokensTop, signals.Tokenize(v.Title)...)
	}
	for _, v := range bottom {
		tokensBottom = append(tokensBottom, signals.Tokenize(v.Title)...)
	}
	if len(tokensTop) > 0 {
		s := signals.CountSentiment(tokensTop)
		findings = append(findings, fmt.Sprintf("Top titles skew positive by %d keywords", s.Positive))
	}
	if len(tokensBottom) > 0 {
		s := signals.CountSentiment(tokensBottom)
		findings = append(findings, fmt.Sprintf("Lower titles carry %d negative cues", s.Negative))
	}

	return &PatternReport{Findings: findings, TopVideos: top, BottomVideos: bottom}
}

func rankByScore(videos []VideoFeatures) []VideoFeatures {
	ranked := make([]VideoFeatures, len(videos))
	copy(ranked, videos)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].PerformanceScore > ranked[j].PerformanceScore
	})
	return ranked
}

// Derive produces a deterministic strategy document from video features
// and recent memory lines. It needs no model and always succeeds.
func Derive(videos []VideoFeatures, channelURL string, memoryLines []string) *Strategy {
	ranked := rankByScore(videos)

	var findings []string
	if report := AnalyzePatterns(ranked); report != nil {
		findings = report.Findings
	}
	if len(findings) == 0 {
		findings = []string{"Need more data to detect strong patterns"}
	}

	avgAge := 3.0
	if len(ranked) > 0 {
		n := min(5, len(ranked))
		sum := 0.0
		for _, v := range ranked[:n] {
			sum += v.AgeDays
		}
		avgAge = sum / float64(n)
	}
	idealLength := math.Round(clamp(14-avgAge/10, 6, 12)*10) / 10

	recommendedFormat := map[string]any{
		"ideal_length_minutes": idealLength,
		"title_patterns": []string{
			`Use numbers + promise ("10 riffs to master")`,
			`Lead with a question ("Can you guess...")`,
		},
		"hook_template":  "Open with a bold question or outcome in first 15s, then tease the reveal.",
		"thumbnail_text": "Short, 3-4 word contrast with bold number",
	}

	actionPlan := []string{
		"Storyboard a hook that states the payoff within 10 seconds.",
		"Include a number or time-bound promise in the title.",
		`Use "you" or direct address within the first sentence of captions.`,
		"Design two thumbnail variations: textual promise vs. reaction close-up.",
		"Publish during the channel's historically top engagement hour and track retention.",
	}

	memorySignal := 0
	for _, line := range memoryLines {
		if strings.Contains(line, channelURL) {
			memorySignal++
		}
	}
	confidence := 0.4 + 0.1*float64(len(videos))/10 + 0.05*float64(memorySignal)
	if confidence > 0.9 {
		confidence = 0.9
	}
	if len(ranked) >= 2 {
		gap := ranked[0].PerformanceScore - ranked[len(ranked)-1].PerformanceScore
		confidence += math.Min(0.2, gap)
	}
	confidence = math.Round(math.Min(confidence, 0.98)*100) / 100

	summary := fmt.Sprintf(
		"Top videos leaned on %s. Lean into sharp hooks, numeric promises, and energetic first 30 seconds.",
		strings.Join(findings[:min(2, len(findings))], ", "))

	if len(findings) > 5 {
		findings = findings[:5]
	}

	return &Strategy{
		KeyFindings:       findings,
		RecommendedFormat: recommendedFormat,
		ActionPlan:        actionPlan,
		Confidence:        confidence,
		Summary:           summary,
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
