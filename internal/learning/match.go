package learning

import (
	"fmt"

	"github.com/tubewise/tubewise/internal/database"
	"github.com/tubewise/tubewise/internal/signals"
)

const (
	minKeywordOverlap  = 2
	minMatchConfidence = 0.5
)

// matchConfidence measures how much of a suggestion's keyword set shows
// up in a video title. It returns the overlap count and the fraction of
// suggestion keywords covered.
func matchConfidence(suggestionKeywords []string, videoTitle string) (int, float64) {
	if len(suggestionKeywords) == 0 {
		return 0, 0
	}
	titleWords := map[string]bool{}
	for _, kw := range signals.Keywords(videoTitle) {
		titleWords[kw] = true
	}
	overlap := 0
	for _, kw := range suggestionKeywords {
		if titleWords[kw] {
			overlap++
		}
	}
	return overlap, float64(overlap) / float64(len(suggestionKeywords))
}

// MatchSuggestions compares open suggestions against scored videos and
// records which suggestions were acted on. A match needs at least two
// overlapping keywords covering half of the suggestion's keyword set.
// Returns the number of matches recorded (duplicates count as zero new).
func MatchSuggestions(db *database.DB, scored []ScoredVideo) (int, error) {
	suggestions, err := db.ListSuggestions("suggested", 200)
	if err != nil {
		return 0, fmt.Errorf("loading suggestions for matching: %w", err)
	}
	if len(suggestions) == 0 {
		return 0, nil
	}

	matched := 0
	for _, s := range suggestions {
		for _, v := range scored {
			overlap, conf := matchConfidence(s.Keywords, v.Title)
			if overlap < minKeywordOverlap || conf < minMatchConfidence {
				continue
			}
			err := db.SaveSuggestionMatch(&database.SuggestionMatch{
				SuggestionID:     s.ID,
				VideoID:          v.VideoID,
				MatchConfidence:  conf,
				Views:            v.Views,
				AvgViews:         v.AvgViews,
				PerformanceScore: v.PerfScore,
				BeatAverage:      v.Views > v.AvgViews,
			})
			if err != nil {
				return matched, fmt.Errorf("recording match for %s: %w", s.ID, err)
			}
			matched++
		}
	}
	return matched, nil
}
