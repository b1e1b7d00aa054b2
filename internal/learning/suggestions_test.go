package learning

import (
	"testing"

	"github.com/tubewise/tubewise/internal/database"
	"github.com/tubewise/tubewise/internal/strategy"
)

func TestSuggestionIDStable(t *testing.T) {
	a := SuggestionID("Budget Pedalboards", "batch1")
	b := SuggestionID("  budget pedalboards  ", "batch1")
	if a != b {
		t.Errorf("expected case/space-insensitive id, got %q vs %q", a, b)
	}
	if len(a) != 16 {
		t.Errorf("expected 16 hex chars, got %d", len(a))
	}
	if SuggestionID("Budget Pedalboards", "batch2") == a {
		t.Error("expected different id for different batch")
	}
	if SuggestionID("Budget Pedalboards", "") == a {
		t.Error("expected different id for missing batch")
	}
}

func TestBatchIDOrderSensitive(t *testing.T) {
	a := BatchID([]string{"https://youtu.be/a", "https://youtu.be/b"})
	b := BatchID([]string{"https://youtu.be/b", "https://youtu.be/a"})
	if a == b {
		t.Error("expected order to change the batch id")
	}
	if len(a) != 12 {
		t.Errorf("expected 12 hex chars, got %d", len(a))
	}
	c := BatchID([]string{" https://youtu.be/a ", "https://youtu.be/b"})
	if a != c {
		t.Error("expected whitespace-insensitive batch id")
	}
}

func TestSaveSuggestions(t *testing.T) {
	db := openTestDB(t)
	cross := &strategy.CrossChannel{
		NextVideoSuggestions: []strategy.NextVideoSuggestion{
			{Topic: "Budget pedalboard builds", Why: "gap", ReferenceChannels: []string{"UC1"}},
			{Topic: ""},
			{Topic: "Amp modeling deep dive", Why: "trend"},
		},
	}
	count, err := SaveSuggestions(db, cross, "batch1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 saved, got %d", count)
	}

	// Replaying the same strategy must not duplicate rows.
	if _, err := SaveSuggestions(db, cross, "batch1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	all, err := db.ListSuggestions("", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 suggestions, got %d", len(all))
	}
	for _, s := range all {
		if len(s.Keywords) == 0 {
			t.Errorf("expected derived keywords for %q", s.Topic)
		}
		if s.BatchID == nil || *s.BatchID != "batch1" {
			t.Errorf("expected batch id recorded, got %+v", s.BatchID)
		}
	}
}

func TestMatchConfidenceThresholds(t *testing.T) {
	// One overlapping keyword is not enough even at full coverage.
	if overlap, _ := matchConfidence([]string{"pedalboard"}, "Pedalboard tour"); overlap >= minKeywordOverlap {
		t.Error("expected single-keyword overlap below threshold")
	}
	overlap, conf := matchConfidence([]string{"budget", "pedalboard", "builds"}, "My budget pedalboard experiment")
	if overlap != 2 {
		t.Errorf("expected overlap 2, got %d", overlap)
	}
	if conf < 0.66 || conf > 0.67 {
		t.Errorf("expected conf ~0.667, got %f", conf)
	}
}

func TestMatchSuggestionsNoMatchBelowConfidence(t *testing.T) {
	db := openTestDB(t)
	db.SaveSuggestion(&database.Suggestion{
		ID:       "s1",
		Topic:    "five word topic about amps",
		Keywords: []string{"five", "word", "topic", "amps", "tone"},
	})
	scored := ScoreVideos([]VideoStat{
		{VideoID: "v1", ChannelKey: "UC1", Title: "word topic unrelated", Views: 100},
		{VideoID: "v2", ChannelKey: "UC1", Title: "something else", Views: 100},
		{VideoID: "v3", ChannelKey: "UC1", Title: "third video", Views: 100},
	})
	// v1 overlaps 2 keywords but covers only 2/5 = 0.4 of the set.
	matched, err := MatchSuggestions(db, scored)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if matched != 0 {
		t.Errorf("expected no matches, got %d", matched)
	}
}
