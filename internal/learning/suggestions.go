package learning

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/tubewise/tubewise/internal/database"
	"github.com/tubewise/tubewise/internal/signals"
	"github.com/tubewise/tubewise/internal/strategy"
)

// SuggestionID derives a stable id from a topic and optional batch id,
// so re-saving the same suggestion never creates a second row.
func SuggestionID(topic, batchID string) string {
	if batchID == "" {
		batchID = "none"
	}
	raw := strings.ToLower(strings.TrimSpace(topic)) + ":" + batchID
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])[:16]
}

// BatchID derives a stable id for a batch run from its URL list.
// Order is preserved so the same list in a different order is a
// different batch.
func BatchID(urls []string) string {
	trimmed := make([]string, len(urls))
	for i, u := range urls {
		trimmed[i] = strings.TrimSpace(u)
	}
	sum := sha256.Sum256([]byte(strings.Join(trimmed, "\n")))
	return hex.EncodeToString(sum[:])[:12]
}

// SaveSuggestions persists a strategy's next-video suggestions and
// returns how many were stored.
func SaveSuggestions(db *database.DB, cross *strategy.CrossChannel, batchID string) (int, error) {
	count := 0
	for _, s := range cross.NextVideoSuggestions {
		topic := strings.TrimSpace(s.Topic)
		if topic == "" {
			continue
		}
		var batch *string
		if batchID != "" {
			batch = &batchID
		}
		var why *string
		if w := strings.TrimSpace(s.Why); w != "" {
			why = &w
		}
		err := db.SaveSuggestion(&database.Suggestion{
			ID:                SuggestionID(topic, batchID),
			Topic:             topic,
			TopicSummary:      why,
			Hypothesis:        why,
			Keywords:          signals.Keywords(topic),
			ReferenceChannels: s.ReferenceChannels,
			BatchID:           batch,
		})
		if err != nil {
			return count, fmt.Errorf("saving suggestion %q: %w", topic, err)
		}
		count++
	}
	return count, nil
}
