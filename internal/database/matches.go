package database

import (
	"database/sql"
	"fmt"
)

// SaveSuggestionMatch records that a video acted on a suggestion.
// Duplicate (suggestion, video) pairs are ignored.
func (db *DB) SaveSuggestionMatch(m *SuggestionMatch) error {
	beat := 0
	if m.BeatAverage {
		beat = 1
	}
	_, err := db.conn.Exec(`
		INSERT OR IGNORE INTO suggestion_matches
			(suggestion_id, video_id, match_confidence, views, avg_views,
			performance_score, beat_average, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		m.SuggestionID, m.VideoID, m.MatchConfidence, m.Views, m.AvgViews,
		m.PerformanceScore, beat, now())
	if err != nil {
		return fmt.Errorf("saving suggestion match: %w", err)
	}
	return nil
}

// ListMatchesForSuggestion returns all recorded matches for a suggestion.
func (db *DB) ListMatchesForSuggestion(suggestionID string) ([]SuggestionMatch, error) {
	rows, err := db.conn.Query(`
		SELECT id, suggestion_id, video_id, match_confidence, views, avg_views,
			performance_score, beat_average, created_at
		FROM suggestion_matches WHERE suggestion_id = ? ORDER BY id`, suggestionID)
	if err != nil {
		return nil, fmt.Errorf("listing matches: %w", err)
	}
	defer rows.Close()
	return scanMatches(rows)
}

// ListSuggestionMatches returns recent matches across all suggestions.
func (db *DB) ListSuggestionMatches(limit int) ([]SuggestionMatch, error) {
	rows, err := db.conn.Query(`
		SELECT id, suggestion_id, video_id, match_confidence, views, avg_views,
			performance_score, beat_average, created_at
		FROM suggestion_matches ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing matches: %w", err)
	}
	defer rows.Close()
	return scanMatches(rows)
}

func scanMatches(rows *sql.Rows) ([]SuggestionMatch, error) {
	var matches []SuggestionMatch
	for rows.Next() {
		var (
			m    SuggestionMatch
			beat int
		)
		if err := rows.Scan(&m.ID, &m.SuggestionID, &m.VideoID, &m.MatchConfidence,
			&m.Views, &m.AvgViews, &m.PerformanceScore, &beat, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning match: %w", err)
		}
		m.BeatAverage = beat != 0
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

// MatchDetail is a match joined with its suggestion topic and the
// video's identity, for API responses.
type MatchDetail struct {
	SuggestionMatch
	SuggestionTopic string  `json:"suggestion_topic"`
	ChannelID       *int64  `json:"channel_id"`
	VideoTitle      *string `json:"video_title"`
}

// ListMatchDetails returns recent matches enriched with suggestion and
// video metadata. Videos deleted since the match was recorded come back
// with nil channel id and title.
func (db *DB) ListMatchDetails(limit int) ([]MatchDetail, error) {
	rows, err := db.conn.Query(`
		SELECT m.id, m.suggestion_id, m.video_id, m.match_confidence, m.views,
		       m.avg_views, m.performance_score, m.beat_average, m.created_at,
		       s.topic, v.channel_id, v.title
		FROM suggestion_matches m
		JOIN suggestions s ON s.id = m.suggestion_id
		LEFT JOIN videos v ON v.video_id = m.video_id
		ORDER BY m.id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing match details: %w", err)
	}
	defer rows.Close()

	var details []MatchDetail
	for rows.Next() {
		var (
			d    MatchDetail
			beat int
		)
		err := rows.Scan(&d.ID, &d.SuggestionID, &d.VideoID, &d.MatchConfidence, &d.Views,
			&d.AvgViews, &d.PerformanceScore, &beat, &d.CreatedAt,
			&d.SuggestionTopic, &d.ChannelID, &d.VideoTitle)
		if err != nil {
			return nil, fmt.Errorf("scanning match detail: %w", err)
		}
		d.BeatAverage = beat != 0
		details = append(details, d)
	}
	return details, rows.Err()
}
