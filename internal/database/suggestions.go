package database

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// SaveSuggestion stores a topic suggestion. Re-saving an existing id is
// a no-op so replayed strategies never duplicate rows.
func (db *DB) SaveSuggestion(s *Suggestion) error {
	keywords, err := json.Marshal(s.Keywords)
	if err != nil {
		return fmt.Errorf("encoding keywords: %w", err)
	}
	refs, err := json.Marshal(s.ReferenceChannels)
	if err != nil {
		return fmt.Errorf("encoding reference channels: %w", err)
	}
	status := s.Status
	if status == "" {
		status = "suggested"
	}
	_, err = db.conn.Exec(`
		INSERT OR IGNORE INTO suggestions
			(id, topic, topic_summary, hypothesis, keywords, reference_channels,
			batch_id, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.Topic, s.TopicSummary, s.Hypothesis, string(keywords), string(refs),
		s.BatchID, status, now())
	if err != nil {
		return fmt.Errorf("saving suggestion %s: %w", s.ID, err)
	}
	return nil
}

// GetSuggestion returns a suggestion by id, or nil.
func (db *DB) GetSuggestion(id string) (*Suggestion, error) {
	var (
		s        Suggestion
		keywords string
		refs     string
	)
	err := db.conn.QueryRow(`
		SELECT id, topic, topic_summary, hypothesis, keywords, reference_channels,
			batch_id, status, created_at
		FROM suggestions WHERE id = ?`, id,
	).Scan(&s.ID, &s.Topic, &s.TopicSummary, &s.Hypothesis, &keywords, &refs,
		&s.BatchID, &s.Status, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting suggestion: %w", err)
	}
	if err := decodeSuggestionLists(&s, keywords, refs); err != nil {
		return nil, err
	}
	return &s, nil
}

// ListSuggestions returns suggestions, newest first. An empty status
// returns all of them.
func (db *DB) ListSuggestions(status string, limit int) ([]Suggestion, error) {
	query := `
		SELECT id, topic, topic_summary, hypothesis, keywords, reference_channels,
			batch_id, status, created_at
		FROM suggestions`
	args := []any{}
	if status != "" {
		query += " WHERE status = ?"
		args = append(args, status)
	}
	query += " ORDER BY created_at DESC, id LIMIT ?"
	args = append(args, limit)

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing suggestions: %w", err)
	}
	defer rows.Close()

	var suggestions []Suggestion
	for rows.Next() {
		var (
			s        Suggestion
			keywords string
			refs     string
		)
		if err := rows.Scan(&s.ID, &s.Topic, &s.TopicSummary, &s.Hypothesis, &keywords, &refs,
			&s.BatchID, &s.Status, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning suggestion: %w", err)
		}
		if err := decodeSuggestionLists(&s, keywords, refs); err != nil {
			return nil, err
		}
		suggestions = append(suggestions, s)
	}
	return suggestions, rows.Err()
}

func decodeSuggestionLists(s *Suggestion, keywords, refs string) error {
	if err := json.Unmarshal([]byte(keywords), &s.Keywords); err != nil {
		return fmt.Errorf("decoding keywords for %s: %w", s.ID, err)
	}
	if err := json.Unmarshal([]byte(refs), &s.ReferenceChannels); err != nil {
		return fmt.Errorf("decoding reference channels for %s: %w", s.ID, err)
	}
	return nil
}
