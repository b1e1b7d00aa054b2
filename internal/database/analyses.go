package database

import "fmt"

// SaveAnalysis appends one strategy run for a channel.
func (db *DB) SaveAnalysis(channelID int64, summary, strategyJSON string) (int64, error) {
	res, err := db.conn.Exec(
		"INSERT INTO analyses (channel_id, summary, strategy, created_at) VALUES (?, ?, ?, ?)",
		channelID, summary, strategyJSON, now())
	if err != nil {
		return 0, fmt.Errorf("saving analysis: %w", err)
	}
	return res.LastInsertId()
}

// ListAnalyses returns recent analyses, newest first.
func (db *DB) ListAnalyses(limit int) ([]Analysis, error) {
	rows, err := db.conn.Query(`
		SELECT id, channel_id, summary, strategy, created_at
		FROM analyses ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing analyses: %w", err)
	}
	defer rows.Close()

	var analyses []Analysis
	for rows.Next() {
		var a Analysis
		if err := rows.Scan(&a.ID, &a.ChannelID, &a.Summary, &a.Strategy, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning analysis: %w", err)
		}
		analyses = append(analyses, a)
	}
	return analyses, rows.Err()
}

// ListAnalysesForChannel returns a channel's analyses, newest first.
func (db *DB) ListAnalysesForChannel(channelID int64, limit int) ([]Analysis, error) {
	rows, err := db.conn.Query(`
		SELECT id, channel_id, summary, strategy, created_at
		FROM analyses WHERE channel_id = ? ORDER BY id DESC LIMIT ?`, channelID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing channel analyses: %w", err)
	}
	defer rows.Close()

	var analyses []Analysis
	for rows.Next() {
		var a Analysis
		if err := rows.Scan(&a.ID, &a.ChannelID, &a.Summary, &a.Strategy, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning analysis: %w", err)
		}
		analyses = append(analyses, a)
	}
	return analyses, rows.Err()
}
