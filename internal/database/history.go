package database

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// SaveBatchRun stores one batch analysis snapshot. The channels,
// strategy, and step trace arrive already serialized.
func (db *DB) SaveBatchRun(r *BatchRecord) (int64, error) {
	channels := r.Channels
	if channels == "" {
		channels = "[]"
	}
	steps := r.AgentSteps
	if steps == "" {
		steps = "[]"
	}
	res, err := db.conn.Exec(`
		INSERT INTO batch_history (batch_id, channel_urls, channels, strategy, agent_steps, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		r.BatchID, r.ChannelURLs, channels, r.Strategy, steps, now())
	if err != nil {
		return 0, fmt.Errorf("saving batch run: %w", err)
	}
	return res.LastInsertId()
}

// GetBatchRun returns one batch run by row id, or nil.
func (db *DB) GetBatchRun(id int64) (*BatchRecord, error) {
	r := &BatchRecord{}
	err := db.conn.QueryRow(`
		SELECT id, batch_id, channel_urls, channels, strategy, agent_steps, created_at
		FROM batch_history WHERE id = ?`, id,
	).Scan(&r.ID, &r.BatchID, &r.ChannelURLs, &r.Channels, &r.Strategy, &r.AgentSteps, &r.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting batch run: %w", err)
	}
	return r, nil
}

// ListBatchRuns returns recent batch runs, newest first.
func (db *DB) ListBatchRuns(limit int) ([]BatchRecord, error) {
	rows, err := db.conn.Query(`
		SELECT id, batch_id, channel_urls, channels, strategy, agent_steps, created_at
		FROM batch_history ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing batch runs: %w", err)
	}
	defer rows.Close()

	var records []BatchRecord
	for rows.Next() {
		var r BatchRecord
		if err := rows.Scan(&r.ID, &r.BatchID, &r.ChannelURLs, &r.Channels, &r.Strategy, &r.AgentSteps, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning batch run: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// BatchURLs decodes the JSON-encoded channel URL list.
func (r *BatchRecord) BatchURLs() ([]string, error) {
	var urls []string
	if err := json.Unmarshal([]byte(r.ChannelURLs), &urls); err != nil {
		return nil, fmt.Errorf("decoding batch urls: %w", err)
	}
	return urls, nil
}
