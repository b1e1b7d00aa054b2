package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection.
type DB struct {
	conn *sql.DB
	path string
}

// Open creates or opens a SQLite database at the given path.
func Open(dbPath string) (*DB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("setting journal mode: %w", err)
	}
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	if err := migrate(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrating schema: %w", err)
	}

	return &DB{conn: conn, path: dbPath}, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Path returns the database file path.
func (db *DB) Path() string {
	return db.path
}

// now returns the current UTC time in the stored timestamp format.
func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// GetStats returns aggregate database statistics.
func (db *DB) GetStats() (*Stats, error) {
	stats := &Stats{}
	queries := []struct {
		dst   *int
		query string
	}{
		{&stats.Channels, "SELECT COUNT(*) FROM channels"},
		{&stats.Videos, "SELECT COUNT(*) FROM videos"},
		{&stats.ScoredVideos, "SELECT COUNT(*) FROM videos WHERE performance_score IS NOT NULL"},
		{&stats.Analyses, "SELECT COUNT(*) FROM analyses"},
		{&stats.BatchRuns, "SELECT COUNT(*) FROM batch_history"},
		{&stats.Suggestions, "SELECT COUNT(*) FROM suggestions"},
		{&stats.SuggestionMatches, "SELECT COUNT(*) FROM suggestion_matches"},
		{&stats.LearningInsights, "SELECT COUNT(*) FROM learning_insights"},
	}
	for _, q := range queries {
		if err := db.conn.QueryRow(q.query).Scan(q.dst); err != nil {
			return nil, err
		}
	}
	return stats, nil
}
