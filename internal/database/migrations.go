package database

import "database/sql"

// Migration is a single schema change identified by a version number.
type Migration struct {
	Version     int
	Description string
	Up          func(tx *sql.Tx) error
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "initial schema",
		Up: func(tx *sql.Tx) error {
			stmts := []string{
				`CREATE TABLE IF NOT EXISTS channels (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					channel_url TEXT NOT NULL UNIQUE,
					channel_id TEXT,
					title TEXT,
					last_checked TEXT
				)`,
				`CREATE TABLE IF NOT EXISTS videos (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					channel_id INTEGER NOT NULL REFERENCES channels(id) ON DELETE CASCADE,
					video_id TEXT NOT NULL UNIQUE,
					title TEXT,
					published_at TEXT,
					views INTEGER,
					likes INTEGER,
					comments INTEGER,
					thumbnail_url TEXT,
					captions TEXT,
					fetched_at TEXT,
					performance_score REAL
				)`,
				`CREATE TABLE IF NOT EXISTS analyses (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					channel_id INTEGER NOT NULL REFERENCES channels(id) ON DELETE CASCADE,
					summary TEXT NOT NULL,
					strategy TEXT NOT NULL,
					created_at TEXT NOT NULL DEFAULT (datetime('now'))
				)`,
				`CREATE TABLE IF NOT EXISTS batch_history (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					batch_id TEXT NOT NULL,
					channel_urls TEXT NOT NULL,
					channels TEXT NOT NULL DEFAULT '[]',
					strategy TEXT NOT NULL,
					agent_steps TEXT NOT NULL DEFAULT '[]',
					created_at TEXT NOT NULL DEFAULT (datetime('now'))
				)`,
				`CREATE TABLE IF NOT EXISTS suggestions (
					id TEXT PRIMARY KEY,
					topic TEXT NOT NULL,
					topic_summary TEXT,
					hypothesis TEXT,
					keywords TEXT NOT NULL DEFAULT '[]',
					reference_channels TEXT NOT NULL DEFAULT '[]',
					batch_id TEXT,
					status TEXT NOT NULL DEFAULT 'suggested',
					created_at TEXT NOT NULL DEFAULT (datetime('now'))
				)`,
				`CREATE TABLE IF NOT EXISTS suggestion_matches (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					suggestion_id TEXT NOT NULL REFERENCES suggestions(id),
					video_id TEXT NOT NULL,
					match_confidence REAL NOT NULL,
					views INTEGER NOT NULL DEFAULT 0,
					avg_views INTEGER NOT NULL DEFAULT 0,
					performance_score REAL NOT NULL DEFAULT 0,
					beat_average INTEGER NOT NULL DEFAULT 0,
					created_at TEXT NOT NULL DEFAULT (datetime('now')),
					UNIQUE(suggestion_id, video_id)
				)`,
				`CREATE TABLE IF NOT EXISTS learning_insights (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					insight_text TEXT NOT NULL,
					evidence TEXT NOT NULL DEFAULT '{}',
					created_at TEXT NOT NULL DEFAULT (datetime('now'))
				)`,
				`CREATE INDEX IF NOT EXISTS idx_videos_channel ON videos(channel_id)`,
				`CREATE INDEX IF NOT EXISTS idx_analyses_channel ON analyses(channel_id)`,
				`CREATE INDEX IF NOT EXISTS idx_batch_history_batch ON batch_history(batch_id)`,
				`CREATE INDEX IF NOT EXISTS idx_suggestions_status ON suggestions(status)`,
				`CREATE INDEX IF NOT EXISTS idx_matches_video ON suggestion_matches(video_id)`,
			}
			for _, s := range stmts {
				if _, err := tx.Exec(s); err != nil {
					return err
				}
			}
			return nil
		},
	},
}

func latestVersion() int {
	return migrations[len(migrations)-1].Version
}
