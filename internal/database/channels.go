package database

import (
	"database/sql"
	"errors"
	"fmt"
)

// UpsertChannel inserts a channel by URL or updates its metadata if the
// URL is already tracked. Nil fields leave existing values in place.
func (db *DB) UpsertChannel(ch *Channel) (int64, error) {
	_, err := db.conn.Exec(`
		INSERT INTO channels (channel_url, channel_id, title, last_checked)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(channel_url) DO UPDATE SET
			channel_id = COALESCE(excluded.channel_id, channel_id),
			title = COALESCE(excluded.title, title),
			last_checked = COALESCE(excluded.last_checked, last_checked)`,
		ch.ChannelURL, ch.ChannelID, ch.Title, ch.LastChecked,
	)
	if err != nil {
		return 0, fmt.Errorf("upserting channel: %w", err)
	}
	return db.channelIDByURL(ch.ChannelURL)
}

func (db *DB) channelIDByURL(url string) (int64, error) {
	var id int64
	if err := db.conn.QueryRow("SELECT id FROM channels WHERE channel_url = ?", url).Scan(&id); err != nil {
		return 0, fmt.Errorf("looking up channel %q: %w", url, err)
	}
	return id, nil
}

// GetChannelByURL returns a channel by its URL, or nil if not tracked.
func (db *DB) GetChannelByURL(url string) (*Channel, error) {
	ch := &Channel{}
	err := db.conn.QueryRow(`
		SELECT id, channel_url, channel_id, title, last_checked
		FROM channels WHERE channel_url = ?`, url,
	).Scan(&ch.ID, &ch.ChannelURL, &ch.ChannelID, &ch.Title, &ch.LastChecked)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting channel: %w", err)
	}
	return ch, nil
}

// GetChannelByID returns a channel by internal id, or nil when absent.
func (db *DB) GetChannelByID(id int64) (*Channel, error) {
	ch := &Channel{}
	err := db.conn.QueryRow(`
		SELECT id, channel_url, channel_id, title, last_checked
		FROM channels WHERE id = ?`, id,
	).Scan(&ch.ID, &ch.ChannelURL, &ch.ChannelID, &ch.Title, &ch.LastChecked)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting channel: %w", err)
	}
	return ch, nil
}

// ListChannels returns all tracked channels ordered by URL.
func (db *DB) ListChannels() ([]Channel, error) {
	rows, err := db.conn.Query(`
		SELECT id, channel_url, channel_id, title, last_checked
		FROM channels ORDER BY channel_url`)
	if err != nil {
		return nil, fmt.Errorf("listing channels: %w", err)
	}
	defer rows.Close()

	var channels []Channel
	for rows.Next() {
		var ch Channel
		if err := rows.Scan(&ch.ID, &ch.ChannelURL, &ch.ChannelID, &ch.Title, &ch.LastChecked); err != nil {
			return nil, fmt.Errorf("scanning channel: %w", err)
		}
		channels = append(channels, ch)
	}
	return channels, rows.Err()
}

// TouchChannel updates a channel's last_checked timestamp.
func (db *DB) TouchChannel(id int64) error {
	_, err := db.conn.Exec("UPDATE channels SET last_checked = ? WHERE id = ?", now(), id)
	if err != nil {
		return fmt.Errorf("touching channel %d: %w", id, err)
	}
	return nil
}
