package database

import (
	"database/sql"
	"errors"
	"fmt"
)

// UpsertVideo inserts a video or replaces its metadata when the
// video_id is already stored. A re-upsert overwrites every field with
// the incoming values, nil included; only the channel association
// survives.
func (db *DB) UpsertVideo(v *Video) error {
	_, err := db.conn.Exec(`
		INSERT INTO videos (channel_id, video_id, title, published_at, views, likes,
			comments, thumbnail_url, captions, fetched_at, performance_score)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(video_id) DO UPDATE SET
			title = excluded.title,
			published_at = excluded.published_at,
			views = excluded.views,
			likes = excluded.likes,
			comments = excluded.comments,
			thumbnail_url = excluded.thumbnail_url,
			captions = excluded.captions,
			fetched_at = excluded.fetched_at,
			performance_score = excluded.performance_score`,
		v.ChannelID, v.VideoID, v.Title, v.PublishedAt, v.Views, v.Likes,
		v.Comments, v.ThumbnailURL, v.Captions, v.FetchedAt, v.PerformanceScore,
	)
	if err != nil {
		return fmt.Errorf("upserting video %s: %w", v.VideoID, err)
	}
	return nil
}

// GetVideoByVideoID returns a video by its external id, or nil.
func (db *DB) GetVideoByVideoID(videoID string) (*Video, error) {
	v := &Video{}
	err := db.conn.QueryRow(`
		SELECT id, channel_id, video_id, title, published_at, views, likes,
			comments, thumbnail_url, captions, fetched_at, performance_score
		FROM videos WHERE video_id = ?`, videoID,
	).Scan(&v.ID, &v.ChannelID, &v.VideoID, &v.Title, &v.PublishedAt, &v.Views,
		&v.Likes, &v.Comments, &v.ThumbnailURL, &v.Captions, &v.FetchedAt, &v.PerformanceScore)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting video: %w", err)
	}
	return v, nil
}

// ListVideosForChannel returns a channel's stored videos, newest first.
func (db *DB) ListVideosForChannel(channelID int64) ([]Video, error) {
	rows, err := db.conn.Query(`
		SELECT id, channel_id, video_id, title, published_at, views, likes,
			comments, thumbnail_url, captions, fetched_at, performance_score
		FROM videos WHERE channel_id = ? ORDER BY published_at DESC, id DESC`, channelID)
	if err != nil {
		return nil, fmt.Errorf("listing channel videos: %w", err)
	}
	defer rows.Close()

	var videos []Video
	for rows.Next() {
		var v Video
		if err := rows.Scan(&v.ID, &v.ChannelID, &v.VideoID, &v.Title, &v.PublishedAt,
			&v.Views, &v.Likes, &v.Comments, &v.ThumbnailURL, &v.Captions, &v.FetchedAt,
			&v.PerformanceScore); err != nil {
			return nil, fmt.Errorf("scanning video: %w", err)
		}
		videos = append(videos, v)
	}
	return videos, rows.Err()
}

// ListVideosWithChannels returns the most recently stored videos joined
// with their channel's external identity, newest first, capped at limit.
func (db *DB) ListVideosWithChannels(limit int) ([]VideoWithChannel, error) {
	rows, err := db.conn.Query(`
		SELECT v.id, v.channel_id, v.video_id, v.title, v.published_at, v.views,
			v.likes, v.comments, v.thumbnail_url, v.captions, v.fetched_at,
			v.performance_score, c.channel_id, c.title
		FROM videos v
		JOIN channels c ON c.id = v.channel_id
		ORDER BY v.id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing videos: %w", err)
	}
	defer rows.Close()

	var videos []VideoWithChannel
	for rows.Next() {
		var v VideoWithChannel
		if err := rows.Scan(&v.ID, &v.ChannelID, &v.VideoID, &v.Title, &v.PublishedAt,
			&v.Views, &v.Likes, &v.Comments, &v.ThumbnailURL, &v.Captions, &v.FetchedAt,
			&v.PerformanceScore, &v.ExternalChannelID, &v.ChannelTitle); err != nil {
			return nil, fmt.Errorf("scanning video: %w", err)
		}
		videos = append(videos, v)
	}
	return videos, rows.Err()
}

// SetPerformanceScore stores a computed score for a video.
func (db *DB) SetPerformanceScore(videoID string, score float64) error {
	_, err := db.conn.Exec(
		"UPDATE videos SET performance_score = ? WHERE video_id = ?", score, videoID)
	if err != nil {
		return fmt.Errorf("setting score for %s: %w", videoID, err)
	}
	return nil
}
