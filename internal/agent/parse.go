package agent

import (
	"encoding/json"
	"fmt"

	"github.com/tubewise/tubewise/internal/strategy"
)

// Model output arrives with inconsistent key casing (videoId vs
// video_id), so videos and channels decode through alias-aware shims.

type videoPayload struct {
	strategy.VideoInfo
}

func (v *videoPayload) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v.VideoID = pickString(raw, "videoId", "video_id")
	v.Title = pickString(raw, "title")
	v.PublishedAt = pickString(raw, "publishedAt", "published_at")
	v.ThumbnailURL = pickString(raw, "thumbnailUrl", "thumbnail_url")
	v.Captions = pickString(raw, "captions")
	v.Views = pickInt(raw, "views")
	v.Likes = pickInt(raw, "likes")
	v.Comments = pickInt(raw, "comments")
	return nil
}

type channelPayload struct {
	ChannelID string `json:"channelId"`
	Title     string `json:"title"`
	URL       string `json:"url"`
}

type analysisPayload struct {
	Channel  channelPayload     `json:"channel"`
	Videos   []videoPayload     `json:"videos"`
	Strategy *strategy.Strategy `json:"strategy"`
}

type batchChannelPayload struct {
	ChannelURL string         `json:"channel_url"`
	ChannelID  string         `json:"channel_id"`
	Title      string         `json:"title"`
	TopVideos  []videoPayload `json:"top_videos"`
}

type batchPayload struct {
	Channels []batchChannelPayload  `json:"channels"`
	Strategy *strategy.CrossChannel `json:"strategy"`
}

func parseAnalysisPayload(raw []byte) (*analysisPayload, error) {
	var payload analysisPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("decoding analysis payload: %w", err)
	}
	if payload.Strategy == nil {
		return nil, fmt.Errorf("analysis payload has no strategy")
	}
	return &payload, nil
}

func parseBatchPayload(raw []byte) (*batchPayload, error) {
	var payload batchPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("decoding batch payload: %w", err)
	}
	if payload.Strategy == nil {
		return nil, fmt.Errorf("batch payload has no strategy")
	}
	return &payload, nil
}

func pickString(raw map[string]json.RawMessage, keys ...string) string {
	for _, key := range keys {
		if data, ok := raw[key]; ok {
			var s string
			if err := json.Unmarshal(data, &s); err == nil && s != "" {
				return s
			}
		}
	}
	return ""
}

func pickInt(raw map[string]json.RawMessage, keys ...string) int64 {
	for _, key := range keys {
		if data, ok := raw[key]; ok {
			var n int64
			if err := json.Unmarshal(data, &n); err == nil {
				return n
			}
			// Models sometimes send counts as floats or strings.
			var f float64
			if err := json.Unmarshal(data, &f); err == nil {
				return int64(f)
			}
			var s string
			if err := json.Unmarshal(data, &s); err == nil {
				var parsed int64
				if _, err := fmt.Sscanf(s, "%d", &parsed); err == nil {
					return parsed
				}
			}
		}
	}
	return 0
}
