// Package strategy holds the strategy document types shared across the
// agent, the learning loop, and the HTTP surface, plus a deterministic
// local generator for runs where no model is available.
package strategy

// VideoInfo is the video shape exchanged with the agent and the tool
// layer. It carries external identifiers only, never database ids.
type VideoInfo struct {
	VideoID      string `json:"videoId"`
	Title        string `json:"title"`
	PublishedAt  string `json:"publishedAt,omitempty"`
	Views        int64  `json:"views"`
	Likes        int64  `json:"likes"`
	Comments     int64  `json:"comments"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
	Captions     string `json:"captions,omitempty"`
}

// ChannelInfo is the channel shape returned by an analysis run.
type ChannelInfo struct {
	ChannelURL string `json:"channel_url,omitempty"`
	ChannelID  string `json:"channel_id,omitempty"`
	Title      string `json:"title,omitempty"`
}

// Strategy is the single-channel strategy document.
type Strategy struct {
	KeyFindings       []string       `json:"key_findings"`
	RecommendedFormat map[string]any `json:"recommended_format"`
	ActionPlan        []string       `json:"action_plan"`
	Confidence        float64        `json:"confidence"`
	Summary           string         `json:"summary"`
}

// NextVideoSuggestion is one concrete topic the agent proposes.
type NextVideoSuggestion struct {
	Topic             string   `json:"topic"`
	Why               string   `json:"why"`
	ReferenceChannels []string `json:"reference_channels,omitempty"`
	EstimatedAppeal   string   `json:"estimated_appeal,omitempty"`
}

// CrossChannel is the strategy document produced by a batch run over
// several channels.
type CrossChannel struct {
	TrendingTopics       []string              `json:"trending_topics"`
	CommonPatterns       []string              `json:"common_patterns"`
	ContentGaps          []string              `json:"content_gaps"`
	NextVideoSuggestions []NextVideoSuggestion `json:"next_video_suggestions"`
	KeyFindings          []string              `json:"key_findings"`
	Confidence           float64               `json:"confidence"`
	Summary              string                `json:"summary"`
}

// ChannelSummary is one channel's slice of a batch result.
type ChannelSummary struct {
	ChannelURL string      `json:"channel_url"`
	ChannelID  string      `json:"channel_id,omitempty"`
	Title      string      `json:"title,omitempty"`
	TopVideos  []VideoInfo `json:"top_videos"`
}
