package database

// Channel is a tracked YouTube channel.
type Channel struct {
	ID          int64   `json:"id"`
	ChannelURL  string  `json:"channel_url"`
	ChannelID   *string `json:"channel_id"`
	Title       *string `json:"title"`
	LastChecked *string `json:"last_checked"`
}

// Video is a single video collected for a channel.
type Video struct {
	ID               int64    `json:"id"`
	ChannelID        int64    `json:"channel_id"`
	VideoID          string   `json:"video_id"`
	Title            *string  `json:"title"`
	PublishedAt      *string  `json:"published_at"`
	Views            *int64   `json:"views"`
	Likes            *int64   `json:"likes"`
	Comments         *int64   `json:"comments"`
	ThumbnailURL     *string  `json:"thumbnail_url"`
	Captions         *string  `json:"captions,omitempty"`
	FetchedAt        *string  `json:"fetched_at"`
	PerformanceScore *float64 `json:"performance_score"`
}

// VideoWithChannel joins a video with its channel's external identity.
type VideoWithChannel struct {
	Video
	ExternalChannelID *string `json:"external_channel_id"`
	ChannelTitle      *string `json:"channel_title"`
}

// Analysis is one append-only strategy run for a channel. Strategy is
// the serialized strategy document.
type Analysis struct {
	ID        int64  `json:"id"`
	ChannelID int64  `json:"channel_id"`
	Summary   string `json:"summary"`
	Strategy  string `json:"strategy"`
	CreatedAt string `json:"created_at"`
}

// BatchRecord is a replayable snapshot of one batch analysis run.
// ChannelURLs, Channels, Strategy, and AgentSteps are JSON text columns.
type BatchRecord struct {
	ID          int64  `json:"id"`
	BatchID     string `json:"batch_id"`
	ChannelURLs string `json:"channel_urls"`
	Channels    string `json:"channels"`
	Strategy    string `json:"strategy"`
	AgentSteps  string `json:"agent_steps"`
	CreatedAt   string `json:"created_at"`
}

// Suggestion is a tracked topic suggestion produced by a strategy.
type Suggestion struct {
	ID                string   `json:"id"`
	Topic             string   `json:"topic"`
	TopicSummary      *string  `json:"topic_summary"`
	Hypothesis        *string  `json:"hypothesis"`
	Keywords          []string `json:"keywords"`
	ReferenceChannels []string `json:"reference_channels"`
	BatchID           *string  `json:"batch_id"`
	Status            string   `json:"status"`
	CreatedAt         string   `json:"created_at"`
}

// SuggestionMatch links a suggestion to a later video that acted on
// it, snapshotting the video's stats at match time.
type SuggestionMatch struct {
	ID               int64   `json:"id"`
	SuggestionID     string  `json:"suggestion_id"`
	VideoID          string  `json:"video_id"`
	MatchConfidence  float64 `json:"match_confidence"`
	Views            int64   `json:"views"`
	AvgViews         int64   `json:"avg_views"`
	PerformanceScore float64 `json:"performance_score"`
	BeatAverage      bool    `json:"beat_average"`
	CreatedAt        string  `json:"created_at"`
}

// LearningInsight is one insight line produced by a learning cycle.
type LearningInsight struct {
	ID          int64  `json:"id"`
	InsightText string `json:"insight_text"`
	Evidence    string `json:"evidence"`
	CreatedAt   string `json:"created_at"`
}

// Stats holds aggregate row counts for the status surface.
type Stats struct {
	Channels          int `json:"channels"`
	Videos            int `json:"videos"`
	ScoredVideos      int `json:"scored_videos"`
	Analyses          int `json:"analyses"`
	BatchRuns         int `json:"batch_runs"`
	Suggestions       int `json:"suggestions"`
	SuggestionMatches int `json:"suggestion_matches"`
	LearningInsights  int `json:"learning_insights"`
}
