// Package tools gives the agent its YouTube data access: a Composio
// executor for production and an RSS-based offline executor for
// development runs without API keys.
package tools

import (
	"context"

	"github.com/tubewise/tubewise/internal/llm"
)

// YouTube tool slugs exposed to the agent.
const (
	ToolChannelIDByHandle = "YOUTUBE_GET_CHANNEL_ID_BY_HANDLE"
	ToolChannelStatistics = "YOUTUBE_GET_CHANNEL_STATISTICS"
	ToolListChannelVideos = "YOUTUBE_LIST_CHANNEL_VIDEOS"
	ToolVideoDetails      = "YOUTUBE_VIDEO_DETAILS"
	ToolListCaptionTracks = "YOUTUBE_LIST_CAPTION_TRACK"
	ToolLoadCaptions      = "YOUTUBE_LOAD_CAPTIONS"
	ToolSearch            = "YOUTUBE_SEARCH_YOU_TUBE"
)

// Executor runs one named tool call and returns its raw output.
type Executor interface {
	Execute(ctx context.Context, name string, args map[string]any) (map[string]any, error)
}

// YouTubeToolSpecs declares the tool surface offered to the model. Both
// executors serve the same set.
func YouTubeToolSpecs() []llm.ToolSpec {
	return []llm.ToolSpec{
		{
			Name:        ToolChannelIDByHandle,
			Description: "Resolve a YouTube handle or channel URL to its channel ID.",
			Parameters: map[string]llm.ParamSpec{
				"handle": {Type: "string", Description: "Channel handle, e.g. @veritasium, or a channel URL", Required: true},
			},
		},
		{
			Name:        ToolChannelStatistics,
			Description: "Get channel statistics: subscriber count, total views, video count.",
			Parameters: map[string]llm.ParamSpec{
				"channel_id": {Type: "string", Description: "YouTube channel ID (UC...)", Required: true},
			},
		},
		{
			Name:        ToolListChannelVideos,
			Description: "List the most recent videos for a channel.",
			Parameters: map[string]llm.ParamSpec{
				"channel_id":  {Type: "string", Description: "YouTube channel ID (UC...)", Required: true},
				"max_results": {Type: "integer", Description: "Maximum number of videos to return"},
			},
		},
		{
			Name:        ToolVideoDetails,
			Description: "Get snippet and statistics for a single video: views, likes, comments.",
			Parameters: map[string]llm.ParamSpec{
				"video_id": {Type: "string", Description: "YouTube video ID", Required: true},
			},
		},
		{
			Name:        ToolListCaptionTracks,
			Description: "List caption track IDs available for a video.",
			Parameters: map[string]llm.ParamSpec{
				"video_id": {Type: "string", Description: "YouTube video ID", Required: true},
			},
		},
		{
			Name:        ToolLoadCaptions,
			Description: "Download the caption text for a caption track.",
			Parameters: map[string]llm.ParamSpec{
				"caption_track_id": {Type: "string", Description: "Caption track ID from YOUTUBE_LIST_CAPTION_TRACK", Required: true},
			},
		},
		{
			Name:        ToolSearch,
			Description: "Search YouTube for videos or channels.",
			Parameters: map[string]llm.ParamSpec{
				"query":       {Type: "string", Description: "Search query", Required: true},
				"max_results": {Type: "integer", Description: "Maximum number of results"},
			},
		},
	}
}
