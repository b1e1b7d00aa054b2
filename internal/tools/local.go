package tools

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	readability "github.com/go-shiori/go-readability"
	"github.com/mmcdole/gofeed"
)

var channelIDRe = regexp.MustCompile(`"channelId":"(UC[0-9A-Za-z_-]{22})"`)

// LocalExecutor serves the YouTube tool surface from public RSS feeds
// and page scraping, with no API keys. Counts come from the feed's
// media statistics; captions and search are not available offline.
type LocalExecutor struct {
	client *http.Client
	parser *gofeed.Parser

	mu    sync.Mutex
	cache map[string]map[string]any
}

var _ Executor = (*LocalExecutor)(nil)

// NewLocalExecutor creates an offline executor.
func NewLocalExecutor() *LocalExecutor {
	return &LocalExecutor{
		client: &http.Client{Timeout: 20 * time.Second},
		parser: gofeed.NewParser(),
		cache:  map[string]map[string]any{},
	}
}

// Execute runs one tool against public YouTube surfaces.
func (l *LocalExecutor) Execute(ctx context.Context, name string, args map[string]any) (map[string]any, error) {
	switch name {
	case ToolChannelIDByHandle:
		return l.channelIDByHandle(ctx, stringArg(args, "handle"))
	case ToolChannelStatistics:
		return l.channelStatistics(ctx, stringArg(args, "channel_id"))
	case ToolListChannelVideos:
		return l.listChannelVideos(ctx, stringArg(args, "channel_id"), intArg(args, "max_results", 10))
	case ToolVideoDetails:
		return l.videoDetails(ctx, stringArg(args, "video_id"))
	case ToolListCaptionTracks:
		return map[string]any{"caption_tracks": []any{}}, nil
	case ToolLoadCaptions:
		return map[string]any{"captions": "", "note": "captions are not available without the YouTube API"}, nil
	case ToolSearch:
		return nil, fmt.Errorf("search requires the Composio YouTube toolkit")
	default:
		return nil, fmt.Errorf("unknown tool %q", name)
	}
}

func (l *LocalExecutor) channelIDByHandle(ctx context.Context, handle string) (map[string]any, error) {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return nil, fmt.Errorf("handle is required")
	}
	if strings.HasPrefix(handle, "UC") && len(handle) == 24 {
		return map[string]any{"channel_id": handle}, nil
	}

	pageURL := handle
	if !strings.HasPrefix(pageURL, "http") {
		pageURL = "https://www.youtube.com/" + strings.TrimPrefix(handle, "/")
	}
	body, err := l.get(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("fetching channel page: %w", err)
	}

	m := channelIDRe.FindSubmatch(body)
	if m == nil {
		return nil, fmt.Errorf("no channel id found on page %s", pageURL)
	}
	return map[string]any{"channel_id": string(m[1])}, nil
}

func (l *LocalExecutor) channelStatistics(ctx context.Context, channelID string) (map[string]any, error) {
	feed, err := l.fetchFeed(ctx, channelID)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"channel_id":  channelID,
		"title":       feed.Title,
		"video_count": len(feed.Items),
		"note":        "subscriber and total view counts require the YouTube API",
	}, nil
}

func (l *LocalExecutor) listChannelVideos(ctx context.Context, channelID string, maxResults int) (map[string]any, error) {
	feed, err := l.fetchFeed(ctx, channelID)
	if err != nil {
		return nil, err
	}

	var videos []map[string]any
	for _, item := range feed.Items {
		if len(videos) >= maxResults {
			break
		}
		video := feedItemVideo(item, channelID, feed.Title)
		if video == nil {
			continue
		}
		videos = append(videos, video)

		l.mu.Lock()
		l.cache[video["videoId"].(string)] = video
		l.mu.Unlock()
	}
	return map[string]any{"channel_id": channelID, "videos": videos}, nil
}

func (l *LocalExecutor) videoDetails(ctx context.Context, videoID string) (map[string]any, error) {
	if videoID == "" {
		return nil, fmt.Errorf("video_id is required")
	}

	l.mu.Lock()
	cached, ok := l.cache[videoID]
	l.mu.Unlock()
	if ok {
		return cached, nil
	}

	// Not seen in any feed yet; scrape the watch page for metadata.
	watchURL := "https://www.youtube.com/watch?v=" + url.QueryEscape(videoID)
	body, err := l.get(ctx, watchURL)
	if err != nil {
		return nil, fmt.Errorf("fetching watch page: %w", err)
	}
	parsed, _ := url.Parse(watchURL)
	article, err := readability.FromReader(strings.NewReader(string(body)), parsed)
	if err != nil {
		return nil, fmt.Errorf("extracting watch page: %w", err)
	}
	return map[string]any{
		"videoId": videoID,
		"title":   strings.TrimSpace(article.Title),
		"views":   0,
		"note":    "statistics unavailable; video was not in the channel feed",
	}, nil
}

func (l *LocalExecutor) fetchFeed(ctx context.Context, channelID string) (*gofeed.Feed, error) {
	if channelID == "" {
		return nil, fmt.Errorf("channel_id is required")
	}
	feed, err := l.parser.ParseURLWithContext(feedURL(channelID), ctx)
	if err != nil {
		return nil, fmt.Errorf("parsing channel feed: %w", err)
	}
	return feed, nil
}

func (l *LocalExecutor) get(ctx context.Context, pageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", pageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "tubewise/1.0 (channel analyzer)")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%s returned %d", pageURL, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func feedURL(channelID string) string {
	return "https://www.youtube.com/feeds/videos.xml?channel_id=" + url.QueryEscape(channelID)
}

// feedItemVideo converts one RSS entry to the video shape the agent
// expects. View and rating counts live in the media:group extension.
func feedItemVideo(item *gofeed.Item, channelID, channelTitle string) map[string]any {
	videoID := ytExtension(item, "videoId")
	if videoID == "" {
		return nil
	}

	published := ""
	if item.PublishedParsed != nil {
		published = item.PublishedParsed.UTC().Format(time.RFC3339)
	}

	var views, likes int64
	if media, ok := item.Extensions["media"]; ok {
		for _, group := range media["group"] {
			for _, community := range group.Children["community"] {
				for _, stats := range community.Children["statistics"] {
					views = parseCount(stats.Attrs["views"])
				}
				for _, rating := range community.Children["starRating"] {
					likes = parseCount(rating.Attrs["count"])
				}
			}
		}
	}

	return map[string]any{
		"videoId":      videoID,
		"title":        strings.TrimSpace(item.Title),
		"publishedAt":  published,
		"views":        views,
		"likes":        likes,
		"comments":     int64(0),
		"thumbnailUrl": "https://i.ytimg.com/vi/" + videoID + "/hqdefault.jpg",
		"channelId":    channelID,
		"channelTitle": channelTitle,
	}
}

func ytExtension(item *gofeed.Item, field string) string {
	if yt, ok := item.Extensions["yt"]; ok {
		for _, ext := range yt[field] {
			if ext.Value != "" {
				return ext.Value
			}
		}
	}
	return ""
}

func parseCount(s string) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func stringArg(args map[string]any, key string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return ""
}

func intArg(args map[string]any, key string, fallback int) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case int64:
		return int(v)
	}
	return fallback
}
