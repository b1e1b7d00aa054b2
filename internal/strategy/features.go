package strategy

import (
	"strings"
	"time"

	"github.com/tubewise/tubewise/internal/signals"
)

// VideoFeatures is the derived feature vector for one video.
type VideoFeatures struct {
	VideoID          string
	Title            string
	PublishedAt      string
	Views            int64
	Likes            int64
	Comments         int64
	Captions         string
	ThumbnailURL     string
	AgeDays          float64
	ViewsPerDay      float64
	EngagementRate   float64
	TitleLength      int
	TitleHasNumber   bool
	TitleHasQuestion bool
	First30sText     string
	HookScore        float64
	PerformanceScore float64
}

func parsePublishedAt(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// BuildFeatures derives per-video features and normalizes a performance
// score across the set: 0.7 weight on views-per-day, 0.3 on engagement,
// each scaled by the set maximum.
func BuildFeatures(videos []VideoInfo, now time.Time) []VideoFeatures {
	var (
		features       []VideoFeatures
		maxViewsPerDay float64
		maxEngagement  float64
	)

	for _, v := range videos {
		if v.VideoID == "" {
			continue
		}
		ageDays := 1.0
		if published, ok := parsePublishedAt(v.PublishedAt); ok {
			if age := now.Sub(published).Seconds() / 86400; age > 1 {
				ageDays = age
			}
		}
		views := v.Views
		viewsPerDay := float64(views) / ageDays
		denom := views
		if denom < 1 {
			denom = 1
		}
		engagement := float64(v.Likes+v.Comments) / float64(denom)

		firstText := signals.FirstChars(v.Captions, 300)
		hookSource := firstText
		if hookSource == "" {
			hookSource = v.Title
		}

		features = append(features, VideoFeatures{
			VideoID:          v.VideoID,
			Title:            v.Title,
			PublishedAt:      v.PublishedAt,
			Views:            views,
			Likes:            v.Likes,
			Comments:         v.Comments,
			Captions:         v.Captions,
			ThumbnailURL:     v.ThumbnailURL,
			AgeDays:          ageDays,
			ViewsPerDay:      viewsPerDay,
			EngagementRate:   engagement,
			TitleLength:      len(v.Title),
			TitleHasNumber:   signals.ContainsNumber(v.Title),
			TitleHasQuestion: strings.Contains(v.Title, "?"),
			First30sText:     firstText,
			HookScore:        signals.HookScore(hookSource),
		})
		if viewsPerDay > maxViewsPerDay {
			maxViewsPerDay = viewsPerDay
		}
		if engagement > maxEngagement {
			maxEngagement = engagement
		}
	}

	for i := range features {
		var normViews, normEngagement float64
		if maxViewsPerDay > 0 {
			normViews = features[i].ViewsPerDay / maxViewsPerDay
		}
		if maxEngagement > 0 {
			normEngagement = features[i].EngagementRate / maxEngagement
		}
		features[i].PerformanceScore = 0.7*normViews + 0.3*normEngagement
	}

	return features
}
