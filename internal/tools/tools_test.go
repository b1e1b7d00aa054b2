package tools

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestYouTubeToolSpecs(t *testing.T) {
	specs := YouTubeToolSpecs()
	if len(specs) != 7 {
		t.Fatalf("expected 7 tool specs, got %d", len(specs))
	}
	names := map[string]bool{}
	for _, s := range specs {
		names[s.Name] = true
		if s.Description == "" {
			t.Errorf("tool %s has no description", s.Name)
		}
	}
	for _, want := range []string{ToolChannelIDByHandle, ToolListChannelVideos, ToolVideoDetails, ToolLoadCaptions} {
		if !names[want] {
			t.Errorf("missing tool %s", want)
		}
	}
}

func TestComposioExecute(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v3/tools/execute/"+ToolVideoDetails {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("x-api-key") != "test-key" {
			t.Errorf("missing api key header")
		}
		w.Write([]byte(`{"successful": true, "data": {"views": 1200}}`))
	}))
	defer srv.Close()

	c := NewComposioClient(srv.URL, "test-key", "default")
	out, err := c.Execute(context.Background(), ToolVideoDetails, map[string]any{"video_id": "abc"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out["views"] != float64(1200) {
		t.Errorf("unexpected data %v", out)
	}
}

func TestComposioExecuteToolFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"successful": false, "error": "quota exceeded"}`))
	}))
	defer srv.Close()

	c := NewComposioClient(srv.URL, "test-key", "default")
	_, err := c.Execute(context.Background(), ToolSearch, nil)
	if err == nil || !strings.Contains(err.Error(), "quota exceeded") {
		t.Errorf("expected tool failure error, got %v", err)
	}
}

func TestComposioExecuteHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewComposioClient(srv.URL, "bad-key", "default")
	_, err := c.Execute(context.Background(), ToolVideoDetails, nil)
	if err == nil || !strings.Contains(err.Error(), "401") {
		t.Errorf("expected 401 error, got %v", err)
	}
}

func TestLocalExecutorChannelIDPassthrough(t *testing.T) {
	l := NewLocalExecutor()
	out, err := l.Execute(context.Background(), ToolChannelIDByHandle,
		map[string]any{"handle": "UCabcdefghijklmnopqrstuv"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out["channel_id"] != "UCabcdefghijklmnopqrstuv" {
		t.Errorf("expected passthrough, got %v", out)
	}
}

func TestLocalExecutorCaptionsOffline(t *testing.T) {
	l := NewLocalExecutor()
	out, err := l.Execute(context.Background(), ToolListCaptionTracks, map[string]any{"video_id": "x"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tracks, ok := out["caption_tracks"].([]any)
	if !ok || len(tracks) != 0 {
		t.Errorf("expected empty track list, got %v", out)
	}

	if _, err := l.Execute(context.Background(), ToolSearch, map[string]any{"query": "x"}); err == nil {
		t.Error("expected search to fail offline")
	}
}

func TestLocalExecutorUnknownTool(t *testing.T) {
	l := NewLocalExecutor()
	if _, err := l.Execute(context.Background(), "YOUTUBE_DELETE_VIDEO", nil); err == nil {
		t.Error("expected error for unknown tool")
	}
}

func TestChannelIDRegex(t *testing.T) {
	page := `<script>var data = {"channelId":"UCX6OQ3DkcsbYNE6H8uQQuVA","title":"MrBeast"};</script>`
	m := channelIDRe.FindStringSubmatch(page)
	if m == nil || m[1] != "UCX6OQ3DkcsbYNE6H8uQQuVA" {
		t.Errorf("unexpected match %v", m)
	}
}

func TestParseCount(t *testing.T) {
	if parseCount("1234") != 1234 {
		t.Error("expected 1234")
	}
	if parseCount("") != 0 || parseCount("n/a") != 0 {
		t.Error("expected 0 for unparseable counts")
	}
}

func TestLoadSampleData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample_data.json")
	payload := `{
		"channel": {"channelId": "UCtest", "title": "Test Channel"},
		"videos": [
			{"videoId": "v1", "title": "First", "views": 100},
			{"videoId": "v2", "title": "Second", "views": 200}
		]
	}`
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatal(err)
	}
	sample, err := LoadSampleData(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sample.Channel.ChannelID != "UCtest" || len(sample.Videos) != 2 {
		t.Errorf("unexpected sample %+v", sample)
	}
	if sample.Videos[1].Views != 200 {
		t.Errorf("unexpected video views %d", sample.Videos[1].Views)
	}
}

func TestLoadSampleDataMissing(t *testing.T) {
	if _, err := LoadSampleData(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Error("expected error for missing file")
	}
}
