// Package server exposes the JSON API and the HTML dashboard.
package server

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/yuin/goldmark"

	"github.com/tubewise/tubewise/internal/agent"
	"github.com/tubewise/tubewise/internal/database"
	"github.com/tubewise/tubewise/internal/learning"
	"github.com/tubewise/tubewise/internal/memory"
	"github.com/tubewise/tubewise/internal/thumbnail"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

var md = goldmark.New()

const defaultMemoryLines = 20

var timeNow = time.Now

// Analyzer runs channel analyses. *agent.Agent is the production
// implementation; tests substitute a stub.
type Analyzer interface {
	AnalyzeChannel(ctx context.Context, channelURL string) (*agent.AnalyzeResult, error)
	AnalyzeBatch(ctx context.Context, channelURLs []string) (*agent.BatchResult, error)
}

// ThumbnailGenerator produces thumbnail images for video titles.
type ThumbnailGenerator interface {
	Generate(ctx context.Context, title, description string) (*thumbnail.Image, error)
}

// Options configures optional server collaborators.
type Options struct {
	Analyzer      Analyzer
	Thumbnails    ThumbnailGenerator
	RatePerMinute int
	MemoryLines   int
	MaxVideos     int
}

// Server is the HTTP server for the strategy API and dashboard.
type Server struct {
	db          *database.DB
	memory      *memory.Log
	analyzer    Analyzer
	thumbs      ThumbnailGenerator
	limiter     *MinuteRateLimiter
	memoryLines int
	maxVideos   int
	pages       map[string]*template.Template
	mux         *http.ServeMux
}

// New creates a Server.
func New(db *database.DB, mem *memory.Log, opts Options) (*Server, error) {
	funcMap := template.FuncMap{
		"markdown": renderMarkdown,
		"deref": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
	}

	base, err := template.New("base.html").Funcs(funcMap).ParseFS(templateFS, "templates/base.html")
	if err != nil {
		return nil, fmt.Errorf("parsing base template: %w", err)
	}

	pageNames := []string{"index.html", "history.html"}
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		clone, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("cloning base for %s: %w", name, err)
		}
		if _, err := clone.ParseFS(templateFS, "templates/"+name); err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", name, err)
		}
		pages[name] = clone
	}

	memoryLines := opts.MemoryLines
	if memoryLines <= 0 {
		memoryLines = defaultMemoryLines
	}

	s := &Server{
		db:          db,
		memory:      mem,
		analyzer:    opts.Analyzer,
		thumbs:      opts.Thumbnails,
		limiter:     NewMinuteRateLimiter(opts.RatePerMinute),
		memoryLines: memoryLines,
		maxVideos:   opts.MaxVideos,
		pages:       pages,
		mux:         http.NewServeMux(),
	}
	s.routes()
	return s, nil
}

// Handler returns the HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) routes() {
	staticSub, _ := fs.Sub(staticFS, "static")
	s.mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticSub))))

	s.mux.HandleFunc("/", s.handleIndex)
	s.mux.HandleFunc("/history", s.handleHistoryPage)

	s.mux.HandleFunc("/api/add-channel", s.handleAddChannel)
	s.mux.HandleFunc("/api/channels", s.handleListChannels)
	s.mux.HandleFunc("/api/analyze-channel", s.handleAnalyzeChannel)
	s.mux.HandleFunc("/api/analyze-batch", s.handleAnalyzeBatch)
	s.mux.HandleFunc("/api/generate-thumbnail", s.handleGenerateThumbnail)
	s.mux.HandleFunc("/api/videos/", s.handleListVideos)
	s.mux.HandleFunc("/api/history", s.handleHistoryList)
	s.mux.HandleFunc("/api/history/", s.handleHistoryDetail)
	s.mux.HandleFunc("/api/learning/insights", s.handleInsights)
	s.mux.HandleFunc("/api/learning/run", s.handleRunLearning)
	s.mux.HandleFunc("/api/learning/matches", s.handleMatches)
	s.mux.HandleFunc("/api/memory", s.handleMemory)
	s.mux.HandleFunc("/api/reset-memory", s.handleResetMemory)
	s.mux.HandleFunc("/api/status", s.handleStatus)
}

// rateLimit reports whether the request may proceed, writing a 429 when
// it may not. All mutating endpoints share one global bucket.
func (s *Server) rateLimit(w http.ResponseWriter) bool {
	if s.limiter.Allow("global") {
		return true
	}
	writeError(w, http.StatusTooManyRequests, "Rate limit exceeded. Please slow down.")
	return false
}

func (s *Server) handleAddChannel(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if !s.rateLimit(w) {
		return
	}
	var payload struct {
		ChannelURL string `json:"channel_url"`
	}
	if err := decodeJSON(r, &payload); err != nil || strings.TrimSpace(payload.ChannelURL) == "" {
		writeError(w, http.StatusBadRequest, "channel_url is required")
		return
	}

	channelURL := strings.TrimSpace(payload.ChannelURL)
	identifier := agent.ExtractChannelIdentifier(channelURL)
	ch := &database.Channel{ChannelURL: channelURL}
	if identifier != "" {
		ch.ChannelID = &identifier
	}
	if _, err := s.db.UpsertChannel(ch); err != nil {
		s.internalError(w, "storing channel", err)
		return
	}
	stored, err := s.db.GetChannelByURL(channelURL)
	if err != nil || stored == nil {
		s.internalError(w, "loading stored channel", err)
		return
	}
	writeJSON(w, http.StatusOK, stored)
}

func (s *Server) handleListChannels(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	channels, err := s.db.ListChannels()
	if err != nil {
		s.internalError(w, "listing channels", err)
		return
	}
	if channels == nil {
		channels = []database.Channel{}
	}
	writeJSON(w, http.StatusOK, channels)
}

func (s *Server) handleAnalyzeChannel(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if !s.rateLimit(w) {
		return
	}
	if s.analyzer == nil {
		writeError(w, http.StatusServiceUnavailable, "analysis is not configured")
		return
	}
	var payload struct {
		ChannelURL string `json:"channel_url"`
	}
	if err := decodeJSON(r, &payload); err != nil || strings.TrimSpace(payload.ChannelURL) == "" {
		writeError(w, http.StatusBadRequest, "channel_url is required")
		return
	}

	result, err := s.analyzer.AnalyzeChannel(r.Context(), strings.TrimSpace(payload.ChannelURL))
	if err != nil {
		s.internalError(w, "channel analysis", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleAnalyzeBatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if !s.rateLimit(w) {
		return
	}
	if s.analyzer == nil {
		writeError(w, http.StatusServiceUnavailable, "analysis is not configured")
		return
	}
	var payload struct {
		ChannelURLs []string `json:"channel_urls"`
	}
	if err := decodeJSON(r, &payload); err != nil || len(payload.ChannelURLs) == 0 {
		writeError(w, http.StatusBadRequest, "channel_urls is required")
		return
	}

	result, err := s.analyzer.AnalyzeBatch(r.Context(), payload.ChannelURLs)
	if err != nil {
		s.internalError(w, "batch analysis", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleGenerateThumbnail(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if s.thumbs == nil {
		writeError(w, http.StatusServiceUnavailable, "thumbnail generation is not configured")
		return
	}
	var payload struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	}
	if err := decodeJSON(r, &payload); err != nil || strings.TrimSpace(payload.Title) == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}

	img, err := s.thumbs.Generate(r.Context(), payload.Title, payload.Description)
	if err != nil {
		s.internalError(w, "thumbnail generation", err)
		return
	}
	writeJSON(w, http.StatusOK, img)
}

func (s *Server) handleListVideos(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	id, err := strconv.ParseInt(strings.TrimPrefix(r.URL.Path, "/api/videos/"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid channel id")
		return
	}
	channel, err := s.db.GetChannelByID(id)
	if err != nil {
		s.internalError(w, "loading channel", err)
		return
	}
	if channel == nil {
		writeError(w, http.StatusNotFound, "Channel not found")
		return
	}
	videos, err := s.db.ListVideosForChannel(id)
	if err != nil {
		s.internalError(w, "listing videos", err)
		return
	}
	if videos == nil {
		videos = []database.Video{}
	}
	writeJSON(w, http.StatusOK, videos)
}

func (s *Server) handleHistoryList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	runs, err := s.db.ListBatchRuns(50)
	if err != nil {
		s.internalError(w, "listing batch history", err)
		return
	}
	type listItem struct {
		ID          int64    `json:"id"`
		BatchID     string   `json:"batch_id"`
		CreatedAt   string   `json:"created_at"`
		ChannelURLs []string `json:"channel_urls"`
	}
	items := make([]listItem, 0, len(runs))
	for _, run := range runs {
		items = append(items, listItem{
			ID:          run.ID,
			BatchID:     run.BatchID,
			CreatedAt:   run.CreatedAt,
			ChannelURLs: batchURLs(&run),
		})
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleHistoryDetail(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	id, err := strconv.ParseInt(strings.TrimPrefix(r.URL.Path, "/api/history/"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid history id")
		return
	}
	run, err := s.db.GetBatchRun(id)
	if err != nil {
		s.internalError(w, "loading batch run", err)
		return
	}
	if run == nil {
		writeError(w, http.StatusNotFound, "History entry not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":           run.ID,
		"batch_id":     run.BatchID,
		"created_at":   run.CreatedAt,
		"channel_urls": batchURLs(run),
		"channels":     rawJSON(run.Channels, "[]"),
		"strategy":     rawJSON(run.Strategy, "{}"),
		"agent_steps":  rawJSON(run.AgentSteps, "[]"),
	})
}

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	insights, err := s.db.ListInsights()
	if err != nil {
		s.internalError(w, "listing insights", err)
		return
	}
	type item struct {
		ID          int64           `json:"id"`
		CreatedAt   string          `json:"created_at"`
		InsightText string          `json:"insight_text"`
		Evidence    json.RawMessage `json:"evidence"`
	}
	items := make([]item, 0, len(insights))
	for _, in := range insights {
		items = append(items, item{
			ID:          in.ID,
			CreatedAt:   in.CreatedAt,
			InsightText: in.InsightText,
			Evidence:    rawJSON(in.Evidence, "{}"),
		})
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleRunLearning(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	cycle := &learning.Cycle{DB: s.db, Memory: s.memory, MaxVideos: s.maxVideos}
	result, err := cycle.Run(nil)
	if err != nil {
		s.internalError(w, "learning cycle", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleMatches(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	matches, err := s.db.ListMatchDetails(50)
	if err != nil {
		s.internalError(w, "listing matches", err)
		return
	}
	if matches == nil {
		matches = []database.MatchDetail{}
	}
	writeJSON(w, http.StatusOK, matches)
}

func (s *Server) handleMemory(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		lines, err := s.memory.ReadRecent(s.memoryLines)
		if err != nil {
			s.internalError(w, "reading memory", err)
			return
		}
		if lines == nil {
			lines = []string{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"memory": lines})
	case http.MethodPost:
		var payload struct {
			ChannelRef string   `json:"channel_ref"`
			Findings   []string `json:"findings"`
			Action     string   `json:"action"`
		}
		if err := decodeJSON(r, &payload); err != nil || strings.TrimSpace(payload.ChannelRef) == "" {
			writeError(w, http.StatusBadRequest, "channel_ref is required")
			return
		}
		entry := memory.Entry{
			Reference: strings.TrimSpace(payload.ChannelRef),
			Findings:  payload.Findings,
			NextStep:  payload.Action,
		}
		line := entry.Format(timeNow())
		if err := s.memory.AppendLine(line); err != nil {
			s.internalError(w, "appending memory", err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"entry": line})
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleResetMemory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var payload struct {
		Confirm bool `json:"confirm"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.memory.Reset(payload.Confirm); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	stats, err := s.db.GetStats()
	if err != nil {
		s.internalError(w, "loading stats", err)
		return
	}
	memoryCount, err := s.memory.Count()
	if err != nil {
		s.internalError(w, "counting memory", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"stats":        stats,
		"memory_lines": memoryCount,
	})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	stats, err := s.db.GetStats()
	if err != nil {
		s.internalError(w, "loading stats", err)
		return
	}
	channels, err := s.db.ListChannels()
	if err != nil {
		s.internalError(w, "listing channels", err)
		return
	}
	insights, err := s.db.ListInsights()
	if err != nil {
		s.internalError(w, "listing insights", err)
		return
	}
	matches, err := s.db.ListMatchDetails(10)
	if err != nil {
		s.internalError(w, "listing matches", err)
		return
	}
	analyses, err := s.db.ListAnalyses(5)
	if err != nil {
		s.internalError(w, "listing analyses", err)
		return
	}

	s.render(w, "index.html", map[string]any{
		"Stats":    stats,
		"Channels": channels,
		"Insights": insights,
		"Matches":  matches,
		"Analyses": analyses,
	})
}

func (s *Server) handleHistoryPage(w http.ResponseWriter, r *http.Request) {
	runs, err := s.db.ListBatchRuns(50)
	if err != nil {
		s.internalError(w, "listing batch history", err)
		return
	}
	type runView struct {
		database.BatchRecord
		URLs []string
	}
	views := make([]runView, 0, len(runs))
	for _, run := range runs {
		views = append(views, runView{BatchRecord: run, URLs: batchURLs(&run)})
	}
	s.render(w, "history.html", map[string]any{"Runs": views})
}

func (s *Server) render(w http.ResponseWriter, name string, data any) {
	tmpl, ok := s.pages[name]
	if !ok {
		log.Printf("template %s not found", name)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "base.html", data); err != nil {
		log.Printf("rendering template %s: %v", name, err)
	}
}

func (s *Server) internalError(w http.ResponseWriter, what string, err error) {
	log.Printf("%s: %v", what, err)
	writeError(w, http.StatusInternalServerError, "Internal server error")
}

func renderMarkdown(text string) template.HTML {
	var buf bytes.Buffer
	if err := md.Convert([]byte(text), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(text))
	}
	return template.HTML(buf.String()) //nolint: gosec
}

func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func batchURLs(run *database.BatchRecord) []string {
	urls, err := run.BatchURLs()
	if err != nil {
		log.Printf("decoding batch urls for run %d: %v", run.ID, err)
		return []string{}
	}
	return urls
}

// rawJSON passes stored JSON text through untouched, substituting a
// fallback for empty or corrupt values.
func rawJSON(stored, fallback string) json.RawMessage {
	if json.Valid([]byte(stored)) && stored != "" {
		return json.RawMessage(stored)
	}
	return json.RawMessage(fallback)
}

// Serve starts the HTTP server on the given port.
func Serve(db *database.DB, mem *memory.Log, opts Options, port int) error {
	srv, err := New(db, mem, opts)
	if err != nil {
		return err
	}

	addr := fmt.Sprintf("127.0.0.1:%d", port)
	log.Printf("server listening on http://%s", addr)
	return http.ListenAndServe(addr, srv.Handler())
}
