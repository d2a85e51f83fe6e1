package graveyard

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"pkt.systems/pslog"
)

// Server implements the dashboard backend: it owns the authoritative feed,
// probes the roster, and answers the suggestion/replacement API the
// interaction controller talks to.
type Server struct {
	mu         sync.Mutex
	rosterPath string
	prober     *Prober
	history    *History
	feed       *StatusFeed
	staticDir  string
	log        pslog.Logger
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithHistory records every probe run in the given store.
func WithHistory(h *History) ServerOption {
	return func(s *Server) {
		s.history = h
	}
}

// WithStaticDir serves static assets from dir at the root path.
func WithStaticDir(dir string) ServerOption {
	return func(s *Server) {
		s.staticDir = dir
	}
}

// WithServerLogger sets the diagnostic logger.
func WithServerLogger(log pslog.Logger) ServerOption {
	return func(s *Server) {
		s.log = log
	}
}

// NewServer creates a backend over the roster at rosterPath.
func NewServer(rosterPath string, prober *Prober, opts ...ServerOption) *Server {
	s := &Server{
		rosterPath: rosterPath,
		prober:     prober,
		log:        pslog.Ctx(context.Background()),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register mounts the API routes on an existing mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/status", s.handleStatus)
	mux.HandleFunc("/api/models", s.handleModels)
	mux.HandleFunc("/api/suggest-replacement", s.handleSuggest)
	mux.HandleFunc("/api/replace-model", s.handleReplace)
	mux.HandleFunc("/api/refresh", s.handleRefresh)
}

// Handler returns the HTTP handler for embedding in existing servers.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.Register(mux)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	if s.staticDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(s.staticDir)))
	}
	return withRequestLogging(mux, s.log)
}

// Probe runs a full roster probe and installs the result as the current
// feed.
func (s *Server) Probe(ctx context.Context) (*StatusFeed, error) {
	roster, err := LoadRoster(s.rosterPath)
	if err != nil {
		return nil, err
	}
	feed := NewStatusFeed(s.prober.ProbeAll(ctx, roster))

	s.mu.Lock()
	s.feed = feed
	s.mu.Unlock()

	s.record(feed)
	return feed, nil
}

// Fetch implements FeedSource for in-process wiring: the first call probes,
// later calls return the current snapshot.
func (s *Server) Fetch(ctx context.Context) (*StatusFeed, error) {
	s.mu.Lock()
	feed := s.feed
	s.mu.Unlock()
	if feed != nil {
		return feed, nil
	}
	return s.Probe(ctx)
}

// Refresh implements Refresher for in-process wiring.
func (s *Server) Refresh(ctx context.Context) (*StatusFeed, error) {
	return s.Probe(ctx)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	feed, err := s.Fetch(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, feed)
}

func (s *Server) handleModels(w http.ResponseWriter, r *http.Request) {
	roster, err := LoadRoster(s.rosterPath)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	feed, err := s.Fetch(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	alive := make(map[string]bool)
	for _, it := range feed.Items {
		if it.Severity == SeverityOK && it.Model != "" {
			alive[it.Model] = true
		}
	}

	type tierModel struct {
		Model string `json:"model"`
		Alive bool   `json:"alive"`
	}
	tiers := make(map[string][]tierModel)
	for tier, models := range ModelTiers(roster) {
		entries := make([]tierModel, 0, len(models))
		for _, m := range models {
			entries = append(entries, tierModel{Model: m, Alive: alive[m]})
		}
		tiers[tier] = entries
	}
	writeJSON(w, map[string]any{"tiers": tiers})
}

func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	failedModel := r.URL.Query().Get("model")
	if failedModel == "" {
		writeError(w, http.StatusBadRequest, "Missing 'model' query parameter")
		return
	}
	roster, err := LoadRoster(s.rosterPath)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	feed, err := s.Fetch(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	suggestion := SuggestReplacement(failedModel, ModelTiers(roster), feed.Items)
	writeJSON(w, struct {
		FailedModel string `json:"failed_model"`
		Suggestion  string `json:"suggestion,omitempty"`
	}{FailedModel: failedModel, Suggestion: suggestion})
}

func (s *Server) handleReplace(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}
	var body struct {
		AgentID  string `json:"agent_id"`
		NewModel string `json:"new_model"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if body.AgentID == "" || body.NewModel == "" {
		writeError(w, http.StatusBadRequest, "Missing 'agent_id' or 'new_model'")
		return
	}
	itemType, name, err := ParseItemID(body.AgentID)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	oldModel, err := ReplaceRosterModel(s.rosterPath, body.AgentID, body.NewModel)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	newStatus := s.prober.ProbeOne(r.Context(), RosterEntry{
		Name:  name,
		Type:  itemType,
		Model: body.NewModel,
	})

	s.mu.Lock()
	if s.feed != nil {
		if !s.feed.Replace(newStatus) {
			s.feed.Items = append(s.feed.Items, newStatus)
			s.feed.GeneratedAt = time.Now().Format(time.RFC3339)
		}
	}
	feed := s.feed
	s.mu.Unlock()

	if feed != nil {
		s.record(feed)
	}
	s.log.Info("model replaced", "agent", body.AgentID, "old", oldModel, "new", body.NewModel)

	writeJSON(w, ReplaceResult{
		OK:        true,
		AgentID:   body.AgentID,
		OldModel:  oldModel,
		NewModel:  body.NewModel,
		NewStatus: &newStatus,
	})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}
	feed, err := s.Probe(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, feed)
}

func (s *Server) record(feed *StatusFeed) {
	if s.history == nil {
		return
	}
	if _, err := s.history.Append(feed); err != nil {
		s.log.Warn("history append failed", "err", err)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

type responseRecorder struct {
	status int
	writer http.ResponseWriter
}

func (r *responseRecorder) Header() http.Header {
	return r.writer.Header()
}

func (r *responseRecorder) WriteHeader(status int) {
	r.status = status
	r.writer.WriteHeader(status)
}

func (r *responseRecorder) Write(p []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.writer.Write(p)
}

func withRequestLogging(next http.Handler, log pslog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &responseRecorder{writer: w}
		next.ServeHTTP(rec, r)
		status := rec.status
		if status == 0 {
			status = http.StatusOK
		}
		log.Debug("http request",
			"method", r.Method, "path", r.URL.Path,
			"status", status, "duration", time.Since(start))
	})
}
