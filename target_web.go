package graveyard

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
)

// WebTarget serves the dashboard over HTTP: the scene as JSON per client
// viewport, the raw feed, and optionally static frontend assets.
type WebTarget struct {
	addr    string
	server  *http.Server
	feed    *StatusFeed
	mu      sync.RWMutex
	webDir  string
	backend *Server
	started bool
}

// WebOption configures a WebTarget.
type WebOption func(*WebTarget)

// WithWebDir sets the directory containing static web assets.
func WithWebDir(dir string) WebOption {
	return func(t *WebTarget) {
		t.webDir = dir
	}
}

// WithBackend mounts the backend API routes on the same listener, so one
// address serves both the scene and the suggestion/replacement API.
func WithBackend(s *Server) WebOption {
	return func(t *WebTarget) {
		t.backend = s
	}
}

// NewWebTarget creates a target that serves the dashboard via HTTP.
func NewWebTarget(addr string, opts ...WebOption) (*WebTarget, error) {
	target := &WebTarget{
		addr: addr,
	}
	for _, opt := range opts {
		opt(target)
	}
	return target, nil
}

// Name implements Target.
func (t *WebTarget) Name() string {
	return fmt.Sprintf("WebTarget(%s)", t.addr)
}

// Update implements Target.
func (t *WebTarget) Update(ctx context.Context, feed *StatusFeed) error {
	t.mu.Lock()
	t.feed = feed
	wasStarted := t.started
	t.mu.Unlock()

	// Auto-start server on first update
	if !wasStarted {
		return t.start()
	}
	return nil
}

// Handler returns the HTTP handler for embedding in existing servers.
func (t *WebTarget) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/scene", t.handleScene)
	mux.HandleFunc("/api/feed", t.handleFeed)
	if t.backend != nil {
		t.backend.Register(mux)
	}

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	if t.webDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(t.webDir)))
	} else {
		mux.HandleFunc("/", t.handleIndex)
	}

	return mux
}

// DefaultWebViewport is assumed when a scene request carries no dimensions.
var DefaultWebViewport = Viewport{W: 1280, H: 800}

func (t *WebTarget) handleScene(w http.ResponseWriter, r *http.Request) {
	t.mu.RLock()
	feed := t.feed
	t.mu.RUnlock()

	vp := DefaultWebViewport
	if pw, err := strconv.Atoi(r.URL.Query().Get("w")); err == nil && pw > 0 {
		vp.W = pw
	}
	if ph, err := strconv.Atoi(r.URL.Query().Get("h")); err == nil && ph > 0 {
		vp.H = ph
	}

	scene := BuildScene(feed, ResolveScale(vp.W, vp.H), vp)
	writeJSON(w, SceneToJSON(scene))
}

func (t *WebTarget) handleFeed(w http.ResponseWriter, r *http.Request) {
	t.mu.RLock()
	feed := t.feed
	t.mu.RUnlock()

	if feed == nil {
		writeJSON(w, StatusFeed{SchemaVersion: CurrentSchemaVersion})
		return
	}
	writeJSON(w, feed)
}

func (t *WebTarget) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	t.mu.RLock()
	feed := t.feed
	t.mu.RUnlock()

	w.Header().Set("Content-Type", "text/html")

	itemCount := 0
	generatedAt := "never"
	if feed != nil {
		itemCount = len(feed.Items)
		generatedAt = feed.GeneratedAt
	}

	html := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <title>graveyard dashboard</title>
    <style>
        body { font-family: system-ui; background: #101018; color: #eee; padding: 2rem; }
        h1 { color: #8fda5a; }
        .info { background: #1c1c2c; padding: 1rem; border-radius: 8px; margin: 1rem 0; }
        a { color: #60a5fa; }
    </style>
</head>
<body>
    <h1>graveyard dashboard</h1>
    <div class="info">
        <p><strong>Status:</strong> Running</p>
        <p><strong>Roster items:</strong> %d</p>
        <p><strong>Last probe:</strong> %s</p>
        <p><strong>Scene API:</strong> <a href="/api/scene?w=1280&amp;h=800">/api/scene</a></p>
        <p><strong>Feed API:</strong> <a href="/api/feed">/api/feed</a></p>
    </div>
    <p>For the full interactive visualization, configure WebTarget with a web assets directory.</p>
</body>
</html>`, itemCount, generatedAt)

	w.Write([]byte(html))
}

func (t *WebTarget) start() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.started {
		return nil
	}

	t.server = &http.Server{
		Addr:    t.addr,
		Handler: t.Handler(),
	}

	go func() {
		t.server.ListenAndServe()
	}()

	t.started = true
	return nil
}

// Close implements Target.
func (t *WebTarget) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.server != nil {
		return t.server.Shutdown(context.Background())
	}
	return nil
}

// URL returns the URL where the web target is serving.
func (t *WebTarget) URL() string {
	return "http://localhost" + t.addr
}
