package server

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/vitea/chispa/internal/api"
	"github.com/vitea/chispa/internal/config"
	"github.com/vitea/chispa/internal/deck"
	"github.com/vitea/chispa/internal/persona"
	"github.com/vitea/chispa/internal/server/endpoints"
	"github.com/vitea/chispa/internal/testutil"
)

func newTestServer(t *testing.T, cfg Config) *Server {
	t.Helper()
	if cfg.App == nil && cfg.ConfigManager == nil {
		cfg.App = testutil.MockConfig()
	}
	if cfg.Logger == nil {
		cfg.Logger = testutil.Logger(t)
	}
	srv, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return srv
}

// TestServer_FullLifecycle starts the server on a free port, talks to it and
// shuts it down through context cancellation.
func TestServer_FullLifecycle(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	srv := newTestServer(t, Config{Port: "0", Registry: testutil.MockRegistry(testutil.NewMock())})

	serverErr := make(chan error, 1)
	serverCtx, serverCancel := context.WithCancel(ctx)
	go func() {
		serverErr <- srv.Start(serverCtx)
	}()

	// Addr resolves once the listener is bound
	var baseURL string
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if addr := srv.Addr(); !strings.HasSuffix(addr, ":0") {
			baseURL = "http://" + addr
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if baseURL == "" {
		serverCancel()
		t.Fatal("server never bound a port")
	}

	if err := testutil.WaitForServer(baseURL, 10*time.Second); err != nil {
		serverCancel()
		t.Fatalf("server did not start: %v", err)
	}

	t.Run("health_endpoint", func(t *testing.T) {
		resp, err := http.Get(baseURL + "/health")
		if err != nil {
			t.Fatalf("health check failed: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Errorf("health status = %d, want %d", resp.StatusCode, http.StatusOK)
		}

		var health endpoints.HealthResponse
		if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if health.Status != "ok" {
			t.Errorf("health.Status = %q, want %q", health.Status, "ok")
		}
	})

	t.Run("reading_then_status", func(t *testing.T) {
		body := strings.NewReader(`{"question":"Will I find love?","spread":3}`)
		resp, err := http.Post(baseURL+"/api/reading", "application/json", body)
		if err != nil {
			t.Fatalf("reading request failed: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("reading status = %d, want %d", resp.StatusCode, http.StatusOK)
		}

		status, err := testutil.GetStatus(baseURL)
		if err != nil {
			t.Fatalf("GetStatus() error = %v", err)
		}
		if status.Server != "running" {
			t.Errorf("status.Server = %q, want %q", status.Server, "running")
		}
		if status.Readings.Cached != 1 {
			t.Errorf("status.Readings.Cached = %d, want 1", status.Readings.Cached)
		}
		if status.Providers.TextProvider != "mock" {
			t.Errorf("status.Providers.TextProvider = %q, want mock", status.Providers.TextProvider)
		}
	})

	t.Run("is_running", func(t *testing.T) {
		if !srv.IsRunning() {
			t.Error("IsRunning() = false, want true")
		}
	})

	t.Run("double_start", func(t *testing.T) {
		if err := srv.Start(ctx); err == nil {
			t.Error("second Start() should return error")
		}
	})

	serverCancel()
	if err := testutil.WaitForShutdown(serverErr, 10*time.Second); err != nil {
		t.Fatalf("server shutdown: %v", err)
	}

	t.Run("not_running_after_shutdown", func(t *testing.T) {
		if srv.IsRunning() {
			t.Error("IsRunning() = true after shutdown, want false")
		}
	})
}

func TestServer_ListenError(t *testing.T) {
	port, err := testutil.FindFreePort()
	if err != nil {
		t.Fatalf("FindFreePort() error = %v", err)
	}

	first := newTestServer(t, Config{Port: port})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- first.Start(ctx) }()
	starter := testutil.StartServer{Cancel: cancel, Done: done}
	t.Cleanup(starter.Stop)

	if err := testutil.WaitForServer("http://127.0.0.1:"+port, 10*time.Second); err != nil {
		t.Fatalf("server did not start: %v", err)
	}

	second := newTestServer(t, Config{Port: port})
	if err := second.Start(context.Background()); err == nil {
		t.Fatal("expected error when the port is taken")
	}
	if second.IsRunning() {
		t.Error("server reports running after a failed start")
	}
}

func TestNew_DeckFromConfig(t *testing.T) {
	deckFile := filepath.Join(t.TempDir(), "deck.yaml")
	if err := os.WriteFile(deckFile, []byte("name: Tiny\ncards: [Sun, Moon, Star]\n"), 0644); err != nil {
		t.Fatal(err)
	}

	app := testutil.MockConfig()
	app.Deck.Path = deckFile
	srv := newTestServer(t, Config{App: app})

	if got := srv.Reading().Catalog().Name(); got != "Tiny" {
		t.Errorf("deck name = %q, want Tiny", got)
	}
	if _, hi := srv.Reading().Selector().Bounds(); hi != 3 {
		t.Errorf("max spread = %d, want 3 (clamped to deck)", hi)
	}

	app.Deck.Path = filepath.Join(t.TempDir(), "missing.yaml")
	if _, err := New(Config{App: app, Logger: testutil.Logger(t)}); err == nil {
		t.Error("expected error for missing deck file")
	}
}

func TestNew_CatalogOverride(t *testing.T) {
	catalog, err := deck.New("Pair", []string{"Yes", "No"})
	if err != nil {
		t.Fatal(err)
	}
	srv := newTestServer(t, Config{Catalog: catalog})
	if got := srv.Reading().Catalog().Len(); got != 2 {
		t.Errorf("catalog size = %d, want 2", got)
	}
}

func TestServer_ConfigReload(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "config.yaml")
	write := func(maxSpread string) {
		t.Helper()
		content := "reading:\n  max_spread: " + maxSpread + "\n" +
			"providers:\n  mock:\n    type: mock\n    enabled: true\n" +
			"defaults:\n  text_provider: mock\n  image_provider: mock\n"
		if err := os.WriteFile(configFile, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}
	}
	write("4")

	mgr, err := config.NewManager(configFile)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	srv := newTestServer(t, Config{ConfigManager: mgr})

	if _, hi := srv.Reading().Selector().Bounds(); hi != 4 {
		t.Fatalf("initial max spread = %d, want 4", hi)
	}
	if names := srv.Registry().ListText(); len(names) != 1 || names[0] != "mock" {
		t.Fatalf("text providers = %v, want [mock]", names)
	}

	mgr.WatchConfig()
	time.Sleep(100 * time.Millisecond)
	write("6")

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if _, hi := srv.Reading().Selector().Bounds(); hi == 6 {
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	_, hi := srv.Reading().Selector().Bounds()
	t.Fatalf("max spread after reload = %d, want 6", hi)
}

func TestRequireInit(t *testing.T) {
	s := &Server{}
	called := false
	h := s.requireInit(func(w http.ResponseWriter, r *http.Request) { called = true })

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/api/deck", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}
	if called {
		t.Error("handler ran before services were wired")
	}
}

func TestCORS(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	tests := []struct {
		name       string
		allowed    []string
		method     string
		origin     string
		wantStatus int
		wantOrigin string
	}{
		{"preflight any origin", nil, http.MethodOptions, "https://a.example", http.StatusNoContent, "*"},
		{"preflight listed origin", []string{"https://a.example"}, http.MethodOptions, "https://a.example", http.StatusNoContent, "https://a.example"},
		{"preflight unlisted origin", []string{"https://a.example"}, http.MethodOptions, "https://b.example", http.StatusForbidden, ""},
		{"simple unlisted origin", []string{"https://a.example"}, http.MethodPost, "https://b.example", http.StatusTeapot, ""},
		{"wildcard", []string{"*"}, http.MethodPost, "https://b.example", http.StatusTeapot, "*"},
		{"no origin", []string{"https://a.example"}, http.MethodPost, "", http.StatusTeapot, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/api/reading", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			if tt.method == http.MethodOptions {
				req.Header.Set("Access-Control-Request-Method", http.MethodPost)
			}
			rec := httptest.NewRecorder()
			withCORS(tt.allowed, next).ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.wantOrigin {
				t.Errorf("Access-Control-Allow-Origin = %q, want %q", got, tt.wantOrigin)
			}
		})
	}
}

func TestRequestLog(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	srv := newTestServer(t, Config{Logger: logger})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/deck", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var entry map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var e map[string]any
		if json.Unmarshal([]byte(line), &e) == nil && e["msg"] == "http request" {
			entry = e
		}
	}
	if entry == nil {
		t.Fatalf("no request log entry in:\n%s", buf.String())
	}
	if entry["path"] != "/api/deck" || entry["status"] != float64(200) {
		t.Errorf("log entry = %v", entry)
	}
	if id := rec.Header().Get("X-Request-Id"); id == "" || entry["request_id"] != id {
		t.Errorf("request_id = %v, header = %q", entry["request_id"], id)
	}
}

func TestRequestID(t *testing.T) {
	srv := newTestServer(t, Config{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-Id", "reading-42")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	if got := rec.Header().Get("X-Request-Id"); got != "reading-42" {
		t.Errorf("X-Request-Id = %q, want caller's id", got)
	}

	first := httptest.NewRecorder()
	srv.Handler().ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/health", nil))
	second := httptest.NewRecorder()
	srv.Handler().ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/health", nil))
	a, b := first.Header().Get("X-Request-Id"), second.Header().Get("X-Request-Id")
	if a == "" || a == b {
		t.Errorf("generated ids = %q, %q; want distinct non-empty", a, b)
	}
}

func TestRecover(t *testing.T) {
	logger := testutil.Logger(t)

	t.Run("panic before response", func(t *testing.T) {
		h := withRecover(logger, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var cards map[string]string
			cards["The Tower"] = "upright"
		}))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/chat", nil))

		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
		}
		var body api.ErrorResponse
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body.Error != persona.InternalErrorMessage {
			t.Errorf("error = %q, want %q", body.Error, persona.InternalErrorMessage)
		}
	})

	t.Run("panic after response started", func(t *testing.T) {
		h := withRecover(logger, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("partial"))
			panic("late")
		}))
		defer func() {
			if v := recover(); v != http.ErrAbortHandler {
				t.Errorf("recovered %v, want http.ErrAbortHandler", v)
			}
		}()
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		t.Error("expected the connection to be aborted")
	})

	t.Run("no panic", func(t *testing.T) {
		h := withRecover(logger, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		}))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if rec.Code != http.StatusTeapot {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusTeapot)
		}
	})
}
