package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/vitea/chispa/internal/api"
	"github.com/vitea/chispa/internal/config"
	"github.com/vitea/chispa/internal/deck"
	"github.com/vitea/chispa/internal/llmcall"
	"github.com/vitea/chispa/internal/observability"
	"github.com/vitea/chispa/internal/providers"
	"github.com/vitea/chispa/internal/reading"
	"github.com/vitea/chispa/internal/server/endpoints"
	"github.com/vitea/chispa/internal/svcctx"
)

// Server is the Papi Chispa HTTP server.
// It owns the reading service and keeps it in step with config reloads.
type Server struct {
	httpServer *http.Server
	handler    http.Handler
	registry   *providers.Registry
	configMgr  *config.Manager
	logger     *slog.Logger

	// services holds all core services for context enrichment
	services *svcctx.Services

	// endpoints registry for HTTP routes
	endpointRegistry *api.Registry

	mu      sync.RWMutex
	running bool
	addr    string
}

// Config holds server configuration.
type Config struct {
	// Host is the address to bind to (default: from app config)
	Host string
	// Port is the port to listen on (default: from app config). "0" picks a free port.
	Port string
	// AllowedOrigins for CORS (default: from app config)
	AllowedOrigins []string
	// ConfigManager provides configuration with hot-reload support
	ConfigManager *config.Manager
	// App is the static configuration used when ConfigManager is nil
	App *config.Config
	// Registry overrides the provider registry built from config
	Registry *providers.Registry
	// Catalog overrides the deck loaded from config
	Catalog *deck.Catalog
	// Instruments supplies tracer and meter providers
	Instruments *observability.Instruments
	// Logger is the structured logger to use
	Logger *slog.Logger
}

// New creates a new Server with the given configuration.
func New(cfg Config) (*Server, error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	app := cfg.App
	if cfg.ConfigManager != nil {
		app = cfg.ConfigManager.Get()
	}
	if app == nil {
		app = config.DefaultConfig()
	}

	if cfg.Host == "" {
		cfg.Host = app.Server.Host
	}
	if cfg.Port == "" {
		cfg.Port = app.Server.Port
	}
	if cfg.AllowedOrigins == nil {
		cfg.AllowedOrigins = app.Server.AllowedOrigins
	}

	catalog := cfg.Catalog
	if catalog == nil {
		var err error
		catalog, err = deck.Load(app.Deck.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to load deck: %w", err)
		}
	}

	// Create provider registry unless one was handed in
	registry := cfg.Registry
	ownRegistry := registry == nil
	if ownRegistry {
		registry = providers.NewRegistry()
		registry.SetLogger(cfg.Logger)
		registry.Reload(app.ToProviderRegistryConfig())
	}

	store := llmcall.NewStore(app.LLMCalls.Capacity)
	selector := reading.NewSelector(catalog,
		reading.WithSpreadBounds(app.Reading.MinSpread, app.Reading.MaxSpread))
	orch := reading.NewOrchestrator(reading.OrchestratorConfig{
		Registry: registry,
		Settings: readingSettings(app),
		Recorder: llmcall.NewRecorder(store),
		Tracer:   cfg.Instruments.Tracer("chispa/reading"),
		Meter:    cfg.Instruments.Meter("chispa/reading"),
		Logger:   cfg.Logger,
	})
	svc := reading.NewService(selector, orch, cfg.Logger)

	// Watch for config changes
	if cfg.ConfigManager != nil {
		cfg.ConfigManager.OnChange(func(c *config.Config) {
			if ownRegistry {
				registry.Reload(c.ToProviderRegistryConfig())
			}
			selector.SetBounds(c.Reading.MinSpread, c.Reading.MaxSpread)
			orch.Update(readingSettings(c))
			cfg.Logger.Info("reading service reloaded from config")
		})
	}

	s := &Server{
		registry:  registry,
		configMgr: cfg.ConfigManager,
		logger:    cfg.Logger,
		services: &svcctx.Services{
			Reading:       svc,
			Registry:      registry,
			LLMCallStore:  store,
			ConfigManager: cfg.ConfigManager,
			Instruments:   cfg.Instruments,
			Logger:        cfg.Logger,
			StartedAt:     time.Now(),
		},
	}

	addr := net.JoinHostPort(cfg.Host, cfg.Port)

	s.endpointRegistry = endpoints.NewRegistry(endpoints.Config{SwaggerHost: swaggerHost(cfg.Host, cfg.Port)})

	// Set up HTTP server
	mux := http.NewServeMux()
	s.endpointRegistry.RegisterRoutes(mux, s.requireInit)
	s.handler = withCORS(cfg.AllowedOrigins, withRequestID(withRequestLog(cfg.Logger, withRecover(cfg.Logger, s.withServices(mux)))))

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}
	s.addr = addr

	return s, nil
}

// readingSettings maps the reading and defaults sections onto orchestrator settings.
func readingSettings(c *config.Config) reading.Settings {
	return reading.Settings{
		TextProvider:   c.Defaults.TextProvider,
		ImageProvider:  c.Defaults.ImageProvider,
		CallTimeout:    c.Reading.CallTimeout,
		RetryAttempts:  c.Reading.RetryAttempts,
		RetryDelay:     c.Reading.RetryDelay,
		MaxConcurrency: c.Reading.MaxConcurrency,
	}
}

// swaggerHost is the host advertised to Swagger UI. Wildcard binds are
// advertised as localhost.
func swaggerHost(host, port string) string {
	switch host {
	case "", "0.0.0.0", "::":
		host = "localhost"
	}
	return net.JoinHostPort(host, port)
}

// Start starts the HTTP server.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.New("server already running")
	}
	s.running = true
	s.mu.Unlock()

	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		s.setNotRunning()
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}
	s.mu.Lock()
	s.addr = ln.Addr().String()
	s.mu.Unlock()

	// Start HTTP server in goroutine
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "addr", ln.Addr().String())
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for context cancellation or error
	select {
	case <-ctx.Done():
		s.logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			s.setNotRunning()
			return fmt.Errorf("HTTP server error: %w", err)
		}
	}

	return s.shutdown()
}

// shutdown performs graceful shutdown of the HTTP server.
func (s *Server) shutdown() error {
	s.logger.Info("shutting down server")

	// Shutdown HTTP server with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
	}

	s.setNotRunning()
	s.logger.Info("server stopped")
	return nil
}

func (s *Server) setNotRunning() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}

// IsRunning returns whether the server is currently running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Addr returns the server's listen address. Once started it is the bound
// address, which resolves port "0".
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.addr
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Registry returns the provider registry.
func (s *Server) Registry() *providers.Registry {
	return s.registry
}

// Reading returns the reading service.
func (s *Server) Reading() *reading.Service {
	return s.services.Reading
}

// LLMCallStore returns the provider call log.
func (s *Server) LLMCallStore() *llmcall.Store {
	return s.services.LLMCallStore
}

// withServices wraps a handler to enrich the request context with services.
func (s *Server) withServices(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if s.services != nil {
			ctx = svcctx.WithServices(ctx, s.services)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireInit is middleware that ensures the reading service is wired.
// Returns 503 Service Unavailable otherwise.
func (s *Server) requireInit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.services == nil || s.services.Reading == nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"error":"server not fully initialized"}`))
			return
		}
		next(w, r)
	}
}
