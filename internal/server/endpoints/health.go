package endpoints

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/vitea/chispa/internal/api"
	"github.com/vitea/chispa/internal/persona"
	"github.com/vitea/chispa/internal/providers"
	"github.com/vitea/chispa/internal/reading"
	"github.com/vitea/chispa/internal/svcctx"
)

// readyProbeTimeout bounds the provider health probe behind /ready.
const readyProbeTimeout = 10 * time.Second

// HealthResponse is the response for health check endpoints.
type HealthResponse struct {
	Status   string `json:"status"`
	Message  string `json:"message,omitempty"`
	Provider string `json:"provider,omitempty"`
	Error    string `json:"error,omitempty"`
}

// HealthEndpoint handles GET /health.
type HealthEndpoint struct{}

func (e *HealthEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/health", e.handler
}

func (e *HealthEndpoint) RequiresInit() bool { return false }

// handler godoc
//
//	@Summary		Health check
//	@Description	Liveness probe with Papi's welcome
//	@Tags			health
//	@Produce		json
//	@Success		200	{object}	HealthResponse
//	@Router			/health [get]
func (e *HealthEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Message: persona.Welcome})
}

func (e *HealthEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check server health",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp HealthResponse
			if err := client.Get(cmd.Context(), "/health", &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// ReadyEndpoint handles GET /ready.
type ReadyEndpoint struct{}

func (e *ReadyEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/ready", e.handler
}

func (e *ReadyEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Readiness check
//	@Description	Probes the configured narrative provider
//	@Tags			health
//	@Produce		json
//	@Success		200	{object}	HealthResponse
//	@Failure		503	{object}	HealthResponse
//	@Router			/ready [get]
func (e *ReadyEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	svc := svcctx.ReadingFrom(r.Context())
	registry := svcctx.RegistryFrom(r.Context())
	name := svc.Orchestrator().Settings().TextProvider
	resp := HealthResponse{Status: "ok", Message: persona.Welcome, Provider: name}

	if err := probe(r.Context(), registry, name); err != nil {
		svcctx.LoggerFrom(r.Context()).Warn("readiness probe failed", "provider", name, "error", err)
		resp.Status = "degraded"
		resp.Message = persona.ProviderErrorMessage
		resp.Error = err.Error()
		writeJSON(w, http.StatusServiceUnavailable, resp)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// probe checks that the named text provider is registered and, when it
// supports it, reachable.
func probe(ctx context.Context, registry *providers.Registry, name string) error {
	if registry == nil {
		return fmt.Errorf("provider registry not available")
	}
	client, err := registry.GetText(name)
	if err != nil {
		return err
	}
	checker, ok := client.(providers.HealthChecker)
	if !ok {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, readyProbeTimeout)
	defer cancel()
	return checker.HealthCheck(ctx)
}

func (e *ReadyEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "ready",
		Short: "Check server readiness (probes the narrative provider)",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp HealthResponse
			if err := client.Get(cmd.Context(), "/ready", &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// StatusResponse is the detailed status response.
type StatusResponse struct {
	Server    string           `json:"server"`
	Uptime    string           `json:"uptime"`
	Providers ProvidersStatus  `json:"providers"`
	Deck      DeckStatus       `json:"deck"`
	Readings  ReadingsStatus   `json:"readings"`
	LLMCalls  map[string]int   `json:"llm_calls"`
	Degraded  map[string]int64 `json:"degraded,omitempty"` // fields that fell back, by field
}

// ProvidersStatus shows registered providers and which serve each field.
type ProvidersStatus struct {
	Text          []string                               `json:"text"`
	Image         []string                               `json:"image"`
	TextProvider  string                                 `json:"text_provider"`
	ImageProvider string                                 `json:"image_provider"`
	RateLimits    map[string]providers.RateLimiterStatus `json:"rate_limits,omitempty"`
}

// DeckStatus describes the loaded catalog.
type DeckStatus struct {
	Name  string `json:"name"`
	Cards int    `json:"cards"`
}

// ReadingsStatus describes the reading cache and spread bounds.
type ReadingsStatus struct {
	Cached    int `json:"cached"`
	MinSpread int `json:"min_spread"`
	MaxSpread int `json:"max_spread"`
}

// StatusEndpoint handles GET /status.
type StatusEndpoint struct{}

func (e *StatusEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/status", e.handler
}

func (e *StatusEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Server status
//	@Description	Providers, deck, reading cache size and call counts
//	@Tags			health
//	@Produce		json
//	@Success		200	{object}	StatusResponse
//	@Router			/status [get]
func (e *StatusEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	services := svcctx.ServicesFrom(r.Context())
	svc := services.Reading

	resp := StatusResponse{Server: "running"}
	if !services.StartedAt.IsZero() {
		resp.Uptime = time.Since(services.StartedAt).Round(time.Second).String()
	}

	if services.Registry != nil {
		resp.Providers.Text = services.Registry.ListText()
		resp.Providers.Image = services.Registry.ListImage()
		resp.Providers.RateLimits = services.Registry.LimiterStatus()
	}
	settings := svc.Orchestrator().Settings()
	resp.Providers.TextProvider = settings.TextProvider
	resp.Providers.ImageProvider = settings.ImageProvider

	catalog := svc.Catalog()
	resp.Deck = DeckStatus{Name: catalog.Name(), Cards: catalog.Len()}

	lo, hi := svc.Selector().Bounds()
	resp.Readings = ReadingsStatus{Cached: svc.Selector().Len(), MinSpread: lo, MaxSpread: hi}

	if services.LLMCallStore != nil {
		resp.LLMCalls = services.LLMCallStore.CountByKind()
	}

	degraded, err := services.Instruments.CounterTotals(r.Context(), reading.DegradedFieldsMetric, "field")
	if err != nil {
		svcctx.LoggerFrom(r.Context()).Warn("failed to collect degraded field counts", "error", err)
	}
	resp.Degraded = degraded

	writeJSON(w, http.StatusOK, resp)
}

func (e *StatusEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Get detailed server status",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp StatusResponse
			if err := client.Get(cmd.Context(), "/status", &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// ErrorResponse is a standard error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}
