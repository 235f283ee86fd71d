package api

import (
	"net/http"

	"github.com/spf13/cobra"
)

// Registry holds the endpoints a server exposes.
type Registry struct {
	endpoints []Endpoint
}

// NewRegistry returns a registry holding eps in order.
func NewRegistry(eps ...Endpoint) *Registry {
	r := &Registry{}
	for _, ep := range eps {
		r.Register(ep)
	}
	return r
}

// Register adds an endpoint.
func (r *Registry) Register(ep Endpoint) {
	r.endpoints = append(r.endpoints, ep)
}

// Endpoints returns the registered endpoints in registration order.
func (r *Registry) Endpoints() []Endpoint {
	return r.endpoints
}

// RegisterRoutes mounts every endpoint on mux using Go 1.22 method patterns.
// Handlers of endpoints that require init are wrapped by initMiddleware.
func (r *Registry) RegisterRoutes(mux *http.ServeMux, initMiddleware func(http.HandlerFunc) http.HandlerFunc) {
	for _, ep := range r.endpoints {
		method, path, handler := ep.Route()
		if ep.RequiresInit() {
			handler = initMiddleware(handler)
		}
		mux.HandleFunc(method+" "+path, handler)
	}
}

// BuildCommands returns the `api` command with one subcommand per endpoint.
// Endpoints implementing Grouped are nested under their group; endpoints
// without a command are skipped.
func (r *Registry) BuildCommands(getServerURL func() string) *cobra.Command {
	apiCmd := &cobra.Command{
		Use:   "api",
		Short: "Commands that call the running server",
		Long: `API commands call the running Chispa server via HTTP.

These commands require a running server (chispa serve).
Use --server to specify a custom server URL.

Examples:
  chispa api health                                   # Check server health
  chispa api reading new "Will I find love?"          # Full three-card reading
  chispa api reading text "Will I find love?" 1       # Narrative for card 1
  chispa api chat "The Lovers" "Will he call me?"     # Follow-up question
  chispa api llmcalls list --kind narrative           # Recent provider calls`,
	}

	groups := make(map[string]*cobra.Command)
	for _, ep := range r.endpoints {
		cmd := ep.Command(getServerURL)
		if cmd == nil {
			continue
		}
		g, ok := ep.(Grouped)
		if !ok {
			apiCmd.AddCommand(cmd)
			continue
		}
		group := g.CommandGroup()
		parent, exists := groups[group.Name]
		if !exists {
			parent = &cobra.Command{Use: group.Name, Short: group.Short}
			groups[group.Name] = parent
			apiCmd.AddCommand(parent)
		}
		parent.AddCommand(cmd)
	}

	return apiCmd
}
