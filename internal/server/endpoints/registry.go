package endpoints

import (
	"github.com/vitea/chispa/internal/api"
)

// Config holds dependencies needed by some endpoints.
type Config struct {
	// SwaggerHost is the host advertised in /swagger.json.
	SwaggerHost string
}

// All returns every endpoint in the order the CLI lists them.
func All(cfg Config) []api.Endpoint {
	return []api.Endpoint{
		&HealthEndpoint{},
		&ReadyEndpoint{},
		&StatusEndpoint{},

		&ReadingEndpoint{},
		&CardEndpoint{},
		&CardTextEndpoint{},
		&CardImageEndpoint{},
		&ImageEndpoint{},
		&ChatEndpoint{},
		&DeckEndpoint{},

		&ListLLMCallsEndpoint{},
		&GetLLMCallEndpoint{},
		&LLMCallCountsEndpoint{},

		&SwaggerEndpoint{Host: cfg.SwaggerHost},
		&SwaggerUIEndpoint{},
		&FaviconEndpoint{},
	}
}

// NewRegistry returns an api.Registry holding All(cfg).
func NewRegistry(cfg Config) *api.Registry {
	return api.NewRegistry(All(cfg)...)
}

// readingGroup nests a command under `chispa api reading`.
type readingGroup struct{}

func (readingGroup) CommandGroup() api.Group {
	return api.Group{Name: "reading", Short: "Readings and single cards"}
}

// llmcallGroup nests a command under `chispa api llmcalls`.
type llmcallGroup struct{}

func (llmcallGroup) CommandGroup() api.Group {
	return api.Group{Name: "llmcalls", Short: "Provider call history"}
}
