package providers

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"
)

// Registry holds references to text and image clients.
// It supports config-driven instantiation, hot-reload, and provides thread-safe access.
type Registry struct {
	mu           sync.RWMutex
	textClients  map[string]TextClient
	imageClients map[string]ImageClient
	configs      map[string]ProviderConfig
	limiters     map[string]*RateLimiter
	logger       *slog.Logger
}

// NewRegistry creates a new empty provider registry.
func NewRegistry() *Registry {
	return &Registry{
		textClients:  make(map[string]TextClient),
		imageClients: make(map[string]ImageClient),
		configs:      make(map[string]ProviderConfig),
		limiters:     make(map[string]*RateLimiter),
		logger:       slog.Default(),
	}
}

// SetLogger sets the logger for the registry.
func (r *Registry) SetLogger(logger *slog.Logger) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logger = logger
}

// RegisterText registers a text client by name.
func (r *Registry) RegisterText(name string, client TextClient) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.textClients[name] = client
	if r.logger != nil {
		r.logger.Info("registered text client", "name", name)
	}
}

// RegisterImage registers an image client by name.
func (r *Registry) RegisterImage(name string, client ImageClient) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.imageClients[name] = client
	if r.logger != nil {
		r.logger.Info("registered image client", "name", name)
	}
}

// Unregister removes both the text and image client registered under name.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.textClients, name)
	delete(r.imageClients, name)
	delete(r.configs, name)
	delete(r.limiters, name)
	if r.logger != nil {
		r.logger.Info("unregistered provider", "name", name)
	}
}

// SetLimiter attaches a rate limiter to the provider registered under name.
// A nil limiter removes it.
func (r *Registry) SetLimiter(name string, l *RateLimiter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if l == nil {
		delete(r.limiters, name)
		return
	}
	r.limiters[name] = l
}

// Limiter returns the rate limiter for a provider, or nil when calls to it
// are not limited.
func (r *Registry) Limiter(name string) *RateLimiter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.limiters[name]
}

// LimiterStatus reports every provider rate limiter by name.
func (r *Registry) LimiterStatus() map[string]RateLimiterStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.limiters) == 0 {
		return nil
	}
	out := make(map[string]RateLimiterStatus, len(r.limiters))
	for name, l := range r.limiters {
		out[name] = l.Status()
	}
	return out
}

// GetText returns a text client by name.
func (r *Registry) GetText(name string) (TextClient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	client, ok := r.textClients[name]
	if !ok {
		return nil, fmt.Errorf("text client not found: %s", name)
	}
	return client, nil
}

// GetImage returns an image client by name.
func (r *Registry) GetImage(name string) (ImageClient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	client, ok := r.imageClients[name]
	if !ok {
		return nil, fmt.Errorf("image client not found: %s", name)
	}
	return client, nil
}

// ListText returns all registered text client names, sorted.
func (r *Registry) ListText() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.textClients))
	for name := range r.textClients {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ListImage returns all registered image client names, sorted.
func (r *Registry) ListImage() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.imageClients))
	for name := range r.imageClients {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RegistryConfig defines the providers to instantiate from config.
type RegistryConfig struct {
	Providers map[string]ProviderConfig
}

// ProviderConfig matches config.ProviderCfg with resolved API key.
type ProviderConfig struct {
	Type       string // "openai" or "mock"
	Model      string // Chat model
	ImageModel string // Image model
	ImageSize  string
	APIKey     string // Resolved API key
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
	RateLimit  int // Requests per minute; 0 disables client-side limiting
	Enabled    bool
}

// NewRegistryFromConfig creates a registry with providers based on configuration.
// Only enabled providers with usable credentials will be registered.
func NewRegistryFromConfig(cfg RegistryConfig) *Registry {
	r := NewRegistry()
	r.Reload(cfg)
	return r
}

// Reload updates the registry based on new configuration.
// Providers that are no longer configured will be unregistered.
// Providers with changed settings will be re-registered.
func (r *Registry) Reload(cfg RegistryConfig) {
	r.mu.Lock()
	defer r.mu.Unlock()

	want := make(map[string]bool)
	for name, provCfg := range cfg.Providers {
		if !usable(provCfg) {
			continue
		}
		want[name] = true

		existing, hasExisting := r.configs[name]
		if hasExisting && existing == provCfg {
			continue
		}

		text, image := createClients(provCfg)
		if text == nil && image == nil {
			if r.logger != nil {
				r.logger.Warn("unknown provider type", "name", name, "type", provCfg.Type)
			}
			delete(want, name)
			continue
		}
		r.textClients[name] = text
		r.imageClients[name] = image
		r.configs[name] = provCfg
		if provCfg.RateLimit > 0 {
			r.limiters[name] = NewRateLimiter(provCfg.RateLimit)
		} else {
			delete(r.limiters, name)
		}
		if r.logger != nil {
			if hasExisting {
				r.logger.Info("updated provider", "name", name, "type", provCfg.Type)
			} else {
				r.logger.Info("registered provider", "name", name, "type", provCfg.Type)
			}
		}
	}

	// Remove config-managed providers that are no longer configured
	for name := range r.configs {
		if !want[name] {
			delete(r.textClients, name)
			delete(r.imageClients, name)
			delete(r.configs, name)
			delete(r.limiters, name)
			if r.logger != nil {
				r.logger.Info("unregistered provider", "name", name)
			}
		}
	}
}

func usable(cfg ProviderConfig) bool {
	if !cfg.Enabled {
		return false
	}
	return cfg.Type == MockClientName || cfg.APIKey != ""
}

// createClients creates the clients for a provider type.
// Both OpenAI and the mock serve text and images from one client.
func createClients(cfg ProviderConfig) (TextClient, ImageClient) {
	switch cfg.Type {
	case OpenAIName:
		c := NewOpenAIClient(OpenAIConfig{
			APIKey:     cfg.APIKey,
			Model:      cfg.Model,
			ImageModel: cfg.ImageModel,
			ImageSize:  cfg.ImageSize,
			MaxRetries: cfg.MaxRetries,
			Timeout:    cfg.Timeout,
			BaseURL:    cfg.BaseURL,
		})
		return c, c
	case MockClientName:
		c := NewMockClient()
		return c, c
	default:
		return nil, nil
	}
}
