package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds chispa configuration.
// Stored at: ./config.yaml or ~/.chispa/config.yaml
type Config struct {
	Server    ServerCfg              `mapstructure:"server" yaml:"server"`
	Log       LogCfg                 `mapstructure:"log" yaml:"log"`
	Reading   ReadingCfg             `mapstructure:"reading" yaml:"reading"`
	Providers map[string]ProviderCfg `mapstructure:"providers" yaml:"providers"`
	Defaults  DefaultsCfg            `mapstructure:"defaults" yaml:"defaults"`
	Deck      DeckCfg                `mapstructure:"deck" yaml:"deck"`
	Tracing   TracingCfg             `mapstructure:"tracing" yaml:"tracing"`
	LLMCalls  LLMCallsCfg            `mapstructure:"llmcalls" yaml:"llmcalls"`
}

// ServerCfg configures the HTTP listener.
type ServerCfg struct {
	Host string `mapstructure:"host" yaml:"host"`
	Port string `mapstructure:"port" yaml:"port"`
	// AllowedOrigins for CORS; empty allows any origin.
	AllowedOrigins []string `mapstructure:"allowed_origins" yaml:"allowed_origins"`
}

// LogCfg configures the process logger.
type LogCfg struct {
	Level  string `mapstructure:"level" yaml:"level"`   // debug, info, warn, error
	Format string `mapstructure:"format" yaml:"format"` // text, json
}

// ReadingCfg bounds readings and provider calls.
type ReadingCfg struct {
	MinSpread      int           `mapstructure:"min_spread" yaml:"min_spread"`
	MaxSpread      int           `mapstructure:"max_spread" yaml:"max_spread"` // 0 = deck size
	CallTimeout    time.Duration `mapstructure:"call_timeout" yaml:"call_timeout"`
	RetryAttempts  int           `mapstructure:"retry_attempts" yaml:"retry_attempts"` // total tries, 1 = no retry
	RetryDelay     time.Duration `mapstructure:"retry_delay" yaml:"retry_delay"`
	MaxConcurrency int           `mapstructure:"max_concurrency" yaml:"max_concurrency"` // cards at once, 0 = unlimited
}

// ProviderCfg configures a text/image provider.
type ProviderCfg struct {
	Type       string        `mapstructure:"type" yaml:"type"`               // "openai", "mock"
	Model      string        `mapstructure:"model" yaml:"model"`             // Chat model
	ImageModel string        `mapstructure:"image_model" yaml:"image_model"` // Image model
	ImageSize  string        `mapstructure:"image_size" yaml:"image_size"`
	APIKey     string        `mapstructure:"api_key" yaml:"api_key"` // API key (supports ${ENV_VAR} syntax)
	BaseURL    string        `mapstructure:"base_url" yaml:"base_url,omitempty"`
	Timeout    time.Duration `mapstructure:"timeout" yaml:"timeout"`
	MaxRetries int           `mapstructure:"max_retries" yaml:"max_retries"`
	RateLimit  int           `mapstructure:"rate_limit" yaml:"rate_limit"` // requests per minute, 0 = unlimited
	Enabled    bool          `mapstructure:"enabled" yaml:"enabled"`
}

// DefaultsCfg selects which provider serves each field.
type DefaultsCfg struct {
	TextProvider  string `mapstructure:"text_provider" yaml:"text_provider"`
	ImageProvider string `mapstructure:"image_provider" yaml:"image_provider"`
}

// DeckCfg points at an optional deck definition file.
type DeckCfg struct {
	Path string `mapstructure:"path" yaml:"path"` // empty = built-in Rider-Waite deck
}

// TracingCfg selects the trace exporter.
type TracingCfg struct {
	Exporter string `mapstructure:"exporter" yaml:"exporter"` // none, stdout, otlp
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint,omitempty"`
}

// LLMCallsCfg sizes the in-memory provider call log.
type LLMCallsCfg struct {
	Capacity int `mapstructure:"capacity" yaml:"capacity"`
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerCfg{
			Host: "0.0.0.0",
			Port: "8000",
		},
		Log: LogCfg{
			Level:  "info",
			Format: "text",
		},
		Reading: ReadingCfg{
			MinSpread:     1,
			MaxSpread:     10,
			CallTimeout:   60 * time.Second,
			RetryAttempts: 1,
			RetryDelay:    500 * time.Millisecond,
		},
		Providers: map[string]ProviderCfg{
			"openai": {
				Type:       "openai",
				Model:      "gpt-4",
				ImageModel: "dall-e-3",
				ImageSize:  "1024x1024",
				APIKey:     "${OPENAI_API_KEY}",
				Timeout:    120 * time.Second,
				MaxRetries: 2,
				Enabled:    true,
			},
			"mock": {
				Type:    "mock",
				Enabled: false,
			},
		},
		Defaults: DefaultsCfg{
			TextProvider:  "openai",
			ImageProvider: "openai",
		},
		Tracing: TracingCfg{
			Exporter: "none",
		},
		LLMCalls: LLMCallsCfg{
			Capacity: 500,
		},
	}
}

// Validate checks values that cannot be clamped into a usable range.
func (c *Config) Validate() error {
	var errs []error
	if c.Reading.MinSpread < 0 {
		errs = append(errs, fmt.Errorf("reading.min_spread must be >= 0, got %d", c.Reading.MinSpread))
	}
	if c.Reading.MaxSpread < 0 {
		errs = append(errs, fmt.Errorf("reading.max_spread must be >= 0, got %d", c.Reading.MaxSpread))
	}
	if c.Reading.MaxSpread > 0 && c.Reading.MinSpread > c.Reading.MaxSpread {
		errs = append(errs, fmt.Errorf("reading.min_spread %d exceeds reading.max_spread %d",
			c.Reading.MinSpread, c.Reading.MaxSpread))
	}
	if c.Reading.RetryAttempts < 0 {
		errs = append(errs, fmt.Errorf("reading.retry_attempts must be >= 0, got %d", c.Reading.RetryAttempts))
	}
	switch strings.ToLower(c.Tracing.Exporter) {
	case "", "none", "stdout", "otlp":
	default:
		errs = append(errs, fmt.Errorf("tracing.exporter must be none, stdout or otlp, got %q", c.Tracing.Exporter))
	}
	for name, p := range c.Providers {
		if p.Type == "" {
			errs = append(errs, fmt.Errorf("providers.%s.type is required", name))
		}
		if p.RateLimit < 0 {
			errs = append(errs, fmt.Errorf("providers.%s.rate_limit must be >= 0, got %d", name, p.RateLimit))
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
}

// GetProvider returns a provider config by name.
func (c *Config) GetProvider(name string) (ProviderCfg, bool) {
	cfg, ok := c.Providers[name]
	return cfg, ok
}

// EnabledProviders returns all enabled providers.
func (c *Config) EnabledProviders() map[string]ProviderCfg {
	result := make(map[string]ProviderCfg)
	for name, cfg := range c.Providers {
		if cfg.Enabled {
			result[name] = cfg
		}
	}
	return result
}

// Addr returns host:port for the HTTP listener.
func (c *Config) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}
