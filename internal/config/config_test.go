package config

import (
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	configFile := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configFile, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return configFile
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Providers["openai"].APIKey != "${OPENAI_API_KEY}" {
		t.Error("expected openai API key placeholder")
	}
	if cfg.Reading.MaxSpread != 10 || cfg.Reading.RetryAttempts != 1 {
		t.Errorf("unexpected reading defaults: %+v", cfg.Reading)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config is invalid: %v", err)
	}
}

func TestNewManager_DefaultsMatchDefaultConfig(t *testing.T) {
	mgr, err := NewManager(writeConfig(t, "{}\n"))
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}

	if diff := cmp.Diff(DefaultConfig(), mgr.Get(), cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("loaded defaults differ from DefaultConfig (-want +got):\n%s", diff)
	}
}

func TestResolveEnvVars(t *testing.T) {
	t.Run("resolves environment variable", func(t *testing.T) {
		t.Setenv("TEST_API_KEY", "secret123")

		result := ResolveEnvVars("${TEST_API_KEY}")
		if result != "secret123" {
			t.Errorf("expected secret123, got %s", result)
		}
	})

	t.Run("returns empty for missing env var", func(t *testing.T) {
		result := ResolveEnvVars("${DEFINITELY_NOT_SET_12345}")
		if result != "" {
			t.Errorf("expected empty string, got %s", result)
		}
	})

	t.Run("leaves literal values unchanged", func(t *testing.T) {
		result := ResolveEnvVars("literal-value")
		if result != "literal-value" {
			t.Errorf("expected literal-value, got %s", result)
		}
	})
}

func TestNewManager(t *testing.T) {
	t.Run("loads from config file", func(t *testing.T) {
		configFile := writeConfig(t, `
server:
  port: "9100"
reading:
  max_spread: 5
  call_timeout: 15s
providers:
  mock:
    type: mock
    enabled: true
defaults:
  text_provider: mock
`)

		mgr, err := NewManager(configFile)
		if err != nil {
			t.Fatalf("failed to create manager: %v", err)
		}

		cfg := mgr.Get()
		if cfg.Server.Port != "9100" {
			t.Errorf("expected port 9100, got %s", cfg.Server.Port)
		}
		if cfg.Server.Host != "0.0.0.0" {
			t.Errorf("expected default host, got %s", cfg.Server.Host)
		}
		if cfg.Reading.MaxSpread != 5 || cfg.Reading.CallTimeout != 15*time.Second {
			t.Errorf("unexpected reading config: %+v", cfg.Reading)
		}
		if cfg.Reading.RetryDelay != 500*time.Millisecond {
			t.Errorf("expected default retry delay, got %v", cfg.Reading.RetryDelay)
		}
		if !cfg.Providers["mock"].Enabled {
			t.Error("expected mock provider enabled")
		}
		if cfg.Providers["openai"].Model != "gpt-4" {
			t.Error("expected default openai provider to survive a partial providers section")
		}
		if cfg.Defaults.TextProvider != "mock" || cfg.Defaults.ImageProvider != "openai" {
			t.Errorf("unexpected defaults: %+v", cfg.Defaults)
		}
		if mgr.ConfigFile() != configFile {
			t.Errorf("ConfigFile() = %q, want %q", mgr.ConfigFile(), configFile)
		}
	})

	t.Run("environment overrides file", func(t *testing.T) {
		t.Setenv("CHISPA_SERVER_PORT", "7000")
		t.Setenv("CHISPA_READING_MAX_SPREAD", "3")

		mgr, err := NewManager(writeConfig(t, "server:\n  port: \"9100\"\n"))
		if err != nil {
			t.Fatalf("failed to create manager: %v", err)
		}
		cfg := mgr.Get()
		if cfg.Server.Port != "7000" {
			t.Errorf("expected env port 7000, got %s", cfg.Server.Port)
		}
		if cfg.Reading.MaxSpread != 3 {
			t.Errorf("expected env max_spread 3, got %d", cfg.Reading.MaxSpread)
		}
	})

	t.Run("rejects invalid config", func(t *testing.T) {
		_, err := NewManager(writeConfig(t, "reading:\n  min_spread: 8\n  max_spread: 4\n"))
		if !errors.Is(err, ErrInvalidConfig) {
			t.Fatalf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("rejects malformed file", func(t *testing.T) {
		if _, err := NewManager(writeConfig(t, "server: [unclosed\n")); err == nil {
			t.Fatal("expected error for malformed yaml")
		}
	})
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"unbounded max", func(c *Config) { c.Reading.MaxSpread = 0 }, false},
		{"negative min", func(c *Config) { c.Reading.MinSpread = -1 }, true},
		{"negative max", func(c *Config) { c.Reading.MaxSpread = -1 }, true},
		{"min above max", func(c *Config) { c.Reading.MinSpread = 11 }, true},
		{"negative retries", func(c *Config) { c.Reading.RetryAttempts = -1 }, true},
		{"unknown exporter", func(c *Config) { c.Tracing.Exporter = "zipkin" }, true},
		{"provider without type", func(c *Config) { c.Providers["bare"] = ProviderCfg{Enabled: true} }, true},
		{"negative rate limit", func(c *Config) { c.Providers["mock"] = ProviderCfg{Type: "mock", RateLimit: -1} }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_ToProviderRegistryConfig(t *testing.T) {
	t.Setenv("TEST_OPENAI_KEY", "sk-123")

	cfg := DefaultConfig()
	p := cfg.Providers["openai"]
	p.APIKey = "${TEST_OPENAI_KEY}"
	p.RateLimit = 60
	cfg.Providers["openai"] = p

	reg := cfg.ToProviderRegistryConfig()

	got, ok := reg.Providers["openai"]
	if !ok {
		t.Fatal("openai provider missing")
	}
	if got.APIKey != "sk-123" {
		t.Errorf("expected resolved key sk-123, got %s", got.APIKey)
	}
	if got.ImageModel != "dall-e-3" || got.Timeout != 120*time.Second || got.RateLimit != 60 {
		t.Errorf("unexpected provider config: %+v", got)
	}
	if len(reg.Providers) != len(cfg.Providers) {
		t.Errorf("expected %d providers, got %d", len(cfg.Providers), len(reg.Providers))
	}
}

func TestConfig_EnabledProviders(t *testing.T) {
	cfg := DefaultConfig()
	enabled := cfg.EnabledProviders()
	if _, ok := enabled["openai"]; !ok {
		t.Error("expected openai enabled")
	}
	if _, ok := enabled["mock"]; ok {
		t.Error("expected mock disabled")
	}
	if cfg.Addr() != "0.0.0.0:8000" {
		t.Errorf("Addr() = %s", cfg.Addr())
	}
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := WriteDefault(path); err != nil {
		t.Fatalf("WriteDefault() error = %v", err)
	}

	mgr, err := NewManager(path)
	if err != nil {
		t.Fatalf("written default config does not load: %v", err)
	}
	if diff := cmp.Diff(DefaultConfig(), mgr.Get(), cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("round-tripped defaults differ (-want +got):\n%s", diff)
	}
}

func TestManager_OnChange_Multiple(t *testing.T) {
	mgr, err := NewManager(writeConfig(t, "{}\n"))
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}

	mgr.OnChange(func(cfg *Config) {})
	mgr.OnChange(func(cfg *Config) {})
	mgr.OnChange(func(cfg *Config) {})

	mgr.mu.RLock()
	if len(mgr.callbacks) != 3 {
		t.Errorf("expected 3 callbacks, got %d", len(mgr.callbacks))
	}
	mgr.mu.RUnlock()
}

func TestManager_Get_ThreadSafe(t *testing.T) {
	mgr, err := NewManager(writeConfig(t, "{}\n"))
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}

	done := make(chan struct{})
	for i := 0; i < 10; i++ {
		go func() {
			for j := 0; j < 100; j++ {
				cfg := mgr.Get()
				_ = cfg.Reading.MaxSpread
			}
			done <- struct{}{}
		}()
	}

	for i := 0; i < 10; i++ {
		<-done
	}
}

func TestManager_WatchConfig(t *testing.T) {
	configFile := writeConfig(t, "reading:\n  max_spread: 4\n")

	mgr, err := NewManager(configFile)
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}

	if got := mgr.Get().Reading.MaxSpread; got != 4 {
		t.Errorf("initial value mismatch: expected 4, got %d", got)
	}

	var callbackCount atomic.Int32
	var lastValue atomic.Int64

	mgr.OnChange(func(cfg *Config) {
		callbackCount.Add(1)
		lastValue.Store(int64(cfg.Reading.MaxSpread))
	})

	mgr.WatchConfig()

	// Give fsnotify time to set up the watcher
	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(configFile, []byte("reading:\n  max_spread: 7\n"), 0644); err != nil {
		t.Fatalf("failed to write updated config file: %v", err)
	}

	// fsnotify is async
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if callbackCount.Load() > 0 {
			break
		}
		time.Sleep(50 * time.Millisecond)
	}

	if callbackCount.Load() == 0 {
		t.Fatal("callback was not invoked after config file change")
	}
	if got := mgr.Get().Reading.MaxSpread; got != 7 {
		t.Errorf("config not updated: expected 7, got %d", got)
	}
	if v := lastValue.Load(); v != 7 {
		t.Errorf("callback received wrong value: expected 7, got %d", v)
	}
}
