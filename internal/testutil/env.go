// Package testutil holds helpers shared by server and endpoint tests.
package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/vitea/chispa/internal/config"
	"github.com/vitea/chispa/internal/providers"
)

// Logger returns a logger for tests. Output is discarded unless
// CHISPA_TEST_LOG is set.
func Logger(t testing.TB) *slog.Logger {
	t.Helper()
	if os.Getenv("CHISPA_TEST_LOG") == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// MockConfig returns an app config that routes both fields to the mock
// provider, with retries disabled and a short call timeout.
func MockConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = "0"
	cfg.Providers = map[string]config.ProviderCfg{
		providers.MockClientName: {Type: providers.MockClientName, Enabled: true},
	}
	cfg.Defaults = config.DefaultsCfg{
		TextProvider:  providers.MockClientName,
		ImageProvider: providers.MockClientName,
	}
	cfg.Reading.CallTimeout = 2 * time.Second
	cfg.Reading.RetryAttempts = 1
	return cfg
}

// MockRegistry returns a registry serving mock for both text and images
// under the mock provider name.
func MockRegistry(mock *providers.MockClient) *providers.Registry {
	r := providers.NewRegistry()
	r.RegisterText(providers.MockClientName, mock)
	r.RegisterImage(providers.MockClientName, mock)
	return r
}

// NewMock returns a mock client without artificial latency.
func NewMock() *providers.MockClient {
	m := providers.NewMockClient()
	m.Latency = 0
	return m
}

// FindFreePort finds an available TCP port and returns it as a string.
func FindFreePort() (string, error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", err
	}
	defer listener.Close()
	return fmt.Sprintf("%d", listener.Addr().(*net.TCPAddr).Port), nil
}

// WaitForServer polls the /health endpoint until it answers 200.
func WaitForServer(url string, timeout time.Duration) error {
	client := &http.Client{Timeout: 2 * time.Second}
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		resp, err := client.Get(url + "/health")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		time.Sleep(50 * time.Millisecond)
	}

	return fmt.Errorf("server not ready after %v", timeout)
}

// WaitForShutdown waits for a channel to receive a value or timeout.
func WaitForShutdown(done <-chan error, timeout time.Duration) error {
	select {
	case err := <-done:
		return err
	case <-time.After(timeout):
		return fmt.Errorf("timeout waiting for shutdown")
	}
}

// StartServer is a helper type for managing server lifecycle in tests.
// Usage:
//
//	ctx, cancel := context.WithCancel(context.Background())
//	done := make(chan error, 1)
//	go func() { done <- srv.Start(ctx) }()
//	starter := testutil.StartServer{Cancel: cancel, Done: done}
//	t.Cleanup(starter.Stop)
type StartServer struct {
	Cancel context.CancelFunc
	Done   <-chan error
}

// Stop cancels the server context and waits for shutdown.
func (s *StartServer) Stop() {
	if s.Cancel != nil {
		s.Cancel()
	}
	if s.Done != nil {
		<-s.Done
	}
}

// StatusResponse matches the fields of the server's StatusResponse that
// tests look at.
type StatusResponse struct {
	Server    string `json:"server"`
	Providers struct {
		Text          []string `json:"text"`
		Image         []string `json:"image"`
		TextProvider  string   `json:"text_provider"`
		ImageProvider string   `json:"image_provider"`
	} `json:"providers"`
	Readings struct {
		Cached    int `json:"cached"`
		MinSpread int `json:"min_spread"`
		MaxSpread int `json:"max_spread"`
	} `json:"readings"`
}

// GetStatus fetches the /status endpoint and returns the parsed response.
func GetStatus(url string) (*StatusResponse, error) {
	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(url + "/status")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var status StatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, err
	}
	return &status, nil
}
