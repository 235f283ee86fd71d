package providers

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync/atomic"
	"time"
)

const MockClientName = "mock"

// MockClient is a TextClient and ImageClient for tests and offline runs.
type MockClient struct {
	// Configurable behavior
	Latency      time.Duration
	ShouldFail   bool
	FailAfter    int    // Fail after N requests (0 = never)
	ResponseText string // Fixed chat reply; echoes the last message when empty
	ImageBaseURL string

	// Per-request hooks run before the canned behavior. A non-nil error fails
	// the request; a positive delay replaces Latency.
	ChatHook  func(req *ChatRequest) (time.Duration, error)
	ImageHook func(req *ImageRequest) (time.Duration, error)

	// State
	requestCount atomic.Int64
	chatCount    atomic.Int64
	imageCount   atomic.Int64
}

// NewMockClient creates a new mock client with sensible defaults.
func NewMockClient() *MockClient {
	return &MockClient{
		Latency:      10 * time.Millisecond,
		ImageBaseURL: "https://images.mock.local",
	}
}

// Name returns the client identifier.
func (c *MockClient) Name() string {
	return MockClientName
}

// ChatCount returns the number of chat requests received.
func (c *MockClient) ChatCount() int {
	return int(c.chatCount.Load())
}

// ImageCount returns the number of image requests received.
func (c *MockClient) ImageCount() int {
	return int(c.imageCount.Load())
}

// HealthCheck fails only when the mock is configured to fail.
func (c *MockClient) HealthCheck(_ context.Context) error {
	if c.ShouldFail {
		return fmt.Errorf("mock client configured to fail")
	}
	return nil
}

// Chat sends a mock chat request.
func (c *MockClient) Chat(ctx context.Context, req *ChatRequest) (*ChatResult, error) {
	start := time.Now()
	count := c.requestCount.Add(1)
	c.chatCount.Add(1)

	result := &ChatResult{
		RequestID: req.RequestID,
		Provider:  MockClientName,
		ModelUsed: req.Model,
	}
	if result.RequestID == "" {
		result.RequestID = fmt.Sprintf("mock-%d", count)
	}

	latency := c.Latency
	if c.ChatHook != nil {
		delay, err := c.ChatHook(req)
		if delay > 0 {
			latency = delay
		}
		if err != nil {
			return failChat(result, start, "mock_failure", err)
		}
	}
	if err := c.checkFailure(count); err != nil {
		return failChat(result, start, "mock_failure", err)
	}
	if err := sleep(ctx, latency); err != nil {
		return failChat(result, start, "context_cancelled", err)
	}

	content := c.ResponseText
	if content == "" && len(req.Messages) > 0 {
		content = "mock reading: " + req.Messages[len(req.Messages)-1].Content
	}

	promptTokens := 0
	for _, m := range req.Messages {
		promptTokens += len(m.Content) / 4 // Rough estimate
	}

	result.Success = true
	result.Content = content
	result.PromptTokens = promptTokens
	result.CompletionTokens = len(content) / 4
	result.TotalTokens = result.PromptTokens + result.CompletionTokens
	result.ExecutionTime = time.Since(start)
	return result, nil
}

// GenerateImage returns a deterministic URL derived from the prompt's first line.
func (c *MockClient) GenerateImage(ctx context.Context, req *ImageRequest) (*ImageResult, error) {
	start := time.Now()
	count := c.requestCount.Add(1)
	c.imageCount.Add(1)

	result := &ImageResult{
		RequestID: req.RequestID,
		Provider:  MockClientName,
		ModelUsed: req.Model,
	}

	latency := c.Latency
	if c.ImageHook != nil {
		delay, err := c.ImageHook(req)
		if delay > 0 {
			latency = delay
		}
		if err != nil {
			return failImage(result, start, "mock_failure", err)
		}
	}
	if err := c.checkFailure(count); err != nil {
		return failImage(result, start, "mock_failure", err)
	}
	if err := sleep(ctx, latency); err != nil {
		return failImage(result, start, "context_cancelled", err)
	}

	subject, _, _ := strings.Cut(req.Prompt, "\n")
	result.Success = true
	result.URL = c.ImageBaseURL + "/" + url.PathEscape(subject) + ".png"
	result.ExecutionTime = time.Since(start)
	return result, nil
}

func (c *MockClient) checkFailure(count int64) error {
	if c.ShouldFail {
		return fmt.Errorf("mock client configured to fail")
	}
	if c.FailAfter > 0 && int(count) > c.FailAfter {
		return fmt.Errorf("mock client failed after %d requests", c.FailAfter)
	}
	return nil
}

func failChat(result *ChatResult, start time.Time, kind string, err error) (*ChatResult, error) {
	result.Success = false
	result.ErrorType = kind
	result.ErrorMessage = err.Error()
	result.ExecutionTime = time.Since(start)
	return result, err
}

func failImage(result *ImageResult, start time.Time, kind string, err error) (*ImageResult, error) {
	result.Success = false
	result.ErrorType = kind
	result.ErrorMessage = err.Error()
	result.ExecutionTime = time.Since(start)
	return result, err
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

var (
	_ TextClient    = (*MockClient)(nil)
	_ ImageClient   = (*MockClient)(nil)
	_ HealthChecker = (*MockClient)(nil)
)
