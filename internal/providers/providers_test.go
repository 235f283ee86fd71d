package providers

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMockClient(t *testing.T) {
	ctx := context.Background()

	t.Run("echoes last message", func(t *testing.T) {
		m := NewMockClient()
		m.Latency = 0
		res, err := m.Chat(ctx, &ChatRequest{Messages: []Message{{Role: "user", Content: "The Sun"}}})
		if err != nil {
			t.Fatalf("Chat() error = %v", err)
		}
		if res.Content != "mock reading: The Sun" {
			t.Errorf("Content = %q", res.Content)
		}
		if m.ChatCount() != 1 {
			t.Errorf("ChatCount() = %d, want 1", m.ChatCount())
		}
	})

	t.Run("image url from first prompt line", func(t *testing.T) {
		m := NewMockClient()
		m.Latency = 0
		res, err := m.GenerateImage(ctx, &ImageRequest{Prompt: "The Sun\nstyle notes"})
		if err != nil {
			t.Fatalf("GenerateImage() error = %v", err)
		}
		if res.URL != "https://images.mock.local/The%20Sun.png" {
			t.Errorf("URL = %q", res.URL)
		}
	})

	t.Run("hook failure", func(t *testing.T) {
		m := NewMockClient()
		boom := errors.New("boom")
		m.ChatHook = func(*ChatRequest) (time.Duration, error) { return 0, boom }
		if _, err := m.Chat(ctx, &ChatRequest{}); !errors.Is(err, boom) {
			t.Fatalf("Chat() error = %v, want boom", err)
		}
	})

	t.Run("fail after", func(t *testing.T) {
		m := NewMockClient()
		m.Latency = 0
		m.FailAfter = 1
		if _, err := m.Chat(ctx, &ChatRequest{}); err != nil {
			t.Fatalf("first Chat() error = %v", err)
		}
		if _, err := m.GenerateImage(ctx, &ImageRequest{Prompt: "x"}); err == nil {
			t.Fatal("expected second request to fail")
		}
	})

	t.Run("respects context", func(t *testing.T) {
		m := NewMockClient()
		m.Latency = time.Second
		cctx, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
		defer cancel()
		if _, err := m.Chat(cctx, &ChatRequest{}); !errors.Is(err, context.DeadlineExceeded) {
			t.Fatalf("Chat() error = %v, want deadline exceeded", err)
		}
	})
}
