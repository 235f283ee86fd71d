package providers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestOpenAIChatSuccess(t *testing.T) {
	var payload map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Fatalf("unexpected method: %s", r.Method)
		}
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Fatalf("read body: %v", err)
		}
		if err := json.Unmarshal(body, &payload); err != nil {
			t.Fatalf("unmarshal body: %v", err)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1,
			"model": "gpt-4-0613",
			"choices": [{"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": "  Ay, mi amor...  "}}],
			"usage": {"prompt_tokens": 40, "completion_tokens": 12, "total_tokens": 52}
		}`))
	}))
	defer server.Close()

	client := NewOpenAIClient(OpenAIConfig{APIKey: "test-key", BaseURL: server.URL})

	result, err := client.Chat(context.Background(), &ChatRequest{
		Messages: []Message{
			{Role: "system", Content: "You are Papi."},
			{Role: "user", Content: "Card: The Sun"},
		},
		MaxTokens:   350,
		Temperature: 0.9,
		RequestID:   "req-1",
	})
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if !result.Success {
		t.Fatal("expected success result")
	}
	if result.Content != "Ay, mi amor..." {
		t.Errorf("Content = %q, want trimmed reply", result.Content)
	}
	if result.ModelUsed != "gpt-4-0613" {
		t.Errorf("ModelUsed = %q, want gpt-4-0613", result.ModelUsed)
	}
	if result.TotalTokens != 52 || result.PromptTokens != 40 || result.CompletionTokens != 12 {
		t.Errorf("unexpected token counts: %+v", result)
	}
	if result.RequestID != "req-1" {
		t.Errorf("RequestID = %q, want req-1", result.RequestID)
	}

	if got, _ := payload["model"].(string); got != "gpt-4" {
		t.Errorf("expected default model gpt-4, got %q", got)
	}
	if got, _ := payload["max_tokens"].(float64); got != 350 {
		t.Errorf("expected max_tokens 350, got %v", payload["max_tokens"])
	}
	if got, _ := payload["temperature"].(float64); got != 0.9 {
		t.Errorf("expected temperature 0.9, got %v", payload["temperature"])
	}
	msgs, _ := payload["messages"].([]any)
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	first, _ := msgs[0].(map[string]any)
	if first["role"] != "system" {
		t.Errorf("expected first role system, got %v", first["role"])
	}
}

func TestOpenAIChatRateLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Retry-After", "3")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limit","type":"rate_limit_error","param":"","code":"rate_limit"}}`))
	}))
	defer server.Close()

	client := NewOpenAIClient(OpenAIConfig{APIKey: "test-key", BaseURL: server.URL})

	result, err := client.Chat(context.Background(), &ChatRequest{
		Messages: []Message{{Role: "user", Content: "hola"}},
	})
	if err == nil {
		t.Fatal("expected error for 429 response")
	}
	rle, ok := IsRateLimitError(err)
	if !ok {
		t.Fatalf("expected RateLimitError, got %T: %v", err, err)
	}
	if rle.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("expected status 429, got %d", rle.StatusCode)
	}
	if rle.RetryAfter != 3*time.Second {
		t.Fatalf("expected RetryAfter=3s, got %v", rle.RetryAfter)
	}
	if result.Success || result.ErrorType != "rate_limit" {
		t.Fatalf("unexpected result: %+v", result)
	}
	if !IsRetryable(err) {
		t.Fatal("expected rate limit to be retryable")
	}
}

func TestOpenAIChatRequiresMessages(t *testing.T) {
	client := NewOpenAIClient(OpenAIConfig{APIKey: "test-key", BaseURL: "http://127.0.0.1:0"})

	if _, err := client.Chat(context.Background(), &ChatRequest{}); err == nil {
		t.Fatal("expected error for empty messages")
	}
}

func TestOpenAIGenerateImageSuccess(t *testing.T) {
	var payload map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/images/generations" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Fatalf("read body: %v", err)
		}
		if err := json.Unmarshal(body, &payload); err != nil {
			t.Fatalf("unmarshal body: %v", err)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"created": 1, "data": [{"url": "https://img.example/sun.png", "revised_prompt": "a neon sun"}]}`))
	}))
	defer server.Close()

	client := NewOpenAIClient(OpenAIConfig{APIKey: "test-key", BaseURL: server.URL})

	result, err := client.GenerateImage(context.Background(), &ImageRequest{Prompt: "Tarot card illustration of The Sun"})
	if err != nil {
		t.Fatalf("GenerateImage() error = %v", err)
	}
	if result.URL != "https://img.example/sun.png" {
		t.Errorf("URL = %q", result.URL)
	}
	if result.RevisedPrompt != "a neon sun" {
		t.Errorf("RevisedPrompt = %q", result.RevisedPrompt)
	}
	if got, _ := payload["model"].(string); got != "dall-e-3" {
		t.Errorf("expected model dall-e-3, got %q", got)
	}
	if got, _ := payload["size"].(string); got != "1024x1024" {
		t.Errorf("expected size 1024x1024, got %q", got)
	}
	if got, _ := payload["n"].(float64); got != 1 {
		t.Errorf("expected n 1, got %v", payload["n"])
	}
}

func TestOpenAIGenerateImageEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"created": 1, "data": []}`))
	}))
	defer server.Close()

	client := NewOpenAIClient(OpenAIConfig{APIKey: "test-key", BaseURL: server.URL})

	_, err := client.GenerateImage(context.Background(), &ImageRequest{Prompt: "The Moon"})
	if !errors.Is(err, ErrEmptyResponse) {
		t.Fatalf("GenerateImage() error = %v, want ErrEmptyResponse", err)
	}
}

func TestOpenAIGenerateImageServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"content policy","type":"invalid_request_error","param":"prompt","code":"content_policy_violation"}}`))
	}))
	defer server.Close()

	client := NewOpenAIClient(OpenAIConfig{APIKey: "test-key", BaseURL: server.URL})

	_, err := client.GenerateImage(context.Background(), &ImageRequest{Prompt: "The Devil"})
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected StatusError, got %T: %v", err, err)
	}
	if se.StatusCode != http.StatusBadRequest {
		t.Errorf("StatusCode = %d, want 400", se.StatusCode)
	}
	if IsRetryable(err) {
		t.Error("400 should not be retryable")
	}
}

func TestOpenAIHealthCheck(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"object":"list","data":[{"id":"gpt-4","object":"model","created":1,"owned_by":"openai"}]}`))
	}))
	defer server.Close()

	client := NewOpenAIClient(OpenAIConfig{APIKey: "test-key", BaseURL: server.URL})

	if err := client.HealthCheck(context.Background()); err != nil {
		t.Fatalf("HealthCheck() error = %v", err)
	}
}
