package providers

import (
	"context"
	"time"
)

// TextClient generates chat completions: card narratives and follow-up replies.
type TextClient interface {
	// Chat sends a chat completion request.
	Chat(ctx context.Context, req *ChatRequest) (*ChatResult, error)

	// Name returns the client identifier (e.g., "openai").
	Name() string
}

// ImageClient generates card illustrations.
type ImageClient interface {
	// GenerateImage renders a single image and returns its URL.
	GenerateImage(ctx context.Context, req *ImageRequest) (*ImageResult, error)

	// Name returns the client identifier.
	Name() string
}

// HealthChecker is implemented by clients that can verify their upstream.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Message represents a chat message.
type Message struct {
	Role    string `json:"role"` // "system", "user", "assistant"
	Content string `json:"content"`
}

// ChatRequest is a request to a text model.
type ChatRequest struct {
	// Required
	Messages []Message `json:"messages"`

	// Model selection (uses client default if empty)
	Model string `json:"model,omitempty"`

	// Generation parameters
	Temperature float64 `json:"temperature,omitempty"`
	MaxTokens   int     `json:"max_tokens,omitempty"`

	// Request tracking
	RequestID string `json:"-"`
}

// ChatResult is the complete response from a text model call.
type ChatResult struct {
	Content string `json:"content"`

	// Token counts
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`

	ExecutionTime time.Duration `json:"execution_time"`

	// Provider info
	Provider  string `json:"provider"`
	ModelUsed string `json:"model_used"`

	RequestID string `json:"request_id"`

	Success      bool   `json:"success"`
	ErrorType    string `json:"error_type,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// ImageRequest is a request to an image model.
type ImageRequest struct {
	Prompt string `json:"prompt"`

	// Model and size (client defaults if empty)
	Model string `json:"model,omitempty"`
	Size  string `json:"size,omitempty"`

	RequestID string `json:"-"`
}

// ImageResult is the response from an image model call.
type ImageResult struct {
	URL           string `json:"url"`
	RevisedPrompt string `json:"revised_prompt,omitempty"`

	ExecutionTime time.Duration `json:"execution_time"`

	Provider  string `json:"provider"`
	ModelUsed string `json:"model_used"`

	RequestID string `json:"request_id"`

	Success      bool   `json:"success"`
	ErrorType    string `json:"error_type,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
}
