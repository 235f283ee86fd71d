// Package llmcall provides provider call recording and querying for traceability.
// Every narrative, illustration and chat call is recorded with its card, prompt kind and metrics.
package llmcall

import (
	"time"

	"github.com/google/uuid"

	"github.com/vitea/chispa/internal/providers"
)

// Kinds of provider calls.
const (
	KindNarrative    = "narrative"
	KindIllustration = "illustration"
	KindChat         = "chat"
)

// Call represents a recorded provider API call.
type Call struct {
	// Unique identifier
	ID string `json:"id"`

	// Timing
	Timestamp time.Time `json:"timestamp"`
	LatencyMs int       `json:"latency_ms"`

	// Context references
	Kind     string `json:"kind"`
	CardID   string `json:"card_id,omitempty"`
	Question string `json:"question,omitempty"`
	Spread   int    `json:"spread,omitempty"`
	Index    *int   `json:"index,omitempty"`

	// Model info
	Provider    string   `json:"provider"`
	Model       string   `json:"model"`
	Temperature *float64 `json:"temperature,omitempty"`

	// Token usage
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`

	// Response (narrative text or image URL)
	Response string `json:"response"`

	// Status
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// RecordOptions provides context for recording a call.
type RecordOptions struct {
	Kind     string
	CardID   string
	Question string
	Spread   int
	Index    *int

	// Request parameters (pointer to distinguish "not set" from "set to 0")
	Temperature *float64
}

// FromChatResult creates a Call from a ChatResult.
// Returns nil if result is nil.
func FromChatResult(result *providers.ChatResult, opts RecordOptions) *Call {
	if result == nil {
		return nil
	}

	call := newCall(opts)
	call.LatencyMs = int(result.ExecutionTime.Milliseconds())
	call.Provider = result.Provider
	call.Model = result.ModelUsed
	call.InputTokens = result.PromptTokens
	call.OutputTokens = result.CompletionTokens
	call.Response = result.Content
	call.Success = result.Success
	if !result.Success {
		call.Error = result.ErrorMessage
	}
	return call
}

// FromImageResult creates a Call from an ImageResult.
// Returns nil if result is nil.
func FromImageResult(result *providers.ImageResult, opts RecordOptions) *Call {
	if result == nil {
		return nil
	}

	if opts.Kind == "" {
		opts.Kind = KindIllustration
	}
	call := newCall(opts)
	call.LatencyMs = int(result.ExecutionTime.Milliseconds())
	call.Provider = result.Provider
	call.Model = result.ModelUsed
	call.Response = result.URL
	call.Success = result.Success
	if !result.Success {
		call.Error = result.ErrorMessage
	}
	return call
}

func newCall(opts RecordOptions) *Call {
	return &Call{
		ID:          uuid.New().String(),
		Timestamp:   time.Now(),
		Kind:        opts.Kind,
		CardID:      opts.CardID,
		Question:    opts.Question,
		Spread:      opts.Spread,
		Index:       opts.Index,
		Temperature: opts.Temperature,
	}
}
