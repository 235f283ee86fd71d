package reading

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/sync/errgroup"

	"github.com/vitea/chispa/internal/llmcall"
	"github.com/vitea/chispa/internal/persona"
	"github.com/vitea/chispa/internal/providers"
)

// DegradedFieldsMetric counts card fields replaced by a fallback, by "field".
const DegradedFieldsMetric = "chispa.reading.degraded_fields"

// EnrichedCard is one card of a reading with its generated content.
// ImageURL is empty when the illustration failed; Text holds a fallback when
// the narrative failed.
type EnrichedCard struct {
	ID       string `json:"id"`
	ImageURL string `json:"image_url"`
	Text     string `json:"text"`
}

// Settings are the orchestrator knobs that may change at runtime.
type Settings struct {
	TextProvider  string
	ImageProvider string

	// CallTimeout bounds every single provider call.
	CallTimeout time.Duration
	// RetryAttempts is the total number of tries per call; 1 disables retries.
	RetryAttempts int
	RetryDelay    time.Duration
	// MaxConcurrency caps cards enriched at once; 0 means unlimited.
	MaxConcurrency int
}

// DefaultSettings returns the settings used when none are configured.
func DefaultSettings() Settings {
	return Settings{
		TextProvider:  providers.OpenAIName,
		ImageProvider: providers.OpenAIName,
		CallTimeout:   60 * time.Second,
		RetryAttempts: 1,
		RetryDelay:    500 * time.Millisecond,
	}
}

// OrchestratorConfig configures an Orchestrator.
type OrchestratorConfig struct {
	Registry *providers.Registry
	Settings Settings
	Persona  persona.Persona
	Recorder *llmcall.Recorder
	Tracer   trace.Tracer
	Meter    metric.Meter
	Logger   *slog.Logger
}

// Orchestrator fans out narrative and illustration generation for cards.
// Failures stay local to the field that failed.
type Orchestrator struct {
	registry *providers.Registry
	persona  persona.Persona
	recorder *llmcall.Recorder
	tracer   trace.Tracer
	logger   *slog.Logger
	degraded metric.Int64Counter

	mu       sync.RWMutex
	settings Settings
}

// NewOrchestrator creates an orchestrator.
func NewOrchestrator(cfg OrchestratorConfig) *Orchestrator {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Tracer == nil {
		cfg.Tracer = tracenoop.NewTracerProvider().Tracer("reading")
	}
	if cfg.Meter == nil {
		cfg.Meter = metricnoop.NewMeterProvider().Meter("reading")
	}
	if cfg.Persona.Name == "" {
		cfg.Persona = persona.Papi
	}
	if cfg.Persona.NarrativeSystem == "" {
		cfg.Persona.NarrativeSystem = persona.Papi.NarrativeSystem
	}

	degraded, err := cfg.Meter.Int64Counter(DegradedFieldsMetric,
		metric.WithDescription("Card fields replaced by a fallback after a provider failure"))
	if err != nil {
		cfg.Logger.Warn("failed to create degraded field counter", "error", err)
		degraded, _ = metricnoop.NewMeterProvider().Meter("reading").Int64Counter(DegradedFieldsMetric)
	}

	o := &Orchestrator{
		registry: cfg.Registry,
		persona:  cfg.Persona,
		recorder: cfg.Recorder,
		tracer:   cfg.Tracer,
		logger:   cfg.Logger,
		degraded: degraded,
	}
	o.Update(cfg.Settings)
	return o
}

// Update replaces the runtime settings. Zero values fall back to defaults.
func (o *Orchestrator) Update(s Settings) {
	def := DefaultSettings()
	if s.TextProvider == "" {
		s.TextProvider = def.TextProvider
	}
	if s.ImageProvider == "" {
		s.ImageProvider = def.ImageProvider
	}
	if s.CallTimeout <= 0 {
		s.CallTimeout = def.CallTimeout
	}
	if s.RetryAttempts < 1 {
		s.RetryAttempts = def.RetryAttempts
	}
	if s.RetryDelay <= 0 {
		s.RetryDelay = def.RetryDelay
	}
	if s.MaxConcurrency < 0 {
		s.MaxConcurrency = 0
	}
	o.mu.Lock()
	o.settings = s
	o.mu.Unlock()
}

// Settings returns the settings in effect.
func (o *Orchestrator) Settings() Settings {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.settings
}

// EnrichReading enriches every card of a selection concurrently.
// The result has the same length and order as selection and never fails.
func (o *Orchestrator) EnrichReading(ctx context.Context, selection []string, question string) []EnrichedCard {
	ctx, span := o.tracer.Start(ctx, "reading.enrich",
		trace.WithAttributes(attribute.Int("reading.spread", len(selection))))
	defer span.End()

	results := make([]EnrichedCard, len(selection))

	var g errgroup.Group
	if limit := o.Settings().MaxConcurrency; limit > 0 {
		g.SetLimit(limit)
	}
	for i, card := range selection {
		g.Go(func() error {
			results[i] = o.EnrichOne(ctx, card, question, len(selection), i)
			return nil // don't fail the group
		})
	}
	_ = g.Wait()

	return results
}

// EnrichOne generates the narrative and the illustration for one card at the
// same time. A failed half is replaced by its fallback.
func (o *Orchestrator) EnrichOne(ctx context.Context, card, question string, spread, index int) EnrichedCard {
	ctx, span := o.tracer.Start(ctx, "reading.card", trace.WithAttributes(
		attribute.String("card.id", card),
		attribute.Int("card.index", index),
	))
	defer span.End()

	out := EnrichedCard{ID: card}

	var g errgroup.Group
	g.Go(func() error {
		text, err := o.guard(ctx, "text", card, func() (string, error) {
			return o.Narrative(ctx, card, question, spread, index)
		})
		if err != nil {
			o.logger.Warn("narrative failed, using fallback", "card", card, "index", index, "error", err)
			o.markDegraded(ctx, "text")
			text = o.narrativeFallback(card, err)
		}
		out.Text = text
		return nil
	})
	g.Go(func() error {
		url, err := o.guard(ctx, "image", card, func() (string, error) {
			return o.Illustration(ctx, card)
		})
		if err != nil {
			o.logger.Warn("illustration failed, leaving image empty", "card", card, "index", index, "error", err)
			o.markDegraded(ctx, "image")
			url = ""
		}
		out.ImageURL = url
		return nil
	})
	_ = g.Wait()

	return out
}

// Narrative generates the reading text for one card. Errors are returned to
// the caller, wrapped in ErrProvider.
func (o *Orchestrator) Narrative(ctx context.Context, card, question string, spread, index int) (string, error) {
	ctx, span := o.tracer.Start(ctx, "reading.narrative", trace.WithAttributes(attribute.String("card.id", card)))
	defer span.End()

	s := o.Settings()
	client, err := o.registry.GetText(s.TextProvider)
	if err != nil {
		return "", o.fail(span, err)
	}

	temp := persona.NarrativeTemperature
	idx := index
	opts := llmcall.RecordOptions{
		Kind:        llmcall.KindNarrative,
		CardID:      card,
		Question:    question,
		Spread:      spread,
		Index:       &idx,
		Temperature: &temp,
	}
	req := &providers.ChatRequest{
		Messages:    toProviderMessages(o.persona.NarrativeMessages(card, question, spread, index)),
		MaxTokens:   persona.NarrativeMaxTokens,
		Temperature: temp,
		RequestID:   uuid.New().String(),
	}

	result, err := o.chat(ctx, s, s.TextProvider, client, req, opts)
	if err != nil {
		return "", o.fail(span, err)
	}
	if result.Content == "" {
		return persona.ShyText, nil
	}
	return result.Content, nil
}

// Illustration generates the image for one card and returns its URL.
func (o *Orchestrator) Illustration(ctx context.Context, card string) (string, error) {
	ctx, span := o.tracer.Start(ctx, "reading.illustration", trace.WithAttributes(attribute.String("card.id", card)))
	defer span.End()

	s := o.Settings()
	client, err := o.registry.GetImage(s.ImageProvider)
	if err != nil {
		return "", o.fail(span, err)
	}

	req := &providers.ImageRequest{
		Prompt:    o.persona.IllustrationPrompt(card),
		RequestID: uuid.New().String(),
	}
	opts := llmcall.RecordOptions{Kind: llmcall.KindIllustration, CardID: card}
	limiter := o.registry.Limiter(s.ImageProvider)

	result, err := retry.DoWithData(
		func() (*providers.ImageResult, error) {
			callCtx, cancel := context.WithTimeout(ctx, s.CallTimeout)
			defer cancel()
			if err := waitLimiter(callCtx, limiter); err != nil {
				return nil, err
			}
			res, err := client.GenerateImage(callCtx, req)
			o.recorder.RecordImage(res, opts)
			noteRateLimit(limiter, err)
			return res, err
		},
		o.retryOptions(ctx, s)...,
	)
	if err != nil {
		return "", o.fail(span, err)
	}
	return result.URL, nil
}

// Chat answers a follow-up question about card, replaying earlier cards and turns.
func (o *Orchestrator) Chat(ctx context.Context, card, question string, prior []persona.PriorCard, history []persona.ChatTurn) (string, error) {
	ctx, span := o.tracer.Start(ctx, "reading.chat", trace.WithAttributes(attribute.String("card.id", card)))
	defer span.End()

	s := o.Settings()
	client, err := o.registry.GetText(s.TextProvider)
	if err != nil {
		return "", o.fail(span, err)
	}

	temp := persona.ChatTemperature
	opts := llmcall.RecordOptions{Kind: llmcall.KindChat, CardID: card, Question: question, Temperature: &temp}
	req := &providers.ChatRequest{
		Messages:    toProviderMessages(o.persona.ChatMessages(card, question, prior, history)),
		MaxTokens:   persona.ChatMaxTokens,
		Temperature: temp,
		RequestID:   uuid.New().String(),
	}

	result, err := o.chat(ctx, s, s.TextProvider, client, req, opts)
	if err != nil {
		return "", o.fail(span, err)
	}
	if result.Content == "" {
		return persona.ChatSilence, nil
	}
	return result.Content, nil
}

func (o *Orchestrator) chat(ctx context.Context, s Settings, provider string, client providers.TextClient, req *providers.ChatRequest, opts llmcall.RecordOptions) (*providers.ChatResult, error) {
	limiter := o.registry.Limiter(provider)
	return retry.DoWithData(
		func() (*providers.ChatResult, error) {
			callCtx, cancel := context.WithTimeout(ctx, s.CallTimeout)
			defer cancel()
			if err := waitLimiter(callCtx, limiter); err != nil {
				return nil, err
			}
			res, err := client.Chat(callCtx, req)
			o.recorder.RecordChat(res, opts)
			noteRateLimit(limiter, err)
			return res, err
		},
		o.retryOptions(ctx, s)...,
	)
}

// waitLimiter blocks for a token when the provider is rate limited.
func waitLimiter(ctx context.Context, l *providers.RateLimiter) error {
	if l == nil {
		return nil
	}
	return l.Wait(ctx)
}

// noteRateLimit drains the limiter when the provider answered 429.
func noteRateLimit(l *providers.RateLimiter, err error) {
	if l == nil {
		return
	}
	if rle, ok := providers.IsRateLimitError(err); ok {
		l.Record429(rle.RetryAfter)
	}
}

// retryOptions retries transient provider errors, honoring Retry-After on 429s.
func (o *Orchestrator) retryOptions(ctx context.Context, s Settings) []retry.Option {
	return []retry.Option{
		retry.Context(ctx),
		retry.Attempts(uint(s.RetryAttempts)),
		retry.Delay(s.RetryDelay),
		retry.MaxDelay(30 * time.Second),
		retry.LastErrorOnly(true),
		retry.RetryIf(providers.IsRetryable),
		retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
			if rle, ok := providers.IsRateLimitError(err); ok && rle.RetryAfter > 0 {
				return rle.RetryAfter
			}
			return retry.BackOffDelay(n, err, config)
		}),
		retry.OnRetry(func(n uint, err error) {
			o.logger.Debug("retrying provider call", "attempt", n+1, "error", err)
		}),
	}
}

func (o *Orchestrator) narrativeFallback(card string, err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return persona.NarrativeTimeout(card)
	}
	return persona.NarrativeFallback(card)
}

// guard runs one field's generation and turns a panic into an error for
// that field alone.
func (o *Orchestrator) guard(ctx context.Context, field, card string, fn func() (string, error)) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			o.logger.ErrorContext(ctx, "panic while generating card field",
				"field", field, "card", card, "panic", r, "stack", string(debug.Stack()))
			out, err = "", fmt.Errorf("panic generating %s for %s: %v", field, card, r)
		}
	}()
	return fn()
}

func (o *Orchestrator) markDegraded(ctx context.Context, field string) {
	o.degraded.Add(ctx, 1, metric.WithAttributes(attribute.String("field", field)))
}

func (o *Orchestrator) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return fmt.Errorf("%w: %w", ErrProvider, err)
}

func toProviderMessages(msgs []persona.Message) []providers.Message {
	out := make([]providers.Message, len(msgs))
	for i, m := range msgs {
		out[i] = providers.Message{Role: m.Role, Content: m.Content}
	}
	return out
}
