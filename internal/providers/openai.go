package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const (
	OpenAIName              = "openai"
	openAIDefaultTextModel  = "gpt-4"
	openAIDefaultImageModel = openai.ImageModelDallE3
	openAIDefaultImageSize  = "1024x1024"
)

// OpenAIConfig holds configuration for the OpenAI client.
type OpenAIConfig struct {
	APIKey     string
	Model      string        // Chat model, "gpt-4" by default
	ImageModel string        // Image model, "dall-e-3" by default
	ImageSize  string        // "1024x1024" by default
	MaxRetries int           // Retry attempts for SDK transport
	Timeout    time.Duration // HTTP timeout
	BaseURL    string        // Optional (tests)
	HTTPClient *http.Client  // Optional (tests)
}

// OpenAIClient implements TextClient and ImageClient using the official OpenAI SDK.
type OpenAIClient struct {
	apiKey     string
	model      string
	imageModel string
	imageSize  string
	maxRetries int
	baseURL    string
	client     openai.Client
}

// NewOpenAIClient creates a new OpenAI client.
func NewOpenAIClient(cfg OpenAIConfig) *OpenAIClient {
	if cfg.Model == "" {
		cfg.Model = openAIDefaultTextModel
	}
	if cfg.ImageModel == "" {
		cfg.ImageModel = openAIDefaultImageModel
	}
	if cfg.ImageSize == "" {
		cfg.ImageSize = openAIDefaultImageSize
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 120 * time.Second
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(cfg.MaxRetries),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &OpenAIClient{
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		imageModel: cfg.ImageModel,
		imageSize:  cfg.ImageSize,
		maxRetries: cfg.MaxRetries,
		baseURL:    cfg.BaseURL,
		client:     openai.NewClient(opts...),
	}
}

// Name returns the provider identifier.
func (c *OpenAIClient) Name() string {
	return OpenAIName
}

// Model returns the configured chat model.
func (c *OpenAIClient) Model() string {
	return c.model
}

// ImageModel returns the configured image model.
func (c *OpenAIClient) ImageModel() string {
	return c.imageModel
}

// HealthCheck verifies the OpenAI API is reachable and the API key is valid.
func (c *OpenAIClient) HealthCheck(ctx context.Context) error {
	page, err := c.client.Models.List(ctx)
	if err != nil {
		return fmt.Errorf("openai models list failed: %w", mapOpenAIError(err))
	}
	if page == nil {
		return fmt.Errorf("openai models list returned nil response")
	}
	return nil
}

// Chat sends a chat completion request.
func (c *OpenAIClient) Chat(ctx context.Context, req *ChatRequest) (*ChatResult, error) {
	start := time.Now()

	model := req.Model
	if model == "" {
		model = c.model
	}
	result := &ChatResult{
		Provider:  OpenAIName,
		ModelUsed: model,
		RequestID: req.RequestID,
	}

	if len(req.Messages) == 0 {
		err := fmt.Errorf("at least one message is required")
		result.ErrorType = "invalid_request"
		result.ErrorMessage = err.Error()
		return result, err
	}

	params := openai.ChatCompletionNewParams{
		Messages: toOpenAIMessages(req.Messages),
		Model:    openai.ChatModel(model),
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}
	if req.Temperature > 0 {
		params.Temperature = openai.Float(req.Temperature)
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	result.ExecutionTime = time.Since(start)
	if err != nil {
		err = mapOpenAIError(err)
		result.ErrorType = errorType(err)
		result.ErrorMessage = err.Error()
		return result, err
	}

	if resp.Model != "" {
		result.ModelUsed = resp.Model
	}
	result.PromptTokens = int(resp.Usage.PromptTokens)
	result.CompletionTokens = int(resp.Usage.CompletionTokens)
	result.TotalTokens = int(resp.Usage.TotalTokens)

	if len(resp.Choices) == 0 {
		result.ErrorType = "empty_response"
		result.ErrorMessage = ErrEmptyResponse.Error()
		return result, ErrEmptyResponse
	}

	result.Content = strings.TrimSpace(resp.Choices[0].Message.Content)
	result.Success = true
	return result, nil
}

// GenerateImage renders one image and returns its hosted URL.
func (c *OpenAIClient) GenerateImage(ctx context.Context, req *ImageRequest) (*ImageResult, error) {
	start := time.Now()

	model := req.Model
	if model == "" {
		model = c.imageModel
	}
	size := req.Size
	if size == "" {
		size = c.imageSize
	}
	result := &ImageResult{
		Provider:  OpenAIName,
		ModelUsed: model,
		RequestID: req.RequestID,
	}

	if strings.TrimSpace(req.Prompt) == "" {
		err := fmt.Errorf("prompt is required")
		result.ErrorType = "invalid_request"
		result.ErrorMessage = err.Error()
		return result, err
	}

	resp, err := c.client.Images.Generate(ctx, openai.ImageGenerateParams{
		Prompt:         req.Prompt,
		Model:          openai.ImageModel(model),
		N:              openai.Int(1),
		Size:           openai.ImageGenerateParamsSize(size),
		ResponseFormat: openai.ImageGenerateParamsResponseFormatURL,
	})
	result.ExecutionTime = time.Since(start)
	if err != nil {
		err = mapOpenAIError(err)
		result.ErrorType = errorType(err)
		result.ErrorMessage = err.Error()
		return result, err
	}

	if resp == nil || len(resp.Data) == 0 || resp.Data[0].URL == "" {
		result.ErrorType = "empty_response"
		result.ErrorMessage = ErrEmptyResponse.Error()
		return result, ErrEmptyResponse
	}

	result.URL = resp.Data[0].URL
	result.RevisedPrompt = resp.Data[0].RevisedPrompt
	result.Success = true
	return result, nil
}

func toOpenAIMessages(msgs []Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(msgs))
	for _, m := range msgs {
		switch m.Role {
		case "system":
			out = append(out, openai.SystemMessage(m.Content))
		case "assistant":
			out = append(out, openai.AssistantMessage(m.Content))
		default:
			out = append(out, openai.UserMessage(m.Content))
		}
	}
	return out
}

func mapOpenAIError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode == http.StatusTooManyRequests {
			retryAfter := time.Duration(0)
			if apiErr.Response != nil {
				retryAfter = parseRetryAfter(apiErr.Response.Header.Get("Retry-After"))
			}
			return &RateLimitError{
				Message:    fmt.Sprintf("OpenAI rate limited: %s", apiErr.Message),
				RetryAfter: retryAfter,
				StatusCode: apiErr.StatusCode,
			}
		}
		return &StatusError{
			Provider:   "OpenAI",
			StatusCode: apiErr.StatusCode,
			Message:    apiErr.Message,
		}
	}
	return err
}

func errorType(err error) string {
	var se *StatusError
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "context_cancelled"
	case errors.As(err, &se):
		return "api_error"
	}
	if _, ok := IsRateLimitError(err); ok {
		return "rate_limit"
	}
	return "request_error"
}

var (
	_ TextClient    = (*OpenAIClient)(nil)
	_ ImageClient   = (*OpenAIClient)(nil)
	_ HealthChecker = (*OpenAIClient)(nil)
)
