package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// HeaderRequestID carries the ID that ties a CLI call to the server's
// request log line.
const HeaderRequestID = "X-Request-Id"

// DefaultTimeout bounds one CLI call. A full reading waits on every card.
const DefaultTimeout = 5 * time.Minute

// Client talks to a running chispa server.
type Client struct {
	baseURL string
	http    *http.Client
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.http.Timeout = d }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.http = hc }
}

// NewClient returns a client for the server at baseURL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get sends a GET and decodes the JSON reply into result, if non-nil.
func (c *Client) Get(ctx context.Context, path string, result any) error {
	return c.do(ctx, http.MethodGet, path, nil, result)
}

// Post sends body as JSON and decodes the reply into result, if non-nil.
func (c *Client) Post(ctx context.Context, path string, body, result any) error {
	return c.do(ctx, http.MethodPost, path, body, result)
}

func (c *Client) do(ctx context.Context, method, path string, body, result any) error {
	var payload io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		payload = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(HeaderRequestID, uuid.NewString())

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s %s: %w", method, path, err)
	}
	if resp.StatusCode >= 400 {
		return newStatusError(resp, raw)
	}
	if result == nil {
		return nil
	}
	if err := json.Unmarshal(raw, result); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// ErrorResponse is the server's JSON error body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusError is returned when the server answers 4xx or 5xx.
type StatusError struct {
	StatusCode int
	Message    string
	RequestID  string
}

func newStatusError(resp *http.Response, raw []byte) *StatusError {
	se := &StatusError{
		StatusCode: resp.StatusCode,
		RequestID:  resp.Header.Get(HeaderRequestID),
	}
	var body ErrorResponse
	if json.Unmarshal(raw, &body) == nil && body.Error != "" {
		se.Message = body.Error
	} else {
		se.Message = strings.TrimSpace(string(raw))
	}
	return se
}

func (e *StatusError) Error() string {
	if e.RequestID == "" {
		return fmt.Sprintf("server error (%d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("server error (%d, request %s): %s", e.StatusCode, e.RequestID, e.Message)
}
