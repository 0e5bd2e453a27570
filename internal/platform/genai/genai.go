package genai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
	googleai "google.golang.org/genai"
)

const (
	// DefaultModel is model used when none is configured.
	DefaultModel = "gemini-2.0-flash"
	// APIVersion is Gemini API version used by the client.
	APIVersion = "v1beta"

	maxRetryAfter = 30 * time.Second
)

var (
	// ErrEmptyResponse is returned when model reply has no text.
	ErrEmptyResponse = errors.New("empty model response")
	// ErrNotConfigured is returned when client has no API key.
	ErrNotConfigured = errors.New("generation client is not configured")
)

// Request is a single content generation request.
type Request struct {
	SystemPrompt string
	Parts        []string
	Temperature  float64
	GoogleSearch bool
}

// Client generates content with Gemini models.
type Client struct {
	models   *googleai.Models
	model    string
	baseURL  string
	client   *http.Client
	limiter  *rate.Limiter
	backoffs []time.Duration
	logger   *zerolog.Logger
}

// Option configures Client.
type Option func(c *Client)

// WithBaseURL overrides Gemini API base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithModel overrides default model.
func WithModel(model string) Option {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithHTTPClient overrides default http client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.client = client
	}
}

// WithRateInterval sets minimal interval between calls. Zero disables pacing.
func WithRateInterval(interval time.Duration) Option {
	return func(c *Client) {
		if interval <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		c.limiter = rate.NewLimiter(rate.Every(interval), 1)
	}
}

// WithBackoffs overrides delays between retries.
func WithBackoffs(backoffs ...time.Duration) Option {
	return func(c *Client) {
		c.backoffs = backoffs
	}
}

// NewClient returns new Client. Client without API key is created, but every Generate call fails with ErrNotConfigured.
func NewClient(ctx context.Context, apiKey string, logger *zerolog.Logger, opts ...Option) (*Client, error) {
	c := &Client{
		model:    DefaultModel,
		client:   &http.Client{Timeout: 60 * time.Second},
		limiter:  rate.NewLimiter(rate.Every(time.Second), 1),
		backoffs: []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second},
		logger:   logger,
	}

	for _, opt := range opts {
		opt(c)
	}

	if apiKey == "" {
		return c, nil
	}

	sdk, err := googleai.NewClient(ctx, &googleai.ClientConfig{
		APIKey:     apiKey,
		Backend:    googleai.BackendGeminiAPI,
		HTTPClient: c.client,
		HTTPOptions: googleai.HTTPOptions{
			BaseURL:    c.baseURL,
			APIVersion: APIVersion,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("can't create genai client: %w", err)
	}
	c.models = sdk.Models

	return c, nil
}

// Model returns name of the model used for generation.
func (c *Client) Model() string {
	return c.model
}

// Generate sends request to the model and returns concatenated text of the first candidate.
func (c *Client) Generate(ctx context.Context, req Request) (string, error) {
	if c.models == nil {
		return "", ErrNotConfigured
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter: %w", err)
	}

	resp, err := c.generateWithRetry(ctx, req)
	if err != nil {
		return "", err
	}

	text := responseText(resp)
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyResponse
	}

	c.logger.Debug().
		Str("model", c.model).
		Int("content_length", len(text)).
		Str("finish_reason", finishReason(resp)).
		Msg("model response received")

	return text, nil
}

// generateWithRetry calls the model and retries on rate limiting, 5xx responses and transport errors.
// Retry delay requested by rate limited response is honored.
func (c *Client) generateWithRetry(ctx context.Context, req Request) (*googleai.GenerateContentResponse, error) {
	contents, config := newGenerateRequest(req)

	var lastErr error
	for attempt := 0; attempt <= len(c.backoffs); attempt++ {
		resp, err := c.models.GenerateContent(ctx, c.model, contents, config)
		if err == nil {
			return resp, nil
		}
		if ctx.Err() != nil {
			return nil, fmt.Errorf("request cancelled: %w", ctx.Err())
		}

		delay, retryable := c.retryDelay(err, attempt)
		lastErr = wrapError(err)
		if !retryable || attempt == len(c.backoffs) {
			break
		}

		c.logger.Warn().Err(lastErr).Int("attempt", attempt+1).Dur("delay", delay).Msg("retrying generation request")

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}

	return nil, lastErr
}

// retryDelay returns delay before next attempt and whether failed call should be retried at all.
func (c *Client) retryDelay(err error, attempt int) (time.Duration, bool) {
	delay := time.Duration(0)
	if attempt < len(c.backoffs) {
		delay = c.backoffs[attempt]
	}

	apiErr, ok := asAPIError(err)
	if !ok {
		return delay, true
	}

	switch {
	case apiErr.Code == http.StatusTooManyRequests:
		if retryAfter := retryInfoDelay(apiErr.Details); retryAfter > 0 {
			delay = retryAfter
		}
		return delay, true
	case apiErr.Code >= http.StatusInternalServerError:
		return delay, true
	default:
		return 0, false
	}
}

// retryInfoDelay returns delay of google.rpc.RetryInfo error detail, capped at maxRetryAfter.
func retryInfoDelay(details []map[string]any) time.Duration {
	for _, detail := range details {
		kind, _ := detail["@type"].(string)
		if !strings.HasSuffix(kind, "google.rpc.RetryInfo") {
			continue
		}

		value, _ := detail["retryDelay"].(string)
		delay, err := time.ParseDuration(value)
		if err != nil || delay <= 0 {
			return 0
		}

		return min(delay, maxRetryAfter)
	}

	return 0
}

func asAPIError(err error) (googleai.APIError, bool) {
	var apiErr googleai.APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}

	var apiErrPtr *googleai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return *apiErrPtr, true
	}

	return googleai.APIError{}, false
}

func wrapError(err error) error {
	if apiErr, ok := asAPIError(err); ok {
		return &StatusError{Code: apiErr.Code, Body: apiErr.Message}
	}

	return fmt.Errorf("can't generate content: %w", err)
}

// StatusError is returned when API responds with status different than 200 OK.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("generation API error (status %d): %s", e.Code, e.Body)
}
