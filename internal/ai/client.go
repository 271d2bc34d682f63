package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/mrz1836/customizer/internal/constants"
	"github.com/mrz1836/customizer/internal/domain"
	cerrors "github.com/mrz1836/customizer/internal/errors"
)

// maxResponseBytes bounds how much of a response body is read.
const maxResponseBytes = 8 << 20

// Client calls the Anthropic Messages API.
type Client struct {
	BaseRunner

	apiKey     string
	baseURL    string
	model      string
	maxTokens  int
	httpClient *http.Client
	limiter    *rate.Limiter
}

// Ensure Client implements Runner.
var _ Runner = (*Client)(nil)

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL sets the API base URL, e.g. "https://api.anthropic.com/v1".
func WithBaseURL(u string) ClientOption {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithDefaultModel sets the model used when a request names none.
func WithDefaultModel(model string) ClientOption {
	return func(c *Client) { c.model = model }
}

// WithDefaultMaxTokens sets the token cap used when a request sets none.
func WithDefaultMaxTokens(n int) ClientOption {
	return func(c *Client) { c.maxTokens = n }
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// WithRateLimit limits outgoing requests to rps per second with the given
// burst. rps <= 0 disables limiting.
func WithRateLimit(rps float64, burst int) ClientOption {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithRetry sets the attempt count and default timeout.
func WithRetry(maxAttempts int, timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.MaxAttempts = maxAttempts
		c.Timeout = timeout
	}
}

// WithClientLogger sets the logger used for retry diagnostics.
func WithClientLogger(l zerolog.Logger) ClientOption {
	return func(c *Client) { c.Logger = l }
}

// NewClient creates a Client. An empty apiKey fails with ErrAPIKeyMissing.
func NewClient(apiKey string, opts ...ClientOption) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, cerrors.ErrAPIKeyMissing
	}

	c := &Client{
		BaseRunner: BaseRunner{
			Timeout:     constants.DefaultAITimeout,
			MaxAttempts: constants.MaxRetryAttempts,
			ErrType:     cerrors.ErrLLMInvocation,
			Logger:      zerolog.Nop(),
		},
		apiKey:     apiKey,
		baseURL:    constants.DefaultAnthropicBaseURL,
		model:      constants.DefaultModel,
		maxTokens:  constants.DefaultMaxTokens,
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// NewClientFromEnv reads the API key from envVar.
func NewClientFromEnv(envVar string, opts ...ClientOption) (*Client, error) {
	key := os.Getenv(envVar)
	if key == "" {
		return nil, fmt.Errorf("%w: %s is not set", cerrors.ErrAPIKeyMissing, envVar)
	}
	return NewClient(key, opts...)
}

// Model returns the default model.
func (c *Client) Model() string {
	return c.model
}

// Run sends req and returns the text response.
func (c *Client) Run(ctx context.Context, req *domain.AIRequest) (*domain.AIResult, error) {
	return c.RunWithTimeout(ctx, req, c.execute)
}

func (c *Client) execute(ctx context.Context, req *domain.AIRequest) (*domain.AIResult, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: %w: %w", cerrors.ErrRateLimited, errLimiterWait, err)
		}
	}

	body := messagesRequest{
		Model:       c.model,
		MaxTokens:   c.maxTokens,
		System:      req.SystemPrompt,
		Messages:    buildMessages(req),
		Temperature: req.Temperature,
	}
	if req.Model != "" {
		body.Model = req.Model
	}
	if req.MaxTokens > 0 {
		body.MaxTokens = req.MaxTokens
	}
	if len(body.Messages) == 0 {
		return nil, fmt.Errorf("%w: empty prompt", cerrors.ErrAIInvalidFormat)
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal request: %w", cerrors.ErrAIInvalidFormat, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/messages", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %w", cerrors.ErrLLMInvocation, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.apiKey)
	httpReq.Header.Set("anthropic-version", constants.AnthropicVersion)

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	c.Logger.Debug().
		Str("model", body.Model).
		Int("status", resp.StatusCode).
		Int("messages", len(body.Messages)).
		Dur("latency", time.Since(start)).
		Msg("anthropic response")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, parseAPIError(resp.StatusCode, data)
	}
	return parseMessagesResponse(data)
}
