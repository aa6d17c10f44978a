package crawler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	// defaultPriority is the queue priority attached to every submission.
	defaultPriority = 10

	defaultTimeout       = 30 * time.Second
	defaultSubmitPerSec  = 5
	defaultSubmitBurst   = 5
	maxErrorDetailLength = 512
)

// Client talks to the crawl service. Safe for concurrent use.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
	limiter *rate.Limiter
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.client = hc
		}
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default() scoped to this component.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithSubmitRateLimit overrides the submission rate limit.
func WithSubmitRateLimit(perSec float64, burst int) Option {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(perSec), burst)
	}
}

// NewClient creates a crawl service client. The API key is required here,
// at construction, so a missing secret surfaces at startup rather than on
// the first request.
func NewClient(baseURL, apiKey string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, ErrBaseURLRequired
	}
	if apiKey == "" {
		return nil, ErrAPIKeyRequired
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: defaultTimeout},
		limiter: rate.NewLimiter(rate.Limit(defaultSubmitPerSec), defaultSubmitBurst),
		logger:  slog.Default().With("component", "crawler-client"),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Submit creates a crawl task for targetURL and returns the remote task id.
// A non-2xx response is returned as a *StatusError and is not retried.
func (c *Client) Submit(ctx context.Context, targetURL string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	payload := struct {
		URLs     []string `json:"urls"`
		Priority int      `json:"priority"`
	}{
		URLs:     []string{targetURL},
		Priority: defaultPriority,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/crawl", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("submit crawl: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &StatusError{
			Op:         "submit crawl",
			StatusCode: resp.StatusCode,
			Detail:     readErrorDetail(resp.Body),
		}
	}

	var created struct {
		TaskID string `json:"task_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return "", fmt.Errorf("decode crawl response: %w", err)
	}
	if created.TaskID == "" {
		return "", ErrNoTaskID
	}

	c.logger.Debug("crawl task submitted", "url", targetURL, "task_id", created.TaskID)
	return created.TaskID, nil
}

// Task fetches the current state of a crawl task.
// A non-2xx response is returned as a *StatusError.
func (c *Client) Task(ctx context.Context, taskID string) (*Task, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.TaskStatusURL(taskID), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch task status: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{
			Op:         "fetch task status",
			StatusCode: resp.StatusCode,
			Detail:     readErrorDetail(resp.Body),
		}
	}

	var task Task
	if err := json.NewDecoder(resp.Body).Decode(&task); err != nil {
		return nil, fmt.Errorf("decode task status: %w", err)
	}
	if task.TaskID == "" {
		task.TaskID = taskID
	}

	return &task, nil
}

// TaskStatusURL returns the remote status URL for a task id.
func (c *Client) TaskStatusURL(taskID string) string {
	return c.baseURL + "/task/" + taskID
}

// readErrorDetail extracts a human-readable message from an error body.
// Prefers the service's {"detail": ...} shape, falls back to the raw body.
func readErrorDetail(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, maxErrorDetailLength))
	if err != nil || len(raw) == 0 {
		return ""
	}

	var remote struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(raw, &remote); err == nil && remote.Detail != "" {
		return remote.Detail
	}
	return strings.TrimSpace(string(raw))
}
