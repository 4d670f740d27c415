// Package hfclient implements driven.ItemDetector against a hosted
// image-classification inference endpoint.
package hfclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/vendee/vendee/internal/core/domain"
	"github.com/vendee/vendee/internal/core/ports/driven"
	"github.com/vendee/vendee/internal/logger"
)

// Ensure Client implements the interface.
var _ driven.ItemDetector = (*Client)(nil)

// DefaultEndpoint is the fruit and vegetable classifier.
const DefaultEndpoint = "https://api-inference.huggingface.co/models/jazzmacedo/fruits-and-vegetables-detector-36"

// Defaults for Config fields left zero.
const (
	DefaultTimeout           = 30 * time.Second
	DefaultRequestsPerSecond = 2.0
	DefaultMaxRetries        = 3
	DefaultBackoff           = 2 * time.Second
)

// maxErrorBody bounds how much of an error response is kept.
const maxErrorBody = 512

// Config configures the inference client.
type Config struct {
	// Endpoint is the model URL. Empty means DefaultEndpoint.
	Endpoint string

	// Token is sent as a bearer token when set.
	Token string

	// RequestsPerSecond bounds the request rate.
	RequestsPerSecond float64

	// Timeout bounds each HTTP request.
	Timeout time.Duration

	// MaxRetries is how often a throttled or loading model is retried.
	MaxRetries int

	// Backoff is the wait used when the server gives no Retry-After.
	Backoff time.Duration
}

func (c Config) withDefaults() Config {
	if c.Endpoint == "" {
		c.Endpoint = DefaultEndpoint
	}
	if c.RequestsPerSecond <= 0 {
		c.RequestsPerSecond = DefaultRequestsPerSecond
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = DefaultMaxRetries
	}
	if c.Backoff <= 0 {
		c.Backoff = DefaultBackoff
	}
	return c
}

// Client classifies cart photos over HTTP.
type Client struct {
	cfg     Config
	http    *http.Client
	limiter *RateLimiter
}

// New creates a client. When a token is configured, requests carry it via
// an oauth2 static token source.
func New(cfg Config) *Client {
	cfg = cfg.withDefaults()

	httpClient := &http.Client{Timeout: cfg.Timeout}
	if cfg.Token != "" {
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, httpClient)
		httpClient = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: cfg.Token,
			TokenType:   "Bearer",
		}))
		httpClient.Timeout = cfg.Timeout
	}

	return &Client{
		cfg:     cfg,
		http:    httpClient,
		limiter: NewRateLimiter(cfg.RequestsPerSecond, 1),
	}
}

// prediction is one entry of the classifier response.
type prediction struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Detect sends the image and returns labels, highest confidence first.
// Rate-limited (429) and loading (503) responses are retried after the
// server's Retry-After or the configured backoff.
func (c *Client) Detect(ctx context.Context, image []byte) ([]domain.DetectedItem, error) {
	if len(image) == 0 {
		return nil, fmt.Errorf("%w: empty image", domain.ErrInvalidInput)
	}

	var lastErr error
	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		items, retryAfter, err := c.detectOnce(ctx, image)
		if err == nil {
			return items, nil
		}
		lastErr = err
		if retryAfter < 0 {
			return nil, err
		}
		logger.Debug("Detection attempt %d failed, retrying in %s: %v", attempt+1, retryAfter, err)
		c.limiter.Backoff(retryAfter)
	}
	return nil, fmt.Errorf("detection retries exhausted: %w", lastErr)
}

// detectOnce performs one request. A non-negative retryAfter marks the
// error as retryable.
func (c *Client) detectOnce(ctx context.Context, image []byte) ([]domain.DetectedItem, time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(image))
	if err != nil {
		return nil, -1, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, -1, fmt.Errorf("calling detector: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusTooManyRequests, http.StatusServiceUnavailable:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, c.retryAfter(resp.Header.Get("Retry-After")),
			fmt.Errorf("detector unavailable (%d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, -1, fmt.Errorf("detector returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var predictions []prediction
	if err := json.NewDecoder(resp.Body).Decode(&predictions); err != nil {
		return nil, -1, fmt.Errorf("decoding detector response: %w", err)
	}

	items := make([]domain.DetectedItem, 0, len(predictions))
	for _, p := range predictions {
		items = append(items, domain.DetectedItem{Label: p.Label, Confidence: p.Score})
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Confidence > items[j].Confidence
	})
	return items, 0, nil
}

// retryAfter parses a Retry-After value in seconds.
func (c *Client) retryAfter(header string) time.Duration {
	if secs, err := strconv.Atoi(strings.TrimSpace(header)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	return c.cfg.Backoff
}

// Close releases idle connections.
func (c *Client) Close() error {
	c.http.CloseIdleConnections()
	return nil
}
