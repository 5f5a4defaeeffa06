// Package gateway is the client for the TMDB metadata API. Every exported
// call is best effort: failures are retried, logged and then reported to the
// caller as an absent value or an empty list, never as an error.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/temcen/cineai/internal/config"
)

// StatusError is returned for a non-2xx TMDB response.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("tmdb: unexpected status %d", e.StatusCode)
}

// retryableStatus lists the responses worth another attempt.
var retryableStatus = map[int]bool{
	http.StatusTooManyRequests:     true,
	http.StatusInternalServerError: true,
	http.StatusBadGateway:          true,
	http.StatusServiceUnavailable:  true,
	http.StatusGatewayTimeout:      true,
}

func isRetryable(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return retryableStatus[se.StatusCode]
	}
	// Transport failures, including the per-request timeout.
	return true
}

// Client talks to the TMDB v3 API.
type Client struct {
	baseURL      string
	imageBaseURL string
	apiKey       string
	maxRetries   int
	backoff      time.Duration

	httpClient *http.Client
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker[[]byte]
	cache      *redis.Client
	cacheTTL   time.Duration
	logger     *logrus.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithCache enables caching of poster lookups in Redis.
func WithCache(rdb *redis.Client, ttl time.Duration) Option {
	return func(c *Client) {
		c.cache = rdb
		c.cacheTTL = ttl
	}
}

// WithLimiter replaces the outbound rate limiter.
func WithLimiter(l *rate.Limiter) Option {
	return func(c *Client) { c.limiter = l }
}

func NewClient(cfg config.TMDBConfig, logger *logrus.Logger, opts ...Option) *Client {
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}

	c := &Client{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		imageBaseURL: cfg.ImageBaseURL,
		apiKey:       cfg.APIKey,
		maxRetries:   cfg.MaxRetries,
		backoff:      cfg.BackoffFactor,
		httpClient:   &http.Client{Timeout: cfg.Timeout},
		limiter:      rate.NewLimiter(limit, burst),
		logger:       logger,
	}

	threshold := cfg.BreakerThreshold
	if threshold == 0 {
		threshold = 5
	}
	c.breaker = gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "tmdb",
		MaxRequests: 1,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		// A 404 for an unknown movie says nothing about TMDB's health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled) || !isRetryable(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			breakerState.Set(stateValue(to))
			logger.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("TMDB circuit breaker state changed")
		},
	})

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// get performs a GET against path, retrying transient failures with
// exponential backoff, and returns the response body of a 2xx response.
func (c *Client) get(ctx context.Context, endpoint, path string, params url.Values) ([]byte, error) {
	start := time.Now()
	defer func() {
		requestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	}()

	body, err := c.breaker.Execute(func() ([]byte, error) {
		return c.getWithRetry(ctx, endpoint, path, params)
	})
	switch {
	case err == nil:
		requestsTotal.WithLabelValues(endpoint, "success").Inc()
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		requestsTotal.WithLabelValues(endpoint, "rejected").Inc()
	default:
		requestsTotal.WithLabelValues(endpoint, "failure").Inc()
	}
	return body, err
}

func (c *Client) getWithRetry(ctx context.Context, endpoint, path string, params url.Values) ([]byte, error) {
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.apiKey)
	reqURL := c.baseURL + path + "?" + params.Encode()

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			retriesTotal.WithLabelValues(endpoint).Inc()
			delay := c.backoff * time.Duration(1<<uint(attempt-1))
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		body, err := c.do(ctx, reqURL)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if ctx.Err() != nil || !isRetryable(err) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("tmdb: giving up after %d retries: %w", c.maxRetries, lastErr)
}

func (c *Client) do(ctx context.Context, reqURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("tmdb: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tmdb: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("tmdb: read body: %w", err)
	}
	return body, nil
}

// degrade logs a failed lookup and marks ctx's Outcome. Callers turn it into
// an absent result.
func (c *Client) degrade(ctx context.Context, err error, fields logrus.Fields) {
	MarkDegraded(ctx)
	c.logger.WithError(err).WithFields(fields).Warn("TMDB lookup failed, continuing without metadata")
}
