package pricing

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/splitcart/backend/internal/domain"
)

const maxAttempts = 3

// Client handles communication with the store-pricing API
type Client struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	rateLimiter *rate.Limiter
	logger      zerolog.Logger
	debug       bool
}

// ClientConfig holds the tunables for the pricing client
type ClientConfig struct {
	APIKey         string
	BaseURL        string
	Timeout        time.Duration
	RequestsPerMin int
	Burst          int
}

// NewClient creates a new pricing API client
func NewClient(config ClientConfig, logger zerolog.Logger) *Client {
	timeout := config.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	perMin := config.RequestsPerMin
	if perMin <= 0 {
		perMin = 300
	}
	burst := config.Burst
	if burst <= 0 {
		burst = 10
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		apiKey:      config.APIKey,
		baseURL:     strings.TrimSuffix(config.BaseURL, "/"),
		rateLimiter: rate.NewLimiter(rate.Limit(float64(perMin)/60.0), burst),
		logger:      logger.With().Str("client", "pricing").Logger(),
	}
}

// SetDebug toggles per-attempt request logging
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// FetchPrices retrieves per-store prices for the given product keys.
// The response is validated and coerced by the mapper before any row
// reaches the engine. Transient failures are retried with backoff.
func (c *Client) FetchPrices(ctx context.Context, keys []string) ([]domain.ComparisonRow, error) {
	if len(keys) == 0 {
		return nil, domain.ErrInvalidRequest
	}

	endpoint := fmt.Sprintf("%s/v1/prices", c.baseURL)
	params := url.Values{}
	params.Add("keys", strings.Join(keys, ","))
	params.Add("api_key", c.apiKey)
	reqURL := fmt.Sprintf("%s?%s", endpoint, params.Encode())

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		body, status, err := c.doRequest(ctx, reqURL)
		if err != nil {
			if ctx.Err() != nil {
				// Cancelled or superseded; retrying would only deliver stale data.
				return nil, ctx.Err()
			}
			if c.debug {
				c.logger.Debug().Err(err).Int("attempt", attempt).Msg("pricing request failed")
			}
			lastErr = err
			sleepBackoff(ctx, attempt)
			continue
		}

		if status != http.StatusOK {
			statusErr := fmt.Errorf("%w: status %d", domain.ErrPricingUnavailable, status)
			if !retryableStatus(status) {
				// Bad request or bad API key won't get better on retry.
				return nil, statusErr
			}
			if c.debug {
				c.logger.Debug().Int("status", status).Int("attempt", attempt).Msg("pricing request failed")
			}
			lastErr = statusErr
			sleepBackoff(ctx, attempt)
			continue
		}

		rows, err := ParseResponse(body)
		if err != nil {
			return nil, fmt.Errorf("failed to decode pricing response: %w", err)
		}

		if c.debug {
			c.logger.Debug().Int("rows", len(rows)).Int("requested", len(keys)).Msg("pricing response mapped")
		}
		return rows, nil
	}

	return nil, lastErr
}

// doRequest executes one GET and returns the body along with the status code.
func (c *Client) doRequest(ctx context.Context, reqURL string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "SplitCart/1.0")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", domain.ErrPricingUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: reading body: %v", domain.ErrPricingUnavailable, err)
	}

	return body, resp.StatusCode, nil
}

// retryableStatus reports whether a non-200 response is worth another attempt.
// Server errors and throttling are transient; other client errors are not.
func retryableStatus(status int) bool {
	switch {
	case status >= 500:
		return true
	case status == http.StatusTooManyRequests, status == http.StatusRequestTimeout:
		return true
	default:
		return false
	}
}

// sleepBackoff waits 500ms, 1s, 2s between attempts, or returns early on
// context cancellation.
func sleepBackoff(ctx context.Context, attempt int) {
	delay := time.Duration(1<<(attempt-1)) * 500 * time.Millisecond
	select {
	case <-ctx.Done():
	case <-time.After(delay):
	}
}
