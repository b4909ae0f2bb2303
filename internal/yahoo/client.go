// Package yahoo wraps the Yahoo Finance public JSON API behind a minimal
// capability interface: quote, search, chart. It owns no business logic;
// callers get narrow record types and classified errors.
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	apperrors "stockdata-mcp/internal/errors"
	"stockdata-mcp/pkg/utils"
)

// Default endpoints for the public Yahoo Finance API.
const (
	DefaultQuoteBaseURL  = "https://query1.finance.yahoo.com/v7/finance/quote"
	DefaultSearchBaseURL = "https://query1.finance.yahoo.com/v1/finance/search"
	DefaultChartBaseURL  = "https://query1.finance.yahoo.com/v8/finance/chart"
)

// HTTPDoer describes an HTTP client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is a client for the Yahoo Finance API.
type Client struct {
	quoteBaseURL  string
	searchBaseURL string
	chartBaseURL  string
	httpClient    HTTPDoer
	userAgent     string
	retry         utils.RetryConfig
}

// Option is a configuration option for the client.
type Option func(*Client)

// WithBaseURLs overrides the quote, search, and chart endpoints.
// Empty strings leave the corresponding default in place.
func WithBaseURLs(quote, search, chart string) Option {
	return func(c *Client) {
		if quote != "" {
			c.quoteBaseURL = quote
		}
		if search != "" {
			c.searchBaseURL = search
		}
		if chart != "" {
			c.chartBaseURL = chart
		}
	}
}

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(httpClient HTTPDoer) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithUserAgent sets the User-Agent header sent with each request.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithRetryConfig sets the retry policy for upstream calls. The default is
// a single attempt; retries are never hidden elsewhere.
func WithRetryConfig(cfg utils.RetryConfig) Option {
	return func(c *Client) {
		c.retry = cfg
	}
}

// NewClient creates a new Yahoo Finance API client.
func NewClient(options ...Option) *Client {
	c := &Client{
		quoteBaseURL:  DefaultQuoteBaseURL,
		searchBaseURL: DefaultSearchBaseURL,
		chartBaseURL:  DefaultChartBaseURL,
		httpClient:    &http.Client{Timeout: 30 * time.Second},
		userAgent:     "stockdata-mcp/1.0",
		retry:         utils.NoRetry(),
	}
	for _, option := range options {
		option(c)
	}
	return c
}

// getJSON performs a GET against rawURL with params and decodes the body
// into target. Non-2xx statuses are classified before being returned.
func (c *Client) getJSON(ctx context.Context, operation, rawURL string, params url.Values, target interface{}) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return apperrors.Wrapf(err, "parsing %s URL", operation)
	}
	u.RawQuery = params.Encode()

	body, err := utils.RetryWithResult(ctx, c.retry, func() ([]byte, error) {
		return c.fetch(ctx, operation, u.String())
	})
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, target); err != nil {
		return apperrors.NewUpstreamError(operation, apperrors.Wrap(err, "decoding response"))
	}
	return nil
}

func (c *Client) fetch(ctx context.Context, operation, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, apperrors.NewUpstreamError(operation, err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.NewUpstreamError(operation, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.NewUpstreamError(operation, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, classifyHTTPError(operation, resp.StatusCode, body)
	}
	return body, nil
}

// classifyHTTPError maps upstream HTTP failures onto the error taxonomy.
// Not-found and rate-limit signatures get sentinel classifications; anything
// else passes through as an upstream error with the original status.
func classifyHTTPError(operation string, status int, body []byte) error {
	text := string(body)
	switch {
	case status == http.StatusNotFound || containsNotFoundSignature(text):
		return apperrors.Wrapf(apperrors.ErrNotFound, "upstream %s returned status %d", operation, status)
	case status == http.StatusTooManyRequests || strings.Contains(text, "Too Many Requests"):
		return apperrors.Wrapf(apperrors.ErrRateLimited, "upstream %s returned status %d", operation, status)
	default:
		return apperrors.NewUpstreamError(operation, fmt.Errorf("unexpected status %d: %s", status, truncate(text, 200)))
	}
}

func containsNotFoundSignature(body string) bool {
	return strings.Contains(body, "Not Found") ||
		strings.Contains(body, "No data found") ||
		strings.Contains(body, "No definition found")
}

// apiError is the error object Yahoo embeds in otherwise successful responses.
type apiError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// classifyAPIError maps an embedded API error onto the error taxonomy.
func classifyAPIError(operation string, apiErr *apiError) error {
	if apiErr == nil {
		return nil
	}
	combined := apiErr.Code + ": " + apiErr.Description
	switch {
	case containsNotFoundSignature(combined):
		return apperrors.Wrapf(apperrors.ErrNotFound, "upstream %s reported %s", operation, combined)
	case strings.Contains(combined, "Too Many Requests"):
		return apperrors.Wrapf(apperrors.ErrRateLimited, "upstream %s reported %s", operation, combined)
	default:
		return apperrors.NewUpstreamError(operation, fmt.Errorf("%s", combined))
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
