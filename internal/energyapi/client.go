package energyapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jgoulah/wattboard/pkg/models"
)

// DefaultBaseURL is used when no base URL is configured
const DefaultBaseURL = "http://localhost:3000"

const userAgent = "wattboard/1.0"

// APIError is returned when the energy API answers with a non-2xx status
type APIError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("API returned status %d for %s", e.StatusCode, e.URL)
	}
	return fmt.Sprintf("API returned status %d for %s: %s", e.StatusCode, e.URL, e.Body)
}

// Doer is the subset of *http.Client the API client needs
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to the household energy API
type Client struct {
	baseURL string
	http    Doer
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient swaps the transport, mostly for tests
func WithHTTPClient(d Doer) Option {
	return func(c *Client) {
		c.http = d
	}
}

// WithTimeout sets the overall request timeout. Zero disables it.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.http = &http.Client{Timeout: timeout}
	}
}

// New creates a client for the API rooted at baseURL
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root the client was created with
func (c *Client) BaseURL() string {
	return c.baseURL
}

// TrendsURL builds the query URL for a trend request
func (c *Client) TrendsURL(g models.Granularity, anchor, timezone string) string {
	params := url.Values{}
	params.Set("date", anchor)
	params.Set("timezone", timezone)
	return fmt.Sprintf("%s/trends/%s?%s", c.baseURL, url.PathEscape(string(g)), params.Encode())
}

// FetchTrends retrieves the usage trend for one period and shapes it into a series
func (c *Client) FetchTrends(ctx context.Context, g models.Granularity, anchor, timezone string) (*models.TrendSeries, error) {
	if !g.Valid() {
		return nil, fmt.Errorf("unknown granularity: %q", g)
	}

	var resp models.TrendResponse
	if err := c.getJSON(ctx, c.TrendsURL(g, anchor, timezone), &resp); err != nil {
		return nil, fmt.Errorf("fetching %s trends for %s: %w", g, anchor, err)
	}

	return resp.Series(), nil
}

// FetchInsights retrieves the list of usage insights
func (c *Client) FetchInsights(ctx context.Context) ([]models.Insight, error) {
	var insights []models.Insight
	if err := c.getJSON(ctx, c.baseURL+"/insights", &insights); err != nil {
		return nil, fmt.Errorf("fetching insights: %w", err)
	}
	if insights == nil {
		insights = []models.Insight{}
	}
	return insights, nil
}

func (c *Client) getJSON(ctx context.Context, reqURL string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &APIError{
			StatusCode: resp.StatusCode,
			URL:        reqURL,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	return nil
}
