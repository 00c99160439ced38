// Package crossref provides a client for the Crossref REST API works search.
package crossref

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/matsen/bibref/internal/urlenc"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the Crossref REST API host.
	DefaultBaseURL = "https://api.crossref.org"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 10 * time.Second

	// RateLimit is the request rate kept against the public pool.
	RateLimit = 10.0

	apiPathWorks = "/works"
)

// Work is the part of a Crossref work record bibref uses.
type Work struct {
	DOI   string   `json:"DOI"`
	Title []string `json:"title,omitempty"`
}

type worksResponse struct {
	Status  string `json:"status"`
	Message struct {
		Items []Work `json:"items"`
	} `json:"message"`
}

// Client is a rate-limited HTTP client for Crossref.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	mailto     string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithMailto sets the contact address sent with every request, which routes
// traffic to Crossref's polite pool.
func WithMailto(mailto string) ClientOption {
	return func(c *Client) {
		c.mailto = mailto
	}
}

// WithLimiter replaces the request rate limiter.
func WithLimiter(l *rate.Limiter) ClientOption {
	return func(c *Client) {
		c.limiter = l
	}
}

// NewClient creates a new Crossref client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(RateLimit), 1),
		baseURL:    DefaultBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SearchTitle returns the best-matching work for a title query.
func (c *Client) SearchTitle(ctx context.Context, title string) (*Work, error) {
	if strings.TrimSpace(title) == "" {
		return nil, ErrEmptyQuery
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	u := c.baseURL + apiPathWorks + "?query.title=" + urlenc.Encode(title) + "&rows=1"
	if c.mailto != "" {
		u += "&mailto=" + urlenc.Encode(c.mailto)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: resp.Status}
	}

	var result worksResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: decoding works: %v", ErrInvalidResponse, err)
	}

	if len(result.Message.Items) == 0 || result.Message.Items[0].DOI == "" {
		return nil, ErrNotFound
	}
	w := result.Message.Items[0]
	return &w, nil
}

func (c *Client) userAgent() string {
	if c.mailto == "" {
		return "bibref (https://github.com/matsen/bibref)"
	}
	return "bibref (https://github.com/matsen/bibref; mailto:" + c.mailto + ")"
}
