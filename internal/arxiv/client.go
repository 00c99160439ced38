package arxiv

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/matsen/bibref/internal/urlenc"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the arXiv export API host.
	DefaultBaseURL = "http://export.arxiv.org"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 10 * time.Second

	// RequestInterval is the spacing arXiv asks API clients to keep between
	// consecutive calls.
	RequestInterval = 3 * time.Second

	apiPathQuery = "/api/query"
	userAgent    = "bibref (https://github.com/matsen/bibref)"
)

// Entry is the part of an Atom feed entry bibref uses.
type Entry struct {
	ID    string `xml:"id"`
	Title string `xml:"title"`
}

// ArXivID returns the identifier encoded in the entry's abstract URL.
func (e Entry) ArXivID() (string, bool) {
	return IDFromAbsURL(e.ID)
}

type feed struct {
	XMLName xml.Name `xml:"feed"`
	Entries []Entry  `xml:"entry"`
}

// Client is a rate-limited HTTP client for the arXiv search API.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
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

// WithLimiter replaces the request rate limiter.
func WithLimiter(l *rate.Limiter) ClientOption {
	return func(c *Client) {
		c.limiter = l
	}
}

// NewClient creates a new arXiv API client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Every(RequestInterval), 1),
		baseURL:    DefaultBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SearchTitle returns the top entry of a title-field search.
func (c *Client) SearchTitle(ctx context.Context, title string) (*Entry, error) {
	if strings.TrimSpace(title) == "" {
		return nil, ErrEmptyQuery
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	// Built by hand: url.Values would encode spaces as "+".
	u := c.baseURL + apiPathQuery + "?search_query=ti:" + urlenc.Encode(title) + "&start=0&max_results=1"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/atom+xml")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: resp.Status}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", ErrNetworkError, err)
	}

	var f feed
	if err := xml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: decoding feed: %v", ErrInvalidResponse, err)
	}
	if len(f.Entries) == 0 {
		return nil, ErrNotFound
	}

	e := f.Entries[0]
	e.ID = strings.TrimSpace(e.ID)
	e.Title = strings.Join(strings.Fields(e.Title), " ")
	return &e, nil
}
