// Package grobid talks to a GROBID extraction service and supervises a local
// instance of it.
package grobid

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is where a local GROBID server listens.
	DefaultBaseURL = "http://localhost:8070"

	// DefaultHealthTimeout bounds a single health probe.
	DefaultHealthTimeout = 2 * time.Second

	// DefaultUploadTimeout bounds a reference extraction request. Large PDFs
	// take a while to process.
	DefaultUploadTimeout = 60 * time.Second

	apiPathIsAlive           = "/api/isalive"
	apiPathProcessReferences = "/api/processReferences"

	// inputField is the multipart field GROBID reads the PDF from.
	inputField = "input"

	maxErrorBody = 1024
)

// Client is an HTTP client for the GROBID REST API.
type Client struct {
	baseURL     string
	probe       *http.Client
	upload      *http.Client
	consolidate bool
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL sets the GROBID base URL.
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

// WithHealthTimeout sets the timeout of the health probe.
func WithHealthTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.probe.Timeout = timeout
	}
}

// WithUploadTimeout sets the timeout of the reference extraction request.
func WithUploadTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.upload.Timeout = timeout
	}
}

// WithConsolidation asks GROBID to consolidate extracted citations against
// its own bibliographic index before returning them.
func WithConsolidation(enabled bool) ClientOption {
	return func(c *Client) {
		c.consolidate = enabled
	}
}

// NewClient creates a new GROBID client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		probe:   &http.Client{Timeout: DefaultHealthTimeout},
		upload:  &http.Client{Timeout: DefaultUploadTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the service base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// IsAlive probes the health endpoint. It returns nil only on HTTP 200.
func (c *Client) IsAlive(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+apiPathIsAlive, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.probe.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return &APIError{StatusCode: resp.StatusCode, Endpoint: apiPathIsAlive}
	}
	return nil
}

// ProcessReferences uploads a PDF and returns the TEI-XML describing its
// bibliography. The body is returned unvalidated. Failures are not retried.
func (c *Client) ProcessReferences(ctx context.Context, pdf []byte, filename string) (string, error) {
	body, contentType, err := buildUpload(pdf, filename, c.consolidate)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+apiPathProcessReferences, body)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/xml")

	resp, err := c.upload.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return "", &APIError{
			StatusCode: resp.StatusCode,
			Endpoint:   apiPathProcessReferences,
			Message:    strings.TrimSpace(string(msg)),
		}
	}

	tei, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: reading response: %v", ErrNetwork, err)
	}
	return string(tei), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// buildUpload encodes the multipart body. multipart.Writer.CreateFormFile
// always labels parts application/octet-stream, so the part header is
// written by hand.
func buildUpload(pdf []byte, filename string, consolidate bool) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, inputField, quoteEscaper.Replace(filename)))
	h.Set("Content-Type", "application/pdf")

	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", fmt.Errorf("creating multipart part: %w", err)
	}
	if _, err := part.Write(pdf); err != nil {
		return nil, "", fmt.Errorf("writing PDF to request: %w", err)
	}

	if consolidate {
		if err := w.WriteField("consolidateCitations", "1"); err != nil {
			return nil, "", fmt.Errorf("writing form field: %w", err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("closing multipart body: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}
