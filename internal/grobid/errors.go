package grobid

import (
	"errors"
	"fmt"
)

// Common errors returned by the GROBID client and supervisor.
var (
	// ErrNetwork indicates the service could not be reached.
	ErrNetwork = errors.New("network error communicating with GROBID")

	// ErrStartTimeout indicates the subprocess did not start in time.
	ErrStartTimeout = errors.New("GROBID process did not start in time")

	// ErrExited indicates the launched subprocess exited before it became healthy.
	ErrExited = errors.New("GROBID process exited before becoming healthy")

	// ErrNotReady indicates the service never answered its health check
	// within the polling budget.
	ErrNotReady = errors.New("GROBID did not respond in time")
)

// APIError represents a non-2xx response from the GROBID service.
type APIError struct {
	StatusCode int
	Endpoint   string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("GROBID API error (status %d, %s): %s", e.StatusCode, e.Endpoint, e.Message)
	}
	return fmt.Sprintf("GROBID API error (status %d, %s)", e.StatusCode, e.Endpoint)
}

// IsUnavailable returns true if the error means the service is not usable:
// it could not be reached, never started, or never became healthy.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrNetwork) ||
		errors.Is(err, ErrStartTimeout) ||
		errors.Is(err, ErrExited) ||
		errors.Is(err, ErrNotReady)
}
