package pipeline

import "errors"

var (
	// ErrPDFNotFound indicates the input PDF is missing or not a readable file.
	ErrPDFNotFound = errors.New("PDF not found")

	// ErrServiceUnavailable indicates the extraction service could not be
	// reached or started.
	ErrServiceUnavailable = errors.New("extraction service unavailable")

	// ErrExtractionFailed indicates the upload to the extraction service
	// failed or was rejected.
	ErrExtractionFailed = errors.New("reference extraction failed")
)
