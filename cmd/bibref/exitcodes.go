package main

// Exit codes
const (
	ExitSuccess            = 0 // Success
	ExitError              = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError        = 2 // Configuration error (unreadable or invalid config)
	ExitPDFNotFound        = 3 // Input PDF missing or unreadable
	ExitServiceUnavailable = 4 // GROBID unreachable and could not be started
	ExitExtractionFailed   = 5 // GROBID rejected or failed the upload
)
