package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matsen/bibref/internal/pipeline"
)

// Title truncation length in the human run summary.
const ReferenceMaxLen = 70

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputHuman writes a human-readable string to stdout.
func outputHuman(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// exitWithError reports an error and exits.
func exitWithError(code int, format string, args ...interface{}) {
	writeError(os.Stdout, os.Stderr, fmt.Sprintf(format, args...))
	os.Exit(code)
}

// writeError always puts a diagnostic line on stderr. In JSON mode the
// error object also goes to stdout.
func writeError(stdout, stderr io.Writer, msg string) {
	fmt.Fprintf(stderr, "error: %s\n", msg)
	if !humanOutput {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(ErrorResponse{Error: msg})
	}
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// RunResponse is the response for a pipeline run.
type RunResponse struct {
	*pipeline.Result
	Total    int `json:"total"`
	Resolved int `json:"resolved"`
}

// ResolveResponse is the response for the resolve command.
type ResolveResponse struct {
	Reference string `json:"reference"`
	Found     bool   `json:"found"`
	DOI       string `json:"doi,omitempty"`
	Source    string `json:"source,omitempty"`
}

// ServiceStatusResponse is the response for the service commands.
type ServiceStatusResponse struct {
	URL      string `json:"url"`
	Healthy  bool   `json:"healthy"`
	Launched bool   `json:"launched"`
	PID      int    `json:"pid,omitempty"`
}

// printRunHuman prints a run summary, one line per reference.
func printRunHuman(result *pipeline.Result) {
	for i, e := range result.References {
		doi := e.DOI
		if doi == "" {
			doi = "-"
		}
		fmt.Printf("%3d. %s\n     %s\n", i+1, truncateString(e.Reference, ReferenceMaxLen), doi)
	}
	if len(result.References) > 0 {
		fmt.Println()
	}
	fmt.Printf("Resolved %d of %d references\n", result.Resolved(), len(result.References))
	fmt.Printf("References written to %s\n", result.OutputPath)
}

// truncateString truncates a string to maxLen runes, adding "..." if truncated.
func truncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}
