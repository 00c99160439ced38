package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/matsen/bibref/internal/grobid"
	"github.com/matsen/bibref/internal/pipeline"
)

func TestExitCodeFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"success", nil, ExitSuccess},
		{"pdf missing", fmt.Errorf("%w: paper.pdf", pipeline.ErrPDFNotFound), ExitPDFNotFound},
		{"service down", fmt.Errorf("%w: %w", pipeline.ErrServiceUnavailable, grobid.ErrNotReady), ExitServiceUnavailable},
		{"upload rejected", fmt.Errorf("%w: %w", pipeline.ErrExtractionFailed, &grobid.APIError{StatusCode: 500}), ExitExtractionFailed},
		{"service down outside the pipeline", fmt.Errorf("status: %w", grobid.ErrNotReady), ExitServiceUnavailable},
		{"interrupted", context.Canceled, ExitError},
		{"other", errors.New("disk full"), ExitError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCodeFor(tt.err); got != tt.want {
				t.Errorf("exitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestExitCodesAreDistinct(t *testing.T) {
	codes := []int{ExitSuccess, ExitError, ExitConfigError, ExitPDFNotFound, ExitServiceUnavailable, ExitExtractionFailed}
	seen := make(map[int]bool)
	for _, c := range codes {
		if seen[c] {
			t.Errorf("exit code %d used twice", c)
		}
		seen[c] = true
	}
}

func TestRequirePDF(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr bool
	}{
		{"one path", []string{"paper.pdf"}, false},
		{"missing", nil, true},
		{"too many", []string{"a.pdf", "b.pdf"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := requirePDF(rootCmd, tt.args)
			if (err != nil) != tt.wantErr {
				t.Errorf("requirePDF(%v) error = %v, wantErr %v", tt.args, err, tt.wantErr)
			}
		})
	}
}

func TestTruncateString(t *testing.T) {
	tests := []struct {
		in     string
		maxLen int
		want   string
	}{
		{"short", 10, "short"},
		{"exactly ten", 11, "exactly ten"},
		{"a much longer reference", 10, "a much ..."},
		{"Schrödinger équation", 9, "Schröd..."},
		{"ééééé", 5, "ééééé"},
	}

	for _, tt := range tests {
		if got := truncateString(tt.in, tt.maxLen); got != tt.want {
			t.Errorf("truncateString(%q, %d) = %q, want %q", tt.in, tt.maxLen, got, tt.want)
		}
	}
}

func TestTruncateString_KeepsValidUTF8(t *testing.T) {
	got := truncateString(strings.Repeat("é", 100), ReferenceMaxLen)
	if !utf8.ValidString(got) {
		t.Errorf("truncateString() produced invalid UTF-8: %q", got)
	}
}

func TestWriteError(t *testing.T) {
	tests := []struct {
		name       string
		human      bool
		wantStdout bool
	}{
		{"json mode", false, true},
		{"human mode", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			saved := humanOutput
			humanOutput = tt.human
			defer func() { humanOutput = saved }()

			var stdout, stderr bytes.Buffer
			writeError(&stdout, &stderr, "PDF not found: /tmp/nope.pdf")

			if got := stderr.String(); got != "error: PDF not found: /tmp/nope.pdf\n" {
				t.Errorf("stderr = %q", got)
			}

			if !tt.wantStdout {
				if stdout.Len() != 0 {
					t.Errorf("stdout = %q, want empty", stdout.String())
				}
				return
			}
			var resp ErrorResponse
			if err := json.Unmarshal(stdout.Bytes(), &resp); err != nil {
				t.Fatalf("stdout is not JSON: %v", err)
			}
			if resp.Error != "PDF not found: /tmp/nope.pdf" {
				t.Errorf("stdout error = %q", resp.Error)
			}
		})
	}
}
