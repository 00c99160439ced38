// Package pdf validates and reads the PDF handed to bibref.
package pdf

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ledongthuc/pdf"
)

var (
	// ErrNotFound indicates the PDF path does not exist.
	ErrNotFound = errors.New("PDF does not exist")

	// ErrNotAFile indicates the path exists but is not a regular file.
	ErrNotAFile = errors.New("PDF path is not a regular file")
)

// Handle is a validated path to a readable PDF file.
type Handle struct {
	Path string
	Size int64
}

// Open checks that path names an existing regular file and returns a handle.
func Open(path string) (*Handle, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("checking PDF: %w", err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s", ErrNotAFile, path)
	}
	return &Handle{Path: path, Size: info.Size()}, nil
}

// Filename returns the base name sent along with uploads.
func (h *Handle) Filename() string {
	return filepath.Base(h.Path)
}

// ReadAll returns the full byte content of the PDF.
func (h *Handle) ReadAll() ([]byte, error) {
	data, err := os.ReadFile(h.Path)
	if err != nil {
		return nil, fmt.Errorf("reading PDF: %w", err)
	}
	return data, nil
}

// PageCount parses the PDF and returns its number of pages.
// Extraction does not depend on it; callers use it for diagnostics.
func (h *Handle) PageCount() (n int, err error) {
	// The parser panics on some corrupt cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			n, err = 0, fmt.Errorf("parsing PDF: %v", r)
		}
	}()

	f, r, err := pdf.Open(h.Path)
	if err != nil {
		return 0, fmt.Errorf("parsing PDF: %w", err)
	}
	defer f.Close()
	return r.NumPage(), nil
}
