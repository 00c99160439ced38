package pipeline

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// FormatEntries renders entries as a markdown list. A resolved entry gets its
// DOI on an indented continuation line.
func FormatEntries(w io.Writer, entries []Entry) error {
	for _, e := range entries {
		line := "- " + e.Reference
		if e.DOI != "" {
			line += "  \n  DOI: " + e.DOI
		}
		if _, err := io.WriteString(w, line+"\n"); err != nil {
			return err
		}
	}
	return nil
}

// WriteMarkdown writes entries to path atomically.
// Uses temp file + rename so a failed run never leaves a partial file.
func WriteMarkdown(path string, entries []Entry) error {
	dir := filepath.Dir(path)
	tmpFile, err := os.CreateTemp(dir, ".tmp-*.md")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if err := tmpFile.Chmod(0o644); err != nil {
		tmpFile.Close()
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := FormatEntries(tmpFile, entries); err != nil {
		tmpFile.Close()
		return fmt.Errorf("writing references: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("renaming temp file: %w", err)
	}

	success = true
	return nil
}
