// Package config handles bibref configuration.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// Config holds the effective settings for a bibref run.
type Config struct {
	GrobidURL      string   `yaml:"grobid_url,omitempty" json:"grobid_url"`
	GrobidCommand  string   `yaml:"grobid_command,omitempty" json:"grobid_command"`
	GrobidArgs     []string `yaml:"grobid_args,omitempty" json:"grobid_args"`
	ArXivURL       string   `yaml:"arxiv_url,omitempty" json:"arxiv_url"`
	CrossrefURL    string   `yaml:"crossref_url,omitempty" json:"crossref_url"`
	CrossrefMailto string   `yaml:"crossref_mailto,omitempty" json:"crossref_mailto"`
	LogLevel       string   `yaml:"log_level,omitempty" json:"log_level"`
}

const (
	DefaultGrobidURL     = "http://localhost:8070"
	DefaultGrobidCommand = "java"
	DefaultGrobidJar     = "~/grobid/grobid-core/build/libs/grobid-core-0.8.3-SNAPSHOT.jar"
	DefaultArXivURL      = "http://export.arxiv.org"
	DefaultCrossrefURL   = "https://api.crossref.org"
	DefaultMailto        = "you@example.com"
	DefaultLogLevel      = "info"
)

// ValidLogLevels lists the accepted log_level values.
var ValidLogLevels = []string{"debug", "info", "warn", "error"}

// Default returns the configuration used when nothing is configured.
func Default() *Config {
	return &Config{
		GrobidURL:      DefaultGrobidURL,
		GrobidCommand:  DefaultGrobidCommand,
		GrobidArgs:     []string{"-jar", DefaultGrobidJar, "server"},
		ArXivURL:       DefaultArXivURL,
		CrossrefURL:    DefaultCrossrefURL,
		CrossrefMailto: DefaultMailto,
		LogLevel:       DefaultLogLevel,
	}
}

// merge copies every non-empty field of other over c.
func (c *Config) merge(other *Config) {
	if other.GrobidURL != "" {
		c.GrobidURL = other.GrobidURL
	}
	if other.GrobidCommand != "" {
		c.GrobidCommand = other.GrobidCommand
	}
	if len(other.GrobidArgs) > 0 {
		c.GrobidArgs = other.GrobidArgs
	}
	if other.ArXivURL != "" {
		c.ArXivURL = other.ArXivURL
	}
	if other.CrossrefURL != "" {
		c.CrossrefURL = other.CrossrefURL
	}
	if other.CrossrefMailto != "" {
		c.CrossrefMailto = other.CrossrefMailto
	}
	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}
}

// Validate checks that service URLs parse and the log level is known.
func (c *Config) Validate() error {
	for name, raw := range map[string]string{
		"grobid_url":   c.GrobidURL,
		"arxiv_url":    c.ArXivURL,
		"crossref_url": c.CrossrefURL,
	} {
		if err := validateURL(raw); err != nil {
			return fmt.Errorf("invalid %s: %w", name, err)
		}
	}

	if c.GrobidCommand == "" {
		return fmt.Errorf("grobid_command must not be empty")
	}

	for _, valid := range ValidLogLevels {
		if c.LogLevel == valid {
			return nil
		}
	}
	return fmt.Errorf("invalid log_level: %s (valid: %v)", c.LogLevel, ValidLogLevels)
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%q must use http or https", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("%q has no host", raw)
	}
	return nil
}

// ExpandedGrobidArgs returns GrobidArgs with a leading ~ in each argument
// expanded to the user's home directory.
func (c *Config) ExpandedGrobidArgs() []string {
	args := make([]string, len(c.GrobidArgs))
	for i, a := range c.GrobidArgs {
		args[i] = ExpandPath(a)
	}
	return args
}

// ExpandPath expands ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandPath(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}
	if len(path) > 1 && path[1] != '/' {
		return path // ~user is not supported
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path // Return original if we can't get home directory
	}

	return filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
}
