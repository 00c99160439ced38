package main

import (
	"fmt"
	"io"
	"os"

	"github.com/matsen/bibref/internal/arxiv"
	"github.com/matsen/bibref/internal/config"
	"github.com/matsen/bibref/internal/crossref"
	"github.com/matsen/bibref/internal/grobid"
	"github.com/matsen/bibref/internal/resolve"
	"github.com/rs/zerolog"
)

// mustLoadConfig loads configuration, exits on error.
func mustLoadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, config.HelpfulConfigMessage())
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	return cfg
}

// newLogger returns the stderr logger. --verbose forces debug level.
func newLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	if verbose {
		level = zerolog.DebugLevel
	}

	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	return zerolog.New(output).Level(level).With().Timestamp().Logger()
}

func newGrobidClient(cfg *config.Config) *grobid.Client {
	return grobid.NewClient(
		grobid.WithBaseURL(cfg.GrobidURL),
		grobid.WithConsolidation(consolidate),
	)
}

// newSupervisor wires a supervisor that launches the configured command.
// GROBID's own console output only shows up with --verbose.
func newSupervisor(cfg *config.Config, client *grobid.Client, logger zerolog.Logger) *grobid.Supervisor {
	var serviceOutput io.Writer
	if verbose {
		serviceOutput = os.Stderr
	}
	launcher := &grobid.ExecLauncher{
		Command: config.ExpandPath(cfg.GrobidCommand),
		Args:    cfg.ExpandedGrobidArgs(),
		Output:  serviceOutput,
	}
	return grobid.NewSupervisor(client, launcher, grobid.WithLogger(logger))
}

func newResolver(cfg *config.Config, logger zerolog.Logger) *resolve.Resolver {
	ax := arxiv.NewClient(arxiv.WithBaseURL(cfg.ArXivURL))
	cr := crossref.NewClient(
		crossref.WithBaseURL(cfg.CrossrefURL),
		crossref.WithMailto(cfg.CrossrefMailto),
	)
	return resolve.New(resolve.Default(ax, cr), resolve.WithLogger(logger))
}
