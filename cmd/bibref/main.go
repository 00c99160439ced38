// Package main provides the bibref CLI entry point.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/matsen/bibref/internal/grobid"
	"github.com/matsen/bibref/internal/pipeline"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

var (
	// humanOutput controls whether to use human-readable output
	humanOutput bool
	verbose     bool

	outPath     string
	keepService bool
	consolidate bool
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		// Print the error since we have SilenceErrors: true
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "bibref <pdf>",
	Short: "Extract a PDF's bibliography and resolve DOIs",
	Long: `bibref sends a PDF to a GROBID service, extracts every bibliography
entry, and looks up a DOI for each one:

  1. an arXiv identifier cited in the reference itself
  2. an arXiv title search
  3. a Crossref title search

The annotated list is written next to the PDF as <stem>.md. GROBID is
started locally if it is not already running.

Output is JSON by default; use --human for a readable summary.`,
	Example: `  bibref paper.pdf
  bibref paper.pdf --out refs.md --human
  bibref paper.pdf --keep-service --verbose`,
	Args:          requirePDF,
	RunE:          runExtract,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output to stderr")

	rootCmd.Flags().StringVarP(&outPath, "out", "o", "", "Output path (default: <pdf stem>.md next to the PDF)")
	rootCmd.Flags().BoolVar(&keepService, "keep-service", false, "Leave a GROBID instance started by bibref running")
	rootCmd.Flags().BoolVar(&consolidate, "consolidate", false, "Ask GROBID to consolidate citations against its metadata sources")

	rootCmd.Version = Version
}

// requirePDF prints usage and fails unless exactly one PDF path is given.
func requirePDF(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		cmd.SetOut(os.Stderr)
		_ = cmd.Usage()
		return fmt.Errorf("expected exactly one PDF path, got %d arguments", len(args))
	}
	return nil
}

// exitCodeFor maps a pipeline error to the process exit code.
func exitCodeFor(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, pipeline.ErrPDFNotFound):
		return ExitPDFNotFound
	case errors.Is(err, pipeline.ErrServiceUnavailable):
		return ExitServiceUnavailable
	case errors.Is(err, pipeline.ErrExtractionFailed):
		return ExitExtractionFailed
	case grobid.IsUnavailable(err):
		return ExitServiceUnavailable
	default:
		return ExitError
	}
}
