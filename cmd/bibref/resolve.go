package main

import (
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(resolveCmd)
}

var resolveCmd = &cobra.Command{
	Use:   "resolve <reference text>",
	Short: "Resolve one reference string to a DOI",
	Long: `Resolve a single free-text reference without going through GROBID.

The same cascade as a full run is used: inline arXiv identifier, arXiv
title search, then Crossref title search. Multiple arguments are joined
with spaces.

Examples:
  bibref resolve "Attention is all you need"
  bibref resolve "Vaswani et al. arXiv:1706.03762" --human`,
	Args: cobra.MinimumNArgs(1),
	RunE: runResolve,
}

func runResolve(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	logger := newLogger(cfg)

	text := strings.Join(args, " ")
	res := newResolver(cfg, logger).Resolve(cmd.Context(), text)

	if humanOutput {
		if !res.Found() {
			outputHuman("No DOI found\n")
			return nil
		}
		outputHuman("%s (%s)\n", res.DOI, res.Source)
		return nil
	}
	return outputJSON(ResolveResponse{
		Reference: text,
		Found:     res.Found(),
		DOI:       res.DOI,
		Source:    res.Source,
	})
}
