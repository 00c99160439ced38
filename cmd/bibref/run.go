package main

import (
	"github.com/matsen/bibref/internal/pipeline"
	"github.com/spf13/cobra"
)

func runExtract(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	logger := newLogger(cfg)

	client := newGrobidClient(cfg)
	supervisor := newSupervisor(cfg, client, logger)

	opts := []pipeline.Option{pipeline.WithLogger(logger)}
	if outPath != "" {
		opts = append(opts, pipeline.WithOutputPath(outPath))
	}
	p := pipeline.New(supervisor, client, newResolver(cfg, logger), opts...)

	result, err := p.Run(cmd.Context(), args[0])

	if !keepService {
		if stopErr := supervisor.Shutdown(); stopErr != nil {
			logger.Warn().Err(stopErr).Msg("stopping GROBID")
		}
	} else if supervisor.Launched() {
		logger.Info().Str("url", client.BaseURL()).Msg("leaving GROBID running")
	}

	if err != nil {
		exitWithError(exitCodeFor(err), "%v", err)
	}

	if humanOutput {
		printRunHuman(result)
		return nil
	}
	return outputJSON(RunResponse{
		Result:   result,
		Total:    len(result.References),
		Resolved: result.Resolved(),
	})
}
