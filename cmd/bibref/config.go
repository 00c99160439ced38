package main

import (
	"fmt"
	"strings"

	"github.com/matsen/bibref/internal/config"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Show the effective configuration after applying defaults, the global
config file, and BIBREF_* environment variables.

Config file: $XDG_CONFIG_HOME/bibref/config.yml (or ~/.config/bibref/config.yml)

Keys:
  grobid_url       GROBID service URL
  grobid_command   Executable used to start GROBID (e.g., java)
  grobid_args      Arguments for grobid_command
  arxiv_url        arXiv export API URL
  crossref_url     Crossref REST API URL
  crossref_mailto  Contact address sent to Crossref
  log_level        debug, info, warn, or error`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()

	if humanOutput {
		fmt.Printf("config file:      %s\n", config.GlobalConfigPath())
		fmt.Printf("grobid_url:       %s\n", cfg.GrobidURL)
		fmt.Printf("grobid_command:   %s\n", cfg.GrobidCommand)
		fmt.Printf("grobid_args:      %s\n", strings.Join(cfg.GrobidArgs, " "))
		fmt.Printf("arxiv_url:        %s\n", cfg.ArXivURL)
		fmt.Printf("crossref_url:     %s\n", cfg.CrossrefURL)
		fmt.Printf("crossref_mailto:  %s\n", cfg.CrossrefMailto)
		fmt.Printf("log_level:        %s\n", cfg.LogLevel)
		return nil
	}
	return outputJSON(cfg)
}
