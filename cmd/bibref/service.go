package main

import (
	"os"

	"github.com/matsen/bibref/internal/grobid"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(serviceCmd)
	serviceCmd.AddCommand(serviceStatusCmd)
	serviceCmd.AddCommand(serviceStartCmd)
}

var serviceCmd = &cobra.Command{
	Use:   "service",
	Short: "Inspect or start the GROBID service",
}

var serviceStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check whether GROBID answers its health check",
	Args:  cobra.NoArgs,
	RunE:  runServiceStatus,
}

var serviceStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start GROBID if it is not running and leave it up",
	Long: `Start a local GROBID instance with the configured command and wait
until it answers its health check. The instance keeps running after bibref
exits, so later runs reuse it.`,
	Args: cobra.NoArgs,
	RunE: runServiceStart,
}

func runServiceStatus(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	client := newGrobidClient(cfg)

	// Probe only, never launch.
	supervisor := grobid.NewSupervisor(client, nil)
	st := supervisor.Status(cmd.Context())

	printServiceStatus(client.BaseURL(), st)
	if !st.Healthy {
		os.Exit(ExitServiceUnavailable)
	}
	return nil
}

func runServiceStart(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	logger := newLogger(cfg)
	client := newGrobidClient(cfg)
	supervisor := newSupervisor(cfg, client, logger)

	if err := supervisor.EnsureAvailable(cmd.Context()); err != nil {
		_ = supervisor.Shutdown()
		exitWithError(ExitServiceUnavailable, "starting GROBID: %v", err)
	}

	printServiceStatus(client.BaseURL(), supervisor.Status(cmd.Context()))
	return nil
}

func printServiceStatus(url string, st grobid.Status) {
	if humanOutput {
		state := "down"
		if st.Healthy {
			state = "up"
		}
		outputHuman("GROBID at %s is %s\n", url, state)
		if st.Launched {
			outputHuman("Started by bibref (pid %d)\n", st.PID)
		}
		return
	}
	outputJSON(ServiceStatusResponse{
		URL:      url,
		Healthy:  st.Healthy,
		Launched: st.Launched,
		PID:      st.PID,
	})
}
