package cmd

import (
	"fmt"

	"github.com/education-insights/insightsctl/core"
	"github.com/spf13/cobra"
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Read recent logs from the deployed service",
	Long: `Reads recent Cloud Run request and container logs for the configured
service.

Examples:
  insightsctl logs
  insightsctl logs --limit 200`,
	RunE: runLogs,
}

var logsLimit int

func init() {
	logsCmd.Flags().IntVarP(&logsLimit, "limit", "n", 50, "Number of log entries to read")
	rootCmd.AddCommand(logsCmd)
}

func runLogs(cmd *cobra.Command, args []string) error {
	dir, err := resolveProjectDir()
	if err != nil {
		return err
	}

	res, err := core.LoadConfig(cmd.Context(), dir)
	if err != nil {
		return err
	}
	cfg := res.Config
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if !commandExists(core.GcloudBinary) {
		return fmt.Errorf("gcloud is required — install the Google Cloud SDK")
	}

	if err := run(core.GcloudBinary, core.LogsReadArgs(cfg, logsLimit)...); err != nil {
		return fmt.Errorf("failed to read logs: %w", err)
	}
	return nil
}
