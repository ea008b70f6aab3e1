package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// projectDir is the root of the project being deployed (defaults to cwd).
var projectDir string

var rootCmd = &cobra.Command{
	Use:   "insightsctl",
	Short: "insightsctl — build and ship the Education Insights service to Cloud Run",
	Long: `insightsctl is a CLI that builds the Education Insights agent image via
Cloud Build, deploys it to Cloud Run, and manages the local configuration
and API-key files the deployment consumes.

Common workflow:

  insightsctl config init                 # write a starter deploy.yaml
  insightsctl secrets set GOOGLE_API_KEY AIza...   # store an API key
  insightsctl deploy                      # build + deploy, print service URL
  insightsctl deploy --watch              # redeploy on source changes
  insightsctl status                      # inspect the running service
  insightsctl logs                        # read recent service logs`,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&projectDir, "project-dir", "p", "", "Path to the project root (default: current directory)")
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		return fmt.Errorf("cli error: %w", err)
	}
	return nil
}
