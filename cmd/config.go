package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/education-insights/insightsctl/core"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the resolved deployment configuration",
	Long: `Prints every configuration value the next deploy would use and where
it came from: built-in defaults, deploy.yaml, or an environment override.

Examples:
  insightsctl config
  insightsctl config init`,
	RunE: runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter deploy.yaml to the project root",
	Long: `Creates a commented deploy.yaml pre-filled with the built-in defaults.
Refuses to overwrite an existing file.`,
	RunE: runConfigInit,
}

func init() {
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	dir, err := resolveProjectDir()
	if err != nil {
		return err
	}

	res, err := core.LoadConfig(cmd.Context(), dir)
	if err != nil {
		return err
	}
	cfg := res.Config

	header("Configuration")
	if res.FileFound {
		fmt.Printf("    source: %s\n", res.File)
	} else {
		fmt.Printf("    source: %sbuilt-in defaults (%s not found)%s\n", colorDim, core.ConfigFileName, colorReset)
	}
	if len(res.EnvOverrides) > 0 {
		fmt.Printf("    environment overrides:\n")
		for _, v := range res.EnvOverrides {
			fmt.Printf("      %s%s%s\n", colorCyan, v, colorReset)
		}
	}

	fmt.Println()
	fmt.Printf("    project_id:       %s\n", cfg.ProjectID)
	fmt.Printf("    region:           %s\n", cfg.Region)
	fmt.Printf("    repository:       %s\n", cfg.Repository)
	fmt.Printf("    image:            %s\n", cfg.Image)
	fmt.Printf("    service:          %s\n", cfg.ServiceName())
	if cfg.ServiceAccount != "" {
		fmt.Printf("    service_account:  %s\n", cfg.ServiceAccount)
	} else {
		fmt.Printf("    service_account:  %s(Compute Engine default)%s\n", colorDim, colorReset)
	}
	fmt.Printf("    bigquery_dataset: %s\n", cfg.Dataset)
	fmt.Printf("    model:            %s\n", cfg.Model)
	fmt.Printf("    build timeout:    %s\n", cfg.Build.Timeout)
	fmt.Printf("    run resources:    %s memory, %s cpu, %d–%d instances\n",
		cfg.Run.Memory, cfg.Run.CPU, cfg.Run.MinInstances, cfg.Run.MaxInstances)

	if err := cfg.Validate(); err != nil {
		fmt.Println()
		fail(fmt.Sprintf("Configuration is incomplete: %v", err))
		return err
	}
	fmt.Println()
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	dir, err := resolveProjectDir()
	if err != nil {
		return err
	}

	path := filepath.Join(dir, core.ConfigFileName)
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists — edit it or delete it first", path)
	}

	if err := os.WriteFile(path, []byte(starterConfig()), 0644); err != nil {
		return fmt.Errorf("cannot write %s: %w", path, err)
	}

	success(fmt.Sprintf("Wrote %s", path))
	fmt.Println()
	fmt.Printf("  Edit it, then run: %sinsightsctl deploy%s\n", colorCyan, colorReset)
	fmt.Println()
	return nil
}

// starterConfig renders the built-in defaults as a commented deploy.yaml.
func starterConfig() string {
	d := core.DefaultConfig()
	return fmt.Sprintf(`# insightsctl deployment configuration.
# Any value left out falls back to the built-in default; any value here can
# be overridden per-run with environment variables (GCP_PROJECT, GCP_REGION,
# GCP_REPOSITORY, IMAGE_NAME, SERVICE_NAME, SERVICE_ACCOUNT,
# BIGQUERY_DATASET, MODEL_NAME, BUILD_TIMEOUT).

project_id: %s
region: %s
repository: %s
image: %s

# service: education-insights        # default: image name with _ -> -
# service_account: deployer@%s.iam.gserviceaccount.com

bigquery_dataset: %s
model: %s

build:
  timeout: %s

run:
  memory: %s
  cpu: "%s"
  min_instances: %d
  max_instances: %d
  allow_unauthenticated: %t
`,
		d.ProjectID, d.Region, d.Repository, d.Image,
		d.ProjectID,
		d.Dataset, d.Model,
		d.Build.Timeout,
		d.Run.Memory, d.Run.CPU, d.Run.MinInstances, d.Run.MaxInstances,
		d.Run.AllowUnauthenticated)
}
