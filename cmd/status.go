package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/education-insights/insightsctl/core"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the deployed Cloud Run service's current state",
	Long: `Queries the Cloud Run Admin API for the configured service and shows
its URL, readiness, latest revision, deployed image, and runtime env vars
(secret values masked). Uses Application Default Credentials.`,
	RunE: runStatus,
}

var statusTimeout time.Duration

func init() {
	statusCmd.Flags().DurationVar(&statusTimeout, "timeout", 30*time.Second, "API request timeout")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
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

	ctx, cancel := context.WithTimeout(cmd.Context(), statusTimeout)
	defer cancel()

	st, err := core.FetchServiceStatus(ctx, cfg)
	if err != nil {
		fail(fmt.Sprintf("Cannot read service %s: %v", cfg.ServiceName(), err))
		fmt.Println()
		fmt.Printf("  If it was never deployed, run: %sinsightsctl deploy%s\n", colorCyan, colorReset)
		fmt.Println()
		return err
	}

	header(fmt.Sprintf("Service: %s (%s)", cfg.ServiceName(), cfg.Region))
	if st.Ready {
		success("Ready")
	} else if st.Message != "" {
		warn(fmt.Sprintf("Not ready: %s", st.Message))
	} else {
		warn("Not ready")
	}
	fmt.Printf("    url:       %s%s%s\n", colorCyan, st.URI, colorReset)
	if st.LatestReadyRevision != "" {
		fmt.Printf("    revision:  %s\n", st.LatestReadyRevision)
	}
	if st.Image != "" {
		fmt.Printf("    image:     %s\n", st.Image)
	}
	if !st.LastDeployed.IsZero() {
		fmt.Printf("    deployed:  %s\n", st.LastDeployed.Local().Format(time.RFC1123))
	}

	if len(st.Env) > 0 {
		fmt.Printf("    env:\n")
		for _, pair := range st.Env {
			fmt.Printf("      %s\n", maskSecretPair(pair))
		}
	}
	fmt.Println()
	return nil
}

// maskSecretPair masks the value of any KEY=VALUE pair whose key is a known
// secret.
func maskSecretPair(pair string) string {
	name, value, ok := strings.Cut(pair, "=")
	if !ok {
		return pair
	}
	if _, secret := core.SecretByName(name); secret {
		return name + "=" + maskValue(value)
	}
	return pair
}
