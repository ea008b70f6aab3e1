package cmd

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/education-insights/insightsctl/core"
	"github.com/spf13/cobra"
)

var secretsCmd = &cobra.Command{
	Use:   "secrets",
	Short: "Manage the local API-key files the deployment consumes",
	Long: `Manage the API keys the deployed service can use. Each key lives in
its own single-line file under .insights/ (gitignored, mode 0600) and is
passed to Cloud Run as an env var at deploy time. A missing file simply
disables that feature.

Known keys:
  GOOGLE_API_KEY   .insights/google_api_key.txt
  MAPS_API_KEY     .insights/maps_api_key.txt

Examples:
  insightsctl secrets set GOOGLE_API_KEY AIzaSy...
  insightsctl secrets set MAPS_API_KEY < maps_key.txt
  insightsctl secrets list
  insightsctl secrets delete MAPS_API_KEY`,
}

var secretsSetCmd = &cobra.Command{
	Use:   "set <name> [value]",
	Short: "Store an API key (value from argument or stdin)",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runSecretsSet,
}

var secretsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show which API keys are configured",
	Long:  `Lists the known API keys and whether their files exist. Values are never displayed.`,
	RunE:  runSecretsList,
}

var secretsDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Remove an API-key file",
	Args:  cobra.ExactArgs(1),
	RunE:  runSecretsDelete,
}

var secretsPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the secrets directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := resolveProjectDir()
		if err != nil {
			return err
		}
		fmt.Println(core.SecretsDir(dir))
		return nil
	},
}

func init() {
	secretsCmd.AddCommand(secretsSetCmd)
	secretsCmd.AddCommand(secretsListCmd)
	secretsCmd.AddCommand(secretsDeleteCmd)
	secretsCmd.AddCommand(secretsPathCmd)
	rootCmd.AddCommand(secretsCmd)
}

// lookupSecretArg resolves a user-supplied name against the known secrets,
// or errors with the valid options.
func lookupSecretArg(name string) (core.Secret, error) {
	s, ok := core.SecretByName(name)
	if !ok {
		return core.Secret{}, fmt.Errorf("unknown secret %q — known secrets: %s",
			name, strings.Join(core.SecretNames(), ", "))
	}
	return s, nil
}

func runSecretsSet(cmd *cobra.Command, args []string) error {
	s, err := lookupSecretArg(args[0])
	if err != nil {
		return err
	}

	var value string
	if len(args) == 2 {
		value = args[1]
	} else {
		// No value argument: read it from stdin (supports piping a key file).
		scanner := bufio.NewScanner(os.Stdin)
		if !scanner.Scan() {
			return fmt.Errorf("no value given and stdin was empty")
		}
		value = scanner.Text()
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return fmt.Errorf("secret value is empty")
	}

	dir, err := resolveProjectDir()
	if err != nil {
		return err
	}

	header("Setting secret")
	if err := core.WriteSecret(core.SecretsDir(dir), s, value); err != nil {
		return err
	}
	success(fmt.Sprintf("Wrote %s", filepath.Join(core.SecretsDirName, s.File)))
	fmt.Println()
	fmt.Printf("  The next deploy will set %s%s%s on the service.\n", colorCyan, s.EnvVar, colorReset)
	fmt.Println()
	return nil
}

func runSecretsList(cmd *cobra.Command, args []string) error {
	dir, err := resolveProjectDir()
	if err != nil {
		return err
	}

	values, missing, err := core.LoadSecrets(core.SecretsDir(dir))
	if err != nil {
		return err
	}

	header("API keys")
	for _, s := range core.KnownSecrets {
		if _, ok := values[s.EnvVar]; ok {
			fmt.Printf("    %s✓%s  %-16s %s\n", colorGreen, colorReset, s.EnvVar,
				dimText(filepath.Join(core.SecretsDirName, s.File)))
		}
	}
	for _, s := range missing {
		fmt.Printf("    %s·%s  %-16s %s\n", colorDim, colorReset, s.EnvVar,
			dimText("not set — insightsctl secrets set "+s.EnvVar+" <value>"))
	}
	fmt.Println()
	return nil
}

func runSecretsDelete(cmd *cobra.Command, args []string) error {
	s, err := lookupSecretArg(args[0])
	if err != nil {
		return err
	}

	dir, err := resolveProjectDir()
	if err != nil {
		return err
	}

	if err := core.DeleteSecret(core.SecretsDir(dir), s); err != nil {
		return fmt.Errorf("cannot delete %s: %w", s.File, err)
	}
	success(fmt.Sprintf("Removed %s", filepath.Join(core.SecretsDirName, s.File)))
	return nil
}
