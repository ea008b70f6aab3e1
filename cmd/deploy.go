package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/education-insights/insightsctl/core"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Build the image via Cloud Build and deploy it to Cloud Run",
	Long: `Builds the service image remotely with Cloud Build, deploys it to
Cloud Run, and prints the resulting service URL.

Configuration comes from deploy.yaml in the project root (falling back to
built-in defaults), with environment-variable overrides such as GCP_PROJECT
and GCP_REGION. API keys found under .insights/ are passed to the service
as env vars; a missing key file disables that feature with a warning.

The deployment is gated by a confirmation prompt. Declining aborts with a
nonzero exit status.

Examples:
  insightsctl deploy                    # interactive build + deploy
  insightsctl deploy --yes              # skip the confirmation prompt
  insightsctl deploy --tag v12          # pin the image tag
  insightsctl deploy --watch            # redeploy whenever source changes`,
	RunE: runDeploy,
}

var (
	deployYes     bool
	deployTag     string
	deploySource  string
	deployWatch   bool
	watchDebounce time.Duration
)

func init() {
	deployCmd.Flags().BoolVarP(&deployYes, "yes", "y", false, "Skip confirmation prompt")
	deployCmd.Flags().StringVar(&deployTag, "tag", "", "Image tag (default: unix timestamp per build)")
	deployCmd.Flags().StringVar(&deploySource, "source", ".", "Build context directory, relative to the project root")
	deployCmd.Flags().BoolVar(&deployWatch, "watch", false, "Stay running and redeploy when source files change")
	deployCmd.Flags().DurationVar(&watchDebounce, "debounce", 2*time.Second, "Quiet period before a watch-mode redeploy")
	rootCmd.AddCommand(deployCmd)
}

func runDeploy(cmd *cobra.Command, args []string) error {
	dir, err := resolveProjectDir()
	if err != nil {
		return err
	}

	// ── Configuration ───────────────────────────────────────────
	header("Resolving configuration")

	res, err := core.LoadConfig(cmd.Context(), dir)
	if err != nil {
		return err
	}
	cfg := res.Config
	if res.FileFound {
		step("📄", fmt.Sprintf("Loaded %s", res.File))
	} else {
		warn(fmt.Sprintf("%s not found — using built-in defaults", core.ConfigFileName))
	}
	for _, v := range res.EnvOverrides {
		step("✏️ ", fmt.Sprintf("Override from environment: %s", v))
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// ── Secrets ─────────────────────────────────────────────────
	secrets, missing, err := core.LoadSecrets(core.SecretsDir(dir))
	if err != nil {
		return err
	}
	for _, s := range missing {
		warn(fmt.Sprintf("%s/%s not found — %s will not be set", core.SecretsDirName, s.File, s.EnvVar))
	}

	// ── Preflight ───────────────────────────────────────────────
	if !commandExists(core.GcloudBinary) {
		fail("gcloud not found on PATH")
		return fmt.Errorf("gcloud is required — install the Google Cloud SDK")
	}

	sourceDir := filepath.Join(dir, deploySource)
	if _, err := os.Stat(sourceDir); os.IsNotExist(err) {
		return fmt.Errorf("source directory does not exist: %s", sourceDir)
	}

	// ── Plan + confirmation ─────────────────────────────────────
	tag := deployTag
	if tag == "" {
		tag = core.ReleaseTag()
	}
	printPlan(cfg, secrets, tag)

	if !deployYes {
		fmt.Printf("\n  Deploy to Cloud Run? [y/N] ")
		var answer string
		fmt.Scanln(&answer)
		if !confirmProceed(answer) {
			fmt.Println("  Aborted.")
			return fmt.Errorf("deployment declined")
		}
	}

	url, err := executeDeploy(cfg, secrets, tag, sourceDir)
	if err != nil {
		return err
	}
	printDone(cfg, url)

	if !deployWatch {
		return nil
	}
	return watchAndRedeploy(cfg, sourceDir, dir)
}

// printPlan shows what is about to happen, masking secret values.
func printPlan(cfg core.Config, secrets map[string]string, tag string) {
	header("Deployment plan")
	fmt.Printf("    project:   %s\n", cfg.ProjectID)
	fmt.Printf("    region:    %s\n", cfg.Region)
	fmt.Printf("    image:     %s\n", cfg.ImageRef(tag))
	fmt.Printf("    service:   %s\n", cfg.ServiceName())
	if cfg.ServiceAccount != "" {
		fmt.Printf("    identity:  %s\n", cfg.ServiceAccount)
	}
	fmt.Printf("    resources: %s memory, %s cpu, %d–%d instances\n",
		cfg.Run.Memory, cfg.Run.CPU, cfg.Run.MinInstances, cfg.Run.MaxInstances)

	fmt.Printf("    env:\n")
	for _, pair := range cfg.RuntimeEnv(nil) {
		fmt.Printf("      %s\n", pair)
	}
	for _, s := range core.KnownSecrets {
		if v, ok := secrets[s.EnvVar]; ok {
			fmt.Printf("      %s=%s\n", s.EnvVar, maskValue(v))
		}
	}
}

// executeDeploy runs the build submission, the Cloud Run deploy, and the
// URL query, streaming tool output to the terminal.
func executeDeploy(cfg core.Config, secrets map[string]string, tag, sourceDir string) (string, error) {
	imageRef := cfg.ImageRef(tag)

	header("Submitting Cloud Build")
	step("🏗️ ", fmt.Sprintf("gcloud builds submit → %s", imageRef))
	if err := run(core.GcloudBinary, core.BuildSubmitArgs(cfg, imageRef, sourceDir)...); err != nil {
		return "", fmt.Errorf("cloud build failed: %w", err)
	}
	success("Image built and pushed")

	header("Deploying to Cloud Run")
	step("🚀", fmt.Sprintf("gcloud run deploy %s", cfg.ServiceName()))
	env := cfg.RuntimeEnv(secrets)
	if err := run(core.GcloudBinary, core.RunDeployArgs(cfg, imageRef, env)...); err != nil {
		return "", fmt.Errorf("deploy failed: %w", err)
	}
	success("Service deployed")

	url, err := runCapture(core.GcloudBinary, core.DescribeURLArgs(cfg)...)
	if err != nil {
		return "", fmt.Errorf("cannot read service URL: %w", err)
	}
	return url, nil
}

func printDone(cfg core.Config, url string) {
	fmt.Println()
	fmt.Printf("  %s🎉 %s is live%s\n", colorGreen+colorBold, cfg.ServiceName(), colorReset)
	fmt.Println()
	fmt.Printf("  Service URL:  %s%s%s\n", colorCyan, url, colorReset)
	fmt.Printf("  Check status: %sinsightsctl status%s\n", colorCyan, colorReset)
	fmt.Printf("  View logs:    %sinsightsctl logs%s\n", colorCyan, colorReset)
	fmt.Println()
}

// watchAndRedeploy reruns the build+deploy cycle whenever source files
// change, after a debounce window. Ctrl+C stops it.
func watchAndRedeploy(cfg core.Config, sourceDir, projectRoot string) error {
	header("Watching for changes")
	fmt.Printf("  📂  %s\n", sourceDir)
	fmt.Printf("  🎯  %s (%s)\n", cfg.ServiceName(), cfg.Region)
	fmt.Printf("  ⏱️   Debounce: %s\n", watchDebounce)
	fmt.Printf("\n  %sPress Ctrl+C to stop%s\n\n", colorDim, colorReset)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("cannot create file watcher: %w", err)
	}
	defer watcher.Close()

	if err := addWatchDirRecursive(watcher, sourceDir, defaultExcludes); err != nil {
		return fmt.Errorf("cannot watch directory tree: %w", err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	var debounceTimer *time.Timer
	pending := make(map[string]bool)
	redeployCh := make(chan struct{}, 1)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			rel, _ := filepath.Rel(sourceDir, event.Name)
			if shouldExclude(rel, defaultExcludes) {
				continue
			}
			if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
				if event.Has(fsnotify.Create) {
					_ = addWatchDirRecursive(watcher, event.Name, defaultExcludes)
				}
				continue
			}
			pending[event.Name] = true
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(watchDebounce, func() {
				select {
				case redeployCh <- struct{}{}:
				default:
				}
			})

		case <-redeployCh:
			count := len(pending)
			pending = make(map[string]bool)
			ts := time.Now().Format("15:04:05")
			fmt.Printf("  %s[%s]%s  %d file(s) changed — redeploying\n", colorDim, ts, colorReset, count)

			secrets, _, err := core.LoadSecrets(core.SecretsDir(projectRoot))
			if err != nil {
				warn(fmt.Sprintf("Secret reload failed: %v — keeping none", err))
				secrets = nil
			}
			url, err := executeDeploy(cfg, secrets, core.ReleaseTag(), sourceDir)
			if err != nil {
				warn(fmt.Sprintf("Redeploy failed: %v — retrying on next change", err))
				continue
			}
			success(fmt.Sprintf("Redeployed → %s", url))

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			warn(fmt.Sprintf("Watch error: %v", err))

		case <-sigCh:
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			fmt.Printf("\n  %s👋 Watch stopped%s\n\n", colorCyan, colorReset)
			return nil
		}
	}
}
