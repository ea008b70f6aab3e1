package core

import (
	"strings"
	"testing"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.ProjectID = "my-project"
	cfg.Region = "us-central1"
	cfg.Repository = "apps"
	cfg.Image = "education_insights"
	cfg.ServiceAccount = "deployer@my-project.iam.gserviceaccount.com"
	return cfg
}

// hasFlag reports whether args contains the flag immediately followed by the
// value.
func hasFlag(args []string, flag, value string) bool {
	for i := 0; i < len(args)-1; i++ {
		if args[i] == flag && args[i+1] == value {
			return true
		}
	}
	return false
}

// ────────────────────────────────────────────────────────────────────────────
// BuildSubmitArgs
// ────────────────────────────────────────────────────────────────────────────

func TestBuildSubmitArgs(t *testing.T) {
	cfg := testConfig()
	imageRef := cfg.ImageRef("7")
	args := BuildSubmitArgs(cfg, imageRef, ".")

	if args[0] != "builds" || args[1] != "submit" {
		t.Fatalf("args = %v, want builds submit prefix", args)
	}
	if args[2] != "." {
		t.Errorf("source arg = %q, want .", args[2])
	}
	checks := map[string]string{
		"--tag":     imageRef,
		"--project": "my-project",
		"--region":  "us-central1",
		"--timeout": cfg.Build.Timeout,
	}
	for flag, value := range checks {
		if !hasFlag(args, flag, value) {
			t.Errorf("args missing %s %s: %v", flag, value, args)
		}
	}
}

func TestBuildSubmitArgsNoTimeout(t *testing.T) {
	cfg := testConfig()
	cfg.Build.Timeout = ""
	args := BuildSubmitArgs(cfg, cfg.ImageRef("7"), ".")
	for _, a := range args {
		if a == "--timeout" {
			t.Errorf("args should omit --timeout when unset: %v", args)
		}
	}
}

// ────────────────────────────────────────────────────────────────────────────
// RunDeployArgs
// ────────────────────────────────────────────────────────────────────────────

func TestRunDeployArgsRequiredVariables(t *testing.T) {
	cfg := testConfig()
	imageRef := cfg.ImageRef("7")
	env := cfg.RuntimeEnv(map[string]string{"GOOGLE_API_KEY": "k"})
	args := RunDeployArgs(cfg, imageRef, env)

	if args[0] != "run" || args[1] != "deploy" || args[2] != "education-insights" {
		t.Fatalf("args = %v, want run deploy <service> prefix", args)
	}
	checks := map[string]string{
		"--image":           imageRef,
		"--project":         "my-project",
		"--region":          "us-central1",
		"--platform":        "managed",
		"--memory":          cfg.Run.Memory,
		"--cpu":             cfg.Run.CPU,
		"--min-instances":   "0",
		"--max-instances":   "5",
		"--service-account": cfg.ServiceAccount,
	}
	for flag, value := range checks {
		if !hasFlag(args, flag, value) {
			t.Errorf("args missing %s %s: %v", flag, value, args)
		}
	}

	joined := strings.Join(args, " ")
	for _, want := range []string{
		"GOOGLE_CLOUD_PROJECT=my-project",
		"VERTEX_AI_LOCATION=us-central1",
		"BIGQUERY_DATASET=",
		"MODEL_NAME=",
		"GOOGLE_API_KEY=k",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("deploy args missing env assignment %q: %v", want, args)
		}
	}
}

func TestRunDeployArgsAuthFlag(t *testing.T) {
	cfg := testConfig()

	cfg.Run.AllowUnauthenticated = true
	joined := strings.Join(RunDeployArgs(cfg, "img", nil), " ")
	if !strings.Contains(joined, " --allow-unauthenticated") {
		t.Errorf("args missing --allow-unauthenticated: %s", joined)
	}

	cfg.Run.AllowUnauthenticated = false
	joined = strings.Join(RunDeployArgs(cfg, "img", nil), " ")
	if !strings.Contains(joined, "--no-allow-unauthenticated") {
		t.Errorf("args missing --no-allow-unauthenticated: %s", joined)
	}
}

func TestRunDeployArgsOptionalOmissions(t *testing.T) {
	cfg := testConfig()
	cfg.ServiceAccount = ""
	args := RunDeployArgs(cfg, "img", nil)
	joined := strings.Join(args, " ")
	if strings.Contains(joined, "--service-account") {
		t.Errorf("args should omit --service-account when unset: %v", args)
	}
	if strings.Contains(joined, "--set-env-vars") {
		t.Errorf("args should omit --set-env-vars for empty env: %v", args)
	}
}

// ────────────────────────────────────────────────────────────────────────────
// DescribeURLArgs / LogsReadArgs
// ────────────────────────────────────────────────────────────────────────────

func TestDescribeURLArgs(t *testing.T) {
	cfg := testConfig()
	args := DescribeURLArgs(cfg)

	if args[0] != "run" || args[1] != "services" || args[2] != "describe" || args[3] != "education-insights" {
		t.Fatalf("args = %v, want run services describe <service> prefix", args)
	}
	if !hasFlag(args, "--format", "value(status.url)") {
		t.Errorf("args missing URL format selector: %v", args)
	}
	if !hasFlag(args, "--project", "my-project") || !hasFlag(args, "--region", "us-central1") {
		t.Errorf("args missing project/region: %v", args)
	}
}

func TestLogsReadArgs(t *testing.T) {
	cfg := testConfig()
	args := LogsReadArgs(cfg, 200)

	joined := strings.Join(args, " ")
	if !strings.HasPrefix(joined, "run services logs read education-insights") {
		t.Fatalf("args = %v, want run services logs read <service> prefix", args)
	}
	if !hasFlag(args, "--limit", "200") {
		t.Errorf("args missing --limit 200: %v", args)
	}
}
