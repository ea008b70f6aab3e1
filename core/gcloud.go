package core

import (
	"strconv"
	"strings"
)

// GcloudBinary is the Cloud SDK entry point every deployment step goes
// through. Preflight checks verify it is on PATH before anything runs.
const GcloudBinary = "gcloud"

// BuildSubmitArgs returns the argument list for submitting a Cloud Build
// that builds the source directory and pushes the given image reference.
func BuildSubmitArgs(cfg Config, imageRef, sourceDir string) []string {
	args := []string{
		"builds", "submit", sourceDir,
		"--tag", imageRef,
		"--project", cfg.ProjectID,
		"--region", cfg.Region,
	}
	if cfg.Build.Timeout != "" {
		args = append(args, "--timeout", cfg.Build.Timeout)
	}
	return args
}

// RunDeployArgs returns the argument list for deploying the built image to
// Cloud Run with the configured resource limits, scaling bounds, env-var
// assignments, and service-account binding.
func RunDeployArgs(cfg Config, imageRef string, env []string) []string {
	args := []string{
		"run", "deploy", cfg.ServiceName(),
		"--image", imageRef,
		"--project", cfg.ProjectID,
		"--region", cfg.Region,
		"--platform", "managed",
		"--memory", cfg.Run.Memory,
		"--cpu", cfg.Run.CPU,
		"--min-instances", strconv.Itoa(cfg.Run.MinInstances),
		"--max-instances", strconv.Itoa(cfg.Run.MaxInstances),
	}
	if cfg.ServiceAccount != "" {
		args = append(args, "--service-account", cfg.ServiceAccount)
	}
	if cfg.Run.AllowUnauthenticated {
		args = append(args, "--allow-unauthenticated")
	} else {
		args = append(args, "--no-allow-unauthenticated")
	}
	if len(env) > 0 {
		args = append(args, "--set-env-vars", strings.Join(env, ","))
	}
	return args
}

// DescribeURLArgs returns the argument list for querying the deployed
// service's URL.
func DescribeURLArgs(cfg Config) []string {
	return []string{
		"run", "services", "describe", cfg.ServiceName(),
		"--project", cfg.ProjectID,
		"--region", cfg.Region,
		"--platform", "managed",
		"--format", "value(status.url)",
	}
}

// LogsReadArgs returns the argument list for reading recent service logs.
func LogsReadArgs(cfg Config, limit int) []string {
	return []string{
		"run", "services", "logs", "read", cfg.ServiceName(),
		"--project", cfg.ProjectID,
		"--region", cfg.Region,
		"--limit", strconv.Itoa(limit),
	}
}
