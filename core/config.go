// Package core provides the shared deployment logic used by the CLI
// commands. Functions in this package return structured results rather than
// printing to stdout/stderr, leaving output formatting to the caller.
package core

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
	"gopkg.in/yaml.v3"
)

// ConfigFileName is the optional per-project configuration file.
const ConfigFileName = "deploy.yaml"

// BuildConfig holds Cloud Build submission settings.
type BuildConfig struct {
	// Timeout is the build timeout in gcloud duration syntax (e.g. "1200s").
	Timeout string `yaml:"timeout" env:"BUILD_TIMEOUT"`
}

// RunConfig holds Cloud Run resource and scaling settings.
type RunConfig struct {
	Memory               string `yaml:"memory"`
	CPU                  string `yaml:"cpu"`
	MinInstances         int    `yaml:"min_instances"`
	MaxInstances         int    `yaml:"max_instances"`
	AllowUnauthenticated bool   `yaml:"allow_unauthenticated"`
}

// Config holds everything a deployment needs. Values come from hardcoded
// defaults, then deploy.yaml, then process environment overrides.
type Config struct {
	ProjectID      string `yaml:"project_id" env:"GCP_PROJECT"`
	Region         string `yaml:"region" env:"GCP_REGION"`
	Repository     string `yaml:"repository" env:"GCP_REPOSITORY"`
	Image          string `yaml:"image" env:"IMAGE_NAME"`
	Service        string `yaml:"service" env:"SERVICE_NAME"`
	ServiceAccount string `yaml:"service_account" env:"SERVICE_ACCOUNT"`
	Dataset        string `yaml:"bigquery_dataset" env:"BIGQUERY_DATASET"`
	Model          string `yaml:"model" env:"MODEL_NAME"`

	Build BuildConfig `yaml:"build"`
	Run   RunConfig   `yaml:"run"`
}

// OverrideVars lists the environment variables that can override file or
// default configuration, in display order.
var OverrideVars = []string{
	"GCP_PROJECT",
	"GCP_REGION",
	"GCP_REPOSITORY",
	"IMAGE_NAME",
	"SERVICE_NAME",
	"SERVICE_ACCOUNT",
	"BIGQUERY_DATASET",
	"MODEL_NAME",
	"BUILD_TIMEOUT",
}

// DefaultConfig returns the hardcoded fallback configuration, used when no
// deploy.yaml is present.
func DefaultConfig() Config {
	return Config{
		ProjectID:  "qwiklabs-gcp-01-12fba4b98ccb",
		Region:     "us-central1",
		Repository: "education-insights",
		Image:      "education-insights",
		Dataset:    "education_data",
		Model:      "gemini-2.0-flash",
		Build: BuildConfig{
			Timeout: "1200s",
		},
		Run: RunConfig{
			Memory:               "2Gi",
			CPU:                  "2",
			MinInstances:         0,
			MaxInstances:         5,
			AllowUnauthenticated: true,
		},
	}
}

// LoadResult is a resolved configuration plus where its values came from.
type LoadResult struct {
	Config       Config
	File         string   // path that was consulted
	FileFound    bool     // false means defaults were used
	EnvOverrides []string // override vars that were set in the environment
}

// LoadConfig resolves configuration for a project directory using the
// process environment for overrides.
func LoadConfig(ctx context.Context, dir string) (*LoadResult, error) {
	return LoadConfigWith(ctx, dir, envconfig.OsLookuper())
}

// LoadConfigWith is LoadConfig with an explicit variable lookuper.
func LoadConfigWith(ctx context.Context, dir string, lookuper envconfig.Lookuper) (*LoadResult, error) {
	cfg := DefaultConfig()
	path := filepath.Join(dir, ConfigFileName)
	res := &LoadResult{File: path}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("cannot parse %s: %w", path, err)
		}
		res.FileFound = true
	case os.IsNotExist(err):
		// Missing file is fine — fall back to the defaults.
	default:
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("environment overrides: %w", err)
	}
	for _, v := range OverrideVars {
		if _, ok := lookuper.Lookup(v); ok {
			res.EnvOverrides = append(res.EnvOverrides, v)
		}
	}

	res.Config = cfg
	return res, nil
}

// Validate checks that every value a deployment interpolates is present.
func (c Config) Validate() error {
	switch {
	case c.ProjectID == "":
		return fmt.Errorf("project_id must be set")
	case c.Region == "":
		return fmt.Errorf("region must be set")
	case c.Repository == "":
		return fmt.Errorf("repository must be set")
	case c.Image == "":
		return fmt.Errorf("image must be set")
	}
	if c.Run.MinInstances < 0 || c.Run.MaxInstances < c.Run.MinInstances {
		return fmt.Errorf("invalid scaling bounds: min=%d max=%d", c.Run.MinInstances, c.Run.MaxInstances)
	}
	return nil
}

// ServiceName returns the Cloud Run service name: the explicit value, or
// one derived from the image name (underscores become hyphens).
func (c Config) ServiceName() string {
	if c.Service != "" {
		return c.Service
	}
	return strings.ReplaceAll(c.Image, "_", "-")
}

// ImageRef returns the fully qualified Artifact Registry reference for a tag.
func (c Config) ImageRef(tag string) string {
	return fmt.Sprintf("%s-docker.pkg.dev/%s/%s/%s:%s",
		c.Region, c.ProjectID, c.Repository, c.Image, tag)
}

// ReleaseTag returns a unix-timestamp image tag so every build is unique
// and Cloud Run always sees a new image reference.
func ReleaseTag() string {
	return strconv.FormatInt(time.Now().Unix(), 10)
}

// RuntimeEnv returns the KEY=VALUE assignments the deployed service reads
// at runtime, including any loaded secrets. Secret names are appended in
// sorted order so the invocation is deterministic.
func (c Config) RuntimeEnv(secrets map[string]string) []string {
	pairs := []string{
		"GOOGLE_CLOUD_PROJECT=" + c.ProjectID,
		"VERTEX_AI_LOCATION=" + c.Region,
		"BIGQUERY_DATASET=" + c.Dataset,
		"MODEL_NAME=" + c.Model,
	}
	names := make([]string, 0, len(secrets))
	for n := range secrets {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		pairs = append(pairs, n+"="+secrets[n])
	}
	return pairs
}
