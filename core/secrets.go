package core

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SecretsDirName is the local directory holding API key files (gitignored).
const SecretsDirName = ".insights"

// Secret describes one API key the deployed service can use, sourced from a
// single-line local file.
type Secret struct {
	EnvVar string // env var name the service reads
	File   string // file name under .insights/
}

// KnownSecrets are the API keys the Education Insights service understands.
// A missing file disables the corresponding feature rather than failing the
// deployment.
var KnownSecrets = []Secret{
	{EnvVar: "GOOGLE_API_KEY", File: "google_api_key.txt"},
	{EnvVar: "MAPS_API_KEY", File: "maps_api_key.txt"},
}

// SecretsDir returns the secrets directory for a project root.
func SecretsDir(projectDir string) string {
	return filepath.Join(projectDir, SecretsDirName)
}

// SecretByName looks up a known secret by its env-var name, case-insensitively.
func SecretByName(name string) (Secret, bool) {
	for _, s := range KnownSecrets {
		if strings.EqualFold(s.EnvVar, name) {
			return s, true
		}
	}
	return Secret{}, false
}

// SecretNames returns the env-var names of all known secrets.
func SecretNames() []string {
	names := make([]string, len(KnownSecrets))
	for i, s := range KnownSecrets {
		names[i] = s.EnvVar
	}
	return names
}

// LoadSecrets reads every known secret file under dir. Present files are
// returned as envvar→value with trailing whitespace stripped; absent or
// empty files are reported in missing, not as errors.
func LoadSecrets(dir string) (values map[string]string, missing []Secret, err error) {
	values = make(map[string]string)
	for _, s := range KnownSecrets {
		data, err := os.ReadFile(filepath.Join(dir, s.File))
		if err != nil {
			if os.IsNotExist(err) {
				missing = append(missing, s)
				continue
			}
			return nil, nil, fmt.Errorf("cannot read %s: %w", s.File, err)
		}
		v := strings.TrimSpace(string(data))
		if v == "" {
			missing = append(missing, s)
			continue
		}
		values[s.EnvVar] = v
	}
	return values, missing, nil
}

// WriteSecret stores a secret value in its file under dir, creating the
// directory (0700) and making sure it is gitignored.
func WriteSecret(dir string, s Secret, value string) error {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("cannot create %s: %w", dir, err)
	}
	ensureGitignored(dir)

	path := filepath.Join(dir, s.File)
	if err := os.WriteFile(path, []byte(strings.TrimSpace(value)+"\n"), 0600); err != nil {
		return fmt.Errorf("cannot write %s: %w", path, err)
	}
	return nil
}

// DeleteSecret removes a secret file. A missing file is not an error.
func DeleteSecret(dir string, s Secret) error {
	err := os.Remove(filepath.Join(dir, s.File))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// ensureGitignored makes sure the secrets directory is in the project's
// .gitignore so API keys never get committed.
func ensureGitignored(secretsDir string) {
	projectRoot := filepath.Dir(secretsDir)
	gitignorePath := filepath.Join(projectRoot, ".gitignore")

	data, err := os.ReadFile(gitignorePath)
	if err != nil && !os.IsNotExist(err) {
		return
	}

	pattern := SecretsDirName + "/"
	if strings.Contains(string(data), pattern) {
		return
	}

	f, err := os.OpenFile(gitignorePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return
	}
	defer f.Close()

	_, _ = f.WriteString("\n# insightsctl API keys (do not commit)\n" + pattern + "\n")
}
