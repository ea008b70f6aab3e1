package cmd

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// ── ANSI colours ────────────────────────────────────────────────
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorBold   = "\033[1m"
	colorDim    = "\033[2m"
)

// ── Pretty-print helpers ────────────────────────────────────────

func header(msg string) {
	fmt.Printf("\n%s%s▸ %s%s\n", colorBold, colorCyan, msg, colorReset)
}

func step(emoji, msg string) {
	fmt.Printf("  %s  %s\n", emoji, msg)
}

func success(msg string) {
	fmt.Printf("  %s✅ %s%s\n", colorGreen, msg, colorReset)
}

func warn(msg string) {
	fmt.Printf("  %s⚠️  %s%s\n", colorYellow, msg, colorReset)
}

func fail(msg string) {
	fmt.Printf("  %s❌ %s%s\n", colorRed, msg, colorReset)
}

func dimText(msg string) string {
	return fmt.Sprintf("%s%s%s", colorDim, msg, colorReset)
}

// ── Command execution helpers ───────────────────────────────────

// run executes a command, streaming stdout/stderr to the terminal.
func run(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin
	return cmd.Run()
}

// runCapture executes a command and returns stdout only (trimmed).
func runCapture(name string, args ...string) (string, error) {
	cmd := exec.Command(name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return strings.TrimSpace(stdout.String()), err
}

// commandExists checks if a binary is on PATH.
func commandExists(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

// resolveProjectDir returns the project directory: the explicit
// --project-dir flag, or the current working directory.
func resolveProjectDir() (string, error) {
	if projectDir != "" {
		return filepath.Abs(projectDir)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("cannot determine working directory: %w", err)
	}
	return cwd, nil
}

// confirmProceed reports whether an answer means yes. Only "y" or "yes"
// (any case) proceed; everything else, including an empty line, declines.
func confirmProceed(answer string) bool {
	a := strings.ToLower(strings.TrimSpace(answer))
	return a == "y" || a == "yes"
}

// maskValue hides all but the first four characters of a secret value.
func maskValue(v string) string {
	if len(v) <= 4 {
		return "****"
	}
	return v[:4] + strings.Repeat("*", len(v)-4)
}

// ── Watch-mode helpers ──────────────────────────────────────────

// defaultExcludes are directory and file names never worth redeploying for.
var defaultExcludes = []string{
	".git",
	".insights",
	"node_modules",
	"__pycache__",
	".venv",
	"venv",
	"vendor",
	".DS_Store",
	".pytest_cache",
	".mypy_cache",
}

// shouldExclude reports whether a path (relative to the watch root) falls
// under an excluded name.
func shouldExclude(relPath string, excludes []string) bool {
	parts := strings.Split(filepath.ToSlash(relPath), "/")
	for _, part := range parts {
		for _, ex := range excludes {
			if part == ex {
				return true
			}
		}
	}
	return false
}

// addWatchDirRecursive registers root and every non-excluded subdirectory
// with the watcher.
func addWatchDirRecursive(watcher *fsnotify.Watcher, root string, excludes []string) error {
	return filepath.Walk(root, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return nil
		}
		if rel != "." && shouldExclude(rel, excludes) {
			return filepath.SkipDir
		}
		return watcher.Add(p)
	})
}
