package cmd

import (
	"testing"
)

// ────────────────────────────────────────────────────────────────────────────
// confirmProceed
// ────────────────────────────────────────────────────────────────────────────

func TestConfirmProceed(t *testing.T) {
	tests := []struct {
		answer string
		want   bool
	}{
		{"y", true},
		{"Y", true},
		{"yes", true},
		{"YES", true},
		{"Yes", true},
		{" y ", true},
		{"", false},
		{"n", false},
		{"no", false},
		{"yep", false},
		{"何", false},
	}
	for _, tt := range tests {
		t.Run(tt.answer, func(t *testing.T) {
			if got := confirmProceed(tt.answer); got != tt.want {
				t.Errorf("confirmProceed(%q) = %v, want %v", tt.answer, got, tt.want)
			}
		})
	}
}

// ────────────────────────────────────────────────────────────────────────────
// maskValue
// ────────────────────────────────────────────────────────────────────────────

func TestMaskValue(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"AIzaSyExampleKey", "AIza************"},
		{"abcd", "****"},
		{"ab", "****"},
		{"", "****"},
		{"12345", "1234*"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := maskValue(tt.input); got != tt.want {
				t.Errorf("maskValue(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// ────────────────────────────────────────────────────────────────────────────
// dimText
// ────────────────────────────────────────────────────────────────────────────

func TestDimText(t *testing.T) {
	if got := dimText("hello"); got != "\033[2mhello\033[0m" {
		t.Errorf("dimText(%q) = %q, want ANSI dim wrapped", "hello", got)
	}
}

// ────────────────────────────────────────────────────────────────────────────
// shouldExclude / defaultExcludes
// ────────────────────────────────────────────────────────────────────────────

func TestShouldExclude(t *testing.T) {
	tests := []struct {
		rel  string
		want bool
	}{
		{"main.py", false},
		{"agents/config.py", false},
		{".git/HEAD", true},
		{"src/.git/HEAD", true},
		{"node_modules/pkg/index.js", true},
		{"agents/__pycache__/config.cpython-312.pyc", true},
		{".insights/google_api_key.txt", true},
		{"vendor/lib.go", true},
		{"notvendor/lib.go", false},
	}
	for _, tt := range tests {
		t.Run(tt.rel, func(t *testing.T) {
			if got := shouldExclude(tt.rel, defaultExcludes); got != tt.want {
				t.Errorf("shouldExclude(%q) = %v, want %v", tt.rel, got, tt.want)
			}
		})
	}
}

func TestDefaultExcludesContainsCommonPatterns(t *testing.T) {
	want := []string{".git", ".insights", "node_modules", "__pycache__", ".venv", "vendor"}
	set := map[string]bool{}
	for _, e := range defaultExcludes {
		set[e] = true
	}
	for _, w := range want {
		if !set[w] {
			t.Errorf("defaultExcludes missing %q", w)
		}
	}
}
