package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestLoadExplicit(t *testing.T) {
	path := writeConfig(t, `
[defaults]
dictionary = "/usr/share/dict/words"
accuracy = 2
fold = true

[bench]
accuracies = [1, 2]
queries = ["speling"]
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Path != path {
		t.Errorf("Path = %q, want %q", cfg.Path, path)
	}
	if cfg.Defaults.Dictionary != "/usr/share/dict/words" {
		t.Errorf("Dictionary = %q", cfg.Defaults.Dictionary)
	}
	if cfg.Defaults.Accuracy != 2 {
		t.Errorf("Accuracy = %d, want 2", cfg.Defaults.Accuracy)
	}
	if !cfg.Defaults.Fold {
		t.Error("Fold = false, want true")
	}
	// missing keys keep fallback values
	if !cfg.Defaults.StripPunct {
		t.Error("StripPunct = false, want fallback true")
	}
	if cfg.Bench.Iterations != 100 {
		t.Errorf("Iterations = %d, want fallback 100", cfg.Bench.Iterations)
	}
	if len(cfg.Bench.Accuracies) != 2 || cfg.Bench.Queries[0] != "speling" {
		t.Errorf("Bench = %+v", cfg.Bench)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"negative accuracy", "[defaults]\naccuracy = -1\n", "accuracy"},
		{"unknown key", "[defaults]\naccuracyy = 1\n", "unknown key"},
		{"bad syntax", "[defaults\n", "failed to read"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Load() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("Load(missing explicit path) = nil error")
	}
}

func TestFallback(t *testing.T) {
	cfg := Fallback()
	if cfg.Path != "" {
		t.Errorf("Path = %q, want empty", cfg.Path)
	}
	if cfg.Defaults.Accuracy != 1 {
		t.Errorf("Accuracy = %d, want 1", cfg.Defaults.Accuracy)
	}

	// callers may not alias the fallback slices
	cfg.Bench.Accuracies[0] = 99
	if Fallback().Bench.Accuracies[0] != 0 {
		t.Error("Fallback() shares Accuracies between calls")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}
