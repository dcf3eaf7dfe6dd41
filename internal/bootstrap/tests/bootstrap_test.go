// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Tests for the bootstrap sequence

package tests

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/voluma/wheelhouse/internal/bootstrap"
	"github.com/voluma/wheelhouse/internal/prereq"
)

// stubChecker returns a checker whose tools resolve to commands that are
// guaranteed present (or absent) regardless of the host
func stubChecker(pythonPresent bool) *prereq.Checker {
	pythonCmd := "sh"
	if !pythonPresent {
		pythonCmd = "definitely-not-a-real-tool-xyz"
	}

	return prereq.NewCheckerWithTools(map[string]*prereq.Tool{
		"python": {
			Name:         "python",
			Command:      pythonCmd,
			InstallGuide: "Install Python 3.11+",
		},
		"git": {
			Name:         "git",
			Command:      "sh",
			InstallGuide: "Install git",
		},
	})
}

func TestBootstrapMissingTool(t *testing.T) {
	tmpDir := t.TempDir()
	envDir := filepath.Join(tmpDir, "env")

	_, err := bootstrap.Run(&bootstrap.Config{
		EnvDir:   envDir,
		CacheDir: filepath.Join(tmpDir, "cache"),
		Checker:  stubChecker(false),
	})

	var missing *bootstrap.MissingToolError
	if !errors.As(err, &missing) {
		t.Fatalf("Expected MissingToolError, got %v", err)
	}

	if !errors.Is(err, prereq.ErrToolMissing) {
		t.Error("Expected error to wrap ErrToolMissing")
	}

	if !strings.Contains(missing.Guide, "Install Python 3.11+") {
		t.Errorf("Expected remediation guide, got %q", missing.Guide)
	}

	// The failed prereq check must happen before any filesystem changes
	if _, statErr := os.Stat(envDir); !os.IsNotExist(statErr) {
		t.Error("Environment directory should not exist after prereq failure")
	}
}

func TestBootstrapDryRun(t *testing.T) {
	tmpDir := t.TempDir()

	var progress strings.Builder
	result, err := bootstrap.Run(&bootstrap.Config{
		EnvDir:   filepath.Join(tmpDir, "env"),
		CacheDir: filepath.Join(tmpDir, "cache"),
		DryRun:   true,
		Progress: &progress,
		Checker:  stubChecker(true),
	})
	if err != nil {
		t.Fatalf("Dry-run error = %v", err)
	}

	if result.EnvCreated {
		t.Error("Dry-run should not report env creation")
	}

	out := progress.String()
	if !strings.Contains(out, "would run") {
		t.Errorf("Expected dry-run step display, got: %s", out)
	}
	if !strings.Contains(out, "would clone") {
		t.Errorf("Expected dry-run clone display, got: %s", out)
	}
}

func TestBootstrapCloneSkippedWhenCached(t *testing.T) {
	tmpDir := t.TempDir()
	cacheDir := filepath.Join(tmpDir, "cache")

	// Pre-existing cache directory means the clone must be skipped
	sourceDir := filepath.Join(cacheDir, bootstrap.DefaultSourceDirName)
	if err := os.MkdirAll(sourceDir, 0755); err != nil {
		t.Fatalf("Failed to create cache dir: %v", err)
	}

	result, err := bootstrap.Run(&bootstrap.Config{
		EnvDir:   filepath.Join(tmpDir, "env"),
		CacheDir: cacheDir,
		DryRun:   true,
		Checker:  stubChecker(true),
	})
	if err != nil {
		t.Fatalf("Bootstrap error = %v", err)
	}

	if !result.CloneSkipped {
		t.Error("Expected clone to be skipped for existing cache")
	}
	if result.Cloned {
		t.Error("Expected no clone this run")
	}
	if result.SourcePath != sourceDir {
		t.Errorf("SourcePath = %s, want %s", result.SourcePath, sourceDir)
	}
}

func TestBootstrapEnvWipedOnRerun(t *testing.T) {
	tmpDir := t.TempDir()
	envDir := filepath.Join(tmpDir, "env")

	// Leftover from a previous (aborted) run
	marker := filepath.Join(envDir, "leftover.txt")
	if err := os.MkdirAll(envDir, 0755); err != nil {
		t.Fatalf("Failed to create env dir: %v", err)
	}
	if err := os.WriteFile(marker, []byte("stale"), 0644); err != nil {
		t.Fatalf("Failed to write marker: %v", err)
	}

	// "python" resolves to sh, so "sh -m venv <dir>" fails - but the wipe
	// happens before the venv step and must have taken effect
	_, err := bootstrap.Run(&bootstrap.Config{
		EnvDir:   envDir,
		CacheDir: filepath.Join(tmpDir, "cache"),
		Checker:  stubChecker(true),
	})
	if err == nil {
		t.Fatal("Expected venv creation to fail with the stub interpreter")
	}

	if _, statErr := os.Stat(marker); !os.IsNotExist(statErr) {
		t.Error("Expected previous environment contents to be wiped")
	}
}

func TestBootstrapKeepEnv(t *testing.T) {
	tmpDir := t.TempDir()
	envDir := filepath.Join(tmpDir, "env")

	marker := filepath.Join(envDir, "keep-me.txt")
	if err := os.MkdirAll(envDir, 0755); err != nil {
		t.Fatalf("Failed to create env dir: %v", err)
	}
	if err := os.WriteFile(marker, []byte("keep"), 0644); err != nil {
		t.Fatalf("Failed to write marker: %v", err)
	}

	_, err := bootstrap.Run(&bootstrap.Config{
		EnvDir:   envDir,
		CacheDir: filepath.Join(tmpDir, "cache"),
		DryRun:   true,
		KeepEnv:  true,
		Checker:  stubChecker(true),
	})
	if err != nil {
		t.Fatalf("Bootstrap error = %v", err)
	}

	if _, statErr := os.Stat(marker); statErr != nil {
		t.Error("Expected existing environment to be preserved with KeepEnv")
	}
}

func TestBootstrapConfigValidation(t *testing.T) {
	if _, err := bootstrap.Run(nil); err == nil {
		t.Error("Expected error for nil config")
	}

	if _, err := bootstrap.Run(&bootstrap.Config{CacheDir: "/tmp"}); err == nil {
		t.Error("Expected error for empty env dir")
	}

	if _, err := bootstrap.Run(&bootstrap.Config{EnvDir: "/tmp/env"}); err == nil {
		t.Error("Expected error for empty cache dir")
	}
}

func TestDefaultRequirementsPinned(t *testing.T) {
	for _, req := range bootstrap.DefaultRequirements() {
		if !strings.Contains(req, "==") {
			t.Errorf("Requirement %q is not exactly pinned", req)
		}
	}
}

func TestCloneValidation(t *testing.T) {
	if err := bootstrap.Clone(&bootstrap.CloneConfig{Destination: "/tmp/x"}); err == nil {
		t.Error("Expected error for empty URL")
	}

	if err := bootstrap.Clone(&bootstrap.CloneConfig{URL: "https://example.com/repo.git"}); err == nil {
		t.Error("Expected error for empty destination")
	}
}

func TestClonePartialCleanup(t *testing.T) {
	tmpDir := t.TempDir()
	dest := filepath.Join(tmpDir, "clone")

	// Unreachable local path makes the clone fail fast without network
	err := bootstrap.Clone(&bootstrap.CloneConfig{
		URL:         filepath.Join(tmpDir, "no-such-repo"),
		Destination: dest,
		Shallow:     true,
	})
	if err == nil {
		t.Fatal("Expected clone to fail")
	}

	if _, statErr := os.Stat(dest); !os.IsNotExist(statErr) {
		t.Error("Expected partial clone directory to be removed on failure")
	}
}
