// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Bootstrap sequence: prerequisites, environment, requirements, source cache

package bootstrap

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/voluma/wheelhouse/internal/exec"
	"github.com/voluma/wheelhouse/internal/prereq"
)

// MissingToolError carries the failed prerequisite summary so the caller
// can print remediation guides and exit 1.
type MissingToolError struct {
	Summary *prereq.CheckSummary
	Guide   string
}

func (e *MissingToolError) Error() string {
	return fmt.Sprintf("missing prerequisites: %v", e.Summary.MissingTools)
}

func (e *MissingToolError) Unwrap() error {
	return prereq.ErrToolMissing
}

// Run executes the bootstrap sequence. Fail-fast throughout: any failed
// step halts the sequence and nothing done so far is rolled back. The env
// wipe at the start of the environment phase makes a later re-run safe.
func Run(config *Config) (*Result, error) {
	if config == nil {
		return nil, fmt.Errorf("bootstrap config is nil")
	}
	if config.EnvDir == "" {
		return nil, fmt.Errorf("environment directory is empty")
	}
	if config.CacheDir == "" {
		return nil, fmt.Errorf("cache directory is empty")
	}
	if config.Progress == nil {
		config.Progress = io.Discard
	}

	result := &Result{}

	// Phase 1: Prerequisites
	fmt.Fprintln(config.Progress, "\n[1/4] Prerequisites")
	checker := config.Checker
	if checker == nil {
		checker = prereq.NewChecker()
	}
	summary := checker.CheckMultiple([]string{"python", "git"})
	for _, check := range summary.Results {
		if check.Found {
			fmt.Fprintf(config.Progress, "  ✓ %s", check.Name)
			if check.Version != "" {
				fmt.Fprintf(config.Progress, " (%s)", check.Version)
			}
			fmt.Fprintln(config.Progress)
		} else {
			fmt.Fprintf(config.Progress, "  ✗ %s not found\n", check.Name)
		}
	}
	if !summary.AllFound {
		return nil, &MissingToolError{
			Summary: summary,
			Guide:   checker.FormatMissing(summary),
		}
	}

	python := checker.ResolveCommand("python")

	// Phase 2: Isolated environment
	fmt.Fprintln(config.Progress, "\n[2/4] Isolated environment")
	if err := createEnv(config, python, result); err != nil {
		return result, err
	}

	// Phase 3: Requirements
	fmt.Fprintln(config.Progress, "\n[3/4] Requirements")
	if err := installRequirements(config, result); err != nil {
		return result, err
	}

	// Phase 4: Source cache
	fmt.Fprintln(config.Progress, "\n[4/4] Source cache")
	if err := cloneSource(config, result); err != nil {
		return result, err
	}

	return result, nil
}

// createEnv wipes any previous environment and creates a fresh venv
func createEnv(config *Config, python string, result *Result) error {
	if _, err := os.Stat(config.EnvDir); err == nil {
		if config.KeepEnv {
			fmt.Fprintf(config.Progress, "  → keeping existing environment at %s\n", config.EnvDir)
			return nil
		}
		if config.DryRun {
			fmt.Fprintf(config.Progress, "  → would remove %s\n", config.EnvDir)
		} else {
			fmt.Fprintf(config.Progress, "  → removing previous environment\n")
			if err := os.RemoveAll(config.EnvDir); err != nil {
				return fmt.Errorf("failed to remove previous environment %s: %w", config.EnvDir, err)
			}
		}
	}

	step := exec.Step{
		ID:      "create-venv",
		Argv:    []string{python, "-m", "venv", config.EnvDir},
		Timeout: config.Timeout,
	}

	if err := runSteps(config, []exec.Step{step}); err != nil {
		return err
	}

	result.EnvCreated = !config.DryRun
	if result.EnvCreated {
		fmt.Fprintf(config.Progress, "  → environment ready (%s)\n", venvPython(config.EnvDir))
	}
	return nil
}

// installRequirements installs the pinned list with the venv's own pip
func installRequirements(config *Config, result *Result) error {
	requirements := config.Requirements
	if requirements == nil {
		requirements = DefaultRequirements()
	}
	if len(requirements) == 0 {
		fmt.Fprintln(config.Progress, "  → nothing to install")
		return nil
	}

	timeout := config.Timeout
	if timeout == 0 {
		timeout = DefaultInstallTimeout
	}

	argv := append([]string{venvPip(config.EnvDir), "install"}, requirements...)
	step := exec.Step{
		ID:      "install-requirements",
		Argv:    argv,
		Timeout: timeout,
	}

	fmt.Fprintf(config.Progress, "  → installing %d pinned requirements\n", len(requirements))
	if err := runSteps(config, []exec.Step{step}); err != nil {
		return err
	}

	result.Installed = len(requirements)
	return nil
}

// cloneSource clones the model source into the cache, but only when the
// target directory does not already exist. This is the one idempotence
// guard in the whole sequence.
func cloneSource(config *Config, result *Result) error {
	repo := config.SourceRepo
	if repo == "" {
		repo = DefaultSourceRepo
	}
	dirName := config.SourceDir
	if dirName == "" {
		dirName = DefaultSourceDirName
	}

	target := filepath.Join(config.CacheDir, dirName)
	result.SourcePath = target

	if _, err := os.Stat(target); err == nil {
		result.CloneSkipped = true
		fmt.Fprintf(config.Progress, "  → %s already present, skipping clone\n", target)
		return nil
	}

	if config.DryRun {
		fmt.Fprintf(config.Progress, "  → would clone %s into %s\n", repo, target)
		return nil
	}

	fmt.Fprintf(config.Progress, "  → cloning %s\n", repo)
	if err := Clone(&CloneConfig{
		URL:         repo,
		Destination: target,
		Verbose:     config.Verbose,
		Progress:    config.Progress,
		Shallow:     true,
	}); err != nil {
		return err
	}

	result.Cloned = true
	fmt.Fprintf(config.Progress, "  → source ready at %s\n", target)
	return nil
}

// runSteps runs a step sequence through the executor and converts a failed
// run into an error
func runSteps(config *Config, steps []exec.Step) error {
	mode := exec.ModeExecute
	if config.DryRun {
		mode = exec.ModeDryRun
	}

	runner := exec.NewRunner(&exec.RunnerConfig{
		Mode:        mode,
		Verbose:     config.Verbose,
		StepTimeout: config.Timeout,
		OnStepStart: func(step *exec.Step) {
			if config.DryRun {
				fmt.Fprintf(config.Progress, "  → would run: %s\n", step.Command())
			} else if config.Verbose {
				fmt.Fprintf(config.Progress, "  → %s\n", step.Command())
			}
		},
	})

	run := runner.Execute(steps)
	if !run.Success {
		failed := run.FailedStep
		writeRunLog(config, run)
		return fmt.Errorf("step %s failed: %w", failed.StepID, failed.Error)
	}

	writeRunLog(config, run)
	return nil
}

// writeRunLog appends step output to the run log, if one was configured.
// Log failures are not fatal to the bootstrap itself.
func writeRunLog(config *Config, run *exec.RunResult) {
	if config.LogFile == "" {
		return
	}

	f, err := os.OpenFile(config.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return
	}
	defer f.Close()

	for _, step := range run.StepResults {
		fmt.Fprintln(f, exec.FormatStepResult(step))
		if step.Stdout != "" {
			fmt.Fprintln(f, step.Stdout)
		}
		if step.Stderr != "" {
			fmt.Fprintln(f, step.Stderr)
		}
	}
}
