// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Wheel fetch orchestration via pip download

package wheels

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/voluma/wheelhouse/internal/exec"
)

// DefaultDownloadTimeout bounds a single pip download invocation.
// CuPy wheels run to several hundred MB, so this is generous.
const DefaultDownloadTimeout = 20 * time.Minute

// FetchConfig holds configuration for fetching wheels
type FetchConfig struct {
	Dest         string        // Output directory for downloaded wheels
	PipCommand   string        // pip executable (default "pip3")
	DryRun       bool          // Print commands without executing
	Verbose      bool          // Stream pip output
	SkipExisting bool          // Skip specs whose wheel file already exists
	Timeout      time.Duration // Per-download timeout (0 = default)
	Progress     io.Writer     // Progress output (optional, defaults to io.Discard)
}

// FetchReport summarizes a fetch run
type FetchReport struct {
	Downloaded []WheelSpec // Specs fetched this run
	Skipped    []WheelSpec // Specs skipped because the wheel already existed
	Run        *exec.RunResult
}

// DownloadStep builds the pip download invocation for one spec.
// --no-deps and --only-binary keep pip from resolving anything beyond the
// exact pinned wheel; the tag flags select the cross-platform artifact.
func DownloadStep(spec *WheelSpec, dest string, timeout time.Duration) exec.Step {
	pip := "pip3"
	return exec.Step{
		ID: "download-" + spec.ID(),
		Argv: []string{
			pip, "download",
			spec.Requirement(),
			"--no-deps",
			"--only-binary", ":all:",
			"--python-version", pythonVersionNumber(spec.PythonTag),
			"--implementation", pythonImplementation(spec.PythonTag),
			"--abi", spec.ABITag,
			"--platform", spec.PlatformTag,
			"--dest", dest,
		},
		Timeout: timeout,
	}
}

// BuildSteps constructs the download step sequence for a set of specs
func BuildSteps(config *FetchConfig, specs []WheelSpec) []exec.Step {
	timeout := config.Timeout
	if timeout == 0 {
		timeout = DefaultDownloadTimeout
	}

	steps := make([]exec.Step, 0, len(specs))
	for i := range specs {
		step := DownloadStep(&specs[i], config.Dest, timeout)
		if config.PipCommand != "" {
			step.Argv[0] = config.PipCommand
		}
		steps = append(steps, step)
	}
	return steps
}

// Fetch downloads every spec's wheel into the destination directory.
// Fail-fast: the first failed download aborts the run and the error is
// returned; later specs are not attempted.
func Fetch(config *FetchConfig, specs []WheelSpec) (*FetchReport, error) {
	if config == nil {
		return nil, fmt.Errorf("fetch config is nil")
	}
	if config.Dest == "" {
		return nil, fmt.Errorf("destination is empty")
	}
	if config.Progress == nil {
		config.Progress = io.Discard
	}

	if err := os.MkdirAll(config.Dest, 0755); err != nil {
		return nil, fmt.Errorf("failed to create wheel directory %s: %w", config.Dest, err)
	}

	report := &FetchReport{}

	// Partition out already-present wheels when asked to
	pending := specs
	if config.SkipExisting {
		pending = nil
		for _, spec := range specs {
			if _, err := os.Stat(WheelPath(config.Dest, &spec)); err == nil {
				report.Skipped = append(report.Skipped, spec)
				fmt.Fprintf(config.Progress, "  → %s already present, skipping\n", spec.Filename())
				continue
			}
			pending = append(pending, spec)
		}
	}

	mode := exec.ModeExecute
	if config.DryRun {
		mode = exec.ModeDryRun
	}

	runner := exec.NewRunner(&exec.RunnerConfig{
		Mode:    mode,
		Verbose: config.Verbose,
		OnStepStart: func(step *exec.Step) {
			if config.DryRun {
				fmt.Fprintf(config.Progress, "  → would run: %s\n", step.Command())
			} else {
				fmt.Fprintf(config.Progress, "  → %s\n", step.Command())
			}
		},
		OnStepComplete: func(step *exec.Step, result *exec.StepResult) {
			if !config.DryRun {
				fmt.Fprintf(config.Progress, "  %s\n", exec.FormatStepResult(result))
			}
		},
	})

	steps := BuildSteps(config, pending)
	report.Run = runner.Execute(steps)

	for i := range report.Run.StepResults {
		if report.Run.StepResults[i].Success {
			report.Downloaded = append(report.Downloaded, pending[i])
		}
	}

	if !report.Run.Success {
		failed := report.Run.FailedStep
		return report, fmt.Errorf("download %s failed: %w", failed.StepID, failed.Error)
	}

	return report, nil
}
