// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Fail-fast step executor with streaming output

package exec

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Runner executes a sequence of steps. The first failure halts the
// sequence; there is no retry and no continuation past a failed step.
type Runner struct {
	config *RunnerConfig
}

// NewRunner creates a new step runner
func NewRunner(config *RunnerConfig) *Runner {
	if config == nil {
		config = &RunnerConfig{
			Mode:        ModeDryRun,
			StepTimeout: DefaultStepTimeout,
		}
	}

	return &Runner{config: config}
}

// Execute runs all steps in order, stopping at the first failure
func (r *Runner) Execute(steps []Step) *RunResult {
	result := NewRunResult()
	startTime := time.Now()

	for i := range steps {
		step := &steps[i]

		if r.config.OnStepStart != nil {
			r.config.OnStepStart(step)
		}

		stepResult := r.executeStep(step)
		result.AddStepResult(stepResult)

		if r.config.OnStepComplete != nil {
			r.config.OnStepComplete(step, stepResult)
		}

		if !stepResult.Success {
			break
		}
	}

	result.TotalTime = time.Since(startTime)
	return result
}

// executeStep runs a single step
func (r *Runner) executeStep(step *Step) *StepResult {
	result := &StepResult{
		StepID: step.ID,
	}

	startTime := time.Now()

	// Dry-run mode: just display what would happen
	if r.config.Mode == ModeDryRun {
		result.Success = true
		result.Duration = time.Since(startTime)
		return result
	}

	cmdResult := r.runCommand(step)
	result.Success = cmdResult.Success
	result.ExitCode = cmdResult.ExitCode
	result.Stdout = cmdResult.Stdout
	result.Stderr = cmdResult.Stderr
	result.Error = cmdResult.Error
	result.Duration = time.Since(startTime)

	return result
}

// CommandResult contains the raw result of running a command
type CommandResult struct {
	Success  bool
	ExitCode int
	Stdout   string
	Stderr   string
	Error    error
}

// runCommand executes a step's argv
func (r *Runner) runCommand(step *Step) *CommandResult {
	result := &CommandResult{}

	if len(step.Argv) == 0 {
		result.Error = fmt.Errorf("step %s has empty argv", step.ID)
		return result
	}

	// Determine working directory
	workDir := r.config.WorkingDir
	if step.Dir != "" && step.Dir != "." {
		if filepath.IsAbs(step.Dir) {
			workDir = step.Dir
		} else {
			workDir = filepath.Join(r.config.WorkingDir, step.Dir)
		}
	}

	timeout := GetStepTimeout(step, r.config.StepTimeout)
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, step.Argv[0], step.Argv[1:]...)
	cmd.Dir = workDir

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		result.Error = fmt.Errorf("failed to create stdout pipe: %w", err)
		return result
	}

	stderr, err := cmd.StderrPipe()
	if err != nil {
		result.Error = fmt.Errorf("failed to create stderr pipe: %w", err)
		return result
	}

	if err := cmd.Start(); err != nil {
		result.Error = fmt.Errorf("failed to start command: %w", err)
		return result
	}

	// Read output concurrently
	var stdoutBuf, stderrBuf strings.Builder
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		r.streamOutput(stdout, &stdoutBuf, os.Stdout)
	}()

	go func() {
		defer wg.Done()
		r.streamOutput(stderr, &stderrBuf, os.Stderr)
	}()

	wg.Wait()

	err = cmd.Wait()

	result.Stdout = stdoutBuf.String()
	result.Stderr = stderrBuf.String()

	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			result.Error = fmt.Errorf("command timed out after %v", timeout)
		} else if exitErr, ok := err.(*exec.ExitError); ok {
			result.ExitCode = exitErr.ExitCode()
			result.Error = fmt.Errorf("command exited with code %d", result.ExitCode)
		} else {
			result.Error = err
		}
		return result
	}

	result.Success = true
	result.ExitCode = 0
	return result
}

// streamOutput reads from a pipe and writes to both a buffer and output
func (r *Runner) streamOutput(pipe io.ReadCloser, buf *strings.Builder, out io.Writer) {
	scanner := bufio.NewScanner(pipe)
	for scanner.Scan() {
		line := scanner.Text()
		buf.WriteString(line)
		buf.WriteString("\n")

		if r.config.Verbose {
			fmt.Fprintln(out, line)
		}
	}
}

// FormatStepResult returns a human-readable step result
func FormatStepResult(result *StepResult) string {
	var sb strings.Builder

	if result.Success {
		sb.WriteString(fmt.Sprintf("✓ %s: Success", result.StepID))
	} else {
		sb.WriteString(fmt.Sprintf("✗ %s: Failed", result.StepID))
		if result.Error != nil {
			sb.WriteString(fmt.Sprintf(" - %s", result.Error.Error()))
		}
	}

	sb.WriteString(fmt.Sprintf(" (%v)", result.Duration.Round(time.Millisecond)))
	return sb.String()
}

// FormatRunResult returns a human-readable run summary
func FormatRunResult(result *RunResult) string {
	var sb strings.Builder

	sb.WriteString("\n─────────────────────────────────────\n")
	sb.WriteString("Run Summary\n")
	sb.WriteString("─────────────────────────────────────\n")

	if result.Success {
		sb.WriteString("✓ All steps completed successfully\n")
	} else {
		sb.WriteString("✗ Run failed\n")
	}

	sb.WriteString(fmt.Sprintf("\nTotal steps: %d\n", result.TotalSteps))
	sb.WriteString(fmt.Sprintf("  Completed: %d\n", result.Completed))
	sb.WriteString(fmt.Sprintf("\nTotal time: %v\n", result.TotalTime.Round(time.Millisecond)))

	if result.FailedStep != nil {
		sb.WriteString(fmt.Sprintf("\nFailed at step: %s\n", result.FailedStep.StepID))
		if result.FailedStep.Stderr != "" {
			sb.WriteString("\nError output:\n")
			// Show last 10 lines of stderr
			lines := strings.Split(strings.TrimSpace(result.FailedStep.Stderr), "\n")
			if len(lines) > 10 {
				lines = lines[len(lines)-10:]
			}
			for _, line := range lines {
				sb.WriteString("  " + line + "\n")
			}
		}
	}

	return sb.String()
}
