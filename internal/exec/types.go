// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Execution types

package exec

import (
	"strings"
	"time"
)

// DefaultStepTimeout is the default timeout for a single step
const DefaultStepTimeout = 10 * time.Minute

// MaxStepTimeout is the maximum allowed timeout for a single step
const MaxStepTimeout = 60 * time.Minute

// ExecutionMode determines how the runner behaves
type ExecutionMode int

const (
	// ModeDryRun displays what would happen without executing
	ModeDryRun ExecutionMode = iota
	// ModeExecute actually runs the commands
	ModeExecute
)

// Step is a single command to run. Commands are argv-style; nothing here
// passes through a shell.
type Step struct {
	ID      string        // Short identifier, e.g. "download-mlx"
	Argv    []string      // Command and arguments
	Dir     string        // Working directory ("" = runner working dir)
	Timeout time.Duration // Per-step timeout (0 = runner default)
}

// Command returns the step's argv joined for display
func (s *Step) Command() string {
	return strings.Join(s.Argv, " ")
}

// RunnerConfig configures the executor
type RunnerConfig struct {
	Mode           ExecutionMode
	WorkingDir     string        // Base working directory
	Verbose        bool          // Enable verbose output
	StepTimeout    time.Duration // Default timeout per step
	OnStepStart    func(step *Step)
	OnStepComplete func(step *Step, result *StepResult)
}

// StepResult contains the result of executing a single step
type StepResult struct {
	StepID   string
	Success  bool
	ExitCode int
	Duration time.Duration
	Stdout   string
	Stderr   string
	Error    error
}

// RunResult contains the complete result of a step sequence.
// Execution is fail-fast: the first failed step ends the sequence, so at
// most one result is a failure and it is always the last one.
type RunResult struct {
	Success     bool
	TotalSteps  int
	Completed   int
	TotalTime   time.Duration
	StepResults []*StepResult
	FailedStep  *StepResult
}

// NewRunResult creates an empty run result
func NewRunResult() *RunResult {
	return &RunResult{
		Success:     true,
		StepResults: make([]*StepResult, 0),
	}
}

// AddStepResult adds a step result to the run
func (r *RunResult) AddStepResult(result *StepResult) {
	r.StepResults = append(r.StepResults, result)
	r.TotalSteps++

	if result.Success {
		r.Completed++
	} else {
		r.Success = false
		if r.FailedStep == nil {
			r.FailedStep = result
		}
	}
}

// GetStepTimeout returns the timeout for a step
func GetStepTimeout(step *Step, defaultTimeout time.Duration) time.Duration {
	if step.Timeout > 0 {
		if step.Timeout > MaxStepTimeout {
			return MaxStepTimeout
		}
		return step.Timeout
	}
	if defaultTimeout > 0 {
		return defaultTimeout
	}
	return DefaultStepTimeout
}
