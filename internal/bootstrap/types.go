// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Bootstrap types and pinned requirements

package bootstrap

import (
	"io"
	"path/filepath"
	"runtime"
	"time"

	"github.com/voluma/wheelhouse/internal/prereq"
)

// DefaultInstallTimeout bounds the requirements install step.
// Torch alone is a multi-GB download on some platforms.
const DefaultInstallTimeout = 45 * time.Minute

// DefaultSourceRepo is the model source cloned into the cache for the
// conversion workflow
const DefaultSourceRepo = "https://github.com/bowang-lab/MedSAM2.git"

// DefaultSourceDirName is the directory name the clone lands in under the cache
const DefaultSourceDirName = "MedSAM2"

// Config holds configuration for the bootstrap sequence
type Config struct {
	EnvDir       string          // Isolated environment directory
	CacheDir     string          // Cache directory for cloned sources
	LogFile      string          // Optional run log path ("" = no log)
	SourceRepo   string          // Repository to clone (default DefaultSourceRepo)
	SourceDir    string          // Clone target name under CacheDir (default DefaultSourceDirName)
	DryRun       bool            // Print steps without executing
	Verbose      bool            // Stream subprocess output
	KeepEnv      bool            // Skip wiping an existing environment
	Timeout      time.Duration   // Per-step timeout (0 = default)
	Progress     io.Writer       // Progress output (optional, defaults to io.Discard)
	Requirements []string        // Pinned requirement list (default DefaultRequirements)
	Checker      *prereq.Checker // Prerequisite checker override (default prereq.NewChecker)
}

// Result summarizes a bootstrap run
type Result struct {
	EnvCreated   bool   // Whether the environment was (re)created
	Installed    int    // Number of requirements installed
	Cloned       bool   // Whether the source repository was cloned this run
	CloneSkipped bool   // Whether the clone was skipped (cache already present)
	SourcePath   string // Where the cloned source lives
}

// DefaultRequirements returns the pinned requirement list for the
// model-conversion environment. Exact pins only.
func DefaultRequirements() []string {
	return []string{
		"torch==2.5.1",
		"torchvision==0.20.1",
		"numpy==1.26.4",
		"onnx==1.17.0",
		"onnxruntime==1.20.1",
		"hydra-core==1.3.2",
		"tqdm==4.67.1",
		"pillow==11.0.0",
	}
}

// venvPython returns the interpreter path inside a venv
func venvPython(envDir string) string {
	if runtime.GOOS == "windows" {
		return filepath.Join(envDir, "Scripts", "python.exe")
	}
	return filepath.Join(envDir, "bin", "python")
}

// venvPip returns the pip path inside a venv
func venvPip(envDir string) string {
	if runtime.GOOS == "windows" {
		return filepath.Join(envDir, "Scripts", "pip.exe")
	}
	return filepath.Join(envDir, "bin", "pip")
}
