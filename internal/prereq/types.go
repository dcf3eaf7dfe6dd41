// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Prerequisite types and tool definitions

package prereq

// Tool represents a prerequisite tool
type Tool struct {
	Name         string   // Tool name
	Command      string   // Command to check existence
	VersionCmd   string   // Command to get version
	Alternatives []string // Alternative command names
	InstallGuide string   // Installation instructions
	Category     string   // Category (runtime, package, vcs)
}

// DefaultTools returns the tools the packaging flows depend on
func DefaultTools() map[string]*Tool {
	return map[string]*Tool{
		"python": {
			Name:         "python",
			Command:      "python3",
			VersionCmd:   "python3 --version",
			Alternatives: []string{"python"},
			Category:     "runtime",
			InstallGuide: `Install Python 3.11+:
  macOS:   brew install python@3.11
  Ubuntu:  sudo apt install python3.11 python3.11-venv python3-pip
  Fedora:  sudo dnf install python3.11 python3-pip
  Windows: https://www.python.org/downloads/

  Blender 4.x bundles Python 3.11; wheels are fetched for cp311.`,
		},
		"pip": {
			Name:         "pip",
			Command:      "pip3",
			VersionCmd:   "pip3 --version",
			Alternatives: []string{"pip"},
			Category:     "package",
			InstallGuide: `pip is included with Python 3.4+.
If missing:
  python3 -m ensurepip --upgrade`,
		},
		"git": {
			Name:       "git",
			Command:    "git",
			VersionCmd: "git --version",
			Category:   "vcs",
			InstallGuide: `Install git:
  macOS:   brew install git
  Ubuntu:  sudo apt install git
  Fedora:  sudo dnf install git
  Windows: https://git-scm.com/download/win`,
		},
		"conda": {
			Name:         "conda",
			Command:      "conda",
			VersionCmd:   "conda --version",
			Alternatives: []string{"mamba", "micromamba"},
			Category:     "package",
			InstallGuide: `Install Miniconda:
  All:     https://docs.conda.io/en/latest/miniconda.html
  macOS:   brew install --cask miniconda

  Only needed for the optional conda-based conversion workflow.`,
		},
	}
}

// CheckResult contains the result of checking a tool
type CheckResult struct {
	Name    string // Tool name
	Found   bool   // Whether tool was found
	Version string // Detected version (if found)
	Path    string // Path to tool (if found)
	Error   error  // Error during check (if any)
}

// CheckSummary contains results for all checks
type CheckSummary struct {
	Results      []CheckResult // Individual results
	AllFound     bool          // Whether all tools were found
	MissingTools []string      // List of missing tool names
}

// NewCheckSummary creates a new check summary
func NewCheckSummary() *CheckSummary {
	return &CheckSummary{
		Results:      []CheckResult{},
		AllFound:     true,
		MissingTools: []string{},
	}
}

// AddResult adds a check result to the summary
func (s *CheckSummary) AddResult(result CheckResult) {
	s.Results = append(s.Results, result)
	if !result.Found {
		s.AllFound = false
		s.MissingTools = append(s.MissingTools, result.Name)
	}
}
