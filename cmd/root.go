/*
Copyright © 2026 ソニーレベル <C7kali3@gmail.com>

*/
package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/voluma/wheelhouse/internal/workspace"
)

var (
	// Global flags
	baseDir string
	dryRun  bool
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "wheelhouse",
	Short: "Package GPU wheels and bootstrap the conversion environment",
	Long: `wheelhouse is the packaging companion for the Voluma Blender extension.

It downloads the prebuilt GPU-acceleration wheels that get bundled into
the extension (MLX for Apple Silicon, CuPy for CUDA), bootstraps the
isolated Python environment used by the model-conversion workflow, and
maintains the manifest the extension's runtime installer consults to
find the right wheel for the current platform.

Examples:
  wheelhouse fetch
  wheelhouse fetch --dry-run
  wheelhouse bootstrap
  wheelhouse manifest
  wheelhouse manifest --check
  wheelhouse clean --stale-hours 72`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// layout builds the packaging tree under the configured base directory
func layout() (*workspace.Layout, error) {
	base := baseDir
	if base == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		base = cwd
	}

	return workspace.New(&workspace.LayoutConfig{BaseDir: base})
}

func init() {
	// Persistent flags - available to all subcommands
	rootCmd.PersistentFlags().StringVar(&baseDir, "dir", "", "Base directory for the packaging tree (default: current directory)")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "Show commands without executing")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
}
