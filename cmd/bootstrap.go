/*
Copyright © 2026 ソニーレベル <c7kali3@gmail.com>

*/
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/voluma/wheelhouse/internal/bootstrap"
	"github.com/voluma/wheelhouse/internal/workspace"
)

var (
	bootstrapKeepEnv bool
	bootstrapRepo    string
)

// bootstrapCmd represents the bootstrap command
var bootstrapCmd = &cobra.Command{
	Use:   "bootstrap",
	Short: "Set up the model-conversion environment",
	Long: `Verify prerequisites, create a fresh isolated Python environment,
install the pinned conversion requirements into it, and clone the
model source into the cache if it is not already there.

The environment is recreated unconditionally on every run (wiped,
then rebuilt); only the source clone is guarded by an existence
check. Any failed step halts the sequence immediately.

Exits 1 with installation instructions when a required tool
(python3, git) is missing.

Examples:
  wheelhouse bootstrap
  wheelhouse bootstrap --dry-run
  wheelhouse bootstrap --keep-env`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return executeBootstrap()
	},
}

func init() {
	rootCmd.AddCommand(bootstrapCmd)

	bootstrapCmd.Flags().BoolVar(&bootstrapKeepEnv, "keep-env", false, "Do not wipe an existing environment before setup")
	bootstrapCmd.Flags().StringVar(&bootstrapRepo, "source-repo", "", "Source repository to cache (default: MedSAM2 upstream)")
}

func executeBootstrap() error {
	ws, err := layout()
	if err != nil {
		return fmt.Errorf("failed to create packaging tree: %w", err)
	}

	runID, err := workspace.GenerateRunID()
	if err != nil {
		return fmt.Errorf("failed to generate run ID: %w", err)
	}

	fmt.Printf("Run ID: %s\n", runID)
	fmt.Printf("Tree:   %s\n", ws.Root)

	if dryRun {
		fmt.Println("\n[DRY-RUN MODE] No commands will be executed.")
	}

	result, err := bootstrap.Run(&bootstrap.Config{
		EnvDir:     ws.EnvPath(),
		CacheDir:   ws.CachePath(),
		LogFile:    ws.LogFile(runID),
		SourceRepo: bootstrapRepo,
		DryRun:     dryRun,
		Verbose:    verbose,
		KeepEnv:    bootstrapKeepEnv,
		Progress:   os.Stdout,
	})

	var missing *bootstrap.MissingToolError
	if errors.As(err, &missing) {
		fmt.Fprintln(os.Stderr)
		fmt.Fprint(os.Stderr, missing.Guide)
		os.Exit(1)
	}
	if err != nil {
		return err
	}

	fmt.Println("\n─────────────────────────────────────")
	fmt.Println("Bootstrap complete")
	fmt.Println("─────────────────────────────────────")
	if result.EnvCreated {
		fmt.Printf("  Environment:  %s\n", ws.EnvPath())
	}
	fmt.Printf("  Requirements: %d installed\n", result.Installed)
	if result.CloneSkipped {
		fmt.Printf("  Source:       %s (cached)\n", result.SourcePath)
	} else {
		fmt.Printf("  Source:       %s\n", result.SourcePath)
	}

	return nil
}
