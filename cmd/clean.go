/*
Copyright © 2026 ソニーレベル <c7kali3@gmail.com>

*/
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/voluma/wheelhouse/internal/workspace"
)

var (
	cleanAll        bool
	cleanEnv        bool
	cleanStaleHours int
)

// cleanCmd represents the clean command
var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove stale run logs or the whole packaging tree",
	Long: `Remove run logs older than the stale cutoff. With --env, only the
isolated environment is removed. With --all, the entire packaging
tree is removed instead - wheels, cache and environment included.

Examples:
  wheelhouse clean
  wheelhouse clean --stale-hours 24
  wheelhouse clean --env
  wheelhouse clean --all`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return executeClean()
	},
}

func init() {
	rootCmd.AddCommand(cleanCmd)

	cleanCmd.Flags().BoolVar(&cleanAll, "all", false, "Remove the entire packaging tree")
	cleanCmd.Flags().BoolVar(&cleanEnv, "env", false, "Remove only the isolated environment")
	cleanCmd.Flags().IntVar(&cleanStaleHours, "stale-hours", 72, "Remove run logs older than this many hours")
}

func executeClean() error {
	// Do not create the tree just to delete from it
	base := baseDir
	if base == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return err
		}
		base = cwd
	}
	ws := &workspace.Layout{Root: filepath.Join(base, workspace.DefaultRoot)}

	if cleanAll {
		if dryRun {
			fmt.Printf("[DRY-RUN MODE] Would remove %s\n", ws.Root)
			return nil
		}
		if err := ws.CleanupAll(); err != nil {
			return err
		}
		fmt.Printf("✓ Removed %s\n", ws.Root)
		return nil
	}

	if cleanEnv {
		if dryRun {
			fmt.Printf("[DRY-RUN MODE] Would remove %s\n", ws.EnvPath())
			return nil
		}
		if err := ws.CleanupEnv(); err != nil {
			return err
		}
		fmt.Printf("✓ Removed %s\n", ws.EnvPath())
		return nil
	}

	if dryRun {
		fmt.Printf("[DRY-RUN MODE] Would remove logs older than %dh from %s\n", cleanStaleHours, ws.LogsPath())
		return nil
	}

	cleaned, err := ws.CleanupStaleLogs(cleanStaleHours)
	if err != nil {
		return err
	}

	fmt.Printf("✓ Removed %d stale run logs\n", cleaned)
	return nil
}
