/*
Copyright © 2026 ソニーレベル <c7kali3@gmail.com>

*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/voluma/wheelhouse/internal/manifest"
)

var manifestCheck bool

// manifestCmd represents the manifest command
var manifestCmd = &cobra.Command{
	Use:   "manifest",
	Short: "Write or verify the bundled-wheel manifest",
	Long: `Scan the wheel output directory and write wheelhouse.yaml, the
manifest the extension's runtime installer consults to locate the
bundled wheel for the current platform.

With --check, the existing manifest is verified against the files on
disk instead: missing or resized wheels cause a non-zero exit.

Examples:
  wheelhouse manifest
  wheelhouse manifest --check`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return executeManifest(cmd)
	},
}

func init() {
	rootCmd.AddCommand(manifestCmd)

	manifestCmd.Flags().BoolVar(&manifestCheck, "check", false, "Verify the manifest against the wheel directory instead of writing it")
}

func executeManifest(cmd *cobra.Command) error {
	ws, err := layout()
	if err != nil {
		return fmt.Errorf("failed to create packaging tree: %w", err)
	}

	if manifestCheck {
		m, err := manifest.Load(ws.ManifestFile())
		if err != nil {
			return err
		}

		problems := manifest.Check(m, ws.Root)
		if len(problems) == 0 {
			fmt.Printf("✓ %d wheels verified against %s\n", len(m.Wheels), ws.ManifestFile())
			return nil
		}

		for _, p := range problems {
			fmt.Fprintf(os.Stderr, "✗ %s: %s\n", p.Path, p.Reason)
		}
		cmd.SilenceUsage = true
		return fmt.Errorf("%d manifest entries out of sync", len(problems))
	}

	m, err := manifest.Scan(ws.WheelsPath())
	if err != nil {
		return err
	}

	if len(m.Wheels) == 0 {
		fmt.Println("⚠ No wheels found - run 'wheelhouse fetch' first")
	}

	if dryRun {
		fmt.Printf("[DRY-RUN MODE] Would write %d entries to %s\n", len(m.Wheels), ws.ManifestFile())
		return nil
	}

	if err := manifest.Save(m, ws.ManifestFile()); err != nil {
		return err
	}

	fmt.Printf("✓ Wrote %d entries to %s\n", len(m.Wheels), ws.ManifestFile())
	for _, entry := range m.Wheels {
		fmt.Printf("  • %s (%s, %s)\n", entry.Path, entry.PlatformTag, entry.Version)
	}

	return nil
}
