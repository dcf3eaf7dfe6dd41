/*
Copyright © 2026 ソニーレベル <c7kali3@gmail.com>

*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/voluma/wheelhouse/internal/wheels"
)

var (
	fetchDest         string
	fetchPip          string
	fetchSkipExisting bool
)

// fetchCmd represents the fetch command
var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download the bundled GPU wheels",
	Long: `Download every wheel in the bundled-wheel table into the wheel
output directory, one pip download per pinned (package, version,
interpreter, platform) row.

Downloads are exact: --no-deps, binary only, fixed interpreter and
platform tags. The first failed download aborts the run; later rows
are not attempted. On success the resulting files are listed with
their sizes plus the aggregate directory size.

Examples:
  wheelhouse fetch
  wheelhouse fetch --dry-run
  wheelhouse fetch --skip-existing
  wheelhouse fetch --dest ./dist/wheels`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return executeFetch()
	},
}

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().StringVar(&fetchDest, "dest", "", "Wheel output directory (default: <tree>/wheels)")
	fetchCmd.Flags().StringVar(&fetchPip, "pip", "", "pip command to invoke (default: pip3)")
	fetchCmd.Flags().BoolVar(&fetchSkipExisting, "skip-existing", false, "Skip wheels already present in the output directory")
}

func executeFetch() error {
	dest := fetchDest
	if dest == "" {
		ws, err := layout()
		if err != nil {
			return fmt.Errorf("failed to create packaging tree: %w", err)
		}
		dest = ws.WheelsPath()
	}

	specs := wheels.DefaultSpecs()

	fmt.Printf("Fetching %d wheels into %s\n", len(specs), dest)
	for i := range specs {
		fmt.Printf("  • %s\n", specs[i].String())
	}

	if dryRun {
		fmt.Println("\n[DRY-RUN MODE] No downloads will be executed.")
	}

	fmt.Println("\n[1/2] Download")
	report, err := wheels.Fetch(&wheels.FetchConfig{
		Dest:         dest,
		PipCommand:   fetchPip,
		DryRun:       dryRun,
		Verbose:      verbose,
		SkipExisting: fetchSkipExisting,
		Progress:     os.Stdout,
	}, specs)
	if err != nil {
		return err
	}

	fmt.Printf("  → %d downloaded, %d skipped\n", len(report.Downloaded), len(report.Skipped))

	fmt.Println("\n[2/2] Report")
	if dryRun {
		fmt.Println("  → Skipped (dry-run mode)")
		return nil
	}

	sizes, err := wheels.ReportSizes(dest)
	if err != nil {
		return err
	}

	fmt.Print(wheels.FormatSizeReport(sizes))
	return nil
}
