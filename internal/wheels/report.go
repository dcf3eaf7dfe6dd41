// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Size reporting for the wheel output directory

package wheels

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// SizeEntry is one wheel file with its on-disk size
type SizeEntry struct {
	Name string
	Size int64
}

// SizeReport lists every wheel in a directory with sizes and the aggregate
type SizeReport struct {
	Dir     string
	Entries []SizeEntry
	Total   int64
}

// ReportSizes scans a directory for wheel files and totals their sizes
func ReportSizes(dir string) (*SizeReport, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read wheel directory %s: %w", dir, err)
	}

	report := &SizeReport{Dir: dir}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".whl") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		report.Entries = append(report.Entries, SizeEntry{
			Name: entry.Name(),
			Size: info.Size(),
		})
		report.Total += info.Size()
	}

	sort.Slice(report.Entries, func(i, j int) bool {
		return report.Entries[i].Name < report.Entries[j].Name
	})

	return report, nil
}

// FormatSizeReport returns a human-readable listing with aggregate size
func FormatSizeReport(report *SizeReport) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Wheels in %s:\n", report.Dir))
	for _, entry := range report.Entries {
		sb.WriteString(fmt.Sprintf("  %-60s %s\n", entry.Name, FormatBytes(entry.Size)))
	}
	sb.WriteString(fmt.Sprintf("\nTotal: %d wheels, %s\n", len(report.Entries), FormatBytes(report.Total)))

	return sb.String()
}

// FormatBytes renders a byte count with a binary unit suffix
func FormatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

// WheelPath returns the expected path of a spec's wheel inside dir
func WheelPath(dir string, spec *WheelSpec) string {
	return filepath.Join(dir, spec.Filename())
}
