// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Cleanup functionality

package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// CleanupAll removes the entire packaging tree.
// Use with caution - wheels, cache and environment all go with it.
func (l *Layout) CleanupAll() error {
	if !l.Exists() {
		return nil
	}

	if err := os.RemoveAll(l.Root); err != nil {
		return fmt.Errorf("failed to remove packaging tree %s: %w", l.Root, err)
	}

	return nil
}

// CleanupStaleLogs removes run logs older than the given number of hours.
// Returns the number of log files removed.
func (l *Layout) CleanupStaleLogs(maxAgeHours int) (int, error) {
	logsDir := l.LogsPath()

	info, err := os.Stat(logsDir)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to stat logs directory %s: %w", logsDir, err)
	}
	if !info.IsDir() {
		return 0, nil
	}

	entries, err := os.ReadDir(logsDir)
	if err != nil {
		return 0, fmt.Errorf("failed to read logs directory: %w", err)
	}

	now := time.Now()
	cleaned := 0

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		entryInfo, err := entry.Info()
		if err != nil {
			continue
		}

		ageInHours := int(now.Sub(entryInfo.ModTime()).Hours())
		if ageInHours >= maxAgeHours {
			logPath := filepath.Join(logsDir, entry.Name())
			if err := os.Remove(logPath); err == nil {
				cleaned++
			}
		}
	}

	return cleaned, nil
}

// CleanupEnv removes only the isolated environment directory.
// Bootstrap calls this before recreating the venv.
func (l *Layout) CleanupEnv() error {
	envDir := l.EnvPath()
	if err := os.RemoveAll(envDir); err != nil {
		return fmt.Errorf("failed to remove environment %s: %w", envDir, err)
	}
	return nil
}
