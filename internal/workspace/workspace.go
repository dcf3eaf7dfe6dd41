// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Packaging tree layout

package workspace

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

var (
	// mutex ensures thread-safe run ID generation
	idMutex sync.Mutex
	// lastTimestamp prevents duplicate IDs in the same minute
	lastTimestamp string
	lastCounter   int
)

// ResetRunIDState resets the global run ID generation state (for testing)
func ResetRunIDState() {
	idMutex.Lock()
	defer idMutex.Unlock()
	lastTimestamp = ""
	lastCounter = 0
}

// GenerateRunID creates a unique run ID with format: wh-YYYYMMDD-HHMM-3hexchars
// or wh-YYYYMMDD-HHMM-NNN (counter format) for rapid successive calls
// Thread-safe and guaranteed unique even with rapid consecutive calls
func GenerateRunID() (string, error) {
	idMutex.Lock()
	defer idMutex.Unlock()

	now := time.Now()
	timestamp := now.Format("20060102-1504")

	// Handle potential collisions within the same minute
	if timestamp == lastTimestamp {
		lastCounter++
		// Use counter format to ensure uniqueness (no random component)
		return fmt.Sprintf("%s-%s-%03d", RunIDPrefix, timestamp, lastCounter), nil
	}

	// New minute - generate fresh random hex
	randomBytes := make([]byte, 2)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	randomHex := hex.EncodeToString(randomBytes)[:3]

	lastTimestamp = timestamp
	lastCounter = 0

	return fmt.Sprintf("%s-%s-%s", RunIDPrefix, timestamp, randomHex), nil
}

// New creates the packaging tree layout under the given base directory.
// If config is nil, uses current working directory as base.
// All subdirectories are created if absent; existing content is untouched.
func New(config *LayoutConfig) (*Layout, error) {
	if config == nil {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current working directory: %w", err)
		}
		config = &LayoutConfig{BaseDir: cwd}
	}

	root := config.Root
	if root == "" {
		root = DefaultRoot
	}

	layout := &Layout{
		Root: filepath.Join(config.BaseDir, root),
	}

	subdirs := []string{layout.WheelsPath(), layout.CachePath(), layout.LogsPath()}
	for _, dir := range subdirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	// Env dir is NOT pre-created: bootstrap recreates it wholesale and the
	// venv module wants to create it itself.

	return layout, nil
}

// WheelsPath returns the fetcher output directory
func (l *Layout) WheelsPath() string {
	return filepath.Join(l.Root, WheelsSubdir)
}

// CachePath returns the cloned-sources cache directory
func (l *Layout) CachePath() string {
	return filepath.Join(l.Root, CacheSubdir)
}

// EnvPath returns the isolated environment directory
func (l *Layout) EnvPath() string {
	return filepath.Join(l.Root, EnvSubdir)
}

// LogsPath returns the per-run log directory
func (l *Layout) LogsPath() string {
	return filepath.Join(l.Root, LogsSubdir)
}

// LogFile returns the log path for a given run ID
func (l *Layout) LogFile(runID string) string {
	return filepath.Join(l.LogsPath(), runID+".log")
}

// ManifestFile returns the path of the bundled-wheel manifest
func (l *Layout) ManifestFile() string {
	return filepath.Join(l.Root, "wheelhouse.yaml")
}

// Exists checks if the tree root exists
func (l *Layout) Exists() bool {
	info, err := os.Stat(l.Root)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// String returns a string representation of the layout
func (l *Layout) String() string {
	return fmt.Sprintf("Layout{Root: %s}", l.Root)
}
