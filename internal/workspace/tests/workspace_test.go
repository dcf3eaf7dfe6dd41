// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Packaging tree tests

package tests

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/voluma/wheelhouse/internal/workspace"
)

func TestGenerateRunID(t *testing.T) {
	// Reset global state
	workspace.ResetRunIDState()

	runID, err := workspace.GenerateRunID()
	if err != nil {
		t.Fatalf("GenerateRunID() error = %v", err)
	}

	// Check format: wh-YYYYMMDD-HHMM-xxx
	pattern := `^wh-\d{8}-\d{4}-[a-f0-9]{3}\d*$`
	matched, err := regexp.MatchString(pattern, runID)
	if err != nil {
		t.Fatalf("regexp.MatchString error = %v", err)
	}
	if !matched {
		t.Errorf("GenerateRunID() = %v, want format wh-YYYYMMDD-HHMM-xxx", runID)
	}

	// Check prefix
	if !strings.HasPrefix(runID, workspace.RunIDPrefix+"-") {
		t.Errorf("GenerateRunID() = %v, want prefix %s-", runID, workspace.RunIDPrefix)
	}
}

func TestGenerateRunID_Uniqueness(t *testing.T) {
	// Reset global state
	workspace.ResetRunIDState()

	const numIDs = 100
	ids := make(map[string]bool)

	for i := 0; i < numIDs; i++ {
		runID, err := workspace.GenerateRunID()
		if err != nil {
			t.Fatalf("GenerateRunID() error = %v", err)
		}
		if ids[runID] {
			t.Errorf("Duplicate run ID generated: %v", runID)
		}
		ids[runID] = true
	}
}

func TestGenerateRunID_ThreadSafety(t *testing.T) {
	// Reset global state
	workspace.ResetRunIDState()

	const numGoroutines = 10
	const idsPerGoroutine = 20

	var wg sync.WaitGroup
	idChan := make(chan string, numGoroutines*idsPerGoroutine)

	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < idsPerGoroutine; j++ {
				runID, err := workspace.GenerateRunID()
				if err != nil {
					t.Errorf("GenerateRunID() error = %v", err)
					return
				}
				idChan <- runID
			}
		}()
	}

	wg.Wait()
	close(idChan)

	ids := make(map[string]bool)
	for runID := range idChan {
		if ids[runID] {
			t.Errorf("Duplicate run ID in concurrent generation: %v", runID)
		}
		ids[runID] = true
	}

	if len(ids) != numGoroutines*idsPerGoroutine {
		t.Errorf("Expected %d unique IDs, got %d", numGoroutines*idsPerGoroutine, len(ids))
	}
}

func TestNew(t *testing.T) {
	tmpDir := t.TempDir()

	ws, err := workspace.New(&workspace.LayoutConfig{BaseDir: tmpDir})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if !ws.Exists() {
		t.Error("Expected tree root to exist")
	}

	for _, dir := range []string{ws.WheelsPath(), ws.CachePath(), ws.LogsPath()} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Errorf("Expected %s to exist: %v", dir, err)
			continue
		}
		if !info.IsDir() {
			t.Errorf("Expected %s to be a directory", dir)
		}
	}

	// Env dir is deliberately not pre-created
	if _, err := os.Stat(ws.EnvPath()); !os.IsNotExist(err) {
		t.Error("Expected env directory to not be pre-created")
	}
}

func TestNewIsIdempotent(t *testing.T) {
	tmpDir := t.TempDir()

	ws1, err := workspace.New(&workspace.LayoutConfig{BaseDir: tmpDir})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	// Existing content survives a second New
	marker := filepath.Join(ws1.WheelsPath(), "keep.whl")
	if err := os.WriteFile(marker, []byte("x"), 0644); err != nil {
		t.Fatalf("Failed to write marker: %v", err)
	}

	ws2, err := workspace.New(&workspace.LayoutConfig{BaseDir: tmpDir})
	if err != nil {
		t.Fatalf("Second New() error = %v", err)
	}

	if ws1.Root != ws2.Root {
		t.Errorf("Roots differ: %s != %s", ws1.Root, ws2.Root)
	}

	if _, err := os.Stat(marker); err != nil {
		t.Error("Expected existing content to survive")
	}
}

func TestPaths(t *testing.T) {
	ws := &workspace.Layout{Root: "/base/.wheelhouse"}

	if ws.WheelsPath() != filepath.Join("/base/.wheelhouse", "wheels") {
		t.Errorf("WheelsPath() = %s", ws.WheelsPath())
	}
	if ws.ManifestFile() != filepath.Join("/base/.wheelhouse", "wheelhouse.yaml") {
		t.Errorf("ManifestFile() = %s", ws.ManifestFile())
	}
	if ws.LogFile("wh-1") != filepath.Join("/base/.wheelhouse", "logs", "wh-1.log") {
		t.Errorf("LogFile() = %s", ws.LogFile("wh-1"))
	}
}

func TestCleanupAll(t *testing.T) {
	tmpDir := t.TempDir()

	ws, err := workspace.New(&workspace.LayoutConfig{BaseDir: tmpDir})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := ws.CleanupAll(); err != nil {
		t.Fatalf("CleanupAll() error = %v", err)
	}

	if ws.Exists() {
		t.Error("Expected tree to be removed")
	}

	// Cleaning a missing tree is not an error
	if err := ws.CleanupAll(); err != nil {
		t.Errorf("CleanupAll() on missing tree error = %v", err)
	}
}

func TestCleanupStaleLogs(t *testing.T) {
	tmpDir := t.TempDir()

	ws, err := workspace.New(&workspace.LayoutConfig{BaseDir: tmpDir})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	oldLog := ws.LogFile("wh-old")
	newLog := ws.LogFile("wh-new")
	for _, path := range []string{oldLog, newLog} {
		if err := os.WriteFile(path, []byte("log"), 0644); err != nil {
			t.Fatalf("Failed to write log: %v", err)
		}
	}

	// Age the old log past the cutoff
	oldTime := time.Now().Add(-48 * time.Hour)
	if err := os.Chtimes(oldLog, oldTime, oldTime); err != nil {
		t.Fatalf("Failed to age log: %v", err)
	}

	cleaned, err := ws.CleanupStaleLogs(24)
	if err != nil {
		t.Fatalf("CleanupStaleLogs() error = %v", err)
	}

	if cleaned != 1 {
		t.Errorf("Expected 1 cleaned log, got %d", cleaned)
	}

	if _, err := os.Stat(oldLog); !os.IsNotExist(err) {
		t.Error("Expected old log to be removed")
	}
	if _, err := os.Stat(newLog); err != nil {
		t.Error("Expected new log to survive")
	}
}

func TestCleanupEnv(t *testing.T) {
	tmpDir := t.TempDir()

	ws, err := workspace.New(&workspace.LayoutConfig{BaseDir: tmpDir})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := os.MkdirAll(ws.EnvPath(), 0755); err != nil {
		t.Fatalf("Failed to create env dir: %v", err)
	}

	if err := ws.CleanupEnv(); err != nil {
		t.Fatalf("CleanupEnv() error = %v", err)
	}

	if _, err := os.Stat(ws.EnvPath()); !os.IsNotExist(err) {
		t.Error("Expected env directory to be removed")
	}

	// Wheels and cache are untouched
	if _, err := os.Stat(ws.WheelsPath()); err != nil {
		t.Error("Expected wheels directory to survive")
	}
}
