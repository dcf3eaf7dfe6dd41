// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Packaging tree types/constants

package workspace

const (
	// DefaultRoot is the packaging tree directory created next to the project
	DefaultRoot = ".wheelhouse"

	RunIDPrefix = "wh"

	WheelsSubdir = "wheels"
	CacheSubdir  = "cache"
	EnvSubdir    = "env"
	LogsSubdir   = "logs"
)

// Layout is the fixed packaging tree: fetcher output, source cache,
// isolated environment and per-run logs all live under one root.
type Layout struct {
	Root string
}

// LayoutConfig holds configuration for layout creation
type LayoutConfig struct {
	BaseDir string // Directory the tree is rooted under
	Root    string // Tree directory name (default DefaultRoot)
}
