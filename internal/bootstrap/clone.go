// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Git cloning for the source cache

package bootstrap

import (
	"fmt"
	"io"
	"os"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// CloneConfig holds configuration for cloning a source repository
type CloneConfig struct {
	URL         string    // Repository URL (HTTPS)
	Destination string    // Target directory (must not exist)
	Verbose     bool      // Enable clone progress output
	Progress    io.Writer // Progress output (optional)
	Shallow     bool      // Use shallow clone (depth=1)
}

// Clone clones a repository into the destination directory.
// A partial clone left behind by a failure is removed before the error
// is returned, so the caller's existence check stays meaningful.
func Clone(config *CloneConfig) error {
	if config.URL == "" {
		return fmt.Errorf("clone URL is empty")
	}
	if config.Destination == "" {
		return fmt.Errorf("clone destination is empty")
	}

	cloneOpts := &git.CloneOptions{
		URL:      config.URL,
		Progress: nil,
	}

	if config.Verbose && config.Progress != nil {
		cloneOpts.Progress = config.Progress
	}

	if config.Shallow {
		cloneOpts.Depth = 1
		cloneOpts.SingleBranch = true
		cloneOpts.ReferenceName = plumbing.HEAD
	}

	_, err := git.PlainClone(config.Destination, false, cloneOpts)
	if err != nil {
		// Clean up partial clone on failure
		_ = os.RemoveAll(config.Destination)
		return fmt.Errorf("failed to clone %s: %w", config.URL, err)
	}

	return nil
}
