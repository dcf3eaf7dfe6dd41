// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Wheel spec table for the bundled GPU backends

package wheels

import (
	"fmt"
	"strings"
)

// WheelSpec pins one prebuilt wheel: exact version, exact interpreter and
// platform tags. No range resolution happens anywhere downstream.
type WheelSpec struct {
	Distribution string // Package name as published (e.g. "cupy-cuda12x")
	Version      string // Exact version pin
	PythonTag    string // e.g. "cp311"
	ABITag       string // e.g. "cp311"
	PlatformTag  string // e.g. "macosx_14_0_arm64"
}

// DefaultSpecs returns the wheels bundled with the extension.
// Blender 4.x ships Python 3.11, so everything is pinned to cp311:
// MLX covers Apple Silicon, CuPy covers NVIDIA CUDA on Windows and Linux.
// The NumPy fallback needs no wheel - Blender bundles it.
func DefaultSpecs() []WheelSpec {
	return []WheelSpec{
		{
			Distribution: "mlx",
			Version:      "0.22.0",
			PythonTag:    "cp311",
			ABITag:       "cp311",
			PlatformTag:  "macosx_14_0_arm64",
		},
		{
			Distribution: "cupy-cuda12x",
			Version:      "13.3.0",
			PythonTag:    "cp311",
			ABITag:       "cp311",
			PlatformTag:  "win_amd64",
		},
		{
			Distribution: "cupy-cuda12x",
			Version:      "13.3.0",
			PythonTag:    "cp311",
			ABITag:       "cp311",
			PlatformTag:  "manylinux2014_x86_64",
		},
	}
}

// Requirement returns the exact pin in pip requirement syntax
func (s *WheelSpec) Requirement() string {
	return fmt.Sprintf("%s==%s", s.Distribution, s.Version)
}

// Filename returns the wheel filename pip will produce for this spec,
// per the wheel binary distribution naming convention
func (s *WheelSpec) Filename() string {
	return fmt.Sprintf("%s-%s-%s-%s-%s.whl",
		NormalizeDistribution(s.Distribution), s.Version, s.PythonTag, s.ABITag, s.PlatformTag)
}

// ID returns a short identifier for progress output and step naming
func (s *WheelSpec) ID() string {
	return fmt.Sprintf("%s-%s", NormalizeDistribution(s.Distribution), s.PlatformTag)
}

// String returns a human-readable description of the spec
func (s *WheelSpec) String() string {
	return fmt.Sprintf("%s==%s (%s-%s-%s)",
		s.Distribution, s.Version, s.PythonTag, s.ABITag, s.PlatformTag)
}

// NormalizeDistribution converts a distribution name to the escaped form
// used inside wheel filenames (runs of -, _ and . become a single _)
func NormalizeDistribution(name string) string {
	var sb strings.Builder
	prevUnderscore := false
	for _, r := range name {
		if r == '-' || r == '_' || r == '.' {
			if !prevUnderscore {
				sb.WriteRune('_')
				prevUnderscore = true
			}
			continue
		}
		prevUnderscore = false
		sb.WriteRune(r)
	}
	return sb.String()
}

// pythonVersionNumber extracts the bare version from a python tag:
// "cp311" -> "311". pip's --python-version flag wants the number only.
func pythonVersionNumber(pythonTag string) string {
	return strings.TrimLeft(pythonTag, "abcdefghijklmnopqrstuvwxyz")
}

// pythonImplementation extracts the implementation code from a python tag:
// "cp311" -> "cp"
func pythonImplementation(pythonTag string) string {
	for i, r := range pythonTag {
		if r >= '0' && r <= '9' {
			return pythonTag[:i]
		}
	}
	return pythonTag
}
