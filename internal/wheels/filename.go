// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Wheel filename parsing

package wheels

import (
	"fmt"
	"strings"
)

// ParseFilename parses a wheel filename back into its spec components.
// Wheel filenames have the form
//
//	{distribution}-{version}(-{build})?-{python}-{abi}-{platform}.whl
//
// where distribution is already escaped (no hyphens), so splitting on "-"
// is unambiguous. The optional build tag is discarded.
func ParseFilename(name string) (WheelSpec, error) {
	if !strings.HasSuffix(name, ".whl") {
		return WheelSpec{}, fmt.Errorf("not a wheel filename: %s", name)
	}

	stem := strings.TrimSuffix(name, ".whl")
	parts := strings.Split(stem, "-")

	switch len(parts) {
	case 5:
		return WheelSpec{
			Distribution: parts[0],
			Version:      parts[1],
			PythonTag:    parts[2],
			ABITag:       parts[3],
			PlatformTag:  parts[4],
		}, nil
	case 6:
		// Build tag present between version and python tag
		return WheelSpec{
			Distribution: parts[0],
			Version:      parts[1],
			PythonTag:    parts[3],
			ABITag:       parts[4],
			PlatformTag:  parts[5],
		}, nil
	default:
		return WheelSpec{}, fmt.Errorf("malformed wheel filename: %s", name)
	}
}

// MatchesSpec reports whether a parsed filename corresponds to a spec.
// Distribution names compare in escaped form since filenames never carry
// the published hyphens.
func MatchesSpec(parsed, spec WheelSpec) bool {
	return parsed.Distribution == NormalizeDistribution(spec.Distribution) &&
		parsed.Version == spec.Version &&
		parsed.PythonTag == spec.PythonTag &&
		parsed.PlatformTag == spec.PlatformTag
}
