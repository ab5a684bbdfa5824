package version

import (
	"fmt"
	"strconv"
	"strings"
)

// Bit layout of the engine's packed version word.
const (
	majorShift = 22
	minorShift = 12

	maxMajor = 1<<(32-majorShift) - 1
	maxMinor = 1<<(majorShift-minorShift) - 1
	maxPatch = 1<<minorShift - 1
)

// Triple is a major.minor.patch version.
type Triple struct {
	Major uint32
	Minor uint32
	Patch uint32
}

func (t Triple) String() string {
	return fmt.Sprintf("%d.%d.%d", t.Major, t.Minor, t.Patch)
}

// Pack encodes t the way TRAP_MAKE_VERSION does: major<<22 | minor<<12 | patch.
func Pack(t Triple) (uint32, error) {
	if t.Major > maxMajor {
		return 0, fmt.Errorf("major %d exceeds %d", t.Major, maxMajor)
	}
	if t.Minor > maxMinor {
		return 0, fmt.Errorf("minor %d exceeds %d", t.Minor, maxMinor)
	}
	if t.Patch > maxPatch {
		return 0, fmt.Errorf("patch %d exceeds %d", t.Patch, maxPatch)
	}
	return t.Major<<majorShift | t.Minor<<minorShift | t.Patch, nil
}

// Unpack decodes a packed version word.
func Unpack(v uint32) Triple {
	return Triple{
		Major: v >> majorShift,
		Minor: (v >> minorShift) & maxMinor,
		Patch: v & maxPatch,
	}
}

// ParseTriple parses "1.2.3" or "v1.2.3".
func ParseTriple(s string) (Triple, error) {
	parts := strings.Split(strings.TrimPrefix(strings.TrimSpace(s), "v"), ".")
	if len(parts) != 3 {
		return Triple{}, fmt.Errorf("invalid version %q: want major.minor.patch", s)
	}

	var nums [3]uint32
	for i, p := range parts {
		n, err := strconv.ParseUint(p, 10, 32)
		if err != nil {
			return Triple{}, fmt.Errorf("invalid version %q: %w", s, err)
		}
		nums[i] = uint32(n)
	}
	return Triple{Major: nums[0], Minor: nums[1], Patch: nums[2]}, nil
}

// Short returns the "major.minor" part of a dotted version.
// The Sentinel and single-component versions are returned unchanged.
func Short(v string) string {
	if v == Sentinel {
		return v
	}
	parts := strings.SplitN(v, ".", 3)
	if len(parts) < 2 {
		return v
	}
	return parts[0] + "." + parts[1]
}
