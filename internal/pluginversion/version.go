// Package pluginversion implements parsing and comparison for plugin
// versions and the constraint grammar used in a plugin's requires list.
//
// This file was originally adapted from the harness's own semver helper
// (itself descended from coreos/go-semver); the SemVer pre-release/metadata
// machinery has been dropped in favor of the harness's plain maj.min.pat
// triple and its own constraint literals.
package pluginversion

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is a plugin version triple. Major and Minor are byte-sized,
// Patch is 16 bits, matching the packed VERSION_NUMBER(maj,min,pat) layout
// plugins embed in their descriptor.
type Version struct {
	Major uint8
	Minor uint8
	Patch uint16
}

// Compare returns -1, 0 or 1 as v is less than, equal to, or greater than
// other. Comparison is the lexicographic order of (Major, Minor, Patch).
func (v Version) Compare(other Version) int {
	if v.Major != other.Major {
		return cmpUint(uint64(v.Major), uint64(other.Major))
	}
	if v.Minor != other.Minor {
		return cmpUint(uint64(v.Minor), uint64(other.Minor))
	}
	return cmpUint(uint64(v.Patch), uint64(other.Patch))
}

func cmpUint(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// String renders the version as "maj.min.pat".
func (v Version) String() string {
	return strconv.Itoa(int(v.Major)) + "." + strconv.Itoa(int(v.Minor)) + "." + strconv.Itoa(int(v.Patch))
}

// Parse parses a "M.m[.p]" literal. Patch defaults to 0 when omitted.
// Fields that overflow their bit width are rejected.
func Parse(literal string) (Version, error) {
	major, rest := cut(literal, '.')
	if rest == "" && !strings.Contains(literal, ".") {
		return Version{}, fmt.Errorf("%w: %q: missing minor version", ErrBadVersionSyntax, literal)
	}

	minor, patchStr := cut(rest, '.')
	if patchStr == "" {
		patchStr = "0"
	}

	maj, err := strconv.ParseUint(major, 10, 8)
	if err != nil {
		return Version{}, fmt.Errorf("%w: %q: bad major version: %v", ErrBadVersionSyntax, literal, err)
	}
	min, err := strconv.ParseUint(minor, 10, 8)
	if err != nil {
		return Version{}, fmt.Errorf("%w: %q: bad minor version: %v", ErrBadVersionSyntax, literal, err)
	}
	pat, err := strconv.ParseUint(patchStr, 10, 16)
	if err != nil {
		return Version{}, fmt.Errorf("%w: %q: bad patch version: %v", ErrBadVersionSyntax, literal, err)
	}

	return Version{Major: uint8(maj), Minor: uint8(min), Patch: uint16(pat)}, nil
}

// MustParse is like Parse but panics on error. Used for constants.
func MustParse(literal string) Version {
	v, err := Parse(literal)
	if err != nil {
		panic(err)
	}
	return v
}

// cut is strings.Cut specialized to a single byte separator.
func cut(s string, sep byte) (before, after string) {
	if i := strings.IndexByte(s, sep); i >= 0 {
		return s[:i], s[i+1:]
	}
	return s, ""
}
