package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidVersionFormat is returned when a version string does not match
// the dotted numeric grammar `[0-9]+(\.[0-9]+)*`.
var ErrInvalidVersionFormat = errors.New("invalid version format")

// LowestVersion is the minimal version of a mutator that does not declare one.
var LowestVersion = MustParseVersion("1.0")

// Version is a dotted numeric version such as "1.22" or "11".
//
// Versions compare segment by segment; a missing trailing segment counts as
// zero, so "1.2" and "1.2.0" are equal.
type Version struct {
	segments []uint64
	raw      string
}

// ParseVersion parses a dotted numeric version string.
func ParseVersion(value string) (Version, error) {
	if value == "" {
		return Version{}, fmt.Errorf("%w: empty string", ErrInvalidVersionFormat)
	}

	parts := strings.Split(value, ".")
	segments := make([]uint64, 0, len(parts))

	for _, part := range parts {
		if part == "" || strings.TrimLeft(part, "0123456789") != "" {
			return Version{}, fmt.Errorf("%w: %q", ErrInvalidVersionFormat, value)
		}

		n, err := strconv.ParseUint(part, 10, 64)
		if err != nil {
			return Version{}, fmt.Errorf("%w: %q: %w", ErrInvalidVersionFormat, value, err)
		}

		segments = append(segments, n)
	}

	return Version{segments: segments, raw: value}, nil
}

// MustParseVersion is like ParseVersion but panics on malformed input.
// It is meant for package-level declarations of mutator versions.
func MustParseVersion(value string) Version {
	v, err := ParseVersion(value)
	if err != nil {
		panic(err)
	}

	return v
}

// IsZero reports whether v was never parsed.
func (v Version) IsZero() bool {
	return len(v.segments) == 0
}

// Compare returns -1, 0 or +1 depending on whether v is lower, equal or
// greater than other.
func (v Version) Compare(other Version) int {
	n := max(len(v.segments), len(other.segments))

	for i := range n {
		a, b := v.segment(i), other.segment(i)

		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		}
	}

	return 0
}

// Less reports whether v sorts before other.
func (v Version) Less(other Version) bool {
	return v.Compare(other) < 0
}

// Equal reports whether v and other denote the same version.
func (v Version) Equal(other Version) bool {
	return v.Compare(other) == 0
}

// String returns the version as it was parsed.
func (v Version) String() string {
	return v.raw
}

// MarshalText implements encoding.TextMarshaler.
func (v Version) MarshalText() ([]byte, error) {
	return []byte(v.raw), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *Version) UnmarshalText(text []byte) error {
	parsed, err := ParseVersion(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}

	*v = parsed

	return nil
}

func (v Version) segment(i int) uint64 {
	if i < len(v.segments) {
		return v.segments[i]
	}

	return 0
}

// MinVersion returns the lowest of the given versions, or the zero Version
// when none are given.
func MinVersion(versions ...Version) Version {
	var lowest Version

	for i, v := range versions {
		if i == 0 || v.Less(lowest) {
			lowest = v
		}
	}

	return lowest
}
