package pyversion

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is a Python language version, compared on major and minor only.
type Version struct {
	Major int
	Minor int
}

var (
	V3_7  = Version{3, 7}
	V3_8  = Version{3, 8}
	V3_9  = Version{3, 9}
	V3_10 = Version{3, 10}
	V3_11 = Version{3, 11}
	V3_12 = Version{3, 12}
	V3_13 = Version{3, 13}
)

// Latest is the target used when nothing is configured.
var Latest = V3_13

type invalidVersion struct {
	Text string
}

func (e *invalidVersion) Error() string {
	return fmt.Sprintf("invalid python version %q: expected MAJOR.MINOR", e.Text)
}

// Parse accepts "3.8" and "3.8.10". The patch component is dropped.
func Parse(s string) (Version, error) {
	parts := strings.Split(strings.TrimSpace(s), ".")
	if len(parts) < 2 || len(parts) > 3 {
		return Version{}, &invalidVersion{Text: s}
	}
	nums := make([]int, len(parts))
	for idx, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return Version{}, &invalidVersion{Text: s}
		}
		nums[idx] = n
	}
	return Version{Major: nums[0], Minor: nums[1]}, nil
}

func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

func (v Version) Less(other Version) bool {
	if v.Major != other.Major {
		return v.Major < other.Major
	}
	return v.Minor < other.Minor
}

// AtLeast reports whether v >= other.
func (v Version) AtLeast(other Version) bool {
	return !v.Less(other)
}

func (v Version) IsZero() bool {
	return v == Version{}
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

func (v Version) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

func (v *Version) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
