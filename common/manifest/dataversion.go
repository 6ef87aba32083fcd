package manifest

import (
	"fmt"
	"strconv"
	"strings"
)

// DataVersion identifies the on-device datastore schema an image requires. It
// is ordered by major then minor and is independent of image versions, which
// advance much faster than the schema does.
type DataVersion struct {
	Major uint32
	Minor uint32
}

// ParseDataVersion accepts "major.minor", a bare "major" (minor defaults to
// 0), and an optional leading "v" in either form.
func ParseDataVersion(input string) (DataVersion, error) {
	s := strings.TrimPrefix(strings.TrimSpace(input), "v")
	if s == "" {
		return DataVersion{}, fmt.Errorf("empty datastore version")
	}
	majorStr, minorStr, hasMinor := strings.Cut(s, ".")
	major, err := strconv.ParseUint(majorStr, 10, 32)
	if err != nil {
		return DataVersion{}, fmt.Errorf("invalid datastore version %q: %w", input, err)
	}
	var minor uint64
	if hasMinor {
		if minor, err = strconv.ParseUint(minorStr, 10, 32); err != nil {
			return DataVersion{}, fmt.Errorf("invalid datastore version %q: %w", input, err)
		}
	}
	return DataVersion{Major: uint32(major), Minor: uint32(minor)}, nil
}

func (v DataVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// Compare returns -1, 0, or 1 depending on whether v orders before, equal to,
// or after other.
func (v DataVersion) Compare(other DataVersion) int {
	if v.Major != other.Major {
		if v.Major < other.Major {
			return -1
		}
		return 1
	}
	if v.Minor != other.Minor {
		if v.Minor < other.Minor {
			return -1
		}
		return 1
	}
	return 0
}

func (v DataVersion) LessThan(other DataVersion) bool {
	return v.Compare(other) < 0
}

func (v DataVersion) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

func (v *DataVersion) UnmarshalText(text []byte) error {
	parsed, err := ParseDataVersion(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// yaml.v3 does not consult encoding.TextUnmarshaler, so the YAML hooks are
// implemented alongside the text ones.
func (v DataVersion) MarshalYAML() (any, error) {
	return v.String(), nil
}

func (v *DataVersion) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	return v.UnmarshalText([]byte(s))
}
