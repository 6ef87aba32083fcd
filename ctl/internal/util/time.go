package util

import (
	"strings"
	"time"

	"github.com/updraft-io/updraft-go/common/manifest"
)

// ParseTimeOrOffset parses an absolute RFC 3339 time or a relative
// "+<duration>" offset from now (units as in manifest.ParseExtendedDuration).
// Times come back in UTC.
func ParseTimeOrOffset(s string) (time.Time, error) {
	if rest, ok := strings.CutPrefix(s, "+"); ok {
		d, err := manifest.ParseExtendedDuration(rest)
		if err != nil {
			return time.Time{}, err
		}
		return time.Now().UTC().Add(d).Truncate(time.Second), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
