package manifest

import (
	"fmt"

	doublestar "github.com/bmatcuk/doublestar/v4"
	"github.com/coreos/go-semver/semver"
)

// Ceilings indexes the version ceiling of every (variant, arch) group. The
// ceiling is monotonic: once a group has declared a version eligible it never
// un-declares it, so in-flight rollouts cannot race a retraction.
type Ceilings map[Group]semver.Version

// Raise lifts the group's ceiling to v when v is higher and returns the
// effective ceiling either way.
func (c Ceilings) Raise(g Group, v semver.Version) semver.Version {
	if cur, ok := c[g]; ok && v.LessThan(cur) {
		return cur
	}
	c[g] = v
	return v
}

// Ceilings derives the per-group ceiling index from the catalog.
func (m *Manifest) Ceilings() Ceilings {
	c := Ceilings{}
	for i := range m.Updates {
		c.Raise(m.Updates[i].Group(), m.Updates[i].MaxVersion)
	}
	return c
}

// RaiseMaxVersion raises the ceiling of every update whose group matches the
// variant and arch globs (empty glob = all groups) to at least ceiling.
// Members already above it keep their value; supplying a lower ceiling never
// lowers anything. Raising when no update matches changes nothing and is not
// an error, since the ceiling has no existence outside update records.
// Returns how many updates rose.
func (m *Manifest) RaiseMaxVersion(ceiling semver.Version, variantGlob, archGlob string) (int, error) {
	for _, p := range []string{variantGlob, archGlob} {
		if p != "" && !doublestar.ValidatePattern(p) {
			return 0, fmt.Errorf("pattern %q: %w", p, doublestar.ErrBadPattern)
		}
	}
	raised := 0
	for i := range m.Updates {
		u := &m.Updates[i]
		if ok, _ := u.Group().Match(variantGlob, archGlob); !ok {
			continue
		}
		if u.MaxVersion.LessThan(ceiling) {
			u.MaxVersion = ceiling
			raised++
		}
	}
	return raised, nil
}
