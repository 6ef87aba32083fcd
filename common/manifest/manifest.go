// Package manifest implements the update metadata document behind staged
// fleet rollouts: the update catalog, the per-group version ceiling, the wave
// schedule, and the datastore version mapping with its migration steps. All
// mutation goes through Manifest methods, which validate fully in memory
// before applying anything, so a failed call never leaves a partially mutated
// document.
package manifest

import (
	"encoding/json"
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/coreos/go-semver/semver"
	"github.com/google/uuid"
)

// SchemaVersion is the document schema this tool reads and writes. Documents
// declaring a newer schema are rejected on decode.
const SchemaVersion = 1

// Metadata carries the system-generated header fields. Encapsulating them
// keeps the document definition extensible without breaking older readers.
type Metadata struct {
	SchemaVersion int       `json:"schema_version" yaml:"schema_version"`
	ID            string    `json:"id" yaml:"id"`
	Updated       time.Time `json:"updated" yaml:"updated"`
}

// DatastoreVersions maps an image version to the datastore version it
// requires. The map is keyed by image version alone, so variants releasing
// the same image version share one entry (see AddDatastoreMapping).
type DatastoreVersions map[semver.Version]DataVersion

// Manifest is the root aggregate and the unit of persistence. Updates are
// kept sorted newest first so the head is always the current maximum known
// version.
type Manifest struct {
	Metadata          Metadata          `json:"metadata" yaml:"metadata"`
	Updates           []Update          `json:"updates" yaml:"updates"`
	DatastoreVersions DatastoreVersions `json:"datastore_versions" yaml:"datastore_versions"`
	Migrations        []Migration       `json:"migrations" yaml:"migrations"`
}

// New returns an empty manifest with a fresh identity.
func New() *Manifest {
	return &Manifest{
		Metadata:          Metadata{SchemaVersion: SchemaVersion, ID: uuid.New().String()},
		Updates:           []Update{},
		DatastoreVersions: DatastoreVersions{},
		Migrations:        []Migration{},
	}
}

// AddResult reports the side effects of an AddUpdate call so callers can
// surface them.
type AddResult struct {
	// Ceiling is the effective (variant, arch) group ceiling after the add.
	// It can end up below the added version when the caller supplied a low
	// ceiling; that is tolerated, not an error.
	Ceiling semver.Version
	// ReplacedMapping holds the datastore version the new mapping displaced,
	// when it displaced a different value.
	ReplacedMapping *DataVersion
}

// AddUpdate inserts a new update record. maxVersion is the optionally
// supplied group ceiling: when non-nil the group's ceiling is raised to it,
// when nil the record inherits the group's current ceiling, or its own
// version if the group is new. The record's MaxVersion field is derived from
// that; any value on the input is ignored. The datastore mapping for the
// version is inserted or overwritten as part of the same call.
func (m *Manifest) AddUpdate(u Update, maxVersion *semver.Version) (AddResult, error) {
	for i := range m.Updates {
		if m.Updates[i].Matches(u.Variant, u.Arch, u.Version) {
			return AddResult{}, fmt.Errorf("%s: %w", u.Name(), ErrDuplicateUpdate)
		}
	}
	if err := validateWaves(u.Waves); err != nil {
		return AddResult{}, fmt.Errorf("%s: %w", u.Name(), err)
	}

	group := u.Group()
	current, exists := m.Ceilings()[group]
	switch {
	case maxVersion != nil && exists:
		u.MaxVersion = maxSemver(current, *maxVersion)
	case maxVersion != nil:
		u.MaxVersion = *maxVersion
	case exists:
		u.MaxVersion = current
	default:
		u.MaxVersion = u.Version
	}
	// Raise the rest of the group before inserting so every member agrees on
	// the ceiling afterwards.
	if maxVersion != nil {
		for i := range m.Updates {
			if m.Updates[i].Group() == group && m.Updates[i].MaxVersion.LessThan(u.MaxVersion) {
				m.Updates[i].MaxVersion = u.MaxVersion
			}
		}
	}

	res := AddResult{Ceiling: u.MaxVersion}
	res.ReplacedMapping = m.AddDatastoreMapping(u.Version, u.DatastoreVersion)

	m.Updates = append(m.Updates, u)
	sortUpdates(m.Updates)
	return res, nil
}

// RemoveResult reports what a RemoveUpdate call did.
type RemoveResult struct {
	// Removed is the number of records deleted (0 when nothing matched,
	// which is not an error).
	Removed int
	// MappingRemoved reports whether the datastore mapping for the version
	// was cleaned up.
	MappingRemoved bool
	// StillReferenced counts the remaining updates at the same version that
	// made cleanup skip the mapping.
	StillReferenced int
	// MaxVersion is the catalog head after the removal, nil when the catalog
	// emptied. Removal never lowers any group ceiling.
	MaxVersion *semver.Version
}

// RemoveUpdate deletes every record matching the exact triple. With cleanup
// set, the datastore mapping for version is removed too, but only when no
// remaining update anywhere still references that exact version; migration
// steps are path-level facts and are never touched.
func (m *Manifest) RemoveUpdate(variant, arch string, version semver.Version, cleanup bool) RemoveResult {
	var res RemoveResult
	before := len(m.Updates)
	m.Updates = slices.DeleteFunc(m.Updates, func(u Update) bool {
		return u.Matches(variant, arch, version)
	})
	res.Removed = before - len(m.Updates)

	if cleanup {
		for i := range m.Updates {
			if m.Updates[i].Version.Equal(version) {
				res.StillReferenced++
			}
		}
		if res.StillReferenced == 0 {
			if _, ok := m.DatastoreVersions[version]; ok {
				delete(m.DatastoreVersions, version)
				res.MappingRemoved = true
			}
		}
	}
	res.MaxVersion = m.MaxVersion()
	return res
}

// MaxVersion returns the newest version in the catalog, or nil when it is
// empty. The descending catalog order makes this the head element.
func (m *Manifest) MaxVersion() *semver.Version {
	if len(m.Updates) == 0 {
		return nil
	}
	v := m.Updates[0].Version
	return &v
}

// AddWave schedules (bound, start) on every update matching the triple and
// returns how many it touched. A match count above one means the duplicate
// invariant is broken somewhere; callers surface it rather than pick one.
// Every match is validated before any is modified, so a failed call changes
// nothing. An existing wave at the same bound has its start overwritten,
// subject to the same ordering check.
func (m *Manifest) AddWave(variant, arch string, version semver.Version, bound uint32, start time.Time) (int, error) {
	if bound >= MaxSeed {
		return 0, fmt.Errorf("bound %d is outside [0, %d): %w", bound, MaxSeed, ErrInvalidBound)
	}
	if start.IsZero() {
		return 0, fmt.Errorf("wave bound %d: %w", bound, ErrMissingStartTime)
	}
	var matches []int
	for i := range m.Updates {
		if m.Updates[i].Matches(variant, arch, version) {
			matches = append(matches, i)
		}
	}
	if len(matches) == 0 {
		return 0, fmt.Errorf("%s/%s %s: %w", variant, arch, version.String(), ErrNotFound)
	}
	for _, i := range matches {
		if err := m.Updates[i].checkWave(bound, start); err != nil {
			return 0, fmt.Errorf("%s: %w", m.Updates[i].Name(), err)
		}
	}
	for _, i := range matches {
		m.Updates[i].setWave(bound, start)
	}
	return len(matches), nil
}

// RemoveWave deletes the wave at bound from every matching update and
// returns how many waves went away. Missing updates or bounds are no-ops,
// not errors.
func (m *Manifest) RemoveWave(variant, arch string, version semver.Version, bound uint32) int {
	removed := 0
	for i := range m.Updates {
		if m.Updates[i].Matches(variant, arch, version) && m.Updates[i].deleteWave(bound) {
			removed++
		}
	}
	return removed
}

// AddDatastoreMapping records that the image version requires dv. An existing
// entry is overwritten; the displaced value is returned when it differed so
// callers can surface the change. Overwriting is legitimate, not an error: a
// later add for a different variant at the same image version wins.
func (m *Manifest) AddDatastoreMapping(version semver.Version, dv DataVersion) *DataVersion {
	var replaced *DataVersion
	if prev, ok := m.DatastoreVersions[version]; ok && prev != dv {
		replaced = &prev
	}
	if m.DatastoreVersions == nil {
		m.DatastoreVersions = DatastoreVersions{}
	}
	m.DatastoreVersions[version] = dv
	return replaced
}

// SetMigrations replaces the whole migration list with the given steps.
func (m *Manifest) SetMigrations(steps []Migration) {
	m.Migrations = slices.Clone(steps)
}

// Upgradable lists the catalog entries a device in the given group running
// current may move to: newer than current and inside the group ceiling,
// newest first.
func (m *Manifest) Upgradable(variant, arch string, current semver.Version) []Update {
	var out []Update
	for _, u := range m.Updates {
		if u.Variant != variant || u.Arch != arch {
			continue
		}
		if current.LessThan(u.Version) && !u.MaxVersion.LessThan(u.Version) {
			out = append(out, u)
		}
	}
	return out
}

// Validate checks the whole document: unique identity triples, catalog
// ordering, wave validity, group ceiling agreement, and datastore map
// agreement with the catalog.
func (m *Manifest) Validate() error {
	if m.Metadata.SchemaVersion > SchemaVersion {
		return fmt.Errorf("schema version %d: %w", m.Metadata.SchemaVersion, ErrSchemaVersion)
	}
	seen := make(map[string]struct{}, len(m.Updates))
	for i := range m.Updates {
		u := &m.Updates[i]
		if _, ok := seen[u.Name()]; ok {
			return fmt.Errorf("%s: %w", u.Name(), ErrDuplicateUpdate)
		}
		seen[u.Name()] = struct{}{}
		if i > 0 && m.Updates[i-1].Version.LessThan(u.Version) {
			return fmt.Errorf("catalog is not sorted newest first at %s", u.Name())
		}
		if err := validateWaves(u.Waves); err != nil {
			return fmt.Errorf("%s: %w", u.Name(), err)
		}
	}
	ceilings := m.Ceilings()
	for i := range m.Updates {
		u := &m.Updates[i]
		if ceiling := ceilings[u.Group()]; u.MaxVersion.LessThan(ceiling) {
			return fmt.Errorf("%s: max_version %s disagrees with the %s group ceiling %s",
				u.Name(), u.MaxVersion.String(), u.Group(), ceiling.String())
		}
		dv, ok := m.DatastoreVersions[u.Version]
		if !ok {
			return fmt.Errorf("%s: no datastore mapping for version %s", u.Name(), u.Version.String())
		}
		if dv != u.DatastoreVersion {
			return fmt.Errorf("%s: datastore version %s disagrees with the mapped %s",
				u.Name(), u.DatastoreVersion.String(), dv.String())
		}
	}
	return nil
}

// sortUpdates restores the catalog order: descending by version so the head
// is the newest known build, with variant and arch breaking ties so encoding
// stays stable.
func sortUpdates(updates []Update) {
	sort.SliceStable(updates, func(i, j int) bool {
		a, b := &updates[i], &updates[j]
		if c := a.Version.Compare(b.Version); c != 0 {
			return c > 0
		}
		if a.Variant != b.Variant {
			return a.Variant < b.Variant
		}
		return a.Arch < b.Arch
	})
}

func maxSemver(a, b semver.Version) semver.Version {
	if a.LessThan(b) {
		return b
	}
	return a
}

// The datastore map is keyed by a struct; both encoders speak through an
// intermediate string-keyed map.

func (d DatastoreVersions) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.byString())
}

func (d *DatastoreVersions) UnmarshalJSON(data []byte) error {
	var raw map[string]DataVersion
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	return d.fromStrings(raw)
}

func (d DatastoreVersions) MarshalYAML() (any, error) {
	return d.byString(), nil
}

func (d *DatastoreVersions) UnmarshalYAML(unmarshal func(any) error) error {
	var raw map[string]DataVersion
	if err := unmarshal(&raw); err != nil {
		return err
	}
	return d.fromStrings(raw)
}

func (d DatastoreVersions) byString() map[string]DataVersion {
	out := make(map[string]DataVersion, len(d))
	for v, dv := range d {
		out[v.String()] = dv
	}
	return out
}

func (d *DatastoreVersions) fromStrings(raw map[string]DataVersion) error {
	parsed := make(DatastoreVersions, len(raw))
	for s, dv := range raw {
		v, err := semver.NewVersion(s)
		if err != nil {
			return fmt.Errorf("invalid image version %q in datastore mapping: %w", s, err)
		}
		parsed[*v] = dv
	}
	*d = parsed
	return nil
}
