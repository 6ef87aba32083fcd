package manifest

import (
	"context"
	"slices"
	"strings"

	"github.com/coreos/go-semver/semver"

	"github.com/updraft-io/updraft-go/common/manifest"
	"github.com/updraft-io/updraft-go/ctl/pkg/config"
)

type Summary struct {
	Store    string
	Metadata manifest.Metadata
	// Updates counts catalog entries; Groups aggregates them per (variant,
	// arch) with the shared ceiling.
	Updates int
	Groups  []GroupSummary
	// Mappings and Migrations mirror the document, mappings sorted by image
	// version, migrations in manifest order.
	Mappings   []MappingSummary
	Migrations []manifest.Migration
}

type GroupSummary struct {
	Group   manifest.Group
	Ceiling semver.Version
	Updates int
}

type MappingSummary struct {
	Version   semver.Version
	Datastore manifest.DataVersion
}

// Show loads the configured manifest and summarizes it for display. Group
// ceilings and datastore mappings come back sorted so the output is stable.
func Show(ctx context.Context) (Summary, error) {
	st, err := config.GetStore(ctx)
	if err != nil {
		return Summary{}, err
	}
	m, err := st.Load(ctx)
	if err != nil {
		return Summary{}, err
	}
	return summarize(st.String(), m), nil
}

func summarize(store string, m *manifest.Manifest) Summary {
	s := Summary{
		Store:      store,
		Metadata:   m.Metadata,
		Updates:    len(m.Updates),
		Migrations: m.Migrations,
	}
	counts := map[manifest.Group]int{}
	for i := range m.Updates {
		counts[m.Updates[i].Group()]++
	}
	for g, ceiling := range m.Ceilings() {
		s.Groups = append(s.Groups, GroupSummary{Group: g, Ceiling: ceiling, Updates: counts[g]})
	}
	slices.SortFunc(s.Groups, func(a, b GroupSummary) int {
		return strings.Compare(a.Group.String(), b.Group.String())
	})
	for v, dv := range m.DatastoreVersions {
		s.Mappings = append(s.Mappings, MappingSummary{Version: v, Datastore: dv})
	}
	slices.SortFunc(s.Mappings, func(a, b MappingSummary) int {
		return a.Version.Compare(b.Version)
	})
	return s
}
