// Package migrations implements the backend for replacing the manifest's
// migration set from a release description.
package migrations

import (
	"context"

	"github.com/updraft-io/updraft-go/common/manifest"
	"github.com/updraft-io/updraft-go/common/release"
	"github.com/updraft-io/updraft-go/ctl/pkg/config"
)

type SetCfg struct {
	// ReleasePath is the release.toml to take the migration list from.
	ReleasePath string
}

type SetResult struct {
	// Version is the datastore version the release describes.
	Version manifest.DataVersion
	// Steps is the migration list now in the manifest, in release file order.
	Steps []manifest.Migration
}

// Set replaces the manifest's whole migration list with the ordered steps
// from the release description. The list is replaced wholesale, never merged.
func Set(ctx context.Context, cfg SetCfg) (SetResult, error) {
	rel, err := release.Load(cfg.ReleasePath)
	if err != nil {
		return SetResult{}, err
	}
	st, err := config.GetStore(ctx)
	if err != nil {
		return SetResult{}, err
	}
	m, err := st.Load(ctx)
	if err != nil {
		return SetResult{}, err
	}
	m.SetMigrations(rel.Migrations)
	if err := st.Save(ctx, m); err != nil {
		return SetResult{}, err
	}
	return SetResult{Version: rel.Version, Steps: rel.Migrations}, nil
}
