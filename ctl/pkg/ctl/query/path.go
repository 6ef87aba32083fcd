package query

import (
	"context"

	"github.com/updraft-io/updraft-go/common/manifest"
	"github.com/updraft-io/updraft-go/ctl/pkg/config"
)

type MigrationPathCfg struct {
	From manifest.DataVersion
	To   manifest.DataVersion
}

// MigrationPath returns the ordered migration chain between the two datastore
// versions, using the manifest's migration set. An empty chain means the
// versions are equal.
func MigrationPath(ctx context.Context, cfg MigrationPathCfg) ([]manifest.Migration, error) {
	st, err := config.GetStore(ctx)
	if err != nil {
		return nil, err
	}
	m, err := st.Load(ctx)
	if err != nil {
		return nil, err
	}
	return manifest.MigrationPath(cfg.From, cfg.To, m.Migrations)
}
