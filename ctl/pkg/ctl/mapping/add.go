// Package mapping implements the backend for the datastore mapping command.
package mapping

import (
	"context"

	"github.com/coreos/go-semver/semver"
	"go.uber.org/zap"

	"github.com/updraft-io/updraft-go/common/manifest"
	"github.com/updraft-io/updraft-go/ctl/pkg/config"
)

type AddCfg struct {
	Version          semver.Version
	DatastoreVersion manifest.DataVersion
}

// Add records that the image version requires the datastore version. An
// existing entry for the version is overwritten; the displaced value is
// returned when it differed.
func Add(ctx context.Context, cfg AddCfg) (*manifest.DataVersion, error) {
	log, _ := config.GetLogger()
	st, err := config.GetStore(ctx)
	if err != nil {
		return nil, err
	}
	m, err := st.Load(ctx)
	if err != nil {
		return nil, err
	}
	displaced := m.AddDatastoreMapping(cfg.Version, cfg.DatastoreVersion)
	if displaced != nil {
		log.Warn("replaced datastore mapping",
			zap.String("version", cfg.Version.String()),
			zap.String("previous", displaced.String()),
			zap.String("now", cfg.DatastoreVersion.String()))
	}
	if err := st.Save(ctx, m); err != nil {
		return nil, err
	}
	return displaced, nil
}
