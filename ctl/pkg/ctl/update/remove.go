package update

import (
	"context"

	"github.com/coreos/go-semver/semver"
	"go.uber.org/zap"

	"github.com/updraft-io/updraft-go/common/manifest"
	"github.com/updraft-io/updraft-go/ctl/pkg/config"
)

type RemoveCfg struct {
	Variant string
	Arch    string
	Version semver.Version
	// Cleanup also drops the datastore mapping for the version, unless other
	// updates still reference it.
	Cleanup bool
}

// Remove deletes the update matching the triple. Removing something that is
// not there is a no-op, not an error, and never lowers a group ceiling.
func Remove(ctx context.Context, cfg RemoveCfg) (manifest.RemoveResult, error) {
	log, _ := config.GetLogger()
	st, err := config.GetStore(ctx)
	if err != nil {
		return manifest.RemoveResult{}, err
	}
	m, err := st.Load(ctx)
	if err != nil {
		return manifest.RemoveResult{}, err
	}
	res := m.RemoveUpdate(cfg.Variant, cfg.Arch, cfg.Version, cfg.Cleanup)
	if res.Removed == 0 {
		log.Warn("no update matched, nothing removed",
			zap.String("variant", cfg.Variant),
			zap.String("arch", cfg.Arch),
			zap.String("version", cfg.Version.String()))
		return res, nil
	}
	if err := st.Save(ctx, m); err != nil {
		return manifest.RemoveResult{}, err
	}
	return res, nil
}
