package wave

import (
	"context"

	"github.com/coreos/go-semver/semver"
	"go.uber.org/zap"

	"github.com/updraft-io/updraft-go/ctl/pkg/config"
)

type RemoveCfg struct {
	Variant string
	Arch    string
	Version semver.Version
	Bound   uint32
}

// Remove deletes the wave at the bound from every matching update and returns
// how many waves went away. A missing update or bound is a no-op, not an
// error.
func Remove(ctx context.Context, cfg RemoveCfg) (int, error) {
	log, _ := config.GetLogger()
	st, err := config.GetStore(ctx)
	if err != nil {
		return 0, err
	}
	m, err := st.Load(ctx)
	if err != nil {
		return 0, err
	}
	removed := m.RemoveWave(cfg.Variant, cfg.Arch, cfg.Version, cfg.Bound)
	if removed == 0 {
		log.Warn("no wave matched, nothing removed",
			zap.String("variant", cfg.Variant),
			zap.String("arch", cfg.Arch),
			zap.String("version", cfg.Version.String()),
			zap.Uint32("bound", cfg.Bound))
		return 0, nil
	}
	if err := st.Save(ctx, m); err != nil {
		return 0, err
	}
	return removed, nil
}
