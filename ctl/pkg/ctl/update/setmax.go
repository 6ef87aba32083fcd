package update

import (
	"context"

	"github.com/coreos/go-semver/semver"
	"go.uber.org/zap"

	"github.com/updraft-io/updraft-go/ctl/pkg/config"
)

type SetMaxVersionCfg struct {
	MaxVersion semver.Version
	// VariantGlob and ArchGlob select the groups to raise; empty selects all.
	VariantGlob string
	ArchGlob    string
}

// SetMaxVersion raises the ceiling of every selected group to MaxVersion and
// returns how many updates rose. Ceilings never go down, so members already
// above the target keep their value.
func SetMaxVersion(ctx context.Context, cfg SetMaxVersionCfg) (int, error) {
	log, _ := config.GetLogger()
	st, err := config.GetStore(ctx)
	if err != nil {
		return 0, err
	}
	m, err := st.Load(ctx)
	if err != nil {
		return 0, err
	}
	raised, err := m.RaiseMaxVersion(cfg.MaxVersion, cfg.VariantGlob, cfg.ArchGlob)
	if err != nil {
		return 0, err
	}
	if raised == 0 {
		log.Warn("no update rose to the new ceiling",
			zap.String("max_version", cfg.MaxVersion.String()),
			zap.String("variant", cfg.VariantGlob),
			zap.String("arch", cfg.ArchGlob))
		return 0, nil
	}
	if err := st.Save(ctx, m); err != nil {
		return 0, err
	}
	return raised, nil
}
