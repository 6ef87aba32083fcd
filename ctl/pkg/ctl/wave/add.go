// Package wave implements the backends for the wave schedule commands.
package wave

import (
	"context"
	"time"

	"github.com/coreos/go-semver/semver"
	"go.uber.org/zap"

	"github.com/updraft-io/updraft-go/ctl/pkg/config"
)

type AddCfg struct {
	Variant string
	Arch    string
	Version semver.Version
	// Bound is the upper fleet seed bound of the wave, in [0, 2048).
	Bound uint32
	Start time.Time
}

// Add schedules the wave on the matching update and returns how many records
// it touched. More than one means the catalog has duplicate identity triples;
// the schedule is applied to all of them and the count is surfaced so the
// caller can flag it.
func Add(ctx context.Context, cfg AddCfg) (int, error) {
	log, _ := config.GetLogger()
	st, err := config.GetStore(ctx)
	if err != nil {
		return 0, err
	}
	m, err := st.Load(ctx)
	if err != nil {
		return 0, err
	}
	matched, err := m.AddWave(cfg.Variant, cfg.Arch, cfg.Version, cfg.Bound, cfg.Start.UTC())
	if err != nil {
		return 0, err
	}
	if matched > 1 {
		log.Warn("wave applied to more than one update, identity triples should be unique",
			zap.Int("matched", matched))
	}
	if err := st.Save(ctx, m); err != nil {
		return 0, err
	}
	return matched, nil
}
