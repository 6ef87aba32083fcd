// Package query implements read-only manifest queries: what a device with a
// given fleet seed would see, and how a datastore migration would run.
package query

import (
	"context"
	"fmt"
	"time"

	"github.com/coreos/go-semver/semver"

	"github.com/updraft-io/updraft-go/common/manifest"
	"github.com/updraft-io/updraft-go/ctl/pkg/config"
)

type WaveCfg struct {
	Variant string
	Arch    string
	Version semver.Version
	// Seed is the device's fleet seed in [0, 2048).
	Seed uint32
	// At is the reference time for readiness.
	At time.Time
}

type WaveResult struct {
	Update manifest.Update
	// Start is when the update opens up for the seed. The zero time means
	// immediately eligible.
	Start time.Time
	Ready bool
}

// Wave reports when the update opens up for a device with the given fleet
// seed, and whether it already has at the reference time.
func Wave(ctx context.Context, cfg WaveCfg) (WaveResult, error) {
	if cfg.Seed >= manifest.MaxSeed {
		return WaveResult{}, fmt.Errorf("seed %d out of range [0, %d): %w",
			cfg.Seed, manifest.MaxSeed, manifest.ErrInvalidBound)
	}
	st, err := config.GetStore(ctx)
	if err != nil {
		return WaveResult{}, err
	}
	m, err := st.Load(ctx)
	if err != nil {
		return WaveResult{}, err
	}
	for i := range m.Updates {
		u := &m.Updates[i]
		if u.Matches(cfg.Variant, cfg.Arch, cfg.Version) {
			return WaveResult{
				Update: *u,
				Start:  u.WaveStart(cfg.Seed),
				Ready:  u.Ready(cfg.Seed, cfg.At),
			}, nil
		}
	}
	return WaveResult{}, fmt.Errorf("update %s/%s %s: %w",
		cfg.Variant, cfg.Arch, cfg.Version, manifest.ErrNotFound)
}
