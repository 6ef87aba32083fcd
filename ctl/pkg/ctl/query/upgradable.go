package query

import (
	"context"
	"fmt"
	"time"

	"github.com/coreos/go-semver/semver"

	"github.com/updraft-io/updraft-go/common/manifest"
	"github.com/updraft-io/updraft-go/ctl/pkg/config"
)

type UpgradableCfg struct {
	Variant string
	Arch    string
	// Current is the version the device runs now.
	Current semver.Version
	// Seed, when non-nil, annotates each candidate with its wave timing for
	// that device.
	Seed *uint32
	At   time.Time
}

type Candidate struct {
	Update manifest.Update
	// Start and Ready are only meaningful when a seed was given.
	Start time.Time
	Ready bool
}

// Upgradable lists the updates a device in the group may move to, newest
// first: newer than what it runs and inside the group ceiling.
func Upgradable(ctx context.Context, cfg UpgradableCfg) ([]Candidate, error) {
	if cfg.Seed != nil && *cfg.Seed >= manifest.MaxSeed {
		return nil, fmt.Errorf("seed %d out of range [0, %d): %w",
			*cfg.Seed, manifest.MaxSeed, manifest.ErrInvalidBound)
	}
	st, err := config.GetStore(ctx)
	if err != nil {
		return nil, err
	}
	m, err := st.Load(ctx)
	if err != nil {
		return nil, err
	}
	updates := m.Upgradable(cfg.Variant, cfg.Arch, cfg.Current)
	candidates := make([]Candidate, 0, len(updates))
	for _, u := range updates {
		c := Candidate{Update: u}
		if cfg.Seed != nil {
			c.Start = u.WaveStart(*cfg.Seed)
			c.Ready = u.Ready(*cfg.Seed, cfg.At)
		}
		candidates = append(candidates, c)
	}
	return candidates, nil
}
