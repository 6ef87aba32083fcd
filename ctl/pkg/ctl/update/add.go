// Package update implements the backends for the update catalog commands.
package update

import (
	"context"
	"errors"

	"github.com/coreos/go-semver/semver"
	"go.uber.org/zap"

	"github.com/updraft-io/updraft-go/common/manifest"
	"github.com/updraft-io/updraft-go/common/store"
	"github.com/updraft-io/updraft-go/ctl/pkg/config"
)

type AddCfg struct {
	Variant string
	Arch    string
	Version semver.Version
	// MaxVersion optionally raises the group ceiling; nil inherits it.
	MaxVersion       *semver.Version
	DatastoreVersion manifest.DataVersion
	Images           manifest.Images
}

type AddResult struct {
	// Update is the record as stored, with the derived group ceiling.
	Update manifest.Update
	// Bootstrapped reports that no manifest existed and an empty one was
	// started.
	Bootstrapped bool
	// ReplacedMapping holds the datastore version the add displaced for this
	// image version, when it displaced a different value.
	ReplacedMapping *manifest.DataVersion
}

// Add records a new update build. This is the one mutation that tolerates a
// missing manifest: the first add bootstraps an empty document so a release
// pipeline needs no separate init step.
func Add(ctx context.Context, cfg AddCfg) (AddResult, error) {
	log, _ := config.GetLogger()
	st, err := config.GetStore(ctx)
	if err != nil {
		return AddResult{}, err
	}
	res := AddResult{}
	m, err := st.Load(ctx)
	if err != nil {
		if !errors.Is(err, store.ErrNotExist) {
			return AddResult{}, err
		}
		log.Info("no manifest found, starting from an empty one", zap.String("store", st.String()))
		m = manifest.New()
		res.Bootstrapped = true
	}
	u := manifest.Update{
		Variant:          cfg.Variant,
		Arch:             cfg.Arch,
		Version:          cfg.Version,
		DatastoreVersion: cfg.DatastoreVersion,
		Images:           cfg.Images,
		Waves:            []manifest.Wave{},
	}
	added, err := m.AddUpdate(u, cfg.MaxVersion)
	if err != nil {
		return AddResult{}, err
	}
	u.MaxVersion = added.Ceiling
	res.Update = u
	res.ReplacedMapping = added.ReplacedMapping
	if added.ReplacedMapping != nil {
		log.Warn("replaced datastore mapping",
			zap.String("version", cfg.Version.String()),
			zap.String("previous", added.ReplacedMapping.String()),
			zap.String("now", cfg.DatastoreVersion.String()))
	}
	if added.Ceiling.LessThan(cfg.Version) {
		log.Warn("version is above the group ceiling and will not be served until the ceiling rises",
			zap.String("update", u.Name()),
			zap.String("max_version", added.Ceiling.String()))
	}
	if err := st.Save(ctx, m); err != nil {
		return AddResult{}, err
	}
	return res, nil
}
