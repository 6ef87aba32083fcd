// Package manifest implements the backends for the document level commands:
// creating, summarizing and validating whole manifests.
package manifest

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/updraft-io/updraft-go/common/manifest"
	"github.com/updraft-io/updraft-go/common/store"
	"github.com/updraft-io/updraft-go/ctl/pkg/config"
)

type InitCfg struct {
	Force bool
}

// Init writes a fresh empty manifest to the configured store. An existing
// document is only replaced when cfg.Force is set; a document that exists but
// cannot be read counts as existing.
func Init(ctx context.Context, cfg InitCfg) (*manifest.Manifest, error) {
	log, _ := config.GetLogger()
	st, err := config.GetStore(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := st.Load(ctx); err == nil {
		if !cfg.Force {
			return nil, fmt.Errorf("%s already contains a manifest (use --force to replace it)", st)
		}
		log.Warn("replacing existing manifest", zap.String("store", st.String()))
	} else if !errors.Is(err, store.ErrNotExist) {
		if !cfg.Force {
			return nil, fmt.Errorf("refusing to replace unreadable manifest without --force: %w", err)
		}
		log.Warn("replacing unreadable manifest", zap.String("store", st.String()), zap.Error(err))
	}
	m := manifest.New()
	if err := st.Save(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}
