package update

import (
	"context"
	"fmt"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/updraft-io/updraft-go/common/manifest"
	"github.com/updraft-io/updraft-go/ctl/pkg/config"
)

type ListCfg struct {
	// VariantGlob and ArchGlob narrow the catalog; empty matches everything.
	VariantGlob string
	ArchGlob    string
	// Filter is an optional expression over update fields (see
	// manifest.FilterHelp).
	Filter string
}

// List returns the catalog entries matching the globs and the filter, in
// catalog order (newest first).
func List(ctx context.Context, cfg ListCfg) ([]manifest.Update, error) {
	for _, p := range []string{cfg.VariantGlob, cfg.ArchGlob} {
		if p != "" && !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("pattern %q: %w", p, doublestar.ErrBadPattern)
		}
	}
	var filter manifest.UpdateFilter
	if cfg.Filter != "" {
		var err error
		filter, err = manifest.CompileFilter(cfg.Filter)
		if err != nil {
			return nil, err
		}
	}
	st, err := config.GetStore(ctx)
	if err != nil {
		return nil, err
	}
	m, err := st.Load(ctx)
	if err != nil {
		return nil, err
	}
	matches := make([]manifest.Update, 0, len(m.Updates))
	for _, u := range m.Updates {
		if ok, _ := u.Group().Match(cfg.VariantGlob, cfg.ArchGlob); !ok {
			continue
		}
		if filter != nil {
			ok, err := filter(u)
			if err != nil {
				return nil, fmt.Errorf("filter %q: %w", cfg.Filter, err)
			}
			if !ok {
				continue
			}
		}
		matches = append(matches, u)
	}
	return matches, nil
}
