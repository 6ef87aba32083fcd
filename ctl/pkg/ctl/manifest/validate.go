package manifest

import (
	"context"

	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/updraft-io/updraft-go/common/store"
	"github.com/updraft-io/updraft-go/ctl/pkg/config"
)

type ValidateCfg struct {
	// Paths are the documents to check, each a plain path, file: or s3: URL.
	Paths []string
}

type ValidateResult struct {
	Path    string
	Updates int
	Err     error
}

// Validate loads every named document and checks its invariants. Documents
// are checked concurrently, bounded by the global worker count; results come
// back in input order with per-document errors recorded, not returned.
func Validate(ctx context.Context, cfg ValidateCfg) ([]ValidateResult, error) {
	opts := config.S3OptionsFromFlags()
	results := make([]ValidateResult, len(cfg.Paths))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(max(viper.GetInt(config.NumWorkersKey), 1))
	for i, path := range cfg.Paths {
		g.Go(func() error {
			updates, err := validateOne(gCtx, path, opts)
			results[i] = ValidateResult{Path: path, Updates: updates, Err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func validateOne(ctx context.Context, path string, opts store.S3Options) (int, error) {
	st, err := store.New(ctx, path, opts)
	if err != nil {
		return 0, err
	}
	m, err := st.Load(ctx)
	if err != nil {
		return 0, err
	}
	if err := m.Validate(); err != nil {
		return 0, err
	}
	return len(m.Updates), nil
}
