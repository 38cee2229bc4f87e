package services

import (
	"context"

	"github.com/damacus/bucket-search/internal/errs"
	"github.com/damacus/bucket-search/internal/logger"
	"github.com/damacus/bucket-search/internal/storage"
)

// PrefixExplorer discovers folder-like prefixes by walking common prefixes
// level by level.
type PrefixExplorer struct {
	backend  storage.Backend
	pageSize int
	log      *logger.Logger
}

// NewPrefixExplorer creates an explorer. pageSize bounds each listing call.
func NewPrefixExplorer(backend storage.Backend, pageSize int, log *logger.Logger) *PrefixExplorer {
	if log == nil {
		log = logger.Nop()
	}
	return &PrefixExplorer{
		backend:  backend,
		pageSize: pageSize,
		log:      log.With().Str("component", "explorer").Str("bucket", backend.Bucket()).Logger(),
	}
}

// Explore returns every prefix found under root, depth first in discovery
// order. Prefixes found at depth d are only descended into while
// d+1 < maxDepth. Any listing error aborts the whole walk.
func (e *PrefixExplorer) Explore(ctx context.Context, root string, maxDepth int) ([]string, error) {
	if maxDepth < 1 {
		return nil, errs.New(errs.ErrKindInvalidInput, "max depth must be at least 1")
	}

	var found []string
	if err := e.explore(ctx, root, 0, maxDepth, &found); err != nil {
		return nil, err
	}
	e.log.Infof("discovered %d prefixes under %q", len(found), root)
	return found, nil
}

func (e *PrefixExplorer) explore(ctx context.Context, prefix string, depth, maxDepth int, found *[]string) error {
	level, err := e.listLevel(ctx, prefix)
	if err != nil {
		return err
	}
	for _, p := range level {
		*found = append(*found, p)
		if depth+1 < maxDepth {
			if err := e.explore(ctx, p, depth+1, maxDepth, found); err != nil {
				return err
			}
		}
	}
	return nil
}

// listLevel collects the common prefixes directly under prefix, following
// continuation tokens until the level is exhausted.
func (e *PrefixExplorer) listLevel(ctx context.Context, prefix string) ([]string, error) {
	var (
		prefixes []string
		token    string
	)
	for {
		e.log.Debugf("listing prefixes under %q", prefix)
		page, err := e.backend.ListPage(ctx, storage.ListInput{
			Prefix:            prefix,
			Delimiter:         storage.Delimiter,
			MaxKeys:           e.pageSize,
			ContinuationToken: token,
		})
		if err != nil {
			return nil, err
		}
		prefixes = append(prefixes, page.CommonPrefixes...)

		if !page.IsTruncated {
			return prefixes, nil
		}
		if page.NextContinuationToken == "" {
			return nil, errs.New(errs.ErrKindQueryFailed, "truncated listing without continuation token")
		}
		token = page.NextContinuationToken
	}
}
