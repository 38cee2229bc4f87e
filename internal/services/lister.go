package services

import (
	"context"

	"github.com/damacus/bucket-search/internal/errs"
	"github.com/damacus/bucket-search/internal/logger"
	"github.com/damacus/bucket-search/internal/models"
	"github.com/damacus/bucket-search/internal/storage"
	"github.com/damacus/bucket-search/internal/utils"
)

// DefaultPageSize is the number of keys requested per listing call.
const DefaultPageSize = 50

// FileLister pages through every object under a prefix.
type FileLister struct {
	backend  storage.Backend
	pageSize int
	log      *logger.Logger
}

// NewFileLister creates a lister. A pageSize outside 1..storage.MaxPageSize
// falls back to DefaultPageSize.
func NewFileLister(backend storage.Backend, pageSize int, log *logger.Logger) *FileLister {
	if pageSize < 1 || pageSize > storage.MaxPageSize {
		pageSize = DefaultPageSize
	}
	if log == nil {
		log = logger.Nop()
	}
	return &FileLister{
		backend:  backend,
		pageSize: pageSize,
		log:      log.With().Str("component", "lister").Str("bucket", backend.Bucket()).Logger(),
	}
}

// List returns every object under prefix in backend order. No delimiter is
// sent, so objects in nested prefixes are included. On error nothing is
// returned.
func (l *FileLister) List(ctx context.Context, prefix string) ([]models.ObjectRecord, error) {
	var (
		records []models.ObjectRecord
		token   string
		calls   int
	)
	for {
		calls++
		page, err := l.backend.ListPage(ctx, storage.ListInput{
			Prefix:            prefix,
			MaxKeys:           l.pageSize,
			ContinuationToken: token,
		})
		if err != nil {
			return nil, err
		}
		for _, obj := range page.Objects {
			records = append(records, toRecord(obj))
		}

		if !page.IsTruncated {
			break
		}
		if page.NextContinuationToken == "" {
			return nil, errs.New(errs.ErrKindQueryFailed, "truncated listing without continuation token")
		}
		token = page.NextContinuationToken
	}

	l.log.Debugf("listed %d objects under %q in %d calls", len(records), prefix, calls)
	return records, nil
}

func toRecord(obj storage.ObjectInfo) models.ObjectRecord {
	return models.ObjectRecord{
		Key:           obj.Key,
		Size:          obj.Size,
		SizeMB:        utils.BytesToMB(obj.Size),
		FormattedSize: utils.FormatFileSize(obj.Size),
		LastModified:  obj.LastModified,
	}
}
