package services

import (
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/damacus/bucket-search/internal/errs"
	"github.com/damacus/bucket-search/internal/logger"
	"github.com/damacus/bucket-search/internal/models"
	"github.com/damacus/bucket-search/internal/storage"
)

// ErrNoMatch is returned by Search when the filter leaves nothing.
var ErrNoMatch = errs.New(errs.ErrKindNotFound, "no files match the query")

// BrowserOptions configures a BrowserService.
type BrowserOptions struct {
	RootPrefix    string
	MaxDepth      int
	PageSize      int
	NarrowByQuery bool // list folder+lower(query) instead of the whole folder
}

// BrowserService ties the explorer, lister and filter together for one bucket.
type BrowserService struct {
	backend  storage.Backend
	explorer *PrefixExplorer
	lister   *FileLister
	opts     BrowserOptions
	log      *logger.Logger

	mu      sync.RWMutex
	folders []string
}

// NewBrowserService creates a browser over backend.
func NewBrowserService(backend storage.Backend, opts BrowserOptions, log *logger.Logger) *BrowserService {
	if log == nil {
		log = logger.Nop()
	}
	return &BrowserService{
		backend:  backend,
		explorer: NewPrefixExplorer(backend, opts.PageSize, log),
		lister:   NewFileLister(backend, opts.PageSize, log),
		opts:     opts,
		log:      log.With().Str("component", "browser").Str("bucket", backend.Bucket()).Logger(),
	}
}

// Bucket returns the bucket being browsed.
func (s *BrowserService) Bucket() string {
	return s.backend.Bucket()
}

// DiscoverFolders explores the root prefix, sorts the result and keeps it
// as the folder selection list.
func (s *BrowserService) DiscoverFolders(ctx context.Context) ([]string, error) {
	found, err := s.explorer.Explore(ctx, s.opts.RootPrefix, s.opts.MaxDepth)
	if err != nil {
		return nil, err
	}
	sort.Strings(found)

	s.mu.Lock()
	s.folders = found
	s.mu.Unlock()

	return s.Folders(), nil
}

// Folders returns a copy of the discovered folders.
func (s *BrowserService) Folders() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.folders))
	copy(out, s.folders)
	return out
}

func (s *BrowserService) hasFolder(folder string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := sort.SearchStrings(s.folders, folder)
	return i < len(s.folders) && s.folders[i] == folder
}

// Search lists folder and filters the keys by query. An empty outcome
// returns ErrNoMatch alongside the (empty) result.
func (s *BrowserService) Search(ctx context.Context, folder, query string) (*models.SearchResult, error) {
	if !s.hasFolder(folder) {
		return nil, errs.New(errs.ErrKindInvalidInput, "unknown folder: "+folder)
	}

	prefix := folder
	if s.opts.NarrowByQuery && query != "" {
		prefix = folder + strings.ToLower(query)
	}

	records, err := s.lister.List(ctx, prefix)
	if err != nil {
		s.log.ErrorWith("listing failed", err, map[string]interface{}{"prefix": prefix})
		return nil, err
	}

	result := &models.SearchResult{
		Bucket: s.Bucket(),
		Folder: folder,
		Query:  query,
		Files:  FilterByQuery(records, query),
	}
	s.log.InfoWith("search", map[string]interface{}{
		"folder":  folder,
		"query":   query,
		"listed":  len(records),
		"matched": len(result.Files),
	})

	if len(result.Files) == 0 {
		return result, ErrNoMatch
	}
	return result, nil
}

// Fetch reads the whole object into memory.
func (s *BrowserService) Fetch(ctx context.Context, key string) (*models.Download, error) {
	if key == "" || !strings.HasPrefix(key, s.opts.RootPrefix) {
		return nil, errs.New(errs.ErrKindInvalidInput, "key outside of browsable prefix: "+key)
	}

	obj, err := s.backend.GetObject(ctx, key)
	if err != nil {
		return nil, err
	}
	defer obj.Body.Close()

	data, err := io.ReadAll(obj.Body)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, errs.Wrap(errs.ErrKindTimeout, "failed to read object", err)
		}
		return nil, errs.Wrap(errs.ErrKindConnectionFailed, "failed to read object", err)
	}

	s.log.Debugf("fetched %q (%d bytes)", key, len(data))
	return &models.Download{
		Key:         key,
		ContentType: obj.Info.ContentType,
		Data:        data,
	}, nil
}
