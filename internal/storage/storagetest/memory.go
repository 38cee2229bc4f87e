// Package storagetest provides an in-memory storage.Backend for tests.
//
// It follows ListObjectsV2 semantics closely enough for the browser:
// lexical key order, prefix filtering, delimiter grouping into common
// prefixes, MaxKeys paging over objects and prefixes together, and
// continuation tokens.
package storagetest

import (
	"bytes"
	"context"
	"io"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/damacus/bucket-search/internal/errs"
	"github.com/damacus/bucket-search/internal/storage"
)

// DefaultModified is the LastModified stamped on objects added with Put.
var DefaultModified = time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC)

// Backend is an in-memory storage.Backend. The zero value is not usable;
// call New.
type Backend struct {
	mu      sync.Mutex
	bucket  string
	objects map[string]entry

	// ListFunc / GetFunc, when set, replace the in-memory behaviour.
	ListFunc func(ctx context.Context, in storage.ListInput) (*storage.ListPage, error)
	GetFunc  func(ctx context.Context, key string) (*storage.Object, error)

	listCalls []storage.ListInput
	getCalls  []string
}

type entry struct {
	data     []byte
	modified time.Time
}

// New creates an empty backend for bucket.
func New(bucket string) *Backend {
	return &Backend{bucket: bucket, objects: make(map[string]entry)}
}

// Put stores data under key with DefaultModified.
func (b *Backend) Put(key string, data []byte) *Backend {
	return b.PutAt(key, data, DefaultModified)
}

// PutAt stores data under key with the given modification time.
func (b *Backend) PutAt(key string, data []byte, modified time.Time) *Backend {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.objects[key] = entry{data: data, modified: modified}
	return b
}

// PutKeys stores an empty object for every key.
func (b *Backend) PutKeys(keys ...string) *Backend {
	for _, k := range keys {
		b.Put(k, nil)
	}
	return b
}

// ListCalls returns a copy of every ListPage input seen so far.
func (b *Backend) ListCalls() []storage.ListInput {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]storage.ListInput(nil), b.listCalls...)
}

// GetCalls returns every key passed to GetObject so far.
func (b *Backend) GetCalls() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.getCalls...)
}

// Bucket returns the bucket name.
func (b *Backend) Bucket() string {
	return b.bucket
}

// ListPage lists one page.
func (b *Backend) ListPage(ctx context.Context, in storage.ListInput) (*storage.ListPage, error) {
	b.mu.Lock()
	b.listCalls = append(b.listCalls, in)
	listFunc := b.ListFunc
	b.mu.Unlock()

	if listFunc != nil {
		return listFunc(ctx, in)
	}
	if err := ctx.Err(); err != nil {
		return nil, errs.Wrap(errs.ErrKindTimeout, "failed to list objects", err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	entries := b.levelEntries(in.Prefix, in.Delimiter)

	start := 0
	if in.ContinuationToken != "" {
		n, err := strconv.Atoi(strings.TrimPrefix(in.ContinuationToken, "offset-"))
		if err != nil || n < 0 || n > len(entries) {
			return nil, errs.New(errs.ErrKindInvalidInput, "invalid continuation token")
		}
		start = n
	}

	maxKeys := in.MaxKeys
	if maxKeys <= 0 || maxKeys > storage.MaxPageSize {
		maxKeys = storage.MaxPageSize
	}
	end := start + maxKeys
	if end > len(entries) {
		end = len(entries)
	}

	page := &storage.ListPage{}
	for _, e := range entries[start:end] {
		if e.isPrefix {
			page.CommonPrefixes = append(page.CommonPrefixes, e.name)
			continue
		}
		obj := b.objects[e.name]
		page.Objects = append(page.Objects, storage.ObjectInfo{
			Key:          e.name,
			Size:         int64(len(obj.data)),
			LastModified: obj.modified,
		})
	}
	if end < len(entries) {
		page.IsTruncated = true
		page.NextContinuationToken = "offset-" + strconv.Itoa(end)
	}
	return page, nil
}

// GetObject returns the stored bytes for key.
func (b *Backend) GetObject(ctx context.Context, key string) (*storage.Object, error) {
	b.mu.Lock()
	b.getCalls = append(b.getCalls, key)
	getFunc := b.GetFunc
	b.mu.Unlock()

	if getFunc != nil {
		return getFunc(ctx, key)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	obj, ok := b.objects[key]
	if !ok {
		return nil, errs.New(errs.ErrKindNotFound, "no such key: "+key)
	}
	return &storage.Object{
		Info: storage.ObjectInfo{
			Key:          key,
			Size:         int64(len(obj.data)),
			LastModified: obj.modified,
		},
		Body: io.NopCloser(bytes.NewReader(obj.data)),
	}, nil
}

type listEntry struct {
	name     string
	isPrefix bool
}

// levelEntries returns objects and common prefixes under prefix in key order.
func (b *Backend) levelEntries(prefix, delimiter string) []listEntry {
	keys := make([]string, 0, len(b.objects))
	for k := range b.objects {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	var entries []listEntry
	seen := make(map[string]bool)
	for _, k := range keys {
		rest := k[len(prefix):]
		if delimiter != "" {
			if idx := strings.Index(rest, delimiter); idx >= 0 {
				cp := prefix + rest[:idx+len(delimiter)]
				if !seen[cp] {
					seen[cp] = true
					entries = append(entries, listEntry{name: cp, isPrefix: true})
				}
				continue
			}
		}
		entries = append(entries, listEntry{name: k})
	}
	return entries
}

var _ storage.Backend = (*Backend)(nil)
