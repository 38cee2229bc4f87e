// Package storage defines the read-only object-storage interface the
// browser needs. Drivers live in sub-packages (minio, awss3); callers
// depend only on this package.
package storage

import (
	"context"
	"io"
	"time"
)

// Delimiter groups keys into folder-like common prefixes.
const Delimiter = "/"

// MaxPageSize is the largest page S3-compatible backends return.
const MaxPageSize = 1000

// Backend is the single interface every storage driver implements.
// It is scoped to one bucket and to read operations only.
type Backend interface {
	// Bucket returns the bucket this backend reads from.
	Bucket() string

	// ListPage issues exactly one ListObjectsV2-style call.
	ListPage(ctx context.Context, in ListInput) (*ListPage, error)

	// GetObject opens the object at key. The caller MUST close Body.
	GetObject(ctx context.Context, key string) (*Object, error)
}

// ListInput controls one listing call.
type ListInput struct {
	// Prefix restricts results to keys starting with this string.
	Prefix string

	// Delimiter, when set, groups keys below Prefix into CommonPrefixes.
	Delimiter string

	// MaxKeys caps the page size. 0 means the backend default.
	MaxKeys int

	// ContinuationToken resumes a truncated listing; empty on the first call.
	ContinuationToken string
}

// ListPage is one page of a listing.
type ListPage struct {
	Objects        []ObjectInfo
	CommonPrefixes []string

	IsTruncated           bool
	NextContinuationToken string
}

// ObjectInfo describes a single stored object.
type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified time.Time
	ContentType  string
	ETag         string
}

// Object is an open object body with its metadata.
type Object struct {
	Info ObjectInfo
	Body io.ReadCloser
}

// Config holds the connection settings shared by all drivers.
type Config struct {
	// Endpoint is host[:port] for minio, or a full URL override for aws.
	// Empty means the provider default.
	Endpoint string

	AccessKey string
	SecretKey string
	Region    string
	UseSSL    bool

	Bucket string
}
