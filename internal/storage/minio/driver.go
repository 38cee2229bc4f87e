// Package minio provides a minio-go implementation of storage.Backend.
//
// It talks to any S3-compatible endpoint (AWS S3 included) through
// minio.Core so that continuation tokens and common prefixes are exposed
// page by page instead of being hidden behind the channel iterator.
package minio

import (
	"context"
	"io"
	"net/http"

	"github.com/damacus/bucket-search/internal/errs"
	"github.com/damacus/bucket-search/internal/storage"
	miniogo "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// coreAPI is the subset of *minio.Core the driver uses.
type coreAPI interface {
	ListObjectsV2(bucketName, objectPrefix, startAfter, continuationToken, delimiter string, maxkeys int) (miniogo.ListBucketV2Result, error)
	GetObject(ctx context.Context, bucketName, objectName string, opts miniogo.GetObjectOptions) (io.ReadCloser, miniogo.ObjectInfo, http.Header, error)
}

// Driver is a minio-go implementation of storage.Backend.
// It is safe for concurrent use by multiple goroutines.
type Driver struct {
	core   coreAPI
	bucket string
}

// New builds a Driver from cfg. No request is made until the first call.
func New(cfg storage.Config) (*Driver, error) {
	if cfg.Bucket == "" {
		return nil, errs.New(errs.ErrKindInvalidInput, "bucket name cannot be empty")
	}

	core, err := miniogo.NewCore(cfg.Endpoint, &miniogo.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindConnectionFailed, "failed to create minio client", err)
	}

	return &Driver{core: core, bucket: cfg.Bucket}, nil
}

// Bucket returns the bucket the driver reads from.
func (d *Driver) Bucket() string {
	return d.bucket
}

// ListPage issues one ListObjectsV2 request.
func (d *Driver) ListPage(ctx context.Context, in storage.ListInput) (*storage.ListPage, error) {
	// minio.Core's ListObjectsV2 takes no context, so honour cancellation here.
	if err := ctx.Err(); err != nil {
		return nil, mapError(err, "failed to list objects")
	}

	maxKeys := in.MaxKeys
	if maxKeys <= 0 || maxKeys > storage.MaxPageSize {
		maxKeys = storage.MaxPageSize
	}

	res, err := d.core.ListObjectsV2(d.bucket, in.Prefix, "", in.ContinuationToken, in.Delimiter, maxKeys)
	if err != nil {
		return nil, mapError(err, "failed to list objects")
	}
	return convertListResult(res), nil
}

// GetObject opens the object at key. The caller MUST close the body.
func (d *Driver) GetObject(ctx context.Context, key string) (*storage.Object, error) {
	body, info, _, err := d.core.GetObject(ctx, d.bucket, key, miniogo.GetObjectOptions{})
	if err != nil {
		return nil, mapError(err, "failed to get object")
	}

	return &storage.Object{
		Info: storage.ObjectInfo{
			Key:          key,
			Size:         info.Size,
			LastModified: info.LastModified,
			ContentType:  info.ContentType,
			ETag:         info.ETag,
		},
		Body: body,
	}, nil
}

func convertListResult(res miniogo.ListBucketV2Result) *storage.ListPage {
	page := &storage.ListPage{
		Objects:               make([]storage.ObjectInfo, 0, len(res.Contents)),
		CommonPrefixes:        make([]string, 0, len(res.CommonPrefixes)),
		IsTruncated:           res.IsTruncated,
		NextContinuationToken: res.NextContinuationToken,
	}

	for _, obj := range res.Contents {
		page.Objects = append(page.Objects, storage.ObjectInfo{
			Key:          obj.Key,
			Size:         obj.Size,
			LastModified: obj.LastModified,
			ContentType:  obj.ContentType,
			ETag:         obj.ETag,
		})
	}
	for _, p := range res.CommonPrefixes {
		page.CommonPrefixes = append(page.CommonPrefixes, p.Prefix)
	}

	return page
}

var _ storage.Backend = (*Driver)(nil)
