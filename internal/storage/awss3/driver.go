// Package awss3 provides an aws-sdk-go-v2 implementation of storage.Backend.
package awss3

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/damacus/bucket-search/internal/errs"
	"github.com/damacus/bucket-search/internal/storage"
)

// S3API is the subset of *s3.Client the driver uses, so tests can mock it.
type S3API interface {
	ListObjectsV2(
		ctx context.Context,
		params *s3.ListObjectsV2Input,
		optFns ...func(*s3.Options),
	) (*s3.ListObjectsV2Output, error)

	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

var _ S3API = (*s3.Client)(nil)

// Driver is an AWS SDK v2 implementation of storage.Backend.
type Driver struct {
	client S3API
	bucket string
}

// New loads an AWS configuration for cfg and builds a Driver.
//
// Static credentials are used when an access key is configured; otherwise
// the SDK's default credential chain applies. A non-empty Endpoint switches
// to path-style addressing against that endpoint.
func New(ctx context.Context, cfg storage.Config) (*Driver, error) {
	if cfg.Bucket == "" {
		return nil, errs.New(errs.ErrKindInvalidInput, "bucket name cannot be empty")
	}

	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = "us-east-1"
	}

	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindConnectionFailed, "failed to load aws configuration", err)
	}

	var s3Opts []func(*s3.Options)
	if cfg.Endpoint != "" {
		endpoint := endpointURL(cfg.Endpoint, cfg.UseSSL)
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		})
	}

	return NewWithClient(s3.NewFromConfig(awsCfg, s3Opts...), cfg.Bucket), nil
}

// NewWithClient wraps an existing S3API implementation.
func NewWithClient(client S3API, bucket string) *Driver {
	return &Driver{client: client, bucket: bucket}
}

// Bucket returns the bucket the driver reads from.
func (d *Driver) Bucket() string {
	return d.bucket
}

// ListPage issues one ListObjectsV2 request.
func (d *Driver) ListPage(ctx context.Context, in storage.ListInput) (*storage.ListPage, error) {
	maxKeys := in.MaxKeys
	if maxKeys <= 0 || maxKeys > storage.MaxPageSize {
		maxKeys = storage.MaxPageSize
	}

	input := &s3.ListObjectsV2Input{
		Bucket:  aws.String(d.bucket),
		Prefix:  aws.String(in.Prefix),
		MaxKeys: aws.Int32(int32(maxKeys)),
	}
	if in.Delimiter != "" {
		input.Delimiter = aws.String(in.Delimiter)
	}
	if in.ContinuationToken != "" {
		input.ContinuationToken = aws.String(in.ContinuationToken)
	}

	output, err := d.client.ListObjectsV2(ctx, input)
	if err != nil {
		return nil, mapError(err, "failed to list objects")
	}
	return convertOutput(output), nil
}

// GetObject opens the object at key. The caller MUST close the body.
func (d *Driver) GetObject(ctx context.Context, key string) (*storage.Object, error) {
	output, err := d.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(d.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, mapError(err, "failed to get object")
	}

	return &storage.Object{
		Info: storage.ObjectInfo{
			Key:          key,
			Size:         aws.ToInt64(output.ContentLength),
			LastModified: aws.ToTime(output.LastModified),
			ContentType:  aws.ToString(output.ContentType),
			ETag:         aws.ToString(output.ETag),
		},
		Body: output.Body,
	}, nil
}

func convertOutput(output *s3.ListObjectsV2Output) *storage.ListPage {
	page := &storage.ListPage{
		Objects:               make([]storage.ObjectInfo, 0, len(output.Contents)),
		CommonPrefixes:        make([]string, 0, len(output.CommonPrefixes)),
		IsTruncated:           aws.ToBool(output.IsTruncated),
		NextContinuationToken: aws.ToString(output.NextContinuationToken),
	}

	for _, obj := range output.Contents {
		page.Objects = append(page.Objects, storage.ObjectInfo{
			Key:          aws.ToString(obj.Key),
			Size:         aws.ToInt64(obj.Size),
			LastModified: aws.ToTime(obj.LastModified),
			ETag:         aws.ToString(obj.ETag),
		})
	}
	for _, p := range output.CommonPrefixes {
		page.CommonPrefixes = append(page.CommonPrefixes, aws.ToString(p.Prefix))
	}

	return page
}

// endpointURL adds a scheme to a bare host[:port] endpoint.
func endpointURL(endpoint string, useSSL bool) string {
	if strings.HasPrefix(endpoint, "http://") || strings.HasPrefix(endpoint, "https://") {
		return endpoint
	}
	scheme := "https"
	if !useSSL {
		scheme = "http"
	}
	return fmt.Sprintf("%s://%s", scheme, strings.TrimPrefix(endpoint, "//"))
}

var _ storage.Backend = (*Driver)(nil)
