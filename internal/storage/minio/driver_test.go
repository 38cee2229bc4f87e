package minio

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/damacus/bucket-search/internal/errs"
	"github.com/damacus/bucket-search/internal/storage"
	miniogo "github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockCore struct {
	mock.Mock
}

func (m *mockCore) ListObjectsV2(bucketName, objectPrefix, startAfter, continuationToken, delimiter string, maxkeys int) (miniogo.ListBucketV2Result, error) {
	args := m.Called(bucketName, objectPrefix, startAfter, continuationToken, delimiter, maxkeys)
	return args.Get(0).(miniogo.ListBucketV2Result), args.Error(1)
}

func (m *mockCore) GetObject(ctx context.Context, bucketName, objectName string, opts miniogo.GetObjectOptions) (io.ReadCloser, miniogo.ObjectInfo, http.Header, error) {
	args := m.Called(ctx, bucketName, objectName, opts)
	var body io.ReadCloser
	if args.Get(0) != nil {
		body = args.Get(0).(io.ReadCloser)
	}
	return body, args.Get(1).(miniogo.ObjectInfo), nil, args.Error(2)
}

func TestNew_RequiresBucket(t *testing.T) {
	_, err := New(storage.Config{Endpoint: "s3.amazonaws.com"})
	assert.True(t, errs.IsInvalidInput(err))
}

func TestNew_BuildsDriver(t *testing.T) {
	d, err := New(storage.Config{
		Endpoint:  "s3.amazonaws.com",
		AccessKey: "key",
		SecretKey: "secret",
		Region:    "us-east-1",
		UseSSL:    true,
		Bucket:    "prod-tc-pdf-files-bucket",
	})
	require.NoError(t, err)
	assert.Equal(t, "prod-tc-pdf-files-bucket", d.Bucket())
}

func TestListPage_ConvertsResult(t *testing.T) {
	core := new(mockCore)
	d := &Driver{core: core, bucket: "docs"}
	modified := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	core.On("ListObjectsV2", "docs", "PDFS/", "", "tok-1", "/", 50).Return(miniogo.ListBucketV2Result{
		CommonPrefixes: []miniogo.CommonPrefix{{Prefix: "PDFS/2023/"}, {Prefix: "PDFS/2024/"}},
		Contents: []miniogo.ObjectInfo{
			{Key: "PDFS/readme.pdf", Size: 2048, LastModified: modified, ETag: "abc"},
		},
		IsTruncated:           true,
		NextContinuationToken: "tok-2",
	}, nil)

	page, err := d.ListPage(context.Background(), storage.ListInput{
		Prefix:            "PDFS/",
		Delimiter:         "/",
		MaxKeys:           50,
		ContinuationToken: "tok-1",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"PDFS/2023/", "PDFS/2024/"}, page.CommonPrefixes)
	require.Len(t, page.Objects, 1)
	assert.Equal(t, "PDFS/readme.pdf", page.Objects[0].Key)
	assert.Equal(t, int64(2048), page.Objects[0].Size)
	assert.Equal(t, modified, page.Objects[0].LastModified)
	assert.True(t, page.IsTruncated)
	assert.Equal(t, "tok-2", page.NextContinuationToken)
	core.AssertExpectations(t)
}

func TestListPage_ClampsMaxKeys(t *testing.T) {
	core := new(mockCore)
	d := &Driver{core: core, bucket: "docs"}
	core.On("ListObjectsV2", "docs", "", "", "", "", storage.MaxPageSize).Return(miniogo.ListBucketV2Result{}, nil)

	_, err := d.ListPage(context.Background(), storage.ListInput{})
	require.NoError(t, err)
	core.AssertExpectations(t)
}

func TestListPage_CancelledContext(t *testing.T) {
	core := new(mockCore)
	d := &Driver{core: core, bucket: "docs"}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := d.ListPage(ctx, storage.ListInput{Prefix: "PDFS/"})
	assert.True(t, errs.IsTimeout(err))
	core.AssertNotCalled(t, "ListObjectsV2", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestListPage_MapsBackendError(t *testing.T) {
	core := new(mockCore)
	d := &Driver{core: core, bucket: "docs"}
	core.On("ListObjectsV2", "docs", "PDFS/", "", "", "/", 10).Return(miniogo.ListBucketV2Result{},
		miniogo.ErrorResponse{Code: "NoSuchBucket", StatusCode: http.StatusNotFound})

	_, err := d.ListPage(context.Background(), storage.ListInput{Prefix: "PDFS/", Delimiter: "/", MaxKeys: 10})
	assert.True(t, errs.IsNotFound(err))
}

func TestGetObject(t *testing.T) {
	core := new(mockCore)
	d := &Driver{core: core, bucket: "docs"}
	body := io.NopCloser(strings.NewReader("%PDF-1.7"))

	core.On("GetObject", mock.Anything, "docs", "PDFS/a.pdf", miniogo.GetObjectOptions{}).
		Return(body, miniogo.ObjectInfo{Size: 8, ContentType: "application/pdf"}, nil)

	obj, err := d.GetObject(context.Background(), "PDFS/a.pdf")
	require.NoError(t, err)
	defer func() { _ = obj.Body.Close() }()

	data, err := io.ReadAll(obj.Body)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.7", string(data))
	assert.Equal(t, "PDFS/a.pdf", obj.Info.Key)
	assert.Equal(t, int64(8), obj.Info.Size)
}

func TestGetObject_MissingKey(t *testing.T) {
	core := new(mockCore)
	d := &Driver{core: core, bucket: "docs"}
	core.On("GetObject", mock.Anything, "docs", "nope", mock.Anything).
		Return(nil, miniogo.ObjectInfo{}, miniogo.ErrorResponse{Code: "NoSuchKey", StatusCode: http.StatusNotFound})

	_, err := d.GetObject(context.Background(), "nope")
	assert.True(t, errs.IsNotFound(err))
}

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want errs.ErrKind
	}{
		{"deadline", context.DeadlineExceeded, errs.ErrKindTimeout},
		{"access denied", miniogo.ErrorResponse{Code: "AccessDenied", StatusCode: http.StatusForbidden}, errs.ErrKindPermissionDenied},
		{"bad signature", miniogo.ErrorResponse{Code: "SignatureDoesNotMatch"}, errs.ErrKindPermissionDenied},
		{"status only 404", miniogo.ErrorResponse{Code: "Other", StatusCode: http.StatusNotFound}, errs.ErrKindNotFound},
		{"slow down", miniogo.ErrorResponse{Code: "SlowDown", StatusCode: http.StatusServiceUnavailable}, errs.ErrKindTimeout},
		{"server error", miniogo.ErrorResponse{Code: "InternalError", StatusCode: http.StatusInternalServerError}, errs.ErrKindQueryFailed},
		{"network", errors.New("dial tcp: connection refused"), errs.ErrKindConnectionFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, mapError(tt.err, "op").Kind)
		})
	}
	assert.Nil(t, mapError(nil, "op"))
}
