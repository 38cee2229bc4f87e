package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/damacus/bucket-search/internal/config"
	"github.com/damacus/bucket-search/internal/storage"
	"github.com/damacus/bucket-search/internal/storage/awss3"
	"github.com/damacus/bucket-search/internal/storage/minio"
)

// BackendFactory creates the shared storage backend.
type BackendFactory interface {
	NewBackend(ctx context.Context, cfg config.StorageConfig) (storage.Backend, error)
}

// RealBackendFactory is the production implementation
type RealBackendFactory struct{}

// shouldUseSSL determines if SSL should be used based on the endpoint.
// Returns false for localhost, 127.0.0.1, and docker service names.
func shouldUseSSL(endpoint string) bool {
	if endpoint == "localhost:9000" || endpoint == "127.0.0.1:9000" {
		return false
	}
	// Docker service names (minio:9000, minio1:9000, ...), not domain names like minio.example.com
	if strings.HasPrefix(endpoint, "minio") && !strings.Contains(strings.Split(endpoint, ":")[0], ".") && strings.Contains(endpoint, ":9000") {
		return false
	}
	return true
}

// storageConfig translates application settings into driver settings.
func storageConfig(cfg config.StorageConfig) storage.Config {
	useSSL := shouldUseSSL(cfg.Endpoint)
	if cfg.UseSSL != nil {
		useSSL = *cfg.UseSSL
	}
	return storage.Config{
		Endpoint:  cfg.Endpoint,
		AccessKey: cfg.AccessKey,
		SecretKey: cfg.SecretKey,
		Region:    cfg.Region,
		UseSSL:    useSSL,
		Bucket:    cfg.Bucket,
	}
}

func (f *RealBackendFactory) NewBackend(ctx context.Context, cfg config.StorageConfig) (storage.Backend, error) {
	switch cfg.Driver {
	case config.DriverMinio:
		return minio.New(storageConfig(cfg))
	case config.DriverAWS:
		return awss3.New(ctx, storageConfig(cfg))
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Driver)
	}
}
