package main

import (
	"context"

	"github.com/damacus/bucket-search/internal/config"
	"github.com/damacus/bucket-search/internal/storage"
	"github.com/stretchr/testify/mock"
)

// MockBackend implements storage.Backend for testing
type MockBackend struct {
	mock.Mock
}

func (m *MockBackend) Bucket() string {
	return m.Called().String(0)
}

func (m *MockBackend) ListPage(ctx context.Context, in storage.ListInput) (*storage.ListPage, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.ListPage), args.Error(1)
}

func (m *MockBackend) GetObject(ctx context.Context, key string) (*storage.Object, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.Object), args.Error(1)
}

// MockBackendFactory implements services.BackendFactory for testing
type MockBackendFactory struct {
	mock.Mock
}

func (m *MockBackendFactory) NewBackend(ctx context.Context, cfg config.StorageConfig) (storage.Backend, error) {
	args := m.Called(ctx, cfg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(storage.Backend), args.Error(1)
}
