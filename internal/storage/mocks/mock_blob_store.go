package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

type MockBlobStore struct {
	mock.Mock
}

func (m *MockBlobStore) AllocateDir(ctx context.Context, at time.Time) (string, error) {
	args := m.Called(ctx, at)
	return args.String(0), args.Error(1)
}

func (m *MockBlobStore) Write(ctx context.Context, relPath string, data []byte) error {
	args := m.Called(ctx, relPath, data)
	return args.Error(0)
}

func (m *MockBlobStore) Read(ctx context.Context, relPath string) ([]byte, error) {
	args := m.Called(ctx, relPath)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockBlobStore) Delete(ctx context.Context, relPath string) (bool, error) {
	args := m.Called(ctx, relPath)
	return args.Bool(0), args.Error(1)
}

func (m *MockBlobStore) PruneEmptyDirs(ctx context.Context, relDir string) error {
	args := m.Called(ctx, relDir)
	return args.Error(0)
}
