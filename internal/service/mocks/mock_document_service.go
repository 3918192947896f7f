package mocks

import (
	"context"

	"docstore/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) UploadBatch(ctx context.Context, ownerID string, files []service.RawFile) (*service.UploadResult, error) {
	args := m.Called(ctx, ownerID, files)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.UploadResult), args.Error(1)
}

func (m *MockDocumentService) QueryByOwner(ctx context.Context, ownerID string) (*service.QueryResult, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.QueryResult), args.Error(1)
}

func (m *MockDocumentService) DeleteByAssignedName(ctx context.Context, assignedName string) (*service.DeleteResult, error) {
	args := m.Called(ctx, assignedName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DeleteResult), args.Error(1)
}
