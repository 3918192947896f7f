package mocks

import (
	"context"

	"docstore/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	args := m.Called(ctx, doc)
	if f, ok := args.Get(0).(func(context.Context, *model.Document) *model.Document); ok {
		return f(ctx, doc), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentRepository) FindByOwner(ctx context.Context, ownerID string) ([]model.Document, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Document), args.Error(1)
}

func (m *MockDocumentRepository) DeleteByAssignedName(ctx context.Context, assignedName string) (*model.Document, error) {
	args := m.Called(ctx, assignedName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}
