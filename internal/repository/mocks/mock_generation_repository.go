package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"letterapi/internal/model"
	"letterapi/internal/repository"
)

type MockGenerationRepository struct {
	mock.Mock
}

func (m *MockGenerationRepository) Create(ctx context.Context, rec *model.GenerationRecord) (*model.GenerationRecord, error) {
	args := m.Called(ctx, rec)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.GenerationRecord), args.Error(1)
}

func (m *MockGenerationRepository) FindByID(ctx context.Context, id string) (*model.GenerationRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.GenerationRecord), args.Error(1)
}

func (m *MockGenerationRepository) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.GenerationRecord], error) {
	args := m.Called(ctx, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.GenerationRecord]), args.Error(1)
}
