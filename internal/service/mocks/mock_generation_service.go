package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"letterapi/internal/model"
	"letterapi/internal/service"
)

type MockGenerationService struct {
	mock.Mock
}

func (m *MockGenerationService) Generate(ctx context.Context, req model.GenerationRequest) (*service.GenerationResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.GenerationResult), args.Error(1)
}

func (m *MockGenerationService) Get(ctx context.Context, id string) (*model.GenerationRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.GenerationRecord), args.Error(1)
}

func (m *MockGenerationService) List(ctx context.Context, limit, offset int) (*service.GenerationListResult, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.GenerationListResult), args.Error(1)
}
