package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockConverter struct {
	mock.Mock
}

func (m *MockConverter) Convert(ctx context.Context, name string, docx []byte) ([]byte, error) {
	args := m.Called(ctx, name, docx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}
