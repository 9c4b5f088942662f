package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"letterapi/internal/mailer"
)

type MockSender struct {
	mock.Mock
}

func (m *MockSender) Send(ctx context.Context, email *mailer.Email) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}
