package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockServiceCatalog is a mock implementation of port.ServiceCatalog.
type MockServiceCatalog struct {
	mock.Mock
}

func (m *MockServiceCatalog) ActiveNames(ctx context.Context, dealerID uuid.UUID) (map[string]string, error) {
	args := m.Called(ctx, dealerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]string), args.Error(1)
}
