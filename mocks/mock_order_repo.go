package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"dealerops/internal/domain"
)

// MockOrderRepo is a mock implementation of port.OrderRepository.
type MockOrderRepo struct {
	mock.Mock
}

func (m *MockOrderRepo) ListByDealer(ctx context.Context, dealerID uuid.UUID, types []domain.OrderType, status string) ([]domain.Order, error) {
	args := m.Called(ctx, dealerID, types, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Order), args.Error(1)
}

func (m *MockOrderRepo) GetByIDs(ctx context.Context, dealerID uuid.UUID, ids []uuid.UUID) ([]domain.Order, error) {
	args := m.Called(ctx, dealerID, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Order), args.Error(1)
}
