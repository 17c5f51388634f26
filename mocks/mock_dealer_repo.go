package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"dealerops/internal/domain"
)

// MockDealerRepo is a mock implementation of port.DealerRepository.
type MockDealerRepo struct {
	mock.Mock
}

func (m *MockDealerRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Dealer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Dealer), args.Error(1)
}

func (m *MockDealerRepo) GetBySlug(ctx context.Context, slug string) (*domain.Dealer, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Dealer), args.Error(1)
}
