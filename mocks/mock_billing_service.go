package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"dealerops/internal/domain"
	"dealerops/internal/service"
)

// MockBillingService is a mock implementation of service.BillingService.
type MockBillingService struct {
	mock.Mock
}

func (m *MockBillingService) ListBillable(ctx context.Context, input *service.ListBillableInput) (*service.BillablePreview, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.BillablePreview), args.Error(1)
}

func (m *MockBillingService) CreateInvoice(ctx context.Context, input *service.CreateInvoiceInput) (*domain.Invoice, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}
