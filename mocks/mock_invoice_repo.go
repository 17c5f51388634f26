package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"dealerops/internal/domain"
)

// MockInvoiceRepo is a mock implementation of port.InvoiceRepository.
type MockInvoiceRepo struct {
	mock.Mock
}

func (m *MockInvoiceRepo) CreateWithItems(ctx context.Context, inv *domain.Invoice, items []domain.InvoiceItem) error {
	args := m.Called(ctx, inv, items)
	return args.Error(0)
}

func (m *MockInvoiceRepo) GetByID(ctx context.Context, dealerID, invoiceID uuid.UUID) (*domain.Invoice, error) {
	args := m.Called(ctx, dealerID, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepo) ListItems(ctx context.Context, dealerID, invoiceID uuid.UUID) ([]domain.InvoiceItem, error) {
	args := m.Called(ctx, dealerID, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.InvoiceItem), args.Error(1)
}

func (m *MockInvoiceRepo) ListByDealer(ctx context.Context, dealerID uuid.UUID, status string, offset, limit int) ([]domain.Invoice, int, error) {
	args := m.Called(ctx, dealerID, status, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Invoice), args.Int(1), args.Error(2)
}

func (m *MockInvoiceRepo) InvoicedOrderRefs(ctx context.Context, dealerID uuid.UUID) (map[string]bool, error) {
	args := m.Called(ctx, dealerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]bool), args.Error(1)
}

// MockInvoiceNumberAllocator is a mock implementation of port.InvoiceNumberAllocator.
type MockInvoiceNumberAllocator struct {
	mock.Mock
}

func (m *MockInvoiceNumberAllocator) Next(ctx context.Context, dealerID uuid.UUID) (string, error) {
	args := m.Called(ctx, dealerID)
	return args.String(0), args.Error(1)
}
