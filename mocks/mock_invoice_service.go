package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"dealerops/internal/domain"
	"dealerops/internal/service"
)

// MockInvoiceService is a mock implementation of service.InvoiceService.
type MockInvoiceService struct {
	mock.Mock
}

func (m *MockInvoiceService) GetByID(ctx context.Context, dealerID, invoiceID uuid.UUID) (*service.InvoiceWithItems, error) {
	args := m.Called(ctx, dealerID, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.InvoiceWithItems), args.Error(1)
}

func (m *MockInvoiceService) ListByDealer(ctx context.Context, dealerID uuid.UUID, status string, offset, limit int) ([]domain.Invoice, int, error) {
	args := m.Called(ctx, dealerID, status, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Invoice), args.Int(1), args.Error(2)
}

// MockExportService is a mock implementation of service.ExportService.
type MockExportService struct {
	mock.Mock
}

func (m *MockExportService) ExportRegister(ctx context.Context, dealerID uuid.UUID, format string, archive bool) (*service.ExportResult, error) {
	args := m.Called(ctx, dealerID, format, archive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ExportResult), args.Error(1)
}
