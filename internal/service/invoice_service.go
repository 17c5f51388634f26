package service

import (
	"context"

	"github.com/google/uuid"

	"dealerops/internal/domain"
	"dealerops/internal/port"
)

// InvoiceWithItems bundles a header with its line items for display.
type InvoiceWithItems struct {
	domain.Invoice
	Items []domain.InvoiceItem `json:"items"`
}

// InvoiceService provides read access to created invoices. Invoices are
// immutable here; payment recording and status transitions live outside
// this service.
type InvoiceService interface {
	GetByID(ctx context.Context, dealerID, invoiceID uuid.UUID) (*InvoiceWithItems, error)
	ListByDealer(ctx context.Context, dealerID uuid.UUID, status string, offset, limit int) ([]domain.Invoice, int, error)
}

type invoiceService struct {
	invoiceRepo port.InvoiceRepository
}

// NewInvoiceService creates a new InvoiceService implementation.
func NewInvoiceService(invoiceRepo port.InvoiceRepository) InvoiceService {
	return &invoiceService{invoiceRepo: invoiceRepo}
}

func (s *invoiceService) GetByID(ctx context.Context, dealerID, invoiceID uuid.UUID) (*InvoiceWithItems, error) {
	if dealerID == uuid.Nil {
		return nil, domain.ErrDealerRequired
	}
	inv, err := s.invoiceRepo.GetByID(ctx, dealerID, invoiceID)
	if err != nil {
		return nil, err
	}
	items, err := s.invoiceRepo.ListItems(ctx, dealerID, invoiceID)
	if err != nil {
		return nil, err
	}
	return &InvoiceWithItems{Invoice: *inv, Items: items}, nil
}

func (s *invoiceService) ListByDealer(ctx context.Context, dealerID uuid.UUID, status string, offset, limit int) ([]domain.Invoice, int, error) {
	if dealerID == uuid.Nil {
		return nil, 0, domain.ErrDealerRequired
	}
	return s.invoiceRepo.ListByDealer(ctx, dealerID, status, offset, limit)
}
