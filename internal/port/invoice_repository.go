package port

import (
	"context"

	"github.com/google/uuid"

	"dealerops/internal/domain"
)

// InvoiceRepository defines the contract for invoice persistence.
type InvoiceRepository interface {
	// CreateWithItems persists a header and its items in one transaction.
	// Inside the same transaction it re-checks that no selected order is
	// already referenced by an active invoice and aborts with
	// domain.ErrOrderAlreadyInvoiced if one is.
	CreateWithItems(ctx context.Context, inv *domain.Invoice, items []domain.InvoiceItem) error

	GetByID(ctx context.Context, dealerID, invoiceID uuid.UUID) (*domain.Invoice, error)
	ListItems(ctx context.Context, dealerID, invoiceID uuid.UUID) ([]domain.InvoiceItem, error)
	ListByDealer(ctx context.Context, dealerID uuid.UUID, status string, offset, limit int) ([]domain.Invoice, int, error)

	// InvoicedOrderRefs returns the set of service_reference values on
	// items of the dealer's active invoices (pending, paid, partially_paid,
	// overdue). Recomputed on every call; never cached.
	InvoicedOrderRefs(ctx context.Context, dealerID uuid.UUID) (map[string]bool, error)
}

// InvoiceNumberAllocator hands out dealer-scoped, monotonically distinct
// human-readable invoice numbers. A failed allocation must surface as an
// error; callers never retry blindly and never fall back to a
// client-generated number.
type InvoiceNumberAllocator interface {
	Next(ctx context.Context, dealerID uuid.UUID) (string, error)
}
