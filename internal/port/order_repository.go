package port

import (
	"context"

	"github.com/google/uuid"

	"dealerops/internal/domain"
)

// OrderRepository is the read-only query surface over the external order
// store. The billing engine never writes orders.
type OrderRepository interface {
	// ListByDealer returns the dealer's orders, optionally narrowed by
	// order types (nil or empty = all) and status ("all" or "" = all).
	ListByDealer(ctx context.Context, dealerID uuid.UUID, types []domain.OrderType, status string) ([]domain.Order, error)

	// GetByIDs returns the dealer's orders for the given ids, in the order
	// the ids were supplied. A missing id is domain.ErrOrderNotFound.
	GetByIDs(ctx context.Context, dealerID uuid.UUID, ids []uuid.UUID) ([]domain.Order, error)
}
