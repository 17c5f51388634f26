package port

import (
	"context"

	"github.com/google/uuid"

	"dealerops/internal/domain"
)

// DealerRepository defines the contract for dealer persistence.
type DealerRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Dealer, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Dealer, error)
}

// UserRepository defines the contract for user persistence.
// All query methods include dealerID to enforce tenant isolation at the data layer.
type UserRepository interface {
	GetByID(ctx context.Context, dealerID, userID uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, dealerID uuid.UUID, email string) (*domain.User, error)
}
