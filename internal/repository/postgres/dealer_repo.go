package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"dealerops/internal/domain"
	"dealerops/internal/port"
)

type dealerRepo struct {
	db *sqlx.DB
}

// NewDealerRepo creates a new PostgreSQL-backed DealerRepository.
func NewDealerRepo(db *sqlx.DB) port.DealerRepository {
	return &dealerRepo{db: db}
}

func (r *dealerRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Dealer, error) {
	var dealer domain.Dealer
	err := r.db.GetContext(ctx, &dealer, "SELECT * FROM dealers WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("dealerRepo.GetByID: %w", err)
	}
	return &dealer, nil
}

func (r *dealerRepo) GetBySlug(ctx context.Context, slug string) (*domain.Dealer, error) {
	var dealer domain.Dealer
	err := r.db.GetContext(ctx, &dealer, "SELECT * FROM dealers WHERE slug = $1", slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("dealerRepo.GetBySlug: %w", err)
	}
	return &dealer, nil
}
