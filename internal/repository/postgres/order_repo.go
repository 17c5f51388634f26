package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"dealerops/internal/domain"
	"dealerops/internal/port"
)

type orderRepo struct {
	db *sqlx.DB
}

// NewOrderRepo creates a new PostgreSQL-backed OrderRepository.
func NewOrderRepo(db *sqlx.DB) port.OrderRepository {
	return &orderRepo{db: db}
}

func (r *orderRepo) ListByDealer(ctx context.Context, dealerID uuid.UUID, types []domain.OrderType, status string) ([]domain.Order, error) {
	query := `SELECT * FROM orders WHERE dealer_id = $1`
	args := []interface{}{dealerID}

	if len(types) > 0 {
		typeStrings := make([]string, len(types))
		for i, t := range types {
			typeStrings[i] = string(t)
		}
		query += fmt.Sprintf(" AND order_type = ANY($%d)", len(args)+1)
		args = append(args, typeStrings)
	}
	if status != "" && status != domain.StatusFilterAll {
		query += fmt.Sprintf(" AND status = $%d", len(args)+1)
		args = append(args, status)
	}
	query += " ORDER BY created_at DESC"

	var orders []domain.Order
	if err := r.db.SelectContext(ctx, &orders, query, args...); err != nil {
		return nil, fmt.Errorf("orderRepo.ListByDealer: %w", err)
	}
	return orders, nil
}

func (r *orderRepo) GetByIDs(ctx context.Context, dealerID uuid.UUID, ids []uuid.UUID) ([]domain.Order, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	idStrings := make([]string, len(ids))
	for i, id := range ids {
		idStrings[i] = id.String()
	}

	var orders []domain.Order
	err := r.db.SelectContext(ctx, &orders,
		`SELECT * FROM orders WHERE dealer_id = $1 AND id = ANY($2)`,
		dealerID, idStrings)
	if err != nil {
		return nil, fmt.Errorf("orderRepo.GetByIDs: %w", err)
	}

	// Re-order to match the caller's selection order; a missing id is an error.
	byID := make(map[uuid.UUID]*domain.Order, len(orders))
	for i := range orders {
		byID[orders[i].ID] = &orders[i]
	}
	out := make([]domain.Order, 0, len(ids))
	for _, id := range ids {
		o, ok := byID[id]
		if !ok {
			return nil, domain.ErrOrderNotFound
		}
		out = append(out, *o)
	}
	return out, nil
}
