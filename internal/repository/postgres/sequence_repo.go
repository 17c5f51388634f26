package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"dealerops/internal/port"
)

type sequenceRepo struct {
	db     *sqlx.DB
	prefix string
}

// NewSequenceRepo creates a PostgreSQL-backed InvoiceNumberAllocator using a
// dealer-scoped counter row. The conditional upsert makes concurrent
// allocations hand out distinct numbers without an advisory lock.
func NewSequenceRepo(db *sqlx.DB, prefix string) port.InvoiceNumberAllocator {
	if prefix == "" {
		prefix = "INV"
	}
	return &sequenceRepo{db: db, prefix: prefix}
}

func (r *sequenceRepo) Next(ctx context.Context, dealerID uuid.UUID) (string, error) {
	var n int64
	err := r.db.GetContext(ctx, &n,
		`INSERT INTO invoice_counters (dealer_id, next)
		 VALUES ($1, 1)
		 ON CONFLICT (dealer_id)
		 DO UPDATE SET next = invoice_counters.next + 1
		 RETURNING next`,
		dealerID)
	if err != nil {
		return "", fmt.Errorf("sequenceRepo.Next: %w", err)
	}
	return fmt.Sprintf("%s-%04d", r.prefix, n), nil
}
