package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"dealerops/internal/domain"
	"dealerops/internal/port"
)

type invoiceRepo struct {
	db *sqlx.DB
}

// NewInvoiceRepo creates a new PostgreSQL-backed InvoiceRepository.
func NewInvoiceRepo(db *sqlx.DB) port.InvoiceRepository {
	return &invoiceRepo{db: db}
}

func activeStatusStrings() []string {
	out := make([]string, len(domain.ActiveInvoiceStatuses))
	for i, s := range domain.ActiveInvoiceStatuses {
		out[i] = string(s)
	}
	return out
}

// CreateWithItems writes the header and its items in a single transaction.
// Before inserting items it re-checks that none of the referenced orders is
// already claimed by an active invoice; the preview filter runs outside any
// lock, so a concurrent batch can claim an order between read and submit.
func (r *invoiceRepo) CreateWithItems(ctx context.Context, inv *domain.Invoice, items []domain.InvoiceItem) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("invoiceRepo.CreateWithItems begin: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	inv.CreatedAt = now
	inv.UpdatedAt = now

	refs := make([]string, len(items))
	for i := range items {
		refs[i] = items[i].ServiceReference.String()
	}

	var claimed int
	err = tx.GetContext(ctx, &claimed,
		`SELECT COUNT(*)
		 FROM invoice_items ii
		 JOIN invoices i ON i.id = ii.invoice_id
		 WHERE ii.dealer_id = $1
		   AND i.status = ANY($2)
		   AND ii.service_reference = ANY($3)`,
		inv.DealerID, activeStatusStrings(), refs)
	if err != nil {
		return fmt.Errorf("invoiceRepo.CreateWithItems recheck: %w", err)
	}
	if claimed > 0 {
		return domain.ErrOrderAlreadyInvoiced
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO invoices (
			id, dealer_id, invoice_number, status, issue_date, due_date,
			subtotal, tax_rate, tax_amount, discount_amount, total_amount, amount_due,
			notes, metadata, created_by, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10, $11, $12,
			$13, $14, $15, $16, $17
		)`,
		inv.ID, inv.DealerID, inv.InvoiceNumber, inv.Status, inv.IssueDate, inv.DueDate,
		inv.Subtotal, inv.TaxRate, inv.TaxAmount, inv.DiscountAmount, inv.TotalAmount, inv.AmountDue,
		inv.Notes, inv.Metadata, inv.CreatedBy, inv.CreatedAt, inv.UpdatedAt)
	if err != nil {
		return fmt.Errorf("invoiceRepo.CreateWithItems header: %w", err)
	}

	for i := range items {
		item := &items[i]
		item.InvoiceID = inv.ID
		item.CreatedAt = now
		_, err = tx.ExecContext(ctx,
			`INSERT INTO invoice_items (
				id, invoice_id, dealer_id, service_reference,
				description, unit_price, sort_order, metadata, created_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			item.ID, item.InvoiceID, item.DealerID, item.ServiceReference,
			item.Description, item.UnitPrice, item.SortOrder, item.Metadata, item.CreatedAt)
		if err != nil {
			return fmt.Errorf("invoiceRepo.CreateWithItems item %d: %w", item.SortOrder, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("invoiceRepo.CreateWithItems commit: %w", err)
	}
	return nil
}

func (r *invoiceRepo) GetByID(ctx context.Context, dealerID, invoiceID uuid.UUID) (*domain.Invoice, error) {
	var inv domain.Invoice
	err := r.db.GetContext(ctx, &inv,
		"SELECT * FROM invoices WHERE id = $1 AND dealer_id = $2", invoiceID, dealerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("invoiceRepo.GetByID: %w", err)
	}
	return &inv, nil
}

func (r *invoiceRepo) ListItems(ctx context.Context, dealerID, invoiceID uuid.UUID) ([]domain.InvoiceItem, error) {
	var items []domain.InvoiceItem
	err := r.db.SelectContext(ctx, &items,
		`SELECT ii.* FROM invoice_items ii
		 JOIN invoices i ON i.id = ii.invoice_id
		 WHERE ii.invoice_id = $1 AND i.dealer_id = $2
		 ORDER BY ii.sort_order`,
		invoiceID, dealerID)
	if err != nil {
		return nil, fmt.Errorf("invoiceRepo.ListItems: %w", err)
	}
	return items, nil
}

func (r *invoiceRepo) ListByDealer(ctx context.Context, dealerID uuid.UUID, status string, offset, limit int) ([]domain.Invoice, int, error) {
	countQuery := "SELECT COUNT(*) FROM invoices WHERE dealer_id = $1"
	listQuery := "SELECT * FROM invoices WHERE dealer_id = $1"
	countArgs := []interface{}{dealerID}

	if status != "" && status != domain.StatusFilterAll {
		countQuery += " AND status = $2"
		listQuery += " AND status = $2"
		countArgs = append(countArgs, status)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, countArgs...); err != nil {
		return nil, 0, fmt.Errorf("invoiceRepo.ListByDealer count: %w", err)
	}

	listArgs := append([]interface{}{}, countArgs...)
	listQuery += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(listArgs)+1, len(listArgs)+2)
	listArgs = append(listArgs, limit, offset)

	var invoices []domain.Invoice
	if err := r.db.SelectContext(ctx, &invoices, listQuery, listArgs...); err != nil {
		return nil, 0, fmt.Errorf("invoiceRepo.ListByDealer: %w", err)
	}
	return invoices, total, nil
}

func (r *invoiceRepo) InvoicedOrderRefs(ctx context.Context, dealerID uuid.UUID) (map[string]bool, error) {
	var refs []string
	err := r.db.SelectContext(ctx, &refs,
		`SELECT ii.service_reference
		 FROM invoice_items ii
		 JOIN invoices i ON i.id = ii.invoice_id
		 WHERE ii.dealer_id = $1 AND i.status = ANY($2)`,
		dealerID, activeStatusStrings())
	if err != nil {
		return nil, fmt.Errorf("invoiceRepo.InvoicedOrderRefs: %w", err)
	}
	out := make(map[string]bool, len(refs))
	for _, ref := range refs {
		out[ref] = true
	}
	return out, nil
}
