package port

import (
	"context"

	"dealerops/internal/domain"
)

// EmailSender defines the contract for sending operational emails.
type EmailSender interface {
	SendInvoiceIssued(ctx context.Context, toEmail, toName string, inv *domain.Invoice) error
}
