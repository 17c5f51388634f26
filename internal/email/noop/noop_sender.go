package noop

import (
	"context"
	"log"

	"dealerops/internal/domain"
	"dealerops/internal/port"
)

type noopSender struct {
	consoleURL string
}

// NewNoopSender creates a no-op EmailSender that logs invoice notifications to stdout.
func NewNoopSender(consoleURL string) port.EmailSender {
	return &noopSender{consoleURL: consoleURL}
}

func (s *noopSender) SendInvoiceIssued(_ context.Context, toEmail, toName string, inv *domain.Invoice) error {
	log.Printf("[NOOP EMAIL] Invoice %s issued for %s (%s): %s/invoices/%s",
		inv.InvoiceNumber, toName, toEmail, s.consoleURL, inv.ID)
	return nil
}
