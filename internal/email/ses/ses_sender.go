package ses

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"dealerops/internal/domain"
	"dealerops/internal/port"
)

type sesSender struct {
	client      *sesv2.Client
	fromAddress string
	fromName    string
	consoleURL  string
}

// NewSESSender creates a new SES-backed EmailSender.
func NewSESSender(region, fromAddress, fromName, consoleURL string) (port.EmailSender, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for SES: %w", err)
	}
	client := sesv2.NewFromConfig(cfg)
	return &sesSender{
		client:      client,
		fromAddress: fromAddress,
		fromName:    fromName,
		consoleURL:  consoleURL,
	}, nil
}

func (s *sesSender) SendInvoiceIssued(ctx context.Context, toEmail, toName string, inv *domain.Invoice) error {
	invoiceURL := fmt.Sprintf("%s/invoices/%s", s.consoleURL, inv.ID)

	subject := fmt.Sprintf("Invoice %s issued", inv.InvoiceNumber)
	htmlBody := buildInvoiceIssuedHTML(toName, inv, invoiceURL)
	textBody := fmt.Sprintf(
		"Hi %s,\n\nInvoice %s has been issued.\n\nTotal: $%.2f\nDue date: %s\n\nView it here:\n%s\n\nDealerOps Billing",
		toName, inv.InvoiceNumber, inv.TotalAmount, inv.DueDate.Format("Jan 2, 2006"), invoiceURL,
	)

	from := fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress)

	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: &from,
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: &subject},
				Body: &types.Body{
					Html: &types.Content{Data: &htmlBody},
					Text: &types.Content{Data: &textBody},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("SES SendEmail: %w", err)
	}
	return nil
}

func buildInvoiceIssuedHTML(name string, inv *domain.Invoice, invoiceURL string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #333;">Invoice %s issued</h2>
  <p>Hi %s,</p>
  <p>A new invoice has been issued for your dealership.</p>
  <table style="width: 100%%; border-collapse: collapse; margin: 20px 0;">
    <tr><td style="padding: 6px 0; color: #666;">Invoice number</td><td style="padding: 6px 0; text-align: right;">%s</td></tr>
    <tr><td style="padding: 6px 0; color: #666;">Total</td><td style="padding: 6px 0; text-align: right;">$%.2f</td></tr>
    <tr><td style="padding: 6px 0; color: #666;">Due date</td><td style="padding: 6px 0; text-align: right;">%s</td></tr>
  </table>
  <p style="text-align: center; margin: 30px 0;">
    <a href="%s" style="background-color: #4F46E5; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; display: inline-block;">View Invoice</a>
  </p>
  <p>Or copy and paste this link into your browser:</p>
  <p style="word-break: break-all; color: #666;">%s</p>
  <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
  <p style="color: #999; font-size: 12px;">DealerOps - Dealership Operations Console</p>
</body>
</html>`, inv.InvoiceNumber, name, inv.InvoiceNumber, inv.TotalAmount, inv.DueDate.Format("Jan 2, 2006"), invoiceURL, invoiceURL)
}
