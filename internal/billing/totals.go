package billing

import (
	"dealerops/internal/domain"
)

// Totals holds the frozen financial summary of a batch.
type Totals struct {
	Subtotal  float64 `json:"subtotal"`
	TaxAmount float64 `json:"tax_amount"`
	Total     float64 `json:"total"`
}

// Aggregate sums the selected orders into subtotal, tax, and total.
// Zero-value amounts contribute nothing; a discount larger than
// subtotal + tax yields a negative total, which is accepted (discount
// bounds are operator policy, not an engine rule). Stored values carry
// full precision; currency rounding happens at presentation time.
func Aggregate(orders []domain.Order, taxRatePercent, discountAmount float64) Totals {
	var subtotal float64
	for i := range orders {
		subtotal += orders[i].TotalAmount
	}
	tax := subtotal * taxRatePercent / 100
	return Totals{
		Subtotal:  subtotal,
		TaxAmount: tax,
		Total:     subtotal + tax - discountAmount,
	}
}
