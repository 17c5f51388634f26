package billing

import (
	"dealerops/internal/domain"
)

// EligibilityParams narrow an order pool to the billable candidate set.
// An empty Departments set means no department restriction; Status
// "all" bypasses status filtering.
type EligibilityParams struct {
	Departments []domain.OrderType
	Status      string
	Window      DateWindow
}

// FilterEligible returns the orders whose billing date falls inside the
// window and which pass the status and department filters. An empty result
// is valid, not an error.
func FilterEligible(orders []domain.Order, p EligibilityParams) []domain.Order {
	var deptSet map[domain.OrderType]bool
	if len(p.Departments) > 0 {
		deptSet = make(map[domain.OrderType]bool, len(p.Departments))
		for _, d := range p.Departments {
			deptSet[d] = true
		}
	}

	eligible := make([]domain.Order, 0, len(orders))
	for i := range orders {
		o := &orders[i]
		if deptSet != nil && !deptSet[o.OrderType] {
			continue
		}
		if p.Status != "" && p.Status != domain.StatusFilterAll && string(o.Status) != p.Status {
			continue
		}
		if !p.Window.Contains(BillingDate(o)) {
			continue
		}
		eligible = append(eligible, *o)
	}
	return eligible
}

// ExcludeInvoiced removes orders already claimed by an active invoice.
// invoiced is the set of service_reference values on items of the dealer's
// active invoices, recomputed by the caller on every selection pass.
func ExcludeInvoiced(orders []domain.Order, invoiced map[string]bool) []domain.Order {
	if len(invoiced) == 0 {
		return orders
	}
	out := make([]domain.Order, 0, len(orders))
	for i := range orders {
		if invoiced[orders[i].ID.String()] {
			continue
		}
		out = append(out, orders[i])
	}
	return out
}
