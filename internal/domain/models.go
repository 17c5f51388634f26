package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Dealer represents an isolated dealership tenant.
type Dealer struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Slug      string    `db:"slug" json:"slug"`
	IsActive  bool      `db:"is_active" json:"is_active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// User represents an authenticated console user belonging to a dealer.
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	DealerID     uuid.UUID `db:"dealer_id" json:"dealer_id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	FullName     string    `db:"full_name" json:"full_name"`
	Role         UserRole  `db:"role" json:"role"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Order is a unit of dealership work (sale, service job, recon, car wash).
// Orders are created and updated by an external system; the billing engine
// only ever reads them.
type Order struct {
	ID           uuid.UUID        `db:"id" json:"id"`
	DealerID     uuid.UUID        `db:"dealer_id" json:"dealer_id"`
	OrderType    OrderType        `db:"order_type" json:"order_type"`
	Status       OrderStatus      `db:"status" json:"status"`
	CustomerName string           `db:"customer_name" json:"customer_name"`
	VIN          string           `db:"vin" json:"vin"`
	StockNumber  string           `db:"stock_number" json:"stock_number"`
	Tag          string           `db:"tag" json:"tag"`
	PONumber     string           `db:"po_number" json:"po_number"`
	RONumber     string           `db:"ro_number" json:"ro_number"`
	Services     ServiceEntryList `db:"services" json:"services"`
	TotalAmount  float64          `db:"total_amount" json:"total_amount"`
	CreatedAt    time.Time        `db:"created_at" json:"created_at"`
	CompletedAt  *time.Time       `db:"completed_at" json:"completed_at"`
	DueDate      *time.Time       `db:"due_date" json:"due_date"`
}

// VehicleSummary builds the one-line description used on invoice items.
func (o *Order) VehicleSummary() string {
	parts := make([]string, 0, 3)
	if o.CustomerName != "" {
		parts = append(parts, o.CustomerName)
	}
	if o.VIN != "" {
		parts = append(parts, "VIN "+o.VIN)
	} else if o.StockNumber != "" {
		parts = append(parts, "Stock "+o.StockNumber)
	} else if o.Tag != "" {
		parts = append(parts, "Tag "+o.Tag)
	}
	parts = append(parts, string(o.OrderType))
	return joinNonEmpty(parts, " - ")
}

func joinNonEmpty(parts []string, sep string) string {
	out := ""
	for _, p := range parts {
		if p == "" {
			continue
		}
		if out != "" {
			out += sep
		}
		out += p
	}
	return out
}

// CatalogService is one active entry of a dealer's service catalog,
// used for id-to-name resolution of legacy service entries.
type CatalogService struct {
	ID       string    `db:"id" json:"id"`
	DealerID uuid.UUID `db:"dealer_id" json:"dealer_id"`
	Name     string    `db:"name" json:"name"`
	IsActive bool      `db:"is_active" json:"is_active"`
}

// Invoice is a billing document aggregating one or more orders for a dealer.
// All monetary fields are computed once at creation and never recomputed.
type Invoice struct {
	ID             uuid.UUID       `db:"id" json:"id"`
	DealerID       uuid.UUID       `db:"dealer_id" json:"dealer_id"`
	InvoiceNumber  string          `db:"invoice_number" json:"invoice_number"`
	Status         InvoiceStatus   `db:"status" json:"status"`
	IssueDate      time.Time       `db:"issue_date" json:"issue_date"`
	DueDate        time.Time       `db:"due_date" json:"due_date"`
	Subtotal       float64         `db:"subtotal" json:"subtotal"`
	TaxRate        float64         `db:"tax_rate" json:"tax_rate"`
	TaxAmount      float64         `db:"tax_amount" json:"tax_amount"`
	DiscountAmount float64         `db:"discount_amount" json:"discount_amount"`
	TotalAmount    float64         `db:"total_amount" json:"total_amount"`
	AmountDue      float64         `db:"amount_due" json:"amount_due"`
	Notes          string          `db:"notes" json:"notes"`
	Metadata       json.RawMessage `db:"metadata" json:"metadata"`
	CreatedBy      uuid.UUID       `db:"created_by" json:"created_by"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at" json:"updated_at"`
}

// InvoiceMetadata is the durable record of why a batch of orders was grouped.
type InvoiceMetadata struct {
	WindowPreset string      `json:"window_preset,omitempty"`
	WindowStart  string      `json:"window_start,omitempty"`
	WindowEnd    string      `json:"window_end,omitempty"`
	Departments  []OrderType `json:"departments,omitempty"`
	VehicleCount int         `json:"vehicle_count"`
}

// InvoiceItem is one line of an invoice, referencing exactly one order.
type InvoiceItem struct {
	ID               uuid.UUID       `db:"id" json:"id"`
	InvoiceID        uuid.UUID       `db:"invoice_id" json:"invoice_id"`
	DealerID         uuid.UUID       `db:"dealer_id" json:"dealer_id"`
	ServiceReference uuid.UUID       `db:"service_reference" json:"service_reference"`
	Description      string          `db:"description" json:"description"`
	UnitPrice        float64         `db:"unit_price" json:"unit_price"`
	SortOrder        int             `db:"sort_order" json:"sort_order"`
	Metadata         json.RawMessage `db:"metadata" json:"metadata"`
	CreatedAt        time.Time       `db:"created_at" json:"created_at"`
}

// InvoiceItemMetadata carries the order identity snapshot taken at billing time.
type InvoiceItemMetadata struct {
	OrderType    OrderType  `json:"order_type"`
	CustomerName string     `json:"customer_name,omitempty"`
	VIN          string     `json:"vin,omitempty"`
	StockNumber  string     `json:"stock_number,omitempty"`
	Tag          string     `json:"tag,omitempty"`
	PONumber     string     `json:"po_number,omitempty"`
	RONumber     string     `json:"ro_number,omitempty"`
	Services     []string   `json:"services"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}
