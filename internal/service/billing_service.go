package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"dealerops/internal/billing"
	"dealerops/internal/domain"
	"dealerops/internal/port"
)

// ListBillableInput is the DTO for billable-order preview requests.
type ListBillableInput struct {
	DealerID    uuid.UUID
	Departments []domain.OrderType
	Status      string
	Preset      billing.WindowPreset
	Start       *time.Time // custom window only
	End         *time.Time
	Now         time.Time // clock for preset resolution; zero means time.Now()
}

// BillableOrder is one candidate in the preview: the order, the billing date
// it was selected on, and its duplicate annotation.
type BillableOrder struct {
	domain.Order
	BillingDate time.Time              `json:"billing_date"`
	Duplicate   billing.DuplicateFlags `json:"duplicate"`
}

// BillablePreview is the result of one selection pass.
type BillablePreview struct {
	Orders []BillableOrder    `json:"orders"`
	Window billing.DateWindow `json:"window"`
}

// CreateInvoiceInput is the DTO for batch invoice creation. OrderIDs carry
// the operator's selection order, which becomes item sort order.
type CreateInvoiceInput struct {
	DealerID       uuid.UUID
	CreatedBy      uuid.UUID
	OrderIDs       []uuid.UUID
	IssueDate      time.Time
	DueDate        time.Time
	TaxRate        float64
	DiscountAmount float64
	Notes          string

	// Batch provenance recorded in invoice metadata.
	WindowPreset billing.WindowPreset
	Window       billing.DateWindow
	Departments  []domain.OrderType
}

// BillingService runs the invoice batch construction engine: billable-order
// selection and batch invoice creation.
type BillingService interface {
	ListBillable(ctx context.Context, input *ListBillableInput) (*BillablePreview, error)
	CreateInvoice(ctx context.Context, input *CreateInvoiceInput) (*domain.Invoice, error)
}

type billingService struct {
	orderRepo   port.OrderRepository
	invoiceRepo port.InvoiceRepository
	numbers     port.InvoiceNumberAllocator
	catalog     port.ServiceCatalog
	userRepo    port.UserRepository
	email       port.EmailSender
}

// NewBillingService creates a new BillingService implementation.
func NewBillingService(
	orderRepo port.OrderRepository,
	invoiceRepo port.InvoiceRepository,
	numbers port.InvoiceNumberAllocator,
	catalog port.ServiceCatalog,
	userRepo port.UserRepository,
	email port.EmailSender,
) BillingService {
	return &billingService{
		orderRepo:   orderRepo,
		invoiceRepo: invoiceRepo,
		numbers:     numbers,
		catalog:     catalog,
		userRepo:    userRepo,
		email:       email,
	}
}

// resolveWindow picks the preset or custom window for the request.
func resolveWindow(preset billing.WindowPreset, start, end *time.Time, now time.Time) (billing.DateWindow, error) {
	if preset == billing.PresetCustom || preset == "" {
		if start == nil || end == nil {
			return billing.DateWindow{}, domain.ErrInvalidWindow
		}
		return billing.NewWindow(*start, *end)
	}
	return billing.ResolveWindow(preset, now)
}

func (s *billingService) ListBillable(ctx context.Context, input *ListBillableInput) (*BillablePreview, error) {
	if input.DealerID == uuid.Nil {
		return nil, domain.ErrDealerRequired
	}

	now := input.Now
	if now.IsZero() {
		now = time.Now()
	}
	window, err := resolveWindow(input.Preset, input.Start, input.End, now)
	if err != nil {
		return nil, err
	}

	orders, err := s.orderRepo.ListByDealer(ctx, input.DealerID, input.Departments, input.Status)
	if err != nil {
		return nil, fmt.Errorf("loading orders: %w", err)
	}

	eligible := billing.FilterEligible(orders, billing.EligibilityParams{
		Departments: input.Departments,
		Status:      input.Status,
		Window:      window,
	})

	// The exclusion set is recomputed every call; staleness here means
	// double billing.
	invoiced, err := s.invoiceRepo.InvoicedOrderRefs(ctx, input.DealerID)
	if err != nil {
		return nil, fmt.Errorf("loading invoiced order refs: %w", err)
	}
	candidates := billing.ExcludeInvoiced(eligible, invoiced)

	flags := billing.DetectDuplicates(candidates)

	out := make([]BillableOrder, 0, len(candidates))
	for i := range candidates {
		o := candidates[i]
		out = append(out, BillableOrder{
			Order:       o,
			BillingDate: billing.BillingDate(&o),
			Duplicate:   flags[o.ID],
		})
	}
	return &BillablePreview{Orders: out, Window: window}, nil
}

func (s *billingService) CreateInvoice(ctx context.Context, input *CreateInvoiceInput) (*domain.Invoice, error) {
	if input.DealerID == uuid.Nil {
		return nil, domain.ErrDealerRequired
	}
	if len(input.OrderIDs) == 0 {
		return nil, domain.ErrNoOrdersSelected
	}
	if input.DueDate.Before(input.IssueDate) {
		return nil, domain.ErrDueBeforeIssue
	}

	// A repeated id would bill the same order twice within one invoice;
	// first occurrence wins, selection order is preserved.
	seen := make(map[uuid.UUID]bool, len(input.OrderIDs))
	orderIDs := make([]uuid.UUID, 0, len(input.OrderIDs))
	for _, id := range input.OrderIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		orderIDs = append(orderIDs, id)
	}

	orders, err := s.orderRepo.GetByIDs(ctx, input.DealerID, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("loading selected orders: %w", err)
	}

	// Pre-transaction guard; the repository re-checks inside the insert
	// transaction, but failing here avoids burning an invoice number.
	invoiced, err := s.invoiceRepo.InvoicedOrderRefs(ctx, input.DealerID)
	if err != nil {
		return nil, fmt.Errorf("loading invoiced order refs: %w", err)
	}
	for i := range orders {
		if invoiced[orders[i].ID.String()] {
			return nil, domain.ErrOrderAlreadyInvoiced
		}
	}

	totals := billing.Aggregate(orders, input.TaxRate, input.DiscountAmount)

	// Allocation is never retried: a successful-but-unacknowledged call
	// would skip or duplicate numbers.
	number, err := s.numbers.Next(ctx, input.DealerID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvoiceNumberUnavailable, err)
	}

	catalog, err := s.catalog.ActiveNames(ctx, input.DealerID)
	if err != nil {
		// Unresolvable catalog degrades to raw tokens, never fails the batch.
		log.Printf("billingService.CreateInvoice: service catalog unavailable for dealer %s: %v", input.DealerID, err)
		catalog = map[string]string{}
	}

	meta := domain.InvoiceMetadata{
		WindowPreset: string(input.WindowPreset),
		Departments:  input.Departments,
		VehicleCount: len(orders),
	}
	if !input.Window.Start.IsZero() {
		meta.WindowStart = input.Window.Start.Format("2006-01-02")
	}
	if !input.Window.End.IsZero() {
		meta.WindowEnd = input.Window.End.Format("2006-01-02")
	}
	metadata, _ := json.Marshal(meta)

	inv := &domain.Invoice{
		ID:             uuid.New(),
		DealerID:       input.DealerID,
		InvoiceNumber:  number,
		Status:         domain.InvoiceStatusPending,
		IssueDate:      input.IssueDate,
		DueDate:        input.DueDate,
		Subtotal:       totals.Subtotal,
		TaxRate:        input.TaxRate,
		TaxAmount:      totals.TaxAmount,
		DiscountAmount: input.DiscountAmount,
		TotalAmount:    totals.Total,
		AmountDue:      totals.Total,
		Notes:          input.Notes,
		Metadata:       metadata,
		CreatedBy:      input.CreatedBy,
	}

	items := make([]domain.InvoiceItem, 0, len(orders))
	for i := range orders {
		o := &orders[i]
		names := make([]string, 0, len(o.Services))
		for _, entry := range o.Services {
			names = append(names, entry.ResolveName(catalog))
		}
		itemMeta, _ := json.Marshal(domain.InvoiceItemMetadata{
			OrderType:    o.OrderType,
			CustomerName: o.CustomerName,
			VIN:          o.VIN,
			StockNumber:  o.StockNumber,
			Tag:          o.Tag,
			PONumber:     o.PONumber,
			RONumber:     o.RONumber,
			Services:     names,
			CompletedAt:  o.CompletedAt,
		})
		items = append(items, domain.InvoiceItem{
			ID:               uuid.New(),
			DealerID:         input.DealerID,
			ServiceReference: o.ID,
			Description:      o.VehicleSummary(),
			UnitPrice:        o.TotalAmount,
			SortOrder:        i,
			Metadata:         itemMeta,
		})
	}

	if err := s.invoiceRepo.CreateWithItems(ctx, inv, items); err != nil {
		return nil, fmt.Errorf("persisting invoice %s: %w", number, err)
	}

	log.Printf("billingService.CreateInvoice: created invoice %s (%s) with %d items for dealer %s",
		inv.ID, number, len(items), input.DealerID)

	s.notifyIssued(ctx, inv, input.CreatedBy)

	return inv, nil
}

// notifyIssued emails the creating user about the new invoice. Failures are
// logged but never block invoice creation.
func (s *billingService) notifyIssued(ctx context.Context, inv *domain.Invoice, userID uuid.UUID) {
	if s.email == nil || s.userRepo == nil {
		return
	}
	user, err := s.userRepo.GetByID(ctx, inv.DealerID, userID)
	if err != nil {
		log.Printf("billingService.notifyIssued: lookup user %s: %v", userID, err)
		return
	}
	if err := s.email.SendInvoiceIssued(ctx, user.Email, user.FullName, inv); err != nil {
		log.Printf("billingService.notifyIssued: send for invoice %s: %v", inv.InvoiceNumber, err)
	}
}
