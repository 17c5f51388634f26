package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"dealerops/internal/billing"
	"dealerops/internal/domain"
	"dealerops/internal/service"
	"dealerops/mocks"
)

func newBillingFixture() (*mocks.MockOrderRepo, *mocks.MockInvoiceRepo, *mocks.MockInvoiceNumberAllocator, *mocks.MockServiceCatalog, *mocks.MockUserRepo, *mocks.MockEmailSender, service.BillingService) {
	orderRepo := new(mocks.MockOrderRepo)
	invoiceRepo := new(mocks.MockInvoiceRepo)
	numbers := new(mocks.MockInvoiceNumberAllocator)
	catalog := new(mocks.MockServiceCatalog)
	userRepo := new(mocks.MockUserRepo)
	email := new(mocks.MockEmailSender)
	svc := service.NewBillingService(orderRepo, invoiceRepo, numbers, catalog, userRepo, email)
	return orderRepo, invoiceRepo, numbers, catalog, userRepo, email, svc
}

func at(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 12, 0, 0, 0, time.Local)
}

func TestListBillable_ExcludesInvoicedAndFlagsDuplicates(t *testing.T) {
	orderRepo, invoiceRepo, _, _, _, _, svc := newBillingFixture()
	dealerID := uuid.New()

	dupA := domain.Order{ID: uuid.New(), DealerID: dealerID, OrderType: domain.OrderTypeCarwash, Status: domain.OrderStatusCompleted, VIN: "1HGCM82633A004352", Services: domain.ServiceEntryList{{Name: "Wash"}}, CreatedAt: at(2026, 3, 10)}
	dupB := domain.Order{ID: uuid.New(), DealerID: dealerID, OrderType: domain.OrderTypeCarwash, Status: domain.OrderStatusCompleted, VIN: "1HGCM82633A004352", Services: domain.ServiceEntryList{{Name: "wash"}}, CreatedAt: at(2026, 3, 11)}
	claimed := domain.Order{ID: uuid.New(), DealerID: dealerID, OrderType: domain.OrderTypeCarwash, Status: domain.OrderStatusCompleted, CreatedAt: at(2026, 3, 12)}

	orderRepo.On("ListByDealer", mock.Anything, dealerID, mock.Anything, "completed").
		Return([]domain.Order{dupA, dupB, claimed}, nil)
	invoiceRepo.On("InvoicedOrderRefs", mock.Anything, dealerID).
		Return(map[string]bool{claimed.ID.String(): true}, nil)

	preview, err := svc.ListBillable(context.Background(), &service.ListBillableInput{
		DealerID: dealerID,
		Status:   "completed",
		Preset:   billing.PresetThisMonth,
		Now:      at(2026, 3, 18),
	})
	require.NoError(t, err)

	require.Len(t, preview.Orders, 2)
	for _, o := range preview.Orders {
		assert.NotEqual(t, claimed.ID, o.ID)
		assert.True(t, o.Duplicate.HasVinDuplicate)
		assert.Equal(t, 2, o.Duplicate.VinCount)
	}
}

func TestListBillable_MissingDealer(t *testing.T) {
	_, _, _, _, _, _, svc := newBillingFixture()
	_, err := svc.ListBillable(context.Background(), &service.ListBillableInput{})
	assert.ErrorIs(t, err, domain.ErrDealerRequired)
}

func TestListBillable_CustomWindowNeedsBothBounds(t *testing.T) {
	_, _, _, _, _, _, svc := newBillingFixture()
	start := at(2026, 3, 1)
	_, err := svc.ListBillable(context.Background(), &service.ListBillableInput{
		DealerID: uuid.New(),
		Preset:   billing.PresetCustom,
		Start:    &start,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidWindow)
}

func TestCreateInvoice_HappyPath(t *testing.T) {
	orderRepo, invoiceRepo, numbers, catalog, userRepo, email, svc := newBillingFixture()
	dealerID := uuid.New()
	userID := uuid.New()

	first := domain.Order{ID: uuid.New(), DealerID: dealerID, OrderType: domain.OrderTypeService, CustomerName: "Jordan Blake", VIN: "VIN1", Services: domain.ServiceEntryList{{ID: "42"}}, TotalAmount: 100}
	second := domain.Order{ID: uuid.New(), DealerID: dealerID, OrderType: domain.OrderTypeRecon, CustomerName: "Acme Fleet", StockNumber: "S7", Services: domain.ServiceEntryList{{Name: "Buff"}}, TotalAmount: 200}
	third := domain.Order{ID: uuid.New(), DealerID: dealerID, OrderType: domain.OrderTypeCarwash, TotalAmount: 50}

	ids := []uuid.UUID{first.ID, second.ID, third.ID}
	orderRepo.On("GetByIDs", mock.Anything, dealerID, ids).Return([]domain.Order{first, second, third}, nil)
	invoiceRepo.On("InvoicedOrderRefs", mock.Anything, dealerID).Return(map[string]bool{}, nil)
	numbers.On("Next", mock.Anything, dealerID).Return("INV-0007", nil)
	catalog.On("ActiveNames", mock.Anything, dealerID).Return(map[string]string{"42": "Full Detail"}, nil)

	var captured *domain.Invoice
	var capturedItems []domain.InvoiceItem
	invoiceRepo.On("CreateWithItems", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(*domain.Invoice)
			capturedItems = args.Get(2).([]domain.InvoiceItem)
		}).
		Return(nil)

	userRepo.On("GetByID", mock.Anything, dealerID, userID).
		Return(&domain.User{ID: userID, Email: "ops@dealer.test", FullName: "Ops"}, nil)
	email.On("SendInvoiceIssued", mock.Anything, "ops@dealer.test", "Ops", mock.Anything).Return(nil)

	win, err := billing.NewWindow(at(2026, 3, 1), at(2026, 3, 31))
	require.NoError(t, err)

	inv, err := svc.CreateInvoice(context.Background(), &service.CreateInvoiceInput{
		DealerID:       dealerID,
		CreatedBy:      userID,
		OrderIDs:       ids,
		IssueDate:      at(2026, 4, 1),
		DueDate:        at(2026, 4, 30),
		TaxRate:        8,
		DiscountAmount: 0,
		WindowPreset:   billing.PresetThisMonth,
		Window:         win,
		Departments:    []domain.OrderType{domain.OrderTypeService, domain.OrderTypeRecon, domain.OrderTypeCarwash},
	})
	require.NoError(t, err)
	require.NotNil(t, captured)

	assert.Equal(t, "INV-0007", inv.InvoiceNumber)
	assert.Equal(t, domain.InvoiceStatusPending, inv.Status)
	assert.InDelta(t, 350.0, inv.Subtotal, 1e-9)
	assert.InDelta(t, 28.0, inv.TaxAmount, 1e-9)
	assert.InDelta(t, 378.0, inv.TotalAmount, 1e-9)
	assert.InDelta(t, 378.0, inv.AmountDue, 1e-9)

	var meta domain.InvoiceMetadata
	require.NoError(t, json.Unmarshal(inv.Metadata, &meta))
	assert.Equal(t, "this_month", meta.WindowPreset)
	assert.Equal(t, 3, meta.VehicleCount)

	require.Len(t, capturedItems, 3)
	// items keep the selection order
	assert.Equal(t, first.ID, capturedItems[0].ServiceReference)
	assert.Equal(t, 0, capturedItems[0].SortOrder)
	assert.Equal(t, second.ID, capturedItems[1].ServiceReference)
	assert.Equal(t, 1, capturedItems[1].SortOrder)
	assert.Equal(t, 2, capturedItems[2].SortOrder)

	var itemMeta domain.InvoiceItemMetadata
	require.NoError(t, json.Unmarshal(capturedItems[0].Metadata, &itemMeta))
	// legacy id resolved through the catalog
	assert.Equal(t, []string{"Full Detail"}, itemMeta.Services)

	email.AssertExpectations(t)
}

func TestCreateInvoice_RepeatedSelectionBilledOnce(t *testing.T) {
	orderRepo, invoiceRepo, numbers, catalog, userRepo, _, svc := newBillingFixture()
	dealerID := uuid.New()
	userID := uuid.New()

	order := domain.Order{ID: uuid.New(), DealerID: dealerID, OrderType: domain.OrderTypeService, CustomerName: "Jordan Blake", VIN: "VIN1", TotalAmount: 100}

	// the repeated id collapses before the load; only one id reaches the repo
	orderRepo.On("GetByIDs", mock.Anything, dealerID, []uuid.UUID{order.ID}).Return([]domain.Order{order}, nil)
	invoiceRepo.On("InvoicedOrderRefs", mock.Anything, dealerID).Return(map[string]bool{}, nil)
	numbers.On("Next", mock.Anything, dealerID).Return("INV-0008", nil)
	catalog.On("ActiveNames", mock.Anything, dealerID).Return(map[string]string{}, nil)
	userRepo.On("GetByID", mock.Anything, dealerID, userID).Return(nil, domain.ErrNotFound)

	var captured *domain.Invoice
	var capturedItems []domain.InvoiceItem
	invoiceRepo.On("CreateWithItems", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(*domain.Invoice)
			capturedItems = args.Get(2).([]domain.InvoiceItem)
		}).
		Return(nil)

	_, err := svc.CreateInvoice(context.Background(), &service.CreateInvoiceInput{
		DealerID:  dealerID,
		CreatedBy: userID,
		OrderIDs:  []uuid.UUID{order.ID, order.ID},
		IssueDate: at(2026, 4, 1),
		DueDate:   at(2026, 4, 30),
	})
	require.NoError(t, err)
	require.NotNil(t, captured)

	assert.InDelta(t, 100.0, captured.Subtotal, 1e-9)
	require.Len(t, capturedItems, 1)
	assert.Equal(t, order.ID, capturedItems[0].ServiceReference)
	orderRepo.AssertExpectations(t)
}

func TestCreateInvoice_AbsentWindowProvenanceStaysAbsent(t *testing.T) {
	orderRepo, invoiceRepo, numbers, catalog, userRepo, _, svc := newBillingFixture()
	dealerID := uuid.New()
	userID := uuid.New()

	order := domain.Order{ID: uuid.New(), DealerID: dealerID, OrderType: domain.OrderTypeSales, TotalAmount: 100}
	orderRepo.On("GetByIDs", mock.Anything, dealerID, []uuid.UUID{order.ID}).Return([]domain.Order{order}, nil)
	invoiceRepo.On("InvoicedOrderRefs", mock.Anything, dealerID).Return(map[string]bool{}, nil)
	numbers.On("Next", mock.Anything, dealerID).Return("INV-0009", nil)
	catalog.On("ActiveNames", mock.Anything, dealerID).Return(map[string]string{}, nil)
	userRepo.On("GetByID", mock.Anything, dealerID, userID).Return(nil, domain.ErrNotFound)

	var captured *domain.Invoice
	invoiceRepo.On("CreateWithItems", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(*domain.Invoice)
		}).
		Return(nil)

	_, err := svc.CreateInvoice(context.Background(), &service.CreateInvoiceInput{
		DealerID:  dealerID,
		CreatedBy: userID,
		OrderIDs:  []uuid.UUID{order.ID},
		IssueDate: at(2026, 4, 1),
		DueDate:   at(2026, 4, 30),
	})
	require.NoError(t, err)
	require.NotNil(t, captured)

	var meta map[string]interface{}
	require.NoError(t, json.Unmarshal(captured.Metadata, &meta))
	assert.NotContains(t, meta, "window_start")
	assert.NotContains(t, meta, "window_end")
}

func TestCreateInvoice_NoOrdersSelected(t *testing.T) {
	_, _, _, _, _, _, svc := newBillingFixture()
	_, err := svc.CreateInvoice(context.Background(), &service.CreateInvoiceInput{
		DealerID:  uuid.New(),
		IssueDate: at(2026, 4, 1),
		DueDate:   at(2026, 4, 30),
	})
	assert.ErrorIs(t, err, domain.ErrNoOrdersSelected)
}

func TestCreateInvoice_DueBeforeIssue(t *testing.T) {
	_, _, _, _, _, _, svc := newBillingFixture()
	_, err := svc.CreateInvoice(context.Background(), &service.CreateInvoiceInput{
		DealerID:  uuid.New(),
		OrderIDs:  []uuid.UUID{uuid.New()},
		IssueDate: at(2026, 4, 30),
		DueDate:   at(2026, 4, 1),
	})
	assert.ErrorIs(t, err, domain.ErrDueBeforeIssue)
}

func TestCreateInvoice_AlreadyInvoiced(t *testing.T) {
	orderRepo, invoiceRepo, numbers, _, _, _, svc := newBillingFixture()
	dealerID := uuid.New()
	o := domain.Order{ID: uuid.New(), DealerID: dealerID, TotalAmount: 10}

	orderRepo.On("GetByIDs", mock.Anything, dealerID, []uuid.UUID{o.ID}).Return([]domain.Order{o}, nil)
	invoiceRepo.On("InvoicedOrderRefs", mock.Anything, dealerID).Return(map[string]bool{o.ID.String(): true}, nil)

	_, err := svc.CreateInvoice(context.Background(), &service.CreateInvoiceInput{
		DealerID:  dealerID,
		OrderIDs:  []uuid.UUID{o.ID},
		IssueDate: at(2026, 4, 1),
		DueDate:   at(2026, 4, 30),
	})
	assert.ErrorIs(t, err, domain.ErrOrderAlreadyInvoiced)

	// the guard fires before a number is burned
	numbers.AssertNotCalled(t, "Next", mock.Anything, mock.Anything)
}

func TestCreateInvoice_MissingOrder(t *testing.T) {
	orderRepo, _, _, _, _, _, svc := newBillingFixture()
	dealerID := uuid.New()
	id := uuid.New()

	orderRepo.On("GetByIDs", mock.Anything, dealerID, []uuid.UUID{id}).Return(nil, domain.ErrOrderNotFound)

	_, err := svc.CreateInvoice(context.Background(), &service.CreateInvoiceInput{
		DealerID:  dealerID,
		OrderIDs:  []uuid.UUID{id},
		IssueDate: at(2026, 4, 1),
		DueDate:   at(2026, 4, 30),
	})
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestCreateInvoice_NumberAllocationFails(t *testing.T) {
	orderRepo, invoiceRepo, numbers, _, _, _, svc := newBillingFixture()
	dealerID := uuid.New()
	o := domain.Order{ID: uuid.New(), DealerID: dealerID, TotalAmount: 10}

	orderRepo.On("GetByIDs", mock.Anything, dealerID, []uuid.UUID{o.ID}).Return([]domain.Order{o}, nil)
	invoiceRepo.On("InvoicedOrderRefs", mock.Anything, dealerID).Return(map[string]bool{}, nil)
	numbers.On("Next", mock.Anything, dealerID).Return("", errors.New("connection reset"))

	_, err := svc.CreateInvoice(context.Background(), &service.CreateInvoiceInput{
		DealerID:  dealerID,
		OrderIDs:  []uuid.UUID{o.ID},
		IssueDate: at(2026, 4, 1),
		DueDate:   at(2026, 4, 30),
	})
	assert.ErrorIs(t, err, domain.ErrInvoiceNumberUnavailable)
	invoiceRepo.AssertNotCalled(t, "CreateWithItems", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateInvoice_CatalogFailureDegradesToTokens(t *testing.T) {
	orderRepo, invoiceRepo, numbers, catalog, userRepo, email, svc := newBillingFixture()
	dealerID := uuid.New()
	userID := uuid.New()
	o := domain.Order{ID: uuid.New(), DealerID: dealerID, Services: domain.ServiceEntryList{{ID: "42"}}, TotalAmount: 10}

	orderRepo.On("GetByIDs", mock.Anything, dealerID, []uuid.UUID{o.ID}).Return([]domain.Order{o}, nil)
	invoiceRepo.On("InvoicedOrderRefs", mock.Anything, dealerID).Return(map[string]bool{}, nil)
	numbers.On("Next", mock.Anything, dealerID).Return("INV-0001", nil)
	catalog.On("ActiveNames", mock.Anything, dealerID).Return(nil, errors.New("catalog down"))

	var capturedItems []domain.InvoiceItem
	invoiceRepo.On("CreateWithItems", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { capturedItems = args.Get(2).([]domain.InvoiceItem) }).
		Return(nil)
	userRepo.On("GetByID", mock.Anything, dealerID, userID).Return(nil, domain.ErrNotFound)
	_ = email

	_, err := svc.CreateInvoice(context.Background(), &service.CreateInvoiceInput{
		DealerID:  dealerID,
		CreatedBy: userID,
		OrderIDs:  []uuid.UUID{o.ID},
		IssueDate: at(2026, 4, 1),
		DueDate:   at(2026, 4, 30),
	})
	require.NoError(t, err)

	var itemMeta domain.InvoiceItemMetadata
	require.NoError(t, json.Unmarshal(capturedItems[0].Metadata, &itemMeta))
	assert.Equal(t, []string{"42"}, itemMeta.Services)
}

func TestCreateInvoice_EmailFailureNonFatal(t *testing.T) {
	orderRepo, invoiceRepo, numbers, catalog, userRepo, email, svc := newBillingFixture()
	dealerID := uuid.New()
	userID := uuid.New()
	o := domain.Order{ID: uuid.New(), DealerID: dealerID, TotalAmount: 10}

	orderRepo.On("GetByIDs", mock.Anything, dealerID, []uuid.UUID{o.ID}).Return([]domain.Order{o}, nil)
	invoiceRepo.On("InvoicedOrderRefs", mock.Anything, dealerID).Return(map[string]bool{}, nil)
	numbers.On("Next", mock.Anything, dealerID).Return("INV-0002", nil)
	catalog.On("ActiveNames", mock.Anything, dealerID).Return(map[string]string{}, nil)
	invoiceRepo.On("CreateWithItems", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	userRepo.On("GetByID", mock.Anything, dealerID, userID).
		Return(&domain.User{ID: userID, Email: "ops@dealer.test"}, nil)
	email.On("SendInvoiceIssued", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("ses throttled"))

	inv, err := svc.CreateInvoice(context.Background(), &service.CreateInvoiceInput{
		DealerID:  dealerID,
		CreatedBy: userID,
		OrderIDs:  []uuid.UUID{o.ID},
		IssueDate: at(2026, 4, 1),
		DueDate:   at(2026, 4, 30),
	})
	require.NoError(t, err)
	assert.Equal(t, "INV-0002", inv.InvoiceNumber)
}
