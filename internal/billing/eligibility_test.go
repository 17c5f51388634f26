package billing_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dealerops/internal/billing"
	"dealerops/internal/domain"
)

func window(t *testing.T, start, end time.Time) billing.DateWindow {
	t.Helper()
	w, err := billing.NewWindow(start, end)
	require.NoError(t, err)
	return w
}

func TestFilterEligible_WindowOnBillingDate(t *testing.T) {
	w := window(t, ts(2026, 3, 1), ts(2026, 3, 31))

	dueInside := ts(2026, 3, 10)
	inside := domain.Order{
		ID:        uuid.New(),
		OrderType: domain.OrderTypeSales,
		Status:    domain.OrderStatusCompleted,
		CreatedAt: ts(2026, 2, 20), // created outside, due inside
		DueDate:   &dueInside,
	}
	dueOutside := ts(2026, 4, 2)
	outside := domain.Order{
		ID:        uuid.New(),
		OrderType: domain.OrderTypeSales,
		Status:    domain.OrderStatusCompleted,
		CreatedAt: ts(2026, 3, 5), // created inside, due outside
		DueDate:   &dueOutside,
	}

	got := billing.FilterEligible([]domain.Order{inside, outside}, billing.EligibilityParams{
		Status: string(domain.OrderStatusCompleted),
		Window: w,
	})

	require.Len(t, got, 1)
	assert.Equal(t, inside.ID, got[0].ID)
}

func TestFilterEligible_NullDueDateFallsBackToCreated(t *testing.T) {
	w := window(t, ts(2026, 3, 1), ts(2026, 3, 31))

	o := domain.Order{
		ID:        uuid.New(),
		OrderType: domain.OrderTypeSales,
		Status:    domain.OrderStatusCompleted,
		CreatedAt: ts(2026, 3, 12),
	}

	got := billing.FilterEligible([]domain.Order{o}, billing.EligibilityParams{
		Status: string(domain.OrderStatusCompleted),
		Window: w,
	})
	assert.Len(t, got, 1)
}

func TestFilterEligible_DepartmentFilter(t *testing.T) {
	w := window(t, ts(2026, 3, 1), ts(2026, 3, 31))

	sales := domain.Order{ID: uuid.New(), OrderType: domain.OrderTypeSales, Status: domain.OrderStatusCompleted, CreatedAt: ts(2026, 3, 5)}
	recon := domain.Order{ID: uuid.New(), OrderType: domain.OrderTypeRecon, Status: domain.OrderStatusCompleted, CreatedAt: ts(2026, 3, 5)}

	got := billing.FilterEligible([]domain.Order{sales, recon}, billing.EligibilityParams{
		Departments: []domain.OrderType{domain.OrderTypeRecon},
		Status:      domain.StatusFilterAll,
		Window:      w,
	})

	require.Len(t, got, 1)
	assert.Equal(t, recon.ID, got[0].ID)
}

func TestFilterEligible_StatusAllBypassesFilter(t *testing.T) {
	w := window(t, ts(2026, 3, 1), ts(2026, 3, 31))

	pending := domain.Order{ID: uuid.New(), OrderType: domain.OrderTypeSales, Status: domain.OrderStatusPending, CreatedAt: ts(2026, 3, 5)}
	completed := domain.Order{ID: uuid.New(), OrderType: domain.OrderTypeSales, Status: domain.OrderStatusCompleted, CreatedAt: ts(2026, 3, 6)}

	got := billing.FilterEligible([]domain.Order{pending, completed}, billing.EligibilityParams{
		Status: domain.StatusFilterAll,
		Window: w,
	})
	assert.Len(t, got, 2)
}

func TestFilterEligible_EmptyResultIsValid(t *testing.T) {
	w := window(t, ts(2026, 3, 1), ts(2026, 3, 31))
	got := billing.FilterEligible(nil, billing.EligibilityParams{Status: domain.StatusFilterAll, Window: w})
	assert.Empty(t, got)
}

func TestExcludeInvoiced(t *testing.T) {
	claimed := domain.Order{ID: uuid.New()}
	free := domain.Order{ID: uuid.New()}

	got := billing.ExcludeInvoiced(
		[]domain.Order{claimed, free},
		map[string]bool{claimed.ID.String(): true},
	)

	require.Len(t, got, 1)
	assert.Equal(t, free.ID, got[0].ID)
}

func TestExcludeInvoiced_EmptySetKeepsAll(t *testing.T) {
	orders := []domain.Order{{ID: uuid.New()}, {ID: uuid.New()}}
	got := billing.ExcludeInvoiced(orders, nil)
	assert.Len(t, got, 2)
}
