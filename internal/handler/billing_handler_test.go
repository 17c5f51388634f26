package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"dealerops/internal/billing"
	"dealerops/internal/domain"
	"dealerops/internal/handler"
	"dealerops/internal/middleware"
	"dealerops/internal/service"
	"dealerops/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func authedRouter(dealerID, userID uuid.UUID, role domain.UserRole) *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ContextKeyDealerID, dealerID)
		c.Set(middleware.ContextKeyUserID, userID)
		c.Set(middleware.ContextKeyRole, string(role))
	})
	return r
}

func TestListBillable_Endpoint(t *testing.T) {
	mockSvc := new(mocks.MockBillingService)
	h := handler.NewBillingHandler(mockSvc)
	dealerID := uuid.New()

	mockSvc.On("ListBillable", mock.Anything, mock.MatchedBy(func(in *service.ListBillableInput) bool {
		return in.DealerID == dealerID &&
			in.Preset == billing.PresetLastMonth &&
			in.Status == "completed" &&
			len(in.Departments) == 2
	})).Return(&service.BillablePreview{Orders: []service.BillableOrder{}}, nil)

	r := authedRouter(dealerID, uuid.New(), domain.RoleMember)
	r.GET("/billing/orders", h.ListBillable)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/billing/orders?preset=last_month&departments=service,recon&status=completed", http.NoBody)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestListBillable_InvalidDepartment(t *testing.T) {
	h := handler.NewBillingHandler(new(mocks.MockBillingService))
	r := authedRouter(uuid.New(), uuid.New(), domain.RoleMember)
	r.GET("/billing/orders", h.ListBillable)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/billing/orders?departments=detailing", http.NoBody)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListBillable_InvalidStatus(t *testing.T) {
	h := handler.NewBillingHandler(new(mocks.MockBillingService))
	r := authedRouter(uuid.New(), uuid.New(), domain.RoleMember)
	r.GET("/billing/orders", h.ListBillable)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/billing/orders?status=archived", http.NoBody)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateInvoice_Endpoint(t *testing.T) {
	mockSvc := new(mocks.MockBillingService)
	h := handler.NewBillingHandler(mockSvc)
	dealerID := uuid.New()
	userID := uuid.New()
	orderID := uuid.New()

	mockSvc.On("CreateInvoice", mock.Anything, mock.MatchedBy(func(in *service.CreateInvoiceInput) bool {
		return in.DealerID == dealerID &&
			in.CreatedBy == userID &&
			len(in.OrderIDs) == 1 && in.OrderIDs[0] == orderID &&
			in.TaxRate == 8
	})).Return(&domain.Invoice{ID: uuid.New(), InvoiceNumber: "INV-0009"}, nil)

	r := authedRouter(dealerID, userID, domain.RoleManager)
	r.POST("/invoices", h.CreateInvoice)

	body, _ := json.Marshal(handler.CreateInvoiceRequest{
		OrderIDs:  []uuid.UUID{orderID},
		IssueDate: "2026-04-01",
		DueDate:   "2026-04-30",
		TaxRate:   8,
	})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/invoices", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
}

func TestCreateInvoice_AlreadyInvoicedConflict(t *testing.T) {
	mockSvc := new(mocks.MockBillingService)
	h := handler.NewBillingHandler(mockSvc)

	mockSvc.On("CreateInvoice", mock.Anything, mock.Anything).Return(nil, domain.ErrOrderAlreadyInvoiced)

	r := authedRouter(uuid.New(), uuid.New(), domain.RoleManager)
	r.POST("/invoices", h.CreateInvoice)

	body, _ := json.Marshal(handler.CreateInvoiceRequest{
		OrderIDs:  []uuid.UUID{uuid.New()},
		IssueDate: "2026-04-01",
		DueDate:   "2026-04-30",
	})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/invoices", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCreateInvoice_BadDates(t *testing.T) {
	h := handler.NewBillingHandler(new(mocks.MockBillingService))
	r := authedRouter(uuid.New(), uuid.New(), domain.RoleManager)
	r.POST("/invoices", h.CreateInvoice)

	body, _ := json.Marshal(handler.CreateInvoiceRequest{
		OrderIDs:  []uuid.UUID{uuid.New()},
		IssueDate: "04/01/2026",
		DueDate:   "2026-04-30",
	})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/invoices", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateInvoice_EmptySelection(t *testing.T) {
	h := handler.NewBillingHandler(new(mocks.MockBillingService))
	r := authedRouter(uuid.New(), uuid.New(), domain.RoleManager)
	r.POST("/invoices", h.CreateInvoice)

	body, _ := json.Marshal(handler.CreateInvoiceRequest{
		OrderIDs:  []uuid.UUID{},
		IssueDate: "2026-04-01",
		DueDate:   "2026-04-30",
	})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/invoices", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	// binding min=1 rejects before the service is reached
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
