package handler

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"dealerops/internal/billing"
	"dealerops/internal/domain"
	"dealerops/internal/service"
)

// BillingHandler handles billable-order preview and batch invoice creation.
type BillingHandler struct {
	billingService service.BillingService
}

// NewBillingHandler creates a new BillingHandler.
func NewBillingHandler(billingService service.BillingService) *BillingHandler {
	return &BillingHandler{billingService: billingService}
}

const dateLayout = "2006-01-02"

// parseDepartments splits and validates a comma-separated department list.
func parseDepartments(raw string) ([]domain.OrderType, error) {
	if raw == "" {
		return nil, nil
	}
	var out []domain.OrderType
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		ot := domain.OrderType(part)
		if !domain.ValidOrderTypes[ot] {
			return nil, fmt.Errorf("invalid department %q; allowed: sales, service, recon, carwash", part)
		}
		out = append(out, ot)
	}
	return out, nil
}

func parseDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(dateLayout, raw, time.Local)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: must be YYYY-MM-DD", raw)
	}
	return &t, nil
}

// ListBillable handles GET /api/v1/billing/orders
// @Summary      Billable order preview
// @Description  Lists orders eligible for invoicing in the requested window, with duplicate annotations
// @Tags         billing
// @Produce      json
// @Param        preset query string false "Window preset" Enums(today, this_week, last_week, this_month, last_month, last_3_months, custom) default(this_month)
// @Param        start query string false "Custom window start (YYYY-MM-DD)"
// @Param        end query string false "Custom window end (YYYY-MM-DD)"
// @Param        departments query string false "Comma-separated order types"
// @Param        status query string false "Order status filter" default(completed)
// @Success      200 {object} APIResponse{data=service.BillablePreview}
// @Failure      400 {object} APIResponse
// @Failure      401 {object} APIResponse
// @Failure      500 {object} APIResponse
// @Security     BearerAuth
// @Router       /billing/orders [get]
func (h *BillingHandler) ListBillable(c *gin.Context) {
	dealerID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	departments, err := parseDepartments(c.Query("departments"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	start, err := parseDate(c.Query("start"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	end, err := parseDate(c.Query("end"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	status := c.Query("status")
	if status == "" {
		status = string(domain.OrderStatusCompleted)
	}
	if !domain.ValidStatusFilters[status] {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid status filter")
		return
	}

	preset := billing.WindowPreset(c.DefaultQuery("preset", string(billing.PresetThisMonth)))

	preview, err := h.billingService.ListBillable(c.Request.Context(), &service.ListBillableInput{
		DealerID:    dealerID,
		Departments: departments,
		Status:      status,
		Preset:      preset,
		Start:       start,
		End:         end,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, preview)
}

// CreateInvoiceRequest is the JSON body for batch invoice creation. OrderIDs
// keep the operator's selection order.
type CreateInvoiceRequest struct {
	OrderIDs       []uuid.UUID `json:"order_ids" binding:"required,min=1"`
	IssueDate      string      `json:"issue_date" binding:"required"`
	DueDate        string      `json:"due_date" binding:"required"`
	TaxRate        float64     `json:"tax_rate"`
	DiscountAmount float64     `json:"discount_amount"`
	Notes          string      `json:"notes"`
	WindowPreset   string      `json:"window_preset"`
	WindowStart    string      `json:"window_start"`
	WindowEnd      string      `json:"window_end"`
	Departments    string      `json:"departments"`
}

// CreateInvoice handles POST /api/v1/invoices
// @Summary      Create batch invoice
// @Description  Builds one invoice from the selected orders; all-or-nothing
// @Tags         billing
// @Accept       json
// @Produce      json
// @Param        request body CreateInvoiceRequest true "Batch parameters"
// @Success      201 {object} APIResponse{data=domain.Invoice}
// @Failure      400 {object} APIResponse
// @Failure      401 {object} APIResponse
// @Failure      409 {object} APIResponse
// @Failure      500 {object} APIResponse
// @Security     BearerAuth
// @Router       /invoices [post]
func (h *BillingHandler) CreateInvoice(c *gin.Context) {
	dealerID, userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	var req CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	issueDate, err := time.ParseInLocation(dateLayout, req.IssueDate, time.Local)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid issue_date: must be YYYY-MM-DD")
		return
	}
	dueDate, err := time.ParseInLocation(dateLayout, req.DueDate, time.Local)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid due_date: must be YYYY-MM-DD")
		return
	}

	departments, err := parseDepartments(req.Departments)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	// Window provenance is recorded verbatim in metadata; an unparsable
	// value yields an open bound, never a rejected batch.
	var window billing.DateWindow
	if start, err := parseDate(req.WindowStart); err == nil && start != nil {
		window.Start = *start
	}
	if end, err := parseDate(req.WindowEnd); err == nil && end != nil {
		window.End = billing.EndOfDay(*end)
	}

	inv, err := h.billingService.CreateInvoice(c.Request.Context(), &service.CreateInvoiceInput{
		DealerID:       dealerID,
		CreatedBy:      userID,
		OrderIDs:       req.OrderIDs,
		IssueDate:      issueDate,
		DueDate:        dueDate,
		TaxRate:        req.TaxRate,
		DiscountAmount: req.DiscountAmount,
		Notes:          req.Notes,
		WindowPreset:   billing.WindowPreset(req.WindowPreset),
		Window:         window,
		Departments:    departments,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, inv)
}
