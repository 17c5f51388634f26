package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"dealerops/internal/domain"
	"dealerops/internal/service"
)

// InvoiceHandler handles invoice read and export endpoints.
type InvoiceHandler struct {
	invoiceService service.InvoiceService
	exportService  service.ExportService
}

// NewInvoiceHandler creates a new InvoiceHandler.
func NewInvoiceHandler(invoiceService service.InvoiceService, exportService service.ExportService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService, exportService: exportService}
}

// List handles GET /api/v1/invoices
// @Summary      List invoices
// @Description  Lists the dealer's invoices, newest first
// @Tags         invoices
// @Produce      json
// @Param        status query string false "Invoice status filter" default(all)
// @Param        offset query int false "Pagination offset" default(0)
// @Param        limit query int false "Pagination limit" default(20)
// @Success      200 {object} APIResponse{data=[]domain.Invoice,meta=PagMeta}
// @Failure      400 {object} APIResponse
// @Failure      401 {object} APIResponse
// @Failure      500 {object} APIResponse
// @Security     BearerAuth
// @Router       /invoices [get]
func (h *InvoiceHandler) List(c *gin.Context) {
	dealerID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	status := c.DefaultQuery("status", domain.StatusFilterAll)

	offset := 0
	if offsetStr := c.Query("offset"); offsetStr != "" {
		v, err := strconv.Atoi(offsetStr)
		if err != nil || v < 0 {
			RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid 'offset': must be a non-negative integer")
			return
		}
		offset = v
	}
	limit := 20
	if limitStr := c.Query("limit"); limitStr != "" {
		v, err := strconv.Atoi(limitStr)
		if err != nil || v < 1 {
			RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid 'limit': must be a positive integer")
			return
		}
		limit = v
	}

	invoices, total, err := h.invoiceService.ListByDealer(c.Request.Context(), dealerID, status, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, invoices, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// GetByID handles GET /api/v1/invoices/:id
// @Summary      Get invoice
// @Description  Returns one invoice with its line items
// @Tags         invoices
// @Produce      json
// @Param        id path string true "Invoice UUID"
// @Success      200 {object} APIResponse{data=service.InvoiceWithItems}
// @Failure      400 {object} APIResponse
// @Failure      401 {object} APIResponse
// @Failure      404 {object} APIResponse
// @Failure      500 {object} APIResponse
// @Security     BearerAuth
// @Router       /invoices/{id} [get]
func (h *InvoiceHandler) GetByID(c *gin.Context) {
	dealerID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	invoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid invoice id: must be a valid UUID")
		return
	}

	inv, err := h.invoiceService.GetByID(c.Request.Context(), dealerID, invoiceID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, inv)
}

// Export handles GET /api/v1/invoices/export
// @Summary      Export invoice register
// @Description  Downloads the dealer's invoice register as CSV or XLSX, optionally archiving a copy
// @Tags         invoices
// @Produce      text/csv
// @Param        format query string false "Export format" Enums(csv, xlsx) default(csv)
// @Param        archive query bool false "Archive a copy to object storage" default(false)
// @Success      200 {file} file
// @Failure      400 {object} APIResponse
// @Failure      401 {object} APIResponse
// @Failure      500 {object} APIResponse
// @Security     BearerAuth
// @Router       /invoices/export [get]
func (h *InvoiceHandler) Export(c *gin.Context) {
	dealerID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	format := c.DefaultQuery("format", service.FormatCSV)
	archive := c.Query("archive") == "true"

	result, err := h.exportService.ExportRegister(c.Request.Context(), dealerID, format, archive)
	if err != nil {
		HandleError(c, err)
		return
	}

	if result.ArchiveURL != "" {
		c.Header("X-Archive-URL", result.ArchiveURL)
	}
	c.Header("Content-Disposition", `attachment; filename="`+result.FileName+`"`)
	c.Data(http.StatusOK, result.ContentType, result.Data)
}
