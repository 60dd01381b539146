package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/maktabhq/maktab-api/internal/application/service"
	"github.com/maktabhq/maktab-api/internal/domain/enum"
	"github.com/maktabhq/maktab-api/internal/domain/repository"
	"github.com/maktabhq/maktab-api/internal/presentation/http/dto/response"
	"github.com/maktabhq/maktab-api/pkg/pagination"
	"github.com/shopspring/decimal"
)

// InvoiceHandler handles invoice HTTP requests
type InvoiceHandler struct {
	invoiceService *service.InvoiceService
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(invoiceService *service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// List handles listing invoices
func (h *InvoiceHandler) List(c *gin.Context) {
	params := paginationParams(c)

	filter := repository.InvoiceFilter{
		From: parseDateQuery(c, "from"),
		To:   parseDateQuery(c, "to"),
	}
	if studentIDStr := c.Query("student_id"); studentIDStr != "" {
		if studentID, err := uuid.Parse(studentIDStr); err == nil {
			filter.StudentID = &studentID
		}
	}
	if statusStr := c.Query("status"); statusStr != "" {
		status := enum.InvoiceStatus(statusStr)
		if status.Valid() {
			filter.Status = &status
		}
	}

	invoices, total, err := h.invoiceService.ListInvoices(requestContext(c), params, filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	result := pagination.NewPaginatedResult(invoices, pagination.NewPagination(params.Page, params.PerPage, total))
	response.SuccessWithPagination(c, 200, "Invoices retrieved successfully", result)
}

// Generate runs invoice generation for every billable student. The
// period comes either from a YYYY-MM month shorthand or from explicit
// period_start and period_end dates.
func (h *InvoiceHandler) Generate(c *gin.Context) {
	var req struct {
		Month       string      `json:"month"`
		PeriodStart *time.Time  `json:"period_start"`
		PeriodEnd   *time.Time  `json:"period_end"`
		DueDate     *time.Time  `json:"due_date"`
		StudentIDs  []uuid.UUID `json:"student_ids"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	input := &service.GenerateInvoicesInput{
		DueDate:    req.DueDate,
		StudentIDs: req.StudentIDs,
	}
	switch {
	case req.Month != "":
		month, err := time.Parse("2006-01", req.Month)
		if err != nil {
			response.BadRequest(c, "Month must be in YYYY-MM format")
			return
		}
		input.PeriodStart = time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)
		input.PeriodEnd = input.PeriodStart.AddDate(0, 1, -1)
	case req.PeriodStart != nil && req.PeriodEnd != nil:
		input.PeriodStart = *req.PeriodStart
		input.PeriodEnd = *req.PeriodEnd
	default:
		response.BadRequest(c, "Either month or period_start and period_end are required")
		return
	}

	result, err := h.invoiceService.GenerateInvoices(requestContext(c), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Invoices generated successfully", result)
}

// SweepOverdue flips pending invoices past their due date to overdue
func (h *InvoiceHandler) SweepOverdue(c *gin.Context) {
	updated, err := h.invoiceService.SweepOverdue(requestContext(c), time.Now())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Overdue sweep completed", gin.H{"updated": updated})
}

// Create handles creating a single invoice manually
func (h *InvoiceHandler) Create(c *gin.Context) {
	var req struct {
		StudentID   uuid.UUID       `json:"student_id" binding:"required"`
		Amount      decimal.Decimal `json:"amount" binding:"required"`
		Discount    decimal.Decimal `json:"discount"`
		PeriodStart time.Time       `json:"period_start" binding:"required"`
		PeriodEnd   time.Time       `json:"period_end" binding:"required"`
		DueDate     time.Time       `json:"due_date" binding:"required"`
		Note        *string         `json:"note"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	invoice, err := h.invoiceService.CreateInvoice(requestContext(c), &service.CreateInvoiceInput{
		StudentID:   req.StudentID,
		Amount:      req.Amount,
		Discount:    req.Discount,
		PeriodStart: req.PeriodStart,
		PeriodEnd:   req.PeriodEnd,
		DueDate:     req.DueDate,
		Note:        req.Note,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Invoice created successfully", invoice)
}

// Get handles getting a single invoice
func (h *InvoiceHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid invoice ID")
		return
	}

	invoice, err := h.invoiceService.GetInvoice(requestContext(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice retrieved successfully", invoice)
}

// Update handles updating an invoice
func (h *InvoiceHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid invoice ID")
		return
	}

	var req struct {
		Amount   *decimal.Decimal `json:"amount"`
		Discount *decimal.Decimal `json:"discount"`
		DueDate  *time.Time       `json:"due_date"`
		Note     *string          `json:"note"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	invoice, err := h.invoiceService.UpdateInvoice(requestContext(c), id, &service.UpdateInvoiceInput{
		Amount:   req.Amount,
		Discount: req.Discount,
		DueDate:  req.DueDate,
		Note:     req.Note,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice updated successfully", invoice)
}

// Delete handles deleting an invoice without payments
func (h *InvoiceHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid invoice ID")
		return
	}

	if err := h.invoiceService.DeleteInvoice(requestContext(c), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
