package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/maktabhq/maktab-api/internal/application/service"
	"github.com/maktabhq/maktab-api/internal/domain/enum"
	"github.com/maktabhq/maktab-api/internal/presentation/http/dto/response"
	"github.com/maktabhq/maktab-api/pkg/pagination"
	"github.com/shopspring/decimal"
)

// PaymentHandler handles payment HTTP requests
type PaymentHandler struct {
	paymentService *service.PaymentService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// List handles listing payments across the school
func (h *PaymentHandler) List(c *gin.Context) {
	params := paginationParams(c)
	payments, total, err := h.paymentService.ListPayments(requestContext(c), params, parseDateQuery(c, "from"), parseDateQuery(c, "to"))
	if err != nil {
		response.Error(c, err)
		return
	}

	result := pagination.NewPaginatedResult(payments, pagination.NewPagination(params.Page, params.PerPage, total))
	response.SuccessWithPagination(c, 200, "Payments retrieved successfully", result)
}

// ListByInvoice handles listing an invoice's payments
func (h *PaymentHandler) ListByInvoice(c *gin.Context) {
	invoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid invoice ID")
		return
	}

	payments, err := h.paymentService.ListInvoicePayments(requestContext(c), invoiceID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payments retrieved successfully", payments)
}

// Create records a payment against an invoice
func (h *PaymentHandler) Create(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req struct {
		InvoiceID uuid.UUID       `json:"invoice_id" binding:"required"`
		Amount    decimal.Decimal `json:"amount" binding:"required"`
		Method    string          `json:"method" binding:"required"`
		PaidAt    time.Time       `json:"paid_at"`
		Note      *string         `json:"note"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	payment, err := h.paymentService.CreatePayment(requestContext(c), *userID, &service.CreatePaymentInput{
		InvoiceID: req.InvoiceID,
		Amount:    req.Amount,
		Method:    enum.PaymentMethod(req.Method),
		PaidAt:    req.PaidAt,
		Note:      req.Note,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Payment recorded successfully", payment)
}

// Get handles getting a single payment
func (h *PaymentHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid payment ID")
		return
	}

	payment, err := h.paymentService.GetPayment(requestContext(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment retrieved successfully", payment)
}

// Update edits a recorded payment
func (h *PaymentHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid payment ID")
		return
	}

	var req struct {
		Amount *decimal.Decimal `json:"amount"`
		Method *string          `json:"method"`
		PaidAt *time.Time       `json:"paid_at"`
		Note   *string          `json:"note"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	input := &service.UpdatePaymentInput{
		Amount: req.Amount,
		PaidAt: req.PaidAt,
		Note:   req.Note,
	}
	if req.Method != nil {
		method := enum.PaymentMethod(*req.Method)
		input.Method = &method
	}

	payment, err := h.paymentService.UpdatePayment(requestContext(c), id, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment updated successfully", payment)
}

// Delete removes a payment and re-derives the invoice status
func (h *PaymentHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid payment ID")
		return
	}

	if err := h.paymentService.DeletePayment(requestContext(c), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
