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

// RecurringExpenseHandler handles recurring expense template HTTP requests
type RecurringExpenseHandler struct {
	recurringService *service.RecurringExpenseService
}

// NewRecurringExpenseHandler creates a new recurring expense handler
func NewRecurringExpenseHandler(recurringService *service.RecurringExpenseService) *RecurringExpenseHandler {
	return &RecurringExpenseHandler{recurringService: recurringService}
}

// List handles listing expense templates
func (h *RecurringExpenseHandler) List(c *gin.Context) {
	params := paginationParams(c)
	templates, total, err := h.recurringService.ListRecurringExpenses(requestContext(c), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	result := pagination.NewPaginatedResult(templates, pagination.NewPagination(params.Page, params.PerPage, total))
	response.SuccessWithPagination(c, 200, "Recurring expenses retrieved successfully", result)
}

// Create handles creating an expense template
func (h *RecurringExpenseHandler) Create(c *gin.Context) {
	var req struct {
		CategoryID uuid.UUID       `json:"category_id" binding:"required"`
		EmployeeID *uuid.UUID      `json:"employee_id"`
		Name       string          `json:"name" binding:"required"`
		Amount     decimal.Decimal `json:"amount" binding:"required"`
		DayOfMonth int             `json:"day_of_month" binding:"required"`
		Recurrence string          `json:"recurrence" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	template, err := h.recurringService.CreateRecurringExpense(requestContext(c), &service.CreateRecurringExpenseInput{
		CategoryID: req.CategoryID,
		EmployeeID: req.EmployeeID,
		Name:       req.Name,
		Amount:     req.Amount,
		DayOfMonth: req.DayOfMonth,
		Recurrence: enum.RecurrenceType(req.Recurrence),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Recurring expense created successfully", template)
}

// Get handles getting a single template
func (h *RecurringExpenseHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid recurring expense ID")
		return
	}

	template, err := h.recurringService.GetRecurringExpense(requestContext(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Recurring expense retrieved successfully", template)
}

// Update handles updating an expense template
func (h *RecurringExpenseHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid recurring expense ID")
		return
	}

	var req struct {
		CategoryID *uuid.UUID       `json:"category_id"`
		EmployeeID *uuid.UUID       `json:"employee_id"`
		Name       *string          `json:"name"`
		Amount     *decimal.Decimal `json:"amount"`
		DayOfMonth *int             `json:"day_of_month"`
		Recurrence *string          `json:"recurrence"`
		IsActive   *bool            `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	input := &service.UpdateRecurringExpenseInput{
		CategoryID: req.CategoryID,
		EmployeeID: req.EmployeeID,
		Name:       req.Name,
		Amount:     req.Amount,
		DayOfMonth: req.DayOfMonth,
		IsActive:   req.IsActive,
	}
	if req.Recurrence != nil {
		recurrence := enum.RecurrenceType(*req.Recurrence)
		input.Recurrence = &recurrence
	}

	template, err := h.recurringService.UpdateRecurringExpense(requestContext(c), id, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Recurring expense updated successfully", template)
}

// Delete handles deactivating an expense template
func (h *RecurringExpenseHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid recurring expense ID")
		return
	}

	if err := h.recurringService.DeleteRecurringExpense(requestContext(c), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// Due lists templates that would fire on the given date
func (h *RecurringExpenseHandler) Due(c *gin.Context) {
	asOf := time.Now()
	if parsed := parseDateQuery(c, "date"); parsed != nil {
		asOf = *parsed
	}

	templates, err := h.recurringService.GetDue(requestContext(c), asOf)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Due templates retrieved successfully", templates)
}

// Generate materializes expenses from every due template
func (h *RecurringExpenseHandler) Generate(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	asOf := time.Now()
	if parsed := parseDateQuery(c, "date"); parsed != nil {
		asOf = *parsed
	}

	expenses, err := h.recurringService.Generate(requestContext(c), *userID, asOf)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Expenses generated successfully", gin.H{
		"generated": len(expenses),
		"expenses":  expenses,
	})
}
