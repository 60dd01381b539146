package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/maktabhq/maktab-api/internal/application/service"
	"github.com/maktabhq/maktab-api/internal/domain/repository"
	"github.com/maktabhq/maktab-api/internal/presentation/http/dto/response"
	"github.com/maktabhq/maktab-api/pkg/pagination"
	"github.com/shopspring/decimal"
)

// ExpenseHandler handles expense HTTP requests
type ExpenseHandler struct {
	expenseService *service.ExpenseService
}

// NewExpenseHandler creates a new expense handler
func NewExpenseHandler(expenseService *service.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService}
}

// List handles listing expenses
func (h *ExpenseHandler) List(c *gin.Context) {
	params := paginationParams(c)

	filter := repository.ExpenseFilter{
		From: parseDateQuery(c, "from"),
		To:   parseDateQuery(c, "to"),
	}
	if categoryIDStr := c.Query("category_id"); categoryIDStr != "" {
		if categoryID, err := uuid.Parse(categoryIDStr); err == nil {
			filter.CategoryID = &categoryID
		}
	}

	expenses, total, err := h.expenseService.ListExpenses(requestContext(c), params, filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	result := pagination.NewPaginatedResult(expenses, pagination.NewPagination(params.Page, params.PerPage, total))
	response.SuccessWithPagination(c, 200, "Expenses retrieved successfully", result)
}

// Create records a new expense
func (h *ExpenseHandler) Create(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req struct {
		CategoryID  uuid.UUID       `json:"category_id" binding:"required"`
		EmployeeID  *uuid.UUID      `json:"employee_id"`
		Name        string          `json:"name" binding:"required"`
		Amount      decimal.Decimal `json:"amount" binding:"required"`
		ExpenseDate time.Time       `json:"expense_date"`
		Note        *string         `json:"note"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	expense, err := h.expenseService.CreateExpense(requestContext(c), *userID, &service.CreateExpenseInput{
		CategoryID:  req.CategoryID,
		EmployeeID:  req.EmployeeID,
		Name:        req.Name,
		Amount:      req.Amount,
		ExpenseDate: req.ExpenseDate,
		Note:        req.Note,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Expense recorded successfully", expense)
}

// Get handles getting a single expense
func (h *ExpenseHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid expense ID")
		return
	}

	expense, err := h.expenseService.GetExpense(requestContext(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Expense retrieved successfully", expense)
}

// Update handles updating an expense
func (h *ExpenseHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid expense ID")
		return
	}

	var req struct {
		CategoryID  *uuid.UUID       `json:"category_id"`
		EmployeeID  *uuid.UUID       `json:"employee_id"`
		Name        *string          `json:"name"`
		Amount      *decimal.Decimal `json:"amount"`
		ExpenseDate *time.Time       `json:"expense_date"`
		Note        *string          `json:"note"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	expense, err := h.expenseService.UpdateExpense(requestContext(c), id, &service.UpdateExpenseInput{
		CategoryID:  req.CategoryID,
		EmployeeID:  req.EmployeeID,
		Name:        req.Name,
		Amount:      req.Amount,
		ExpenseDate: req.ExpenseDate,
		Note:        req.Note,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Expense updated successfully", expense)
}

// Delete handles deleting an expense
func (h *ExpenseHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid expense ID")
		return
	}

	if err := h.expenseService.DeleteExpense(requestContext(c), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
