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

// DiscountHandler handles discount HTTP requests
type DiscountHandler struct {
	discountService *service.DiscountService
}

// NewDiscountHandler creates a new discount handler
func NewDiscountHandler(discountService *service.DiscountService) *DiscountHandler {
	return &DiscountHandler{discountService: discountService}
}

// List handles listing discounts
func (h *DiscountHandler) List(c *gin.Context) {
	params := paginationParams(c)
	discounts, total, err := h.discountService.ListDiscounts(requestContext(c), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	result := pagination.NewPaginatedResult(discounts, pagination.NewPagination(params.Page, params.PerPage, total))
	response.SuccessWithPagination(c, 200, "Discounts retrieved successfully", result)
}

// Create handles creating a discount definition
func (h *DiscountHandler) Create(c *gin.Context) {
	var req struct {
		Name       string          `json:"name" binding:"required"`
		Type       string          `json:"type" binding:"required"`
		Value      decimal.Decimal `json:"value" binding:"required"`
		ValidFrom  *time.Time      `json:"valid_from"`
		ValidUntil *time.Time      `json:"valid_until"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	discount, err := h.discountService.CreateDiscount(requestContext(c), &service.CreateDiscountInput{
		Name:       req.Name,
		Type:       enum.DiscountType(req.Type),
		Value:      req.Value,
		ValidFrom:  req.ValidFrom,
		ValidUntil: req.ValidUntil,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Discount created successfully", discount)
}

// Get handles getting a single discount
func (h *DiscountHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid discount ID")
		return
	}

	discount, err := h.discountService.GetDiscount(requestContext(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Discount retrieved successfully", discount)
}

// Update handles updating a discount definition
func (h *DiscountHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid discount ID")
		return
	}

	var req struct {
		Name       *string          `json:"name"`
		Type       *string          `json:"type"`
		Value      *decimal.Decimal `json:"value"`
		ValidFrom  *time.Time       `json:"valid_from"`
		ValidUntil *time.Time       `json:"valid_until"`
		IsActive   *bool            `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	input := &service.UpdateDiscountInput{
		Name:       req.Name,
		Value:      req.Value,
		ValidFrom:  req.ValidFrom,
		ValidUntil: req.ValidUntil,
		IsActive:   req.IsActive,
	}
	if req.Type != nil {
		discountType := enum.DiscountType(*req.Type)
		input.Type = &discountType
	}

	discount, err := h.discountService.UpdateDiscount(requestContext(c), id, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Discount updated successfully", discount)
}

// Delete handles deleting a discount definition
func (h *DiscountHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid discount ID")
		return
	}

	if err := h.discountService.DeleteDiscount(requestContext(c), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// Assign grants a discount to a student
func (h *DiscountHandler) Assign(c *gin.Context) {
	studentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid student ID")
		return
	}

	var req struct {
		DiscountID uuid.UUID `json:"discount_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	assignment, err := h.discountService.AssignDiscount(requestContext(c), studentID, req.DiscountID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Discount assigned successfully", assignment)
}

// Unassign removes a discount from a student
func (h *DiscountHandler) Unassign(c *gin.Context) {
	studentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid student ID")
		return
	}
	discountID, err := uuid.Parse(c.Param("discount_id"))
	if err != nil {
		response.BadRequest(c, "Invalid discount ID")
		return
	}

	if err := h.discountService.UnassignDiscount(requestContext(c), studentID, discountID); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// Calculate previews the total discount for a student on a given date
func (h *DiscountHandler) Calculate(c *gin.Context) {
	studentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid student ID")
		return
	}

	onDate := time.Now()
	if parsed := parseDateQuery(c, "date"); parsed != nil {
		onDate = *parsed
	}

	amount, err := h.discountService.CalculateStudentDiscount(requestContext(c), studentID, onDate)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Discount calculated successfully", gin.H{
		"student_id": studentID,
		"date":       onDate.Format("2006-01-02"),
		"discount":   amount,
	})
}
