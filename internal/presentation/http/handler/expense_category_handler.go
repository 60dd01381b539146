package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/maktabhq/maktab-api/internal/application/service"
	"github.com/maktabhq/maktab-api/internal/presentation/http/dto/response"
)

// ExpenseCategoryHandler handles expense category HTTP requests
type ExpenseCategoryHandler struct {
	categoryService *service.ExpenseCategoryService
}

// NewExpenseCategoryHandler creates a new expense category handler
func NewExpenseCategoryHandler(categoryService *service.ExpenseCategoryService) *ExpenseCategoryHandler {
	return &ExpenseCategoryHandler{categoryService: categoryService}
}

// List returns the school's categories plus the shared system ones
func (h *ExpenseCategoryHandler) List(c *gin.Context) {
	categories, err := h.categoryService.ListCategories(requestContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Categories retrieved successfully", categories)
}

// Create handles creating a school-level category
func (h *ExpenseCategoryHandler) Create(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	category, err := h.categoryService.CreateCategory(requestContext(c), req.Name)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Category created successfully", category)
}

// Update handles renaming a school-level category
func (h *ExpenseCategoryHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid category ID")
		return
	}

	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	category, err := h.categoryService.UpdateCategory(requestContext(c), id, req.Name)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Category updated successfully", category)
}

// Delete handles deleting an unused school-level category
func (h *ExpenseCategoryHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid category ID")
		return
	}

	if err := h.categoryService.DeleteCategory(requestContext(c), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
