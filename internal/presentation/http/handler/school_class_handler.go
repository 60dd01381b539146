package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/maktabhq/maktab-api/internal/application/service"
	"github.com/maktabhq/maktab-api/internal/presentation/http/dto/response"
	"github.com/maktabhq/maktab-api/pkg/pagination"
)

// SchoolClassHandler handles class HTTP requests
type SchoolClassHandler struct {
	classService *service.SchoolClassService
}

// NewSchoolClassHandler creates a new class handler
func NewSchoolClassHandler(classService *service.SchoolClassService) *SchoolClassHandler {
	return &SchoolClassHandler{classService: classService}
}

// List handles listing classes
func (h *SchoolClassHandler) List(c *gin.Context) {
	params := paginationParams(c)
	classes, total, err := h.classService.ListClasses(requestContext(c), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	result := pagination.NewPaginatedResult(classes, pagination.NewPagination(params.Page, params.PerPage, total))
	response.SuccessWithPagination(c, 200, "Classes retrieved successfully", result)
}

// Create handles creating a class
func (h *SchoolClassHandler) Create(c *gin.Context) {
	var req struct {
		Grade             int        `json:"grade" binding:"required"`
		Section           string     `json:"section" binding:"required"`
		HomeroomTeacherID *uuid.UUID `json:"homeroom_teacher_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	class, err := h.classService.CreateClass(requestContext(c), &service.CreateClassInput{
		Grade:             req.Grade,
		Section:           req.Section,
		HomeroomTeacherID: req.HomeroomTeacherID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Class created successfully", class)
}

// Get handles getting a single class
func (h *SchoolClassHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid class ID")
		return
	}

	class, err := h.classService.GetClass(requestContext(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Class retrieved successfully", class)
}

// Update handles updating a class
func (h *SchoolClassHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid class ID")
		return
	}

	var req struct {
		Grade             *int       `json:"grade"`
		Section           *string    `json:"section"`
		HomeroomTeacherID *uuid.UUID `json:"homeroom_teacher_id"`
		IsActive          *bool      `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	class, err := h.classService.UpdateClass(requestContext(c), id, &service.UpdateClassInput{
		Grade:             req.Grade,
		Section:           req.Section,
		HomeroomTeacherID: req.HomeroomTeacherID,
		IsActive:          req.IsActive,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Class updated successfully", class)
}

// Delete handles deleting a class
func (h *SchoolClassHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid class ID")
		return
	}

	if err := h.classService.DeleteClass(requestContext(c), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
