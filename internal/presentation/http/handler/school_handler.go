package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/maktabhq/maktab-api/internal/application/service"
	"github.com/maktabhq/maktab-api/internal/presentation/http/dto/response"
	"github.com/maktabhq/maktab-api/pkg/pagination"
)

// SchoolHandler handles school HTTP requests
type SchoolHandler struct {
	schoolService *service.SchoolService
}

// NewSchoolHandler creates a new school handler
func NewSchoolHandler(schoolService *service.SchoolService) *SchoolHandler {
	return &SchoolHandler{schoolService: schoolService}
}

// List handles listing schools
func (h *SchoolHandler) List(c *gin.Context) {
	params := paginationParams(c)
	schools, total, err := h.schoolService.ListSchools(c.Request.Context(), params, c.Query("search"))
	if err != nil {
		response.Error(c, err)
		return
	}

	result := pagination.NewPaginatedResult(schools, pagination.NewPagination(params.Page, params.PerPage, total))
	response.SuccessWithPagination(c, 200, "Schools retrieved successfully", result)
}

// Create handles creating a school
func (h *SchoolHandler) Create(c *gin.Context) {
	var req struct {
		Name                  string     `json:"name" binding:"required"`
		Address               *string    `json:"address"`
		Phone                 *string    `json:"phone"`
		SubscriptionStartsAt  *time.Time `json:"subscription_starts_at"`
		SubscriptionExpiresAt *time.Time `json:"subscription_expires_at"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	school, err := h.schoolService.CreateSchool(c.Request.Context(), &service.CreateSchoolInput{
		Name:                  req.Name,
		Address:               req.Address,
		Phone:                 req.Phone,
		SubscriptionStartsAt:  req.SubscriptionStartsAt,
		SubscriptionExpiresAt: req.SubscriptionExpiresAt,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "School created successfully", school)
}

// Get handles getting a single school
func (h *SchoolHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid school ID")
		return
	}

	school, err := h.schoolService.GetSchool(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "School retrieved successfully", school)
}

// Update handles updating a school
func (h *SchoolHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid school ID")
		return
	}

	var req struct {
		Name                  *string    `json:"name"`
		Address               *string    `json:"address"`
		Phone                 *string    `json:"phone"`
		SubscriptionStartsAt  *time.Time `json:"subscription_starts_at"`
		SubscriptionExpiresAt *time.Time `json:"subscription_expires_at"`
		IsActive              *bool      `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	school, err := h.schoolService.UpdateSchool(c.Request.Context(), id, &service.UpdateSchoolInput{
		Name:                  req.Name,
		Address:               req.Address,
		Phone:                 req.Phone,
		SubscriptionStartsAt:  req.SubscriptionStartsAt,
		SubscriptionExpiresAt: req.SubscriptionExpiresAt,
		IsActive:              req.IsActive,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "School updated successfully", school)
}

// Delete handles deactivating a school
func (h *SchoolHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid school ID")
		return
	}

	if err := h.schoolService.DeleteSchool(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
