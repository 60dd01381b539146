package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/maktabhq/maktab-api/internal/application/service"
	"github.com/maktabhq/maktab-api/internal/domain/enum"
	"github.com/maktabhq/maktab-api/internal/presentation/http/dto/response"
	"github.com/maktabhq/maktab-api/pkg/pagination"
)

// UserHandler handles account management HTTP requests
type UserHandler struct {
	userService *service.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// List handles listing accounts. School staff see their school's
// accounts; platform accounts can pin a school or list platform staff.
func (h *UserHandler) List(c *gin.Context) {
	params := paginationParams(c)

	schoolID := GetSchoolID(c)
	if schoolID == nil && IsSuperuser(c) {
		if schoolIDStr := c.Query("school_id"); schoolIDStr != "" {
			if parsed, err := uuid.Parse(schoolIDStr); err == nil {
				schoolID = &parsed
			}
		}
	}

	users, total, err := h.userService.ListUsers(c.Request.Context(), schoolID, params)
	if err != nil {
		response.Error(c, err)
		return
	}

	result := pagination.NewPaginatedResult(users, pagination.NewPagination(params.Page, params.PerPage, total))
	response.SuccessWithPagination(c, 200, "Users retrieved successfully", result)
}

// Create handles creating an account
func (h *UserHandler) Create(c *gin.Context) {
	var req struct {
		PhoneNumber string     `json:"phone_number" binding:"required"`
		Password    string     `json:"password" binding:"required"`
		FirstName   string     `json:"first_name" binding:"required"`
		LastName    string     `json:"last_name" binding:"required"`
		Role        string     `json:"role" binding:"required"`
		SchoolID    *uuid.UUID `json:"school_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	// School staff can only create accounts inside their own school
	schoolID := req.SchoolID
	if own := GetSchoolID(c); own != nil {
		schoolID = own
	}

	user, err := h.userService.CreateUser(c.Request.Context(), GetUserRole(c), &service.CreateUserInput{
		PhoneNumber: req.PhoneNumber,
		Password:    req.Password,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Role:        enum.UserRole(req.Role),
		SchoolID:    schoolID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "User created successfully", user)
}

// Get handles getting a single account
func (h *UserHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid user ID")
		return
	}

	user, err := h.userService.GetUser(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "User retrieved successfully", user)
}

// Update handles updating an account
func (h *UserHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid user ID")
		return
	}

	var req struct {
		FirstName *string `json:"first_name"`
		LastName  *string `json:"last_name"`
		Role      *string `json:"role"`
		IsActive  *bool   `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	input := &service.UpdateUserInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		IsActive:  req.IsActive,
	}
	if req.Role != nil {
		role := enum.UserRole(*req.Role)
		input.Role = &role
	}

	user, err := h.userService.UpdateUser(c.Request.Context(), GetUserRole(c), id, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "User updated successfully", user)
}

// Delete handles deactivating an account
func (h *UserHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid user ID")
		return
	}

	if err := h.userService.DeleteUser(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
