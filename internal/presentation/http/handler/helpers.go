package handler

import (
	"context"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/maktabhq/maktab-api/internal/domain/enum"
	infraRepo "github.com/maktabhq/maktab-api/internal/infrastructure/repository"
	"github.com/maktabhq/maktab-api/pkg/pagination"
)

// GetUserID extracts the user ID from the Gin context
func GetUserID(c *gin.Context) *uuid.UUID {
	userIDVal, exists := c.Get("user_id")
	if !exists {
		return nil
	}
	userID, ok := userIDVal.(uuid.UUID)
	if !ok {
		return nil
	}
	return &userID
}

// GetUserRole extracts the user role from the Gin context
func GetUserRole(c *gin.Context) enum.UserRole {
	roleVal, exists := c.Get("user_role")
	if !exists {
		return ""
	}
	role, ok := roleVal.(enum.UserRole)
	if !ok {
		return ""
	}
	return role
}

// GetSchoolID extracts the caller's school ID from the Gin context
func GetSchoolID(c *gin.Context) *uuid.UUID {
	schoolIDVal, exists := c.Get("school_id")
	if !exists {
		return nil
	}
	schoolID, ok := schoolIDVal.(uuid.UUID)
	if !ok {
		return nil
	}
	return &schoolID
}

// IsSuperuser checks if the caller has a platform role
func IsSuperuser(c *gin.Context) bool {
	return GetUserRole(c).IsSuperuser()
}

// requestContext builds the school-scoped context for repositories.
// School accounts are pinned to their own school. Platform accounts
// see everything, or a single school when ?school_id= is given.
func requestContext(c *gin.Context) context.Context {
	ctx := c.Request.Context()

	if schoolID := GetSchoolID(c); schoolID != nil {
		return infraRepo.WithSchool(ctx, *schoolID)
	}

	if IsSuperuser(c) {
		if schoolIDStr := c.Query("school_id"); schoolIDStr != "" {
			if schoolID, err := uuid.Parse(schoolIDStr); err == nil {
				return infraRepo.WithSchool(ctx, schoolID)
			}
		}
		return infraRepo.WithSkipSchoolScope(ctx, true)
	}

	return ctx
}

// paginationParams reads page/per_page query parameters
func paginationParams(c *gin.Context) *pagination.PaginationParams {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))
	return &pagination.PaginationParams{Page: page, PerPage: perPage}
}

// parseDateQuery reads an optional YYYY-MM-DD query parameter
func parseDateQuery(c *gin.Context, name string) *time.Time {
	value := c.Query(name)
	if value == "" {
		return nil
	}
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil
	}
	return &parsed
}
