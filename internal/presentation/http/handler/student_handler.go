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

// StudentHandler handles student HTTP requests
type StudentHandler struct {
	studentService *service.StudentService
}

// NewStudentHandler creates a new student handler
func NewStudentHandler(studentService *service.StudentService) *StudentHandler {
	return &StudentHandler{studentService: studentService}
}

// List handles listing students
func (h *StudentHandler) List(c *gin.Context) {
	params := paginationParams(c)

	filter := repository.StudentFilter{
		Search:     c.Query("search"),
		ActiveOnly: c.Query("active") == "true",
	}
	if classIDStr := c.Query("class_id"); classIDStr != "" {
		if classID, err := uuid.Parse(classIDStr); err == nil {
			filter.ClassID = &classID
		}
	}

	students, total, err := h.studentService.ListStudents(requestContext(c), params, filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	result := pagination.NewPaginatedResult(students, pagination.NewPagination(params.Page, params.PerPage, total))
	response.SuccessWithPagination(c, 200, "Students retrieved successfully", result)
}

// Create handles enrolling a student
func (h *StudentHandler) Create(c *gin.Context) {
	var req struct {
		SchoolClassID   *uuid.UUID      `json:"school_class_id"`
		FirstName       string          `json:"first_name" binding:"required"`
		LastName        string          `json:"last_name" binding:"required"`
		Phone           *string         `json:"phone"`
		ParentFirstName string          `json:"parent_first_name" binding:"required"`
		ParentLastName  string          `json:"parent_last_name" binding:"required"`
		ParentPhone1    string          `json:"parent_phone_1" binding:"required"`
		ParentPhone2    *string         `json:"parent_phone_2"`
		MonthlyFee      decimal.Decimal `json:"monthly_fee" binding:"required"`
		PaymentDay      int             `json:"payment_day" binding:"required"`
		EnrolledAt      time.Time       `json:"enrolled_at"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	student, err := h.studentService.CreateStudent(requestContext(c), &service.CreateStudentInput{
		SchoolClassID:   req.SchoolClassID,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Phone:           req.Phone,
		ParentFirstName: req.ParentFirstName,
		ParentLastName:  req.ParentLastName,
		ParentPhone1:    req.ParentPhone1,
		ParentPhone2:    req.ParentPhone2,
		MonthlyFee:      req.MonthlyFee,
		PaymentDay:      req.PaymentDay,
		EnrolledAt:      req.EnrolledAt,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Student enrolled successfully", student)
}

// Get handles getting a single student
func (h *StudentHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid student ID")
		return
	}

	student, err := h.studentService.GetStudent(requestContext(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Student retrieved successfully", student)
}

// Update handles updating a student
func (h *StudentHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid student ID")
		return
	}

	var req struct {
		SchoolClassID   *uuid.UUID       `json:"school_class_id"`
		FirstName       *string          `json:"first_name"`
		LastName        *string          `json:"last_name"`
		Phone           *string          `json:"phone"`
		ParentFirstName *string          `json:"parent_first_name"`
		ParentLastName  *string          `json:"parent_last_name"`
		ParentPhone1    *string          `json:"parent_phone_1"`
		ParentPhone2    *string          `json:"parent_phone_2"`
		MonthlyFee      *decimal.Decimal `json:"monthly_fee"`
		PaymentDay      *int             `json:"payment_day"`
		IsActive        *bool            `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	student, err := h.studentService.UpdateStudent(requestContext(c), id, &service.UpdateStudentInput{
		SchoolClassID:   req.SchoolClassID,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Phone:           req.Phone,
		ParentFirstName: req.ParentFirstName,
		ParentLastName:  req.ParentLastName,
		ParentPhone1:    req.ParentPhone1,
		ParentPhone2:    req.ParentPhone2,
		MonthlyFee:      req.MonthlyFee,
		PaymentDay:      req.PaymentDay,
		IsActive:        req.IsActive,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Student updated successfully", student)
}

// Graduate marks a student as graduated
func (h *StudentHandler) Graduate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid student ID")
		return
	}

	var req struct {
		GraduatedAt time.Time `json:"graduated_at"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	student, err := h.studentService.GraduateStudent(requestContext(c), id, req.GraduatedAt)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Student graduated successfully", student)
}

// Delete handles deactivating a student
func (h *StudentHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid student ID")
		return
	}

	if err := h.studentService.DeleteStudent(requestContext(c), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
