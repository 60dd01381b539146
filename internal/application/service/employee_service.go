package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/maktabhq/maktab-api/internal/domain/entity"
	"github.com/maktabhq/maktab-api/internal/domain/repository"
	infraRepo "github.com/maktabhq/maktab-api/internal/infrastructure/repository"
	"github.com/maktabhq/maktab-api/pkg/apperror"
	"github.com/maktabhq/maktab-api/pkg/pagination"
	"github.com/shopspring/decimal"
)

// EmployeeService handles school staff management
type EmployeeService struct {
	employeeRepo repository.EmployeeRepository
}

// NewEmployeeService creates a new employee service
func NewEmployeeService(employeeRepo repository.EmployeeRepository) *EmployeeService {
	return &EmployeeService{employeeRepo: employeeRepo}
}

// CreateEmployeeInput represents the create employee input
type CreateEmployeeInput struct {
	FirstName string
	LastName  string
	Phone     *string
	Position  string
	Salary    decimal.Decimal
	HiredAt   time.Time
}

// CreateEmployee creates a new employee
func (s *EmployeeService) CreateEmployee(ctx context.Context, input *CreateEmployeeInput) (*entity.Employee, error) {
	schoolID, ok := infraRepo.GetSchoolID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("School context required")
	}

	if input.Salary.IsNegative() {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "salary", Message: "Must not be negative"},
		})
	}

	hiredAt := input.HiredAt
	if hiredAt.IsZero() {
		hiredAt = time.Now()
	}

	employee := &entity.Employee{
		SchoolID:  schoolID,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Phone:     input.Phone,
		Position:  input.Position,
		Salary:    input.Salary,
		HiredAt:   hiredAt,
		IsActive:  true,
	}
	if err := s.employeeRepo.Create(ctx, employee); err != nil {
		return nil, err
	}
	return employee, nil
}

// UpdateEmployeeInput represents the update employee input
type UpdateEmployeeInput struct {
	FirstName *string
	LastName  *string
	Phone     *string
	Position  *string
	Salary    *decimal.Decimal
	IsActive  *bool
}

// UpdateEmployee updates an existing employee
func (s *EmployeeService) UpdateEmployee(ctx context.Context, id uuid.UUID, input *UpdateEmployeeInput) (*entity.Employee, error) {
	employee, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if employee == nil {
		return nil, apperror.NewNotFoundError("Employee")
	}

	if input.FirstName != nil {
		employee.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		employee.LastName = *input.LastName
	}
	if input.Phone != nil {
		employee.Phone = input.Phone
	}
	if input.Position != nil {
		employee.Position = *input.Position
	}
	if input.Salary != nil {
		if input.Salary.IsNegative() {
			return nil, apperror.NewValidationError([]apperror.FieldError{
				{Field: "salary", Message: "Must not be negative"},
			})
		}
		employee.Salary = *input.Salary
	}
	if input.IsActive != nil {
		employee.IsActive = *input.IsActive
	}

	if err := s.employeeRepo.Update(ctx, employee); err != nil {
		return nil, err
	}
	return employee, nil
}

// GetEmployee returns a single employee
func (s *EmployeeService) GetEmployee(ctx context.Context, id uuid.UUID) (*entity.Employee, error) {
	employee, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if employee == nil {
		return nil, apperror.NewNotFoundError("Employee")
	}
	return employee, nil
}

// ListEmployees lists a school's employees
func (s *EmployeeService) ListEmployees(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.Employee, int64, error) {
	schoolID, ok := infraRepo.GetSchoolID(ctx)
	if !ok {
		return nil, 0, apperror.NewBadRequestError("School context required")
	}
	return s.employeeRepo.List(ctx, schoolID, params, search)
}

// DeleteEmployee deactivates an employee, keeping expense history intact
func (s *EmployeeService) DeleteEmployee(ctx context.Context, id uuid.UUID) error {
	employee, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if employee == nil {
		return apperror.NewNotFoundError("Employee")
	}
	employee.IsActive = false
	return s.employeeRepo.Update(ctx, employee)
}
