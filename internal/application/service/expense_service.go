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

// ExpenseCategoryService handles expense category management
type ExpenseCategoryService struct {
	categoryRepo repository.ExpenseCategoryRepository
}

// NewExpenseCategoryService creates a new category service
func NewExpenseCategoryService(categoryRepo repository.ExpenseCategoryRepository) *ExpenseCategoryService {
	return &ExpenseCategoryService{categoryRepo: categoryRepo}
}

// CreateCategory creates a school-owned expense category
func (s *ExpenseCategoryService) CreateCategory(ctx context.Context, name string) (*entity.ExpenseCategory, error) {
	schoolID, ok := infraRepo.GetSchoolID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("School context required")
	}
	if name == "" {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "name", Message: "Must not be empty"},
		})
	}

	category := &entity.ExpenseCategory{
		SchoolID: &schoolID,
		Name:     name,
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// UpdateCategory renames a school-owned category. System categories
// are shared and cannot be modified.
func (s *ExpenseCategoryService) UpdateCategory(ctx context.Context, id uuid.UUID, name string) (*entity.ExpenseCategory, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, apperror.NewNotFoundError("Expense category")
	}
	if category.IsSystem {
		return nil, apperror.NewForbiddenError("System categories cannot be modified")
	}

	category.Name = name
	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// ListCategories returns the school's categories plus system ones
func (s *ExpenseCategoryService) ListCategories(ctx context.Context) ([]entity.ExpenseCategory, error) {
	schoolID, ok := infraRepo.GetSchoolID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("School context required")
	}
	return s.categoryRepo.List(ctx, schoolID)
}

// DeleteCategory removes a school-owned category with no expenses.
// System categories cannot be deleted.
func (s *ExpenseCategoryService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if category == nil {
		return apperror.NewNotFoundError("Expense category")
	}
	if category.IsSystem {
		return apperror.NewForbiddenError("System categories cannot be deleted")
	}

	count, err := s.categoryRepo.CountExpenses(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return apperror.NewConflictError("Category has expenses and cannot be deleted")
	}

	return s.categoryRepo.Delete(ctx, id)
}

// ExpenseService handles one-off expense records
type ExpenseService struct {
	expenseRepo  repository.ExpenseRepository
	categoryRepo repository.ExpenseCategoryRepository
	employeeRepo repository.EmployeeRepository
}

// NewExpenseService creates a new expense service
func NewExpenseService(
	expenseRepo repository.ExpenseRepository,
	categoryRepo repository.ExpenseCategoryRepository,
	employeeRepo repository.EmployeeRepository,
) *ExpenseService {
	return &ExpenseService{
		expenseRepo:  expenseRepo,
		categoryRepo: categoryRepo,
		employeeRepo: employeeRepo,
	}
}

// CreateExpenseInput represents the create expense input
type CreateExpenseInput struct {
	CategoryID  uuid.UUID
	EmployeeID  *uuid.UUID
	Name        string
	Amount      decimal.Decimal
	ExpenseDate time.Time
	Note        *string
}

// CreateExpense records a new expense
func (s *ExpenseService) CreateExpense(ctx context.Context, createdByID uuid.UUID, input *CreateExpenseInput) (*entity.Expense, error) {
	schoolID, ok := infraRepo.GetSchoolID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("School context required")
	}

	if !input.Amount.IsPositive() {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "amount", Message: "Must be greater than zero"},
		})
	}

	category, err := s.categoryRepo.GetByID(ctx, input.CategoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, apperror.NewNotFoundError("Expense category")
	}

	if input.EmployeeID != nil {
		employee, err := s.employeeRepo.GetByID(ctx, *input.EmployeeID)
		if err != nil {
			return nil, err
		}
		if employee == nil {
			return nil, apperror.NewNotFoundError("Employee")
		}
	}

	expenseDate := input.ExpenseDate
	if expenseDate.IsZero() {
		expenseDate = time.Now()
	}

	expense := &entity.Expense{
		SchoolID:    schoolID,
		CategoryID:  input.CategoryID,
		EmployeeID:  input.EmployeeID,
		Name:        input.Name,
		Amount:      input.Amount,
		ExpenseDate: expenseDate,
		Note:        input.Note,
		CreatedByID: &createdByID,
	}
	if err := s.expenseRepo.Create(ctx, expense); err != nil {
		return nil, err
	}
	return expense, nil
}

// UpdateExpenseInput represents the update expense input
type UpdateExpenseInput struct {
	CategoryID  *uuid.UUID
	EmployeeID  *uuid.UUID
	Name        *string
	Amount      *decimal.Decimal
	ExpenseDate *time.Time
	Note        *string
}

// UpdateExpense updates an existing expense
func (s *ExpenseService) UpdateExpense(ctx context.Context, id uuid.UUID, input *UpdateExpenseInput) (*entity.Expense, error) {
	expense, err := s.expenseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if expense == nil {
		return nil, apperror.NewNotFoundError("Expense")
	}

	if input.CategoryID != nil {
		category, err := s.categoryRepo.GetByID(ctx, *input.CategoryID)
		if err != nil {
			return nil, err
		}
		if category == nil {
			return nil, apperror.NewNotFoundError("Expense category")
		}
		expense.CategoryID = *input.CategoryID
	}
	if input.EmployeeID != nil {
		expense.EmployeeID = input.EmployeeID
	}
	if input.Name != nil {
		expense.Name = *input.Name
	}
	if input.Amount != nil {
		if !input.Amount.IsPositive() {
			return nil, apperror.NewValidationError([]apperror.FieldError{
				{Field: "amount", Message: "Must be greater than zero"},
			})
		}
		expense.Amount = *input.Amount
	}
	if input.ExpenseDate != nil {
		expense.ExpenseDate = *input.ExpenseDate
	}
	if input.Note != nil {
		expense.Note = input.Note
	}

	if err := s.expenseRepo.Update(ctx, expense); err != nil {
		return nil, err
	}
	return expense, nil
}

// GetExpense returns a single expense
func (s *ExpenseService) GetExpense(ctx context.Context, id uuid.UUID) (*entity.Expense, error) {
	expense, err := s.expenseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if expense == nil {
		return nil, apperror.NewNotFoundError("Expense")
	}
	return expense, nil
}

// ListExpenses lists a school's expenses
func (s *ExpenseService) ListExpenses(ctx context.Context, params *pagination.PaginationParams, filter repository.ExpenseFilter) ([]entity.Expense, int64, error) {
	schoolID, ok := infraRepo.GetSchoolID(ctx)
	if !ok {
		return nil, 0, apperror.NewBadRequestError("School context required")
	}
	return s.expenseRepo.List(ctx, schoolID, params, filter)
}

// DeleteExpense removes an expense record
func (s *ExpenseService) DeleteExpense(ctx context.Context, id uuid.UUID) error {
	expense, err := s.expenseRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if expense == nil {
		return apperror.NewNotFoundError("Expense")
	}
	return s.expenseRepo.Delete(ctx, id)
}
