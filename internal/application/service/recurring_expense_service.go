package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/maktabhq/maktab-api/internal/domain/entity"
	"github.com/maktabhq/maktab-api/internal/domain/enum"
	"github.com/maktabhq/maktab-api/internal/domain/repository"
	infraRepo "github.com/maktabhq/maktab-api/internal/infrastructure/repository"
	"github.com/maktabhq/maktab-api/pkg/apperror"
	"github.com/maktabhq/maktab-api/pkg/pagination"
	"github.com/shopspring/decimal"
)

// RecurringExpenseService manages expense templates and generates
// expenses from them on their monthly, quarterly or yearly cadence
type RecurringExpenseService struct {
	recurringRepo repository.RecurringExpenseRepository
	categoryRepo  repository.ExpenseCategoryRepository
	employeeRepo  repository.EmployeeRepository
}

// NewRecurringExpenseService creates a new recurring expense service
func NewRecurringExpenseService(
	recurringRepo repository.RecurringExpenseRepository,
	categoryRepo repository.ExpenseCategoryRepository,
	employeeRepo repository.EmployeeRepository,
) *RecurringExpenseService {
	return &RecurringExpenseService{
		recurringRepo: recurringRepo,
		categoryRepo:  categoryRepo,
		employeeRepo:  employeeRepo,
	}
}

// CreateRecurringExpenseInput represents the create template input
type CreateRecurringExpenseInput struct {
	CategoryID uuid.UUID
	EmployeeID *uuid.UUID
	Name       string
	Amount     decimal.Decimal
	DayOfMonth int
	Recurrence enum.RecurrenceType
}

// CreateRecurringExpense creates a new expense template
func (s *RecurringExpenseService) CreateRecurringExpense(ctx context.Context, input *CreateRecurringExpenseInput) (*entity.RecurringExpense, error) {
	schoolID, ok := infraRepo.GetSchoolID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("School context required")
	}

	if err := validateRecurringFields(input.Amount, input.DayOfMonth, input.Recurrence); err != nil {
		return nil, err
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

	template := &entity.RecurringExpense{
		SchoolID:   schoolID,
		CategoryID: input.CategoryID,
		EmployeeID: input.EmployeeID,
		Name:       input.Name,
		Amount:     input.Amount,
		DayOfMonth: input.DayOfMonth,
		Recurrence: input.Recurrence,
		IsActive:   true,
	}
	if err := s.recurringRepo.Create(ctx, template); err != nil {
		return nil, err
	}
	return template, nil
}

// UpdateRecurringExpenseInput represents the update template input
type UpdateRecurringExpenseInput struct {
	CategoryID *uuid.UUID
	EmployeeID *uuid.UUID
	Name       *string
	Amount     *decimal.Decimal
	DayOfMonth *int
	Recurrence *enum.RecurrenceType
	IsActive   *bool
}

// UpdateRecurringExpense updates an expense template
func (s *RecurringExpenseService) UpdateRecurringExpense(ctx context.Context, id uuid.UUID, input *UpdateRecurringExpenseInput) (*entity.RecurringExpense, error) {
	template, err := s.recurringRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if template == nil {
		return nil, apperror.NewNotFoundError("Recurring expense")
	}

	if input.CategoryID != nil {
		category, err := s.categoryRepo.GetByID(ctx, *input.CategoryID)
		if err != nil {
			return nil, err
		}
		if category == nil {
			return nil, apperror.NewNotFoundError("Expense category")
		}
		template.CategoryID = *input.CategoryID
	}
	if input.EmployeeID != nil {
		template.EmployeeID = input.EmployeeID
	}
	if input.Name != nil {
		template.Name = *input.Name
	}
	if input.Amount != nil {
		template.Amount = *input.Amount
	}
	if input.DayOfMonth != nil {
		template.DayOfMonth = *input.DayOfMonth
	}
	if input.Recurrence != nil {
		template.Recurrence = *input.Recurrence
	}
	if input.IsActive != nil {
		template.IsActive = *input.IsActive
	}

	if err := validateRecurringFields(template.Amount, template.DayOfMonth, template.Recurrence); err != nil {
		return nil, err
	}

	if err := s.recurringRepo.Update(ctx, template); err != nil {
		return nil, err
	}
	return template, nil
}

// GetRecurringExpense returns a single template
func (s *RecurringExpenseService) GetRecurringExpense(ctx context.Context, id uuid.UUID) (*entity.RecurringExpense, error) {
	template, err := s.recurringRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if template == nil {
		return nil, apperror.NewNotFoundError("Recurring expense")
	}
	return template, nil
}

// ListRecurringExpenses lists a school's templates
func (s *RecurringExpenseService) ListRecurringExpenses(ctx context.Context, params *pagination.PaginationParams) ([]entity.RecurringExpense, int64, error) {
	schoolID, ok := infraRepo.GetSchoolID(ctx)
	if !ok {
		return nil, 0, apperror.NewBadRequestError("School context required")
	}
	return s.recurringRepo.List(ctx, schoolID, params)
}

// DeleteRecurringExpense removes a template. Expenses already
// generated from it are kept.
func (s *RecurringExpenseService) DeleteRecurringExpense(ctx context.Context, id uuid.UUID) error {
	template, err := s.recurringRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if template == nil {
		return apperror.NewNotFoundError("Recurring expense")
	}
	return s.recurringRepo.Delete(ctx, id)
}

// GetDue returns the active templates that should generate an expense
// for the period containing the given date
func (s *RecurringExpenseService) GetDue(ctx context.Context, asOf time.Time) ([]entity.RecurringExpense, error) {
	schoolID, ok := infraRepo.GetSchoolID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("School context required")
	}

	templates, err := s.recurringRepo.ListActive(ctx, schoolID)
	if err != nil {
		return nil, err
	}

	due := make([]entity.RecurringExpense, 0, len(templates))
	for _, t := range templates {
		if t.IsDue(asOf) {
			due = append(due, t)
		}
	}
	return due, nil
}

// Generate creates expenses for every due template. A template that
// already generated in the current period is skipped, so running the
// scheduler twice in one day produces nothing new. The whole batch and
// the template timestamps commit in one transaction.
func (s *RecurringExpenseService) Generate(ctx context.Context, actorID uuid.UUID, asOf time.Time) ([]entity.Expense, error) {
	due, err := s.GetDue(ctx, asOf)
	if err != nil {
		return nil, err
	}

	expenses := make([]*entity.Expense, 0, len(due))
	for i := range due {
		template := &due[i]
		expenses = append(expenses, &entity.Expense{
			SchoolID:           template.SchoolID,
			CategoryID:         template.CategoryID,
			EmployeeID:         template.EmployeeID,
			RecurringExpenseID: &template.ID,
			Name:               template.Name,
			Amount:             template.Amount,
			ExpenseDate:        template.DueDateIn(asOf),
			CreatedByID:        &actorID,
		})
	}
	if err := s.recurringRepo.GenerateExpenses(ctx, expenses, asOf); err != nil {
		return nil, err
	}

	generated := make([]entity.Expense, 0, len(expenses))
	for _, expense := range expenses {
		generated = append(generated, *expense)
	}
	return generated, nil
}

func validateRecurringFields(amount decimal.Decimal, dayOfMonth int, recurrence enum.RecurrenceType) error {
	var fieldErrors []apperror.FieldError
	if !amount.IsPositive() {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "amount", Message: "Must be greater than zero"})
	}
	if dayOfMonth < 1 || dayOfMonth > 31 {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "day_of_month", Message: "Must be between 1 and 31"})
	}
	if !recurrence.Valid() {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "recurrence", Message: "Must be monthly, quarterly or yearly"})
	}
	if len(fieldErrors) > 0 {
		return apperror.NewValidationError(fieldErrors)
	}
	return nil
}
