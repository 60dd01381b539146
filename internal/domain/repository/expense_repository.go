package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/maktabhq/maktab-api/internal/domain/entity"
	"github.com/maktabhq/maktab-api/pkg/pagination"
)

// ExpenseCategoryRepository defines the interface for category data operations
type ExpenseCategoryRepository interface {
	Create(ctx context.Context, category *entity.ExpenseCategory) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.ExpenseCategory, error)
	Update(ctx context.Context, category *entity.ExpenseCategory) error
	Delete(ctx context.Context, id uuid.UUID) error
	// List returns the school's own categories plus shared system categories
	List(ctx context.Context, schoolID uuid.UUID) ([]entity.ExpenseCategory, error)
	CountExpenses(ctx context.Context, categoryID uuid.UUID) (int64, error)
}

// EmployeeRepository defines the interface for employee data operations
type EmployeeRepository interface {
	Create(ctx context.Context, employee *entity.Employee) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Employee, error)
	Update(ctx context.Context, employee *entity.Employee) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, schoolID uuid.UUID, params *pagination.PaginationParams, search string) ([]entity.Employee, int64, error)
}

// ExpenseFilter narrows expense listings
type ExpenseFilter struct {
	CategoryID *uuid.UUID
	From       *time.Time
	To         *time.Time
}

// ExpenseRepository defines the interface for expense data operations
type ExpenseRepository interface {
	Create(ctx context.Context, expense *entity.Expense) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Expense, error)
	Update(ctx context.Context, expense *entity.Expense) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, schoolID uuid.UUID, params *pagination.PaginationParams, filter ExpenseFilter) ([]entity.Expense, int64, error)
}

// RecurringExpenseRepository defines the interface for recurring
// expense template operations
type RecurringExpenseRepository interface {
	Create(ctx context.Context, template *entity.RecurringExpense) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.RecurringExpense, error)
	Update(ctx context.Context, template *entity.RecurringExpense) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, schoolID uuid.UUID, params *pagination.PaginationParams) ([]entity.RecurringExpense, int64, error)
	// ListActive returns every active template for a school
	ListActive(ctx context.Context, schoolID uuid.UUID) ([]entity.RecurringExpense, error)
	// GenerateExpenses inserts every expense and stamps each owning
	// template's last_generated_at in one transaction. A failure on any
	// row rolls back the whole batch.
	GenerateExpenses(ctx context.Context, expenses []*entity.Expense, generatedAt time.Time) error
}
