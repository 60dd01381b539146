package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MonthlyCashflowResult represents income and expenses for one month
type MonthlyCashflowResult struct {
	Year     int
	Month    int
	Income   decimal.Decimal
	Expenses decimal.Decimal
}

// DebtorResult represents a student with outstanding invoices
type DebtorResult struct {
	StudentID    uuid.UUID
	StudentName  string
	ParentPhone  string
	InvoiceCount int64
	TotalDue     decimal.Decimal
	TotalPaid    decimal.Decimal
}

// CategoryExpenseResult represents expenses aggregated by category
type CategoryExpenseResult struct {
	CategoryID   uuid.UUID
	CategoryName string
	Total        decimal.Decimal
}

// ReportRepository defines the interface for financial aggregation queries
type ReportRepository interface {
	// GetIncome returns the payment total for a school within a date range
	GetIncome(ctx context.Context, schoolID uuid.UUID, from, to time.Time) (decimal.Decimal, error)

	// GetExpenseTotal returns the expense total for a school within a date range
	GetExpenseTotal(ctx context.Context, schoolID uuid.UUID, from, to time.Time) (decimal.Decimal, error)

	// GetOutstanding returns the unpaid remainder across a school's
	// pending, partial and overdue invoices
	GetOutstanding(ctx context.Context, schoolID uuid.UUID) (decimal.Decimal, error)

	// GetMonthlyCashflow returns per-month income and expenses for the last N months
	GetMonthlyCashflow(ctx context.Context, schoolID uuid.UUID, months int) ([]MonthlyCashflowResult, error)

	// GetDebtors returns students with unpaid invoice balances
	GetDebtors(ctx context.Context, schoolID uuid.UUID, limit int) ([]DebtorResult, error)

	// GetExpensesByCategory returns expenses grouped by category within a date range
	GetExpensesByCategory(ctx context.Context, schoolID uuid.UUID, from, to time.Time) ([]CategoryExpenseResult, error)
}
