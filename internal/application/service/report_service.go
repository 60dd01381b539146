package service

import (
	"context"
	"time"

	"github.com/maktabhq/maktab-api/internal/domain/repository"
	infraRepo "github.com/maktabhq/maktab-api/internal/infrastructure/repository"
	"github.com/maktabhq/maktab-api/pkg/apperror"
	"github.com/shopspring/decimal"
)

// ReportService provides financial summaries for a school
type ReportService struct {
	reportRepo repository.ReportRepository
}

// NewReportService creates a new report service
func NewReportService(reportRepo repository.ReportRepository) *ReportService {
	return &ReportService{reportRepo: reportRepo}
}

// FinancialSummary represents income against expenses over a date range
type FinancialSummary struct {
	From        time.Time       `json:"from"`
	To          time.Time       `json:"to"`
	Income      decimal.Decimal `json:"income"`
	Expenses    decimal.Decimal `json:"expenses"`
	Net         decimal.Decimal `json:"net"`
	Outstanding decimal.Decimal `json:"outstanding"`
}

// GetFinancialSummary returns income, expenses and outstanding debt
// for the school over the given range
func (s *ReportService) GetFinancialSummary(ctx context.Context, from, to time.Time) (*FinancialSummary, error) {
	schoolID, ok := infraRepo.GetSchoolID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("School context required")
	}

	income, err := s.reportRepo.GetIncome(ctx, schoolID, from, to)
	if err != nil {
		return nil, err
	}
	expenses, err := s.reportRepo.GetExpenseTotal(ctx, schoolID, from, to)
	if err != nil {
		return nil, err
	}
	outstanding, err := s.reportRepo.GetOutstanding(ctx, schoolID)
	if err != nil {
		return nil, err
	}

	return &FinancialSummary{
		From:        from,
		To:          to,
		Income:      income,
		Expenses:    expenses,
		Net:         income.Sub(expenses),
		Outstanding: outstanding,
	}, nil
}

// GetMonthlyCashflow returns per-month income and expenses for the
// last N months
func (s *ReportService) GetMonthlyCashflow(ctx context.Context, months int) ([]repository.MonthlyCashflowResult, error) {
	schoolID, ok := infraRepo.GetSchoolID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("School context required")
	}
	if months < 1 || months > 36 {
		months = 12
	}
	return s.reportRepo.GetMonthlyCashflow(ctx, schoolID, months)
}

// GetDebtors returns students with unpaid invoice balances
func (s *ReportService) GetDebtors(ctx context.Context, limit int) ([]repository.DebtorResult, error) {
	schoolID, ok := infraRepo.GetSchoolID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("School context required")
	}
	if limit < 1 || limit > 500 {
		limit = 50
	}
	return s.reportRepo.GetDebtors(ctx, schoolID, limit)
}

// GetExpensesByCategory returns category expense totals over a range
func (s *ReportService) GetExpensesByCategory(ctx context.Context, from, to time.Time) ([]repository.CategoryExpenseResult, error) {
	schoolID, ok := infraRepo.GetSchoolID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("School context required")
	}
	return s.reportRepo.GetExpensesByCategory(ctx, schoolID, from, to)
}
