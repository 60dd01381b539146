package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/maktabhq/maktab-api/internal/domain/entity"
	"github.com/maktabhq/maktab-api/internal/domain/enum"
	domainRepo "github.com/maktabhq/maktab-api/internal/domain/repository"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository creates a new report repository
func NewReportRepository(db *gorm.DB) domainRepo.ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) GetIncome(ctx context.Context, schoolID uuid.UUID, from, to time.Time) (decimal.Decimal, error) {
	var raw decimal.NullDecimal
	err := r.db.WithContext(ctx).Model(&entity.Payment{}).
		Joins("JOIN invoices ON invoices.id = payments.invoice_id").
		Where("invoices.school_id = ? AND payments.paid_at >= ? AND payments.paid_at <= ?", schoolID, from, to).
		Select("SUM(payments.amount)").
		Scan(&raw).Error
	if err != nil || !raw.Valid {
		return decimal.Zero, err
	}
	return raw.Decimal, nil
}

func (r *reportRepository) GetExpenseTotal(ctx context.Context, schoolID uuid.UUID, from, to time.Time) (decimal.Decimal, error) {
	var raw decimal.NullDecimal
	err := r.db.WithContext(ctx).Model(&entity.Expense{}).
		Where("school_id = ? AND expense_date >= ? AND expense_date <= ?", schoolID, from, to).
		Select("SUM(amount)").
		Scan(&raw).Error
	if err != nil || !raw.Valid {
		return decimal.Zero, err
	}
	return raw.Decimal, nil
}

func (r *reportRepository) GetOutstanding(ctx context.Context, schoolID uuid.UUID) (decimal.Decimal, error) {
	var raw decimal.NullDecimal
	err := r.db.WithContext(ctx).Model(&entity.Invoice{}).
		Where("invoices.school_id = ? AND invoices.status IN ?", schoolID, []enum.InvoiceStatus{
			enum.InvoiceStatusPending, enum.InvoiceStatusPartial, enum.InvoiceStatusOverdue,
		}).
		Select("SUM(invoices.amount - invoices.discount - COALESCE((SELECT SUM(p.amount) FROM payments p WHERE p.invoice_id = invoices.id), 0))").
		Scan(&raw).Error
	if err != nil || !raw.Valid {
		return decimal.Zero, err
	}
	return raw.Decimal, nil
}

func (r *reportRepository) GetMonthlyCashflow(ctx context.Context, schoolID uuid.UUID, months int) ([]domainRepo.MonthlyCashflowResult, error) {
	now := time.Now()
	results := make([]domainRepo.MonthlyCashflowResult, 0, months)

	// One month per iteration keeps the query portable across
	// postgres and the sqlite used in tests
	for i := months - 1; i >= 0; i-- {
		monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -i, 0)
		monthEnd := monthStart.AddDate(0, 1, 0).Add(-time.Nanosecond)

		income, err := r.GetIncome(ctx, schoolID, monthStart, monthEnd)
		if err != nil {
			return nil, err
		}
		expenses, err := r.GetExpenseTotal(ctx, schoolID, monthStart, monthEnd)
		if err != nil {
			return nil, err
		}

		results = append(results, domainRepo.MonthlyCashflowResult{
			Year:     monthStart.Year(),
			Month:    int(monthStart.Month()),
			Income:   income,
			Expenses: expenses,
		})
	}
	return results, nil
}

func (r *reportRepository) GetDebtors(ctx context.Context, schoolID uuid.UUID, limit int) ([]domainRepo.DebtorResult, error) {
	type row struct {
		StudentID    uuid.UUID
		FirstName    string
		LastName     string
		ParentPhone1 string `gorm:"column:parent_phone_1"`
		InvoiceCount int64
		TotalDue     decimal.Decimal
		TotalPaid    decimal.Decimal
	}
	var rows []row

	err := r.db.WithContext(ctx).Model(&entity.Invoice{}).
		Joins("JOIN students ON students.id = invoices.student_id").
		Where("invoices.school_id = ? AND invoices.status IN ?", schoolID, []enum.InvoiceStatus{
			enum.InvoiceStatusPending, enum.InvoiceStatusPartial, enum.InvoiceStatusOverdue,
		}).
		Select(`students.id AS student_id,
			students.first_name,
			students.last_name,
			students.parent_phone_1,
			COUNT(invoices.id) AS invoice_count,
			SUM(invoices.amount - invoices.discount) AS total_due,
			SUM(COALESCE((SELECT SUM(p.amount) FROM payments p WHERE p.invoice_id = invoices.id), 0)) AS total_paid`).
		Group("students.id, students.first_name, students.last_name, students.parent_phone_1").
		Order("total_due DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	debtors := make([]domainRepo.DebtorResult, 0, len(rows))
	for _, r := range rows {
		debtors = append(debtors, domainRepo.DebtorResult{
			StudentID:    r.StudentID,
			StudentName:  r.FirstName + " " + r.LastName,
			ParentPhone:  r.ParentPhone1,
			InvoiceCount: r.InvoiceCount,
			TotalDue:     r.TotalDue,
			TotalPaid:    r.TotalPaid,
		})
	}
	return debtors, nil
}

func (r *reportRepository) GetExpensesByCategory(ctx context.Context, schoolID uuid.UUID, from, to time.Time) ([]domainRepo.CategoryExpenseResult, error) {
	type row struct {
		CategoryID   uuid.UUID
		CategoryName string
		Total        decimal.Decimal
	}
	var rows []row

	err := r.db.WithContext(ctx).Model(&entity.Expense{}).
		Joins("JOIN expense_categories ON expense_categories.id = expenses.category_id").
		Where("expenses.school_id = ? AND expenses.expense_date >= ? AND expenses.expense_date <= ?", schoolID, from, to).
		Select("expense_categories.id AS category_id, expense_categories.name AS category_name, SUM(expenses.amount) AS total").
		Group("expense_categories.id, expense_categories.name").
		Order("total DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	results := make([]domainRepo.CategoryExpenseResult, 0, len(rows))
	for _, r := range rows {
		results = append(results, domainRepo.CategoryExpenseResult{
			CategoryID:   r.CategoryID,
			CategoryName: r.CategoryName,
			Total:        r.Total,
		})
	}
	return results, nil
}
