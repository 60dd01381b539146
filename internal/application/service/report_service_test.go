package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/maktabhq/maktab-api/internal/domain/entity"
	"github.com/maktabhq/maktab-api/internal/domain/enum"
	infraRepo "github.com/maktabhq/maktab-api/internal/infrastructure/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newReportService(db *gorm.DB) *ReportService {
	return NewReportService(infraRepo.NewReportRepository(db))
}

func seedInvoiceWithPayment(t *testing.T, db *gorm.DB, schoolID, studentID, userID uuid.UUID, amount, paid string, status enum.InvoiceStatus, periodStart time.Time) *entity.Invoice {
	invoice := &entity.Invoice{
		SchoolID:    schoolID,
		StudentID:   studentID,
		Amount:      mustDecimal(t, amount),
		PeriodStart: periodStart,
		PeriodEnd:   periodStart.AddDate(0, 1, -1),
		DueDate:     periodStart.AddDate(0, 0, 4),
		Status:      status,
	}
	require.NoError(t, db.Create(invoice).Error)

	if paid != "" {
		payment := &entity.Payment{
			InvoiceID:    invoice.ID,
			Amount:       mustDecimal(t, paid),
			Method:       enum.PaymentMethodCash,
			PaidAt:       periodStart.AddDate(0, 0, 2),
			ReceivedByID: userID,
		}
		require.NoError(t, db.Create(payment).Error)
	}
	return invoice
}

func TestReportServiceFinancialSummary(t *testing.T) {
	db := setupTestDB(t)
	school := seedSchool(t, db)
	user := seedUser(t, db, school.ID)
	student := seedStudent(t, db, school.ID, "1000000")
	ctx := schoolCtx(school.ID)
	svc := newReportService(db)

	march := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	april := time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)

	// Paid in full in March, partially paid in April
	seedInvoiceWithPayment(t, db, school.ID, student.ID, user.ID, "1000000", "1000000", enum.InvoiceStatusPaid, march)
	seedInvoiceWithPayment(t, db, school.ID, student.ID, user.ID, "1000000", "400000", enum.InvoiceStatusPartial, april)

	category := seedCategory(t, db, school.ID, "Rent")
	expense := &entity.Expense{
		SchoolID:    school.ID,
		CategoryID:  category.ID,
		Name:        "March rent",
		Amount:      mustDecimal(t, "300000"),
		ExpenseDate: march.AddDate(0, 0, 9),
	}
	require.NoError(t, db.Create(expense).Error)

	t.Run("march only", func(t *testing.T) {
		summary, err := svc.GetFinancialSummary(ctx, march, march.AddDate(0, 1, -1))
		require.NoError(t, err)

		assert.True(t, summary.Income.Equal(mustDecimal(t, "1000000")), "income = %s", summary.Income)
		assert.True(t, summary.Expenses.Equal(mustDecimal(t, "300000")), "expenses = %s", summary.Expenses)
		assert.True(t, summary.Net.Equal(mustDecimal(t, "700000")), "net = %s", summary.Net)
		// Only the April invoice still carries a balance
		assert.True(t, summary.Outstanding.Equal(mustDecimal(t, "600000")), "outstanding = %s", summary.Outstanding)
	})

	t.Run("both months", func(t *testing.T) {
		summary, err := svc.GetFinancialSummary(ctx, march, april.AddDate(0, 1, -1))
		require.NoError(t, err)

		assert.True(t, summary.Income.Equal(mustDecimal(t, "1400000")), "income = %s", summary.Income)
	})

	t.Run("requires school context", func(t *testing.T) {
		_, err := svc.GetFinancialSummary(context.Background(), march, april)
		assert.Error(t, err)
	})
}

func TestReportServiceDebtors(t *testing.T) {
	db := setupTestDB(t)
	school := seedSchool(t, db)
	user := seedUser(t, db, school.ID)
	ctx := schoolCtx(school.ID)
	svc := newReportService(db)

	march := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	april := time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)

	bigDebtor := seedStudent(t, db, school.ID, "2000000")
	smallDebtor := &entity.Student{
		SchoolID:        school.ID,
		FirstName:       "Malika",
		LastName:        "Yusupova",
		ParentFirstName: "Shavkat",
		ParentLastName:  "Yusupov",
		ParentPhone1:    "+998903334455",
		MonthlyFee:      mustDecimal(t, "500000"),
		PaymentDay:      5,
		EnrolledAt:      march,
		IsActive:        true,
	}
	require.NoError(t, db.Create(smallDebtor).Error)

	seedInvoiceWithPayment(t, db, school.ID, bigDebtor.ID, user.ID, "2000000", "", enum.InvoiceStatusOverdue, march)
	seedInvoiceWithPayment(t, db, school.ID, bigDebtor.ID, user.ID, "2000000", "500000", enum.InvoiceStatusPartial, april)
	seedInvoiceWithPayment(t, db, school.ID, smallDebtor.ID, user.ID, "500000", "", enum.InvoiceStatusPending, april)

	debtors, err := svc.GetDebtors(ctx, 10)
	require.NoError(t, err)
	require.Len(t, debtors, 2)

	// Largest total due first
	assert.Equal(t, bigDebtor.ID, debtors[0].StudentID)
	assert.Equal(t, "Aziz Karimov", debtors[0].StudentName)
	assert.Equal(t, "+998901112233", debtors[0].ParentPhone)
	assert.Equal(t, int64(2), debtors[0].InvoiceCount)
	assert.True(t, debtors[0].TotalDue.Equal(mustDecimal(t, "4000000")), "total due = %s", debtors[0].TotalDue)
	assert.True(t, debtors[0].TotalPaid.Equal(mustDecimal(t, "500000")), "total paid = %s", debtors[0].TotalPaid)

	assert.Equal(t, smallDebtor.ID, debtors[1].StudentID)
	assert.True(t, debtors[1].TotalDue.Equal(mustDecimal(t, "500000")))
}

func TestReportServiceExpensesByCategory(t *testing.T) {
	db := setupTestDB(t)
	school := seedSchool(t, db)
	ctx := schoolCtx(school.ID)
	svc := newReportService(db)

	march := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	rent := seedCategory(t, db, school.ID, "Rent")
	supplies := seedCategory(t, db, school.ID, "Supplies")

	for _, e := range []struct {
		category uuid.UUID
		name     string
		amount   string
		day      int
	}{
		{rent.ID, "March rent", "3000000", 5},
		{supplies.ID, "Chalk", "50000", 10},
		{supplies.ID, "Notebooks", "150000", 12},
	} {
		expense := &entity.Expense{
			SchoolID:    school.ID,
			CategoryID:  e.category,
			Name:        e.name,
			Amount:      mustDecimal(t, e.amount),
			ExpenseDate: march.AddDate(0, 0, e.day-1),
		}
		require.NoError(t, db.Create(expense).Error)
	}

	breakdown, err := svc.GetExpensesByCategory(ctx, march, march.AddDate(0, 1, -1))
	require.NoError(t, err)
	require.Len(t, breakdown, 2)

	assert.Equal(t, "Rent", breakdown[0].CategoryName)
	assert.True(t, breakdown[0].Total.Equal(mustDecimal(t, "3000000")))
	assert.Equal(t, "Supplies", breakdown[1].CategoryName)
	assert.True(t, breakdown[1].Total.Equal(mustDecimal(t, "200000")))
}

func TestReportServiceCashflowClampsMonths(t *testing.T) {
	db := setupTestDB(t)
	school := seedSchool(t, db)
	ctx := schoolCtx(school.ID)
	svc := newReportService(db)

	cashflow, err := svc.GetMonthlyCashflow(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, cashflow, 12)

	cashflow, err = svc.GetMonthlyCashflow(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, cashflow, 3)
}
