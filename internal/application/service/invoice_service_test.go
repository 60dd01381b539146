package service

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/maktabhq/maktab-api/internal/domain/entity"
	"github.com/maktabhq/maktab-api/internal/domain/enum"
	infraRepo "github.com/maktabhq/maktab-api/internal/infrastructure/repository"
	"github.com/maktabhq/maktab-api/pkg/apperror"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newInvoiceService(db *gorm.DB) *InvoiceService {
	return NewInvoiceService(
		infraRepo.NewInvoiceRepository(db),
		infraRepo.NewPaymentRepository(db),
		infraRepo.NewStudentRepository(db),
	)
}

func monthlyRun(month time.Time, studentIDs ...uuid.UUID) *GenerateInvoicesInput {
	start := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)
	return &GenerateInvoicesInput{
		PeriodStart: start,
		PeriodEnd:   start.AddDate(0, 1, -1),
		StudentIDs:  studentIDs,
	}
}

func TestInvoiceServiceGenerateInvoices(t *testing.T) {
	db := setupTestDB(t)
	school := seedSchool(t, db)
	ctx := schoolCtx(school.ID)
	svc := newInvoiceService(db)

	month := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)

	students := make([]*entity.Student, 0, 3)
	for i := 0; i < 3; i++ {
		students = append(students, seedStudent(t, db, school.ID, "1000000"))
	}

	t.Run("creates one invoice per billable student", func(t *testing.T) {
		result, err := svc.GenerateInvoices(ctx, monthlyRun(month))
		require.NoError(t, err)
		assert.Equal(t, 3, result.Created)
		assert.Equal(t, 0, result.Skipped)

		var invoices []entity.Invoice
		require.NoError(t, db.Find(&invoices).Error)
		require.Len(t, invoices, 3)
		for _, inv := range invoices {
			assert.Equal(t, enum.InvoiceStatusPending, inv.Status)
			assert.Equal(t, time.March, inv.PeriodStart.Month())
			assert.Equal(t, 1, inv.PeriodStart.Day())
			assert.Equal(t, 31, inv.PeriodEnd.Day())
			assert.Equal(t, 5, inv.DueDate.Day())
			assert.True(t, inv.Amount.Equal(mustDecimal(t, "1000000")))
		}
	})

	t.Run("second run for the same month creates nothing", func(t *testing.T) {
		result, err := svc.GenerateInvoices(ctx, monthlyRun(month))
		require.NoError(t, err)
		assert.Equal(t, 0, result.Created)
		assert.Equal(t, 3, result.Skipped)

		var count int64
		require.NoError(t, db.Model(&entity.Invoice{}).Count(&count).Error)
		assert.Equal(t, int64(3), count)
	})

	t.Run("next month generates a fresh batch", func(t *testing.T) {
		result, err := svc.GenerateInvoices(ctx, monthlyRun(month.AddDate(0, 1, 0)))
		require.NoError(t, err)
		assert.Equal(t, 3, result.Created)
	})

	t.Run("graduated students are skipped entirely", func(t *testing.T) {
		graduatedAt := time.Date(2025, time.April, 30, 0, 0, 0, 0, time.UTC)
		students[0].GraduatedAt = &graduatedAt
		students[0].IsActive = false
		require.NoError(t, db.Save(students[0]).Error)

		result, err := svc.GenerateInvoices(ctx, monthlyRun(month.AddDate(0, 2, 0)))
		require.NoError(t, err)
		assert.Equal(t, 2, result.Created)
	})

	t.Run("restricts to the requested students", func(t *testing.T) {
		result, err := svc.GenerateInvoices(ctx, monthlyRun(month.AddDate(0, 3, 0), students[1].ID))
		require.NoError(t, err)
		assert.Equal(t, 1, result.Created)
		require.Len(t, result.Invoices, 1)
		assert.Equal(t, students[1].ID, result.Invoices[0].StudentID)
	})
}

func TestInvoiceServiceGenerateExplicitPeriod(t *testing.T) {
	db := setupTestDB(t)
	school := seedSchool(t, db)
	ctx := schoolCtx(school.ID)
	svc := newInvoiceService(db)

	seedStudent(t, db, school.ID, "1000000")
	seedStudent(t, db, school.ID, "1500000")

	periodStart := time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC)
	periodEnd := time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC)
	dueDate := time.Date(2025, time.September, 10, 0, 0, 0, 0, time.UTC)

	t.Run("honors the caller's period and due date", func(t *testing.T) {
		result, err := svc.GenerateInvoices(ctx, &GenerateInvoicesInput{
			PeriodStart: periodStart,
			PeriodEnd:   periodEnd,
			DueDate:     &dueDate,
		})
		require.NoError(t, err)
		assert.Equal(t, 2, result.Created)
		for _, inv := range result.Invoices {
			assert.True(t, inv.PeriodStart.Equal(periodStart))
			assert.True(t, inv.PeriodEnd.Equal(periodEnd))
			assert.True(t, inv.DueDate.Equal(dueDate))
		}
	})

	t.Run("rejects an inverted period", func(t *testing.T) {
		_, err := svc.GenerateInvoices(ctx, &GenerateInvoicesInput{
			PeriodStart: periodEnd,
			PeriodEnd:   periodStart,
		})
		require.Error(t, err)
		assert.Equal(t, 422, apperror.GetAppError(err).Code)
	})

	t.Run("rejects a due date before the period", func(t *testing.T) {
		early := periodStart.AddDate(0, 0, -1)
		_, err := svc.GenerateInvoices(ctx, &GenerateInvoicesInput{
			PeriodStart: periodStart,
			PeriodEnd:   periodEnd,
			DueDate:     &early,
		})
		require.Error(t, err)
	})
}

func TestInvoiceBatchCollisionDetection(t *testing.T) {
	db := setupTestDB(t)
	school := seedSchool(t, db)
	ctx := schoolCtx(school.ID)
	student := seedStudent(t, db, school.ID, "1000000")
	repo := infraRepo.NewInvoiceRepository(db)

	mk := func() entity.Invoice {
		return entity.Invoice{
			SchoolID:    school.ID,
			StudentID:   student.ID,
			Amount:      mustDecimal(t, "1000000"),
			Discount:    decimal.Zero,
			PeriodStart: time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC),
			PeriodEnd:   time.Date(2025, time.March, 31, 0, 0, 0, 0, time.UTC),
			DueDate:     time.Date(2025, time.March, 5, 0, 0, 0, 0, time.UTC),
			Status:      enum.InvoiceStatusPending,
		}
	}
	require.NoError(t, repo.CreateBatch(ctx, []entity.Invoice{mk()}))

	err := repo.CreateBatch(ctx, []entity.Invoice{mk()})
	require.Error(t, err)
	assert.True(t, infraRepo.IsDuplicateKey(err))
	assert.False(t, infraRepo.IsDuplicateKey(errors.New("connection reset by peer")))
}

func TestInvoiceServiceGenerateAppliesDiscounts(t *testing.T) {
	db := setupTestDB(t)
	school := seedSchool(t, db)
	ctx := schoolCtx(school.ID)
	svc := newInvoiceService(db)

	student := seedStudent(t, db, school.ID, "1000000")
	discount := &entity.Discount{
		SchoolID: school.ID,
		Name:     "Sibling",
		Type:     enum.DiscountTypePercentage,
		Value:    mustDecimal(t, "10"),
		IsActive: true,
	}
	require.NoError(t, db.Create(discount).Error)
	require.NoError(t, db.Create(&entity.StudentDiscount{
		StudentID:  student.ID,
		DiscountID: discount.ID,
	}).Error)

	result, err := svc.GenerateInvoices(ctx, monthlyRun(time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, err)
	require.Equal(t, 1, result.Created)

	var invoice entity.Invoice
	require.NoError(t, db.First(&invoice, "student_id = ?", student.ID).Error)
	assert.True(t, invoice.Discount.Equal(mustDecimal(t, "100000")), "got %s", invoice.Discount)
	assert.True(t, invoice.TotalDue().Equal(mustDecimal(t, "900000")))
}

func TestInvoiceServiceDueDateClamping(t *testing.T) {
	db := setupTestDB(t)
	school := seedSchool(t, db)
	ctx := schoolCtx(school.ID)
	svc := newInvoiceService(db)

	student := seedStudent(t, db, school.ID, "500000")
	student.PaymentDay = 31
	require.NoError(t, db.Save(student).Error)

	// February has no 31st
	result, err := svc.GenerateInvoices(ctx, monthlyRun(time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, err)
	require.Equal(t, 1, result.Created)

	var invoice entity.Invoice
	require.NoError(t, db.First(&invoice, "student_id = ?", student.ID).Error)
	assert.Equal(t, 28, invoice.DueDate.Day())
}

func TestInvoiceServiceValidation(t *testing.T) {
	db := setupTestDB(t)
	school := seedSchool(t, db)
	ctx := schoolCtx(school.ID)
	svc := newInvoiceService(db)
	student := seedStudent(t, db, school.ID, "1000000")

	periodStart := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	periodEnd := time.Date(2025, time.March, 31, 0, 0, 0, 0, time.UTC)

	valid := func() *CreateInvoiceInput {
		return &CreateInvoiceInput{
			StudentID:   student.ID,
			Amount:      mustDecimal(t, "1000000"),
			Discount:    decimal.Zero,
			PeriodStart: periodStart,
			PeriodEnd:   periodEnd,
			DueDate:     time.Date(2025, time.March, 5, 0, 0, 0, 0, time.UTC),
		}
	}

	t.Run("rejects zero amount", func(t *testing.T) {
		input := valid()
		input.Amount = decimal.Zero
		_, err := svc.CreateInvoice(ctx, input)
		require.Error(t, err)
		assert.Equal(t, 422, apperror.GetAppError(err).Code)
	})

	t.Run("rejects discount above the amount", func(t *testing.T) {
		input := valid()
		input.Discount = mustDecimal(t, "1000001")
		_, err := svc.CreateInvoice(ctx, input)
		require.Error(t, err)
	})

	t.Run("rejects inverted period", func(t *testing.T) {
		input := valid()
		input.PeriodStart, input.PeriodEnd = input.PeriodEnd, input.PeriodStart
		_, err := svc.CreateInvoice(ctx, input)
		require.Error(t, err)
	})

	t.Run("rejects due date before the period", func(t *testing.T) {
		input := valid()
		input.DueDate = periodStart.AddDate(0, 0, -1)
		_, err := svc.CreateInvoice(ctx, input)
		require.Error(t, err)
	})

	t.Run("accepts a valid invoice then rejects a duplicate period", func(t *testing.T) {
		_, err := svc.CreateInvoice(ctx, valid())
		require.NoError(t, err)

		_, err = svc.CreateInvoice(ctx, valid())
		require.Error(t, err)
		assert.Equal(t, 409, apperror.GetAppError(err).Code)
	})
}

func TestInvoiceServiceSweepOverdue(t *testing.T) {
	db := setupTestDB(t)
	school := seedSchool(t, db)
	ctx := schoolCtx(school.ID)
	svc := newInvoiceService(db)
	student := seedStudent(t, db, school.ID, "1000000")

	mkInvoice := func(status enum.InvoiceStatus, due time.Time, periodMonth time.Month) *entity.Invoice {
		start := time.Date(2025, periodMonth, 1, 0, 0, 0, 0, time.UTC)
		inv := &entity.Invoice{
			SchoolID:    school.ID,
			StudentID:   student.ID,
			Amount:      mustDecimal(t, "1000000"),
			Discount:    decimal.Zero,
			PeriodStart: start,
			PeriodEnd:   start.AddDate(0, 1, -1),
			DueDate:     due,
			Status:      status,
		}
		require.NoError(t, db.Create(inv).Error)
		return inv
	}

	today := time.Date(2025, time.April, 10, 0, 0, 0, 0, time.UTC)
	pastDuePending := mkInvoice(enum.InvoiceStatusPending, time.Date(2025, time.January, 5, 0, 0, 0, 0, time.UTC), time.January)
	pastDuePartial := mkInvoice(enum.InvoiceStatusPartial, time.Date(2025, time.February, 5, 0, 0, 0, 0, time.UTC), time.February)
	dueToday := mkInvoice(enum.InvoiceStatusPending, today, time.March)
	future := mkInvoice(enum.InvoiceStatusPending, time.Date(2025, time.May, 5, 0, 0, 0, 0, time.UTC), time.May)

	flipped, err := svc.SweepOverdue(ctx, today)
	require.NoError(t, err)
	assert.Equal(t, int64(1), flipped)

	reload := func(id interface{}) enum.InvoiceStatus {
		var inv entity.Invoice
		require.NoError(t, db.First(&inv, "id = ?", id).Error)
		return inv.Status
	}
	assert.Equal(t, enum.InvoiceStatusOverdue, reload(pastDuePending.ID))
	assert.Equal(t, enum.InvoiceStatusPartial, reload(pastDuePartial.ID))
	assert.Equal(t, enum.InvoiceStatusPending, reload(dueToday.ID))
	assert.Equal(t, enum.InvoiceStatusPending, reload(future.ID))

	t.Run("second sweep finds nothing", func(t *testing.T) {
		flipped, err := svc.SweepOverdue(ctx, today)
		require.NoError(t, err)
		assert.Equal(t, int64(0), flipped)
	})
}

func TestInvoiceServiceDeleteGuard(t *testing.T) {
	db := setupTestDB(t)
	school := seedSchool(t, db)
	ctx := schoolCtx(school.ID)
	svc := newInvoiceService(db)
	student := seedStudent(t, db, school.ID, "1000000")
	user := seedUser(t, db, school.ID)

	invoice, err := svc.CreateInvoice(ctx, &CreateInvoiceInput{
		StudentID:   student.ID,
		Amount:      mustDecimal(t, "1000000"),
		Discount:    decimal.Zero,
		PeriodStart: time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:   time.Date(2025, time.March, 31, 0, 0, 0, 0, time.UTC),
		DueDate:     time.Date(2025, time.March, 5, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	require.NoError(t, db.Create(&entity.Payment{
		InvoiceID:    invoice.ID,
		Amount:       mustDecimal(t, "500000"),
		Method:       enum.PaymentMethodCash,
		PaidAt:       time.Now(),
		ReceivedByID: user.ID,
	}).Error)

	t.Run("invoice with payments cannot be deleted", func(t *testing.T) {
		err := svc.DeleteInvoice(ctx, invoice.ID)
		require.Error(t, err)
		assert.Equal(t, 409, apperror.GetAppError(err).Code)
	})

	t.Run("deletes cleanly once payments are gone", func(t *testing.T) {
		require.NoError(t, db.Delete(&entity.Payment{}, "invoice_id = ?", invoice.ID).Error)
		require.NoError(t, svc.DeleteInvoice(ctx, invoice.ID))
	})
}
