package service

import (
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

func setupPaymentTest(t *testing.T) (*gorm.DB, *PaymentService, *entity.Invoice, *entity.User, uuid.UUID) {
	db := setupTestDB(t)
	school := seedSchool(t, db)
	student := seedStudent(t, db, school.ID, "1000000")
	user := seedUser(t, db, school.ID)

	invoice := &entity.Invoice{
		SchoolID:    school.ID,
		StudentID:   student.ID,
		Amount:      mustDecimal(t, "1000000"),
		Discount:    decimal.Zero,
		PeriodStart: time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:   time.Date(2025, time.March, 31, 0, 0, 0, 0, time.UTC),
		DueDate:     time.Date(2025, time.March, 5, 0, 0, 0, 0, time.UTC),
		Status:      enum.InvoiceStatusPending,
	}
	require.NoError(t, db.Create(invoice).Error)

	svc := NewPaymentService(
		infraRepo.NewPaymentRepository(db),
		infraRepo.NewInvoiceRepository(db),
	)
	return db, svc, invoice, user, school.ID
}

func TestPaymentServiceCreatePayment(t *testing.T) {
	db, svc, invoice, user, schoolID := setupPaymentTest(t)
	ctx := schoolCtx(schoolID)

	invoiceStatus := func() enum.InvoiceStatus {
		var inv entity.Invoice
		require.NoError(t, db.First(&inv, "id = ?", invoice.ID).Error)
		return inv.Status
	}

	t.Run("partial payment flips the invoice to partial", func(t *testing.T) {
		_, err := svc.CreatePayment(ctx, user.ID, &CreatePaymentInput{
			InvoiceID: invoice.ID,
			Amount:    mustDecimal(t, "600000"),
			Method:    enum.PaymentMethodCash,
		})
		require.NoError(t, err)
		assert.Equal(t, enum.InvoiceStatusPartial, invoiceStatus())
	})

	t.Run("payment above the remaining balance is rejected", func(t *testing.T) {
		// 400,000 remains
		_, err := svc.CreatePayment(ctx, user.ID, &CreatePaymentInput{
			InvoiceID: invoice.ID,
			Amount:    mustDecimal(t, "500000"),
			Method:    enum.PaymentMethodCash,
		})
		require.Error(t, err)
		assert.Equal(t, 422, apperror.GetAppError(err).Code)
		assert.Equal(t, enum.InvoiceStatusPartial, invoiceStatus())
	})

	t.Run("paying the exact remainder flips the invoice to paid", func(t *testing.T) {
		_, err := svc.CreatePayment(ctx, user.ID, &CreatePaymentInput{
			InvoiceID: invoice.ID,
			Amount:    mustDecimal(t, "400000"),
			Method:    enum.PaymentMethodTransfer,
		})
		require.NoError(t, err)
		assert.Equal(t, enum.InvoiceStatusPaid, invoiceStatus())
	})

	t.Run("any further payment is rejected", func(t *testing.T) {
		_, err := svc.CreatePayment(ctx, user.ID, &CreatePaymentInput{
			InvoiceID: invoice.ID,
			Amount:    mustDecimal(t, "1"),
			Method:    enum.PaymentMethodCash,
		})
		require.Error(t, err)
	})

	t.Run("rejects zero amount", func(t *testing.T) {
		_, err := svc.CreatePayment(ctx, user.ID, &CreatePaymentInput{
			InvoiceID: invoice.ID,
			Amount:    decimal.Zero,
			Method:    enum.PaymentMethodCash,
		})
		require.Error(t, err)
	})

	t.Run("rejects unknown method", func(t *testing.T) {
		_, err := svc.CreatePayment(ctx, user.ID, &CreatePaymentInput{
			InvoiceID: invoice.ID,
			Amount:    mustDecimal(t, "1"),
			Method:    enum.PaymentMethod("check"),
		})
		require.Error(t, err)
	})
}

func TestPaymentServiceUpdatePayment(t *testing.T) {
	db, svc, invoice, user, schoolID := setupPaymentTest(t)
	ctx := schoolCtx(schoolID)

	payment, err := svc.CreatePayment(ctx, user.ID, &CreatePaymentInput{
		InvoiceID: invoice.ID,
		Amount:    mustDecimal(t, "600000"),
		Method:    enum.PaymentMethodCash,
	})
	require.NoError(t, err)

	t.Run("raising within the freed balance succeeds", func(t *testing.T) {
		// The payment's own 600,000 is excluded from the check, so the
		// full 1,000,000 is available to it
		amount := mustDecimal(t, "1000000")
		updated, err := svc.UpdatePayment(ctx, payment.ID, &UpdatePaymentInput{Amount: &amount})
		require.NoError(t, err)
		assert.True(t, updated.Amount.Equal(amount))

		var inv entity.Invoice
		require.NoError(t, db.First(&inv, "id = ?", invoice.ID).Error)
		assert.Equal(t, enum.InvoiceStatusPaid, inv.Status)
	})

	t.Run("raising beyond the invoice total fails", func(t *testing.T) {
		amount := mustDecimal(t, "1000001")
		_, err := svc.UpdatePayment(ctx, payment.ID, &UpdatePaymentInput{Amount: &amount})
		require.Error(t, err)
	})

	t.Run("lowering reverts the invoice to partial", func(t *testing.T) {
		amount := mustDecimal(t, "300000")
		_, err := svc.UpdatePayment(ctx, payment.ID, &UpdatePaymentInput{Amount: &amount})
		require.NoError(t, err)

		var inv entity.Invoice
		require.NoError(t, db.First(&inv, "id = ?", invoice.ID).Error)
		assert.Equal(t, enum.InvoiceStatusPartial, inv.Status)
	})
}

func TestPaymentServiceDeletePayment(t *testing.T) {
	db, svc, invoice, user, schoolID := setupPaymentTest(t)
	ctx := schoolCtx(schoolID)

	first, err := svc.CreatePayment(ctx, user.ID, &CreatePaymentInput{
		InvoiceID: invoice.ID,
		Amount:    mustDecimal(t, "400000"),
		Method:    enum.PaymentMethodCash,
	})
	require.NoError(t, err)

	second, err := svc.CreatePayment(ctx, user.ID, &CreatePaymentInput{
		InvoiceID: invoice.ID,
		Amount:    mustDecimal(t, "600000"),
		Method:    enum.PaymentMethodCard,
	})
	require.NoError(t, err)

	invoiceStatus := func() enum.InvoiceStatus {
		var inv entity.Invoice
		require.NoError(t, db.First(&inv, "id = ?", invoice.ID).Error)
		return inv.Status
	}
	paymentCount := func() int64 {
		var count int64
		require.NoError(t, db.Model(&entity.Payment{}).Where("invoice_id = ?", invoice.ID).Count(&count).Error)
		return count
	}
	require.Equal(t, enum.InvoiceStatusPaid, invoiceStatus())

	t.Run("deleting the completing payment reverts to partial", func(t *testing.T) {
		require.NoError(t, svc.DeletePayment(ctx, second.ID))
		assert.Equal(t, enum.InvoiceStatusPartial, invoiceStatus())
		// The status write must not resurrect the deleted row
		assert.Equal(t, int64(1), paymentCount())
	})

	t.Run("deleting the last payment reverts past due invoices to overdue", func(t *testing.T) {
		require.NoError(t, svc.DeletePayment(ctx, first.ID))
		// The March due date has long passed
		assert.Equal(t, enum.InvoiceStatusOverdue, invoiceStatus())
		assert.Equal(t, int64(0), paymentCount())
	})
}

func TestPaymentServiceCrossSchoolIsolation(t *testing.T) {
	db, svc, invoice, user, schoolID := setupPaymentTest(t)
	ctx := schoolCtx(schoolID)

	payment, err := svc.CreatePayment(ctx, user.ID, &CreatePaymentInput{
		InvoiceID: invoice.ID,
		Amount:    mustDecimal(t, "1000000"),
		Method:    enum.PaymentMethodCash,
	})
	require.NoError(t, err)

	other := seedSchool(t, db)
	otherCtx := schoolCtx(other.ID)

	t.Run("another school's payment is invisible", func(t *testing.T) {
		_, err := svc.GetPayment(otherCtx, payment.ID)
		require.Error(t, err)
		assert.Equal(t, 404, apperror.GetAppError(err).Code)
	})

	t.Run("another school cannot update the payment", func(t *testing.T) {
		amount := mustDecimal(t, "1")
		_, err := svc.UpdatePayment(otherCtx, payment.ID, &UpdatePaymentInput{Amount: &amount})
		require.Error(t, err)
		assert.Equal(t, 404, apperror.GetAppError(err).Code)
	})

	t.Run("another school cannot delete the payment", func(t *testing.T) {
		err := svc.DeletePayment(otherCtx, payment.ID)
		require.Error(t, err)
		assert.Equal(t, 404, apperror.GetAppError(err).Code)

		var count int64
		require.NoError(t, db.Model(&entity.Payment{}).Where("id = ?", payment.ID).Count(&count).Error)
		assert.Equal(t, int64(1), count)

		var inv entity.Invoice
		require.NoError(t, db.First(&inv, "id = ?", invoice.ID).Error)
		assert.Equal(t, enum.InvoiceStatusPaid, inv.Status)
	})
}
