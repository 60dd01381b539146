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

// PaymentService records payments against invoices and keeps invoice
// statuses consistent with the payment ledger
type PaymentService struct {
	paymentRepo repository.PaymentRepository
	invoiceRepo repository.InvoiceRepository
}

// NewPaymentService creates a new payment service
func NewPaymentService(paymentRepo repository.PaymentRepository, invoiceRepo repository.InvoiceRepository) *PaymentService {
	return &PaymentService{
		paymentRepo: paymentRepo,
		invoiceRepo: invoiceRepo,
	}
}

// CreatePaymentInput represents the create payment input
type CreatePaymentInput struct {
	InvoiceID uuid.UUID
	Amount    decimal.Decimal
	Method    enum.PaymentMethod
	PaidAt    time.Time
	Note      *string
}

// CreatePayment records a payment against an invoice. The remaining
// balance is computed from a fresh payment sum, and a payment that
// would exceed it is rejected.
func (s *PaymentService) CreatePayment(ctx context.Context, receivedByID uuid.UUID, input *CreatePaymentInput) (*entity.Payment, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, input.InvoiceID)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}

	if err := validatePaymentFields(input.Amount, input.Method); err != nil {
		return nil, err
	}

	totalPaid, err := s.paymentRepo.SumByInvoice(ctx, invoice.ID)
	if err != nil {
		return nil, err
	}
	remaining := invoice.TotalDue().Sub(totalPaid)
	if input.Amount.GreaterThan(remaining) {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "amount", Message: "Exceeds the remaining balance"},
		})
	}

	paidAt := input.PaidAt
	if paidAt.IsZero() {
		paidAt = time.Now()
	}

	payment := &entity.Payment{
		InvoiceID:    invoice.ID,
		Amount:       input.Amount,
		Method:       input.Method,
		PaidAt:       paidAt,
		ReceivedByID: receivedByID,
		Note:         input.Note,
	}
	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, err
	}

	if err := s.refreshInvoiceStatus(ctx, invoice); err != nil {
		return nil, err
	}
	return payment, nil
}

// UpdatePaymentInput represents the update payment input
type UpdatePaymentInput struct {
	Amount *decimal.Decimal
	Method *enum.PaymentMethod
	PaidAt *time.Time
	Note   *string
}

// UpdatePayment edits a recorded payment. The overpayment check
// excludes the payment's own previous amount, so raising a payment
// within the freed balance is allowed.
func (s *PaymentService) UpdatePayment(ctx context.Context, id uuid.UUID, input *UpdatePaymentInput) (*entity.Payment, error) {
	payment, err := s.paymentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, apperror.NewNotFoundError("Payment")
	}

	invoice, err := s.invoiceRepo.GetByID(ctx, payment.InvoiceID)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}

	oldAmount := payment.Amount
	if input.Amount != nil {
		payment.Amount = *input.Amount
	}
	if input.Method != nil {
		payment.Method = *input.Method
	}
	if input.PaidAt != nil {
		payment.PaidAt = *input.PaidAt
	}
	if input.Note != nil {
		payment.Note = input.Note
	}

	if err := validatePaymentFields(payment.Amount, payment.Method); err != nil {
		return nil, err
	}

	totalPaid, err := s.paymentRepo.SumByInvoice(ctx, invoice.ID)
	if err != nil {
		return nil, err
	}
	remaining := invoice.TotalDue().Sub(totalPaid.Sub(oldAmount))
	if payment.Amount.GreaterThan(remaining) {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "amount", Message: "Exceeds the remaining balance"},
		})
	}

	if err := s.paymentRepo.Update(ctx, payment); err != nil {
		return nil, err
	}

	if err := s.refreshInvoiceStatus(ctx, invoice); err != nil {
		return nil, err
	}
	return payment, nil
}

// GetPayment returns a single payment
func (s *PaymentService) GetPayment(ctx context.Context, id uuid.UUID) (*entity.Payment, error) {
	payment, err := s.paymentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, apperror.NewNotFoundError("Payment")
	}
	return payment, nil
}

// ListPayments lists a school's payments within an optional date range
func (s *PaymentService) ListPayments(ctx context.Context, params *pagination.PaginationParams, from, to *time.Time) ([]entity.Payment, int64, error) {
	schoolID, ok := infraRepo.GetSchoolID(ctx)
	if !ok {
		return nil, 0, apperror.NewBadRequestError("School context required")
	}
	return s.paymentRepo.List(ctx, schoolID, params, from, to)
}

// ListInvoicePayments lists the payments recorded against an invoice
func (s *PaymentService) ListInvoicePayments(ctx context.Context, invoiceID uuid.UUID) ([]entity.Payment, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}
	return s.paymentRepo.ListByInvoice(ctx, invoiceID)
}

// DeletePayment removes a payment and re-derives the invoice status.
// Deleting the payment that completed an invoice reverts the invoice
// to partial, pending or overdue as the remaining total dictates.
func (s *PaymentService) DeletePayment(ctx context.Context, id uuid.UUID) error {
	payment, err := s.paymentRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if payment == nil {
		return apperror.NewNotFoundError("Payment")
	}

	invoice, err := s.invoiceRepo.GetByID(ctx, payment.InvoiceID)
	if err != nil {
		return err
	}
	if invoice == nil {
		return apperror.NewNotFoundError("Invoice")
	}

	if err := s.paymentRepo.Delete(ctx, id); err != nil {
		return err
	}

	return s.refreshInvoiceStatus(ctx, invoice)
}

// refreshInvoiceStatus recomputes the invoice status from a fresh
// payment sum and persists it if it changed
func (s *PaymentService) refreshInvoiceStatus(ctx context.Context, invoice *entity.Invoice) error {
	totalPaid, err := s.paymentRepo.SumByInvoice(ctx, invoice.ID)
	if err != nil {
		return err
	}
	status := entity.ResolveStatus(totalPaid, invoice.TotalDue(), invoice.DueDate, time.Now())
	if status == invoice.Status {
		return nil
	}
	invoice.Status = status
	return s.invoiceRepo.UpdateStatus(ctx, invoice.ID, status)
}

func validatePaymentFields(amount decimal.Decimal, method enum.PaymentMethod) error {
	var fieldErrors []apperror.FieldError
	if !amount.IsPositive() {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "amount", Message: "Must be greater than zero"})
	}
	if !method.Valid() {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "method", Message: "Must be cash, card or transfer"})
	}
	if len(fieldErrors) > 0 {
		return apperror.NewValidationError(fieldErrors)
	}
	return nil
}
