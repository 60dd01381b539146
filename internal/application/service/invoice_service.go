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

// InvoiceService handles invoice generation and lifecycle
type InvoiceService struct {
	invoiceRepo repository.InvoiceRepository
	paymentRepo repository.PaymentRepository
	studentRepo repository.StudentRepository
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(
	invoiceRepo repository.InvoiceRepository,
	paymentRepo repository.PaymentRepository,
	studentRepo repository.StudentRepository,
) *InvoiceService {
	return &InvoiceService{
		invoiceRepo: invoiceRepo,
		paymentRepo: paymentRepo,
		studentRepo: studentRepo,
	}
}

// GenerationResult summarizes a monthly generation run
type GenerationResult struct {
	Created  int              `json:"created"`
	Skipped  int              `json:"skipped"`
	Invoices []entity.Invoice `json:"invoices"`
}

// GenerateInvoicesInput represents the generation run input. DueDate
// is optional; when absent each student's payment day decides, clamped
// to the last day of the period's opening month. StudentIDs restricts
// the run to the given students.
type GenerateInvoicesInput struct {
	PeriodStart time.Time
	PeriodEnd   time.Time
	DueDate     *time.Time
	StudentIDs  []uuid.UUID
}

// GenerateInvoices creates one invoice per billable student for the
// given period. Students who already have an invoice for that period
// are skipped. The new invoices are written in a single batch, so if a
// concurrent run slips an invoice in after the skip check the unique
// period index fails the whole batch and no partial period is
// committed.
func (s *InvoiceService) GenerateInvoices(ctx context.Context, input *GenerateInvoicesInput) (*GenerationResult, error) {
	schoolID, ok := infraRepo.GetSchoolID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("School context required")
	}

	var fieldErrors []apperror.FieldError
	if input.PeriodEnd.Before(input.PeriodStart) {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "period_end", Message: "Must not be before period_start"})
	}
	if input.DueDate != nil && input.DueDate.Before(input.PeriodStart) {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "due_date", Message: "Must not be before period_start"})
	}
	if len(fieldErrors) > 0 {
		return nil, apperror.NewValidationError(fieldErrors)
	}

	students, err := s.studentRepo.ListBillable(ctx, schoolID)
	if err != nil {
		return nil, err
	}
	if len(input.StudentIDs) > 0 {
		wanted := make(map[uuid.UUID]bool, len(input.StudentIDs))
		for _, id := range input.StudentIDs {
			wanted[id] = true
		}
		filtered := students[:0]
		for _, student := range students {
			if wanted[student.ID] {
				filtered = append(filtered, student)
			}
		}
		students = filtered
	}

	result := &GenerationResult{}
	invoices := make([]entity.Invoice, 0, len(students))

	for _, student := range students {
		exists, err := s.invoiceRepo.ExistsForPeriod(ctx, student.ID, input.PeriodStart, input.PeriodEnd)
		if err != nil {
			return nil, err
		}
		if exists {
			result.Skipped++
			continue
		}

		discount := StackDiscounts(student.MonthlyFee, student.Discounts, input.PeriodStart)

		var dueDate time.Time
		if input.DueDate != nil {
			dueDate = *input.DueDate
		} else {
			dueDay := student.PaymentDay
			lastDay := time.Date(input.PeriodStart.Year(), input.PeriodStart.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
			if dueDay > lastDay {
				dueDay = lastDay
			}
			dueDate = time.Date(input.PeriodStart.Year(), input.PeriodStart.Month(), dueDay, 0, 0, 0, 0, time.UTC)
		}

		invoices = append(invoices, entity.Invoice{
			SchoolID:    schoolID,
			StudentID:   student.ID,
			Amount:      student.MonthlyFee,
			Discount:    discount,
			PeriodStart: input.PeriodStart,
			PeriodEnd:   input.PeriodEnd,
			DueDate:     dueDate,
			Status:      enum.InvoiceStatusPending,
		})
	}

	if err := s.invoiceRepo.CreateBatch(ctx, invoices); err != nil {
		if infraRepo.IsDuplicateKey(err) {
			return nil, apperror.NewConflictError("Invoice generation collided with a concurrent run")
		}
		return nil, err
	}
	result.Created = len(invoices)
	result.Invoices = invoices
	return result, nil
}

// CreateInvoiceInput represents the create invoice input
type CreateInvoiceInput struct {
	StudentID   uuid.UUID
	Amount      decimal.Decimal
	Discount    decimal.Decimal
	PeriodStart time.Time
	PeriodEnd   time.Time
	DueDate     time.Time
	Note        *string
}

// CreateInvoice creates a single invoice manually
func (s *InvoiceService) CreateInvoice(ctx context.Context, input *CreateInvoiceInput) (*entity.Invoice, error) {
	schoolID, ok := infraRepo.GetSchoolID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("School context required")
	}

	student, err := s.studentRepo.GetByID(ctx, input.StudentID)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, apperror.NewNotFoundError("Student")
	}

	if err := validateInvoiceFields(input.Amount, input.Discount, input.PeriodStart, input.PeriodEnd, input.DueDate); err != nil {
		return nil, err
	}

	exists, err := s.invoiceRepo.ExistsForPeriod(ctx, input.StudentID, input.PeriodStart, input.PeriodEnd)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperror.NewConflictError("Student already has an invoice for this period")
	}

	invoice := &entity.Invoice{
		SchoolID:    schoolID,
		StudentID:   input.StudentID,
		Amount:      input.Amount,
		Discount:    input.Discount,
		PeriodStart: input.PeriodStart,
		PeriodEnd:   input.PeriodEnd,
		DueDate:     input.DueDate,
		Status:      enum.InvoiceStatusPending,
		Note:        input.Note,
	}
	if err := s.invoiceRepo.Create(ctx, invoice); err != nil {
		return nil, err
	}
	return invoice, nil
}

// UpdateInvoiceInput represents the update invoice input
type UpdateInvoiceInput struct {
	Amount   *decimal.Decimal
	Discount *decimal.Decimal
	DueDate  *time.Time
	Note     *string
}

// UpdateInvoice updates invoice amounts or due date and re-derives the
// status from the current payment total
func (s *InvoiceService) UpdateInvoice(ctx context.Context, id uuid.UUID, input *UpdateInvoiceInput) (*entity.Invoice, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}

	if input.Amount != nil {
		invoice.Amount = *input.Amount
	}
	if input.Discount != nil {
		invoice.Discount = *input.Discount
	}
	if input.DueDate != nil {
		invoice.DueDate = *input.DueDate
	}
	if input.Note != nil {
		invoice.Note = input.Note
	}

	if err := validateInvoiceFields(invoice.Amount, invoice.Discount, invoice.PeriodStart, invoice.PeriodEnd, invoice.DueDate); err != nil {
		return nil, err
	}

	totalPaid, err := s.paymentRepo.SumByInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	invoice.Status = entity.ResolveStatus(totalPaid, invoice.TotalDue(), invoice.DueDate, time.Now())

	if err := s.invoiceRepo.Update(ctx, invoice); err != nil {
		return nil, err
	}
	return invoice, nil
}

// GetInvoice returns a single invoice with its payments
func (s *InvoiceService) GetInvoice(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}
	return invoice, nil
}

// ListInvoices lists a school's invoices
func (s *InvoiceService) ListInvoices(ctx context.Context, params *pagination.PaginationParams, filter repository.InvoiceFilter) ([]entity.Invoice, int64, error) {
	schoolID, ok := infraRepo.GetSchoolID(ctx)
	if !ok {
		return nil, 0, apperror.NewBadRequestError("School context required")
	}
	return s.invoiceRepo.List(ctx, schoolID, params, filter)
}

// DeleteInvoice removes an invoice. Invoices with recorded payments
// cannot be deleted; the payments must be removed first.
func (s *InvoiceService) DeleteInvoice(ctx context.Context, id uuid.UUID) error {
	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if invoice == nil {
		return apperror.NewNotFoundError("Invoice")
	}

	count, err := s.paymentRepo.CountByInvoice(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return apperror.NewConflictError("Invoice has payments and cannot be deleted")
	}

	return s.invoiceRepo.Delete(ctx, id)
}

// SweepOverdue marks pending invoices past their due date as overdue
// and returns the number of invoices flipped. Partial and paid
// invoices are left untouched.
func (s *InvoiceService) SweepOverdue(ctx context.Context, today time.Time) (int64, error) {
	schoolID, ok := infraRepo.GetSchoolID(ctx)
	if !ok {
		return 0, apperror.NewBadRequestError("School context required")
	}
	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	return s.invoiceRepo.MarkOverdue(ctx, schoolID, day)
}

func validateInvoiceFields(amount, discount decimal.Decimal, periodStart, periodEnd, dueDate time.Time) error {
	var fieldErrors []apperror.FieldError
	if !amount.IsPositive() {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "amount", Message: "Must be greater than zero"})
	}
	if discount.IsNegative() || discount.GreaterThan(amount) {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "discount", Message: "Must be between zero and the invoice amount"})
	}
	if periodEnd.Before(periodStart) {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "period_end", Message: "Must not be before period_start"})
	}
	if dueDate.Before(periodStart) {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "due_date", Message: "Must not be before period_start"})
	}
	if len(fieldErrors) > 0 {
		return apperror.NewValidationError(fieldErrors)
	}
	return nil
}
