package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/maktabhq/maktab-api/internal/domain/entity"
	"github.com/maktabhq/maktab-api/internal/domain/enum"
	"github.com/maktabhq/maktab-api/pkg/pagination"
	"github.com/shopspring/decimal"
)

// InvoiceFilter narrows invoice listings
type InvoiceFilter struct {
	StudentID *uuid.UUID
	Status    *enum.InvoiceStatus
	From      *time.Time
	To        *time.Time
}

// InvoiceRepository defines the interface for invoice data operations
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	// CreateBatch inserts all invoices in a single statement. If any row
	// collides with an existing (student, period) the whole batch fails.
	CreateBatch(ctx context.Context, invoices []entity.Invoice) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error)
	Update(ctx context.Context, invoice *entity.Invoice) error
	// UpdateStatus persists only the status column
	UpdateStatus(ctx context.Context, id uuid.UUID, status enum.InvoiceStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, schoolID uuid.UUID, params *pagination.PaginationParams, filter InvoiceFilter) ([]entity.Invoice, int64, error)
	// ExistsForPeriod reports whether the student already has an invoice
	// for the exact period
	ExistsForPeriod(ctx context.Context, studentID uuid.UUID, periodStart, periodEnd time.Time) (bool, error)
	// MarkOverdue flips pending invoices with a due date before the given
	// day to overdue and returns how many rows changed
	MarkOverdue(ctx context.Context, schoolID uuid.UUID, today time.Time) (int64, error)
}

// PaymentRepository defines the interface for payment data operations
type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Payment, error)
	Update(ctx context.Context, payment *entity.Payment) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]entity.Payment, error)
	List(ctx context.Context, schoolID uuid.UUID, params *pagination.PaginationParams, from, to *time.Time) ([]entity.Payment, int64, error)
	// SumByInvoice returns the payment total for an invoice straight from
	// the database, never from a cached column
	SumByInvoice(ctx context.Context, invoiceID uuid.UUID) (decimal.Decimal, error)
	CountByInvoice(ctx context.Context, invoiceID uuid.UUID) (int64, error)
}
