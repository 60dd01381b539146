package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/maktabhq/maktab-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Invoice is a billing record for a student over a period.
// The unique index on (student_id, period_start, period_end) makes
// duplicate generation for the same period impossible at the database
// level, so concurrent generation runs cannot both succeed.
type Invoice struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	SchoolID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"school_id"`
	StudentID   uuid.UUID       `gorm:"type:uuid;not null;index;uniqueIndex:uq_student_period" json:"student_id"`
	Amount      decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	Discount    decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"discount"`
	PeriodStart time.Time       `gorm:"type:date;not null;uniqueIndex:uq_student_period" json:"period_start"`
	PeriodEnd   time.Time       `gorm:"type:date;not null;uniqueIndex:uq_student_period" json:"period_end"`
	DueDate     time.Time       `gorm:"type:date;not null;index" json:"due_date"`
	Status      enum.InvoiceStatus `gorm:"size:20;not null;default:'pending';index" json:"status"`
	Note        *string         `gorm:"size:500" json:"note,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	// Relationships
	Student  *Student  `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	Payments []Payment `gorm:"foreignKey:InvoiceID" json:"payments,omitempty"`
}

// BeforeCreate generates a UUID before creating a new invoice
func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Invoice model
func (Invoice) TableName() string {
	return "invoices"
}

// TotalDue returns the amount owed after discount
func (i *Invoice) TotalDue() decimal.Decimal {
	return i.Amount.Sub(i.Discount)
}

// ResolveStatus derives an invoice status from its payment total.
// Dates are compared at day granularity so an invoice due today is
// not yet overdue.
func ResolveStatus(totalPaid, totalDue decimal.Decimal, dueDate, today time.Time) enum.InvoiceStatus {
	if totalPaid.GreaterThanOrEqual(totalDue) {
		return enum.InvoiceStatusPaid
	}
	if totalPaid.IsPositive() {
		return enum.InvoiceStatusPartial
	}
	if truncateToDay(dueDate).Before(truncateToDay(today)) {
		return enum.InvoiceStatusOverdue
	}
	return enum.InvoiceStatusPending
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Payment records money received against an invoice
type Payment struct {
	ID           uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	InvoiceID    uuid.UUID          `gorm:"type:uuid;not null;index" json:"invoice_id"`
	Amount       decimal.Decimal    `gorm:"type:numeric(12,2);not null" json:"amount"`
	Method       enum.PaymentMethod `gorm:"size:20;not null" json:"method"`
	PaidAt       time.Time          `gorm:"not null" json:"paid_at"`
	ReceivedByID uuid.UUID          `gorm:"type:uuid;not null" json:"received_by_id"`
	Note         *string            `gorm:"size:500" json:"note,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`

	// Relationships
	Invoice    *Invoice `gorm:"foreignKey:InvoiceID" json:"invoice,omitempty"`
	ReceivedBy *User    `gorm:"foreignKey:ReceivedByID" json:"received_by,omitempty"`
}

// BeforeCreate generates a UUID before creating a new payment
func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Payment model
func (Payment) TableName() string {
	return "payments"
}
