package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/maktabhq/maktab-api/internal/domain/entity"
	"github.com/maktabhq/maktab-api/internal/domain/enum"
	domainRepo "github.com/maktabhq/maktab-api/internal/domain/repository"
	"github.com/maktabhq/maktab-api/pkg/pagination"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type invoiceRepository struct {
	db *gorm.DB
}

// NewInvoiceRepository creates a new invoice repository
func NewInvoiceRepository(db *gorm.DB) domainRepo.InvoiceRepository {
	return &invoiceRepository{db: db}
}

func (r *invoiceRepository) Create(ctx context.Context, invoice *entity.Invoice) error {
	return r.db.WithContext(ctx).Create(invoice).Error
}

func (r *invoiceRepository) CreateBatch(ctx context.Context, invoices []entity.Invoice) error {
	if len(invoices) == 0 {
		return nil
	}
	// Single INSERT so a period collision from a concurrent run aborts
	// the whole batch instead of leaving a partial one
	return r.db.WithContext(ctx).Create(&invoices).Error
}

func (r *invoiceRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	var invoice entity.Invoice
	err := r.db.WithContext(ctx).Scopes(SchoolScope(ctx)).
		Preload("Student").
		Preload("Payments").
		First(&invoice, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &invoice, err
}

func (r *invoiceRepository) Update(ctx context.Context, invoice *entity.Invoice) error {
	// Associations stay out of the write: saving an invoice whose
	// Payments were preloaded must never upsert payment rows
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(invoice).Error
}

func (r *invoiceRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status enum.InvoiceStatus) error {
	return r.db.WithContext(ctx).Model(&entity.Invoice{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *invoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Invoice{}, "id = ?", id).Error
}

func (r *invoiceRepository) List(ctx context.Context, schoolID uuid.UUID, params *pagination.PaginationParams, filter domainRepo.InvoiceFilter) ([]entity.Invoice, int64, error) {
	var invoices []entity.Invoice
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Invoice{}).
		Where("school_id = ?", schoolID)

	if filter.StudentID != nil {
		query = query.Where("student_id = ?", *filter.StudentID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.From != nil {
		query = query.Where("period_start >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("period_end <= ?", *filter.To)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Preload("Student").
		Order("due_date DESC").
		Find(&invoices).Error

	return invoices, total, err
}

func (r *invoiceRepository) ExistsForPeriod(ctx context.Context, studentID uuid.UUID, periodStart, periodEnd time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Invoice{}).
		Where("student_id = ? AND period_start = ? AND period_end = ?", studentID, periodStart, periodEnd).
		Count(&count).Error
	return count > 0, err
}

func (r *invoiceRepository) MarkOverdue(ctx context.Context, schoolID uuid.UUID, today time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&entity.Invoice{}).
		Where("school_id = ? AND status = ? AND due_date < ?", schoolID, enum.InvoiceStatusPending, today).
		Update("status", enum.InvoiceStatusOverdue)
	return result.RowsAffected, result.Error
}
