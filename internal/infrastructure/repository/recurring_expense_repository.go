package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/maktabhq/maktab-api/internal/domain/entity"
	domainRepo "github.com/maktabhq/maktab-api/internal/domain/repository"
	"github.com/maktabhq/maktab-api/pkg/pagination"
	"gorm.io/gorm"
)

type recurringExpenseRepository struct {
	db *gorm.DB
}

// NewRecurringExpenseRepository creates a new recurring expense repository
func NewRecurringExpenseRepository(db *gorm.DB) domainRepo.RecurringExpenseRepository {
	return &recurringExpenseRepository{db: db}
}

func (r *recurringExpenseRepository) Create(ctx context.Context, template *entity.RecurringExpense) error {
	return r.db.WithContext(ctx).Create(template).Error
}

func (r *recurringExpenseRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.RecurringExpense, error) {
	var template entity.RecurringExpense
	err := r.db.WithContext(ctx).Scopes(SchoolScope(ctx)).
		Preload("Category").
		Preload("Employee").
		First(&template, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &template, err
}

func (r *recurringExpenseRepository) Update(ctx context.Context, template *entity.RecurringExpense) error {
	return r.db.WithContext(ctx).Save(template).Error
}

func (r *recurringExpenseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.RecurringExpense{}, "id = ?", id).Error
}

func (r *recurringExpenseRepository) List(ctx context.Context, schoolID uuid.UUID, params *pagination.PaginationParams) ([]entity.RecurringExpense, int64, error) {
	var templates []entity.RecurringExpense
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.RecurringExpense{}).
		Where("school_id = ?", schoolID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Preload("Category").
		Preload("Employee").
		Order("name ASC").
		Find(&templates).Error

	return templates, total, err
}

func (r *recurringExpenseRepository) ListActive(ctx context.Context, schoolID uuid.UUID) ([]entity.RecurringExpense, error) {
	var templates []entity.RecurringExpense
	err := r.db.WithContext(ctx).
		Where("school_id = ? AND is_active = ?", schoolID, true).
		Order("name ASC").
		Find(&templates).Error
	return templates, err
}

func (r *recurringExpenseRepository) GenerateExpenses(ctx context.Context, expenses []*entity.Expense, generatedAt time.Time) error {
	if len(expenses) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, expense := range expenses {
			if err := tx.Create(expense).Error; err != nil {
				return err
			}
			if err := tx.Model(&entity.RecurringExpense{}).
				Where("id = ?", expense.RecurringExpenseID).
				Update("last_generated_at", generatedAt).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
