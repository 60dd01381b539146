package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/maktabhq/maktab-api/internal/domain/entity"
	domainRepo "github.com/maktabhq/maktab-api/internal/domain/repository"
	"github.com/maktabhq/maktab-api/pkg/pagination"
	"gorm.io/gorm"
)

type discountRepository struct {
	db *gorm.DB
}

// NewDiscountRepository creates a new discount repository
func NewDiscountRepository(db *gorm.DB) domainRepo.DiscountRepository {
	return &discountRepository{db: db}
}

func (r *discountRepository) Create(ctx context.Context, discount *entity.Discount) error {
	return r.db.WithContext(ctx).Create(discount).Error
}

func (r *discountRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Discount, error) {
	var discount entity.Discount
	err := r.db.WithContext(ctx).Scopes(SchoolScope(ctx)).
		First(&discount, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &discount, err
}

func (r *discountRepository) Update(ctx context.Context, discount *entity.Discount) error {
	return r.db.WithContext(ctx).Save(discount).Error
}

func (r *discountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&entity.StudentDiscount{}, "discount_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&entity.Discount{}, "id = ?", id).Error
	})
}

func (r *discountRepository) List(ctx context.Context, schoolID uuid.UUID, params *pagination.PaginationParams) ([]entity.Discount, int64, error) {
	var discounts []entity.Discount
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Discount{}).
		Where("school_id = ?", schoolID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Order("name ASC").
		Find(&discounts).Error

	return discounts, total, err
}

func (r *discountRepository) Assign(ctx context.Context, assignment *entity.StudentDiscount) error {
	return r.db.WithContext(ctx).Create(assignment).Error
}

func (r *discountRepository) Unassign(ctx context.Context, studentID, discountID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&entity.StudentDiscount{}, "student_id = ? AND discount_id = ?", studentID, discountID).Error
}

func (r *discountRepository) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]entity.StudentDiscount, error) {
	var assignments []entity.StudentDiscount
	err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Preload("Discount").
		Order("assigned_at ASC").
		Find(&assignments).Error
	return assignments, err
}
