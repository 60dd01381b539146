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

type studentRepository struct {
	db *gorm.DB
}

// NewStudentRepository creates a new student repository
func NewStudentRepository(db *gorm.DB) domainRepo.StudentRepository {
	return &studentRepository{db: db}
}

func (r *studentRepository) Create(ctx context.Context, student *entity.Student) error {
	return r.db.WithContext(ctx).Create(student).Error
}

func (r *studentRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Student, error) {
	var student entity.Student
	err := r.db.WithContext(ctx).Scopes(SchoolScope(ctx)).
		Preload("SchoolClass").
		Preload("Discounts.Discount").
		First(&student, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &student, err
}

func (r *studentRepository) Update(ctx context.Context, student *entity.Student) error {
	return r.db.WithContext(ctx).Save(student).Error
}

func (r *studentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Student{}, "id = ?", id).Error
}

func (r *studentRepository) List(ctx context.Context, schoolID uuid.UUID, params *pagination.PaginationParams, filter domainRepo.StudentFilter) ([]entity.Student, int64, error) {
	var students []entity.Student
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Student{}).
		Where("school_id = ?", schoolID)

	if filter.ClassID != nil {
		query = query.Where("school_class_id = ?", *filter.ClassID)
	}
	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("first_name LIKE ? OR last_name LIKE ? OR parent_phone_1 LIKE ?", like, like, like)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Preload("SchoolClass").
		Order("last_name ASC, first_name ASC").
		Find(&students).Error

	return students, total, err
}

func (r *studentRepository) ListBillable(ctx context.Context, schoolID uuid.UUID) ([]entity.Student, error) {
	var students []entity.Student
	err := r.db.WithContext(ctx).
		Where("school_id = ? AND is_active = ? AND graduated_at IS NULL", schoolID, true).
		Preload("Discounts.Discount").
		Order("last_name ASC, first_name ASC").
		Find(&students).Error
	return students, err
}
