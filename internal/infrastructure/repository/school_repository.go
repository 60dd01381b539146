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

type schoolRepository struct {
	db *gorm.DB
}

// NewSchoolRepository creates a new school repository
func NewSchoolRepository(db *gorm.DB) domainRepo.SchoolRepository {
	return &schoolRepository{db: db}
}

func (r *schoolRepository) Create(ctx context.Context, school *entity.School) error {
	return r.db.WithContext(ctx).Create(school).Error
}

func (r *schoolRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.School, error) {
	var school entity.School
	err := r.db.WithContext(ctx).First(&school, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &school, err
}

func (r *schoolRepository) Update(ctx context.Context, school *entity.School) error {
	return r.db.WithContext(ctx).Save(school).Error
}

func (r *schoolRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.School{}, "id = ?", id).Error
}

func (r *schoolRepository) List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.School, int64, error) {
	var schools []entity.School
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.School{})
	if search != "" {
		query = query.Where("name LIKE ?", "%"+search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Order("name ASC").
		Find(&schools).Error

	return schools, total, err
}

type schoolClassRepository struct {
	db *gorm.DB
}

// NewSchoolClassRepository creates a new class repository
func NewSchoolClassRepository(db *gorm.DB) domainRepo.SchoolClassRepository {
	return &schoolClassRepository{db: db}
}

func (r *schoolClassRepository) Create(ctx context.Context, class *entity.SchoolClass) error {
	return r.db.WithContext(ctx).Create(class).Error
}

func (r *schoolClassRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.SchoolClass, error) {
	var class entity.SchoolClass
	err := r.db.WithContext(ctx).Scopes(SchoolScope(ctx)).
		Preload("HomeroomTeacher").
		First(&class, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &class, err
}

func (r *schoolClassRepository) GetByGradeSection(ctx context.Context, schoolID uuid.UUID, grade int, section string) (*entity.SchoolClass, error) {
	var class entity.SchoolClass
	err := r.db.WithContext(ctx).
		First(&class, "school_id = ? AND grade = ? AND section = ?", schoolID, grade, section).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &class, err
}

func (r *schoolClassRepository) Update(ctx context.Context, class *entity.SchoolClass) error {
	return r.db.WithContext(ctx).Save(class).Error
}

func (r *schoolClassRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.SchoolClass{}, "id = ?", id).Error
}

func (r *schoolClassRepository) List(ctx context.Context, schoolID uuid.UUID, params *pagination.PaginationParams) ([]entity.SchoolClass, int64, error) {
	var classes []entity.SchoolClass
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.SchoolClass{}).
		Where("school_id = ?", schoolID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Preload("HomeroomTeacher").
		Order("grade ASC, section ASC").
		Find(&classes).Error

	return classes, total, err
}

func (r *schoolClassRepository) CountStudents(ctx context.Context, classID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Student{}).
		Where("school_class_id = ? AND is_active = ?", classID, true).
		Count(&count).Error
	return count, err
}
