package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/maktabhq/maktab-api/internal/domain/entity"
	"github.com/maktabhq/maktab-api/pkg/pagination"
)

// SchoolRepository defines the interface for school data operations
type SchoolRepository interface {
	Create(ctx context.Context, school *entity.School) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.School, error)
	Update(ctx context.Context, school *entity.School) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.School, int64, error)
}

// SchoolClassRepository defines the interface for class data operations
type SchoolClassRepository interface {
	Create(ctx context.Context, class *entity.SchoolClass) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.SchoolClass, error)
	// GetByGradeSection looks up a class by its unique grade/section pair within a school
	GetByGradeSection(ctx context.Context, schoolID uuid.UUID, grade int, section string) (*entity.SchoolClass, error)
	Update(ctx context.Context, class *entity.SchoolClass) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, schoolID uuid.UUID, params *pagination.PaginationParams) ([]entity.SchoolClass, int64, error)
	CountStudents(ctx context.Context, classID uuid.UUID) (int64, error)
}
