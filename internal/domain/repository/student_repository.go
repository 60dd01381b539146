package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/maktabhq/maktab-api/internal/domain/entity"
	"github.com/maktabhq/maktab-api/pkg/pagination"
)

// StudentFilter narrows student listings
type StudentFilter struct {
	ClassID    *uuid.UUID
	ActiveOnly bool
	Search     string
}

// StudentRepository defines the interface for student data operations
type StudentRepository interface {
	Create(ctx context.Context, student *entity.Student) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Student, error)
	Update(ctx context.Context, student *entity.Student) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, schoolID uuid.UUID, params *pagination.PaginationParams, filter StudentFilter) ([]entity.Student, int64, error)
	// ListBillable returns active, non-graduated students of a school with
	// their discount assignments preloaded
	ListBillable(ctx context.Context, schoolID uuid.UUID) ([]entity.Student, error)
}
