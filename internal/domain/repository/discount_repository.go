package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/maktabhq/maktab-api/internal/domain/entity"
	"github.com/maktabhq/maktab-api/pkg/pagination"
)

// DiscountRepository defines the interface for discount data operations
type DiscountRepository interface {
	Create(ctx context.Context, discount *entity.Discount) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Discount, error)
	Update(ctx context.Context, discount *entity.Discount) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, schoolID uuid.UUID, params *pagination.PaginationParams) ([]entity.Discount, int64, error)

	// Assign links a discount to a student. Duplicate assignments are
	// rejected by the unique index on (student_id, discount_id).
	Assign(ctx context.Context, assignment *entity.StudentDiscount) error
	Unassign(ctx context.Context, studentID, discountID uuid.UUID) error
	// ListByStudent returns a student's assignments with discounts preloaded
	ListByStudent(ctx context.Context, studentID uuid.UUID) ([]entity.StudentDiscount, error)
}
