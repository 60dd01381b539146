package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/maktabhq/maktab-api/internal/domain/entity"
	"github.com/maktabhq/maktab-api/pkg/pagination"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	GetByPhoneNumber(ctx context.Context, phoneNumber string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	Delete(ctx context.Context, id uuid.UUID) error
	// List returns users of a school; a nil schoolID lists platform accounts
	List(ctx context.Context, schoolID *uuid.UUID, params *pagination.PaginationParams) ([]entity.User, int64, error)
}
