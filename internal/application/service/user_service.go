package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/maktabhq/maktab-api/internal/domain/entity"
	"github.com/maktabhq/maktab-api/internal/domain/enum"
	"github.com/maktabhq/maktab-api/internal/domain/repository"
	"github.com/maktabhq/maktab-api/pkg/apperror"
	"github.com/maktabhq/maktab-api/pkg/pagination"
	"golang.org/x/crypto/bcrypt"
)

// UserService handles operator account management
type UserService struct {
	userRepo   repository.UserRepository
	schoolRepo repository.SchoolRepository
}

// NewUserService creates a new user service
func NewUserService(userRepo repository.UserRepository, schoolRepo repository.SchoolRepository) *UserService {
	return &UserService{
		userRepo:   userRepo,
		schoolRepo: schoolRepo,
	}
}

// CreateUserInput represents the create user input
type CreateUserInput struct {
	PhoneNumber string
	Password    string
	FirstName   string
	LastName    string
	Role        enum.UserRole
	SchoolID    *uuid.UUID
}

// CreateUser creates a new account. The creator's role must sit above
// the target role in the hierarchy, and school roles require a school.
func (s *UserService) CreateUser(ctx context.Context, creatorRole enum.UserRole, input *CreateUserInput) (*entity.User, error) {
	if !input.Role.Valid() {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "role", Message: "Unknown role"},
		})
	}
	if !creatorRole.CanCreateRole(input.Role) {
		return nil, apperror.NewForbiddenError("Not allowed to create users with this role")
	}
	if len(input.Password) < 8 {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "password", Message: "Must be at least 8 characters"},
		})
	}

	if input.Role.IsSuperuser() {
		if input.SchoolID != nil {
			return nil, apperror.NewValidationError([]apperror.FieldError{
				{Field: "school_id", Message: "Platform accounts must not belong to a school"},
			})
		}
	} else {
		if input.SchoolID == nil {
			return nil, apperror.NewValidationError([]apperror.FieldError{
				{Field: "school_id", Message: "School accounts require a school"},
			})
		}
		school, err := s.schoolRepo.GetByID(ctx, *input.SchoolID)
		if err != nil {
			return nil, err
		}
		if school == nil {
			return nil, apperror.NewNotFoundError("School")
		}
	}

	existing, err := s.userRepo.GetByPhoneNumber(ctx, input.PhoneNumber)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Phone number already registered")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		PhoneNumber:  input.PhoneNumber,
		PasswordHash: string(hashed),
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Role:         input.Role,
		SchoolID:     input.SchoolID,
		IsActive:     true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateUserInput represents the update user input
type UpdateUserInput struct {
	FirstName *string
	LastName  *string
	Role      *enum.UserRole
	IsActive  *bool
}

// UpdateUser updates an existing account
func (s *UserService) UpdateUser(ctx context.Context, actorRole enum.UserRole, id uuid.UUID, input *UpdateUserInput) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NewNotFoundError("User")
	}

	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}
	if input.Role != nil && *input.Role != user.Role {
		if !actorRole.CanCreateRole(*input.Role) {
			return nil, apperror.NewForbiddenError("Not allowed to assign this role")
		}
		user.Role = *input.Role
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// GetUser returns a single account
func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NewNotFoundError("User")
	}
	return user, nil
}

// ListUsers lists accounts of a school, or platform accounts when nil
func (s *UserService) ListUsers(ctx context.Context, schoolID *uuid.UUID, params *pagination.PaginationParams) ([]entity.User, int64, error) {
	return s.userRepo.List(ctx, schoolID, params)
}

// DeleteUser deactivates an account
func (s *UserService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return apperror.NewNotFoundError("User")
	}
	user.IsActive = false
	return s.userRepo.Update(ctx, user)
}
