package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/maktabhq/maktab-api/internal/domain/entity"
	"github.com/maktabhq/maktab-api/internal/domain/repository"
	"github.com/maktabhq/maktab-api/pkg/apperror"
	"github.com/maktabhq/maktab-api/pkg/pagination"
)

// SchoolService handles school management, restricted to platform accounts
type SchoolService struct {
	schoolRepo repository.SchoolRepository
}

// NewSchoolService creates a new school service
func NewSchoolService(schoolRepo repository.SchoolRepository) *SchoolService {
	return &SchoolService{schoolRepo: schoolRepo}
}

// CreateSchoolInput represents the create school input
type CreateSchoolInput struct {
	Name                  string
	Address               *string
	Phone                 *string
	SubscriptionStartsAt  *time.Time
	SubscriptionExpiresAt *time.Time
}

// CreateSchool creates a new school
func (s *SchoolService) CreateSchool(ctx context.Context, input *CreateSchoolInput) (*entity.School, error) {
	school := &entity.School{
		Name:                  input.Name,
		Address:               input.Address,
		Phone:                 input.Phone,
		SubscriptionStartsAt:  input.SubscriptionStartsAt,
		SubscriptionExpiresAt: input.SubscriptionExpiresAt,
		IsActive:              true,
	}
	if err := s.schoolRepo.Create(ctx, school); err != nil {
		return nil, err
	}
	return school, nil
}

// UpdateSchoolInput represents the update school input
type UpdateSchoolInput struct {
	Name                  *string
	Address               *string
	Phone                 *string
	SubscriptionStartsAt  *time.Time
	SubscriptionExpiresAt *time.Time
	IsActive              *bool
}

// UpdateSchool updates an existing school
func (s *SchoolService) UpdateSchool(ctx context.Context, id uuid.UUID, input *UpdateSchoolInput) (*entity.School, error) {
	school, err := s.schoolRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if school == nil {
		return nil, apperror.NewNotFoundError("School")
	}

	if input.Name != nil {
		school.Name = *input.Name
	}
	if input.Address != nil {
		school.Address = input.Address
	}
	if input.Phone != nil {
		school.Phone = input.Phone
	}
	if input.SubscriptionStartsAt != nil {
		school.SubscriptionStartsAt = input.SubscriptionStartsAt
	}
	if input.SubscriptionExpiresAt != nil {
		school.SubscriptionExpiresAt = input.SubscriptionExpiresAt
	}
	if input.IsActive != nil {
		school.IsActive = *input.IsActive
	}

	if err := s.schoolRepo.Update(ctx, school); err != nil {
		return nil, err
	}
	return school, nil
}

// GetSchool returns a single school
func (s *SchoolService) GetSchool(ctx context.Context, id uuid.UUID) (*entity.School, error) {
	school, err := s.schoolRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if school == nil {
		return nil, apperror.NewNotFoundError("School")
	}
	return school, nil
}

// ListSchools lists all schools
func (s *SchoolService) ListSchools(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.School, int64, error) {
	return s.schoolRepo.List(ctx, params, search)
}

// DeleteSchool deactivates a school rather than removing its records
func (s *SchoolService) DeleteSchool(ctx context.Context, id uuid.UUID) error {
	school, err := s.schoolRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if school == nil {
		return apperror.NewNotFoundError("School")
	}
	school.IsActive = false
	return s.schoolRepo.Update(ctx, school)
}
