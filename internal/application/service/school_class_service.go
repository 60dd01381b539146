package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/maktabhq/maktab-api/internal/domain/entity"
	"github.com/maktabhq/maktab-api/internal/domain/repository"
	infraRepo "github.com/maktabhq/maktab-api/internal/infrastructure/repository"
	"github.com/maktabhq/maktab-api/pkg/apperror"
	"github.com/maktabhq/maktab-api/pkg/pagination"
)

// SchoolClassService handles class management
type SchoolClassService struct {
	classRepo    repository.SchoolClassRepository
	employeeRepo repository.EmployeeRepository
}

// NewSchoolClassService creates a new class service
func NewSchoolClassService(classRepo repository.SchoolClassRepository, employeeRepo repository.EmployeeRepository) *SchoolClassService {
	return &SchoolClassService{
		classRepo:    classRepo,
		employeeRepo: employeeRepo,
	}
}

// CreateClassInput represents the create class input
type CreateClassInput struct {
	Grade             int
	Section           string
	HomeroomTeacherID *uuid.UUID
}

// CreateClass creates a new class. Grade/section pairs are unique per school.
func (s *SchoolClassService) CreateClass(ctx context.Context, input *CreateClassInput) (*entity.SchoolClass, error) {
	schoolID, ok := infraRepo.GetSchoolID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("School context required")
	}

	if err := validateClassFields(input.Grade, input.Section); err != nil {
		return nil, err
	}

	existing, err := s.classRepo.GetByGradeSection(ctx, schoolID, input.Grade, input.Section)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Class with this grade and section already exists")
	}

	if input.HomeroomTeacherID != nil {
		teacher, err := s.employeeRepo.GetByID(ctx, *input.HomeroomTeacherID)
		if err != nil {
			return nil, err
		}
		if teacher == nil {
			return nil, apperror.NewNotFoundError("Employee")
		}
	}

	class := &entity.SchoolClass{
		SchoolID:          schoolID,
		Grade:             input.Grade,
		Section:           input.Section,
		HomeroomTeacherID: input.HomeroomTeacherID,
		IsActive:          true,
	}
	if err := s.classRepo.Create(ctx, class); err != nil {
		return nil, err
	}
	return class, nil
}

// UpdateClassInput represents the update class input
type UpdateClassInput struct {
	Grade             *int
	Section           *string
	HomeroomTeacherID *uuid.UUID
	IsActive          *bool
}

// UpdateClass updates an existing class
func (s *SchoolClassService) UpdateClass(ctx context.Context, id uuid.UUID, input *UpdateClassInput) (*entity.SchoolClass, error) {
	class, err := s.classRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if class == nil {
		return nil, apperror.NewNotFoundError("Class")
	}

	if input.Grade != nil {
		class.Grade = *input.Grade
	}
	if input.Section != nil {
		class.Section = *input.Section
	}
	if input.HomeroomTeacherID != nil {
		class.HomeroomTeacherID = input.HomeroomTeacherID
	}
	if input.IsActive != nil {
		class.IsActive = *input.IsActive
	}

	if err := validateClassFields(class.Grade, class.Section); err != nil {
		return nil, err
	}

	if input.Grade != nil || input.Section != nil {
		existing, err := s.classRepo.GetByGradeSection(ctx, class.SchoolID, class.Grade, class.Section)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != class.ID {
			return nil, apperror.NewConflictError("Class with this grade and section already exists")
		}
	}

	if err := s.classRepo.Update(ctx, class); err != nil {
		return nil, err
	}
	return class, nil
}

// GetClass returns a single class
func (s *SchoolClassService) GetClass(ctx context.Context, id uuid.UUID) (*entity.SchoolClass, error) {
	class, err := s.classRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if class == nil {
		return nil, apperror.NewNotFoundError("Class")
	}
	return class, nil
}

// ListClasses lists a school's classes
func (s *SchoolClassService) ListClasses(ctx context.Context, params *pagination.PaginationParams) ([]entity.SchoolClass, int64, error) {
	schoolID, ok := infraRepo.GetSchoolID(ctx)
	if !ok {
		return nil, 0, apperror.NewBadRequestError("School context required")
	}
	return s.classRepo.List(ctx, schoolID, params)
}

// DeleteClass removes a class that has no active students
func (s *SchoolClassService) DeleteClass(ctx context.Context, id uuid.UUID) error {
	class, err := s.classRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if class == nil {
		return apperror.NewNotFoundError("Class")
	}

	count, err := s.classRepo.CountStudents(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return apperror.NewConflictError("Class has active students and cannot be deleted")
	}

	return s.classRepo.Delete(ctx, id)
}

func validateClassFields(grade int, section string) error {
	var fieldErrors []apperror.FieldError
	if grade < 1 || grade > 11 {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "grade", Message: "Must be between 1 and 11"})
	}
	if section == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "section", Message: "Must not be empty"})
	}
	if len(fieldErrors) > 0 {
		return apperror.NewValidationError(fieldErrors)
	}
	return nil
}
