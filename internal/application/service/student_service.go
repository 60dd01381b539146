package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/maktabhq/maktab-api/internal/domain/entity"
	"github.com/maktabhq/maktab-api/internal/domain/repository"
	infraRepo "github.com/maktabhq/maktab-api/internal/infrastructure/repository"
	"github.com/maktabhq/maktab-api/pkg/apperror"
	"github.com/maktabhq/maktab-api/pkg/pagination"
	"github.com/shopspring/decimal"
)

// StudentService handles student enrollment and management
type StudentService struct {
	studentRepo repository.StudentRepository
	classRepo   repository.SchoolClassRepository
}

// NewStudentService creates a new student service
func NewStudentService(studentRepo repository.StudentRepository, classRepo repository.SchoolClassRepository) *StudentService {
	return &StudentService{
		studentRepo: studentRepo,
		classRepo:   classRepo,
	}
}

// CreateStudentInput represents the create student input
type CreateStudentInput struct {
	SchoolClassID   *uuid.UUID
	FirstName       string
	LastName        string
	Phone           *string
	ParentFirstName string
	ParentLastName  string
	ParentPhone1    string
	ParentPhone2    *string
	MonthlyFee      decimal.Decimal
	PaymentDay      int
	EnrolledAt      time.Time
}

// CreateStudent enrolls a new student
func (s *StudentService) CreateStudent(ctx context.Context, input *CreateStudentInput) (*entity.Student, error) {
	schoolID, ok := infraRepo.GetSchoolID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("School context required")
	}

	if err := validateStudentFields(input.MonthlyFee, input.PaymentDay); err != nil {
		return nil, err
	}

	if input.SchoolClassID != nil {
		class, err := s.classRepo.GetByID(ctx, *input.SchoolClassID)
		if err != nil {
			return nil, err
		}
		if class == nil {
			return nil, apperror.NewNotFoundError("Class")
		}
	}

	enrolledAt := input.EnrolledAt
	if enrolledAt.IsZero() {
		enrolledAt = time.Now()
	}

	student := &entity.Student{
		SchoolID:        schoolID,
		SchoolClassID:   input.SchoolClassID,
		FirstName:       input.FirstName,
		LastName:        input.LastName,
		Phone:           input.Phone,
		ParentFirstName: input.ParentFirstName,
		ParentLastName:  input.ParentLastName,
		ParentPhone1:    input.ParentPhone1,
		ParentPhone2:    input.ParentPhone2,
		MonthlyFee:      input.MonthlyFee,
		PaymentDay:      input.PaymentDay,
		EnrolledAt:      enrolledAt,
		IsActive:        true,
	}
	if err := s.studentRepo.Create(ctx, student); err != nil {
		return nil, err
	}
	return student, nil
}

// UpdateStudentInput represents the update student input
type UpdateStudentInput struct {
	SchoolClassID   *uuid.UUID
	FirstName       *string
	LastName        *string
	Phone           *string
	ParentFirstName *string
	ParentLastName  *string
	ParentPhone1    *string
	ParentPhone2    *string
	MonthlyFee      *decimal.Decimal
	PaymentDay      *int
	IsActive        *bool
}

// UpdateStudent updates an existing student
func (s *StudentService) UpdateStudent(ctx context.Context, id uuid.UUID, input *UpdateStudentInput) (*entity.Student, error) {
	student, err := s.studentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, apperror.NewNotFoundError("Student")
	}

	if input.SchoolClassID != nil {
		class, err := s.classRepo.GetByID(ctx, *input.SchoolClassID)
		if err != nil {
			return nil, err
		}
		if class == nil {
			return nil, apperror.NewNotFoundError("Class")
		}
		student.SchoolClassID = input.SchoolClassID
	}
	if input.FirstName != nil {
		student.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		student.LastName = *input.LastName
	}
	if input.Phone != nil {
		student.Phone = input.Phone
	}
	if input.ParentFirstName != nil {
		student.ParentFirstName = *input.ParentFirstName
	}
	if input.ParentLastName != nil {
		student.ParentLastName = *input.ParentLastName
	}
	if input.ParentPhone1 != nil {
		student.ParentPhone1 = *input.ParentPhone1
	}
	if input.ParentPhone2 != nil {
		student.ParentPhone2 = input.ParentPhone2
	}
	if input.MonthlyFee != nil {
		student.MonthlyFee = *input.MonthlyFee
	}
	if input.PaymentDay != nil {
		student.PaymentDay = *input.PaymentDay
	}
	if input.IsActive != nil {
		student.IsActive = *input.IsActive
	}

	if err := validateStudentFields(student.MonthlyFee, student.PaymentDay); err != nil {
		return nil, err
	}

	if err := s.studentRepo.Update(ctx, student); err != nil {
		return nil, err
	}
	return student, nil
}

// GetStudent returns a single student with class and discounts
func (s *StudentService) GetStudent(ctx context.Context, id uuid.UUID) (*entity.Student, error) {
	student, err := s.studentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, apperror.NewNotFoundError("Student")
	}
	return student, nil
}

// ListStudents lists a school's students
func (s *StudentService) ListStudents(ctx context.Context, params *pagination.PaginationParams, filter repository.StudentFilter) ([]entity.Student, int64, error) {
	schoolID, ok := infraRepo.GetSchoolID(ctx)
	if !ok {
		return nil, 0, apperror.NewBadRequestError("School context required")
	}
	return s.studentRepo.List(ctx, schoolID, params, filter)
}

// GraduateStudent marks a student as graduated, which removes them
// from future invoice generation runs
func (s *StudentService) GraduateStudent(ctx context.Context, id uuid.UUID, graduatedAt time.Time) (*entity.Student, error) {
	student, err := s.studentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, apperror.NewNotFoundError("Student")
	}

	if graduatedAt.IsZero() {
		graduatedAt = time.Now()
	}
	student.GraduatedAt = &graduatedAt
	student.IsActive = false

	if err := s.studentRepo.Update(ctx, student); err != nil {
		return nil, err
	}
	return student, nil
}

// DeleteStudent deactivates a student, keeping their billing history
func (s *StudentService) DeleteStudent(ctx context.Context, id uuid.UUID) error {
	student, err := s.studentRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if student == nil {
		return apperror.NewNotFoundError("Student")
	}
	student.IsActive = false
	return s.studentRepo.Update(ctx, student)
}

func validateStudentFields(monthlyFee decimal.Decimal, paymentDay int) error {
	var fieldErrors []apperror.FieldError
	if monthlyFee.IsNegative() {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "monthly_fee", Message: "Must not be negative"})
	}
	if paymentDay < 1 || paymentDay > 31 {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "payment_day", Message: "Must be between 1 and 31"})
	}
	if len(fieldErrors) > 0 {
		return apperror.NewValidationError(fieldErrors)
	}
	return nil
}
