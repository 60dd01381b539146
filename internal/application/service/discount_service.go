package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/maktabhq/maktab-api/internal/domain/entity"
	"github.com/maktabhq/maktab-api/internal/domain/enum"
	"github.com/maktabhq/maktab-api/internal/domain/repository"
	infraRepo "github.com/maktabhq/maktab-api/internal/infrastructure/repository"
	"github.com/maktabhq/maktab-api/pkg/apperror"
	"github.com/maktabhq/maktab-api/pkg/pagination"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// DiscountService handles discount definitions, assignments and the
// fee reduction calculation used during invoice generation
type DiscountService struct {
	discountRepo repository.DiscountRepository
	studentRepo  repository.StudentRepository
}

// NewDiscountService creates a new discount service
func NewDiscountService(discountRepo repository.DiscountRepository, studentRepo repository.StudentRepository) *DiscountService {
	return &DiscountService{
		discountRepo: discountRepo,
		studentRepo:  studentRepo,
	}
}

// CreateDiscountInput represents the create discount input
type CreateDiscountInput struct {
	Name       string
	Type       enum.DiscountType
	Value      decimal.Decimal
	ValidFrom  *time.Time
	ValidUntil *time.Time
}

// CreateDiscount creates a new discount definition
func (s *DiscountService) CreateDiscount(ctx context.Context, input *CreateDiscountInput) (*entity.Discount, error) {
	schoolID, ok := infraRepo.GetSchoolID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("School context required")
	}

	if err := validateDiscountValue(input.Type, input.Value); err != nil {
		return nil, err
	}
	if input.ValidFrom != nil && input.ValidUntil != nil && input.ValidUntil.Before(*input.ValidFrom) {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "valid_until", Message: "Must not be before valid_from"},
		})
	}

	discount := &entity.Discount{
		SchoolID:   schoolID,
		Name:       input.Name,
		Type:       input.Type,
		Value:      input.Value,
		ValidFrom:  input.ValidFrom,
		ValidUntil: input.ValidUntil,
		IsActive:   true,
	}
	if err := s.discountRepo.Create(ctx, discount); err != nil {
		return nil, err
	}
	return discount, nil
}

// UpdateDiscountInput represents the update discount input
type UpdateDiscountInput struct {
	Name       *string
	Type       *enum.DiscountType
	Value      *decimal.Decimal
	ValidFrom  *time.Time
	ValidUntil *time.Time
	IsActive   *bool
}

// UpdateDiscount updates an existing discount definition
func (s *DiscountService) UpdateDiscount(ctx context.Context, id uuid.UUID, input *UpdateDiscountInput) (*entity.Discount, error) {
	discount, err := s.discountRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if discount == nil {
		return nil, apperror.NewNotFoundError("Discount")
	}

	if input.Name != nil {
		discount.Name = *input.Name
	}
	if input.Type != nil {
		discount.Type = *input.Type
	}
	if input.Value != nil {
		discount.Value = *input.Value
	}
	if input.ValidFrom != nil {
		discount.ValidFrom = input.ValidFrom
	}
	if input.ValidUntil != nil {
		discount.ValidUntil = input.ValidUntil
	}
	if input.IsActive != nil {
		discount.IsActive = *input.IsActive
	}

	if err := validateDiscountValue(discount.Type, discount.Value); err != nil {
		return nil, err
	}

	if err := s.discountRepo.Update(ctx, discount); err != nil {
		return nil, err
	}
	return discount, nil
}

// GetDiscount returns a single discount
func (s *DiscountService) GetDiscount(ctx context.Context, id uuid.UUID) (*entity.Discount, error) {
	discount, err := s.discountRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if discount == nil {
		return nil, apperror.NewNotFoundError("Discount")
	}
	return discount, nil
}

// ListDiscounts lists a school's discounts
func (s *DiscountService) ListDiscounts(ctx context.Context, params *pagination.PaginationParams) ([]entity.Discount, int64, error) {
	schoolID, ok := infraRepo.GetSchoolID(ctx)
	if !ok {
		return nil, 0, apperror.NewBadRequestError("School context required")
	}
	return s.discountRepo.List(ctx, schoolID, params)
}

// DeleteDiscount removes a discount and its student assignments
func (s *DiscountService) DeleteDiscount(ctx context.Context, id uuid.UUID) error {
	discount, err := s.discountRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if discount == nil {
		return apperror.NewNotFoundError("Discount")
	}
	return s.discountRepo.Delete(ctx, id)
}

// AssignDiscount links a discount to a student
func (s *DiscountService) AssignDiscount(ctx context.Context, studentID, discountID uuid.UUID) (*entity.StudentDiscount, error) {
	student, err := s.studentRepo.GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, apperror.NewNotFoundError("Student")
	}

	discount, err := s.discountRepo.GetByID(ctx, discountID)
	if err != nil {
		return nil, err
	}
	if discount == nil {
		return nil, apperror.NewNotFoundError("Discount")
	}
	if discount.SchoolID != student.SchoolID {
		return nil, apperror.NewForbiddenError("Discount belongs to another school")
	}

	existing, err := s.discountRepo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	for _, a := range existing {
		if a.DiscountID == discountID {
			return nil, apperror.NewConflictError("Discount already assigned to student")
		}
	}

	assignment := &entity.StudentDiscount{
		StudentID:  studentID,
		DiscountID: discountID,
	}
	if err := s.discountRepo.Assign(ctx, assignment); err != nil {
		return nil, err
	}
	assignment.Discount = discount
	return assignment, nil
}

// UnassignDiscount removes a discount from a student
func (s *DiscountService) UnassignDiscount(ctx context.Context, studentID, discountID uuid.UUID) error {
	student, err := s.studentRepo.GetByID(ctx, studentID)
	if err != nil {
		return err
	}
	if student == nil {
		return apperror.NewNotFoundError("Student")
	}
	return s.discountRepo.Unassign(ctx, studentID, discountID)
}

// CalculateStudentDiscount returns the total fee reduction for a
// student on the given date. Percentage discounts apply to the base
// monthly fee, never to an already discounted amount, and the stacked
// total is capped at the base fee so an invoice can reach zero but
// never go negative.
func (s *DiscountService) CalculateStudentDiscount(ctx context.Context, studentID uuid.UUID, onDate time.Time) (decimal.Decimal, error) {
	student, err := s.studentRepo.GetByID(ctx, studentID)
	if err != nil {
		return decimal.Zero, err
	}
	if student == nil {
		return decimal.Zero, apperror.NewNotFoundError("Student")
	}
	return StackDiscounts(student.MonthlyFee, student.Discounts, onDate), nil
}

// StackDiscounts sums the reductions of every assignment valid on the
// given date against the base fee, capped at the base fee
func StackDiscounts(base decimal.Decimal, assignments []entity.StudentDiscount, onDate time.Time) decimal.Decimal {
	total := decimal.Zero
	for _, a := range assignments {
		if a.Discount == nil || !a.Discount.IsValidOn(onDate) {
			continue
		}
		total = total.Add(a.Discount.Amount(base))
	}
	if total.GreaterThan(base) {
		return base
	}
	return total
}

func validateDiscountValue(discountType enum.DiscountType, value decimal.Decimal) error {
	if !discountType.Valid() {
		return apperror.NewValidationError([]apperror.FieldError{
			{Field: "type", Message: "Must be percentage or fixed"},
		})
	}
	if value.IsNegative() {
		return apperror.NewValidationError([]apperror.FieldError{
			{Field: "value", Message: "Must not be negative"},
		})
	}
	if discountType == enum.DiscountTypePercentage && value.GreaterThan(hundred) {
		return apperror.NewValidationError([]apperror.FieldError{
			{Field: "value", Message: "Percentage must not exceed 100"},
		})
	}
	return nil
}
