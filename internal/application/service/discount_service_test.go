package service

import (
	"testing"
	"time"

	"github.com/maktabhq/maktab-api/internal/domain/entity"
	"github.com/maktabhq/maktab-api/internal/domain/enum"
	infraRepo "github.com/maktabhq/maktab-api/internal/infrastructure/repository"
	"github.com/maktabhq/maktab-api/pkg/apperror"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStackDiscounts(t *testing.T) {
	base := decimal.NewFromInt(1000000)
	onDate := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)

	assignment := func(dType enum.DiscountType, value string, active bool) entity.StudentDiscount {
		return entity.StudentDiscount{
			Discount: &entity.Discount{
				Type:     dType,
				Value:    mustDecimal(t, value),
				IsActive: active,
			},
		}
	}

	t.Run("percentage applies to the base fee", func(t *testing.T) {
		total := StackDiscounts(base, []entity.StudentDiscount{
			assignment(enum.DiscountTypePercentage, "10", true),
		}, onDate)
		assert.True(t, total.Equal(decimal.NewFromInt(100000)), "got %s", total)
	})

	t.Run("percentages stack against the base, not each other", func(t *testing.T) {
		total := StackDiscounts(base, []entity.StudentDiscount{
			assignment(enum.DiscountTypePercentage, "10", true),
			assignment(enum.DiscountTypePercentage, "20", true),
		}, onDate)
		assert.True(t, total.Equal(decimal.NewFromInt(300000)), "got %s", total)
	})

	t.Run("stacked total is capped at the base fee", func(t *testing.T) {
		total := StackDiscounts(base, []entity.StudentDiscount{
			assignment(enum.DiscountTypePercentage, "10", true),
			assignment(enum.DiscountTypeFixed, "950000", true),
		}, onDate)
		assert.True(t, total.Equal(base), "got %s", total)
	})

	t.Run("inactive discounts are skipped", func(t *testing.T) {
		total := StackDiscounts(base, []entity.StudentDiscount{
			assignment(enum.DiscountTypeFixed, "50000", false),
		}, onDate)
		assert.True(t, total.IsZero())
	})

	t.Run("expired discounts are skipped", func(t *testing.T) {
		until := time.Date(2025, time.January, 31, 0, 0, 0, 0, time.UTC)
		expired := entity.StudentDiscount{
			Discount: &entity.Discount{
				Type:       enum.DiscountTypeFixed,
				Value:      mustDecimal(t, "50000"),
				IsActive:   true,
				ValidUntil: &until,
			},
		}
		total := StackDiscounts(base, []entity.StudentDiscount{expired}, onDate)
		assert.True(t, total.IsZero())
	})

	t.Run("zero base fee yields zero discount", func(t *testing.T) {
		total := StackDiscounts(decimal.Zero, []entity.StudentDiscount{
			assignment(enum.DiscountTypeFixed, "50000", true),
		}, onDate)
		assert.True(t, total.IsZero())
	})
}

func TestDiscountServiceCreateDiscount(t *testing.T) {
	db := setupTestDB(t)
	school := seedSchool(t, db)
	ctx := schoolCtx(school.ID)

	svc := NewDiscountService(
		infraRepo.NewDiscountRepository(db),
		infraRepo.NewStudentRepository(db),
	)

	t.Run("creates a valid percentage discount", func(t *testing.T) {
		discount, err := svc.CreateDiscount(ctx, &CreateDiscountInput{
			Name:  "Sibling",
			Type:  enum.DiscountTypePercentage,
			Value: mustDecimal(t, "15"),
		})
		require.NoError(t, err)
		assert.Equal(t, school.ID, discount.SchoolID)
		assert.True(t, discount.IsActive)
	})

	t.Run("rejects percentage above 100", func(t *testing.T) {
		_, err := svc.CreateDiscount(ctx, &CreateDiscountInput{
			Name:  "Broken",
			Type:  enum.DiscountTypePercentage,
			Value: mustDecimal(t, "120"),
		})
		require.Error(t, err)
		appErr := apperror.GetAppError(err)
		assert.Equal(t, 422, appErr.Code)
	})

	t.Run("rejects negative value", func(t *testing.T) {
		_, err := svc.CreateDiscount(ctx, &CreateDiscountInput{
			Name:  "Broken",
			Type:  enum.DiscountTypeFixed,
			Value: mustDecimal(t, "-100"),
		})
		require.Error(t, err)
	})

	t.Run("rejects window with valid_until before valid_from", func(t *testing.T) {
		from := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
		until := time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC)
		_, err := svc.CreateDiscount(ctx, &CreateDiscountInput{
			Name:       "Broken",
			Type:       enum.DiscountTypeFixed,
			Value:      mustDecimal(t, "100"),
			ValidFrom:  &from,
			ValidUntil: &until,
		})
		require.Error(t, err)
	})
}

func TestDiscountServiceAssign(t *testing.T) {
	db := setupTestDB(t)
	school := seedSchool(t, db)
	ctx := schoolCtx(school.ID)
	student := seedStudent(t, db, school.ID, "1000000")

	svc := NewDiscountService(
		infraRepo.NewDiscountRepository(db),
		infraRepo.NewStudentRepository(db),
	)

	discount, err := svc.CreateDiscount(ctx, &CreateDiscountInput{
		Name:  "Orphan support",
		Type:  enum.DiscountTypeFixed,
		Value: mustDecimal(t, "200000"),
	})
	require.NoError(t, err)

	t.Run("assigns a discount to a student", func(t *testing.T) {
		_, err := svc.AssignDiscount(ctx, student.ID, discount.ID)
		require.NoError(t, err)
	})

	t.Run("rejects assigning the same discount twice", func(t *testing.T) {
		_, err := svc.AssignDiscount(ctx, student.ID, discount.ID)
		require.Error(t, err)
		assert.Equal(t, 409, apperror.GetAppError(err).Code)
	})

	t.Run("calculates the assigned reduction", func(t *testing.T) {
		total, err := svc.CalculateStudentDiscount(ctx, student.ID, time.Now())
		require.NoError(t, err)
		assert.True(t, total.Equal(mustDecimal(t, "200000")), "got %s", total)
	})

	t.Run("unassigns and the reduction disappears", func(t *testing.T) {
		require.NoError(t, svc.UnassignDiscount(ctx, student.ID, discount.ID))
		total, err := svc.CalculateStudentDiscount(ctx, student.ID, time.Now())
		require.NoError(t, err)
		assert.True(t, total.IsZero())
	})
}
