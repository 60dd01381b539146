package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/maktabhq/maktab-api/internal/domain/entity"
	"github.com/maktabhq/maktab-api/internal/domain/enum"
	infraRepo "github.com/maktabhq/maktab-api/internal/infrastructure/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newRecurringService(db *gorm.DB) *RecurringExpenseService {
	return NewRecurringExpenseService(
		infraRepo.NewRecurringExpenseRepository(db),
		infraRepo.NewExpenseCategoryRepository(db),
		infraRepo.NewEmployeeRepository(db),
	)
}

func seedCategory(t *testing.T, db *gorm.DB, schoolID uuid.UUID, name string) *entity.ExpenseCategory {
	category := &entity.ExpenseCategory{SchoolID: &schoolID, Name: name}
	require.NoError(t, db.Create(category).Error)
	return category
}

func TestRecurringExpenseServiceCreate(t *testing.T) {
	db := setupTestDB(t)
	school := seedSchool(t, db)
	ctx := schoolCtx(school.ID)
	svc := newRecurringService(db)
	category := seedCategory(t, db, school.ID, "Rent")

	t.Run("creates a monthly template", func(t *testing.T) {
		template, err := svc.CreateRecurringExpense(ctx, &CreateRecurringExpenseInput{
			CategoryID: category.ID,
			Name:       "Office rent",
			Amount:     mustDecimal(t, "3000000"),
			DayOfMonth: 15,
			Recurrence: enum.RecurrenceMonthly,
		})
		require.NoError(t, err)
		assert.True(t, template.IsActive)
		assert.Nil(t, template.LastGeneratedAt)
	})

	t.Run("rejects day of month outside 1..31", func(t *testing.T) {
		_, err := svc.CreateRecurringExpense(ctx, &CreateRecurringExpenseInput{
			CategoryID: category.ID,
			Name:       "Broken",
			Amount:     mustDecimal(t, "1000"),
			DayOfMonth: 32,
			Recurrence: enum.RecurrenceMonthly,
		})
		require.Error(t, err)
	})

	t.Run("rejects unknown recurrence", func(t *testing.T) {
		_, err := svc.CreateRecurringExpense(ctx, &CreateRecurringExpenseInput{
			CategoryID: category.ID,
			Name:       "Broken",
			Amount:     mustDecimal(t, "1000"),
			DayOfMonth: 1,
			Recurrence: enum.RecurrenceType("weekly"),
		})
		require.Error(t, err)
	})

	t.Run("rejects missing category", func(t *testing.T) {
		_, err := svc.CreateRecurringExpense(ctx, &CreateRecurringExpenseInput{
			CategoryID: uuid.New(),
			Name:       "Broken",
			Amount:     mustDecimal(t, "1000"),
			DayOfMonth: 1,
			Recurrence: enum.RecurrenceMonthly,
		})
		require.Error(t, err)
	})
}

func TestRecurringExpenseServiceGenerate(t *testing.T) {
	db := setupTestDB(t)
	school := seedSchool(t, db)
	ctx := schoolCtx(school.ID)
	svc := newRecurringService(db)
	category := seedCategory(t, db, school.ID, "Rent")
	actor := seedUser(t, db, school.ID).ID

	template, err := svc.CreateRecurringExpense(ctx, &CreateRecurringExpenseInput{
		CategoryID: category.ID,
		Name:       "Office rent",
		Amount:     mustDecimal(t, "3000000"),
		DayOfMonth: 15,
		Recurrence: enum.RecurrenceMonthly,
	})
	require.NoError(t, err)

	expenseCount := func() int64 {
		var count int64
		require.NoError(t, db.Model(&entity.Expense{}).Count(&count).Error)
		return count
	}

	t.Run("not due before the day of month", func(t *testing.T) {
		generated, err := svc.Generate(ctx, actor, time.Date(2025, time.January, 10, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.Empty(t, generated)
	})

	t.Run("fires on the day of month", func(t *testing.T) {
		generated, err := svc.Generate(ctx, actor, time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		require.Len(t, generated, 1)
		assert.Equal(t, int64(1), expenseCount())

		expense := generated[0]
		assert.Equal(t, template.Name, expense.Name)
		assert.True(t, expense.Amount.Equal(template.Amount))
		require.NotNil(t, expense.RecurringExpenseID)
		assert.Equal(t, template.ID, *expense.RecurringExpenseID)
		assert.Equal(t, 15, expense.ExpenseDate.Day())
		require.NotNil(t, expense.CreatedByID)
		assert.Equal(t, actor, *expense.CreatedByID)

		var reloaded entity.RecurringExpense
		require.NoError(t, db.First(&reloaded, "id = ?", template.ID).Error)
		require.NotNil(t, reloaded.LastGeneratedAt)
	})

	t.Run("does not fire again later in the same month", func(t *testing.T) {
		generated, err := svc.Generate(ctx, actor, time.Date(2025, time.January, 20, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.Empty(t, generated)
		assert.Equal(t, int64(1), expenseCount())
	})

	t.Run("fires again the next month", func(t *testing.T) {
		generated, err := svc.Generate(ctx, actor, time.Date(2025, time.February, 15, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		require.Len(t, generated, 1)
		assert.Equal(t, int64(2), expenseCount())
	})

	t.Run("inactive templates never fire", func(t *testing.T) {
		inactive := false
		_, err := svc.UpdateRecurringExpense(ctx, template.ID, &UpdateRecurringExpenseInput{IsActive: &inactive})
		require.NoError(t, err)

		generated, err := svc.Generate(ctx, actor, time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.Empty(t, generated)
	})
}

func TestRecurringExpenseServiceQuarterly(t *testing.T) {
	db := setupTestDB(t)
	school := seedSchool(t, db)
	ctx := schoolCtx(school.ID)
	svc := newRecurringService(db)
	category := seedCategory(t, db, school.ID, "Rent")
	actor := seedUser(t, db, school.ID).ID

	_, err := svc.CreateRecurringExpense(ctx, &CreateRecurringExpenseInput{
		CategoryID: category.ID,
		Name:       "Insurance",
		Amount:     mustDecimal(t, "900000"),
		DayOfMonth: 1,
		Recurrence: enum.RecurrenceQuarterly,
	})
	require.NoError(t, err)

	generated, err := svc.Generate(ctx, actor, time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, generated, 1)

	t.Run("quiet for the rest of the quarter", func(t *testing.T) {
		generated, err := svc.Generate(ctx, actor, time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.Empty(t, generated)
	})

	t.Run("fires in the next quarter", func(t *testing.T) {
		generated, err := svc.Generate(ctx, actor, time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.Len(t, generated, 1)
	})
}

func TestRecurringExpenseServiceStrictDayOfMonth(t *testing.T) {
	db := setupTestDB(t)
	school := seedSchool(t, db)
	ctx := schoolCtx(school.ID)
	svc := newRecurringService(db)
	category := seedCategory(t, db, school.ID, "Rent")
	actor := seedUser(t, db, school.ID).ID

	_, err := svc.CreateRecurringExpense(ctx, &CreateRecurringExpenseInput{
		CategoryID: category.ID,
		Name:       "Cleaning",
		Amount:     mustDecimal(t, "250000"),
		DayOfMonth: 31,
		Recurrence: enum.RecurrenceMonthly,
	})
	require.NoError(t, err)

	t.Run("stays silent in a month without that day", func(t *testing.T) {
		// February 2025 ends on the 28th
		generated, err := svc.Generate(ctx, actor, time.Date(2025, time.February, 28, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.Empty(t, generated)
	})

	t.Run("fires on the exact day", func(t *testing.T) {
		generated, err := svc.Generate(ctx, actor, time.Date(2025, time.March, 31, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		require.Len(t, generated, 1)
		assert.Equal(t, 31, generated[0].ExpenseDate.Day())
	})
}

func TestRecurringExpenseServiceGenerateBatch(t *testing.T) {
	db := setupTestDB(t)
	school := seedSchool(t, db)
	ctx := schoolCtx(school.ID)
	svc := newRecurringService(db)
	category := seedCategory(t, db, school.ID, "Rent")
	actor := seedUser(t, db, school.ID).ID

	for _, name := range []string{"Office rent", "Warehouse rent"} {
		_, err := svc.CreateRecurringExpense(ctx, &CreateRecurringExpenseInput{
			CategoryID: category.ID,
			Name:       name,
			Amount:     mustDecimal(t, "3000000"),
			DayOfMonth: 15,
			Recurrence: enum.RecurrenceMonthly,
		})
		require.NoError(t, err)
	}

	asOf := time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC)
	generated, err := svc.Generate(ctx, actor, asOf)
	require.NoError(t, err)
	require.Len(t, generated, 2)

	var count int64
	require.NoError(t, db.Model(&entity.Expense{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)

	var templates []entity.RecurringExpense
	require.NoError(t, db.Find(&templates).Error)
	require.Len(t, templates, 2)
	for _, template := range templates {
		require.NotNil(t, template.LastGeneratedAt)
	}
}
