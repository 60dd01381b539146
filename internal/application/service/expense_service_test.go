package service

import (
	"testing"
	"time"

	"github.com/maktabhq/maktab-api/internal/domain/entity"
	infraRepo "github.com/maktabhq/maktab-api/internal/infrastructure/repository"
	"github.com/maktabhq/maktab-api/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpenseCategoryServiceGuards(t *testing.T) {
	db := setupTestDB(t)
	school := seedSchool(t, db)
	ctx := schoolCtx(school.ID)

	categoryRepo := infraRepo.NewExpenseCategoryRepository(db)
	svc := NewExpenseCategoryService(categoryRepo)

	system := &entity.ExpenseCategory{Name: "Salaries", IsSystem: true}
	require.NoError(t, db.Create(system).Error)

	t.Run("system categories cannot be deleted", func(t *testing.T) {
		err := svc.DeleteCategory(ctx, system.ID)
		require.Error(t, err)
		assert.Equal(t, 403, apperror.GetAppError(err).Code)
	})

	t.Run("system categories cannot be renamed", func(t *testing.T) {
		_, err := svc.UpdateCategory(ctx, system.ID, "Wages")
		require.Error(t, err)
	})

	t.Run("school category with expenses cannot be deleted", func(t *testing.T) {
		own, err := svc.CreateCategory(ctx, "Maintenance")
		require.NoError(t, err)

		user := seedUser(t, db, school.ID)
		require.NoError(t, db.Create(&entity.Expense{
			SchoolID:    school.ID,
			CategoryID:  own.ID,
			Name:        "Roof repair",
			Amount:      mustDecimal(t, "500000"),
			ExpenseDate: time.Now(),
			CreatedByID: &user.ID,
		}).Error)

		err = svc.DeleteCategory(ctx, own.ID)
		require.Error(t, err)
		assert.Equal(t, 409, apperror.GetAppError(err).Code)
	})

	t.Run("empty school category deletes cleanly", func(t *testing.T) {
		own, err := svc.CreateCategory(ctx, "Events")
		require.NoError(t, err)
		require.NoError(t, svc.DeleteCategory(ctx, own.ID))
	})

	t.Run("listing includes both system and school categories", func(t *testing.T) {
		categories, err := svc.ListCategories(ctx)
		require.NoError(t, err)

		names := make([]string, 0, len(categories))
		for _, c := range categories {
			names = append(names, c.Name)
		}
		assert.Contains(t, names, "Salaries")
		assert.Contains(t, names, "Maintenance")
		assert.NotContains(t, names, "Events")
	})
}
