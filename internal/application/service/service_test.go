package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/maktabhq/maktab-api/internal/domain/entity"
	"github.com/maktabhq/maktab-api/internal/domain/enum"
	infraRepo "github.com/maktabhq/maktab-api/internal/infrastructure/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&entity.School{},
		&entity.User{},
		&entity.Employee{},
		&entity.SchoolClass{},
		&entity.Student{},
		&entity.Discount{},
		&entity.StudentDiscount{},
		&entity.Invoice{},
		&entity.Payment{},
		&entity.ExpenseCategory{},
		&entity.RecurringExpense{},
		&entity.Expense{},
	)
	require.NoError(t, err)

	return db
}

func seedSchool(t *testing.T, db *gorm.DB) *entity.School {
	school := &entity.School{Name: "Test School", IsActive: true}
	require.NoError(t, db.Create(school).Error)
	return school
}

func seedUser(t *testing.T, db *gorm.DB, schoolID uuid.UUID) *entity.User {
	user := &entity.User{
		PhoneNumber:  "+998901234567",
		PasswordHash: "x",
		FirstName:    "Test",
		LastName:     "Accountant",
		Role:         enum.RoleAccountant,
		SchoolID:     &schoolID,
		IsActive:     true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedStudent(t *testing.T, db *gorm.DB, schoolID uuid.UUID, fee string) *entity.Student {
	student := &entity.Student{
		SchoolID:        schoolID,
		FirstName:       "Aziz",
		LastName:        "Karimov",
		ParentFirstName: "Bakhtiyor",
		ParentLastName:  "Karimov",
		ParentPhone1:    "+998901112233",
		MonthlyFee:      mustDecimal(t, fee),
		PaymentDay:      5,
		EnrolledAt:      time.Date(2024, time.September, 1, 0, 0, 0, 0, time.UTC),
		IsActive:        true,
	}
	require.NoError(t, db.Create(student).Error)
	return student
}

func schoolCtx(schoolID uuid.UUID) context.Context {
	return infraRepo.WithSchool(context.Background(), schoolID)
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return v
}
