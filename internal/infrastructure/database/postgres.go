package database

import (
	"fmt"
	"log"

	"github.com/maktabhq/maktab-api/internal/config"
	"github.com/maktabhq/maktab-api/internal/domain/entity"
	"github.com/maktabhq/maktab-api/internal/domain/enum"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	logLevel := logger.Info

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying SQL DB to set connection pool settings
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Set connection pool settings
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	log.Println("Successfully connected to PostgreSQL database")
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	log.Println("Running database migrations...")

	err := db.AutoMigrate(
		// Tenant entities
		&entity.School{},
		&entity.User{},

		// Enrollment entities
		&entity.Employee{},
		&entity.SchoolClass{},
		&entity.Student{},

		// Billing entities
		&entity.Discount{},
		&entity.StudentDiscount{},
		&entity.Invoice{},
		&entity.Payment{},

		// Expense entities
		&entity.ExpenseCategory{},
		&entity.RecurringExpense{},
		&entity.Expense{},

		// System entities
		&entity.IdempotencyKey{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

// systemCategories are the shared expense categories every school sees
var systemCategories = []string{"Rent", "Utilities", "Salaries", "Supplies", "Other"}

// SeedDefaultData seeds the database with system categories and the
// owner account configured via environment variables
func SeedDefaultData(db *gorm.DB) error {
	log.Println("Seeding default data...")

	for _, name := range systemCategories {
		var existing entity.ExpenseCategory
		err := db.Where("name = ? AND is_system = ?", name, true).First(&existing).Error
		if err != nil {
			category := entity.ExpenseCategory{Name: name, IsSystem: true}
			if err := db.Create(&category).Error; err != nil {
				log.Printf("Warning: failed to create system category %s: %v", name, err)
			}
		}
	}

	ownerPhone := viper.GetString("OWNER_PHONE")
	ownerPassword := viper.GetString("OWNER_PASSWORD")

	if ownerPhone != "" && ownerPassword != "" {
		var existing entity.User
		if err := db.Where("phone_number = ?", ownerPhone).First(&existing).Error; err != nil {
			hashed, err := bcrypt.GenerateFromPassword([]byte(ownerPassword), bcrypt.DefaultCost)
			if err != nil {
				log.Printf("Warning: failed to hash owner password: %v", err)
			} else {
				owner := entity.User{
					PhoneNumber:  ownerPhone,
					PasswordHash: string(hashed),
					FirstName:    "Platform",
					LastName:     "Owner",
					Role:         enum.RoleOwner,
					IsActive:     true,
				}
				if err := db.Create(&owner).Error; err != nil {
					log.Printf("Warning: failed to create owner user: %v", err)
				} else {
					log.Printf("Owner user created: %s", ownerPhone)
				}
			}
		} else {
			log.Printf("Owner user already exists: %s", ownerPhone)
		}
	}

	log.Println("Default data seeding completed")
	return nil
}
