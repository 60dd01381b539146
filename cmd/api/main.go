package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/maktabhq/maktab-api/internal/application/service"
	"github.com/maktabhq/maktab-api/internal/config"
	"github.com/maktabhq/maktab-api/internal/infrastructure/database"
	"github.com/maktabhq/maktab-api/internal/infrastructure/repository"
	"github.com/maktabhq/maktab-api/internal/presentation/http/handler"
	"github.com/maktabhq/maktab-api/internal/presentation/http/routes"
	"github.com/maktabhq/maktab-api/pkg/utils"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Seed default data
	if err := database.SeedDefaultData(db); err != nil {
		log.Printf("Warning: Failed to seed default data: %v", err)
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	schoolRepo := repository.NewSchoolRepository(db)
	classRepo := repository.NewSchoolClassRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	employeeRepo := repository.NewEmployeeRepository(db)
	discountRepo := repository.NewDiscountRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	categoryRepo := repository.NewExpenseCategoryRepository(db)
	expenseRepo := repository.NewExpenseRepository(db)
	recurringRepo := repository.NewRecurringExpenseRepository(db)
	reportRepo := repository.NewReportRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtManager)
	schoolService := service.NewSchoolService(schoolRepo)
	classService := service.NewSchoolClassService(classRepo, employeeRepo)
	studentService := service.NewStudentService(studentRepo, classRepo)
	employeeService := service.NewEmployeeService(employeeRepo)
	discountService := service.NewDiscountService(discountRepo, studentRepo)
	invoiceService := service.NewInvoiceService(invoiceRepo, paymentRepo, studentRepo)
	paymentService := service.NewPaymentService(paymentRepo, invoiceRepo)
	categoryService := service.NewExpenseCategoryService(categoryRepo)
	expenseService := service.NewExpenseService(expenseRepo, categoryRepo, employeeRepo)
	recurringService := service.NewRecurringExpenseService(recurringRepo, categoryRepo, employeeRepo)
	reportService := service.NewReportService(reportRepo)
	userService := service.NewUserService(userRepo, schoolRepo)

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:             handler.NewAuthHandler(authService),
		School:           handler.NewSchoolHandler(schoolService),
		Class:            handler.NewSchoolClassHandler(classService),
		Student:          handler.NewStudentHandler(studentService),
		Employee:         handler.NewEmployeeHandler(employeeService),
		Discount:         handler.NewDiscountHandler(discountService),
		Invoice:          handler.NewInvoiceHandler(invoiceService),
		Payment:          handler.NewPaymentHandler(paymentService),
		Expense:          handler.NewExpenseHandler(expenseService),
		ExpenseCategory:  handler.NewExpenseCategoryHandler(categoryService),
		RecurringExpense: handler.NewRecurringExpenseHandler(recurringService),
		Report:           handler.NewReportHandler(reportService),
		User:             handler.NewUserHandler(userService),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
	})

	// Get port from environment or use default
	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting %s server on port %s...", cfg.App.Name, port)
	log.Printf("Environment: %s", cfg.App.Env)

	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
