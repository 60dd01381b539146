package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/maktabhq/maktab-api/internal/config"
	"github.com/maktabhq/maktab-api/internal/domain/enum"
	domainRepo "github.com/maktabhq/maktab-api/internal/domain/repository"
	"github.com/maktabhq/maktab-api/internal/presentation/http/handler"
	"github.com/maktabhq/maktab-api/internal/presentation/http/middleware"
	"github.com/maktabhq/maktab-api/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth             *handler.AuthHandler
	School           *handler.SchoolHandler
	Class            *handler.SchoolClassHandler
	Student          *handler.StudentHandler
	Employee         *handler.EmployeeHandler
	Discount         *handler.DiscountHandler
	Invoice          *handler.InvoiceHandler
	Payment          *handler.PaymentHandler
	Expense          *handler.ExpenseHandler
	ExpenseCategory  *handler.ExpenseCategoryHandler
	RecurringExpense *handler.RecurringExpenseHandler
	Report           *handler.ReportHandler
	User             *handler.UserHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Public routes (no authentication required)
		registerAuthRoutes(v1, h)

		// Protected routes (authentication required)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))

		// Per-school rate limiter
		rateLimiter := middleware.NewSchoolRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: float64(deps.Cfg.RateLimit.Requests) / float64(deps.Cfg.RateLimit.Duration),
			BurstSize:         deps.Cfg.RateLimit.Requests,
			CleanupInterval:   5 * time.Minute,
			EntryTTL:          10 * time.Minute,
		})
		protected.Use(rateLimiter.Middleware())

		registerProtectedRoutes(protected, h, deps)
	}

	return router
}

func registerAuthRoutes(v1 *gin.RouterGroup, h *Handlers) {
	auth := v1.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.Refresh)
	}
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	idempotency := middleware.IdempotencyConfig{Repo: deps.IdempotencyRepo}

	// Auth/Profile routes
	protected.GET("/profile", h.Auth.Profile)
	protected.PUT("/profile/password", h.Auth.ChangePassword)

	// Schools (platform accounts only)
	schools := protected.Group("/schools")
	schools.Use(middleware.RequireRole(enum.RoleOwner, enum.RoleSuperuser))
	{
		schools.GET("", h.School.List)
		schools.POST("", h.School.Create)
		schools.GET("/:id", h.School.Get)
		schools.PUT("/:id", h.School.Update)
		schools.DELETE("/:id", h.School.Delete)
	}

	// Classes
	classes := protected.Group("/classes")
	{
		classes.GET("", h.Class.List)
		classes.GET("/:id", h.Class.Get)

		write := classes.Group("")
		write.Use(middleware.RequirePermission("students:write"))
		{
			write.POST("", h.Class.Create)
			write.PUT("/:id", h.Class.Update)
			write.DELETE("/:id", h.Class.Delete)
		}
	}

	// Students
	students := protected.Group("/students")
	{
		students.GET("", h.Student.List)
		students.GET("/:id", h.Student.Get)
		students.GET("/:id/discount", h.Discount.Calculate)

		write := students.Group("")
		write.Use(middleware.RequirePermission("students:write"))
		{
			write.POST("", middleware.Idempotency(idempotency), h.Student.Create)
			write.PUT("/:id", h.Student.Update)
			write.POST("/:id/graduate", h.Student.Graduate)
			write.DELETE("/:id", h.Student.Delete)
			write.POST("/:id/discounts", h.Discount.Assign)
			write.DELETE("/:id/discounts/:discount_id", h.Discount.Unassign)
		}
	}

	// Employees
	employees := protected.Group("/employees")
	{
		employees.GET("", h.Employee.List)
		employees.GET("/:id", h.Employee.Get)

		write := employees.Group("")
		write.Use(middleware.RequirePermission("expenses:write"))
		{
			write.POST("", h.Employee.Create)
			write.PUT("/:id", h.Employee.Update)
			write.DELETE("/:id", h.Employee.Delete)
		}
	}

	// Discounts
	discounts := protected.Group("/discounts")
	{
		discounts.GET("", h.Discount.List)
		discounts.GET("/:id", h.Discount.Get)

		write := discounts.Group("")
		write.Use(middleware.RequirePermission("students:write"))
		{
			write.POST("", h.Discount.Create)
			write.PUT("/:id", h.Discount.Update)
			write.DELETE("/:id", h.Discount.Delete)
		}
	}

	// Invoices
	invoices := protected.Group("/invoices")
	{
		invoices.GET("", h.Invoice.List)
		invoices.GET("/:id", h.Invoice.Get)
		invoices.GET("/:id/payments", h.Payment.ListByInvoice)

		write := invoices.Group("")
		write.Use(middleware.RequirePermission("payments:write"))
		{
			// A monthly run must never fire twice from a double click
			write.POST("/generate", middleware.IdempotencyRequired(idempotency), h.Invoice.Generate)
			write.POST("/sweep-overdue", h.Invoice.SweepOverdue)
			write.POST("", middleware.Idempotency(idempotency), h.Invoice.Create)
			write.PUT("/:id", h.Invoice.Update)
			write.DELETE("/:id", h.Invoice.Delete)
		}
	}

	// Payments
	payments := protected.Group("/payments")
	{
		payments.GET("", h.Payment.List)
		payments.GET("/:id", h.Payment.Get)

		write := payments.Group("")
		write.Use(middleware.RequirePermission("payments:write"))
		{
			write.POST("", middleware.Idempotency(idempotency), h.Payment.Create)
			write.PUT("/:id", h.Payment.Update)
			write.DELETE("/:id", h.Payment.Delete)
		}
	}

	// Expense categories
	categories := protected.Group("/expense-categories")
	{
		categories.GET("", h.ExpenseCategory.List)

		write := categories.Group("")
		write.Use(middleware.RequirePermission("expenses:write"))
		{
			write.POST("", h.ExpenseCategory.Create)
			write.PUT("/:id", h.ExpenseCategory.Update)
			write.DELETE("/:id", h.ExpenseCategory.Delete)
		}
	}

	// Expenses
	expenses := protected.Group("/expenses")
	{
		expenses.GET("", h.Expense.List)
		expenses.GET("/:id", h.Expense.Get)

		write := expenses.Group("")
		write.Use(middleware.RequirePermission("expenses:write"))
		{
			write.POST("", middleware.Idempotency(idempotency), h.Expense.Create)
			write.PUT("/:id", h.Expense.Update)
			write.DELETE("/:id", h.Expense.Delete)
		}
	}

	// Recurring expense templates
	recurring := protected.Group("/recurring-expenses")
	{
		recurring.GET("", h.RecurringExpense.List)
		recurring.GET("/due", h.RecurringExpense.Due)
		recurring.GET("/:id", h.RecurringExpense.Get)

		write := recurring.Group("")
		write.Use(middleware.RequirePermission("expenses:write"))
		{
			write.POST("", h.RecurringExpense.Create)
			write.POST("/generate", middleware.IdempotencyRequired(idempotency), h.RecurringExpense.Generate)
			write.PUT("/:id", h.RecurringExpense.Update)
			write.DELETE("/:id", h.RecurringExpense.Delete)
		}
	}

	// Reports
	reports := protected.Group("/reports")
	reports.Use(middleware.RequirePermission("reports:read"))
	{
		reports.GET("/summary", h.Report.Summary)
		reports.GET("/cashflow", h.Report.Cashflow)
		reports.GET("/debtors", h.Report.Debtors)
		reports.GET("/expenses-by-category", h.Report.ExpensesByCategory)
	}

	// Users
	users := protected.Group("/users")
	{
		users.GET("", h.User.List)
		users.GET("/:id", h.User.Get)

		write := users.Group("")
		write.Use(middleware.RequirePermission("users:write"))
		{
			write.POST("", h.User.Create)
			write.PUT("/:id", h.User.Update)
			write.DELETE("/:id", h.User.Delete)
		}
	}
}
