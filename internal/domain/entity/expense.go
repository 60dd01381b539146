package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/maktabhq/maktab-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ExpenseCategory groups expenses. System categories have a NULL
// school and are shared by every school; they cannot be deleted.
type ExpenseCategory struct {
	ID        uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	SchoolID  *uuid.UUID `gorm:"type:uuid;index" json:"school_id,omitempty"`
	Name      string     `gorm:"size:255;not null" json:"name"`
	IsSystem  bool       `gorm:"default:false" json:"is_system"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new category
func (c *ExpenseCategory) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the ExpenseCategory model
func (ExpenseCategory) TableName() string {
	return "expense_categories"
}

// Employee is a school staff member who may be linked to salary expenses
type Employee struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	SchoolID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"school_id"`
	FirstName string          `gorm:"size:100;not null" json:"first_name"`
	LastName  string          `gorm:"size:100;not null" json:"last_name"`
	Phone     *string         `gorm:"size:50" json:"phone,omitempty"`
	Position  string          `gorm:"size:100;not null" json:"position"`
	Salary    decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"salary"`
	HiredAt   time.Time       `gorm:"type:date;not null" json:"hired_at"`
	IsActive  bool            `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new employee
func (e *Employee) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Employee model
func (Employee) TableName() string {
	return "employees"
}

// FullName returns the employee's full name
func (e *Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}

// RecurringExpense is a template from which expenses are generated on
// a monthly, quarterly or yearly cadence
type RecurringExpense struct {
	ID         uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	SchoolID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"school_id"`
	CategoryID uuid.UUID       `gorm:"type:uuid;not null" json:"category_id"`
	EmployeeID *uuid.UUID      `gorm:"type:uuid" json:"employee_id,omitempty"`
	Name       string          `gorm:"size:255;not null" json:"name"`
	Amount     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	// DayOfMonth is the day the generated expense falls due, clamped
	// to the last day of shorter months
	DayOfMonth      int                 `gorm:"not null" json:"day_of_month"`
	Recurrence      enum.RecurrenceType `gorm:"size:20;not null" json:"recurrence"`
	IsActive        bool                `gorm:"default:true" json:"is_active"`
	LastGeneratedAt *time.Time          `gorm:"type:date" json:"last_generated_at,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`

	// Relationships
	Category *ExpenseCategory `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Employee *Employee        `gorm:"foreignKey:EmployeeID" json:"employee,omitempty"`
}

// BeforeCreate generates a UUID before creating a new template
func (r *RecurringExpense) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the RecurringExpense model
func (RecurringExpense) TableName() string {
	return "recurring_expenses"
}

// DueDateIn returns the template's due date within the month of the
// given date, clamping DayOfMonth to the month's last day
func (r *RecurringExpense) DueDateIn(date time.Time) time.Time {
	year, month := date.Year(), date.Month()
	lastDay := time.Date(year, month+1, 0, 0, 0, 0, 0, date.Location()).Day()
	day := r.DayOfMonth
	if day > lastDay {
		day = lastDay
	}
	return time.Date(year, month, day, 0, 0, 0, 0, date.Location())
}

// IsDue reports whether the template should generate an expense on the
// given date. The day must match DayOfMonth exactly, so a day 31
// template stays silent in shorter months.
func (r *RecurringExpense) IsDue(date time.Time) bool {
	if !r.IsActive {
		return false
	}
	if r.LastGeneratedAt != nil && r.Recurrence.SamePeriod(*r.LastGeneratedAt, date) {
		return false
	}
	return date.Day() == r.DayOfMonth
}

// Expense is a single outgoing cost record
type Expense struct {
	ID         uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	SchoolID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"school_id"`
	CategoryID uuid.UUID       `gorm:"type:uuid;not null;index" json:"category_id"`
	EmployeeID *uuid.UUID      `gorm:"type:uuid" json:"employee_id,omitempty"`
	// RecurringExpenseID is set when the expense was produced by the scheduler
	RecurringExpenseID *uuid.UUID      `gorm:"type:uuid;index" json:"recurring_expense_id,omitempty"`
	Name               string          `gorm:"size:255;not null" json:"name"`
	Amount             decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	ExpenseDate        time.Time       `gorm:"type:date;not null;index" json:"expense_date"`
	Note               *string         `gorm:"size:500" json:"note,omitempty"`
	CreatedByID        *uuid.UUID      `gorm:"type:uuid" json:"created_by_id,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`

	// Relationships
	Category *ExpenseCategory `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Employee *Employee        `gorm:"foreignKey:EmployeeID" json:"employee,omitempty"`
}

// BeforeCreate generates a UUID before creating a new expense
func (e *Expense) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Expense model
func (Expense) TableName() string {
	return "expenses"
}
