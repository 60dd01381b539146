package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Student represents a billed student of a school
type Student struct {
	ID            uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	SchoolID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"school_id"`
	SchoolClassID *uuid.UUID `gorm:"type:uuid;index" json:"school_class_id,omitempty"`
	FirstName     string     `gorm:"size:100;not null" json:"first_name"`
	LastName      string     `gorm:"size:100;not null" json:"last_name"`
	Phone         *string    `gorm:"size:50" json:"phone,omitempty"`

	// Parent information
	ParentFirstName string  `gorm:"size:100;not null" json:"parent_first_name"`
	ParentLastName  string  `gorm:"size:100;not null" json:"parent_last_name"`
	ParentPhone1    string  `gorm:"column:parent_phone_1;size:50;not null" json:"parent_phone_1"`
	ParentPhone2    *string `gorm:"column:parent_phone_2;size:50" json:"parent_phone_2,omitempty"`

	// Payment settings
	MonthlyFee decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"monthly_fee"`
	PaymentDay int             `gorm:"default:5" json:"payment_day"`

	EnrolledAt  time.Time  `gorm:"type:date;not null" json:"enrolled_at"`
	GraduatedAt *time.Time `gorm:"type:date" json:"graduated_at,omitempty"`
	IsActive    bool       `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Relationships
	SchoolClass *SchoolClass      `gorm:"foreignKey:SchoolClassID" json:"school_class,omitempty"`
	Invoices    []Invoice         `gorm:"foreignKey:StudentID" json:"-"`
	Discounts   []StudentDiscount `gorm:"foreignKey:StudentID" json:"discounts,omitempty"`
}

// BeforeCreate generates a UUID before creating a new student
func (s *Student) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Student model
func (Student) TableName() string {
	return "students"
}

// FullName returns the student's full name
func (s *Student) FullName() string {
	return s.FirstName + " " + s.LastName
}

// IsBillable reports whether the student should receive generated invoices
func (s *Student) IsBillable() bool {
	return s.IsActive && s.GraduatedAt == nil
}
