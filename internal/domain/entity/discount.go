package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/maktabhq/maktab-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Discount is a reusable fee reduction definition within a school
type Discount struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	SchoolID uuid.UUID `gorm:"type:uuid;not null;index" json:"school_id"`
	Name     string    `gorm:"size:255;not null" json:"name"`
	// Type determines how Value is applied: a percentage of the base fee
	// or a fixed amount subtracted from it
	Type       enum.DiscountType `gorm:"size:20;not null" json:"type"`
	Value      decimal.Decimal   `gorm:"type:numeric(12,2);not null" json:"value"`
	ValidFrom  *time.Time        `gorm:"type:date" json:"valid_from,omitempty"`
	ValidUntil *time.Time        `gorm:"type:date" json:"valid_until,omitempty"`
	IsActive   bool              `gorm:"default:true" json:"is_active"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new discount
func (d *Discount) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Discount model
func (Discount) TableName() string {
	return "discounts"
}

// IsValidOn reports whether the discount applies on the given date.
// A nil ValidFrom or ValidUntil leaves that side of the window open.
func (d *Discount) IsValidOn(date time.Time) bool {
	if !d.IsActive {
		return false
	}
	if d.ValidFrom != nil && date.Before(*d.ValidFrom) {
		return false
	}
	if d.ValidUntil != nil && date.After(*d.ValidUntil) {
		return false
	}
	return true
}

// Amount returns the monetary reduction this discount yields for the
// given base fee, before any stacking cap is applied.
func (d *Discount) Amount(base decimal.Decimal) decimal.Decimal {
	if d.Type == enum.DiscountTypePercentage {
		return base.Mul(d.Value).Div(decimal.NewFromInt(100))
	}
	return d.Value
}

// StudentDiscount assigns a discount to a student
type StudentDiscount struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	StudentID  uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:uq_student_discount" json:"student_id"`
	DiscountID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:uq_student_discount" json:"discount_id"`
	AssignedAt time.Time `json:"assigned_at"`
	CreatedAt  time.Time `json:"created_at"`

	// Relationships
	Discount *Discount `gorm:"foreignKey:DiscountID" json:"discount,omitempty"`
}

// BeforeCreate generates a UUID before creating a new assignment
func (sd *StudentDiscount) BeforeCreate(tx *gorm.DB) error {
	if sd.ID == uuid.Nil {
		sd.ID = uuid.New()
	}
	if sd.AssignedAt.IsZero() {
		sd.AssignedAt = time.Now()
	}
	return nil
}

// TableName returns the table name for the StudentDiscount model
func (StudentDiscount) TableName() string {
	return "student_discounts"
}
