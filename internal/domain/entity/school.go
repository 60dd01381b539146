package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// School represents a tenant in the system
type School struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name    string    `gorm:"size:255;not null" json:"name"`
	Address *string   `gorm:"size:500" json:"address,omitempty"`
	Phone   *string   `gorm:"size:50" json:"phone,omitempty"`

	// Subscription tracking
	SubscriptionStartsAt  *time.Time `json:"subscription_starts_at,omitempty"`
	SubscriptionExpiresAt *time.Time `json:"subscription_expires_at,omitempty"`

	IsActive  bool      `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	Students []Student `gorm:"foreignKey:SchoolID" json:"-"`
	Invoices []Invoice `gorm:"foreignKey:SchoolID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new school
func (s *School) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the School model
func (School) TableName() string {
	return "schools"
}

// IsSubscriptionActive checks if the school has an active subscription
func (s *School) IsSubscriptionActive(now time.Time) bool {
	if s.SubscriptionExpiresAt == nil {
		return false
	}
	return now.Before(*s.SubscriptionExpiresAt)
}
