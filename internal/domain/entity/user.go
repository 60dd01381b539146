package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/maktabhq/maktab-api/internal/domain/enum"
	"gorm.io/gorm"
)

// User represents an operator account for authentication and authorization
type User struct {
	ID           uuid.UUID     `gorm:"type:uuid;primary_key" json:"id"`
	PhoneNumber  string        `gorm:"size:50;unique;not null;index" json:"phone_number"`
	PasswordHash string        `gorm:"size:255;not null" json:"-"`
	FirstName    string        `gorm:"size:100;not null" json:"first_name"`
	LastName     string        `gorm:"size:100;not null" json:"last_name"`
	Role         enum.UserRole `gorm:"size:20;not null;default:'staff'" json:"role"`
	// SchoolID is NULL for owner/superuser accounts
	SchoolID       *uuid.UUID `gorm:"type:uuid" json:"school_id,omitempty"`
	ProfilePicture *string    `gorm:"size:500" json:"profile_picture,omitempty"`
	IsActive       bool       `gorm:"default:true" json:"is_active"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`

	// Relationships
	School *School `gorm:"foreignKey:SchoolID" json:"school,omitempty"`
}

// BeforeCreate generates a UUID before creating a new user
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the User model
func (User) TableName() string {
	return "users"
}

// FullName returns the user's full name
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// IsSuperuser reports whether the user has cross-school access
func (u *User) IsSuperuser() bool {
	return u.Role.IsSuperuser()
}
