package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SchoolClass organizes students by grade and section
type SchoolClass struct {
	ID                uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	SchoolID          uuid.UUID  `gorm:"type:uuid;not null;index;uniqueIndex:uq_school_grade_section" json:"school_id"`
	HomeroomTeacherID *uuid.UUID `gorm:"type:uuid;index" json:"homeroom_teacher_id,omitempty"`
	Grade             int        `gorm:"not null;uniqueIndex:uq_school_grade_section" json:"grade"`
	Section           string     `gorm:"size:10;not null;uniqueIndex:uq_school_grade_section" json:"section"`
	IsActive          bool       `gorm:"default:true" json:"is_active"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`

	// Relationships
	HomeroomTeacher *Employee `gorm:"foreignKey:HomeroomTeacherID" json:"homeroom_teacher,omitempty"`
	Students        []Student `gorm:"foreignKey:SchoolClassID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new class
func (c *SchoolClass) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the SchoolClass model
func (SchoolClass) TableName() string {
	return "school_classes"
}

// Name returns the display name like "1st A" or "5th B"
func (c *SchoolClass) Name() string {
	suffix := "th"
	if c.Grade < 4 {
		suffix = [...]string{"", "st", "nd", "rd"}[c.Grade]
	}
	return fmt.Sprintf("%d%s %s", c.Grade, suffix, c.Section)
}
