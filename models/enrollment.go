package models

import (
	"time"

	"gorm.io/gorm"
)

type Enrollment struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	SubjectID uint           `json:"subject_id" gorm:"not null;uniqueIndex:idx_enrollments_subject_student"`
	StudentID uint           `json:"student_id" gorm:"not null;uniqueIndex:idx_enrollments_subject_student"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	Subject Subject `json:"subject,omitempty"`
	Student User    `json:"student,omitempty" gorm:"foreignKey:StudentID"`
}
