package models

import (
	"time"

	"gorm.io/gorm"
)

type Subject struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Name      string         `json:"name" gorm:"not null"`
	Code      string         `json:"code" gorm:"uniqueIndex;not null"`
	Year      int            `json:"year" gorm:"not null;default:1"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	Evaluations []Evaluation `json:"evaluations,omitempty" gorm:"foreignKey:SubjectID"`
	Enrollments []Enrollment `json:"enrollments,omitempty" gorm:"foreignKey:SubjectID"`
}
