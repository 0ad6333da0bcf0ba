package models

import (
	"time"

	"gorm.io/gorm"
)

// Attempt is one student's timed instance of taking an Evaluation. At most
// one non-finalized attempt may exist per (student, evaluation) pair; once
// finalized it is immutable.
type Attempt struct {
	ID             uint           `json:"id" gorm:"primaryKey"`
	EvaluationID   uint           `json:"evaluation_id" gorm:"not null;index"`
	StudentID      uint           `json:"student_id" gorm:"not null;index"`
	StartedAt      time.Time      `json:"started_at" gorm:"not null"`
	Finalized      bool           `json:"finalized" gorm:"not null;default:false"`
	FinalizedAt    *time.Time     `json:"finalized_at"`
	ElapsedSeconds *int           `json:"elapsed_seconds"`
	Score          *int           `json:"score"`
	TotalScore     int            `json:"total_score" gorm:"not null;default:0"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	Evaluation Evaluation `json:"evaluation,omitempty"`
	Student    User       `json:"-" gorm:"foreignKey:StudentID"`
	Answers    []Answer   `json:"answers,omitempty" gorm:"foreignKey:AttemptID"`
}
