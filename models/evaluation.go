package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	VisibilityHidden    = "hidden"
	VisibilityPublished = "published"
)

// Evaluation is a practical (multiple-choice) exam definition owned by one
// professor within one subject.
type Evaluation struct {
	ID               uint           `json:"id" gorm:"primaryKey"`
	SubjectID        uint           `json:"subject_id" gorm:"not null;index"`
	ProfessorID      uint           `json:"professor_id" gorm:"not null;index"`
	Title            string         `json:"title" gorm:"not null"`
	Description      string         `json:"description"`
	TimeLimitMinutes int            `json:"time_limit_minutes" gorm:"not null;default:30"`
	Visibility       string         `json:"visibility" gorm:"not null;default:'hidden'"` // hidden, published
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	Subject   Subject    `json:"subject,omitempty"`
	Professor User       `json:"professor,omitempty" gorm:"foreignKey:ProfessorID"`
	Questions []Question `json:"questions,omitempty" gorm:"foreignKey:EvaluationID"`
	Attempts  []Attempt  `json:"attempts,omitempty" gorm:"foreignKey:EvaluationID"`
}

// EvaluationSummary is the sanitized definition handed to a student when an
// attempt starts.
type EvaluationSummary struct {
	ID               uint   `json:"id"`
	SubjectID        uint   `json:"subject_id"`
	Title            string `json:"title"`
	Description      string `json:"description"`
	TimeLimitMinutes int    `json:"time_limit_minutes"`
}

func (e Evaluation) Summary() EvaluationSummary {
	return EvaluationSummary{
		ID:               e.ID,
		SubjectID:        e.SubjectID,
		Title:            e.Title,
		Description:      e.Description,
		TimeLimitMinutes: e.TimeLimitMinutes,
	}
}
