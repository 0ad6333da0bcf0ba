package models

import (
	"time"

	"gorm.io/gorm"
)

// Answer is one graded response to one Question within one Attempt. Rows are
// created in a single batch during finalization, one per question, including
// unanswered ones (nil SelectedOption). The composite unique index enforces
// the one-answer-per-(attempt, question) invariant.
type Answer struct {
	ID             uint           `json:"id" gorm:"primaryKey"`
	AttemptID      uint           `json:"attempt_id" gorm:"not null;uniqueIndex:idx_answers_attempt_question"`
	QuestionID     uint           `json:"question_id" gorm:"not null;uniqueIndex:idx_answers_attempt_question"`
	SelectedOption *string        `json:"selected_option"` // A, B, C, D or null when unanswered
	Correct        bool           `json:"correct" gorm:"not null;default:false"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	Attempt  Attempt  `json:"-"`
	Question Question `json:"question,omitempty"`
}
