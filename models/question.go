package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	OptionA = "A"
	OptionB = "B"
	OptionC = "C"
	OptionD = "D"
)

type Question struct {
	ID            uint           `json:"id" gorm:"primaryKey"`
	EvaluationID  uint           `json:"evaluation_id" gorm:"not null;index"`
	Statement     string         `json:"statement" gorm:"not null"`
	OptionA       string         `json:"option_a" gorm:"not null"`
	OptionB       string         `json:"option_b" gorm:"not null"`
	OptionC       string         `json:"option_c" gorm:"not null"`
	OptionD       string         `json:"option_d" gorm:"not null"`
	CorrectOption string         `json:"correct_option" gorm:"not null"` // A, B, C, D
	Explanation   string         `json:"explanation"`
	Weight        int            `json:"weight" gorm:"not null;default:1"`
	Position      int            `json:"position" gorm:"not null"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	Evaluation Evaluation `json:"evaluation,omitempty"`
}

func ValidOption(opt string) bool {
	return opt == OptionA || opt == OptionB || opt == OptionC || opt == OptionD
}
