package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	RoleAdmin     = "admin"
	RoleProfessor = "professor"
	RoleStudent   = "student"
)

type User struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Name      string         `json:"name" gorm:"not null"`
	Email     string         `json:"email" gorm:"uniqueIndex;not null"`
	Password  string         `json:"-" gorm:"not null"`
	Role      string         `json:"role" gorm:"not null;default:'student'"` // admin, professor, student
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// PublicUser is the identity shape exposed inside other students' attempts:
// nothing beyond id and name.
type PublicUser struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func (u User) Public() PublicUser {
	return PublicUser{ID: u.ID, Name: u.Name}
}

func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleProfessor || role == RoleStudent
}
