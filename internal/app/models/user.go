package models

import (
	"time"
)

// Role defines the user role
type Role string

const (
	RoleTeacher Role = "TEACHER"
	RoleStudent Role = "STUDENT"
)

// User defines the user model based on the 'users' table
type User struct {
	ID        int64     `json:"id" db:"id" example:"1"`
	Name      string    `json:"name" db:"name" example:"Jane Doe"`
	Email     string    `json:"email" db:"email" example:"jane@example.com"`
	Password  string    `json:"-" db:"password"` // hashed, excluded from JSON
	Role      Role      `json:"role" db:"role" example:"TEACHER"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// IsTeacher reports whether the user carries the teacher role
func (u *User) IsTeacher() bool {
	return u.Role == RoleTeacher
}

// IsStudent reports whether the user carries the student role
func (u *User) IsStudent() bool {
	return u.Role == RoleStudent
}

// ValidRole reports whether the given string is one of the two enumerated roles
func ValidRole(role string) bool {
	return Role(role) == RoleTeacher || Role(role) == RoleStudent
}
