package model

import "time"

// Role is a coarse-grained permission class.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleStudent Role = "student"
)

// User is an account that can sign in to the tracker.
type User struct {
	ID           uint `gorm:"primaryKey"`
	Name         string
	Email        string `gorm:"uniqueIndex;size:255"`
	PasswordHash string
	Role         Role `gorm:"size:16"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Identity is the session-resolved caller of an operation.
// It is passed by value and never mutated after login.
type Identity struct {
	UserID uint
	Role   Role
	Name   string
}

func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// IdentityOf builds the session identity for a stored user.
func IdentityOf(u User) Identity {
	return Identity{UserID: u.ID, Role: u.Role, Name: u.Name}
}
