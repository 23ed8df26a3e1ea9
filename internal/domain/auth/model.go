// Package auth implements operator accounts and JWT-based session
// tokens for the HTTP API.
package auth

import (
	"context"
	"time"
)

// Roles. Administrators manage the registry and accounts; technicians
// write tickets and readings.
const (
	RoleAdmin      = "admin"
	RoleTechnician = "technician"
)

// User is an operator account.
type User struct {
	ID           int64     `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	FullName     string    `json:"fullName" db:"full_name"`
	Role         string    `json:"role" db:"role"`
	Active       bool      `json:"active" db:"active"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

// Repository is the persistence contract for user accounts.
type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
}
