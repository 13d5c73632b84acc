package models

import (
	"time"

	"github.com/google/uuid"
)

// User roles. Every account has exactly one.
const (
	RoleConsumer = "CONSUMER"
	RoleFarmer   = "FARMER"
	RoleAdmin    = "ADMIN"
)

type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Name         string    `json:"name" db:"name"`
	Role         string    `json:"role" db:"role"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// IsValidRole reports whether role is one of the three account roles.
func IsValidRole(role string) bool {
	return role == RoleConsumer || role == RoleFarmer || role == RoleAdmin
}
