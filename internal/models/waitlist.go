package models

import (
	"time"

	"github.com/google/uuid"
)

// WaitlistEntry is a public newsletter/launch signup.
type WaitlistEntry struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
