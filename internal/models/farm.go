package models

import (
	"time"

	"github.com/google/uuid"
)

type Farm struct {
	ID          uuid.UUID `json:"id" db:"id"`
	UserID      uuid.UUID `json:"user_id" db:"user_id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description" db:"description"`
	Address     string    `json:"address" db:"address"`
	City        string    `json:"city" db:"city"`
	PostalCode  string    `json:"postal_code" db:"postal_code"`
	Phone       *string   `json:"phone" db:"phone"`
	Website     *string   `json:"website" db:"website"`
	Verified    bool      `json:"verified" db:"verified"`
	Latitude    *float64  `json:"latitude" db:"latitude"`
	Longitude   *float64  `json:"longitude" db:"longitude"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// FarmWithRating is the public listing row: a farm joined with its
// review average.
type FarmWithRating struct {
	Farm
	Rating       float64 `json:"rating"`
	TotalReviews int     `json:"total_reviews"`
}
