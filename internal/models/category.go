package models

import "github.com/google/uuid"

type Category struct {
	ID   uuid.UUID `json:"id" db:"id"`
	Name string    `json:"name" db:"name"`
	Slug string    `json:"slug" db:"slug"`
	Icon *string   `json:"icon" db:"icon"`
}

// CategoryWithCount carries the number of listed products per category,
// used by the public catalog sidebar.
type CategoryWithCount struct {
	Category
	ProductCount int `json:"product_count"`
}
