package models

import (
	"time"

	"github.com/google/uuid"
)

type Product struct {
	ID          uuid.UUID `json:"id" db:"id"`
	FarmID      uuid.UUID `json:"farm_id" db:"farm_id"`
	CategoryID  uuid.UUID `json:"category_id" db:"category_id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description" db:"description"`
	Price       float64   `json:"price" db:"price"`
	Unit        string    `json:"unit" db:"unit"`
	Stock       int       `json:"stock" db:"stock"`
	Available   bool      `json:"available" db:"available"`
	Image       *string   `json:"image" db:"image"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// CatalogFilter holds the public catalog query criteria.
type CatalogFilter struct {
	CategorySlug string `json:"category,omitempty"` // category slug filter
	Query        string `json:"search,omitempty"`   // free-text search over name and description
	Limit        int    `json:"limit,omitempty"`
	Offset       int    `json:"offset,omitempty"`
}

// CatalogProduct is a product joined with its farm and category for
// public display.
type CatalogProduct struct {
	Product
	FarmName     string  `json:"farm_name"`
	FarmCity     string  `json:"farm_city"`
	FarmVerified bool    `json:"farm_verified"`
	CategoryName string  `json:"category_name"`
	CategorySlug string  `json:"category_slug"`
	CategoryIcon *string `json:"category_icon"`
}

// CheckoutProduct is the slice of a product the order placement
// transaction reads: authoritative price and stock, plus the display
// fields snapshotted into the confirmation response.
type CheckoutProduct struct {
	ID       uuid.UUID `json:"id" db:"id"`
	Name     string    `json:"name" db:"name"`
	Unit     string    `json:"unit" db:"unit"`
	Price    float64   `json:"price" db:"price"`
	Stock    int       `json:"stock" db:"stock"`
	FarmName string    `json:"farm_name" db:"farm_name"`
}

// LowStockProduct is a row of the scheduled low-stock scan.
type LowStockProduct struct {
	ID       uuid.UUID `json:"id" db:"id"`
	Name     string    `json:"name" db:"name"`
	Stock    int       `json:"stock" db:"stock"`
	FarmName string    `json:"farm_name" db:"farm_name"`
}
