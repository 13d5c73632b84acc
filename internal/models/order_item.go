package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderItem snapshots quantity and price at the moment the order is
// placed. Both fields are immutable after insert so historical orders
// stay accurate when live product prices change.
type OrderItem struct {
	ID        uuid.UUID `json:"id" db:"id"`
	OrderID   uuid.UUID `json:"order_id" db:"order_id"`
	ProductID uuid.UUID `json:"product_id" db:"product_id"`
	Quantity  int       `json:"quantity" db:"quantity"`
	Price     float64   `json:"price" db:"price"`
}

// OrderItemDetail is an order item expanded with product and farm
// display fields.
type OrderItemDetail struct {
	ID          uuid.UUID `json:"id"`
	ProductID   uuid.UUID `json:"productId"`
	ProductName string    `json:"productName"`
	FarmName    string    `json:"farmName"`
	Quantity    int       `json:"quantity"`
	Price       float64   `json:"price"`
	Unit        string    `json:"unit"`
}

// FarmOrderRow is one order item of a farm joined with its order and
// buyer; the order service groups rows into FarmOrder values.
type FarmOrderRow struct {
	OrderID         uuid.UUID
	Status          string
	TotalAmount     float64
	DeliveryAddress string
	DeliveryCity    string
	Phone           string
	Notes           *string
	CreatedAt       time.Time
	BuyerName       string
	BuyerEmail      string
	ItemID          uuid.UUID
	ProductID       uuid.UUID
	ProductName     string
	Unit            string
	Quantity        int
	Price           float64
}
