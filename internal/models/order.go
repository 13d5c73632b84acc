package models

import (
	"time"

	"github.com/google/uuid"
)

// Order statuses. An order is created as PENDING and only ever moves
// forward through the transition table below.
const (
	OrderStatusPending   = "PENDING"
	OrderStatusConfirmed = "CONFIRMED"
	OrderStatusPreparing = "PREPARING"
	OrderStatusReady     = "READY"
	OrderStatusDelivered = "DELIVERED"
	OrderStatusCancelled = "CANCELLED"
)

// ActiveOrderStatuses are the non-terminal statuses, used for the
// consumer dashboard "active orders" count.
var ActiveOrderStatuses = []string{
	OrderStatusPending, OrderStatusConfirmed, OrderStatusPreparing, OrderStatusReady,
}

var orderStatusTransitions = map[string][]string{
	OrderStatusPending:   {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed: {OrderStatusPreparing, OrderStatusCancelled},
	OrderStatusPreparing: {OrderStatusReady},
	OrderStatusReady:     {OrderStatusDelivered},
}

// IsValidOrderStatus reports whether status is a known order status.
func IsValidOrderStatus(status string) bool {
	switch status {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusPreparing,
		OrderStatusReady, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// CanTransitionOrderStatus reports whether from→to is an edge of the
// fulfillment state machine. Re-applying the current status is not an
// edge; DELIVERED and CANCELLED are terminal.
func CanTransitionOrderStatus(from, to string) bool {
	for _, next := range orderStatusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type Order struct {
	ID              uuid.UUID `json:"id" db:"id"`
	UserID          uuid.UUID `json:"user_id" db:"user_id"`
	Status          string    `json:"status" db:"status"`
	TotalAmount     float64   `json:"totalAmount" db:"total_amount"`
	DeliveryAddress string    `json:"deliveryAddress" db:"delivery_address"`
	DeliveryCity    string    `json:"deliveryCity" db:"delivery_city"`
	DeliveryPostal  string    `json:"deliveryPostal" db:"delivery_postal"`
	Phone           string    `json:"phone" db:"phone"`
	Notes           *string   `json:"notes" db:"notes"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time `json:"updatedAt" db:"updated_at"`
}

// OrderDetail is an order with its items expanded for display.
type OrderDetail struct {
	Order
	Items []*OrderItemDetail `json:"items"`
}

// FarmOrder is the farmer's dashboard view of an order: only the items
// belonging to the farmer's products, plus buyer contact details.
type FarmOrder struct {
	ID              uuid.UUID          `json:"id"`
	Status          string             `json:"status"`
	TotalAmount     float64            `json:"totalAmount"`
	DeliveryAddress string             `json:"deliveryAddress"`
	DeliveryCity    string             `json:"deliveryCity"`
	Phone           string             `json:"phone"`
	Notes           *string            `json:"notes"`
	CreatedAt       time.Time          `json:"createdAt"`
	BuyerName       string             `json:"buyerName"`
	BuyerEmail      string             `json:"buyerEmail"`
	Items           []*OrderItemDetail `json:"items"`
}
