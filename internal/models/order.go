package models

import (
	"time"

	"github.com/google/uuid"
)

// Canonical order statuses. The admin console may set any of them in any
// order; there is no transition guard.
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusCompleted  = "completed"
	OrderStatusCancelled  = "cancelled"
)

// ValidOrderStatus reports whether s belongs to the canonical status set.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// Order is a placed checkout. The shipping address is snapshotted at
// placement time so later profile edits do not rewrite order history.
type Order struct {
	BaseModel
	UserID      uuid.UUID   `gorm:"type:uuid;index" json:"user_id"`
	User        *User       `json:"user,omitempty"`
	OrderNumber string      `gorm:"uniqueIndex" json:"order_number"`
	Status      string      `gorm:"default:pending" json:"status"`
	PlacedAt    time.Time   `json:"placed_at"`
	Subtotal    float64     `json:"subtotal"`
	ShippingFee float64     `json:"shipping_fee"`
	TotalAmount float64     `json:"total_amount"`
	Currency    string      `json:"currency"`
	Shipping    Address     `gorm:"embedded;embeddedPrefix:shipping_" json:"shipping"`
	Notes       string      `json:"notes"`
	Items       []OrderItem `json:"items,omitempty"`
}

// OrderItem is one product-quantity line within an order. Product name and
// price are copied in so the line survives catalog edits.
type OrderItem struct {
	BaseModel
	OrderID     uuid.UUID  `gorm:"type:uuid;index" json:"order_id"`
	ProductID   *uuid.UUID `gorm:"type:uuid" json:"product_id"`
	ProductName string     `json:"product_name"`
	ImageURL    string     `json:"image_url"`
	Quantity    int        `json:"quantity"`
	UnitPrice   float64    `json:"unit_price"`
	LineTotal   float64    `json:"line_total"`
}
