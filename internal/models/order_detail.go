package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Placeholders used when an order has no resolvable owner.
const (
	GuestName  = "Guest"
	GuestEmail = "guest@example.com"
)

// OrderDetail is the read model of an order with its user and product names
// resolved.
type OrderDetail struct {
	OrderID       uint              `json:"order_id"`
	UserID        *uint             `json:"user_id"`
	UserName      string            `json:"user_name"`
	UserEmail     string            `json:"user_email"`
	Items         []OrderDetailItem `json:"items"`
	TotalPrice    decimal.Decimal   `json:"total_price"`
	PaymentStatus PaymentStatus     `json:"payment_status"`
	InvoicePath   *string           `json:"invoice_path"`
	CreatedAt     time.Time         `json:"created_at"`
}

type OrderDetailItem struct {
	ProductID uint            `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"line_total"`
}
