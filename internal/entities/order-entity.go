package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order — центральная отслеживаемая сущность.
// OrderID назначается извне, уникален и после создания не меняется.
type Order struct {
	OrderID      string          `json:"orderId"`
	CustomerID   string          `json:"customerId"`
	CustomerName string          `json:"customerName"`
	TotalAmount  decimal.Decimal `json:"totalAmount"`
	ItemCount    int             `json:"itemCount"`
	Status       OrderStatus     `json:"status"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}
