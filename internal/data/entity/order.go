package entity

import "github.com/google/uuid"

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusCancelled OrderStatus = "cancelled"
)

type Order struct {
	Base
	OrderID    string      `db:"order_id"`
	UserID     uuid.UUID   `db:"user_id"`
	TotalItems int         `db:"total_items"`
	TotalPrice float64     `db:"total_price"`
	Status     OrderStatus `db:"status"`
}
