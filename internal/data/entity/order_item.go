package entity

import "github.com/google/uuid"

// OrderItem snapshots name and unit price at checkout time so later
// catalog edits never change a placed order.
type OrderItem struct {
	BaseSimple
	OrderID     uuid.UUID `db:"order_id"`
	ProductID   uuid.UUID `db:"product_id"`
	ProductName string    `db:"product_name"`
	UnitPrice   float64   `db:"unit_price"`
	Quantity    int       `db:"quantity"`
}
