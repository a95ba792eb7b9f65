package entity

import "github.com/google/uuid"

// CartItem is unique per (cart, product); adding an existing product
// increments quantity instead of creating another line.
type CartItem struct {
	BaseNoDelete
	CartID    uuid.UUID `db:"cart_id"`
	ProductID uuid.UUID `db:"product_id"`
	Quantity  int       `db:"quantity"`
}
