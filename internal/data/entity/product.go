package entity

import "github.com/google/uuid"

type Product struct {
	Base
	CategoryID    *uuid.UUID `db:"category_id"`
	Name          string     `db:"name"`
	Slug          string     `db:"slug"`
	Description   string     `db:"description"`
	Price         float64    `db:"price"`
	DiscountPrice *float64   `db:"discount_price"`
	SKU           string     `db:"sku"`
	StockQuantity int        `db:"stock_quantity"`
	IsActive      bool       `db:"is_active"`
	IsFeatured    bool       `db:"is_featured"`
}

// CurrentPrice returns the discount price when set, else the list price
func (p *Product) CurrentPrice() float64 {
	if p.DiscountPrice != nil {
		return *p.DiscountPrice
	}
	return p.Price
}

func (p *Product) InStock() bool {
	return p.StockQuantity > 0
}
