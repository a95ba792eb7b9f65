package response

import (
	"mini-ecom/internal/data/entity"
)

type CartItemResponse struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	UnitPrice   float64 `json:"unit_price"`
	Quantity    int     `json:"quantity"`
	LineTotal   float64 `json:"line_total"`
}

type CartResponse struct {
	ID         string             `json:"id"`
	Items      []CartItemResponse `json:"items"`
	TotalItems int                `json:"total_items"`
	TotalPrice float64            `json:"total_price"`
}

// CartToResponse prices each line at the product's current price so the
// cart always reflects live discounts.
func CartToResponse(cart *entity.Cart, items []*entity.CartItem, products map[string]*entity.Product) CartResponse {
	resp := CartResponse{
		ID:    cart.ID.String(),
		Items: []CartItemResponse{},
	}

	for _, item := range items {
		product, ok := products[item.ProductID.String()]
		if !ok {
			continue
		}

		unitPrice := product.CurrentPrice()
		resp.Items = append(resp.Items, CartItemResponse{
			ProductID:   item.ProductID.String(),
			ProductName: product.Name,
			UnitPrice:   unitPrice,
			Quantity:    item.Quantity,
			LineTotal:   unitPrice * float64(item.Quantity),
		})

		resp.TotalItems += item.Quantity
		resp.TotalPrice += unitPrice * float64(item.Quantity)
	}

	return resp
}
