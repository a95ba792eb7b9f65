package response

import (
	"time"

	"mini-ecom/internal/data/entity"
)

type OrderItemResponse struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	UnitPrice   float64 `json:"unit_price"`
	Quantity    int     `json:"quantity"`
}

type OrderResponse struct {
	ID         string              `json:"id"`
	OrderID    string              `json:"order_id"`
	TotalItems int                 `json:"total_items"`
	TotalPrice float64             `json:"total_price"`
	Status     entity.OrderStatus  `json:"status"`
	Items      []OrderItemResponse `json:"items,omitempty"`
	CreatedAt  time.Time           `json:"created_at"`
}

func OrderToResponse(order *entity.Order, items []*entity.OrderItem) OrderResponse {
	resp := OrderResponse{
		ID:         order.ID.String(),
		OrderID:    order.OrderID,
		TotalItems: order.TotalItems,
		TotalPrice: order.TotalPrice,
		Status:     order.Status,
		CreatedAt:  order.CreatedAt,
	}

	for _, item := range items {
		resp.Items = append(resp.Items, OrderItemResponse{
			ProductID:   item.ProductID.String(),
			ProductName: item.ProductName,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
		})
	}

	return resp
}
