package response

import (
	"time"

	"mini-ecom/internal/data/entity"
)

type ProductResponse struct {
	ID            string   `json:"id"`
	CategoryID    *string  `json:"category_id,omitempty"`
	Name          string   `json:"name"`
	Slug          string   `json:"slug"`
	Description   string   `json:"description"`
	Price         float64  `json:"price"`
	DiscountPrice *float64 `json:"discount_price,omitempty"`
	CurrentPrice  float64  `json:"current_price"`
	SKU           string   `json:"sku"`
	StockQuantity int      `json:"stock_quantity"`
	InStock       bool     `json:"in_stock"`
	IsFeatured    bool     `json:"is_featured"`
	CreatedAt     time.Time `json:"created_at"`
}

func ProductToResponse(product *entity.Product) ProductResponse {
	resp := ProductResponse{
		ID:            product.ID.String(),
		Name:          product.Name,
		Slug:          product.Slug,
		Description:   product.Description,
		Price:         product.Price,
		DiscountPrice: product.DiscountPrice,
		CurrentPrice:  product.CurrentPrice(),
		SKU:           product.SKU,
		StockQuantity: product.StockQuantity,
		InStock:       product.InStock(),
		IsFeatured:    product.IsFeatured,
		CreatedAt:     product.CreatedAt,
	}

	if product.CategoryID != nil {
		id := product.CategoryID.String()
		resp.CategoryID = &id
	}

	return resp
}

type CategoryResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Description string  `json:"description"`
	ParentID    *string `json:"parent_id,omitempty"`
}

func CategoryToResponse(category *entity.Category) CategoryResponse {
	resp := CategoryResponse{
		ID:          category.ID.String(),
		Name:        category.Name,
		Slug:        category.Slug,
		Description: category.Description,
	}

	if category.ParentID != nil {
		id := category.ParentID.String()
		resp.ParentID = &id
	}

	return resp
}
