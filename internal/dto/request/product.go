package request

type CreateProductRequest struct {
	CategoryID    *string  `json:"category_id,omitempty" validate:"omitempty,uuid4"`
	Name          string   `json:"name" validate:"required,max=200"`
	Slug          string   `json:"slug" validate:"required,max=200"`
	Description   string   `json:"description" validate:"max=5000"`
	Price         float64  `json:"price" validate:"required,gt=0"`
	DiscountPrice *float64 `json:"discount_price,omitempty" validate:"omitempty,gt=0"`
	SKU           string   `json:"sku" validate:"required,max=64"`
	StockQuantity int      `json:"stock_quantity" validate:"min=0"`
	IsFeatured    bool     `json:"is_featured"`
}

type UpdateProductRequest struct {
	CategoryID    *string  `json:"category_id,omitempty" validate:"omitempty,uuid4"`
	Name          *string  `json:"name,omitempty" validate:"omitempty,max=200"`
	Description   *string  `json:"description,omitempty" validate:"omitempty,max=5000"`
	Price         *float64 `json:"price,omitempty" validate:"omitempty,gt=0"`
	DiscountPrice *float64 `json:"discount_price,omitempty" validate:"omitempty,gt=0"`
	StockQuantity *int     `json:"stock_quantity,omitempty" validate:"omitempty,min=0"`
	IsActive      *bool    `json:"is_active,omitempty"`
	IsFeatured    *bool    `json:"is_featured,omitempty"`
}

type ListProductsRequest struct {
	PaginatedRequest
	CategoryID   string `json:"category_id" validate:"omitempty,uuid4"`
	Search       string `json:"search" validate:"omitempty,max=100"`
	FeaturedOnly bool   `json:"featured_only"`
	InStockOnly  bool   `json:"in_stock_only"`
}

type CreateCategoryRequest struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Slug        string  `json:"slug" validate:"required,max=100"`
	Description string  `json:"description" validate:"max=1000"`
	ParentID    *string `json:"parent_id,omitempty" validate:"omitempty,uuid4"`
}
