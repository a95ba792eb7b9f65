package usecase

import (
	"context"
	"fmt"
	"time"

	"mini-ecom/internal/data/entity"
	"mini-ecom/internal/data/repository"
	"mini-ecom/internal/dto/request"
	"mini-ecom/internal/dto/response"
	"mini-ecom/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ProductService interface {
	List(ctx context.Context, req *request.ListProductsRequest) (*response.PaginatedResponse[response.ProductResponse], error)
	GetBySlug(ctx context.Context, slug string) (*response.ProductResponse, error)
	Create(ctx context.Context, req *request.CreateProductRequest) (*response.ProductResponse, error)
	Update(ctx context.Context, productID uuid.UUID, req *request.UpdateProductRequest) (*response.ProductResponse, error)
	Delete(ctx context.Context, productID uuid.UUID) error
	ListCategories(ctx context.Context) ([]response.CategoryResponse, error)
	CreateCategory(ctx context.Context, req *request.CreateCategoryRequest) (*response.CategoryResponse, error)
}

type productService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewProductService(repo *repository.Repository, log *zap.Logger) ProductService {
	return &productService{
		repo: repo,
		log:  log.With(zap.String("service", "product")),
	}
}

func (s *productService) List(ctx context.Context, req *request.ListProductsRequest) (*response.PaginatedResponse[response.ProductResponse], error) {
	// 1. Validate
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	// 2. Build the filter
	filter := repository.ProductFilter{
		Search:       req.Search,
		FeaturedOnly: req.FeaturedOnly,
		InStockOnly:  req.InStockOnly,
	}
	if req.CategoryID != "" {
		categoryID, err := uuid.Parse(req.CategoryID)
		if err != nil {
			return nil, fmt.Errorf("invalid category id")
		}
		filter.CategoryID = &categoryID
	}

	// 3. Page through
	products, err := s.repo.Product.FindAll(ctx, filter, req.Limit(), req.Offset())
	if err != nil {
		s.log.Error("Failed to list products", zap.Error(err))
		return nil, fmt.Errorf("failed to list products")
	}

	total, err := s.repo.Product.CountAll(ctx, filter)
	if err != nil {
		s.log.Error("Failed to count products", zap.Error(err))
		return nil, fmt.Errorf("failed to list products")
	}

	data := make([]response.ProductResponse, 0, len(products))
	for _, product := range products {
		data = append(data, response.ProductToResponse(product))
	}

	return response.NewPaginatedResponse(data, req.Page, req.Limit(), total), nil
}

func (s *productService) GetBySlug(ctx context.Context, slug string) (*response.ProductResponse, error) {
	product, err := s.repo.Product.FindBySlug(ctx, slug)
	if err != nil {
		s.log.Error("Failed to find product", zap.Error(err), zap.String("slug", slug))
		return nil, fmt.Errorf("failed to find product")
	}
	if product == nil || !product.IsActive {
		return nil, fmt.Errorf("product not found")
	}

	resp := response.ProductToResponse(product)
	return &resp, nil
}

func (s *productService) Create(ctx context.Context, req *request.CreateProductRequest) (*response.ProductResponse, error) {
	// 1. Validate
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	// 2. SKU and slug must be unique
	existing, err := s.repo.Product.FindBySKU(ctx, req.SKU)
	if err != nil {
		return nil, fmt.Errorf("failed to check SKU")
	}
	if existing != nil {
		return nil, fmt.Errorf("SKU already exists")
	}

	existing, err = s.repo.Product.FindBySlug(ctx, req.Slug)
	if err != nil {
		return nil, fmt.Errorf("failed to check slug")
	}
	if existing != nil {
		return nil, fmt.Errorf("slug already exists")
	}

	// 3. Discount below list price only
	if req.DiscountPrice != nil && *req.DiscountPrice >= req.Price {
		return nil, fmt.Errorf("discount price must be below list price")
	}

	// 4. Resolve category when given
	var categoryID *uuid.UUID
	if req.CategoryID != nil {
		id, err := uuid.Parse(*req.CategoryID)
		if err != nil {
			return nil, fmt.Errorf("invalid category id")
		}
		category, err := s.repo.Category.FindByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to check category")
		}
		if category == nil {
			return nil, fmt.Errorf("category not found")
		}
		categoryID = &id
	}

	now := time.Now()
	product := &entity.Product{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		CategoryID:    categoryID,
		Name:          req.Name,
		Slug:          req.Slug,
		Description:   req.Description,
		Price:         req.Price,
		DiscountPrice: req.DiscountPrice,
		SKU:           req.SKU,
		StockQuantity: req.StockQuantity,
		IsActive:      true,
		IsFeatured:    req.IsFeatured,
	}

	if err := s.repo.Product.Create(ctx, product); err != nil {
		s.log.Error("Failed to create product", zap.Error(err), zap.String("sku", req.SKU))
		return nil, fmt.Errorf("failed to create product")
	}

	s.log.Info("Product created",
		zap.String("product_id", product.ID.String()),
		zap.String("sku", product.SKU))

	resp := response.ProductToResponse(product)
	return &resp, nil
}

func (s *productService) Update(ctx context.Context, productID uuid.UUID, req *request.UpdateProductRequest) (*response.ProductResponse, error) {
	// 1. Validate
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	// 2. Load product
	product, err := s.repo.Product.FindByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to find product")
	}
	if product == nil {
		return nil, fmt.Errorf("product not found")
	}

	// 3. Apply only the provided fields
	if req.CategoryID != nil {
		id, err := uuid.Parse(*req.CategoryID)
		if err != nil {
			return nil, fmt.Errorf("invalid category id")
		}
		product.CategoryID = &id
	}
	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.DiscountPrice != nil {
		product.DiscountPrice = req.DiscountPrice
	}
	if req.StockQuantity != nil {
		product.StockQuantity = *req.StockQuantity
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}
	if req.IsFeatured != nil {
		product.IsFeatured = *req.IsFeatured
	}

	if product.DiscountPrice != nil && *product.DiscountPrice >= product.Price {
		return nil, fmt.Errorf("discount price must be below list price")
	}

	product.UpdatedAt = time.Now()
	if err := s.repo.Product.Update(ctx, product); err != nil {
		s.log.Error("Failed to update product",
			zap.Error(err), zap.String("product_id", productID.String()))
		return nil, fmt.Errorf("failed to update product")
	}

	s.log.Info("Product updated", zap.String("product_id", productID.String()))

	resp := response.ProductToResponse(product)
	return &resp, nil
}

func (s *productService) Delete(ctx context.Context, productID uuid.UUID) error {
	if err := s.repo.Product.Delete(ctx, productID); err != nil {
		s.log.Error("Failed to delete product",
			zap.Error(err), zap.String("product_id", productID.String()))
		return fmt.Errorf("product not found")
	}

	s.log.Info("Product deleted", zap.String("product_id", productID.String()))
	return nil
}

func (s *productService) ListCategories(ctx context.Context) ([]response.CategoryResponse, error) {
	categories, err := s.repo.Category.FindAllActive(ctx)
	if err != nil {
		s.log.Error("Failed to list categories", zap.Error(err))
		return nil, fmt.Errorf("failed to list categories")
	}

	resp := make([]response.CategoryResponse, 0, len(categories))
	for _, category := range categories {
		resp = append(resp, response.CategoryToResponse(category))
	}

	return resp, nil
}

func (s *productService) CreateCategory(ctx context.Context, req *request.CreateCategoryRequest) (*response.CategoryResponse, error) {
	// 1. Validate
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	// 2. Slug must be unique
	existing, err := s.repo.Category.FindBySlug(ctx, req.Slug)
	if err != nil {
		return nil, fmt.Errorf("failed to check slug")
	}
	if existing != nil {
		return nil, fmt.Errorf("slug already exists")
	}

	// 3. Resolve parent when given
	var parentID *uuid.UUID
	if req.ParentID != nil {
		id, err := uuid.Parse(*req.ParentID)
		if err != nil {
			return nil, fmt.Errorf("invalid parent id")
		}
		parent, err := s.repo.Category.FindByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to check parent")
		}
		if parent == nil {
			return nil, fmt.Errorf("parent category not found")
		}
		parentID = &id
	}

	now := time.Now()
	category := &entity.Category{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		ParentID:    parentID,
		IsActive:    true,
	}

	if err := s.repo.Category.Create(ctx, category); err != nil {
		s.log.Error("Failed to create category", zap.Error(err), zap.String("slug", req.Slug))
		return nil, fmt.Errorf("failed to create category")
	}

	s.log.Info("Category created", zap.String("category_id", category.ID.String()))

	resp := response.CategoryToResponse(category)
	return &resp, nil
}
