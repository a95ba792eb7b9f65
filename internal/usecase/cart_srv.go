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

type CartService interface {
	// CreateCart opens an empty cart. UserID is nil for guests.
	CreateCart(ctx context.Context, userID *uuid.UUID) (*response.CartResponse, error)
	GetCart(ctx context.Context, cartID uuid.UUID) (*response.CartResponse, error)
	AddItem(ctx context.Context, cartID uuid.UUID, req *request.AddCartItemRequest) (*response.CartResponse, error)
	UpdateItem(ctx context.Context, cartID, productID uuid.UUID, req *request.UpdateCartItemRequest) (*response.CartResponse, error)
	RemoveItem(ctx context.Context, cartID, productID uuid.UUID) (*response.CartResponse, error)
	ClearCart(ctx context.Context, cartID uuid.UUID) error
	DeleteCart(ctx context.Context, cartID uuid.UUID) error
	// ClaimCart hands a guest cart to the user who just signed in.
	ClaimCart(ctx context.Context, cartID, userID uuid.UUID) (*response.CartResponse, error)
}

type cartService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewCartService(repo *repository.Repository, log *zap.Logger) CartService {
	return &cartService{
		repo: repo,
		log:  log.With(zap.String("service", "cart")),
	}
}

func (s *cartService) CreateCart(ctx context.Context, userID *uuid.UUID) (*response.CartResponse, error) {
	// Signed-in users reuse their existing cart instead of opening
	// another one
	if userID != nil {
		existing, err := s.repo.Cart.FindByUserID(ctx, *userID)
		if err != nil {
			return nil, fmt.Errorf("failed to check cart")
		}
		if existing != nil {
			return s.buildResponse(ctx, existing)
		}
	}

	now := time.Now()
	cart := &entity.Cart{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		UserID: userID,
	}

	if err := s.repo.Cart.Create(ctx, cart); err != nil {
		s.log.Error("Failed to create cart", zap.Error(err))
		return nil, fmt.Errorf("failed to create cart")
	}

	s.log.Info("Cart created", zap.String("cart_id", cart.ID.String()))

	return s.buildResponse(ctx, cart)
}

func (s *cartService) GetCart(ctx context.Context, cartID uuid.UUID) (*response.CartResponse, error) {
	cart, err := s.loadCart(ctx, cartID)
	if err != nil {
		return nil, err
	}
	return s.buildResponse(ctx, cart)
}

func (s *cartService) AddItem(ctx context.Context, cartID uuid.UUID, req *request.AddCartItemRequest) (*response.CartResponse, error) {
	// 1. Validate
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	// 2. Cart must exist
	cart, err := s.loadCart(ctx, cartID)
	if err != nil {
		return nil, err
	}

	// 3. Product must be purchasable
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, fmt.Errorf("invalid product id")
	}

	product, err := s.repo.Product.FindByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to find product")
	}
	if product == nil || !product.IsActive {
		return nil, fmt.Errorf("product not found")
	}
	if !product.InStock() {
		return nil, fmt.Errorf("product out of stock")
	}

	// 4. Existing line gets its quantity bumped, new product gets a line
	now := time.Now()
	item := &entity.CartItem{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		CartID:    cart.ID,
		ProductID: productID,
		Quantity:  req.Quantity,
	}

	if err := s.repo.CartItem.Upsert(ctx, item); err != nil {
		s.log.Error("Failed to add cart item",
			zap.Error(err), zap.String("cart_id", cartID.String()))
		return nil, fmt.Errorf("failed to add item")
	}

	s.log.Info("Item added to cart",
		zap.String("cart_id", cartID.String()),
		zap.String("product_id", productID.String()),
		zap.Int("quantity", req.Quantity))

	return s.buildResponse(ctx, cart)
}

func (s *cartService) UpdateItem(ctx context.Context, cartID, productID uuid.UUID, req *request.UpdateCartItemRequest) (*response.CartResponse, error) {
	// 1. Validate
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	cart, err := s.loadCart(ctx, cartID)
	if err != nil {
		return nil, err
	}

	// 2. Quantity zero means remove the line
	if req.Quantity == 0 {
		if err := s.repo.CartItem.Remove(ctx, cartID, productID); err != nil {
			return nil, fmt.Errorf("item not in cart")
		}
		return s.buildResponse(ctx, cart)
	}

	if err := s.repo.CartItem.UpdateQuantity(ctx, cartID, productID, req.Quantity); err != nil {
		return nil, fmt.Errorf("item not in cart")
	}

	return s.buildResponse(ctx, cart)
}

func (s *cartService) RemoveItem(ctx context.Context, cartID, productID uuid.UUID) (*response.CartResponse, error) {
	cart, err := s.loadCart(ctx, cartID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.CartItem.Remove(ctx, cartID, productID); err != nil {
		return nil, fmt.Errorf("item not in cart")
	}

	return s.buildResponse(ctx, cart)
}

func (s *cartService) ClearCart(ctx context.Context, cartID uuid.UUID) error {
	if _, err := s.loadCart(ctx, cartID); err != nil {
		return err
	}

	if err := s.repo.CartItem.RemoveAll(ctx, cartID); err != nil {
		s.log.Error("Failed to clear cart",
			zap.Error(err), zap.String("cart_id", cartID.String()))
		return fmt.Errorf("failed to clear cart")
	}

	s.log.Info("Cart cleared", zap.String("cart_id", cartID.String()))
	return nil
}

func (s *cartService) DeleteCart(ctx context.Context, cartID uuid.UUID) error {
	if _, err := s.loadCart(ctx, cartID); err != nil {
		return err
	}

	// Lines go first so no orphans survive a partial failure
	if err := s.repo.CartItem.RemoveAll(ctx, cartID); err != nil {
		s.log.Error("Failed to delete cart items",
			zap.Error(err), zap.String("cart_id", cartID.String()))
		return fmt.Errorf("failed to delete cart")
	}

	if err := s.repo.Cart.Delete(ctx, cartID); err != nil {
		s.log.Error("Failed to delete cart",
			zap.Error(err), zap.String("cart_id", cartID.String()))
		return fmt.Errorf("failed to delete cart")
	}

	s.log.Info("Cart deleted", zap.String("cart_id", cartID.String()))
	return nil
}

func (s *cartService) ClaimCart(ctx context.Context, cartID, userID uuid.UUID) (*response.CartResponse, error) {
	cart, err := s.loadCart(ctx, cartID)
	if err != nil {
		return nil, err
	}

	if cart.UserID != nil {
		if *cart.UserID == userID {
			return s.buildResponse(ctx, cart)
		}
		return nil, fmt.Errorf("cart belongs to another user")
	}

	if err := s.repo.Cart.AttachUser(ctx, cartID, userID); err != nil {
		s.log.Error("Failed to claim cart",
			zap.Error(err), zap.String("cart_id", cartID.String()))
		return nil, fmt.Errorf("failed to claim cart")
	}

	cart.UserID = &userID
	s.log.Info("Cart claimed",
		zap.String("cart_id", cartID.String()),
		zap.String("user_id", userID.String()))

	return s.buildResponse(ctx, cart)
}

// ==================== HELPER METHODS ====================

func (s *cartService) loadCart(ctx context.Context, cartID uuid.UUID) (*entity.Cart, error) {
	cart, err := s.repo.Cart.FindByID(ctx, cartID)
	if err != nil {
		s.log.Error("Failed to find cart", zap.Error(err), zap.String("cart_id", cartID.String()))
		return nil, fmt.Errorf("failed to find cart")
	}
	if cart == nil {
		return nil, fmt.Errorf("cart not found")
	}
	return cart, nil
}

// buildResponse loads lines plus products and prices everything at the
// current price.
func (s *cartService) buildResponse(ctx context.Context, cart *entity.Cart) (*response.CartResponse, error) {
	items, err := s.repo.CartItem.FindAllByCart(ctx, cart.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart items")
	}

	products := make(map[string]*entity.Product, len(items))
	for _, item := range items {
		product, err := s.repo.Product.FindByID(ctx, item.ProductID)
		if err != nil {
			return nil, fmt.Errorf("failed to load cart items")
		}
		if product != nil {
			products[item.ProductID.String()] = product
		}
	}

	resp := response.CartToResponse(cart, items, products)
	return &resp, nil
}
