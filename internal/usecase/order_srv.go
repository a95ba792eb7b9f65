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

type OrderService interface {
	Checkout(ctx context.Context, userID uuid.UUID, req *request.CheckoutRequest) (*response.OrderResponse, error)
	List(ctx context.Context, userID uuid.UUID, page *request.PaginatedRequest) (*response.PaginatedResponse[response.OrderResponse], error)
	Get(ctx context.Context, userID, orderID uuid.UUID) (*response.OrderResponse, error)
}

type orderService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewOrderService(repo *repository.Repository, log *zap.Logger) OrderService {
	return &orderService{
		repo: repo,
		log:  log.With(zap.String("service", "order")),
	}
}

func (s *orderService) Checkout(ctx context.Context, userID uuid.UUID, req *request.CheckoutRequest) (*response.OrderResponse, error) {
	// 1. Validate
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	// 2. The cart must exist and belong to the buyer
	cartID, err := uuid.Parse(req.CartID)
	if err != nil {
		return nil, fmt.Errorf("invalid cart id")
	}

	cart, err := s.repo.Cart.FindByID(ctx, cartID)
	if err != nil {
		return nil, fmt.Errorf("failed to find cart")
	}
	if cart == nil {
		return nil, fmt.Errorf("cart not found")
	}
	if cart.UserID == nil || *cart.UserID != userID {
		return nil, fmt.Errorf("cart belongs to another user")
	}

	// 3. An empty cart cannot check out
	items, err := s.repo.CartItem.FindAllByCart(ctx, cartID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart items")
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("cart is empty")
	}

	// 4. Snapshot each line at its current price and verify stock
	now := time.Now()
	orderUUID := uuid.New()
	orderItems := make([]*entity.OrderItem, 0, len(items))
	totalItems := 0
	totalPrice := 0.0

	for _, item := range items {
		product, err := s.repo.Product.FindByID(ctx, item.ProductID)
		if err != nil {
			return nil, fmt.Errorf("failed to load product")
		}
		if product == nil || !product.IsActive {
			return nil, fmt.Errorf("product no longer available")
		}
		if product.StockQuantity < item.Quantity {
			return nil, fmt.Errorf("insufficient stock for %s", product.Name)
		}

		unitPrice := product.CurrentPrice()
		orderItems = append(orderItems, &entity.OrderItem{
			BaseSimple: entity.BaseSimple{
				ID:        uuid.New(),
				CreatedAt: now,
			},
			OrderID:     orderUUID,
			ProductID:   product.ID,
			ProductName: product.Name,
			UnitPrice:   unitPrice,
			Quantity:    item.Quantity,
		})

		totalItems += item.Quantity
		totalPrice += unitPrice * float64(item.Quantity)
	}

	order := &entity.Order{
		Base: entity.Base{
			ID:        orderUUID,
			CreatedAt: now,
			UpdatedAt: now,
		},
		OrderID:    utils.GenerateOrderID(),
		UserID:     userID,
		TotalItems: totalItems,
		TotalPrice: totalPrice,
		Status:     entity.OrderStatusPending,
	}

	// 5. Order, items, and stock decrements commit together
	if err := s.repo.Order.CreateWithItems(ctx, order, orderItems); err != nil {
		s.log.Error("Failed to create order",
			zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to place order: %s", err.Error())
	}

	// 6. A placed order empties the cart
	if err := s.repo.CartItem.RemoveAll(ctx, cartID); err != nil {
		s.log.Warn("Failed to clear cart after checkout",
			zap.Error(err), zap.String("cart_id", cartID.String()))
	}

	s.log.Info("Order placed",
		zap.String("order_id", order.OrderID),
		zap.String("user_id", userID.String()),
		zap.Float64("total", totalPrice))

	resp := response.OrderToResponse(order, orderItems)
	return &resp, nil
}

func (s *orderService) List(ctx context.Context, userID uuid.UUID, page *request.PaginatedRequest) (*response.PaginatedResponse[response.OrderResponse], error) {
	// 1. Validate
	if errs := utils.ValidateStruct(page); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	// 2. Fetch the page
	orders, err := s.repo.Order.FindAllByUser(ctx, userID, page.Limit(), page.Offset())
	if err != nil {
		s.log.Error("Failed to list orders", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to list orders")
	}

	total, err := s.repo.Order.CountByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders")
	}

	data := make([]response.OrderResponse, 0, len(orders))
	for _, order := range orders {
		data = append(data, response.OrderToResponse(order, nil))
	}

	return response.NewPaginatedResponse(data, page.Page, page.Limit(), total), nil
}

func (s *orderService) Get(ctx context.Context, userID, orderID uuid.UUID) (*response.OrderResponse, error) {
	order, err := s.repo.Order.FindByID(ctx, orderID)
	if err != nil {
		s.log.Error("Failed to find order", zap.Error(err), zap.String("order_id", orderID.String()))
		return nil, fmt.Errorf("failed to find order")
	}
	if order == nil || order.UserID != userID {
		// Another user's order looks like a missing one
		return nil, fmt.Errorf("order not found")
	}

	items, err := s.repo.Order.FindItems(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order items")
	}

	resp := response.OrderToResponse(order, items)
	return &resp, nil
}
