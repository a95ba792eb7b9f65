package usecase

import (
	"context"
	"strings"
	"testing"

	"mini-ecom/internal/dto/request"

	"github.com/google/uuid"
)

func TestCheckoutSnapshotsPricesAndEmptiesCart(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	user := env.addUser("amy@example.com", "amy", "hunter2secret")
	cart := env.addCart(&user.ID)
	keyboard := env.addProduct("Keyboard", "keyboard", 50, 10)
	monitor := env.addProduct("Monitor", "monitor", 300, 4)
	discount := 250.0
	monitor.DiscountPrice = &discount

	for _, line := range []struct {
		id  uuid.UUID
		qty int
	}{{keyboard.ID, 2}, {monitor.ID, 1}} {
		if _, err := env.svc.Cart.AddItem(ctx, cart.ID, &request.AddCartItemRequest{
			ProductID: line.id.String(),
			Quantity:  line.qty,
		}); err != nil {
			t.Fatalf("AddItem: %v", err)
		}
	}

	order, err := env.svc.Order.Checkout(ctx, user.ID, &request.CheckoutRequest{CartID: cart.ID.String()})
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}

	if order.TotalItems != 3 {
		t.Errorf("total items = %d, want 3", order.TotalItems)
	}
	want := 2*50 + 250.0
	if order.TotalPrice != want {
		t.Errorf("total price = %v, want %v (discount applied)", order.TotalPrice, want)
	}
	if !strings.HasPrefix(order.OrderID, "ORD-") {
		t.Errorf("order id = %q, want ORD- prefix", order.OrderID)
	}

	if keyboard.StockQuantity != 8 || monitor.StockQuantity != 3 {
		t.Errorf("stock = %d/%d, want 8/3 after checkout", keyboard.StockQuantity, monitor.StockQuantity)
	}

	items, _ := env.cartItems.FindAllByCart(ctx, cart.ID)
	if len(items) != 0 {
		t.Error("cart should be emptied by checkout")
	}
}

func TestCheckoutEmptyCart(t *testing.T) {
	env := newTestEnv()
	user := env.addUser("amy@example.com", "amy", "hunter2secret")
	cart := env.addCart(&user.ID)

	_, err := env.svc.Order.Checkout(context.Background(), user.ID, &request.CheckoutRequest{
		CartID: cart.ID.String(),
	})
	if err == nil || !strings.Contains(err.Error(), "cart is empty") {
		t.Fatalf("expected empty cart rejection, got %v", err)
	}
}

func TestCheckoutForeignCart(t *testing.T) {
	env := newTestEnv()
	user := env.addUser("amy@example.com", "amy", "hunter2secret")
	other := env.addUser("bob@example.com", "bob", "hunter2secret")
	cart := env.addCart(&other.ID)

	_, err := env.svc.Order.Checkout(context.Background(), user.ID, &request.CheckoutRequest{
		CartID: cart.ID.String(),
	})
	if err == nil || !strings.Contains(err.Error(), "belongs to another user") {
		t.Fatalf("expected ownership rejection, got %v", err)
	}
}

func TestCheckoutInsufficientStock(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	user := env.addUser("amy@example.com", "amy", "hunter2secret")
	cart := env.addCart(&user.ID)
	product := env.addProduct("Rare", "rare", 99, 5)

	if _, err := env.svc.Cart.AddItem(ctx, cart.ID, &request.AddCartItemRequest{
		ProductID: product.ID.String(),
		Quantity:  3,
	}); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	// Stock drops below the cart quantity between add and checkout
	product.StockQuantity = 2

	_, err := env.svc.Order.Checkout(ctx, user.ID, &request.CheckoutRequest{CartID: cart.ID.String()})
	if err == nil || !strings.Contains(err.Error(), "insufficient stock") {
		t.Fatalf("expected insufficient stock, got %v", err)
	}
	if product.StockQuantity != 2 {
		t.Error("failed checkout must not touch stock")
	}
}

func TestGetOrderHidesOtherUsers(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	user := env.addUser("amy@example.com", "amy", "hunter2secret")
	other := env.addUser("bob@example.com", "bob", "hunter2secret")
	cart := env.addCart(&user.ID)
	product := env.addProduct("Keyboard", "keyboard", 50, 10)

	if _, err := env.svc.Cart.AddItem(ctx, cart.ID, &request.AddCartItemRequest{
		ProductID: product.ID.String(),
		Quantity:  1,
	}); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	placed, err := env.svc.Order.Checkout(ctx, user.ID, &request.CheckoutRequest{CartID: cart.ID.String()})
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}

	orderID, _ := uuid.Parse(placed.ID)

	if _, err := env.svc.Order.Get(ctx, user.ID, orderID); err != nil {
		t.Fatalf("owner Get: %v", err)
	}

	_, err = env.svc.Order.Get(ctx, other.ID, orderID)
	if err == nil || !strings.Contains(err.Error(), "order not found") {
		t.Fatalf("another user's order must look missing, got %v", err)
	}
}
