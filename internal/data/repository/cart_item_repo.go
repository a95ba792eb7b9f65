package repository

import (
	"context"
	"fmt"

	"mini-ecom/internal/data/entity"
	"mini-ecom/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type CartItemRepository interface {
	// Upsert adds a line or bumps the quantity on the (cart, product) key.
	Upsert(ctx context.Context, item *entity.CartItem) error
	FindByCartAndProduct(ctx context.Context, cartID, productID uuid.UUID) (*entity.CartItem, error)
	FindAllByCart(ctx context.Context, cartID uuid.UUID) ([]*entity.CartItem, error)
	UpdateQuantity(ctx context.Context, cartID, productID uuid.UUID, quantity int) error
	Remove(ctx context.Context, cartID, productID uuid.UUID) error
	RemoveAll(ctx context.Context, cartID uuid.UUID) error
}

type cartItemRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewCartItemRepository(db database.PgxIface, log *zap.Logger) CartItemRepository {
	return &cartItemRepository{
		db:  db,
		log: log.With(zap.String("repository", "cart_item")),
	}
}

func (r *cartItemRepository) Upsert(ctx context.Context, item *entity.CartItem) error {
	query := `
		INSERT INTO cart_items (id, cart_id, product_id, quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (cart_id, product_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity,
		              updated_at = EXCLUDED.updated_at
	`

	_, err := r.db.Exec(ctx, query,
		item.ID,
		item.CartID,
		item.ProductID,
		item.Quantity,
		item.CreatedAt,
		item.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to upsert cart item",
			zap.Error(err),
			zap.String("cart_id", item.CartID.String()),
			zap.String("product_id", item.ProductID.String()),
		)
		return fmt.Errorf("upsert cart item for cart %s: %w", item.CartID.String(), err)
	}

	return nil
}

func (r *cartItemRepository) FindByCartAndProduct(ctx context.Context, cartID, productID uuid.UUID) (*entity.CartItem, error) {
	query := `
		SELECT id, cart_id, product_id, quantity, created_at, updated_at
		FROM cart_items
		WHERE cart_id = $1 AND product_id = $2
	`

	var item entity.CartItem
	err := r.db.QueryRow(ctx, query, cartID, productID).Scan(
		&item.ID,
		&item.CartID,
		&item.ProductID,
		&item.Quantity,
		&item.CreatedAt,
		&item.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find cart item",
			zap.Error(err),
			zap.String("cart_id", cartID.String()),
			zap.String("product_id", productID.String()),
		)
		return nil, fmt.Errorf("find cart item in cart %s: %w", cartID.String(), err)
	}

	return &item, nil
}

func (r *cartItemRepository) FindAllByCart(ctx context.Context, cartID uuid.UUID) ([]*entity.CartItem, error) {
	query := `
		SELECT id, cart_id, product_id, quantity, created_at, updated_at
		FROM cart_items
		WHERE cart_id = $1
		ORDER BY created_at
	`

	rows, err := r.db.Query(ctx, query, cartID)
	if err != nil {
		r.log.Error("Failed to get cart items",
			zap.Error(err),
			zap.String("cart_id", cartID.String()),
		)
		return nil, fmt.Errorf("find items for cart %s: %w", cartID.String(), err)
	}
	defer rows.Close()

	var items []*entity.CartItem
	for rows.Next() {
		var item entity.CartItem
		err := rows.Scan(
			&item.ID,
			&item.CartID,
			&item.ProductID,
			&item.Quantity,
			&item.CreatedAt,
			&item.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan cart item row: %w", err)
		}
		items = append(items, &item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cart item rows: %w", err)
	}

	return items, nil
}

func (r *cartItemRepository) UpdateQuantity(ctx context.Context, cartID, productID uuid.UUID, quantity int) error {
	query := `
		UPDATE cart_items
		SET quantity = $3, updated_at = NOW()
		WHERE cart_id = $1 AND product_id = $2
	`

	result, err := r.db.Exec(ctx, query, cartID, productID, quantity)
	if err != nil {
		r.log.Error("Failed to update cart item quantity",
			zap.Error(err),
			zap.String("cart_id", cartID.String()),
			zap.String("product_id", productID.String()),
		)
		return fmt.Errorf("update quantity in cart %s: %w", cartID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("product %s not in cart %s", productID.String(), cartID.String())
	}

	return nil
}

func (r *cartItemRepository) Remove(ctx context.Context, cartID, productID uuid.UUID) error {
	query := `DELETE FROM cart_items WHERE cart_id = $1 AND product_id = $2`

	result, err := r.db.Exec(ctx, query, cartID, productID)
	if err != nil {
		r.log.Error("Failed to remove cart item",
			zap.Error(err),
			zap.String("cart_id", cartID.String()),
			zap.String("product_id", productID.String()),
		)
		return fmt.Errorf("remove product %s from cart %s: %w", productID.String(), cartID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("product %s not in cart %s", productID.String(), cartID.String())
	}

	return nil
}

func (r *cartItemRepository) RemoveAll(ctx context.Context, cartID uuid.UUID) error {
	query := `DELETE FROM cart_items WHERE cart_id = $1`

	_, err := r.db.Exec(ctx, query, cartID)
	if err != nil {
		r.log.Error("Failed to clear cart",
			zap.Error(err),
			zap.String("cart_id", cartID.String()),
		)
		return fmt.Errorf("clear cart %s: %w", cartID.String(), err)
	}

	return nil
}
