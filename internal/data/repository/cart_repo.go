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

type CartRepository interface {
	Create(ctx context.Context, cart *entity.Cart) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Cart, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Cart, error)
	AttachUser(ctx context.Context, cartID, userID uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type cartRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewCartRepository(db database.PgxIface, log *zap.Logger) CartRepository {
	return &cartRepository{
		db:  db,
		log: log.With(zap.String("repository", "cart")),
	}
}

func (r *cartRepository) Create(ctx context.Context, cart *entity.Cart) error {
	query := `
		INSERT INTO carts (id, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.db.Exec(ctx, query,
		cart.ID,
		cart.UserID,
		cart.CreatedAt,
		cart.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create cart",
			zap.Error(err),
			zap.String("cart_id", cart.ID.String()),
		)
		return fmt.Errorf("create cart %s: %w", cart.ID.String(), err)
	}

	return nil
}

func (r *cartRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Cart, error) {
	query := `
		SELECT id, user_id, created_at, updated_at
		FROM carts
		WHERE id = $1
	`

	var cart entity.Cart
	err := r.db.QueryRow(ctx, query, id).Scan(
		&cart.ID,
		&cart.UserID,
		&cart.CreatedAt,
		&cart.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find cart",
			zap.Error(err),
			zap.String("cart_id", id.String()),
		)
		return nil, fmt.Errorf("find cart %s: %w", id.String(), err)
	}

	return &cart, nil
}

func (r *cartRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Cart, error) {
	query := `
		SELECT id, user_id, created_at, updated_at
		FROM carts
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`

	var cart entity.Cart
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&cart.ID,
		&cart.UserID,
		&cart.CreatedAt,
		&cart.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find cart by user",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find cart for user %s: %w", userID.String(), err)
	}

	return &cart, nil
}

func (r *cartRepository) AttachUser(ctx context.Context, cartID, userID uuid.UUID) error {
	query := `
		UPDATE carts
		SET user_id = $2, updated_at = NOW()
		WHERE id = $1 AND user_id IS NULL
	`

	result, err := r.db.Exec(ctx, query, cartID, userID)
	if err != nil {
		r.log.Error("Failed to attach user to cart",
			zap.Error(err),
			zap.String("cart_id", cartID.String()),
			zap.String("user_id", userID.String()),
		)
		return fmt.Errorf("attach user %s to cart %s: %w", userID.String(), cartID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("cart %s not found or already owned", cartID.String())
	}

	return nil
}

func (r *cartRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM carts WHERE id = $1`

	_, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete cart",
			zap.Error(err),
			zap.String("cart_id", id.String()),
		)
		return fmt.Errorf("delete cart %s: %w", id.String(), err)
	}

	return nil
}
