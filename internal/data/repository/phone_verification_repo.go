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

type PhoneVerificationRepository interface {
	Create(ctx context.Context, verification *entity.PhoneVerification) error
	FindLatest(ctx context.Context, userID uuid.UUID, phone string) (*entity.PhoneVerification, error)
	IncrementAttempts(ctx context.Context, id uuid.UUID) error
	MarkVerified(ctx context.Context, id uuid.UUID) error
}

type phoneVerificationRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewPhoneVerificationRepository(db database.PgxIface, log *zap.Logger) PhoneVerificationRepository {
	return &phoneVerificationRepository{
		db:  db,
		log: log.With(zap.String("repository", "phone_verification")),
	}
}

func (r *phoneVerificationRepository) Create(ctx context.Context, verification *entity.PhoneVerification) error {
	query := `
		INSERT INTO phone_verifications (id, user_id, phone, code_hash, attempts,
		                                 expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(ctx, query,
		verification.ID,
		verification.UserID,
		verification.Phone,
		verification.CodeHash,
		verification.Attempts,
		verification.ExpiresAt,
		verification.CreatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create phone verification",
			zap.Error(err),
			zap.String("user_id", verification.UserID.String()),
		)
		return fmt.Errorf("create phone verification for user %s: %w", verification.UserID.String(), err)
	}

	return nil
}

func (r *phoneVerificationRepository) FindLatest(ctx context.Context, userID uuid.UUID, phone string) (*entity.PhoneVerification, error) {
	query := `
		SELECT id, user_id, phone, code_hash, attempts,
		       expires_at, verified_at, created_at
		FROM phone_verifications
		WHERE user_id = $1 AND phone = $2
		ORDER BY created_at DESC
		LIMIT 1
	`

	var verification entity.PhoneVerification
	err := r.db.QueryRow(ctx, query, userID, phone).Scan(
		&verification.ID,
		&verification.UserID,
		&verification.Phone,
		&verification.CodeHash,
		&verification.Attempts,
		&verification.ExpiresAt,
		&verification.VerifiedAt,
		&verification.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find phone verification",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find phone verification for user %s: %w", userID.String(), err)
	}

	return &verification, nil
}

func (r *phoneVerificationRepository) IncrementAttempts(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE phone_verifications
		SET attempts = attempts + 1
		WHERE id = $1
	`

	_, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to increment verification attempts",
			zap.Error(err),
			zap.String("verification_id", id.String()),
		)
		return fmt.Errorf("increment attempts for verification %s: %w", id.String(), err)
	}

	return nil
}

func (r *phoneVerificationRepository) MarkVerified(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE phone_verifications
		SET verified_at = NOW()
		WHERE id = $1 AND verified_at IS NULL
	`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to mark phone verified",
			zap.Error(err),
			zap.String("verification_id", id.String()),
		)
		return fmt.Errorf("mark verification %s verified: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("verification %s not found or already verified", id.String())
	}

	return nil
}
