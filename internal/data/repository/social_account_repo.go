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

type SocialAccountRepository interface {
	Create(ctx context.Context, account *entity.SocialAccount) error
	FindByProviderUID(ctx context.Context, provider entity.SocialProvider, uid string) (*entity.SocialAccount, error)
	FindAllByUser(ctx context.Context, userID uuid.UUID) ([]*entity.SocialAccount, error)
}

type socialAccountRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewSocialAccountRepository(db database.PgxIface, log *zap.Logger) SocialAccountRepository {
	return &socialAccountRepository{
		db:  db,
		log: log.With(zap.String("repository", "social_account")),
	}
}

func (r *socialAccountRepository) Create(ctx context.Context, account *entity.SocialAccount) error {
	query := `
		INSERT INTO social_accounts (id, user_id, provider, provider_uid, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.Exec(ctx, query,
		account.ID,
		account.UserID,
		account.Provider,
		account.ProviderUID,
		account.CreatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create social account",
			zap.Error(err),
			zap.String("user_id", account.UserID.String()),
			zap.String("provider", string(account.Provider)),
		)
		return fmt.Errorf("create social account for user %s: %w", account.UserID.String(), err)
	}

	return nil
}

func (r *socialAccountRepository) FindByProviderUID(ctx context.Context, provider entity.SocialProvider, uid string) (*entity.SocialAccount, error) {
	query := `
		SELECT id, user_id, provider, provider_uid, created_at
		FROM social_accounts
		WHERE provider = $1 AND provider_uid = $2
	`

	var account entity.SocialAccount
	err := r.db.QueryRow(ctx, query, provider, uid).Scan(
		&account.ID,
		&account.UserID,
		&account.Provider,
		&account.ProviderUID,
		&account.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find social account",
			zap.Error(err),
			zap.String("provider", string(provider)),
		)
		return nil, fmt.Errorf("find social account %s/%s: %w", provider, uid, err)
	}

	return &account, nil
}

func (r *socialAccountRepository) FindAllByUser(ctx context.Context, userID uuid.UUID) ([]*entity.SocialAccount, error) {
	query := `
		SELECT id, user_id, provider, provider_uid, created_at
		FROM social_accounts
		WHERE user_id = $1
		ORDER BY created_at
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		r.log.Error("Failed to find social accounts",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find social accounts for user %s: %w", userID.String(), err)
	}
	defer rows.Close()

	var accounts []*entity.SocialAccount
	for rows.Next() {
		var account entity.SocialAccount
		err := rows.Scan(
			&account.ID,
			&account.UserID,
			&account.Provider,
			&account.ProviderUID,
			&account.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan social account row: %w", err)
		}
		accounts = append(accounts, &account)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate social account rows: %w", err)
	}

	return accounts, nil
}
