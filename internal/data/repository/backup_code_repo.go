package repository

import (
	"context"
	"fmt"

	"mini-ecom/internal/data/entity"
	"mini-ecom/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BackupCodeRepository interface {
	CreateBatch(ctx context.Context, codes []*entity.BackupCode) error
	// Consume deletes the matching code and reports whether one existed.
	// Deletion is what makes each code single-use.
	Consume(ctx context.Context, userID uuid.UUID, codeHash string) (bool, error)
	CountForUser(ctx context.Context, userID uuid.UUID) (int64, error)
	DeleteAllForUser(ctx context.Context, userID uuid.UUID) error
}

type backupCodeRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBackupCodeRepository(db database.PgxIface, log *zap.Logger) BackupCodeRepository {
	return &backupCodeRepository{
		db:  db,
		log: log.With(zap.String("repository", "backup_code")),
	}
}

func (r *backupCodeRepository) CreateBatch(ctx context.Context, codes []*entity.BackupCode) error {
	query := `
		INSERT INTO backup_codes (id, user_id, code_hash, created_at)
		VALUES ($1, $2, $3, $4)
	`

	for _, code := range codes {
		_, err := r.db.Exec(ctx, query,
			code.ID,
			code.UserID,
			code.CodeHash,
			code.CreatedAt,
		)
		if err != nil {
			r.log.Error("Failed to create backup code",
				zap.Error(err),
				zap.String("user_id", code.UserID.String()),
			)
			return fmt.Errorf("create backup code for user %s: %w", code.UserID.String(), err)
		}
	}

	return nil
}

func (r *backupCodeRepository) Consume(ctx context.Context, userID uuid.UUID, codeHash string) (bool, error) {
	query := `
		DELETE FROM backup_codes
		WHERE user_id = $1 AND code_hash = $2
	`

	result, err := r.db.Exec(ctx, query, userID, codeHash)
	if err != nil {
		r.log.Error("Failed to consume backup code",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return false, fmt.Errorf("consume backup code for user %s: %w", userID.String(), err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *backupCodeRepository) CountForUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM backup_codes WHERE user_id = $1`

	var count int64
	err := r.db.QueryRow(ctx, query, userID).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count backup codes",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return 0, fmt.Errorf("count backup codes for user %s: %w", userID.String(), err)
	}

	return count, nil
}

func (r *backupCodeRepository) DeleteAllForUser(ctx context.Context, userID uuid.UUID) error {
	query := `DELETE FROM backup_codes WHERE user_id = $1`

	_, err := r.db.Exec(ctx, query, userID)
	if err != nil {
		r.log.Error("Failed to delete backup codes",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return fmt.Errorf("delete backup codes for user %s: %w", userID.String(), err)
	}

	return nil
}
