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

type TOTPDeviceRepository interface {
	Create(ctx context.Context, device *entity.TOTPDevice) error
	FindConfirmedByUserID(ctx context.Context, userID uuid.UUID) (*entity.TOTPDevice, error)
	FindPendingByUserID(ctx context.Context, userID uuid.UUID) (*entity.TOTPDevice, error)
	Confirm(ctx context.Context, deviceID uuid.UUID) error
	DeleteAllForUser(ctx context.Context, userID uuid.UUID) error
}

type totpDeviceRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewTOTPDeviceRepository(db database.PgxIface, log *zap.Logger) TOTPDeviceRepository {
	return &totpDeviceRepository{
		db:  db,
		log: log.With(zap.String("repository", "totp_device")),
	}
}

func (r *totpDeviceRepository) Create(ctx context.Context, device *entity.TOTPDevice) error {
	query := `
		INSERT INTO totp_devices (id, user_id, name, secret, confirmed,
		                          created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(ctx, query,
		device.ID,
		device.UserID,
		device.Name,
		device.Secret,
		device.Confirmed,
		device.CreatedAt,
		device.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create TOTP device",
			zap.Error(err),
			zap.String("user_id", device.UserID.String()),
		)
		return fmt.Errorf("create TOTP device for user %s: %w", device.UserID.String(), err)
	}

	return nil
}

func (r *totpDeviceRepository) findByUserID(ctx context.Context, userID uuid.UUID, confirmed bool) (*entity.TOTPDevice, error) {
	query := `
		SELECT id, user_id, name, secret, confirmed, created_at, updated_at
		FROM totp_devices
		WHERE user_id = $1 AND confirmed = $2
		ORDER BY created_at DESC
		LIMIT 1
	`

	var device entity.TOTPDevice
	err := r.db.QueryRow(ctx, query, userID, confirmed).Scan(
		&device.ID,
		&device.UserID,
		&device.Name,
		&device.Secret,
		&device.Confirmed,
		&device.CreatedAt,
		&device.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find TOTP device",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.Bool("confirmed", confirmed),
		)
		return nil, fmt.Errorf("find TOTP device for user %s: %w", userID.String(), err)
	}

	return &device, nil
}

func (r *totpDeviceRepository) FindConfirmedByUserID(ctx context.Context, userID uuid.UUID) (*entity.TOTPDevice, error) {
	return r.findByUserID(ctx, userID, true)
}

func (r *totpDeviceRepository) FindPendingByUserID(ctx context.Context, userID uuid.UUID) (*entity.TOTPDevice, error) {
	return r.findByUserID(ctx, userID, false)
}

func (r *totpDeviceRepository) Confirm(ctx context.Context, deviceID uuid.UUID) error {
	query := `
		UPDATE totp_devices
		SET confirmed = true, updated_at = NOW()
		WHERE id = $1 AND confirmed = false
	`

	result, err := r.db.Exec(ctx, query, deviceID)
	if err != nil {
		r.log.Error("Failed to confirm TOTP device",
			zap.Error(err),
			zap.String("device_id", deviceID.String()),
		)
		return fmt.Errorf("confirm TOTP device %s: %w", deviceID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("TOTP device %s not found or already confirmed", deviceID.String())
	}

	return nil
}

func (r *totpDeviceRepository) DeleteAllForUser(ctx context.Context, userID uuid.UUID) error {
	query := `DELETE FROM totp_devices WHERE user_id = $1`

	_, err := r.db.Exec(ctx, query, userID)
	if err != nil {
		r.log.Error("Failed to delete TOTP devices",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return fmt.Errorf("delete TOTP devices for user %s: %w", userID.String(), err)
	}

	return nil
}
