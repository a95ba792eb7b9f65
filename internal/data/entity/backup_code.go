package entity

import "github.com/google/uuid"

// BackupCode is a single-use fallback code, stored hashed and
// deleted on successful use.
type BackupCode struct {
	BaseSimple
	UserID   uuid.UUID `db:"user_id"`
	CodeHash string    `db:"code_hash"`
}
