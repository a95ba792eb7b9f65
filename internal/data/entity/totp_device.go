package entity

import "github.com/google/uuid"

// TOTPDevice holds a user's authenticator secret. A device only counts
// for login challenges once Confirmed is set by a successful setup code.
type TOTPDevice struct {
	BaseNoDelete
	UserID    uuid.UUID `db:"user_id"`
	Name      string    `db:"name"`
	Secret    string    `db:"secret"`
	Confirmed bool      `db:"confirmed"`
}
