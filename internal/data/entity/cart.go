package entity

import "github.com/google/uuid"

// Cart works identically for guests and authenticated users.
// Guests keep the generated ID client-side; UserID stays nil.
type Cart struct {
	BaseNoDelete
	UserID *uuid.UUID `db:"user_id"`
}
