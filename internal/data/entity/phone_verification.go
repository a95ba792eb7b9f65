package entity

import (
	"time"

	"github.com/google/uuid"
)

const PhoneVerificationMaxAttempts = 5

// PhoneVerification is the DB audit record behind the Redis fast path
type PhoneVerification struct {
	BaseSimple
	UserID     uuid.UUID  `db:"user_id"`
	Phone      string     `db:"phone"`
	CodeHash   string     `db:"code_hash"`
	Attempts   int        `db:"attempts"`
	ExpiresAt  time.Time  `db:"expires_at"`
	VerifiedAt *time.Time `db:"verified_at"`
}

func (v *PhoneVerification) IsExpired() bool {
	return time.Now().After(v.ExpiresAt)
}

func (v *PhoneVerification) AttemptsExhausted() bool {
	return v.Attempts >= PhoneVerificationMaxAttempts
}
