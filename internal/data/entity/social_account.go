package entity

import "github.com/google/uuid"

type SocialProvider string

const (
	ProviderGoogle   SocialProvider = "google"
	ProviderFacebook SocialProvider = "facebook"
)

// SocialAccount links a user to a provider identity, unique per (provider, uid)
type SocialAccount struct {
	BaseSimple
	UserID      uuid.UUID      `db:"user_id"`
	Provider    SocialProvider `db:"provider"`
	ProviderUID string         `db:"provider_uid"`
}
