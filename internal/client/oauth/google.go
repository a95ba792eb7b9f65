// Package oauth verifies third party identity tokens for social login.
package oauth

import (
	"context"
	"fmt"

	"mini-ecom/pkg/utils"

	"go.uber.org/zap"
	"google.golang.org/api/idtoken"
)

// Identity is the provider-agnostic result of a verified social token.
type Identity struct {
	UID           string
	Email         string
	Name          string
	EmailVerified bool
}

type GoogleVerifier interface {
	Verify(ctx context.Context, idToken string) (*Identity, error)
}

type googleVerifier struct {
	clientID string
	log      *zap.Logger
}

func NewGoogleVerifier(config utils.OAuthConfig, log *zap.Logger) GoogleVerifier {
	return &googleVerifier{
		clientID: config.GoogleClientID,
		log:      log.With(zap.String("client", "google_oauth")),
	}
}

func (v *googleVerifier) Verify(ctx context.Context, token string) (*Identity, error) {
	payload, err := idtoken.Validate(ctx, token, v.clientID)
	if err != nil {
		v.log.Warn("Google ID token rejected", zap.Error(err))
		return nil, fmt.Errorf("invalid google token: %w", err)
	}

	identity := &Identity{
		UID: payload.Subject,
	}

	if email, ok := payload.Claims["email"].(string); ok {
		identity.Email = email
	}
	if name, ok := payload.Claims["name"].(string); ok {
		identity.Name = name
	}
	if verified, ok := payload.Claims["email_verified"].(bool); ok {
		identity.EmailVerified = verified
	}

	if identity.Email == "" {
		return nil, fmt.Errorf("google token carries no email claim")
	}

	return identity, nil
}
