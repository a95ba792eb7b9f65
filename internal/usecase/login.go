package usecase

import (
	"context"
	"fmt"
	"time"

	"mini-ecom/internal/challenge"
	"mini-ecom/internal/data/entity"
	"mini-ecom/internal/data/repository"
	"mini-ecom/internal/dto/response"
	"mini-ecom/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LoginOutcome is the result of any first-factor check. Exactly one of
// Auth and Challenge is set: Auth when the user is fully signed in,
// Challenge when a confirmed authenticator still has to be satisfied.
type LoginOutcome struct {
	Auth      *response.AuthResponse
	Challenge *response.ChallengeResponse
}

func (o *LoginOutcome) ChallengeRequired() bool {
	return o.Challenge != nil
}

// tokenIssuer holds the login finishing logic shared by password,
// social, and challenge verification flows.
type tokenIssuer struct {
	repo       *repository.Repository
	challenges challenge.Store
	config     *utils.Config
	log        *zap.Logger
}

// outcomeFor decides between issuing tokens and parking the login
// behind a challenge. Provider names the first factor that passed.
func (t *tokenIssuer) outcomeFor(ctx context.Context, user *entity.User, provider string) (*LoginOutcome, error) {
	device, err := t.repo.TOTPDevice.FindConfirmedByUserID(ctx, user.ID)
	if err != nil {
		t.log.Error("Failed to check authenticator",
			zap.Error(err), zap.String("user_id", user.ID.String()))
		return nil, fmt.Errorf("failed to check authenticator")
	}

	if device == nil {
		auth, err := t.completeLogin(ctx, user)
		if err != nil {
			return nil, err
		}
		return &LoginOutcome{Auth: auth}, nil
	}

	ttl := time.Duration(t.config.TOTP.ChallengeTTLMins) * time.Minute
	token, err := t.challenges.Create(ctx, challenge.Pending{
		UserID:   user.ID,
		Provider: provider,
		IssuedAt: time.Now(),
	})
	if err != nil {
		t.log.Error("Failed to issue login challenge",
			zap.Error(err), zap.String("user_id", user.ID.String()))
		return nil, fmt.Errorf("failed to issue challenge")
	}

	t.log.Info("Login challenge issued",
		zap.String("user_id", user.ID.String()),
		zap.String("provider", provider))

	return &LoginOutcome{
		Challenge: &response.ChallengeResponse{
			ChallengeToken: token,
			UserID:         user.ID.String(),
			ExpiresIn:      int(ttl.Seconds()),
			Message:        "two-factor code required",
		},
	}, nil
}

// completeLogin creates a refresh session and signs an access token.
func (t *tokenIssuer) completeLogin(ctx context.Context, user *entity.User) (*response.AuthResponse, error) {
	session, err := t.createSession(ctx, user.ID)
	if err != nil {
		t.log.Error("Failed to create session",
			zap.Error(err), zap.String("user_id", user.ID.String()))
		return nil, fmt.Errorf("failed to create session")
	}

	accessToken, expiresAt, err := utils.GenerateAccessToken(t.config.JWT, user.ID, user.Email, string(user.Role))
	if err != nil {
		t.log.Error("Failed to sign access token",
			zap.Error(err), zap.String("user_id", user.ID.String()))
		return nil, fmt.Errorf("failed to sign token")
	}

	resp := response.AuthToResponse(user, accessToken, session, expiresAt)
	return &resp, nil
}

func (t *tokenIssuer) createSession(ctx context.Context, userID uuid.UUID) (*entity.Session, error) {
	session := &entity.Session{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
		},
		UserID:    userID,
		Token:     utils.GenerateSessionToken(),
		ExpiresAt: time.Now().Add(30 * 24 * time.Hour),
	}

	if err := t.repo.Session.Create(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}
