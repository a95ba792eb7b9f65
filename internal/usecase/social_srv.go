package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"mini-ecom/internal/challenge"
	"mini-ecom/internal/client/oauth"
	"mini-ecom/internal/data/entity"
	"mini-ecom/internal/data/repository"
	"mini-ecom/internal/dto/request"
	"mini-ecom/internal/dto/response"
	"mini-ecom/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type SocialService interface {
	GoogleLogin(ctx context.Context, req *request.GoogleLoginRequest) (*LoginOutcome, error)
	FacebookLogin(ctx context.Context, req *request.FacebookLoginRequest) (*LoginOutcome, error)
	LinkedAccounts(ctx context.Context, userID uuid.UUID) ([]response.SocialAccountResponse, error)
}

type socialService struct {
	tokenIssuer
	google   oauth.GoogleVerifier
	facebook oauth.FacebookVerifier
}

func NewSocialService(
	repo *repository.Repository,
	challenges challenge.Store,
	google oauth.GoogleVerifier,
	facebook oauth.FacebookVerifier,
	config *utils.Config,
	log *zap.Logger,
) SocialService {
	return &socialService{
		tokenIssuer: tokenIssuer{
			repo:       repo,
			challenges: challenges,
			config:     config,
			log:        log.With(zap.String("service", "social")),
		},
		google:   google,
		facebook: facebook,
	}
}

func (s *socialService) GoogleLogin(ctx context.Context, req *request.GoogleLoginRequest) (*LoginOutcome, error) {
	// 1. Validate
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	// 2. Verify the token with the provider
	identity, err := s.google.Verify(ctx, req.IDToken)
	if err != nil {
		s.log.Warn("Google login rejected", zap.Error(err))
		return nil, fmt.Errorf("invalid social token")
	}

	return s.loginWithIdentity(ctx, entity.ProviderGoogle, identity)
}

func (s *socialService) FacebookLogin(ctx context.Context, req *request.FacebookLoginRequest) (*LoginOutcome, error) {
	// 1. Validate
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	// 2. Verify the token with the provider
	identity, err := s.facebook.Verify(ctx, req.AccessToken)
	if err != nil {
		s.log.Warn("Facebook login rejected", zap.Error(err))
		return nil, fmt.Errorf("invalid social token")
	}

	return s.loginWithIdentity(ctx, entity.ProviderFacebook, identity)
}

func (s *socialService) LinkedAccounts(ctx context.Context, userID uuid.UUID) ([]response.SocialAccountResponse, error) {
	accounts, err := s.repo.SocialAccount.FindAllByUser(ctx, userID)
	if err != nil {
		s.log.Error("Failed to list linked accounts", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to list linked accounts")
	}

	resp := make([]response.SocialAccountResponse, 0, len(accounts))
	for _, account := range accounts {
		resp = append(resp, response.SocialAccountToResponse(account))
	}

	return resp, nil
}

// ==================== HELPER METHODS ====================

// loginWithIdentity resolves a verified provider identity to a local
// user, creating or linking one as needed, then runs the shared
// tokens-or-challenge decision. A social login with an enrolled
// authenticator is challenged exactly like a password login.
func (s *socialService) loginWithIdentity(ctx context.Context, provider entity.SocialProvider, identity *oauth.Identity) (*LoginOutcome, error) {
	// 1. Existing link wins
	account, err := s.repo.SocialAccount.FindByProviderUID(ctx, provider, identity.UID)
	if err != nil {
		return nil, fmt.Errorf("failed to check social account")
	}

	var user *entity.User
	if account != nil {
		user, err = s.repo.User.FindByID(ctx, account.UserID)
		if err != nil {
			return nil, fmt.Errorf("failed to find user")
		}
		if user == nil {
			s.log.Error("Social account points at missing user",
				zap.String("provider", string(provider)),
				zap.String("user_id", account.UserID.String()))
			return nil, fmt.Errorf("failed to find user")
		}
	} else {
		// 2. No link yet: attach to the account with the same verified
		// email, or register a new one
		user, err = s.findOrCreateUser(ctx, identity)
		if err != nil {
			return nil, err
		}

		link := &entity.SocialAccount{
			BaseSimple: entity.BaseSimple{
				ID:        uuid.New(),
				CreatedAt: time.Now(),
			},
			UserID:      user.ID,
			Provider:    provider,
			ProviderUID: identity.UID,
		}
		if err := s.repo.SocialAccount.Create(ctx, link); err != nil {
			s.log.Error("Failed to link social account",
				zap.Error(err), zap.String("user_id", user.ID.String()))
			return nil, fmt.Errorf("failed to link social account")
		}

		s.log.Info("Social account linked",
			zap.String("user_id", user.ID.String()),
			zap.String("provider", string(provider)))
	}

	if !user.IsActive {
		s.log.Warn("Inactive user tried social login", zap.String("user_id", user.ID.String()))
		return nil, fmt.Errorf("account is deactivated")
	}

	// 3. Tokens or challenge
	return s.outcomeFor(ctx, user, string(provider))
}

func (s *socialService) findOrCreateUser(ctx context.Context, identity *oauth.Identity) (*entity.User, error) {
	// Linking by email is only safe when the provider verified it
	if identity.Email != "" && identity.EmailVerified {
		user, err := s.repo.User.FindByEmail(ctx, identity.Email)
		if err != nil {
			return nil, fmt.Errorf("failed to find user")
		}
		if user != nil {
			return user, nil
		}
	}

	if identity.Email == "" {
		return nil, fmt.Errorf("social profile has no email")
	}

	// Register a new account. The password slot gets an unguessable
	// random value; the user can set a real one via password reset.
	randomPassword, err := utils.HashPassword(uuid.New().String())
	if err != nil {
		return nil, fmt.Errorf("failed to create account")
	}

	now := time.Now()
	displayName := identity.Name
	user := &entity.User{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Username:      s.usernameFromEmail(ctx, identity.Email),
		Email:         identity.Email,
		PasswordHash:  randomPassword,
		Role:          entity.RoleCustomer,
		EmailVerified: identity.EmailVerified,
		IsActive:      true,
	}
	if displayName != "" {
		user.DisplayName = &displayName
	}

	if err := s.repo.User.Create(ctx, user); err != nil {
		s.log.Error("Failed to create user from social login",
			zap.Error(err), zap.String("email", identity.Email))
		return nil, fmt.Errorf("failed to create account")
	}

	s.log.Info("User registered via social login",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email))

	return user, nil
}

// usernameFromEmail derives a free username from the email local part,
// suffixing a counter on collision.
func (s *socialService) usernameFromEmail(ctx context.Context, email string) string {
	base := email
	if at := strings.Index(email, "@"); at > 0 {
		base = email[:at]
	}

	candidate := base
	for i := 1; i <= 20; i++ {
		existing, err := s.repo.User.FindByUsername(ctx, candidate)
		if err != nil || existing == nil {
			return candidate
		}
		candidate = fmt.Sprintf("%s%d", base, i)
	}

	// Collision storm, fall back to something certainly unique
	return base + "-" + uuid.New().String()[:8]
}
