package usecase

import (
	"context"
	"fmt"
	"time"

	"mini-ecom/internal/challenge"
	"mini-ecom/internal/data/entity"
	"mini-ecom/internal/data/repository"
	"mini-ecom/internal/dto/request"
	"mini-ecom/internal/dto/response"
	"mini-ecom/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AuthService interface {
	Register(ctx context.Context, req *request.RegisterRequest) (*response.UserResponse, error)
	Login(ctx context.Context, req *request.LoginRequest) (*LoginOutcome, error)
	Refresh(ctx context.Context, req *request.RefreshRequest) (*LoginOutcome, error)
	Logout(ctx context.Context, req *request.LogoutRequest) error
	LogoutAll(ctx context.Context, userID uuid.UUID) error
	VerifyEmail(ctx context.Context, req *request.VerifyEmailRequest) error
	ResendVerification(ctx context.Context, req *request.ResendVerificationRequest) error
	ForgotPassword(ctx context.Context, req *request.ForgotPasswordRequest) error
	ResetPassword(ctx context.Context, req *request.ResetPasswordRequest) error
	ChangePassword(ctx context.Context, userID uuid.UUID, req *request.ChangePasswordRequest) error
}

type authService struct {
	tokenIssuer
}

func NewAuthService(
	repo *repository.Repository,
	challenges challenge.Store,
	config *utils.Config,
	log *zap.Logger,
) AuthService {
	return &authService{
		tokenIssuer: tokenIssuer{
			repo:       repo,
			challenges: challenges,
			config:     config,
			log:        log.With(zap.String("service", "auth")),
		},
	}
}

func (s *authService) Register(ctx context.Context, req *request.RegisterRequest) (*response.UserResponse, error) {
	// 1. Validate input
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Register validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	// 2. Check email already registered
	existingUser, err := s.repo.User.FindByEmail(ctx, req.Email)
	if err != nil {
		s.log.Error("Failed to check email", zap.Error(err), zap.String("email", req.Email))
		return nil, fmt.Errorf("failed to check email")
	}
	if existingUser != nil {
		return nil, fmt.Errorf("email already registered")
	}

	// 3. Check username already taken
	existingUser, err = s.repo.User.FindByUsername(ctx, req.Username)
	if err != nil {
		s.log.Error("Failed to check username", zap.Error(err), zap.String("username", req.Username))
		return nil, fmt.Errorf("failed to check username")
	}
	if existingUser != nil {
		return nil, fmt.Errorf("username already taken")
	}

	// 4. Hash password
	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		s.log.Error("Failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("failed to process password")
	}

	// 5. Create user entity
	now := time.Now()
	user := &entity.User{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Username:      req.Username,
		Email:         req.Email,
		PasswordHash:  hashedPassword,
		Role:          entity.RoleCustomer,
		EmailVerified: false,
		IsActive:      true,
	}

	// 6. Save user
	if err := s.repo.User.Create(ctx, user); err != nil {
		s.log.Error("Failed to create user", zap.Error(err), zap.String("email", req.Email))
		return nil, fmt.Errorf("failed to create account")
	}

	// 7. Send verification code. No tokens yet: the account cannot log
	// in until the address is confirmed.
	go s.sendEmailCode(user, user.Email, entity.OTPTypeEmailVerification)

	s.log.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email))

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (s *authService) Login(ctx context.Context, req *request.LoginRequest) (*LoginOutcome, error) {
	// 1. Validate
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Login validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	// 2. Resolve the account, email first then username
	var user *entity.User
	var err error
	if req.Email != "" {
		user, err = s.repo.User.FindByEmail(ctx, req.Email)
		if err != nil {
			s.log.Error("Failed to find user by email", zap.Error(err), zap.String("email", req.Email))
			return nil, fmt.Errorf("failed to find user")
		}
	}
	if user == nil && req.Username != "" {
		user, err = s.repo.User.FindByUsername(ctx, req.Username)
		if err != nil {
			s.log.Error("Failed to find user by username", zap.Error(err), zap.String("username", req.Username))
			return nil, fmt.Errorf("failed to find user")
		}
	}
	if user == nil {
		s.log.Warn("User not found for login", zap.String("email", req.Email))
		return nil, fmt.Errorf("invalid credentials")
	}

	// 3. Check password
	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		s.log.Warn("Invalid password", zap.String("user_id", user.ID.String()))
		return nil, fmt.Errorf("invalid credentials")
	}

	// 4. No session until the email address is confirmed
	if !user.EmailVerified {
		s.log.Warn("Unverified email tried to login", zap.String("user_id", user.ID.String()))
		return nil, fmt.Errorf("please verify your email before logging in")
	}

	// 5. Check if user is active
	if !user.IsActive {
		s.log.Warn("Inactive user tried to login", zap.String("user_id", user.ID.String()))
		return nil, fmt.Errorf("account is deactivated")
	}

	// 6. Tokens or challenge, depending on enrolled authenticator
	outcome, err := s.outcomeFor(ctx, user, "password")
	if err != nil {
		return nil, err
	}

	if !outcome.ChallengeRequired() {
		s.log.Info("User logged in",
			zap.String("user_id", user.ID.String()),
			zap.String("username", user.Username))
	}

	return outcome, nil
}

func (s *authService) Refresh(ctx context.Context, req *request.RefreshRequest) (*LoginOutcome, error) {
	// 1. Validate
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	// 2. Look up the session
	session, err := s.repo.Session.FindValidSession(ctx, req.RefreshToken)
	if err != nil {
		s.log.Error("Failed to find session", zap.Error(err))
		return nil, fmt.Errorf("failed to find session")
	}
	if session == nil {
		return nil, fmt.Errorf("invalid or expired refresh token")
	}

	// 3. Load the user behind it
	user, err := s.repo.User.FindByID(ctx, session.UserID)
	if err != nil {
		s.log.Error("Failed to load user for refresh",
			zap.Error(err), zap.String("user_id", session.UserID.String()))
		return nil, fmt.Errorf("failed to find user")
	}
	if user == nil || !user.IsActive {
		return nil, fmt.Errorf("account is deactivated")
	}

	// 4. Rotate: revoke the old session, issue a new pair. The second
	// factor was already satisfied when this session was created.
	if err := s.repo.Session.Revoke(ctx, req.RefreshToken); err != nil {
		s.log.Warn("Failed to revoke session on refresh", zap.Error(err))
	}

	auth, err := s.completeLogin(ctx, user)
	if err != nil {
		return nil, err
	}

	return &LoginOutcome{Auth: auth}, nil
}

func (s *authService) Logout(ctx context.Context, req *request.LogoutRequest) error {
	// 1. Validate
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	// 2. Revoke session
	if err := s.repo.Session.Revoke(ctx, req.RefreshToken); err != nil {
		s.log.Error("Failed to revoke session", zap.Error(err))
		return fmt.Errorf("failed to logout")
	}

	s.log.Info("User logged out")
	return nil
}

func (s *authService) LogoutAll(ctx context.Context, userID uuid.UUID) error {
	if err := s.repo.Session.RevokeAllUserSessions(ctx, userID); err != nil {
		s.log.Error("Failed to revoke all sessions",
			zap.Error(err), zap.String("user_id", userID.String()))
		return fmt.Errorf("failed to logout")
	}

	s.log.Info("All sessions revoked", zap.String("user_id", userID.String()))
	return nil
}

func (s *authService) VerifyEmail(ctx context.Context, req *request.VerifyEmailRequest) error {
	// 1. Validate
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Verify email validation failed", zap.Any("errors", errs))
		return fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	// 2. Find valid code by hash
	otp, err := s.repo.OTP.FindValidOTP(ctx, req.Email, utils.HashCode(req.Code), string(entity.OTPTypeEmailVerification))
	if err != nil {
		s.log.Error("Failed to find OTP", zap.Error(err), zap.String("email", req.Email))
		return fmt.Errorf("failed to verify code")
	}
	if otp == nil {
		return fmt.Errorf("invalid or expired code")
	}

	// 3. Mark code as used
	if err := s.repo.OTP.MarkAsUsed(ctx, otp.ID); err != nil {
		s.log.Warn("Failed to mark OTP as used", zap.Error(err), zap.String("otp_id", otp.ID.String()))
		// Continue anyway
	}

	// 4. Find user
	user, err := s.repo.User.FindByEmail(ctx, req.Email)
	if err != nil || user == nil {
		s.log.Error("User not found for verification", zap.Error(err), zap.String("email", req.Email))
		return fmt.Errorf("user not found")
	}

	// 5. Update verification status
	user.EmailVerified = true
	user.UpdatedAt = time.Now()

	if err := s.repo.User.Update(ctx, user); err != nil {
		s.log.Error("Failed to update user verification",
			zap.Error(err), zap.String("user_id", user.ID.String()))
		return fmt.Errorf("failed to verify email")
	}

	s.log.Info("Email verified",
		zap.String("email", req.Email),
		zap.String("user_id", user.ID.String()))

	return nil
}

// ResendVerification reports success whether or not the address exists
// so the endpoint cannot be used to probe for accounts.
func (s *authService) ResendVerification(ctx context.Context, req *request.ResendVerificationRequest) error {
	// 1. Validate
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	// 2. Find user, silently stop on miss
	user, err := s.repo.User.FindByEmail(ctx, req.Email)
	if err != nil {
		s.log.Error("Failed to find user for resend", zap.Error(err), zap.String("email", req.Email))
		return nil
	}
	if user == nil || user.EmailVerified {
		return nil
	}

	// 3. Send a fresh code
	return s.sendEmailCode(user, user.Email, entity.OTPTypeEmailVerification)
}

// ForgotPassword always reports success, same reasoning as resend.
func (s *authService) ForgotPassword(ctx context.Context, req *request.ForgotPasswordRequest) error {
	// 1. Validate
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	// 2. Find user, silently stop on miss
	user, err := s.repo.User.FindByEmail(ctx, req.Email)
	if err != nil {
		s.log.Error("Failed to find user for password reset", zap.Error(err), zap.String("email", req.Email))
		return nil
	}
	if user == nil {
		return nil
	}

	// 3. Send reset code
	return s.sendEmailCode(user, user.Email, entity.OTPTypePasswordReset)
}

func (s *authService) ResetPassword(ctx context.Context, req *request.ResetPasswordRequest) error {
	// 1. Validate
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	// 2. Find valid code
	otp, err := s.repo.OTP.FindValidOTP(ctx, req.Email, utils.HashCode(req.Code), string(entity.OTPTypePasswordReset))
	if err != nil {
		s.log.Error("Failed to find reset OTP", zap.Error(err), zap.String("email", req.Email))
		return fmt.Errorf("failed to verify code")
	}
	if otp == nil {
		return fmt.Errorf("invalid or expired code")
	}

	if err := s.repo.OTP.MarkAsUsed(ctx, otp.ID); err != nil {
		s.log.Warn("Failed to mark reset OTP as used", zap.Error(err))
	}

	// 3. Find user
	user, err := s.repo.User.FindByEmail(ctx, req.Email)
	if err != nil || user == nil {
		return fmt.Errorf("user not found")
	}

	// 4. Hash and store the new password
	hashedPassword, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		s.log.Error("Failed to hash new password", zap.Error(err))
		return fmt.Errorf("failed to process password")
	}

	user.PasswordHash = hashedPassword
	user.UpdatedAt = time.Now()
	if err := s.repo.User.Update(ctx, user); err != nil {
		s.log.Error("Failed to update password",
			zap.Error(err), zap.String("user_id", user.ID.String()))
		return fmt.Errorf("failed to reset password")
	}

	// 5. A reset invalidates every existing session
	if err := s.repo.Session.RevokeAllUserSessions(ctx, user.ID); err != nil {
		s.log.Warn("Failed to revoke sessions after reset",
			zap.Error(err), zap.String("user_id", user.ID.String()))
	}

	s.log.Info("Password reset", zap.String("user_id", user.ID.String()))
	return nil
}

func (s *authService) ChangePassword(ctx context.Context, userID uuid.UUID, req *request.ChangePasswordRequest) error {
	// 1. Validate
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	// 2. Load user
	user, err := s.repo.User.FindByID(ctx, userID)
	if err != nil {
		s.log.Error("Failed to find user", zap.Error(err), zap.String("user_id", userID.String()))
		return fmt.Errorf("failed to find user")
	}
	if user == nil {
		return fmt.Errorf("user not found")
	}

	// 3. Current password must match
	if !utils.CheckPasswordHash(req.CurrentPassword, user.PasswordHash) {
		s.log.Warn("Wrong current password on change", zap.String("user_id", userID.String()))
		return fmt.Errorf("current password is incorrect")
	}

	// 4. Store the new hash
	hashedPassword, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		s.log.Error("Failed to hash new password", zap.Error(err))
		return fmt.Errorf("failed to process password")
	}

	user.PasswordHash = hashedPassword
	user.UpdatedAt = time.Now()
	if err := s.repo.User.Update(ctx, user); err != nil {
		s.log.Error("Failed to update password", zap.Error(err), zap.String("user_id", userID.String()))
		return fmt.Errorf("failed to change password")
	}

	s.log.Info("Password changed", zap.String("user_id", userID.String()))
	return nil
}

// ==================== HELPER METHODS ====================

// sendEmailCode generates, stores, and delivers a one-time code. Only
// the hash is persisted. Delivery is a structured log line plus console
// print until an email provider is wired.
func (s *authService) sendEmailCode(user *entity.User, email string, otpType entity.OTPType) error {
	ctx := context.Background()

	// Retire older codes so the newest one is the only valid one
	if err := s.repo.OTP.InvalidatePending(ctx, email, string(otpType)); err != nil {
		s.log.Warn("Failed to invalidate pending codes", zap.Error(err), zap.String("email", email))
	}

	code := utils.GenerateOTP(s.config.OTP.Length)
	expiresAt := time.Now().Add(time.Duration(s.config.OTP.ExpiryMinutes) * time.Minute)

	otp := &entity.OTP{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
		},
		UserID:    user.ID,
		Email:     email,
		CodeHash:  utils.HashCode(code),
		OTPType:   otpType,
		ExpiresAt: expiresAt,
		IsUsed:    false,
	}

	if err := s.repo.OTP.Create(ctx, otp); err != nil {
		s.log.Error("Failed to save OTP", zap.Error(err), zap.String("email", email))
		return fmt.Errorf("failed to generate code")
	}

	s.log.Info("Email code generated",
		zap.String("email", email),
		zap.String("otp_type", string(otpType)),
		zap.Time("expires_at", expiresAt),
	)

	// Print to console for development
	fmt.Printf("\n📧 Code for %s (%s): %s (Expires: %s)\n\n",
		email, otpType, code, expiresAt.Format("15:04:05"))

	return nil
}
