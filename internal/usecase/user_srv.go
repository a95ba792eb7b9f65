package usecase

import (
	"context"
	"fmt"
	"time"

	"mini-ecom/internal/data/entity"
	"mini-ecom/internal/data/repository"
	"mini-ecom/internal/dto/request"
	"mini-ecom/internal/dto/response"
	"mini-ecom/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type UserService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*response.UserResponse, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req *request.UpdateProfileRequest) (*response.UserResponse, error)
	ChangeEmail(ctx context.Context, userID uuid.UUID, req *request.ChangeEmailRequest) error
	ConfirmEmailChange(ctx context.Context, userID uuid.UUID, req *request.ConfirmEmailChangeRequest) error
	Deactivate(ctx context.Context, userID uuid.UUID) error
}

type userService struct {
	repo   *repository.Repository
	config *utils.Config
	log    *zap.Logger
}

func NewUserService(repo *repository.Repository, config *utils.Config, log *zap.Logger) UserService {
	return &userService{
		repo:   repo,
		config: config,
		log:    log.With(zap.String("service", "user")),
	}
}

func (s *userService) GetProfile(ctx context.Context, userID uuid.UUID) (*response.UserResponse, error) {
	user, err := s.repo.User.FindByID(ctx, userID)
	if err != nil {
		s.log.Error("Failed to find user", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to find user")
	}
	if user == nil {
		return nil, fmt.Errorf("user not found")
	}

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *request.UpdateProfileRequest) (*response.UserResponse, error) {
	// 1. Validate
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Profile validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	// 2. Load user
	user, err := s.repo.User.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user")
	}
	if user == nil {
		return nil, fmt.Errorf("user not found")
	}

	// 3. Apply only the provided fields
	if req.DisplayName != nil {
		user.DisplayName = req.DisplayName
	}
	if req.FirstName != nil {
		user.FirstName = req.FirstName
	}
	if req.LastName != nil {
		user.LastName = req.LastName
	}
	if req.Bio != nil {
		user.Bio = req.Bio
	}
	if req.Gender != nil {
		user.Gender = req.Gender
	}
	// Birth date is write-once and can never sit in the future
	if req.DateOfBirth != nil {
		if user.DateOfBirth != nil {
			return nil, fmt.Errorf("date of birth cannot be changed once set")
		}
		dob, err := time.Parse("2006-01-02", *req.DateOfBirth)
		if err != nil {
			return nil, fmt.Errorf("invalid date of birth")
		}
		if dob.After(time.Now()) {
			return nil, fmt.Errorf("date of birth cannot be in the future")
		}
		user.DateOfBirth = &dob
	}

	user.UpdatedAt = time.Now()
	if err := s.repo.User.Update(ctx, user); err != nil {
		s.log.Error("Failed to update profile",
			zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to update profile")
	}

	s.log.Info("Profile updated", zap.String("user_id", userID.String()))

	resp := response.UserToResponse(user)
	return &resp, nil
}

// ChangeEmail starts the switch. The current address stays active until
// a code sent to the new address is confirmed.
func (s *userService) ChangeEmail(ctx context.Context, userID uuid.UUID, req *request.ChangeEmailRequest) error {
	// 1. Validate
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	// 2. Load user and recheck the password
	user, err := s.repo.User.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to find user")
	}
	if user == nil {
		return fmt.Errorf("user not found")
	}
	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		s.log.Warn("Wrong password on email change", zap.String("user_id", userID.String()))
		return fmt.Errorf("invalid credentials")
	}

	// 3. The new address must be free
	if req.NewEmail == user.Email {
		return fmt.Errorf("new email matches current email")
	}
	existing, err := s.repo.User.FindByEmail(ctx, req.NewEmail)
	if err != nil {
		return fmt.Errorf("failed to check email")
	}
	if existing != nil {
		return fmt.Errorf("email already registered")
	}

	// 4. Send the code to the NEW address so ownership is proven there
	if err := s.repo.OTP.InvalidatePending(ctx, req.NewEmail, string(entity.OTPTypeEmailChange)); err != nil {
		s.log.Warn("Failed to invalidate pending codes", zap.Error(err))
	}

	code := utils.GenerateOTP(s.config.OTP.Length)
	expiresAt := time.Now().Add(time.Duration(s.config.OTP.ExpiryMinutes) * time.Minute)

	otp := &entity.OTP{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
		},
		UserID:    user.ID,
		Email:     req.NewEmail,
		CodeHash:  utils.HashCode(code),
		OTPType:   entity.OTPTypeEmailChange,
		ExpiresAt: expiresAt,
		IsUsed:    false,
	}

	if err := s.repo.OTP.Create(ctx, otp); err != nil {
		s.log.Error("Failed to save email change code",
			zap.Error(err), zap.String("user_id", userID.String()))
		return fmt.Errorf("failed to start email change")
	}

	s.log.Info("Email change requested",
		zap.String("user_id", userID.String()),
		zap.String("new_email", req.NewEmail))

	// Print to console for development
	fmt.Printf("\n📧 Code for %s (email_change): %s (Expires: %s)\n\n",
		req.NewEmail, code, expiresAt.Format("15:04:05"))

	return nil
}

func (s *userService) ConfirmEmailChange(ctx context.Context, userID uuid.UUID, req *request.ConfirmEmailChangeRequest) error {
	// 1. Validate
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	// 2. Find valid code, keyed by the NEW address
	otp, err := s.repo.OTP.FindValidOTP(ctx, req.NewEmail, utils.HashCode(req.Code), string(entity.OTPTypeEmailChange))
	if err != nil {
		return fmt.Errorf("failed to verify code")
	}
	if otp == nil {
		return fmt.Errorf("invalid or expired code")
	}

	// 3. The code must belong to the caller
	if otp.UserID != userID {
		s.log.Warn("Email change code user mismatch",
			zap.String("claimed", userID.String()),
			zap.String("expected", otp.UserID.String()))
		return fmt.Errorf("invalid or expired code")
	}

	if err := s.repo.OTP.MarkAsUsed(ctx, otp.ID); err != nil {
		s.log.Warn("Failed to mark code as used", zap.Error(err))
	}

	// 4. Address could have been taken between request and confirm
	existing, err := s.repo.User.FindByEmail(ctx, req.NewEmail)
	if err != nil {
		return fmt.Errorf("failed to check email")
	}
	if existing != nil {
		return fmt.Errorf("email already registered")
	}

	// 5. Swap the address. It arrives verified since the code proved
	// ownership.
	user, err := s.repo.User.FindByID(ctx, userID)
	if err != nil || user == nil {
		return fmt.Errorf("user not found")
	}

	oldEmail := user.Email
	user.Email = req.NewEmail
	user.EmailVerified = true
	user.UpdatedAt = time.Now()
	if err := s.repo.User.Update(ctx, user); err != nil {
		s.log.Error("Failed to change email",
			zap.Error(err), zap.String("user_id", userID.String()))
		return fmt.Errorf("failed to change email")
	}

	s.log.Info("Email changed",
		zap.String("user_id", userID.String()),
		zap.String("old_email", oldEmail),
		zap.String("new_email", req.NewEmail))

	return nil
}

func (s *userService) Deactivate(ctx context.Context, userID uuid.UUID) error {
	user, err := s.repo.User.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to find user")
	}
	if user == nil {
		return fmt.Errorf("user not found")
	}

	user.IsActive = false
	user.UpdatedAt = time.Now()
	if err := s.repo.User.Update(ctx, user); err != nil {
		s.log.Error("Failed to deactivate account",
			zap.Error(err), zap.String("user_id", userID.String()))
		return fmt.Errorf("failed to deactivate account")
	}

	// Kill every session along with the account
	if err := s.repo.Session.RevokeAllUserSessions(ctx, userID); err != nil {
		s.log.Warn("Failed to revoke sessions on deactivate",
			zap.Error(err), zap.String("user_id", userID.String()))
	}

	s.log.Info("Account deactivated", zap.String("user_id", userID.String()))
	return nil
}
