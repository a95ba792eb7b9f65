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
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	"go.uber.org/zap"
)

type TwoFactorService interface {
	Setup(ctx context.Context, userID uuid.UUID, req *request.TwoFactorSetupRequest) (*response.TwoFactorSetupResponse, error)
	Confirm(ctx context.Context, userID uuid.UUID, req *request.TwoFactorConfirmRequest) (*response.TwoFactorConfirmResponse, error)
	Status(ctx context.Context, userID uuid.UUID) (*response.TwoFactorStatusResponse, error)
	Disable(ctx context.Context, userID uuid.UUID, req *request.TwoFactorDisableRequest) error
	RegenerateBackupCodes(ctx context.Context, userID uuid.UUID, req *request.TwoFactorDisableRequest) (*response.TwoFactorConfirmResponse, error)
	VerifyChallenge(ctx context.Context, req *request.TwoFactorVerifyRequest) (*LoginOutcome, error)
}

type twoFactorService struct {
	tokenIssuer
}

func NewTwoFactorService(
	repo *repository.Repository,
	challenges challenge.Store,
	config *utils.Config,
	log *zap.Logger,
) TwoFactorService {
	return &twoFactorService{
		tokenIssuer: tokenIssuer{
			repo:       repo,
			challenges: challenges,
			config:     config,
			log:        log.With(zap.String("service", "twofactor")),
		},
	}
}

func (s *twoFactorService) Setup(ctx context.Context, userID uuid.UUID, req *request.TwoFactorSetupRequest) (*response.TwoFactorSetupResponse, error) {
	// 1. Validate
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	// 2. Refuse when an authenticator is already confirmed
	confirmed, err := s.repo.TOTPDevice.FindConfirmedByUserID(ctx, userID)
	if err != nil {
		s.log.Error("Failed to check authenticator", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to check authenticator")
	}
	if confirmed != nil {
		return nil, fmt.Errorf("two-factor already enabled")
	}

	// 3. Load the account for the otpauth label
	user, err := s.repo.User.FindByID(ctx, userID)
	if err != nil || user == nil {
		s.log.Error("Failed to find user for setup", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("user not found")
	}

	// 4. Generate a fresh secret
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      s.config.TOTP.Issuer,
		AccountName: user.Email,
	})
	if err != nil {
		s.log.Error("Failed to generate TOTP secret", zap.Error(err))
		return nil, fmt.Errorf("failed to generate secret")
	}

	deviceName := req.DeviceName
	if deviceName == "" {
		deviceName = "authenticator"
	}

	// 5. Replace any earlier unconfirmed attempt
	pending, err := s.repo.TOTPDevice.FindPendingByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check authenticator")
	}
	if pending != nil {
		if err := s.repo.TOTPDevice.DeleteAllForUser(ctx, userID); err != nil {
			s.log.Warn("Failed to clear pending devices", zap.Error(err), zap.String("user_id", userID.String()))
		}
	}

	now := time.Now()
	device := &entity.TOTPDevice{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		UserID:    userID,
		Name:      deviceName,
		Secret:    key.Secret(),
		Confirmed: false,
	}

	if err := s.repo.TOTPDevice.Create(ctx, device); err != nil {
		s.log.Error("Failed to save TOTP device", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to save authenticator")
	}

	s.log.Info("TOTP setup started", zap.String("user_id", userID.String()))

	return &response.TwoFactorSetupResponse{
		Secret:     key.Secret(),
		OTPAuthURL: key.URL(),
		DeviceName: deviceName,
	}, nil
}

func (s *twoFactorService) Confirm(ctx context.Context, userID uuid.UUID, req *request.TwoFactorConfirmRequest) (*response.TwoFactorConfirmResponse, error) {
	// 1. Validate
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	// 2. Find the pending device
	device, err := s.repo.TOTPDevice.FindPendingByUserID(ctx, userID)
	if err != nil {
		s.log.Error("Failed to find pending device", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to check authenticator")
	}
	if device == nil {
		return nil, fmt.Errorf("no pending authenticator setup")
	}

	// 3. The first valid code proves the user scanned the secret
	if !s.validateCode(req.Code, device.Secret) {
		s.log.Warn("Wrong confirmation code", zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("invalid authenticator code")
	}

	if err := s.repo.TOTPDevice.Confirm(ctx, device.ID); err != nil {
		s.log.Error("Failed to confirm device", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to enable two-factor")
	}

	// 4. Issue backup codes alongside, plaintext returned exactly once
	plainCodes, err := s.issueBackupCodes(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.log.Info("Two-factor enabled", zap.String("user_id", userID.String()))

	return &response.TwoFactorConfirmResponse{
		Confirmed:   true,
		BackupCodes: plainCodes,
	}, nil
}

func (s *twoFactorService) Status(ctx context.Context, userID uuid.UUID) (*response.TwoFactorStatusResponse, error) {
	device, err := s.repo.TOTPDevice.FindConfirmedByUserID(ctx, userID)
	if err != nil {
		s.log.Error("Failed to check authenticator", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to check authenticator")
	}

	resp := &response.TwoFactorStatusResponse{}
	if device == nil {
		return resp, nil
	}

	resp.Enabled = true
	resp.DeviceName = device.Name

	count, err := s.repo.BackupCode.CountForUser(ctx, userID)
	if err != nil {
		s.log.Warn("Failed to count backup codes", zap.Error(err), zap.String("user_id", userID.String()))
	} else {
		resp.BackupCodesRemaining = count
	}

	return resp, nil
}

func (s *twoFactorService) Disable(ctx context.Context, userID uuid.UUID, req *request.TwoFactorDisableRequest) error {
	// 1. Validate
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	// 2. Disabling needs proof of the factor itself
	device, err := s.repo.TOTPDevice.FindConfirmedByUserID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to disable two-factor")
	}
	if device == nil {
		return fmt.Errorf("two-factor not enabled")
	}

	ok, err := s.checkSecondFactor(ctx, userID, device.Secret, req.Code)
	if err != nil {
		return fmt.Errorf("failed to disable two-factor")
	}
	if !ok {
		s.log.Warn("Wrong code on two-factor disable", zap.String("user_id", userID.String()))
		return fmt.Errorf("invalid two-factor code")
	}

	// 3. Drop devices and backup codes together
	if err := s.repo.TOTPDevice.DeleteAllForUser(ctx, userID); err != nil {
		s.log.Error("Failed to delete devices", zap.Error(err), zap.String("user_id", userID.String()))
		return fmt.Errorf("failed to disable two-factor")
	}
	if err := s.repo.BackupCode.DeleteAllForUser(ctx, userID); err != nil {
		s.log.Error("Failed to delete backup codes", zap.Error(err), zap.String("user_id", userID.String()))
		return fmt.Errorf("failed to disable two-factor")
	}

	s.log.Info("Two-factor disabled", zap.String("user_id", userID.String()))
	return nil
}

func (s *twoFactorService) RegenerateBackupCodes(ctx context.Context, userID uuid.UUID, req *request.TwoFactorDisableRequest) (*response.TwoFactorConfirmResponse, error) {
	// 1. Validate
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	// 2. Only meaningful with an active authenticator
	device, err := s.repo.TOTPDevice.FindConfirmedByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check authenticator")
	}
	if device == nil {
		return nil, fmt.Errorf("two-factor not enabled")
	}

	// 3. Same bar as disabling, the factor itself. A backup code spent
	// here is moot since the whole set is replaced anyway.
	ok, err := s.checkSecondFactor(ctx, userID, device.Secret, req.Code)
	if err != nil {
		return nil, fmt.Errorf("failed to regenerate backup codes")
	}
	if !ok {
		return nil, fmt.Errorf("invalid two-factor code")
	}

	plainCodes, err := s.issueBackupCodes(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.log.Info("Backup codes regenerated", zap.String("user_id", userID.String()))

	return &response.TwoFactorConfirmResponse{
		Confirmed:   true,
		BackupCodes: plainCodes,
	}, nil
}

func (s *twoFactorService) VerifyChallenge(ctx context.Context, req *request.TwoFactorVerifyRequest) (*LoginOutcome, error) {
	// 1. Validate
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	// 2. Consume the pending challenge. One shot: a wrong code means
	// restarting the login from the first factor.
	pending, err := s.challenges.Consume(ctx, req.ChallengeToken)
	if err != nil {
		return nil, fmt.Errorf("failed to verify challenge")
	}
	if pending == nil {
		return nil, fmt.Errorf("invalid or expired challenge")
	}

	// 3. The claimed user must match the challenged one before any code
	// is even looked at
	claimedID, err := uuid.Parse(req.UserID)
	if err != nil || claimedID != pending.UserID {
		s.log.Warn("Challenge user mismatch",
			zap.String("claimed", req.UserID),
			zap.String("expected", pending.UserID.String()))
		return nil, fmt.Errorf("invalid or expired challenge")
	}

	// 4. Load user and device
	user, err := s.repo.User.FindByID(ctx, pending.UserID)
	if err != nil || user == nil || !user.IsActive {
		return nil, fmt.Errorf("invalid or expired challenge")
	}

	device, err := s.repo.TOTPDevice.FindConfirmedByUserID(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to verify challenge")
	}

	// 5. Authenticator code first, backup code as fallback
	secret := ""
	if device != nil {
		secret = device.Secret
	}
	verified, err := s.checkSecondFactor(ctx, user.ID, secret, req.Code)
	if err != nil {
		return nil, fmt.Errorf("failed to verify challenge")
	}

	if !verified {
		s.log.Warn("Wrong two-factor code", zap.String("user_id", user.ID.String()))
		return nil, fmt.Errorf("invalid two-factor code")
	}

	// 6. Second factor satisfied, finish the login
	auth, err := s.completeLogin(ctx, user)
	if err != nil {
		return nil, err
	}

	s.log.Info("Challenge verified",
		zap.String("user_id", user.ID.String()),
		zap.String("provider", pending.Provider))

	return &LoginOutcome{Auth: auth}, nil
}

// ==================== HELPER METHODS ====================

// checkSecondFactor tries the authenticator code first and falls back
// to consuming a backup code. The backup code is spent even when the
// caller later fails for another reason.
func (s *twoFactorService) checkSecondFactor(ctx context.Context, userID uuid.UUID, secret, code string) (bool, error) {
	if secret != "" && s.validateCode(code, secret) {
		return true, nil
	}

	consumed, err := s.repo.BackupCode.Consume(ctx, userID, utils.HashCode(code))
	if err != nil {
		return false, err
	}
	if consumed {
		s.log.Info("Backup code used", zap.String("user_id", userID.String()))
	}
	return consumed, nil
}

// validateCode accepts the adjacent time steps as well so a code typed
// right at a window boundary still works.
func (s *twoFactorService) validateCode(code, secret string) bool {
	ok, err := totp.ValidateCustom(code, secret, time.Now(), totp.ValidateOpts{
		Period:    30,
		Skew:      1,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	return err == nil && ok
}

// issueBackupCodes replaces any existing set with a fresh one.
func (s *twoFactorService) issueBackupCodes(ctx context.Context, userID uuid.UUID) ([]string, error) {
	if err := s.repo.BackupCode.DeleteAllForUser(ctx, userID); err != nil {
		s.log.Error("Failed to clear old backup codes", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to issue backup codes")
	}

	plainCodes, hashes, err := utils.GenerateBackupCodes(s.config.TOTP.BackupCodeCount)
	if err != nil {
		s.log.Error("Failed to generate backup codes", zap.Error(err))
		return nil, fmt.Errorf("failed to issue backup codes")
	}

	now := time.Now()
	codes := make([]*entity.BackupCode, 0, len(hashes))
	for _, hash := range hashes {
		codes = append(codes, &entity.BackupCode{
			BaseSimple: entity.BaseSimple{
				ID:        uuid.New(),
				CreatedAt: now,
			},
			UserID:   userID,
			CodeHash: hash,
		})
	}

	if err := s.repo.BackupCode.CreateBatch(ctx, codes); err != nil {
		s.log.Error("Failed to save backup codes", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to issue backup codes")
	}

	return plainCodes, nil
}
