package usecase

import (
	"context"
	"fmt"
	"time"

	"mini-ecom/internal/challenge"
	"mini-ecom/internal/client/sms"
	"mini-ecom/internal/data/entity"
	"mini-ecom/internal/data/repository"
	"mini-ecom/internal/dto/request"
	"mini-ecom/internal/dto/response"
	"mini-ecom/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const phoneCodeTTL = 10 * time.Minute

type PhoneService interface {
	SendCode(ctx context.Context, userID uuid.UUID, req *request.SendPhoneCodeRequest) (*response.PhoneCodeSentResponse, error)
	Verify(ctx context.Context, userID uuid.UUID, req *request.VerifyPhoneRequest) error
	Status(ctx context.Context, userID uuid.UUID) (*response.PhoneStatusResponse, error)
	Remove(ctx context.Context, userID uuid.UUID) error
}

type phoneService struct {
	repo    *repository.Repository
	limiter challenge.RateLimiter
	sender  sms.Sender
	config  *utils.Config
	log     *zap.Logger
}

func NewPhoneService(
	repo *repository.Repository,
	limiter challenge.RateLimiter,
	sender sms.Sender,
	config *utils.Config,
	log *zap.Logger,
) PhoneService {
	return &phoneService{
		repo:    repo,
		limiter: limiter,
		sender:  sender,
		config:  config,
		log:     log.With(zap.String("service", "phone")),
	}
}

func (s *phoneService) SendCode(ctx context.Context, userID uuid.UUID, req *request.SendPhoneCodeRequest) (*response.PhoneCodeSentResponse, error) {
	// 1. Validate
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	// 2. Cap sends per number per hour. Keying by phone keeps one
	// account from spraying codes across many numbers.
	allowed, err := s.limiter.Allow(ctx, "sms:send:"+req.Phone, s.config.SMS.MaxSendsPerHour, time.Hour)
	if err != nil {
		return nil, fmt.Errorf("failed to send code")
	}
	if !allowed {
		s.log.Warn("SMS send rate limited", zap.String("phone", req.Phone))
		return nil, fmt.Errorf("too many codes requested, try again later")
	}

	// 3. A number verified by someone else cannot be claimed
	owner, err := s.repo.User.FindByVerifiedPhone(ctx, req.Phone)
	if err != nil {
		return nil, fmt.Errorf("failed to send code")
	}
	if owner != nil && owner.ID != userID {
		return nil, fmt.Errorf("phone number already in use")
	}

	// 4. Store the hashed code for the verify step
	code := utils.GenerateOTP(s.config.OTP.Length)
	now := time.Now()
	verification := &entity.PhoneVerification{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: now,
		},
		UserID:    userID,
		Phone:     req.Phone,
		CodeHash:  utils.HashCode(code),
		ExpiresAt: now.Add(phoneCodeTTL),
	}

	if err := s.repo.PhoneVerification.Create(ctx, verification); err != nil {
		s.log.Error("Failed to save phone verification",
			zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to send code")
	}

	// 5. Deliver via the gateway
	if err := s.sender.SendCode(ctx, req.Phone, code); err != nil {
		s.log.Error("Failed to send SMS",
			zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to send code")
	}

	s.log.Info("Phone code sent",
		zap.String("user_id", userID.String()),
		zap.String("phone", req.Phone))

	return &response.PhoneCodeSentResponse{
		Phone:     req.Phone,
		ExpiresIn: int(phoneCodeTTL.Seconds()),
	}, nil
}

func (s *phoneService) Verify(ctx context.Context, userID uuid.UUID, req *request.VerifyPhoneRequest) error {
	// 1. Validate
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	// 2. Cap verify attempts per number per minute
	allowed, err := s.limiter.Allow(ctx, "sms:verify:"+req.Phone, s.config.SMS.MaxVerifyPerMin, time.Minute)
	if err != nil {
		return fmt.Errorf("failed to verify code")
	}
	if !allowed {
		s.log.Warn("Phone verify rate limited", zap.String("phone", req.Phone))
		return fmt.Errorf("too many attempts, try again later")
	}

	// 3. Load the latest verification for this number
	verification, err := s.repo.PhoneVerification.FindLatest(ctx, userID, req.Phone)
	if err != nil {
		return fmt.Errorf("failed to verify code")
	}
	if verification == nil || verification.VerifiedAt != nil {
		return fmt.Errorf("no pending verification for this number")
	}
	if verification.IsExpired() {
		return fmt.Errorf("code expired, request a new one")
	}
	if verification.AttemptsExhausted() {
		return fmt.Errorf("too many attempts, request a new code")
	}

	// 4. Count the attempt before judging it
	if err := s.repo.PhoneVerification.IncrementAttempts(ctx, verification.ID); err != nil {
		s.log.Warn("Failed to record verify attempt", zap.Error(err))
	}

	// 5. Compare hashes
	if !utils.MatchesCodeHash(req.Code, verification.CodeHash) {
		s.log.Warn("Wrong phone code", zap.String("user_id", userID.String()))
		return fmt.Errorf("invalid code")
	}

	if err := s.repo.PhoneVerification.MarkVerified(ctx, verification.ID); err != nil {
		s.log.Error("Failed to mark verification", zap.Error(err))
		return fmt.Errorf("failed to verify code")
	}

	// 6. Attach the verified number to the account
	user, err := s.repo.User.FindByID(ctx, userID)
	if err != nil || user == nil {
		return fmt.Errorf("user not found")
	}

	user.Phone = &verification.Phone
	user.PhoneVerified = true
	user.UpdatedAt = time.Now()
	if err := s.repo.User.Update(ctx, user); err != nil {
		s.log.Error("Failed to save verified phone",
			zap.Error(err), zap.String("user_id", userID.String()))
		return fmt.Errorf("failed to verify code")
	}

	s.log.Info("Phone verified",
		zap.String("user_id", userID.String()),
		zap.String("phone", verification.Phone))

	return nil
}

func (s *phoneService) Status(ctx context.Context, userID uuid.UUID) (*response.PhoneStatusResponse, error) {
	user, err := s.repo.User.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user")
	}
	if user == nil {
		return nil, fmt.Errorf("user not found")
	}

	return &response.PhoneStatusResponse{
		Phone:    user.Phone,
		Verified: user.PhoneVerified,
	}, nil
}

func (s *phoneService) Remove(ctx context.Context, userID uuid.UUID) error {
	user, err := s.repo.User.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to find user")
	}
	if user == nil {
		return fmt.Errorf("user not found")
	}
	if user.Phone == nil {
		return fmt.Errorf("no phone number on account")
	}

	user.Phone = nil
	user.PhoneVerified = false
	user.UpdatedAt = time.Now()
	if err := s.repo.User.Update(ctx, user); err != nil {
		s.log.Error("Failed to remove phone",
			zap.Error(err), zap.String("user_id", userID.String()))
		return fmt.Errorf("failed to remove phone")
	}

	s.log.Info("Phone removed", zap.String("user_id", userID.String()))
	return nil
}
