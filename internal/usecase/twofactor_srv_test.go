package usecase

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"mini-ecom/internal/data/entity"
	"mini-ecom/internal/dto/request"
	"mini-ecom/pkg/utils"

	"github.com/google/uuid"
	"github.com/pquerna/otp/totp"
)

func currentCode(t *testing.T, secret string) string {
	t.Helper()
	code, err := totp.GenerateCode(secret, time.Now())
	if err != nil {
		t.Fatalf("generate code: %v", err)
	}
	return code
}

// wrongCode picks a 6 digit code outside every window the validator
// accepts with skew 1.
func wrongCode(t *testing.T, secret string) string {
	t.Helper()
	now := time.Now()
	accepted := map[string]bool{}
	for _, offset := range []time.Duration{-30 * time.Second, 0, 30 * time.Second} {
		code, err := totp.GenerateCode(secret, now.Add(offset))
		if err != nil {
			t.Fatalf("generate code: %v", err)
		}
		accepted[code] = true
	}
	for i := 0; i < 10; i++ {
		candidate := fmt.Sprintf("%06d", i)
		if !accepted[candidate] {
			return candidate
		}
	}
	t.Fatal("no unaccepted code found")
	return ""
}

func TestSetupAndConfirmEnablesTwoFactor(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	user := env.addUser("amy@example.com", "amy", "hunter2secret")

	setup, err := env.svc.TwoFactor.Setup(ctx, user.ID, &request.TwoFactorSetupRequest{DeviceName: "phone"})
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	if setup.Secret == "" || setup.OTPAuthURL == "" {
		t.Fatal("setup must return the secret and otpauth url")
	}

	// Not enabled until confirmed
	status, err := env.svc.TwoFactor.Status(ctx, user.ID)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if status.Enabled {
		t.Fatal("unconfirmed device must not count as enabled")
	}

	confirm, err := env.svc.TwoFactor.Confirm(ctx, user.ID, &request.TwoFactorConfirmRequest{
		Code: currentCode(t, setup.Secret),
	})
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if len(confirm.BackupCodes) != env.config.TOTP.BackupCodeCount {
		t.Errorf("backup codes = %d, want %d", len(confirm.BackupCodes), env.config.TOTP.BackupCodeCount)
	}

	status, err = env.svc.TwoFactor.Status(ctx, user.ID)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if !status.Enabled || status.DeviceName != "phone" {
		t.Errorf("status = %+v, want enabled phone device", status)
	}
	if status.BackupCodesRemaining != int64(env.config.TOTP.BackupCodeCount) {
		t.Errorf("remaining = %d, want %d", status.BackupCodesRemaining, env.config.TOTP.BackupCodeCount)
	}
}

func TestConfirmRejectsWrongCode(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	user := env.addUser("amy@example.com", "amy", "hunter2secret")

	setup, err := env.svc.TwoFactor.Setup(ctx, user.ID, &request.TwoFactorSetupRequest{})
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}

	_, err = env.svc.TwoFactor.Confirm(ctx, user.ID, &request.TwoFactorConfirmRequest{
		Code: wrongCode(t, setup.Secret),
	})
	if err == nil || !strings.Contains(err.Error(), "invalid authenticator code") {
		t.Fatalf("expected invalid code error, got %v", err)
	}
}

func TestSetupRefusedWhenAlreadyEnabled(t *testing.T) {
	env := newTestEnv()
	user := env.addUser("amy@example.com", "amy", "hunter2secret")
	env.addConfirmedDevice(user.ID, "JBSWY3DPEHPK3PXP")

	_, err := env.svc.TwoFactor.Setup(context.Background(), user.ID, &request.TwoFactorSetupRequest{})
	if err == nil || !strings.Contains(err.Error(), "already enabled") {
		t.Fatalf("expected already enabled error, got %v", err)
	}
}

func challengedLogin(t *testing.T, env *testEnv, email, password string) string {
	t.Helper()
	outcome, err := env.svc.Auth.Login(context.Background(), &request.LoginRequest{
		Email:    email,
		Password: password,
	})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if !outcome.ChallengeRequired() {
		t.Fatal("expected a challenge")
	}
	return outcome.Challenge.ChallengeToken
}

func TestVerifyChallengeWithAuthenticatorCode(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	user := env.addUser("amy@example.com", "amy", "hunter2secret")

	key, err := totp.Generate(totp.GenerateOpts{Issuer: "test", AccountName: user.Email})
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	env.addConfirmedDevice(user.ID, key.Secret())

	token := challengedLogin(t, env, "amy@example.com", "hunter2secret")

	outcome, err := env.svc.TwoFactor.VerifyChallenge(ctx, &request.TwoFactorVerifyRequest{
		ChallengeToken: token,
		UserID:         user.ID.String(),
		Code:           currentCode(t, key.Secret()),
	})
	if err != nil {
		t.Fatalf("VerifyChallenge: %v", err)
	}
	if outcome.ChallengeRequired() {
		t.Fatal("verified challenge must yield tokens")
	}

	claims, err := utils.ValidateAccessToken(env.config.JWT, outcome.Auth.AccessToken)
	if err != nil || claims.Subject != user.ID.String() {
		t.Fatalf("access token invalid after challenge: %v", err)
	}
}

func TestVerifyChallengeUserMismatchBurnsToken(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	user := env.addUser("amy@example.com", "amy", "hunter2secret")

	key, err := totp.Generate(totp.GenerateOpts{Issuer: "test", AccountName: user.Email})
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	env.addConfirmedDevice(user.ID, key.Secret())

	token := challengedLogin(t, env, "amy@example.com", "hunter2secret")

	// A mismatched user id is rejected even with the right code
	_, err = env.svc.TwoFactor.VerifyChallenge(ctx, &request.TwoFactorVerifyRequest{
		ChallengeToken: token,
		UserID:         uuid.New().String(),
		Code:           currentCode(t, key.Secret()),
	})
	if err == nil || !strings.Contains(err.Error(), "invalid or expired challenge") {
		t.Fatalf("expected challenge rejection, got %v", err)
	}

	// And the mismatch consumed the token, so the real user cannot
	// finish with it either
	_, err = env.svc.TwoFactor.VerifyChallenge(ctx, &request.TwoFactorVerifyRequest{
		ChallengeToken: token,
		UserID:         user.ID.String(),
		Code:           currentCode(t, key.Secret()),
	})
	if err == nil || !strings.Contains(err.Error(), "invalid or expired challenge") {
		t.Fatalf("token must be single-use, got %v", err)
	}
}

func TestVerifyChallengeWrongCode(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	user := env.addUser("amy@example.com", "amy", "hunter2secret")

	key, err := totp.Generate(totp.GenerateOpts{Issuer: "test", AccountName: user.Email})
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	env.addConfirmedDevice(user.ID, key.Secret())

	token := challengedLogin(t, env, "amy@example.com", "hunter2secret")

	_, err = env.svc.TwoFactor.VerifyChallenge(ctx, &request.TwoFactorVerifyRequest{
		ChallengeToken: token,
		UserID:         user.ID.String(),
		Code:           wrongCode(t, key.Secret()),
	})
	if err == nil || !strings.Contains(err.Error(), "invalid two-factor code") {
		t.Fatalf("expected code rejection, got %v", err)
	}
	if env.sessions.activeCount(user.ID) != 0 {
		t.Error("no session may be created on a failed challenge")
	}
}

func TestVerifyChallengeBackupCodeIsSingleUse(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	user := env.addUser("amy@example.com", "amy", "hunter2secret")
	env.addConfirmedDevice(user.ID, "JBSWY3DPEHPK3PXP")

	const backupCode = "abcDEF1234"
	env.backupCodes.codes = append(env.backupCodes.codes, &entity.BackupCode{
		BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: time.Now()},
		UserID:     user.ID,
		CodeHash:   utils.HashCode(backupCode),
	})

	token := challengedLogin(t, env, "amy@example.com", "hunter2secret")

	outcome, err := env.svc.TwoFactor.VerifyChallenge(ctx, &request.TwoFactorVerifyRequest{
		ChallengeToken: token,
		UserID:         user.ID.String(),
		Code:           backupCode,
	})
	if err != nil {
		t.Fatalf("VerifyChallenge with backup code: %v", err)
	}
	if outcome.Auth == nil {
		t.Fatal("backup code must complete the login")
	}

	remaining, _ := env.backupCodes.CountForUser(ctx, user.ID)
	if remaining != 0 {
		t.Fatalf("backup codes remaining = %d, want 0", remaining)
	}

	// The same code cannot pass a second challenge
	token = challengedLogin(t, env, "amy@example.com", "hunter2secret")
	_, err = env.svc.TwoFactor.VerifyChallenge(ctx, &request.TwoFactorVerifyRequest{
		ChallengeToken: token,
		UserID:         user.ID.String(),
		Code:           backupCode,
	})
	if err == nil || !strings.Contains(err.Error(), "invalid two-factor code") {
		t.Fatalf("spent backup code must fail, got %v", err)
	}
}

func TestDisableRequiresSecondFactorAndClearsEverything(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	const secret = "JBSWY3DPEHPK3PXP"
	user := env.addUser("amy@example.com", "amy", "hunter2secret")
	env.addConfirmedDevice(user.ID, secret)
	env.backupCodes.codes = append(env.backupCodes.codes, &entity.BackupCode{
		BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: time.Now()},
		UserID:     user.ID,
		CodeHash:   utils.HashCode("abcDEF1234"),
	})

	err := env.svc.TwoFactor.Disable(ctx, user.ID, &request.TwoFactorDisableRequest{Code: wrongCode(t, secret)})
	if err == nil || !strings.Contains(err.Error(), "invalid two-factor code") {
		t.Fatalf("expected code rejection, got %v", err)
	}

	if err := env.svc.TwoFactor.Disable(ctx, user.ID, &request.TwoFactorDisableRequest{Code: currentCode(t, secret)}); err != nil {
		t.Fatalf("Disable: %v", err)
	}

	device, _ := env.devices.FindConfirmedByUserID(ctx, user.ID)
	if device != nil {
		t.Error("device should be gone after disable")
	}
	remaining, _ := env.backupCodes.CountForUser(ctx, user.ID)
	if remaining != 0 {
		t.Error("backup codes should be gone after disable")
	}

	// Subsequent logins go straight to tokens
	outcome, err := env.svc.Auth.Login(ctx, &request.LoginRequest{
		Email:    "amy@example.com",
		Password: "hunter2secret",
	})
	if err != nil {
		t.Fatalf("Login after disable: %v", err)
	}
	if outcome.ChallengeRequired() {
		t.Fatal("disabled account must not be challenged")
	}
}

func TestRegenerateBackupCodesReplacesOldSet(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	const secret = "JBSWY3DPEHPK3PXP"
	user := env.addUser("amy@example.com", "amy", "hunter2secret")
	env.addConfirmedDevice(user.ID, secret)

	const oldCode = "abcDEF1234"
	env.backupCodes.codes = append(env.backupCodes.codes, &entity.BackupCode{
		BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: time.Now()},
		UserID:     user.ID,
		CodeHash:   utils.HashCode(oldCode),
	})

	resp, err := env.svc.TwoFactor.RegenerateBackupCodes(ctx, user.ID, &request.TwoFactorDisableRequest{
		Code: currentCode(t, secret),
	})
	if err != nil {
		t.Fatalf("RegenerateBackupCodes: %v", err)
	}
	if len(resp.BackupCodes) != env.config.TOTP.BackupCodeCount {
		t.Errorf("new codes = %d, want %d", len(resp.BackupCodes), env.config.TOTP.BackupCodeCount)
	}

	consumed, _ := env.backupCodes.Consume(ctx, user.ID, utils.HashCode(oldCode))
	if consumed {
		t.Error("old backup code must be invalid after regeneration")
	}
}
