package usecase

import (
	"context"
	"strings"
	"testing"

	"mini-ecom/internal/dto/request"
	"mini-ecom/pkg/utils"
)

func TestRegisterThenLoginNeedsVerifiedEmail(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	resp, err := env.svc.Auth.Register(ctx, &request.RegisterRequest{
		Username: "newshopper",
		Email:    "shopper@example.com",
		Password: "longenough1",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if resp.Email != "shopper@example.com" {
		t.Errorf("registered email = %s", resp.Email)
	}

	user, err := env.users.FindByEmail(ctx, "shopper@example.com")
	if err != nil || user == nil {
		t.Fatalf("user not persisted: %v", err)
	}
	if user.EmailVerified {
		t.Error("new account should start unverified")
	}

	// No session of any kind until the address is confirmed
	_, err = env.svc.Auth.Login(ctx, &request.LoginRequest{
		Email:    "shopper@example.com",
		Password: "longenough1",
	})
	if err == nil || !strings.Contains(err.Error(), "verify your email") {
		t.Fatalf("unverified account must not log in, got %v", err)
	}

	user.EmailVerified = true
	outcome, err := env.svc.Auth.Login(ctx, &request.LoginRequest{
		Email:    "shopper@example.com",
		Password: "longenough1",
	})
	if err != nil {
		t.Fatalf("Login after verification: %v", err)
	}
	if outcome.ChallengeRequired() {
		t.Fatal("fresh account should never be challenged")
	}
	if outcome.Auth.AccessToken == "" || outcome.Auth.RefreshToken == "" {
		t.Fatal("expected both tokens after verification")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := newTestEnv()
	env.addUser("taken@example.com", "first", "password123")

	_, err := env.svc.Auth.Register(context.Background(), &request.RegisterRequest{
		Username: "second",
		Email:    "taken@example.com",
		Password: "password123",
	})
	if err == nil || !strings.Contains(err.Error(), "already registered") {
		t.Fatalf("expected duplicate email error, got %v", err)
	}
}

func TestLoginWithoutAuthenticatorIssuesTokens(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	user := env.addUser("amy@example.com", "amy", "hunter2secret")

	outcome, err := env.svc.Auth.Login(ctx, &request.LoginRequest{
		Email:    "amy@example.com",
		Password: "hunter2secret",
	})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if outcome.ChallengeRequired() {
		t.Fatal("expected tokens, got challenge")
	}

	claims, err := utils.ValidateAccessToken(env.config.JWT, outcome.Auth.AccessToken)
	if err != nil {
		t.Fatalf("access token does not validate: %v", err)
	}
	if claims.Subject != user.ID.String() {
		t.Errorf("token subject = %s, want %s", claims.Subject, user.ID)
	}

	session, err := env.sessions.FindValidSession(ctx, outcome.Auth.RefreshToken)
	if err != nil || session == nil {
		t.Fatal("refresh token should map to a stored session")
	}
	if session.UserID != user.ID {
		t.Errorf("session user = %s, want %s", session.UserID, user.ID)
	}
}

func TestLoginByUsername(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	user := env.addUser("amy@example.com", "amy", "hunter2secret")

	outcome, err := env.svc.Auth.Login(ctx, &request.LoginRequest{
		Username: "amy",
		Password: "hunter2secret",
	})
	if err != nil {
		t.Fatalf("Login by username: %v", err)
	}
	if outcome.ChallengeRequired() || outcome.Auth.User.ID != user.ID.String() {
		t.Errorf("outcome = %+v, want tokens for %s", outcome, user.ID)
	}

	_, err = env.svc.Auth.Login(ctx, &request.LoginRequest{
		Username: "nobody",
		Password: "hunter2secret",
	})
	if err == nil || !strings.Contains(err.Error(), "invalid credentials") {
		t.Fatalf("unknown username must look like a wrong password, got %v", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	env := newTestEnv()
	env.addUser("amy@example.com", "amy", "hunter2secret")

	_, err := env.svc.Auth.Login(context.Background(), &request.LoginRequest{
		Email:    "amy@example.com",
		Password: "not-the-password",
	})
	if err == nil || !strings.Contains(err.Error(), "invalid credentials") {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
}

func TestLoginUnknownEmailLooksLikeWrongPassword(t *testing.T) {
	env := newTestEnv()

	_, err := env.svc.Auth.Login(context.Background(), &request.LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever123",
	})
	if err == nil || !strings.Contains(err.Error(), "invalid credentials") {
		t.Fatalf("unknown email must produce the same error as a wrong password, got %v", err)
	}
}

func TestLoginDeactivatedAccount(t *testing.T) {
	env := newTestEnv()
	user := env.addUser("gone@example.com", "gone", "password123")
	user.IsActive = false

	_, err := env.svc.Auth.Login(context.Background(), &request.LoginRequest{
		Email:    "gone@example.com",
		Password: "password123",
	})
	if err == nil || !strings.Contains(err.Error(), "deactivated") {
		t.Fatalf("expected deactivated error, got %v", err)
	}
}

func TestLoginWithAuthenticatorIsChallenged(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	user := env.addUser("amy@example.com", "amy", "hunter2secret")
	env.addConfirmedDevice(user.ID, "JBSWY3DPEHPK3PXP")

	outcome, err := env.svc.Auth.Login(ctx, &request.LoginRequest{
		Email:    "amy@example.com",
		Password: "hunter2secret",
	})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if !outcome.ChallengeRequired() {
		t.Fatal("expected challenge, got tokens")
	}
	if outcome.Challenge.UserID != user.ID.String() {
		t.Errorf("challenge user = %s, want %s", outcome.Challenge.UserID, user.ID)
	}
	if outcome.Challenge.ChallengeToken == "" {
		t.Error("challenge token missing")
	}
	if env.challenges.count() != 1 {
		t.Errorf("pending challenges = %d, want 1", env.challenges.count())
	}
	if env.sessions.activeCount(user.ID) != 0 {
		t.Error("no session may exist before the second factor passes")
	}
}

func TestRefreshRotatesSession(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.addUser("amy@example.com", "amy", "hunter2secret")

	login, err := env.svc.Auth.Login(ctx, &request.LoginRequest{
		Email:    "amy@example.com",
		Password: "hunter2secret",
	})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	refreshed, err := env.svc.Auth.Refresh(ctx, &request.RefreshRequest{
		RefreshToken: login.Auth.RefreshToken,
	})
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if refreshed.Auth.RefreshToken == login.Auth.RefreshToken {
		t.Fatal("refresh must rotate the session token")
	}

	old, _ := env.sessions.FindValidSession(ctx, login.Auth.RefreshToken)
	if old != nil {
		t.Error("old session should be revoked after rotation")
	}

	_, err = env.svc.Auth.Refresh(ctx, &request.RefreshRequest{
		RefreshToken: login.Auth.RefreshToken,
	})
	if err == nil || !strings.Contains(err.Error(), "invalid or expired") {
		t.Fatalf("reusing a rotated token must fail, got %v", err)
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.addUser("amy@example.com", "amy", "hunter2secret")

	login, err := env.svc.Auth.Login(ctx, &request.LoginRequest{
		Email:    "amy@example.com",
		Password: "hunter2secret",
	})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	if err := env.svc.Auth.Logout(ctx, &request.LogoutRequest{
		RefreshToken: login.Auth.RefreshToken,
	}); err != nil {
		t.Fatalf("Logout: %v", err)
	}

	session, _ := env.sessions.FindValidSession(ctx, login.Auth.RefreshToken)
	if session != nil {
		t.Error("session still valid after logout")
	}
}

func TestVerifyEmailMarksUserAndConsumesCode(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	user := env.addUser("amy@example.com", "amy", "hunter2secret")
	user.EmailVerified = false

	// Resend stores the hashed code synchronously
	if err := env.svc.Auth.ResendVerification(ctx, &request.ResendVerificationRequest{
		Email: "amy@example.com",
	}); err != nil {
		t.Fatalf("ResendVerification: %v", err)
	}

	env.otps.mu.Lock()
	if len(env.otps.otps) != 1 {
		env.otps.mu.Unlock()
		t.Fatalf("stored codes = %d, want 1", len(env.otps.otps))
	}
	storedHash := env.otps.otps[0].CodeHash
	env.otps.mu.Unlock()

	// The service only ever sees hashes, so recover the code by brute
	// force over the 6 digit space
	code := ""
	for i := 0; i < 1000000; i++ {
		candidate := padCode(i)
		if utils.HashCode(candidate) == storedHash {
			code = candidate
			break
		}
	}
	if code == "" {
		t.Fatal("could not recover stored code")
	}

	if err := env.svc.Auth.VerifyEmail(ctx, &request.VerifyEmailRequest{
		Email: "amy@example.com",
		Code:  code,
	}); err != nil {
		t.Fatalf("VerifyEmail: %v", err)
	}
	if !user.EmailVerified {
		t.Error("email not marked verified")
	}

	// The code is single-use
	err := env.svc.Auth.VerifyEmail(ctx, &request.VerifyEmailRequest{
		Email: "amy@example.com",
		Code:  code,
	})
	if err == nil || !strings.Contains(err.Error(), "invalid or expired") {
		t.Fatalf("reused code must fail, got %v", err)
	}
}

func TestForgotPasswordHidesUnknownAccounts(t *testing.T) {
	env := newTestEnv()

	if err := env.svc.Auth.ForgotPassword(context.Background(), &request.ForgotPasswordRequest{
		Email: "nobody@example.com",
	}); err != nil {
		t.Fatalf("unknown address must not be distinguishable, got %v", err)
	}
	if len(env.otps.otps) != 0 {
		t.Error("no code should be stored for an unknown address")
	}
}

func TestResetPasswordRevokesAllSessions(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	user := env.addUser("amy@example.com", "amy", "hunter2secret")

	login, err := env.svc.Auth.Login(ctx, &request.LoginRequest{
		Email:    "amy@example.com",
		Password: "hunter2secret",
	})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	if err := env.svc.Auth.ForgotPassword(ctx, &request.ForgotPasswordRequest{
		Email: "amy@example.com",
	}); err != nil {
		t.Fatalf("ForgotPassword: %v", err)
	}

	env.otps.mu.Lock()
	storedHash := env.otps.otps[len(env.otps.otps)-1].CodeHash
	env.otps.mu.Unlock()

	code := ""
	for i := 0; i < 1000000; i++ {
		candidate := padCode(i)
		if utils.HashCode(candidate) == storedHash {
			code = candidate
			break
		}
	}

	if err := env.svc.Auth.ResetPassword(ctx, &request.ResetPasswordRequest{
		Email:       "amy@example.com",
		Code:        code,
		NewPassword: "brandnewpass1",
	}); err != nil {
		t.Fatalf("ResetPassword: %v", err)
	}

	if !utils.CheckPasswordHash("brandnewpass1", user.PasswordHash) {
		t.Error("new password not stored")
	}
	if session, _ := env.sessions.FindValidSession(ctx, login.Auth.RefreshToken); session != nil {
		t.Error("existing sessions must be revoked by a password reset")
	}
}

func TestChangePasswordRequiresCurrent(t *testing.T) {
	env := newTestEnv()
	user := env.addUser("amy@example.com", "amy", "hunter2secret")

	err := env.svc.Auth.ChangePassword(context.Background(), user.ID, &request.ChangePasswordRequest{
		CurrentPassword: "wrong-password",
		NewPassword:     "brandnewpass1",
	})
	if err == nil || !strings.Contains(err.Error(), "incorrect") {
		t.Fatalf("expected current password rejection, got %v", err)
	}
}

func padCode(n int) string {
	digits := []byte{'0', '0', '0', '0', '0', '0'}
	for i := 5; i >= 0 && n > 0; i-- {
		digits[i] = byte('0' + n%10)
		n /= 10
	}
	return string(digits)
}
