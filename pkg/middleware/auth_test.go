package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"mini-ecom/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func testAuthConfig() *utils.Config {
	return &utils.Config{JWT: utils.JWTConfig{Secret: "test-secret-key", ExpiryHours: 1}}
}

func signedToken(t *testing.T, config *utils.Config, userID uuid.UUID) string {
	t.Helper()
	token, _, err := utils.GenerateAccessToken(config.JWT, userID, "amy@example.com", "customer")
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestAuthRejectsMissingHeader(t *testing.T) {
	handler := Auth(testAuthConfig(), zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not run without a token")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestAuthPassesUserIntoContext(t *testing.T) {
	config := testAuthConfig()
	userID := uuid.New()

	var gotID uuid.UUID
	handler := Auth(config, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, _ = utils.GetUserIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, config, userID))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if gotID != userID {
		t.Errorf("context user = %s, want %s", gotID, userID)
	}
}

func TestAuthRejectsForeignSignature(t *testing.T) {
	other := &utils.Config{JWT: utils.JWTConfig{Secret: "different-secret", ExpiryHours: 1}}
	token := signedToken(t, other, uuid.New())

	handler := Auth(testAuthConfig(), zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not run with a foreign token")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestOptionalAuthLetsAnonymousThrough(t *testing.T) {
	called := false
	handler := OptionalAuth(testAuthConfig(), zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		if _, ok := utils.GetUserIDFromContext(r.Context()); ok {
			t.Error("anonymous request must carry no user")
		}
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	if !called {
		t.Fatal("anonymous request must reach the handler")
	}
}

func TestOptionalAuthRejectsPresentedInvalidToken(t *testing.T) {
	handler := OptionalAuth(testAuthConfig(), zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("an invalid token must not fall back to anonymous")
	}))

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-real-token")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestOptionalAuthAttachesValidUser(t *testing.T) {
	config := testAuthConfig()
	userID := uuid.New()

	var gotID uuid.UUID
	var gotOK bool
	handler := OptionalAuth(config, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, gotOK = utils.GetUserIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, config, userID))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if !gotOK || gotID != userID {
		t.Errorf("context user = %s ok=%v, want %s", gotID, gotOK, userID)
	}
}
