package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"car-market/internal/googleauth"
	"car-market/internal/service"
)

func newAuthFixture(t *testing.T) (*gin.Engine, *fakeUserRepo, *service.TokenService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := newFakeUserRepo()
	tokens := service.NewTokenService("secret", "car-market", "car-market", 15*time.Minute, time.Hour, repo)
	authSvc := service.NewAuthService(zap.NewNop(), repo, tokens, nil)
	googleSvc := service.NewGoogleAuthService(zap.NewNop(), repo, tokens, &googleauth.MockVerifier{Err: googleauth.ErrTokenRejected})
	handler := NewAuthHandler(zap.NewNop(), authSvc, tokens, googleSvc)

	bearer := Guard(tokens, repo, RouteAuth{Types: []AuthType{AuthBearer}})

	r := gin.New()
	r.POST("/auth/sign-up", handler.SignUp)
	r.POST("/auth/sign-in", handler.SignIn)
	r.POST("/auth/sign-out", bearer, handler.SignOut)
	r.POST("/auth/refresh-tokens", handler.RefreshTokens)
	r.PATCH("/auth/update-password", bearer, handler.UpdatePassword)
	r.POST("/auth/google", handler.GoogleAuth)
	return r, repo, tokens
}

func postJSON(r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

type tokensEnvelope struct {
	Tokens service.TokenPair `json:"tokens"`
}

func signUp(t *testing.T, r *gin.Engine, email, password string) service.TokenPair {
	t.Helper()
	rec := postJSON(r, http.MethodPost, "/auth/sign-up", "", gin.H{
		"user_name": "Test",
		"email":     email,
		"password":  password,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("sign-up: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var env tokensEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode sign-up response: %v", err)
	}
	return env.Tokens
}

func TestAuthHandler_SignUpAndSignIn(t *testing.T) {
	r, _, _ := newAuthFixture(t)
	pair := signUp(t, r, "user@example.com", "password123")
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatalf("expected token pair on sign-up")
	}

	rec := postJSON(r, http.MethodPost, "/auth/sign-in", "", gin.H{
		"email":    "user@example.com",
		"password": "password123",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("sign-in: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestAuthHandler_SignUpDuplicateEmail(t *testing.T) {
	r, _, _ := newAuthFixture(t)
	signUp(t, r, "user@example.com", "password123")

	rec := postJSON(r, http.MethodPost, "/auth/sign-up", "", gin.H{
		"user_name": "Other",
		"email":     "user@example.com",
		"password":  "password456",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !bytes.Contains(rec.Body.Bytes(), []byte("User already exists with this email")) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestAuthHandler_SignInWrongPassword(t *testing.T) {
	r, _, _ := newAuthFixture(t)
	signUp(t, r, "user@example.com", "password123")

	rec := postJSON(r, http.MethodPost, "/auth/sign-in", "", gin.H{
		"email":    "user@example.com",
		"password": "wrong-password",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if !bytes.Contains(rec.Body.Bytes(), []byte("Invalid password")) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestAuthHandler_SignOutRevokesToken(t *testing.T) {
	r, _, _ := newAuthFixture(t)
	pair := signUp(t, r, "user@example.com", "password123")

	rec := postJSON(r, http.MethodPost, "/auth/sign-out", pair.AccessToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("sign-out: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !bytes.Contains(rec.Body.Bytes(), []byte("Successfully signed out")) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}

	// El mismo token ya no pasa el guard.
	rec = postJSON(r, http.MethodPost, "/auth/sign-out", pair.AccessToken, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 after sign-out, got %d", rec.Code)
	}
	if !bytes.Contains(rec.Body.Bytes(), []byte("Token has been revoked")) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestAuthHandler_RefreshTokens(t *testing.T) {
	r, _, _ := newAuthFixture(t)
	pair := signUp(t, r, "user@example.com", "password123")

	rec := postJSON(r, http.MethodPost, "/auth/refresh-tokens", "", gin.H{
		"refresh_token": pair.RefreshToken,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("refresh: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = postJSON(r, http.MethodPost, "/auth/refresh-tokens", "", gin.H{
		"refresh_token": "garbage",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for garbage token, got %d", rec.Code)
	}
}

func TestAuthHandler_UpdatePassword(t *testing.T) {
	r, _, _ := newAuthFixture(t)
	pair := signUp(t, r, "user@example.com", "password123")

	rec := postJSON(r, http.MethodPatch, "/auth/update-password", pair.AccessToken, gin.H{
		"current_password": "wrong",
		"new_password":     "newpassword",
		"confirm_password": "newpassword",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong current password, got %d", rec.Code)
	}
	if !bytes.Contains(rec.Body.Bytes(), []byte("Current password is incorrect!")) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}

	rec = postJSON(r, http.MethodPatch, "/auth/update-password", pair.AccessToken, gin.H{
		"current_password": "password123",
		"new_password":     "newpassword",
		"confirm_password": "otherpassword",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for mismatch, got %d", rec.Code)
	}
	if !bytes.Contains(rec.Body.Bytes(), []byte("Passwords do not match!")) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}

	rec = postJSON(r, http.MethodPatch, "/auth/update-password", pair.AccessToken, gin.H{
		"current_password": "password123",
		"new_password":     "newpassword",
		"confirm_password": "newpassword",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !bytes.Contains(rec.Body.Bytes(), []byte("Password updated successfully!")) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestAuthHandler_GoogleAuthRejected(t *testing.T) {
	r, _, _ := newAuthFixture(t)

	rec := postJSON(r, http.MethodPost, "/auth/google", "", gin.H{"token": "bad"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
