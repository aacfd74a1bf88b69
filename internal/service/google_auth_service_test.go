package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"car-market/internal/domain"
	"car-market/internal/googleauth"
)

func TestGoogleAuthService_CreatesUserOnFirstSignIn(t *testing.T) {
	repo := newMockUserRepo()
	verifier := &googleauth.MockVerifier{Payload: googleauth.Payload{
		Email:   "Google.User@example.com",
		Subject: "google-sub-1",
		Name:    "Google User",
		Picture: "https://example.com/pic.jpg",
	}}
	svc := NewGoogleAuthService(zap.NewNop(), repo, newTestTokenService(repo), verifier)

	result, err := svc.Authenticate(context.Background(), "id-token")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if result.User.GoogleID != "google-sub-1" {
		t.Fatalf("expected google id persisted, got %q", result.User.GoogleID)
	}
	if result.User.Email != "google.user@example.com" {
		t.Fatalf("expected normalized email, got %q", result.User.Email)
	}
	if result.User.Role != domain.RoleUser || result.User.TokenVersion != 0 {
		t.Fatalf("unexpected defaults: %+v", result.User)
	}
	if result.Tokens.AccessToken == "" {
		t.Fatalf("expected access token")
	}
}

func TestGoogleAuthService_ReusesExistingUser(t *testing.T) {
	repo := newMockUserRepo()
	verifier := &googleauth.MockVerifier{Payload: googleauth.Payload{
		Email:   "google.user@example.com",
		Subject: "google-sub-1",
		Name:    "Google User",
	}}
	svc := NewGoogleAuthService(zap.NewNop(), repo, newTestTokenService(repo), verifier)

	first, err := svc.Authenticate(context.Background(), "id-token")
	if err != nil {
		t.Fatalf("first authenticate: %v", err)
	}
	second, err := svc.Authenticate(context.Background(), "id-token")
	if err != nil {
		t.Fatalf("second authenticate: %v", err)
	}
	if first.User.ID != second.User.ID {
		t.Fatalf("expected same user, got %d and %d", first.User.ID, second.User.ID)
	}
	if len(repo.users) != 1 {
		t.Fatalf("expected one user, got %d", len(repo.users))
	}
}

func TestGoogleAuthService_RejectedToken(t *testing.T) {
	repo := newMockUserRepo()
	verifier := &googleauth.MockVerifier{Err: googleauth.ErrTokenRejected}
	svc := NewGoogleAuthService(zap.NewNop(), repo, newTestTokenService(repo), verifier)

	_, err := svc.Authenticate(context.Background(), "bad-token")
	if !errors.Is(err, ErrGoogleAuthFailed) {
		t.Fatalf("expected ErrGoogleAuthFailed, got %v", err)
	}
	if len(repo.users) != 0 {
		t.Fatalf("no user should be created")
	}
}

func TestGoogleAuthService_IncompletePayload(t *testing.T) {
	repo := newMockUserRepo()
	verifier := &googleauth.MockVerifier{Payload: googleauth.Payload{
		Email:   "google.user@example.com",
		Subject: "google-sub-1",
		// Sin nombre.
	}}
	svc := NewGoogleAuthService(zap.NewNop(), repo, newTestTokenService(repo), verifier)

	_, err := svc.Authenticate(context.Background(), "id-token")
	if !errors.Is(err, ErrGoogleAuthFailed) {
		t.Fatalf("expected ErrGoogleAuthFailed, got %v", err)
	}
}

func TestGoogleAuthService_CreationRaceFallsBackToLookup(t *testing.T) {
	repo := newMockUserRepo()
	payload := googleauth.Payload{
		Email:   "google.user@example.com",
		Subject: "google-sub-1",
		Name:    "Google User",
	}
	// Otro request ya creó la fila con el mismo sujeto.
	if _, err := repo.Create(context.Background(), domain.User{
		UserName: "Google User",
		Email:    "google.user@example.com",
		GoogleID: "google-sub-1",
		Role:     domain.RoleUser,
	}); err != nil {
		t.Fatalf("seed user: %v", err)
	}

	verifier := &googleauth.MockVerifier{Payload: payload}
	svc := NewGoogleAuthService(zap.NewNop(), repo, newTestTokenService(repo), verifier)

	result, err := svc.Authenticate(context.Background(), "id-token")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if result.User.GoogleID != "google-sub-1" {
		t.Fatalf("expected existing user, got %+v", result.User)
	}
	if len(repo.users) != 1 {
		t.Fatalf("expected one user, got %d", len(repo.users))
	}
}
