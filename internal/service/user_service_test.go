package service

import (
	"context"
	"errors"
	"mime/multipart"
	"testing"

	"go.uber.org/zap"

	"car-market/internal/domain"
)

type stubUploader struct {
	url string
}

func (s stubUploader) Upload(_ context.Context, folder string, userID int64, _ *multipart.FileHeader) (string, error) {
	return s.url, nil
}

func TestUserService_GetAllUsersExcludesCaller(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewUserService(zap.NewNop(), repo, nil)
	caller := seedUser(t, repo, "admin@example.com", "password123")
	seedUser(t, repo, "other@example.com", "password123")

	users, err := svc.GetAllUsers(context.Background(), caller.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(users) != 1 || users[0].Email != "other@example.com" {
		t.Fatalf("unexpected users: %+v", users)
	}
}

func TestUserService_GetUserNotFound(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewUserService(zap.NewNop(), repo, nil)

	_, err := svc.GetUser(context.Background(), 999)
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserService_UpdateUserRole(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewUserService(zap.NewNop(), repo, nil)
	user := seedUser(t, repo, "user@example.com", "password123")

	updated, err := svc.UpdateUserRole(context.Background(), user.ID, domain.RoleDealer)
	if err != nil {
		t.Fatalf("update role: %v", err)
	}
	if updated.Role != domain.RoleDealer {
		t.Fatalf("role not updated: %+v", updated)
	}

	if _, err := svc.UpdateUserRole(context.Background(), user.ID, domain.Role("superuser")); !errors.Is(err, ErrInvalidRoleUpdate) {
		t.Fatalf("expected ErrInvalidRoleUpdate, got %v", err)
	}
}

func TestUserService_ToggleBlockUser(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewUserService(zap.NewNop(), repo, nil)
	user := seedUser(t, repo, "user@example.com", "password123")

	result, err := svc.ToggleBlockUser(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !result.Blocked || result.Message != "User successfully blocked." {
		t.Fatalf("unexpected result: %+v", result)
	}

	result, err = svc.ToggleBlockUser(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("toggle back: %v", err)
	}
	if result.Blocked || result.Message != "User successfully unblocked." {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestUserService_GetProfileFederated(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewUserService(zap.NewNop(), repo, nil)
	user, err := repo.Create(context.Background(), domain.User{
		UserName: "Google User",
		Email:    "google.user@example.com",
		GoogleID: "google-sub-1",
		Role:     domain.RoleUser,
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	profile, err := svc.GetProfile(context.Background(), domain.ActiveUser{
		Sub:      user.ID,
		Email:    user.Email,
		GoogleID: "google-sub-1",
	})
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if profile.ID != user.ID {
		t.Fatalf("unexpected profile: %+v", profile)
	}
}

func TestUserService_UpdateMe(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewUserService(zap.NewNop(), repo, stubUploader{url: "https://cdn.example.com/profile-images/user-1/pic.jpg"})
	user := seedUser(t, repo, "user@example.com", "password123")

	updated, err := svc.UpdateMe(context.Background(), user.ID, UpdateMeInput{
		UserName:     "Renamed",
		ProfileImage: &multipart.FileHeader{Filename: "pic.jpg"},
	})
	if err != nil {
		t.Fatalf("update me: %v", err)
	}
	if updated.UserName != "Renamed" {
		t.Fatalf("name not updated: %+v", updated)
	}
	if updated.ProfileImage == "" {
		t.Fatalf("profile image not set")
	}
}

func TestUserService_DeleteAccount(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewUserService(zap.NewNop(), repo, nil)
	user := seedUser(t, repo, "user@example.com", "password123")

	if err := svc.DeleteAccount(context.Background(), user.ID); err != nil {
		t.Fatalf("delete account: %v", err)
	}
	if err := svc.DeleteAccount(context.Background(), user.ID); !errors.Is(err, ErrNotSignedIn) {
		t.Fatalf("expected ErrNotSignedIn, got %v", err)
	}
}
