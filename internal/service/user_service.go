package service

import (
	"context"
	"errors"
	"mime/multipart"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"car-market/internal/domain"
	"car-market/internal/repository"
	"car-market/internal/uploads"
)

// UserService coordina operaciones de administración y perfil de usuarios.
type UserService struct {
	logger   *zap.Logger
	users    repository.UserRepository
	uploader uploads.Uploader
}

var (
	ErrInvalidRoleUpdate = errors.New("invalid update: only role can be updated")
)

func NewUserService(logger *zap.Logger, users repository.UserRepository, uploader uploads.Uploader) *UserService {
	return &UserService{
		logger:   logger,
		users:    users,
		uploader: uploader,
	}
}

// GetAllUsers lista todos los usuarios menos el que consulta,
// ordenados por última actualización.
func (s *UserService) GetAllUsers(ctx context.Context, currentUserID int64) ([]domain.User, error) {
	return s.users.ListExcept(ctx, currentUserID)
}

func (s *UserService) GetUser(ctx context.Context, id int64) (domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, ErrUserNotFound
	}
	return user, err
}

// GetProfile resuelve el perfil del usuario activo; las cuentas federadas
// se buscan por googleId.
func (s *UserService) GetProfile(ctx context.Context, active domain.ActiveUser) (domain.User, error) {
	if active.GoogleID != "" {
		user, err := s.users.GetByGoogleID(ctx, active.GoogleID)
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrUserNotFound
		}
		return user, err
	}
	return s.GetUser(ctx, active.Sub)
}

// UpdateUserRole cambia únicamente el rol de un usuario; cualquier otro
// atributo en el pedido lo rechaza.
func (s *UserService) UpdateUserRole(ctx context.Context, id int64, role domain.Role) (domain.User, error) {
	if !role.Valid() {
		return domain.User{}, ErrInvalidRoleUpdate
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}
	user.Role = role
	if err := s.users.Save(ctx, user); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

type BlockResult struct {
	Message string `json:"message"`
	Blocked bool   `json:"blocked"`
}

// ToggleBlockUser invierte el flag de bloqueo de un usuario.
func (s *UserService) ToggleBlockUser(ctx context.Context, id int64) (BlockResult, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return BlockResult{}, ErrUserNotFound
		}
		return BlockResult{}, err
	}
	user.IsBlocked = !user.IsBlocked
	if err := s.users.Save(ctx, user); err != nil {
		return BlockResult{}, err
	}
	message := "User successfully unblocked."
	if user.IsBlocked {
		message = "User successfully blocked."
	}
	return BlockResult{Message: message, Blocked: user.IsBlocked}, nil
}

// RemoveUser elimina un usuario por id (operación de admin).
func (s *UserService) RemoveUser(ctx context.Context, id int64) error {
	err := s.users.Delete(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrUserNotFound
	}
	return err
}

// DeleteAccount elimina la cuenta del usuario activo.
func (s *UserService) DeleteAccount(ctx context.Context, id int64) error {
	err := s.users.Delete(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotSignedIn
	}
	return err
}

type UpdateMeInput struct {
	UserName     string
	ProfileImage *multipart.FileHeader
}

// UpdateMe actualiza nombre y foto de perfil del usuario activo.
func (s *UserService) UpdateMe(ctx context.Context, userID int64, input UpdateMeInput) (domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrNotSignedIn
		}
		return domain.User{}, err
	}

	if name := strings.TrimSpace(input.UserName); name != "" {
		user.UserName = name
	}
	if input.ProfileImage != nil {
		if s.uploader == nil {
			return domain.User{}, errors.New("uploads not configured")
		}
		url, err := s.uploader.Upload(ctx, "profile-images", userID, input.ProfileImage)
		if err != nil {
			return domain.User{}, err
		}
		user.ProfileImage = url
	}

	if err := s.users.Save(ctx, user); err != nil {
		return domain.User{}, err
	}
	return user, nil
}
