package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"car-market/internal/domain"
	"car-market/internal/googleauth"
	"car-market/internal/repository"
)

// GoogleAuthService resuelve un id token de Google a un usuario local,
// creándolo en el primer sign-in.
type GoogleAuthService struct {
	logger   *zap.Logger
	users    repository.UserRepository
	tokens   *TokenService
	verifier googleauth.Verifier
}

var (
	ErrGoogleAuthFailed = errors.New("google authentication failed")
	ErrGoogleConflict   = errors.New("google account already linked")
)

func NewGoogleAuthService(logger *zap.Logger, users repository.UserRepository, tokens *TokenService, verifier googleauth.Verifier) *GoogleAuthService {
	return &GoogleAuthService{
		logger:   logger,
		users:    users,
		tokens:   tokens,
		verifier: verifier,
	}
}

// Authenticate verifica el id token, mapea el perfil a un usuario local y
// emite tokens propios. Dos primeros sign-in concurrentes del mismo sujeto
// se resuelven reintentando la búsqueda tras el unique violation.
func (s *GoogleAuthService) Authenticate(ctx context.Context, idToken string) (AuthResult, error) {
	if s.verifier == nil {
		return AuthResult{}, errors.New("google auth not configured")
	}

	payload, err := s.verifier.VerifyIDToken(ctx, idToken)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("google token verification failed", zap.Error(err))
		}
		return AuthResult{}, ErrGoogleAuthFailed
	}

	user, err := s.users.GetByGoogleID(ctx, payload.Subject)
	if errors.Is(err, pgx.ErrNoRows) {
		user, err = s.createFromPayload(ctx, payload)
	}
	if err != nil {
		return AuthResult{}, err
	}

	tokens, err := s.tokens.Issue(user)
	if err != nil {
		return AuthResult{}, err
	}
	return AuthResult{Tokens: tokens, User: user}, nil
}

func (s *GoogleAuthService) createFromPayload(ctx context.Context, payload googleauth.Payload) (domain.User, error) {
	if payload.Email == "" || payload.Subject == "" || payload.Name == "" {
		return domain.User{}, ErrGoogleAuthFailed
	}

	user, err := s.users.Create(ctx, domain.User{
		UserName:     payload.Name,
		Email:        normalizeEmail(payload.Email),
		ProfileImage: payload.Picture,
		GoogleID:     payload.Subject,
		Role:         domain.RoleUser,
		TokenVersion: 0,
		CreatedAt:    time.Now().UTC(),
	})
	if err == nil {
		return user, nil
	}
	if !repository.IsUniqueViolation(err) {
		return domain.User{}, err
	}

	// Otro request ganó la carrera de creación; la fila ya existe.
	user, lookupErr := s.users.GetByGoogleID(ctx, payload.Subject)
	if lookupErr != nil {
		return domain.User{}, ErrGoogleConflict
	}
	return user, nil
}
