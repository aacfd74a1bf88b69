package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"car-market/internal/domain"
	"car-market/internal/repository"
)

// AuthService coordina sign-in, sign-up, sign-out y cambio de password.
type AuthService struct {
	logger  *zap.Logger
	users   repository.UserRepository
	tokens  *TokenService
	limiter RateLimiter
}

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("user already exists with this email")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrNotSignedIn        = errors.New("not signed in")
	ErrRateLimited        = errors.New("rate limited")
)

func NewAuthService(logger *zap.Logger, users repository.UserRepository, tokens *TokenService, limiter RateLimiter) *AuthService {
	if limiter == nil {
		limiter = NewSignInRateLimiter(time.Minute, 10)
	}
	return &AuthService{
		logger:  logger,
		users:   users,
		tokens:  tokens,
		limiter: limiter,
	}
}

type SignUpInput struct {
	UserName string
	Email    string
	Password string
}

type AuthResult struct {
	Tokens TokenPair   `json:"tokens"`
	User   domain.User `json:"user"`
}

// SignIn valida credenciales y emite un par de tokens.
// Usuarios bloqueados o inexistentes reciben el mismo error que un
// password incorrecto para no filtrar existencia de cuentas.
func (s *AuthService) SignIn(ctx context.Context, emailAddr, password string) (AuthResult, error) {
	emailAddr = normalizeEmail(emailAddr)
	password = strings.TrimSpace(password)
	if emailAddr == "" || password == "" {
		return AuthResult{}, ErrInvalidCredentials
	}
	if s.limiter != nil && !s.limiter.Allow(emailAddr) {
		return AuthResult{}, ErrRateLimited
	}

	user, err := s.users.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return AuthResult{}, ErrInvalidCredentials
		}
		return AuthResult{}, err
	}
	if user.IsBlocked || user.PasswordHash == "" {
		return AuthResult{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return AuthResult{}, ErrInvalidCredentials
		}
		// Falla del motor de hashing, no del password.
		return AuthResult{}, err
	}

	tokens, err := s.tokens.Issue(user)
	if err != nil {
		return AuthResult{}, err
	}
	return AuthResult{Tokens: tokens, User: user}, nil
}

// SignUp registra un usuario nuevo con rol user y tokenVersion 0.
func (s *AuthService) SignUp(ctx context.Context, input SignUpInput) (AuthResult, error) {
	emailAddr := normalizeEmail(input.Email)
	userName := strings.TrimSpace(input.UserName)
	password := strings.TrimSpace(input.Password)
	if emailAddr == "" || password == "" {
		return AuthResult{}, ErrInvalidCredentials
	}

	_, err := s.users.GetByEmail(ctx, emailAddr)
	if err == nil {
		return AuthResult{}, ErrEmailTaken
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return AuthResult{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return AuthResult{}, err
	}

	user, err := s.users.Create(ctx, domain.User{
		UserName:     userName,
		Email:        emailAddr,
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
		TokenVersion: 0,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return AuthResult{}, ErrEmailTaken
		}
		return AuthResult{}, err
	}

	tokens, err := s.tokens.Issue(user)
	if err != nil {
		return AuthResult{}, err
	}
	return AuthResult{Tokens: tokens, User: user}, nil
}

// SignOut incrementa tokenVersion en un único UPDATE atómico. Todo access
// token emitido antes queda revocado en su próxima verificación. Un refresh
// token previo sigue pudiendo emitir un par nuevo: sólo prueba posesión
// y el access token resultante lleva la versión ya incrementada.
func (s *AuthService) SignOut(ctx context.Context, userID int64) error {
	affected, err := s.users.IncrementTokenVersion(ctx, userID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotSignedIn
	}
	return nil
}

// UpdatePassword verifica el password actual, exige confirmación idéntica
// y reemite tokens con el hash nuevo ya persistido.
func (s *AuthService) UpdatePassword(ctx context.Context, userID int64, current, newPassword, confirm string) (TokenPair, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return TokenPair{}, ErrNotSignedIn
		}
		return TokenPair{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)); err != nil {
		return TokenPair{}, ErrInvalidCredentials
	}
	if newPassword == "" || newPassword != confirm {
		return TokenPair{}, ErrPasswordMismatch
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return TokenPair{}, err
	}
	user.PasswordHash = string(hash)
	if err := s.users.Save(ctx, user); err != nil {
		return TokenPair{}, err
	}

	return s.tokens.Issue(user)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
