package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5"

	"car-market/internal/domain"
	"car-market/internal/repository"
)

// TokenService emite y renueva pares de tokens JWT.
// Los tokens nunca se persisten: su validez es firma + expiración +
// comparación del tokenVersion embebido contra el valor vivo del usuario.
type TokenService struct {
	secret     []byte
	audience   string
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	users      repository.UserRepository
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// AccessClaims son los claims del access token. El refresh token sólo
// lleva los RegisteredClaims; email vacío lo distingue de un access token.
type AccessClaims struct {
	Email        string      `json:"email,omitempty"`
	Role         domain.Role `json:"role,omitempty"`
	TokenVersion int         `json:"tokenVersion"`
	GoogleID     string      `json:"googleId,omitempty"`
	jwt.RegisteredClaims
}

var (
	ErrTokenInvalid = errors.New("token invalid")
	ErrTokenExpired = errors.New("token expired")
	ErrUserNotFound = errors.New("user not found")
)

func NewTokenService(secret, audience, issuer string, accessTTL, refreshTTL time.Duration, users repository.UserRepository) *TokenService {
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	if refreshTTL <= 0 {
		refreshTTL = 30 * 24 * time.Hour
	}
	return &TokenService{
		secret:     []byte(secret),
		audience:   audience,
		issuer:     issuer,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		users:      users,
	}
}

// Issue firma un par de tokens con el rol y tokenVersion actuales del usuario.
func (s *TokenService) Issue(user domain.User) (TokenPair, error) {
	if len(s.secret) == 0 {
		return TokenPair{}, ErrTokenInvalid
	}
	now := time.Now().UTC()

	access, err := s.sign(AccessClaims{
		Email:        user.Email,
		Role:         user.Role,
		TokenVersion: user.TokenVersion,
		GoogleID:     user.GoogleID,
		RegisteredClaims: s.registered(user.ID, now, s.accessTTL),
	})
	if err != nil {
		return TokenPair{}, err
	}

	refresh, err := s.sign(AccessClaims{
		RegisteredClaims: s.registered(user.ID, now, s.refreshTTL),
	})
	if err != nil {
		return TokenPair{}, err
	}

	return TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.accessTTL.Seconds()),
	}, nil
}

// Refresh verifica el refresh token, recarga el usuario vivo y emite un
// par nuevo. El access token resultante siempre refleja el rol y
// tokenVersion actuales, nunca un snapshot viejo.
func (s *TokenService) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	claims, err := s.parse(refreshToken)
	if err != nil {
		return TokenPair{}, err
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return TokenPair{}, ErrTokenInvalid
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return TokenPair{}, ErrUserNotFound
		}
		return TokenPair{}, err
	}

	return s.Issue(user)
}

// ParseAccess valida un access token y devuelve la identidad derivada.
// Un refresh token no pasa: nunca lleva email.
func (s *TokenService) ParseAccess(accessToken string) (domain.ActiveUser, error) {
	claims, err := s.parse(accessToken)
	if err != nil {
		return domain.ActiveUser{}, err
	}
	if strings.TrimSpace(claims.Email) == "" {
		return domain.ActiveUser{}, ErrTokenInvalid
	}
	sub, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return domain.ActiveUser{}, ErrTokenInvalid
	}
	return domain.ActiveUser{
		Sub:          sub,
		Email:        claims.Email,
		Role:         claims.Role,
		TokenVersion: claims.TokenVersion,
		GoogleID:     claims.GoogleID,
	}, nil
}

func (s *TokenService) registered(userID int64, now time.Time, ttl time.Duration) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		Audience:  jwt.ClaimStrings{s.audience},
		Issuer:    s.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
}

func (s *TokenService) sign(claims AccessClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *TokenService) parse(tokenString string) (AccessClaims, error) {
	if len(s.secret) == 0 || strings.TrimSpace(tokenString) == "" {
		return AccessClaims{}, ErrTokenInvalid
	}
	var claims AccessClaims
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(s.audience),
		jwt.WithIssuer(s.issuer),
	)
	_, err := parser.ParseWithClaims(tokenString, &claims, func(_ *jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return AccessClaims{}, ErrTokenExpired
		}
		return AccessClaims{}, ErrTokenInvalid
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return AccessClaims{}, ErrTokenInvalid
	}
	return claims, nil
}
