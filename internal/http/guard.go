package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"

	"car-market/internal/domain"
	"car-market/internal/repository"
	"car-market/internal/service"
)

// AuthType es la variante de autenticación que una ruta declara aceptar.
type AuthType int

const (
	AuthNone AuthType = iota
	AuthBearer
)

// RouteAuth es la configuración de autenticación explícita de una ruta:
// tipos aceptados en orden y roles requeridos. Sin tipos declarados,
// el default es Bearer.
type RouteAuth struct {
	Types []AuthType
	Roles []domain.Role
}

const activeUserKey = "active_user"

var errTokenRevoked = errors.New("token has been revoked")

// Guard arma el middleware de autenticación para una ruta. Prueba los
// tipos declarados en orden y admite con el primero que pasa: Bearer
// verifica firma, expiración y audiencia, compara el tokenVersion
// embebido contra el valor vivo del usuario y finalmente chequea roles;
// None admite sin resolver identidad.
func Guard(tokens *service.TokenService, users repository.UserRepository, route RouteAuth) gin.HandlerFunc {
	types := route.Types
	if len(types) == 0 {
		types = []AuthType{AuthBearer}
	}

	return func(c *gin.Context) {
		admitted := false
		for _, authType := range types {
			switch authType {
			case AuthNone:
				admitted = true
			case AuthBearer:
				identity, err := verifyBearer(c, tokens, users)
				if errors.Is(err, errTokenRevoked) {
					c.JSON(http.StatusUnauthorized, gin.H{"error": "Token has been revoked"})
					c.Abort()
					return
				}
				if err != nil {
					continue
				}
				c.Set(activeUserKey, identity)
				admitted = true
			}
			if admitted {
				break
			}
		}

		if !admitted {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication failed"})
			c.Abort()
			return
		}

		if len(route.Roles) > 0 {
			identity, ok := GetActiveUser(c)
			if !ok || !roleAllowed(identity.Role, route.Roles) {
				c.JSON(http.StatusForbidden, gin.H{
					"error": "Access denied: only [" + joinRoles(route.Roles) + "] roles are allowed",
				})
				c.Abort()
				return
			}
		}

		c.Next()
	}
}

// verifyBearer extrae y valida el access token, y rechaza tokens cuyo
// snapshot de tokenVersion ya no coincide con el valor vivo.
func verifyBearer(c *gin.Context, tokens *service.TokenService, users repository.UserRepository) (domain.ActiveUser, error) {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return domain.ActiveUser{}, service.ErrTokenInvalid
	}
	token := strings.TrimSpace(header[len("Bearer "):])

	identity, err := tokens.ParseAccess(token)
	if err != nil {
		return domain.ActiveUser{}, err
	}

	user, err := users.GetByID(c.Request.Context(), identity.Sub)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ActiveUser{}, errTokenRevoked
		}
		return domain.ActiveUser{}, err
	}
	if user.TokenVersion != identity.TokenVersion {
		return domain.ActiveUser{}, errTokenRevoked
	}

	return identity, nil
}

// GetActiveUser obtiene la identidad activa desde el contexto del request.
func GetActiveUser(c *gin.Context) (domain.ActiveUser, bool) {
	val, ok := c.Get(activeUserKey)
	if !ok {
		return domain.ActiveUser{}, false
	}
	identity, ok := val.(domain.ActiveUser)
	return identity, ok
}

func roleAllowed(role domain.Role, required []domain.Role) bool {
	for _, r := range required {
		if role == r {
			return true
		}
	}
	return false
}

func joinRoles(roles []domain.Role) string {
	parts := make([]string, len(roles))
	for i, r := range roles {
		parts[i] = string(r)
	}
	return strings.Join(parts, ", ")
}
