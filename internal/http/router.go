package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"car-market/internal/domain"
	"car-market/internal/repository"
	"car-market/internal/service"
)

// NewRouter configura el router de Gin con middlewares y la tabla de
// rutas. Cada ruta declara explicitamente su politica de acceso.
func NewRouter(
	logger *zap.Logger,
	tokens *service.TokenService,
	users repository.UserRepository,
	authH *AuthHandler,
	userH *UserHandler,
	listingH *CarListingHandler,
	manufacturerH *ManufacturerHandler,
	modelH *CarModelHandler,
) *gin.Engine {
	r := gin.New()

	// Middlewares basicos: logging, recovery y JSON content-type.
	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), jsonContentTypeMiddleware())

	open := Guard(tokens, users, RouteAuth{Types: []AuthType{AuthNone}})
	bearer := Guard(tokens, users, RouteAuth{Types: []AuthType{AuthBearer}})
	adminOnly := Guard(tokens, users, RouteAuth{
		Types: []AuthType{AuthBearer},
		Roles: []domain.Role{domain.RoleAdmin},
	})
	staff := Guard(tokens, users, RouteAuth{
		Types: []AuthType{AuthBearer},
		Roles: []domain.Role{domain.RoleAdmin, domain.RoleDealer},
	})

	auth := r.Group("/auth")
	auth.POST("/sign-up", open, authH.SignUp)
	auth.POST("/sign-in", open, authH.SignIn)
	auth.POST("/sign-out", bearer, authH.SignOut)
	auth.POST("/refresh-tokens", open, authH.RefreshTokens)
	auth.PATCH("/update-password", bearer, authH.UpdatePassword)
	auth.POST("/google", open, authH.GoogleAuth)

	usersGrp := r.Group("/users")
	usersGrp.GET("", staff, userH.GetAllUsers)
	usersGrp.GET("/:id", staff, userH.GetSingleUser)
	usersGrp.PATCH("/:id/role", adminOnly, userH.UpdateUserRole)
	usersGrp.PATCH("/:id/toggle-block", adminOnly, userH.ToggleBlockUser)
	usersGrp.DELETE("/:id", adminOnly, userH.DeleteUser)

	me := r.Group("/me", bearer)
	me.GET("/profile", userH.GetProfile)
	me.PATCH("/profile", userH.UpdateProfile)
	me.DELETE("/account", userH.DeleteAccount)
	me.GET("/car-listings", listingH.GetMyListings)

	listings := r.Group("/car-listing")
	listings.GET("", open, listingH.GetAll)
	listings.POST("", bearer, listingH.Create)
	listings.GET("/:id", open, listingH.GetOne)
	listings.PATCH("/:id", bearer, listingH.Update)
	listings.DELETE("/:id", bearer, listingH.Delete)

	manufacturers := r.Group("/manufacturer")
	manufacturers.GET("", open, manufacturerH.GetAll)
	manufacturers.POST("", staff, manufacturerH.Create)
	manufacturers.PATCH("/:id", staff, manufacturerH.Update)
	manufacturers.DELETE("/:id", staff, manufacturerH.Delete)

	models := r.Group("/car-model")
	models.GET("", open, modelH.GetAll)
	models.POST("", staff, modelH.Create)
	models.PATCH("/:id", staff, modelH.Update)
	models.DELETE("/:id", staff, modelH.Delete)

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
