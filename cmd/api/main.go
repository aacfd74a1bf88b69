package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"car-market/internal/config"
	"car-market/internal/db"
	"car-market/internal/googleauth"
	apihttp "car-market/internal/http"
	"car-market/internal/repository"
	"car-market/internal/service"
	"car-market/internal/uploads"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	userRepo := repository.NewPgUserRepository(pool)
	listingRepo := repository.NewPgCarListingRepository(pool)
	manufacturerRepo := repository.NewPgManufacturerRepository(pool)
	modelRepo := repository.NewPgCarModelRepository(pool)

	var uploader uploads.Uploader = uploads.NewDisabledUploader("uploader not configured")
	if cfg.AWSBucketName != "" {
		s3Uploader, err := uploads.NewS3Uploader(ctx, cfg.AWSRegion, cfg.AWSBucketName)
		if err != nil {
			logger.Warn("s3 uploader init failed", zap.Error(err))
		} else {
			uploader = s3Uploader
		}
	}

	signInLimiter := service.NewSignInRateLimiter(time.Minute, 10)
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed", zap.Error(err))
		} else {
			signInLimiter = service.NewRedisSignInRateLimiter(redisClient, time.Minute, 10)
		}
		cancel()
	}

	tokenSvc := service.NewTokenService(
		cfg.JWTSecret,
		cfg.JWTAudience,
		cfg.JWTIssuer,
		cfg.AccessTokenTTL,
		cfg.RefreshTokenTTL,
		userRepo,
	)

	var verifier googleauth.Verifier = &googleauth.MockVerifier{Err: googleauth.ErrTokenRejected}
	if cfg.GoogleClientID != "" {
		verifier = googleauth.NewHTTPVerifier(cfg.GoogleClientID)
	} else {
		logger.Warn("google client id not configured")
	}

	authSvc := service.NewAuthService(logger, userRepo, tokenSvc, signInLimiter)
	googleSvc := service.NewGoogleAuthService(logger, userRepo, tokenSvc, verifier)
	userSvc := service.NewUserService(logger, userRepo, uploader)
	listingSvc := service.NewCarListingService(logger, listingRepo, manufacturerRepo, modelRepo, uploader)
	manufacturerSvc := service.NewManufacturerService(logger, manufacturerRepo, uploader)
	modelSvc := service.NewCarModelService(logger, modelRepo)

	authHandler := apihttp.NewAuthHandler(logger, authSvc, tokenSvc, googleSvc)
	userHandler := apihttp.NewUserHandler(logger, userSvc)
	listingHandler := apihttp.NewCarListingHandler(logger, listingSvc)
	manufacturerHandler := apihttp.NewManufacturerHandler(logger, manufacturerSvc)
	modelHandler := apihttp.NewCarModelHandler(logger, modelSvc)

	router := apihttp.NewRouter(
		logger,
		tokenSvc,
		userRepo,
		authHandler,
		userHandler,
		listingHandler,
		manufacturerHandler,
		modelHandler,
	)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
