package config

import (
	"time"

	"github.com/caarlos0/env/v10"
)

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort    string `env:"HTTP_PORT" envDefault:"8080"`
	DatabaseURL string `env:"DATABASE_URL,required"`

	JWTSecret       string        `env:"JWT_SECRET,required"`
	JWTAudience     string        `env:"JWT_TOKEN_AUDIENCE" envDefault:"car-market"`
	JWTIssuer       string        `env:"JWT_TOKEN_ISSUER" envDefault:"car-market"`
	AccessTokenTTL  time.Duration `env:"JWT_ACCESS_TOKEN_TTL" envDefault:"15m"`
	RefreshTokenTTL time.Duration `env:"JWT_REFRESH_TOKEN_TTL" envDefault:"720h"`

	GoogleClientID string `env:"GOOGLE_CLIENT_ID"`

	AWSRegion     string `env:"AWS_REGION"`
	AWSBucketName string `env:"AWS_BUCKET_NAME"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
