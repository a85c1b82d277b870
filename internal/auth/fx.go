package auth

import (
	"errors"
	"time"

	"github.com/unusco/unus/internal/auth/service"
	"github.com/unusco/unus/internal/auth/token"
	"github.com/unusco/unus/internal/config"
	"go.uber.org/fx"
)

// devFallbackSecret keeps local runs working without a .env file. Any
// other environment must configure a real secret.
const devFallbackSecret = "unus-development-secret"

var Module = fx.Module("auth.service",
	fx.Provide(provideIssuer),
	fx.Provide(service.New),
)

func provideIssuer(cfg config.Config) (*token.Issuer, error) {
	secret := cfg.AuthJWTSecret
	if secret == "" {
		if cfg.Environment != "development" {
			return nil, errors.New("AUTH_JWT_SECRET must be set outside development")
		}
		secret = devFallbackSecret
	}

	ttl := time.Duration(cfg.AuthTokenTTLMins) * time.Minute
	if ttl <= 0 {
		ttl = time.Hour
	}
	return token.NewIssuer(secret, ttl), nil
}
