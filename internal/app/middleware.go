package app

import (
	httpMW "github.com/yungbote/profileforms-backend/internal/http/middleware"
	"github.com/yungbote/profileforms-backend/internal/platform/logger"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

func wireMiddleware(log *logger.Logger, cfg Config) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, httpMW.AuthConfig{
			SecretKey: cfg.JWTSecretKey,
			Issuer:    cfg.JWTIssuer,
			AdminRole: cfg.AdminRole,
		}),
	}
}
