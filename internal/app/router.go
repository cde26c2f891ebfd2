package app

import (
	apphttp "github.com/yungbote/profileforms-backend/internal/http"
	"github.com/yungbote/profileforms-backend/internal/observability"
	"github.com/yungbote/profileforms-backend/internal/platform/logger"
)

func wireServer(log *logger.Logger, cfg Config, handlers Handlers, middleware Middleware, metrics *observability.Metrics) *apphttp.Server {
	return apphttp.NewServer(apphttp.RouterConfig{
		Log:                log,
		ServiceName:        serviceName,
		AllowedOrigins:     cfg.AllowedOrigins,
		Metrics:            metrics,
		AuthMiddleware:     middleware.Auth,
		ProfileTypeHandler: handlers.ProfileType,
		MeHandler:          handlers.Me,
		HealthHandler:      handlers.Health,
	})
}
