package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/profileforms-backend/internal/http/handlers"
	httpMW "github.com/yungbote/profileforms-backend/internal/http/middleware"
	"github.com/yungbote/profileforms-backend/internal/observability"
	"github.com/yungbote/profileforms-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	ServiceName    string
	AllowedOrigins []string
	Metrics        *observability.Metrics

	AuthMiddleware     *httpMW.AuthMiddleware
	ProfileTypeHandler *httpH.ProfileTypeHandler
	MeHandler          *httpH.MeHandler
	HealthHandler      *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "profileforms"
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(serviceName))
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.AllowedOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	if cfg.AuthMiddleware != nil {
		api.Use(cfg.AuthMiddleware.RequireAuth())
	}

	// Schema (read-only, form renderer)
	if cfg.ProfileTypeHandler != nil {
		api.GET("/profile-types", cfg.ProfileTypeHandler.List)
		api.GET("/profile-types/:id", cfg.ProfileTypeHandler.Get)
	}

	// Schema editor
	admin := api.Group("/admin")
	if cfg.AuthMiddleware != nil {
		admin.Use(cfg.AuthMiddleware.RequireAdmin())
	}
	if cfg.ProfileTypeHandler != nil {
		admin.GET("/profile-types", cfg.ProfileTypeHandler.List)
		admin.POST("/profile-types", cfg.ProfileTypeHandler.Create)
		admin.GET("/profile-types/:id", cfg.ProfileTypeHandler.Get)
		admin.PUT("/profile-types/:id", cfg.ProfileTypeHandler.Update)
		admin.DELETE("/profile-types/:id", cfg.ProfileTypeHandler.Delete)
		admin.PUT("/profile-types/:id/sections/:sectionId/questions", cfg.ProfileTypeHandler.SaveQuestions)
	}

	// Me
	if cfg.MeHandler != nil {
		me := api.Group("/me")
		me.PUT("/profile-type", cfg.MeHandler.AssignProfileType)
		me.GET("/sections/:sectionId", cfg.MeHandler.GetSection)
		me.PUT("/sections/:sectionId", cfg.MeHandler.SaveSection)
		me.GET("/progress", cfg.MeHandler.Progress)
	}

	return r
}
