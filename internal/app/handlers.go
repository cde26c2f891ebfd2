package app

import (
	httpH "github.com/yungbote/profileforms-backend/internal/http/handlers"
	"github.com/yungbote/profileforms-backend/internal/platform/logger"
)

type Handlers struct {
	Health      *httpH.HealthHandler
	ProfileType *httpH.ProfileTypeHandler
	Me          *httpH.MeHandler
}

func wireHandlers(log *logger.Logger, services Services, db httpH.Pinger) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:      httpH.NewHealthHandler(db),
		ProfileType: httpH.NewProfileTypeHandler(log, services.ProfileType),
		Me:          httpH.NewMeHandler(log, services.ProfileType),
	}
}
