package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/profileforms-backend/internal/data/aggregates"
	domainagg "github.com/yungbote/profileforms-backend/internal/domain/aggregates"
	"github.com/yungbote/profileforms-backend/internal/modules/profiles/validation"
	"github.com/yungbote/profileforms-backend/internal/observability"
	"github.com/yungbote/profileforms-backend/internal/platform/logger"
	"github.com/yungbote/profileforms-backend/internal/realtime/bus"
	"github.com/yungbote/profileforms-backend/internal/services"
)

type Services struct {
	Schema      domainagg.SchemaAggregate
	Bus         bus.Bus
	ProfileType services.ProfileTypeService
}

func wireBus(log *logger.Logger, cfg Config) (bus.Bus, error) {
	if cfg.RedisAddr == "" {
		log.Info("REDIS_ADDR not set; section events stay in process")
		return bus.NewMemoryBus(log), nil
	}
	b, err := bus.NewRedisBus(bus.RedisConfig{Addr: cfg.RedisAddr, Channel: cfg.RedisChannel}, log)
	if err != nil {
		return nil, fmt.Errorf("init redis bus: %w", err)
	}
	return b, nil
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, repos Repos, events bus.Bus, metrics *observability.Metrics) Services {
	log.Info("Wiring services...")

	schemaAgg := aggregates.NewSchemaAggregate(aggregates.SchemaAggregateDeps{
		Base: aggregates.BaseDeps{
			DB:    db,
			Log:   log,
			Hooks: aggregates.NewObservabilityHooks(metrics),
		},
		Documents:    repos.SchemaDocument,
		UserProfiles: repos.UserProfile,
		Answers:      repos.SectionAnswer,
		Key:          cfg.SchemaDocumentKey,
	})

	var opts []validation.Option
	if cfg.StrictOptionValidation {
		opts = append(opts, validation.WithStrictOptions())
	}
	validator := validation.New(opts...)
	log.Info("Answer validator configured", "strict_options", validator.StrictOptions())

	store := services.NewSchemaStore(log, schemaAgg)
	migrator := services.NewSchemaMigrator(log, schemaAgg, metrics)
	answers := services.NewAnswerRepository(services.AnswerRepositoryDeps{
		Log:          log,
		Schema:       schemaAgg,
		Answers:      repos.SectionAnswer,
		UserProfiles: repos.UserProfile,
		Validator:    validator,
		Bus:          events,
		Metrics:      metrics,
	})

	return Services{
		Schema: schemaAgg,
		Bus:    events,
		ProfileType: services.NewProfileTypeService(services.ProfileTypeServiceDeps{
			Log:          log,
			Store:        store,
			Migrator:     migrator,
			Answers:      answers,
			UserProfiles: repos.UserProfile,
			Validator:    validator,
		}),
	}
}
