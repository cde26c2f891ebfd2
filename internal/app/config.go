package app

import (
	"strings"
	"time"

	"github.com/yungbote/profileforms-backend/internal/data/aggregates"
	"github.com/yungbote/profileforms-backend/internal/data/db"
	"github.com/yungbote/profileforms-backend/internal/platform/envutil"
	"github.com/yungbote/profileforms-backend/internal/platform/logger"
)

type Config struct {
	Environment string
	HTTPAddr    string

	DBDriver   string
	Postgres   db.PostgresConfig
	SQLitePath string

	SchemaDocumentKey string
	SeedEnabled       bool
	SeedPath          string

	RedisAddr    string
	RedisChannel string

	JWTSecretKey   string
	JWTIssuer      string
	AdminRole      string
	AllowedOrigins []string

	MetricsEnabled        bool
	MetricsAddr           string
	MetricsScrapeInterval time.Duration

	OtelEnabled     bool
	OtelEndpoint    string
	OtelHeaders     map[string]string
	OtelInsecure    bool
	OtelSampleRatio float64

	StrictOptionValidation bool
	ShutdownTimeout        time.Duration
}

func LoadConfig(log *logger.Logger) Config {
	return Config{
		Environment: envutil.String("APP_ENV", "development", log),
		HTTPAddr:    envutil.String("HTTP_ADDR", ":8080", log),

		DBDriver: strings.ToLower(envutil.String("DB_DRIVER", "postgres", log)),
		Postgres: db.PostgresConfig{
			Host:     envutil.String("POSTGRES_HOST", "localhost", log),
			Port:     envutil.String("POSTGRES_PORT", "5432", log),
			User:     envutil.String("POSTGRES_USER", "postgres", log),
			Password: envutil.String("POSTGRES_PASSWORD", "", log),
			Name:     envutil.String("POSTGRES_NAME", "profileforms", log),
			SSLMode:  envutil.String("POSTGRES_SSLMODE", "disable", log),
		},
		SQLitePath: envutil.String("SQLITE_PATH", "profileforms.db", log),

		SchemaDocumentKey: envutil.String("SCHEMA_DOCUMENT_KEY", aggregates.DefaultSchemaKey, log),
		SeedEnabled:       envutil.Bool("SCHEMA_SEED_ENABLED", true, log),
		SeedPath:          envutil.String("SCHEMA_SEED_PATH", "", log),

		RedisAddr:    envutil.String("REDIS_ADDR", "", log),
		RedisChannel: envutil.String("REDIS_CHANNEL", "profileforms-events", log),

		JWTSecretKey:   envutil.String("JWT_SECRET_KEY", "defaultsecret", log),
		JWTIssuer:      envutil.String("JWT_ISSUER", "", log),
		AdminRole:      envutil.String("ADMIN_ROLE", "admin", log),
		AllowedOrigins: envutil.CSV("CORS_ALLOWED_ORIGINS", nil, log),

		MetricsEnabled:        envutil.Bool("METRICS_ENABLED", false, log),
		MetricsAddr:           envutil.String("METRICS_ADDR", ":9090", log),
		MetricsScrapeInterval: envutil.Duration("METRICS_SCRAPE_INTERVAL", 10*time.Second, log),

		OtelEnabled:     envutil.Bool("OTEL_ENABLED", false, log),
		OtelEndpoint:    envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", "", log),
		OtelHeaders:     envutil.KeyValues("OTEL_EXPORTER_OTLP_HEADERS", log),
		OtelInsecure:    envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", false, log),
		OtelSampleRatio: envutil.Float("OTEL_SAMPLER_RATIO", 1, log),

		StrictOptionValidation: envutil.Bool("STRICT_OPTION_VALIDATION", false, log),
		ShutdownTimeout:        envutil.Duration("SHUTDOWN_TIMEOUT", 10*time.Second, log),
	}
}
