package services

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/yungbote/profileforms-backend/internal/data/aggregates"
	domainagg "github.com/yungbote/profileforms-backend/internal/domain/aggregates"
	"github.com/yungbote/profileforms-backend/internal/modules/profiles/migration"
	"github.com/yungbote/profileforms-backend/internal/modules/profiles/schema"
	"github.com/yungbote/profileforms-backend/internal/observability"
	"github.com/yungbote/profileforms-backend/internal/platform/logger"
)

type MigrationResult struct {
	ProfileType schema.ProfileType `json:"profileType"`
	Report      migration.Report   `json:"report"`
	// DocumentVersion is the stored schema document version after the write.
	DocumentVersion int `json:"documentVersion"`
}

// SchemaMigrator applies admin edits to a stored profile type, carrying
// section questions across renames.
type SchemaMigrator interface {
	Migrate(ctx context.Context, profileTypeID string, edit migration.Edit) (MigrationResult, error)
	// Preview plans the edit against the current schema without writing.
	Preview(ctx context.Context, profileTypeID string, edit migration.Edit) (MigrationResult, error)
}

type schemaMigrator struct {
	log     *logger.Logger
	agg     domainagg.SchemaAggregate
	metrics *observability.Metrics
	clock   func() time.Time
}

func NewSchemaMigrator(log *logger.Logger, agg domainagg.SchemaAggregate, metrics *observability.Metrics) SchemaMigrator {
	return &schemaMigrator{
		log:     log.With("service", "SchemaMigrator"),
		agg:     agg,
		metrics: metrics,
		clock:   func() time.Time { return time.Now().UTC() },
	}
}

func (m *schemaMigrator) Migrate(ctx context.Context, profileTypeID string, edit migration.Edit) (MigrationResult, error) {
	profileTypeID = strings.TrimSpace(profileTypeID)
	ctx, span := startSpan(ctx, "SchemaMigrator.Migrate", attribute.String("profile_type_id", profileTypeID))
	defer span.End()

	res, err := m.agg.Migrate(ctx, domainagg.MigrateSchemaInput{
		ProfileTypeID: profileTypeID,
		Edit:          edit,
		Now:           m.clock(),
	})
	if err != nil {
		m.metrics.ObserveMigration(string(domainagg.CodeOf(err)), 0)
		return MigrationResult{}, endSpan(span, err)
	}
	m.metrics.ObserveMigration("success", res.Report.UsersRecanonicalized)
	span.SetAttributes(
		attribute.String("profile_type_id.new", res.Plan.NewID),
		attribute.Int64("users_recanonicalized", res.Report.UsersRecanonicalized),
	)
	return MigrationResult{
		ProfileType:     res.Plan.After,
		Report:          res.Report,
		DocumentVersion: res.Snapshot.Version,
	}, nil
}

func (m *schemaMigrator) Preview(ctx context.Context, profileTypeID string, edit migration.Edit) (MigrationResult, error) {
	const op = "schema.migrate_preview"
	profileTypeID = strings.TrimSpace(profileTypeID)
	ctx, span := startSpan(ctx, "SchemaMigrator.Preview", attribute.String("profile_type_id", profileTypeID))
	defer span.End()

	snap, err := m.agg.Load(ctx)
	if err != nil {
		return MigrationResult{}, endSpan(span, err)
	}
	current, ok := snap.Document.Get(profileTypeID)
	if !ok {
		return MigrationResult{}, endSpan(span, profileTypeNotFound(op, profileTypeID))
	}
	if edit.ExpectedVersion != nil {
		if err := aggregates.RequireVersionMatch(current.Metadata.Version, *edit.ExpectedVersion); err != nil {
			return MigrationResult{}, endSpan(span, aggregates.MapError(op, err))
		}
	}
	plan, err := migration.Build(current, edit, m.clock())
	if err != nil {
		return MigrationResult{}, endSpan(span, aggregates.MapError(op, err))
	}
	if plan.IDChanged() {
		if _, taken := snap.Document.Get(plan.NewID); taken {
			return MigrationResult{}, endSpan(span, aggregates.MapError(op, aggregates.ConflictError("profile type "+plan.NewID+" already exists")))
		}
	}
	return MigrationResult{ProfileType: plan.After, Report: plan.Report, DocumentVersion: snap.Version}, nil
}
