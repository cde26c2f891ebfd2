package aggregates

import (
	"context"
	"time"

	"github.com/yungbote/profileforms-backend/internal/modules/profiles/migration"
	"github.com/yungbote/profileforms-backend/internal/modules/profiles/schema"
)

// SchemaSnapshot is the decoded schema document at a stored version.
// Version 0 means nothing has been written yet.
type SchemaSnapshot struct {
	Document schema.Document
	Version  int
}

// SchemaMutation receives a private copy of the document and returns the next one.
type SchemaMutation func(doc schema.Document) (schema.Document, error)

type MutateSchemaInput struct {
	Op string
	// ExpectedVersion, when set, rejects the write unless the stored document
	// is still at that version.
	ExpectedVersion *int
	Mutate          SchemaMutation
	Now             time.Time
}

type MigrateSchemaInput struct {
	ProfileTypeID string
	Edit          migration.Edit
	Now           time.Time
}

type MigrateSchemaResult struct {
	Snapshot SchemaSnapshot
	Plan     migration.Plan
	Report   migration.Report
}

// SchemaAggregate owns the single profile-type schema document. Every write
// is a compare-and-swap on the document version; a migration that changes a
// profile type id rewrites user profile rows in the same transaction.
type SchemaAggregate interface {
	Aggregate
	Load(ctx context.Context) (SchemaSnapshot, error)
	Mutate(ctx context.Context, in MutateSchemaInput) (SchemaSnapshot, error)
	Migrate(ctx context.Context, in MigrateSchemaInput) (MigrateSchemaResult, error)
}
