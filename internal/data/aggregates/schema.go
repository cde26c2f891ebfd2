package aggregates

import (
	"context"
	"time"

	"gorm.io/datatypes"

	types "github.com/yungbote/profileforms-backend/internal/domain"
	domainagg "github.com/yungbote/profileforms-backend/internal/domain/aggregates"
	answerrepo "github.com/yungbote/profileforms-backend/internal/data/repos/answers"
	schemarepo "github.com/yungbote/profileforms-backend/internal/data/repos/schema"
	userrepo "github.com/yungbote/profileforms-backend/internal/data/repos/user"
	"github.com/yungbote/profileforms-backend/internal/modules/profiles/migration"
	"github.com/yungbote/profileforms-backend/internal/modules/profiles/schema"
	"github.com/yungbote/profileforms-backend/internal/platform/dbctx"
)

const DefaultSchemaKey = "profile_types"

type SchemaAggregateDeps struct {
	Base         BaseDeps
	Documents    schemarepo.SchemaDocumentRepo
	UserProfiles userrepo.UserProfileRepo
	// Answers, when set, has answer sets follow renamed sections and ids.
	Answers answerrepo.SectionAnswerRepo
	// Key selects the stored document; defaults to DefaultSchemaKey.
	Key string
}

type schemaAggregate struct {
	deps BaseDeps
	docs schemarepo.SchemaDocumentRepo
	ups  userrepo.UserProfileRepo
	ans  answerrepo.SectionAnswerRepo
	key  string
}

func NewSchemaAggregate(deps SchemaAggregateDeps) domainagg.SchemaAggregate {
	key := deps.Key
	if key == "" {
		key = DefaultSchemaKey
	}
	base := deps.Base.withDefaults()
	base.Log = base.Log.With("aggregate", "SchemaAggregate")
	return &schemaAggregate{deps: base, docs: deps.Documents, ups: deps.UserProfiles, ans: deps.Answers, key: key}
}

func (a *schemaAggregate) Contract() domainagg.Contract {
	return domainagg.Contract{
		Name:             "schema",
		WriteTxOwnership: domainagg.WriteTxOwnedByAggregate,
		ReadPolicy:       domainagg.ReadPolicyInvariantScoped,
		Notes:            "single versioned document; migrations rewrite user_profile rows in the same tx",
	}
}

func (a *schemaAggregate) Load(ctx context.Context) (domainagg.SchemaSnapshot, error) {
	snap, _, err := a.read(dbctx.Context{Ctx: ctx})
	if err != nil {
		return domainagg.SchemaSnapshot{}, MapError("schema.load", err)
	}
	return snap, nil
}

func (a *schemaAggregate) Mutate(ctx context.Context, in domainagg.MutateSchemaInput) (domainagg.SchemaSnapshot, error) {
	op := in.Op
	if op == "" {
		op = "schema.mutate"
	}
	if in.Mutate == nil {
		return domainagg.SchemaSnapshot{}, MapError(op, ValidationError("mutation is required"))
	}
	now := a.now(in.Now)

	var out domainagg.SchemaSnapshot
	err := executeWrite(ctx, a.deps, op, func(dbc dbctx.Context) error {
		snap, row, err := a.read(dbc)
		if err != nil {
			return err
		}
		if in.ExpectedVersion != nil {
			if err := RequireVersionMatch(snap.Version, *in.ExpectedVersion); err != nil {
				return err
			}
		}
		next, err := in.Mutate(snap.Document.Clone())
		if err != nil {
			return err
		}
		out, err = a.write(dbc, row, snap.Version, next, now)
		return err
	})
	if err != nil {
		return domainagg.SchemaSnapshot{}, err
	}
	return out, nil
}

func (a *schemaAggregate) Migrate(ctx context.Context, in domainagg.MigrateSchemaInput) (domainagg.MigrateSchemaResult, error) {
	const op = "schema.migrate"
	now := a.now(in.Now)

	var out domainagg.MigrateSchemaResult
	err := executeWrite(ctx, a.deps, op, func(dbc dbctx.Context) error {
		snap, row, err := a.read(dbc)
		if err != nil {
			return err
		}
		current, ok := snap.Document.Get(in.ProfileTypeID)
		if !ok {
			return domainagg.NewError(domainagg.CodeNotFound, op, "profile type "+in.ProfileTypeID+" not found", nil)
		}
		if in.Edit.ExpectedVersion != nil {
			if err := RequireVersionMatch(current.Metadata.Version, *in.Edit.ExpectedVersion); err != nil {
				return err
			}
		}

		plan, err := migration.Build(current, in.Edit, now)
		if err != nil {
			return err
		}
		if plan.IDChanged() {
			if _, taken := snap.Document.Get(plan.NewID); taken {
				return ConflictError("profile type " + plan.NewID + " already exists")
			}
		}

		written, err := a.write(dbc, row, snap.Version, plan.ApplyTo(snap.Document), now)
		if err != nil {
			return err
		}
		// Sections are renamed while users still reference OldID.
		if a.ans != nil && len(plan.Diff.Renamed) > 0 {
			n, err := a.ans.RenameSections(dbc, plan.OldID, plan.Diff.Renamed)
			if err != nil {
				return err
			}
			plan.Report.AnswerSetsMoved = n
		}
		if plan.IDChanged() {
			n, err := a.ups.RecanonicalizeProfileType(dbc, plan.OldID, plan.NewID)
			if err != nil {
				return err
			}
			plan.Report.UsersRecanonicalized = n
			if a.ans != nil {
				if _, err := a.ans.RecanonicalizeProfileType(dbc, plan.OldID, plan.NewID); err != nil {
					return err
				}
			}
		}
		out = domainagg.MigrateSchemaResult{Snapshot: written, Plan: plan, Report: plan.Report}
		return nil
	})
	if err != nil {
		return domainagg.MigrateSchemaResult{}, err
	}

	a.deps.Log.Info("profile type migrated",
		"profile_type_id", out.Report.ProfileTypeID,
		"previous_id", out.Report.PreviousID,
		"sections_added", out.Report.SectionsAdded,
		"sections_removed", out.Report.SectionsRemoved,
		"sections_renamed", out.Report.SectionsRenamed,
		"questions_dropped", out.Report.QuestionsDropped,
		"users_recanonicalized", out.Report.UsersRecanonicalized,
		"answer_sets_moved", out.Report.AnswerSetsMoved,
		"version", out.Snapshot.Version,
	)
	return out, nil
}

func (a *schemaAggregate) read(dbc dbctx.Context) (domainagg.SchemaSnapshot, *types.SchemaDocument, error) {
	row, err := a.docs.GetByKey(dbc, a.key)
	if err != nil {
		return domainagg.SchemaSnapshot{}, nil, err
	}
	if row == nil {
		return domainagg.SchemaSnapshot{Document: schema.NewDocument()}, nil, nil
	}
	doc, err := schema.DecodeDocument(row.Document)
	if err != nil {
		return domainagg.SchemaSnapshot{}, nil, InvariantError(err.Error())
	}
	return domainagg.SchemaSnapshot{Document: doc, Version: row.Version}, row, nil
}

// write inserts the first version or compare-and-swaps from version.
func (a *schemaAggregate) write(dbc dbctx.Context, row *types.SchemaDocument, version int, doc schema.Document, now time.Time) (domainagg.SchemaSnapshot, error) {
	raw, err := schema.EncodeDocument(doc)
	if err != nil {
		return domainagg.SchemaSnapshot{}, InvariantError(err.Error())
	}
	if row == nil {
		created := &types.SchemaDocument{
			Key:       a.key,
			Version:   1,
			Document:  datatypes.JSON(raw),
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := a.docs.Create(dbc, created); err != nil {
			return domainagg.SchemaSnapshot{}, err
		}
		return domainagg.SchemaSnapshot{Document: doc, Version: 1}, nil
	}
	ok, err := a.deps.CASGuard.UpdateByVersion(dbc, types.SchemaDocument{}.TableName(), row.ID, version, map[string]any{
		"document":   datatypes.JSON(raw),
		"version":    version + 1,
		"updated_at": now,
	})
	if err != nil {
		return domainagg.SchemaSnapshot{}, err
	}
	if err := RequireCASSuccess(ok, "schema document changed concurrently"); err != nil {
		return domainagg.SchemaSnapshot{}, err
	}
	return domainagg.SchemaSnapshot{Document: doc, Version: version + 1}, nil
}

func (a *schemaAggregate) now(t time.Time) time.Time {
	if !t.IsZero() {
		return t.UTC()
	}
	return a.deps.Clock()
}
