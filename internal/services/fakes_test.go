package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/profileforms-backend/internal/data/aggregates"
	answerrepo "github.com/yungbote/profileforms-backend/internal/data/repos/answers"
	userrepo "github.com/yungbote/profileforms-backend/internal/data/repos/user"
	types "github.com/yungbote/profileforms-backend/internal/domain"
	domainagg "github.com/yungbote/profileforms-backend/internal/domain/aggregates"
	"github.com/yungbote/profileforms-backend/internal/modules/profiles/migration"
	"github.com/yungbote/profileforms-backend/internal/modules/profiles/schema"
	"github.com/yungbote/profileforms-backend/internal/platform/dbctx"
	"github.com/yungbote/profileforms-backend/internal/realtime"
)

// memSchema is an in-memory SchemaAggregate with the same version and
// error semantics as the stored one.
type memSchema struct {
	mu      sync.Mutex
	doc     schema.Document
	version int
	users   *memUsers
	answers *memAnswers
	writes  int
}

var (
	_ domainagg.SchemaAggregate    = (*memSchema)(nil)
	_ userrepo.UserProfileRepo     = (*memUsers)(nil)
	_ answerrepo.SectionAnswerRepo = (*memAnswers)(nil)
)

func newMemSchema(users *memUsers, answers *memAnswers) *memSchema {
	if answers != nil && answers.users == nil {
		answers.users = users
	}
	return &memSchema{doc: schema.NewDocument(), users: users, answers: answers}
}

func (m *memSchema) Contract() domainagg.Contract { return domainagg.Contract{Name: "schema"} }

func (m *memSchema) Load(context.Context) (domainagg.SchemaSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return domainagg.SchemaSnapshot{Document: m.doc.Clone(), Version: m.version}, nil
}

func (m *memSchema) Mutate(_ context.Context, in domainagg.MutateSchemaInput) (domainagg.SchemaSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if in.ExpectedVersion != nil {
		if err := aggregates.RequireVersionMatch(m.version, *in.ExpectedVersion); err != nil {
			return domainagg.SchemaSnapshot{}, aggregates.MapError(in.Op, err)
		}
	}
	next, err := in.Mutate(m.doc.Clone())
	if err != nil {
		return domainagg.SchemaSnapshot{}, aggregates.MapError(in.Op, err)
	}
	m.doc = next
	m.version++
	m.writes++
	return domainagg.SchemaSnapshot{Document: next.Clone(), Version: m.version}, nil
}

func (m *memSchema) Migrate(_ context.Context, in domainagg.MigrateSchemaInput) (domainagg.MigrateSchemaResult, error) {
	const op = "schema.migrate"
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.doc.Get(in.ProfileTypeID)
	if !ok {
		return domainagg.MigrateSchemaResult{}, domainagg.NewError(domainagg.CodeNotFound, op, "not found", nil)
	}
	if in.Edit.ExpectedVersion != nil {
		if err := aggregates.RequireVersionMatch(current.Metadata.Version, *in.Edit.ExpectedVersion); err != nil {
			return domainagg.MigrateSchemaResult{}, aggregates.MapError(op, err)
		}
	}
	plan, err := migration.Build(current, in.Edit, in.Now)
	if err != nil {
		return domainagg.MigrateSchemaResult{}, aggregates.MapError(op, err)
	}
	m.doc = plan.ApplyTo(m.doc)
	m.version++
	m.writes++

	dbc := dbctx.Context{}
	var ans answerrepo.SectionAnswerRepo
	if m.answers != nil {
		ans = m.answers
	}
	if ans != nil && len(plan.Diff.Renamed) > 0 {
		n, err := ans.RenameSections(dbc, plan.OldID, plan.Diff.Renamed)
		if err != nil {
			return domainagg.MigrateSchemaResult{}, aggregates.MapError(op, err)
		}
		plan.Report.AnswerSetsMoved = n
	}
	if plan.IDChanged() {
		var users userrepo.UserProfileRepo
		if m.users != nil {
			users = m.users
		}
		if users != nil {
			n, err := users.RecanonicalizeProfileType(dbc, plan.OldID, plan.NewID)
			if err != nil {
				return domainagg.MigrateSchemaResult{}, aggregates.MapError(op, err)
			}
			plan.Report.UsersRecanonicalized = n
		}
		if ans != nil {
			if _, err := ans.RecanonicalizeProfileType(dbc, plan.OldID, plan.NewID); err != nil {
				return domainagg.MigrateSchemaResult{}, aggregates.MapError(op, err)
			}
		}
	}
	return domainagg.MigrateSchemaResult{
		Snapshot: domainagg.SchemaSnapshot{Document: m.doc.Clone(), Version: m.version},
		Plan:     plan,
		Report:   plan.Report,
	}, nil
}

type memUsers struct {
	mu   sync.Mutex
	rows map[uuid.UUID]string
}

func newMemUsers() *memUsers { return &memUsers{rows: map[uuid.UUID]string{}} }

func (u *memUsers) GetByUserID(_ dbctx.Context, userID uuid.UUID) (*types.UserProfile, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	pt, ok := u.rows[userID]
	if !ok {
		return nil, nil
	}
	return &types.UserProfile{UserID: userID, ProfileTypeID: pt}, nil
}

func (u *memUsers) Upsert(_ dbctx.Context, row *types.UserProfile) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.rows[row.UserID] = row.ProfileTypeID
	return nil
}

func (u *memUsers) CountByProfileType(_ dbctx.Context, profileTypeID string) (int64, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	var n int64
	for _, pt := range u.rows {
		if pt == profileTypeID {
			n++
		}
	}
	return n, nil
}

func (u *memUsers) RecanonicalizeProfileType(_ dbctx.Context, oldID, newID string) (int64, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	var n int64
	for id, pt := range u.rows {
		if pt == oldID {
			u.rows[id] = newID
			n++
		}
	}
	return n, nil
}

type answerKey struct {
	user    uuid.UUID
	section string
}

type memAnswers struct {
	mu        sync.Mutex
	users     *memUsers
	rows      map[answerKey]types.SectionAnswer
	upsertErr error
}

func newMemAnswers() *memAnswers { return &memAnswers{rows: map[answerKey]types.SectionAnswer{}} }

func (a *memAnswers) Get(_ dbctx.Context, userID uuid.UUID, sectionID string) (*types.SectionAnswer, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	row, ok := a.rows[answerKey{userID, sectionID}]
	if !ok {
		return nil, nil
	}
	return &row, nil
}

func (a *memAnswers) ListByUser(_ dbctx.Context, userID uuid.UUID) ([]*types.SectionAnswer, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	var out []*types.SectionAnswer
	for k, row := range a.rows {
		if k.user == userID {
			row := row
			out = append(out, &row)
		}
	}
	return out, nil
}

func (a *memAnswers) Upsert(_ dbctx.Context, row *types.SectionAnswer) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.upsertErr != nil {
		return a.upsertErr
	}
	a.rows[answerKey{row.UserID, row.SectionID}] = *row
	return nil
}

func (a *memAnswers) RenameSections(_ dbctx.Context, profileTypeID string, renames map[string]string) (int64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	onType := func(uuid.UUID) bool { return true }
	if a.users != nil {
		a.users.mu.Lock()
		defer a.users.mu.Unlock()
		onType = func(u uuid.UUID) bool { return a.users.rows[u] == profileTypeID }
	}

	next := make(map[answerKey]types.SectionAnswer, len(a.rows))
	var moving []answerKey
	for k, row := range a.rows {
		if to, ok := renames[k.section]; ok && to != k.section && onType(k.user) {
			moving = append(moving, k)
			continue
		}
		next[k] = row
	}
	var moved int64
	for _, k := range moving {
		row := a.rows[k]
		target := answerKey{k.user, renames[k.section]}
		if _, taken := next[target]; taken {
			next[k] = row
			continue
		}
		row.SectionID = target.section
		next[target] = row
		moved++
	}
	a.rows = next
	return moved, nil
}

func (a *memAnswers) RecanonicalizeProfileType(_ dbctx.Context, oldID, newID string) (int64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	var n int64
	for k, row := range a.rows {
		if row.ProfileTypeID == oldID && oldID != newID {
			row.ProfileTypeID = newID
			a.rows[k] = row
			n++
		}
	}
	return n, nil
}

type spyBus struct {
	mu         sync.Mutex
	published  []realtime.Message
	publishErr error
}

func (b *spyBus) Publish(_ context.Context, msg realtime.Message) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.publishErr != nil {
		return b.publishErr
	}
	b.published = append(b.published, msg)
	return nil
}

func (b *spyBus) StartForwarder(context.Context, func(realtime.Message)) error {
	return errors.New("not supported")
}

func (b *spyBus) Close() error { return nil }

func (b *spyBus) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.published)
}

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }
