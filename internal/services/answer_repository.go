package services

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/datatypes"

	"github.com/yungbote/profileforms-backend/internal/data/aggregates"
	answerrepo "github.com/yungbote/profileforms-backend/internal/data/repos/answers"
	userrepo "github.com/yungbote/profileforms-backend/internal/data/repos/user"
	types "github.com/yungbote/profileforms-backend/internal/domain"
	domainagg "github.com/yungbote/profileforms-backend/internal/domain/aggregates"
	"github.com/yungbote/profileforms-backend/internal/modules/profiles/answers"
	"github.com/yungbote/profileforms-backend/internal/modules/profiles/progress"
	"github.com/yungbote/profileforms-backend/internal/modules/profiles/schema"
	"github.com/yungbote/profileforms-backend/internal/modules/profiles/validation"
	"github.com/yungbote/profileforms-backend/internal/observability"
	"github.com/yungbote/profileforms-backend/internal/platform/dbctx"
	"github.com/yungbote/profileforms-backend/internal/platform/logger"
	"github.com/yungbote/profileforms-backend/internal/realtime"
	"github.com/yungbote/profileforms-backend/internal/realtime/bus"
)

// SectionAnswers is a section definition paired with one user's answers.
type SectionAnswers struct {
	ProfileTypeID string            `json:"profileTypeId"`
	Section       schema.Section    `json:"section"`
	Answers       answers.AnswerSet `json:"answers"`
	Status        progress.Status   `json:"status"`
}

type SaveAnswersResult struct {
	SectionAnswers
	// Errors lists rejected fields; the set is stored regardless.
	Errors validation.FieldErrors `json:"errors"`
}

type AnswerRepository interface {
	GetAnswers(ctx context.Context, userID uuid.UUID, sectionID string) (SectionAnswers, error)
	SaveAnswers(ctx context.Context, userID uuid.UUID, sectionID string, submitted map[string]any) (SaveAnswersResult, error)
	// LoadAll returns every stored answer set of the user keyed by section id.
	LoadAll(ctx context.Context, userID uuid.UUID) (map[string]answers.AnswerSet, error)
}

type AnswerRepositoryDeps struct {
	Log          *logger.Logger
	Schema       domainagg.SchemaAggregate
	Answers      answerrepo.SectionAnswerRepo
	UserProfiles userrepo.UserProfileRepo
	Validator    *validation.Validator
	Bus          bus.Bus
	Metrics      *observability.Metrics
}

type answerRepository struct {
	log       *logger.Logger
	schema    domainagg.SchemaAggregate
	answers   answerrepo.SectionAnswerRepo
	users     userrepo.UserProfileRepo
	validator *validation.Validator
	evaluator *progress.Evaluator
	bus       bus.Bus
	metrics   *observability.Metrics
	clock     func() time.Time
}

func NewAnswerRepository(deps AnswerRepositoryDeps) AnswerRepository {
	v := deps.Validator
	if v == nil {
		v = validation.New()
	}
	return &answerRepository{
		log:       deps.Log.With("service", "AnswerRepository"),
		schema:    deps.Schema,
		answers:   deps.Answers,
		users:     deps.UserProfiles,
		validator: v,
		evaluator: progress.NewEvaluator(v),
		bus:       deps.Bus,
		metrics:   deps.Metrics,
		clock:     func() time.Time { return time.Now().UTC() },
	}
}

func (r *answerRepository) GetAnswers(ctx context.Context, userID uuid.UUID, sectionID string) (SectionAnswers, error) {
	ctx, span := startSpan(ctx, "AnswerRepository.GetAnswers", attribute.String("section_id", sectionID))
	defer span.End()

	ptID, sec, err := r.resolveSection(ctx, "answers.get", userID, sectionID)
	if err != nil {
		return SectionAnswers{}, endSpan(span, err)
	}
	stored, err := r.loadSet(dbctx.Context{Ctx: ctx}, userID, sec.ID)
	if err != nil {
		return SectionAnswers{}, endSpan(span, aggregates.MapError("answers.get", err))
	}
	set := answers.Materialize(sec, stored)
	return SectionAnswers{
		ProfileTypeID: ptID,
		Section:       sec,
		Answers:       set,
		Status:        r.evaluator.StatusOf(sec, set.Map()),
	}, nil
}

func (r *answerRepository) SaveAnswers(ctx context.Context, userID uuid.UUID, sectionID string, submitted map[string]any) (SaveAnswersResult, error) {
	const op = "answers.save"
	ctx, span := startSpan(ctx, "AnswerRepository.SaveAnswers", attribute.String("section_id", sectionID))
	defer span.End()

	ptID, sec, err := r.resolveSection(ctx, op, userID, sectionID)
	if err != nil {
		r.metrics.IncSectionSave("error")
		return SaveAnswersResult{}, endSpan(span, err)
	}
	dbc := dbctx.Context{Ctx: ctx}
	stored, err := r.loadSet(dbc, userID, sec.ID)
	if err != nil {
		r.metrics.IncSectionSave("error")
		return SaveAnswersResult{}, endSpan(span, aggregates.MapError(op, err))
	}

	now := r.clock()
	merged := answers.Merge(sec, stored, submitted, now)
	errs := r.validator.ValidateSection(sec, checkedAnswers(sec, merged, submitted))

	raw, err := json.Marshal(merged.Questions)
	if err != nil {
		r.metrics.IncSectionSave("error")
		return SaveAnswersResult{}, endSpan(span, aggregates.MapError(op, aggregates.InvariantError(err.Error())))
	}
	row := &types.SectionAnswer{
		UserID:        userID,
		SectionID:     sec.ID,
		ProfileTypeID: ptID,
		Label:         sec.Label,
		Questions:     datatypes.JSON(raw),
		UpdatedAt:     now,
	}
	if err := r.answers.Upsert(dbc, row); err != nil {
		r.metrics.IncSectionSave("error")
		return SaveAnswersResult{}, endSpan(span, aggregates.MapError(op, err))
	}

	status := r.evaluator.StatusOf(sec, merged.Map())
	if len(errs) > 0 {
		r.metrics.IncSectionSave("invalid")
		for _, fe := range errs {
			r.metrics.IncAnswerValidationFailure(fe.Reason)
		}
	} else {
		r.metrics.IncSectionSave("saved")
	}
	r.publish(ctx, realtime.SectionUpdated{
		UserID:        userID,
		SectionID:     sec.ID,
		ProfileTypeID: ptID,
		UpdatedAt:     now,
		Status:        string(status),
	})

	return SaveAnswersResult{
		SectionAnswers: SectionAnswers{
			ProfileTypeID: ptID,
			Section:       sec,
			Answers:       answers.Materialize(sec, &merged),
			Status:        status,
		},
		Errors: errs,
	}, nil
}

func (r *answerRepository) LoadAll(ctx context.Context, userID uuid.UUID) (map[string]answers.AnswerSet, error) {
	rows, err := r.answers.ListByUser(dbctx.Context{Ctx: ctx}, userID)
	if err != nil {
		return nil, aggregates.MapError("answers.list", err)
	}
	out := make(map[string]answers.AnswerSet, len(rows))
	for _, row := range rows {
		set, err := decodeSet(row)
		if err != nil {
			return nil, aggregates.MapError("answers.list", err)
		}
		out[row.SectionID] = set
	}
	return out, nil
}

// Publish failures are logged; the save has already committed.
func (r *answerRepository) publish(ctx context.Context, evt realtime.SectionUpdated) {
	if r.bus == nil {
		return
	}
	if err := r.bus.Publish(ctx, evt.Message()); err != nil {
		r.metrics.IncEventPublishFailure(string(realtime.EventSectionUpdated))
		r.log.Warn("section update event not published",
			"user_id", evt.UserID.String(),
			"section_id", evt.SectionID,
			"error", err,
		)
	}
}

func (r *answerRepository) resolveSection(ctx context.Context, op string, userID uuid.UUID, sectionID string) (string, schema.Section, error) {
	sectionID = strings.TrimSpace(sectionID)
	if userID == uuid.Nil {
		return "", schema.Section{}, domainagg.NewError(domainagg.CodeValidation, op, "user id is required", nil)
	}
	up, err := r.users.GetByUserID(dbctx.Context{Ctx: ctx}, userID)
	if err != nil {
		return "", schema.Section{}, aggregates.MapError(op, err)
	}
	if up == nil || up.ProfileTypeID == "" {
		return "", schema.Section{}, domainagg.NewError(domainagg.CodeNotFound, op, "user has no profile type", nil)
	}
	snap, err := r.schema.Load(ctx)
	if err != nil {
		return "", schema.Section{}, err
	}
	pt, ok := snap.Document.Get(up.ProfileTypeID)
	if !ok {
		return "", schema.Section{}, profileTypeNotFound(op, up.ProfileTypeID)
	}
	sec, ok := pt.Sections[sectionID]
	if !ok {
		return "", schema.Section{}, sectionNotFound(op, pt.ID, sectionID)
	}
	return pt.ID, sec, nil
}

func (r *answerRepository) loadSet(dbc dbctx.Context, userID uuid.UUID, sectionID string) (*answers.AnswerSet, error) {
	row, err := r.answers.Get(dbc, userID, sectionID)
	if err != nil || row == nil {
		return nil, err
	}
	set, err := decodeSet(row)
	if err != nil {
		return nil, err
	}
	return &set, nil
}

func decodeSet(row *types.SectionAnswer) (answers.AnswerSet, error) {
	set := answers.AnswerSet{ID: row.SectionID, Label: row.Label, UpdatedAt: row.UpdatedAt}
	if len(row.Questions) == 0 {
		return set, nil
	}
	if err := json.Unmarshal(row.Questions, &set.Questions); err != nil {
		return answers.AnswerSet{}, aggregates.InvariantError("stored answers for section " + row.SectionID + " are corrupt: " + err.Error())
	}
	return set, nil
}

// checkedAnswers is what a save is validated against: the raw submitted
// value of each declared question, or its merged value when not submitted,
// plus any undeclared key the caller submitted.
func checkedAnswers(sec schema.Section, merged answers.AnswerSet, submitted map[string]any) map[string]any {
	out := make(map[string]any, len(sec.Questions))
	all := merged.Map()
	for _, q := range sec.Questions {
		if v, ok := submitted[q.ID]; ok {
			out[q.ID] = v
			continue
		}
		out[q.ID] = all[q.ID]
	}
	for k, v := range submitted {
		if _, declared := out[k]; !declared {
			out[k] = v
		}
	}
	return out
}
