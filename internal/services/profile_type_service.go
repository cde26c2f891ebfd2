package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/yungbote/profileforms-backend/internal/data/aggregates"
	userrepo "github.com/yungbote/profileforms-backend/internal/data/repos/user"
	types "github.com/yungbote/profileforms-backend/internal/domain"
	domainagg "github.com/yungbote/profileforms-backend/internal/domain/aggregates"
	"github.com/yungbote/profileforms-backend/internal/modules/profiles/progress"
	"github.com/yungbote/profileforms-backend/internal/modules/profiles/schema"
	"github.com/yungbote/profileforms-backend/internal/modules/profiles/validation"
	"github.com/yungbote/profileforms-backend/internal/platform/dbctx"
	"github.com/yungbote/profileforms-backend/internal/platform/logger"
)

// UserProgress is a user's completion of their assigned profile type.
type UserProgress struct {
	UserID        uuid.UUID `json:"userId"`
	ProfileTypeID string    `json:"profileTypeId"`
	progress.Result
}

// ProfileTypeService is the facade callers use: the admin editor, the form
// renderer and the dashboard.
type ProfileTypeService interface {
	SchemaStore
	SchemaMigrator
	AnswerRepository

	AssignProfileType(ctx context.Context, userID uuid.UUID, profileTypeID string) error
	UserProgress(ctx context.Context, userID uuid.UUID) (UserProgress, error)
	ComputeProgress(pt schema.ProfileType, answers map[string]map[string]any) progress.Result
}

type ProfileTypeServiceDeps struct {
	Log          *logger.Logger
	Store        SchemaStore
	Migrator     SchemaMigrator
	Answers      AnswerRepository
	UserProfiles userrepo.UserProfileRepo
	Validator    *validation.Validator
}

type profileTypeService struct {
	SchemaStore
	SchemaMigrator
	AnswerRepository

	log       *logger.Logger
	users     userrepo.UserProfileRepo
	evaluator *progress.Evaluator
}

func NewProfileTypeService(deps ProfileTypeServiceDeps) ProfileTypeService {
	return &profileTypeService{
		SchemaStore:      deps.Store,
		SchemaMigrator:   deps.Migrator,
		AnswerRepository: deps.Answers,
		log:              deps.Log.With("service", "ProfileTypeService"),
		users:            deps.UserProfiles,
		evaluator:        progress.NewEvaluator(deps.Validator),
	}
}

func (s *profileTypeService) AssignProfileType(ctx context.Context, userID uuid.UUID, profileTypeID string) error {
	const op = "profiles.assign"
	profileTypeID = strings.TrimSpace(profileTypeID)
	ctx, span := startSpan(ctx, "ProfileTypeService.AssignProfileType", attribute.String("profile_type_id", profileTypeID))
	defer span.End()

	if userID == uuid.Nil {
		return endSpan(span, domainagg.NewError(domainagg.CodeValidation, op, "user id is required", nil))
	}
	if _, err := s.GetProfileType(ctx, profileTypeID); err != nil {
		return endSpan(span, err)
	}
	if err := s.users.Upsert(dbctx.Context{Ctx: ctx}, &types.UserProfile{UserID: userID, ProfileTypeID: profileTypeID}); err != nil {
		return endSpan(span, aggregates.MapError(op, err))
	}
	s.log.Info("profile type assigned", "user_id", userID.String(), "profile_type_id", profileTypeID)
	return nil
}

// UserProgress scores every stored answer set of the user against the
// current definition of their profile type. Sets for sections that no longer
// exist are ignored.
func (s *profileTypeService) UserProgress(ctx context.Context, userID uuid.UUID) (UserProgress, error) {
	const op = "profiles.progress"
	ctx, span := startSpan(ctx, "ProfileTypeService.UserProgress")
	defer span.End()

	up, err := s.users.GetByUserID(dbctx.Context{Ctx: ctx}, userID)
	if err != nil {
		return UserProgress{}, endSpan(span, aggregates.MapError(op, err))
	}
	if up == nil || up.ProfileTypeID == "" {
		return UserProgress{}, endSpan(span, domainagg.NewError(domainagg.CodeNotFound, op, "user has no profile type", nil))
	}
	pt, err := s.GetProfileType(ctx, up.ProfileTypeID)
	if err != nil {
		return UserProgress{}, endSpan(span, err)
	}
	sets, err := s.LoadAll(ctx, userID)
	if err != nil {
		return UserProgress{}, endSpan(span, err)
	}
	byID := make(map[string]map[string]any, len(sets))
	for id, set := range sets {
		byID[id] = set.Map()
	}
	res := s.ComputeProgress(pt, byID)
	span.SetAttributes(attribute.Int("progress.percent", res.Percent))
	return UserProgress{UserID: userID, ProfileTypeID: pt.ID, Result: res}, nil
}

func (s *profileTypeService) ComputeProgress(pt schema.ProfileType, answers map[string]map[string]any) progress.Result {
	return s.evaluator.Compute(pt, answers)
}
