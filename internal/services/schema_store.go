package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/yungbote/profileforms-backend/internal/data/aggregates"
	domainagg "github.com/yungbote/profileforms-backend/internal/domain/aggregates"
	"github.com/yungbote/profileforms-backend/internal/modules/profiles/schema"
	"github.com/yungbote/profileforms-backend/internal/platform/logger"
)

type SectionInput struct {
	Label             string                   `json:"label"`
	RequirementPolicy schema.RequirementPolicy `json:"requirementPolicy,omitempty"`
	Questions         []schema.Question        `json:"questions,omitempty"`
}

type CreateProfileTypeInput struct {
	Label    string                  `json:"label"`
	Subtitle string                  `json:"subtitle"`
	Icon     string                  `json:"icon"`
	Sections map[string]SectionInput `json:"sections"`
}

type SaveQuestionsInput struct {
	ProfileTypeID string            `json:"-"`
	SectionID     string            `json:"-"`
	Questions     []schema.Question `json:"questions"`
	// ExpectedVersion is the profile type metadata version the editor loaded.
	ExpectedVersion *int `json:"expectedVersion,omitempty"`
}

// SchemaStore reads and writes profile types inside the single schema document.
type SchemaStore interface {
	GetProfileTypes(ctx context.Context) ([]schema.ProfileType, error)
	GetProfileType(ctx context.Context, id string) (schema.ProfileType, error)
	CreateProfileType(ctx context.Context, in CreateProfileTypeInput) (schema.ProfileType, error)
	DeleteProfileType(ctx context.Context, id string, expectedVersion *int) error
	SaveSectionQuestions(ctx context.Context, in SaveQuestionsInput) (schema.Section, error)
	// SeedIfEmpty creates the given types when the document holds none and
	// returns how many were written.
	SeedIfEmpty(ctx context.Context, seed []CreateProfileTypeInput) (int, error)
}

type schemaStore struct {
	log   *logger.Logger
	agg   domainagg.SchemaAggregate
	clock func() time.Time
}

func NewSchemaStore(log *logger.Logger, agg domainagg.SchemaAggregate) SchemaStore {
	return &schemaStore{
		log:   log.With("service", "SchemaStore"),
		agg:   agg,
		clock: func() time.Time { return time.Now().UTC() },
	}
}

func (s *schemaStore) GetProfileTypes(ctx context.Context) ([]schema.ProfileType, error) {
	ctx, span := startSpan(ctx, "SchemaStore.GetProfileTypes")
	defer span.End()
	snap, err := s.agg.Load(ctx)
	if err != nil {
		return nil, endSpan(span, err)
	}
	return snap.Document.List(), nil
}

func (s *schemaStore) GetProfileType(ctx context.Context, id string) (schema.ProfileType, error) {
	ctx, span := startSpan(ctx, "SchemaStore.GetProfileType", attribute.String("profile_type_id", id))
	defer span.End()
	snap, err := s.agg.Load(ctx)
	if err != nil {
		return schema.ProfileType{}, endSpan(span, err)
	}
	pt, ok := snap.Document.Get(strings.TrimSpace(id))
	if !ok {
		return schema.ProfileType{}, endSpan(span, profileTypeNotFound("schema.get", id))
	}
	return pt, nil
}

func (s *schemaStore) CreateProfileType(ctx context.Context, in CreateProfileTypeInput) (schema.ProfileType, error) {
	ctx, span := startSpan(ctx, "SchemaStore.CreateProfileType")
	defer span.End()

	now := s.clock()
	pt, err := buildProfileType(in, now)
	if err != nil {
		return schema.ProfileType{}, endSpan(span, aggregates.MapError("schema.create", err))
	}
	span.SetAttributes(attribute.String("profile_type_id", pt.ID))

	_, err = s.agg.Mutate(ctx, domainagg.MutateSchemaInput{
		Op:  "schema.create",
		Now: now,
		Mutate: func(doc schema.Document) (schema.Document, error) {
			if _, exists := doc.Get(pt.ID); exists {
				return doc, aggregates.ConflictError("profile type " + pt.ID + " already exists")
			}
			doc.ProfileTypes[pt.ID] = pt
			return doc, nil
		},
	})
	if err != nil {
		return schema.ProfileType{}, endSpan(span, err)
	}
	s.log.Info("profile type created", "profile_type_id", pt.ID, "sections", len(pt.Sections))
	return pt, nil
}

// DeleteProfileType removes the entry only; stored answers and user
// assignments are left in place.
func (s *schemaStore) DeleteProfileType(ctx context.Context, id string, expectedVersion *int) error {
	ctx, span := startSpan(ctx, "SchemaStore.DeleteProfileType", attribute.String("profile_type_id", id))
	defer span.End()
	id = strings.TrimSpace(id)
	_, err := s.agg.Mutate(ctx, domainagg.MutateSchemaInput{
		Op:  "schema.delete",
		Now: s.clock(),
		Mutate: func(doc schema.Document) (schema.Document, error) {
			pt, ok := doc.Get(id)
			if !ok {
				return doc, profileTypeNotFound("schema.delete", id)
			}
			if expectedVersion != nil {
				if err := aggregates.RequireVersionMatch(pt.Metadata.Version, *expectedVersion); err != nil {
					return doc, err
				}
			}
			delete(doc.ProfileTypes, id)
			return doc, nil
		},
	})
	if err != nil {
		return endSpan(span, err)
	}
	s.log.Info("profile type deleted", "profile_type_id", id)
	return nil
}

func (s *schemaStore) SaveSectionQuestions(ctx context.Context, in SaveQuestionsInput) (schema.Section, error) {
	ctx, span := startSpan(ctx, "SchemaStore.SaveSectionQuestions",
		attribute.String("profile_type_id", in.ProfileTypeID),
		attribute.String("section_id", in.SectionID),
	)
	defer span.End()

	// Definitions are checked, and patterns compiled, before anything is read.
	questions, err := schema.NormalizeQuestions(in.Questions)
	if err != nil {
		return schema.Section{}, endSpan(span, aggregates.MapError("schema.save_questions", err))
	}

	now := s.clock()
	var saved schema.Section
	_, err = s.agg.Mutate(ctx, domainagg.MutateSchemaInput{
		Op:  "schema.save_questions",
		Now: now,
		Mutate: func(doc schema.Document) (schema.Document, error) {
			pt, ok := doc.Get(in.ProfileTypeID)
			if !ok {
				return doc, profileTypeNotFound("schema.save_questions", in.ProfileTypeID)
			}
			if in.ExpectedVersion != nil {
				if err := aggregates.RequireVersionMatch(pt.Metadata.Version, *in.ExpectedVersion); err != nil {
					return doc, err
				}
			}
			sec, ok := pt.Sections[in.SectionID]
			if !ok {
				return doc, sectionNotFound("schema.save_questions", in.ProfileTypeID, in.SectionID)
			}
			sec.Questions = questions
			sec.UpdatedAt = now
			pt.Sections[in.SectionID] = sec
			pt.Metadata.UpdatedAt = now
			pt.Metadata.Version++
			doc.ProfileTypes[pt.ID] = pt
			saved = sec
			return doc, nil
		},
	})
	if err != nil {
		return schema.Section{}, endSpan(span, err)
	}
	s.log.Info("section questions saved",
		"profile_type_id", in.ProfileTypeID,
		"section_id", in.SectionID,
		"questions", len(saved.Questions),
	)
	return saved, nil
}

func (s *schemaStore) SeedIfEmpty(ctx context.Context, seed []CreateProfileTypeInput) (int, error) {
	if len(seed) == 0 {
		return 0, nil
	}
	now := s.clock()
	built := make([]schema.ProfileType, 0, len(seed))
	for _, in := range seed {
		pt, err := buildProfileType(in, now)
		if err != nil {
			return 0, aggregates.MapError("schema.seed", err)
		}
		built = append(built, pt)
	}

	written := 0
	_, err := s.agg.Mutate(ctx, domainagg.MutateSchemaInput{
		Op:  "schema.seed",
		Now: now,
		Mutate: func(doc schema.Document) (schema.Document, error) {
			if len(doc.ProfileTypes) > 0 {
				return doc, nil
			}
			for _, pt := range built {
				if _, dup := doc.ProfileTypes[pt.ID]; dup {
					return doc, aggregates.ValidationError("duplicate seed profile type " + pt.ID)
				}
				doc.ProfileTypes[pt.ID] = pt
			}
			written = len(built)
			return doc, nil
		},
	})
	if err != nil {
		return 0, err
	}
	if written > 0 {
		s.log.Info("schema seeded", "profile_types", written)
	}
	return written, nil
}

func buildProfileType(in CreateProfileTypeInput, now time.Time) (schema.ProfileType, error) {
	label := strings.TrimSpace(in.Label)
	id := schema.Slugify(label)
	if id == "" {
		return schema.ProfileType{}, &schema.DefinitionError{Path: "label", Reason: "label is required"}
	}
	pt := schema.ProfileType{
		ID:       id,
		Label:    label,
		Subtitle: strings.TrimSpace(in.Subtitle),
		Icon:     strings.TrimSpace(in.Icon),
		Sections: make(map[string]schema.Section, len(in.Sections)),
		Metadata: schema.Metadata{CreatedAt: now, UpdatedAt: now, Version: 1},
	}
	for rawID, si := range in.Sections {
		secID := strings.TrimSpace(rawID)
		if secID == "" {
			secID = schema.Slugify(si.Label)
		}
		if secID == "" {
			return schema.ProfileType{}, &schema.DefinitionError{Path: "sections", Reason: "section id is required"}
		}
		if !schema.ValidID(secID) {
			return schema.ProfileType{}, &schema.DefinitionError{Path: "sections." + secID, Reason: fmt.Sprintf("invalid section id %q", secID)}
		}
		if _, dup := pt.Sections[secID]; dup {
			return schema.ProfileType{}, &schema.DefinitionError{Path: "sections." + secID, Reason: "duplicate section id"}
		}
		questions, err := schema.NormalizeQuestions(si.Questions)
		if err != nil {
			return schema.ProfileType{}, err
		}
		sec := schema.Section{
			ID:                secID,
			Label:             strings.TrimSpace(si.Label),
			Questions:         questions,
			RequirementPolicy: si.RequirementPolicy,
			UpdatedAt:         now,
		}
		if err := schema.CheckSection(sec); err != nil {
			return schema.ProfileType{}, err
		}
		sec.RequirementPolicy = sec.RequirementPolicy.Normalize()
		pt.Sections[secID] = sec
	}
	return pt, nil
}

func profileTypeNotFound(op, id string) error {
	return domainagg.NewError(domainagg.CodeNotFound, op, "profile type "+id+" not found", nil)
}

func sectionNotFound(op, profileTypeID, sectionID string) error {
	return domainagg.NewError(domainagg.CodeNotFound, op, "section "+sectionID+" not found in profile type "+profileTypeID, nil)
}
