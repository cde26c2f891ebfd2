package services

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/profileforms-backend/internal/modules/profiles/schema"
	"github.com/yungbote/profileforms-backend/internal/modules/profiles/validation"
	"github.com/yungbote/profileforms-backend/internal/platform/logger"
)

type harness struct {
	users   *memUsers
	agg     *memSchema
	answers *memAnswers
	bus     *spyBus
	svc     ProfileTypeService
}

func newHarness(t *testing.T, opts ...validation.Option) *harness {
	t.Helper()
	log := logger.Nop()
	h := &harness{users: newMemUsers(), answers: newMemAnswers(), bus: &spyBus{}}
	h.agg = newMemSchema(h.users, h.answers)
	v := validation.New(opts...)

	store := NewSchemaStore(log, h.agg)
	store.(*schemaStore).clock = fixedClock
	migrator := NewSchemaMigrator(log, h.agg, nil)
	migrator.(*schemaMigrator).clock = fixedClock
	answers := NewAnswerRepository(AnswerRepositoryDeps{
		Log:          log,
		Schema:       h.agg,
		Answers:      h.answers,
		UserProfiles: h.users,
		Validator:    v,
		Bus:          h.bus,
	})
	answers.(*answerRepository).clock = fixedClock

	h.svc = NewProfileTypeService(ProfileTypeServiceDeps{
		Log:          log,
		Store:        store,
		Migrator:     migrator,
		Answers:      answers,
		UserProfiles: h.users,
		Validator:    v,
	})
	return h
}

func studentInput() CreateProfileTypeInput {
	return CreateProfileTypeInput{
		Label: "Student",
		Sections: map[string]SectionInput{
			"education": {Label: "Education", Questions: []schema.Question{
				{ID: "summary", Type: schema.TypeText, Question: "Tell us about your studies", Required: true, Validation: schema.Validation{MinLength: 10}},
			}},
		},
	}
}

func mentorInput() CreateProfileTypeInput {
	return CreateProfileTypeInput{
		Label: "Mentor",
		Sections: map[string]SectionInput{
			"personal-info": {Label: "Personal info", Questions: []schema.Question{
				{ID: "first", Type: schema.TypeText, Question: "First name", Required: true, Order: 1},
				{ID: "last", Type: schema.TypeText, Question: "Last name", Required: true, Order: 2},
				{ID: "email", Type: schema.TypeText, Question: "Email", Required: true, Order: 3},
			}},
		},
	}
}

func (h *harness) create(t *testing.T, in CreateProfileTypeInput) schema.ProfileType {
	t.Helper()
	pt, err := h.svc.CreateProfileType(context.Background(), in)
	if err != nil {
		t.Fatalf("CreateProfileType %s: %v", in.Label, err)
	}
	return pt
}

func (h *harness) userOn(t *testing.T, profileTypeID string) uuid.UUID {
	t.Helper()
	id := uuid.New()
	if err := h.svc.AssignProfileType(context.Background(), id, profileTypeID); err != nil {
		t.Fatalf("AssignProfileType: %v", err)
	}
	return id
}
