package services

import (
	"context"
	"errors"
	"testing"

	domainagg "github.com/yungbote/profileforms-backend/internal/domain/aggregates"
	"github.com/yungbote/profileforms-backend/internal/modules/profiles/migration"
	"github.com/yungbote/profileforms-backend/internal/modules/profiles/schema"
)

func TestCreateProfileType(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	pt := h.create(t, studentInput())
	if pt.ID != "student" || pt.Metadata.Version != 1 || !pt.Metadata.CreatedAt.Equal(fixedNow) {
		t.Fatalf("created: got id=%s meta=%+v", pt.ID, pt.Metadata)
	}
	if pt.Sections["education"].RequirementPolicy != schema.PolicyAllIfNoneRequired {
		t.Fatalf("default policy: got=%q", pt.Sections["education"].RequirementPolicy)
	}

	_, err := h.svc.CreateProfileType(ctx, CreateProfileTypeInput{Label: "  student "})
	if !domainagg.IsCode(err, domainagg.CodeConflict) {
		t.Fatalf("duplicate slug: want conflict got=%v", err)
	}
	_, err = h.svc.CreateProfileType(ctx, CreateProfileTypeInput{Label: "   "})
	if !domainagg.IsCode(err, domainagg.CodeValidation) {
		t.Fatalf("blank label: want validation got=%v", err)
	}

	list, err := h.svc.GetProfileTypes(ctx)
	if err != nil || len(list) != 1 {
		t.Fatalf("GetProfileTypes: want 1 got=%d err=%v", len(list), err)
	}
	if _, err := h.svc.GetProfileType(ctx, "nope"); !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("GetProfileType missing: want not_found got=%v", err)
	}
}

func TestSaveSectionQuestions(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.create(t, studentInput())

	sec, err := h.svc.SaveSectionQuestions(ctx, SaveQuestionsInput{
		ProfileTypeID: "student",
		SectionID:     "education",
		Questions: []schema.Question{
			{Type: schema.TypeDate, Question: "Graduation date", Order: 2},
			{ID: "school", Type: "TEXT", Question: "School", Order: 1, Required: true},
		},
	})
	if err != nil {
		t.Fatalf("SaveSectionQuestions: %v", err)
	}
	if len(sec.Questions) != 2 || sec.Questions[0].ID != "school" || sec.Questions[1].ID != "graduation-date" {
		t.Fatalf("ordered ids: got=%+v", sec.Questions)
	}
	if sec.Questions[0].Type != schema.TypeText {
		t.Fatalf("type canonicalized: got=%q", sec.Questions[0].Type)
	}

	pt, _ := h.svc.GetProfileType(ctx, "student")
	if pt.Metadata.Version != 2 {
		t.Fatalf("profile type version: want=2 got=%d", pt.Metadata.Version)
	}

	stale := 1
	_, err = h.svc.SaveSectionQuestions(ctx, SaveQuestionsInput{
		ProfileTypeID: "student", SectionID: "education", ExpectedVersion: &stale,
		Questions: []schema.Question{{ID: "school", Type: schema.TypeText, Question: "School"}},
	})
	if !domainagg.IsCode(err, domainagg.CodeConflict) {
		t.Fatalf("stale version: want conflict got=%v", err)
	}

	_, err = h.svc.SaveSectionQuestions(ctx, SaveQuestionsInput{
		ProfileTypeID: "student", SectionID: "missing",
		Questions: []schema.Question{{ID: "school", Type: schema.TypeText, Question: "School"}},
	})
	if !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("missing section: want not_found got=%v", err)
	}
}

func TestSaveSectionQuestionsRejectsBadPatternBeforeWriting(t *testing.T) {
	h := newHarness(t)
	h.create(t, studentInput())
	writes := h.agg.writes

	_, err := h.svc.SaveSectionQuestions(context.Background(), SaveQuestionsInput{
		ProfileTypeID: "student",
		SectionID:     "education",
		Questions: []schema.Question{
			{ID: "code", Type: schema.TypeText, Question: "Code", Validation: schema.Validation{Pattern: "([a-z"}},
		},
	})
	if !domainagg.IsCode(err, domainagg.CodeRegexConfig) {
		t.Fatalf("want regex_config got=%v", err)
	}
	var rx *schema.RegexConfigError
	if !errors.As(err, &rx) || rx.Pattern != "([a-z" {
		t.Fatalf("RegexConfigError not reachable: %v", err)
	}
	if h.agg.writes != writes {
		t.Fatalf("schema written despite invalid pattern")
	}
}

func TestDeleteProfileTypeKeepsAnswers(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.create(t, studentInput())
	user := h.userOn(t, "student")
	if _, err := h.svc.SaveAnswers(ctx, user, "education", map[string]any{"summary": "twelve chars"}); err != nil {
		t.Fatalf("SaveAnswers: %v", err)
	}

	if err := h.svc.DeleteProfileType(ctx, "student", nil); err != nil {
		t.Fatalf("DeleteProfileType: %v", err)
	}
	if err := h.svc.DeleteProfileType(ctx, "student", nil); !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("second delete: want not_found got=%v", err)
	}
	if len(h.answers.rows) != 1 {
		t.Fatalf("stored answers: want=1 got=%d", len(h.answers.rows))
	}
	if _, err := h.svc.GetAnswers(ctx, user, "education"); !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("answers for deleted type: want not_found got=%v", err)
	}
}

func TestSeedIfEmpty(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	n, err := h.svc.SeedIfEmpty(ctx, []CreateProfileTypeInput{studentInput(), mentorInput()})
	if err != nil || n != 2 {
		t.Fatalf("first seed: want 2 got=%d err=%v", n, err)
	}
	n, err = h.svc.SeedIfEmpty(ctx, []CreateProfileTypeInput{{Label: "Other"}})
	if err != nil || n != 0 {
		t.Fatalf("second seed: want 0 got=%d err=%v", n, err)
	}
	if _, err := h.svc.GetProfileType(ctx, "other"); !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("seed wrote into a non-empty document")
	}
}

func TestCreatedSectionsResubmitThroughMigrate(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.svc.CreateProfileType(ctx, CreateProfileTypeInput{
		Label:    "Alumni",
		Sections: map[string]SectionInput{"Personal Info": {Label: "Personal info"}},
	})
	if !domainagg.IsCode(err, domainagg.CodeValidation) {
		t.Fatalf("spaced section id: want validation got=%v", err)
	}
	var defErr *schema.DefinitionError
	if !errors.As(err, &defErr) || defErr.Path != "sections.Personal Info" {
		t.Fatalf("definition error path: got=%v", err)
	}
	if h.agg.writes != 0 {
		t.Fatalf("rejected create wrote the schema")
	}

	created := h.create(t, mentorInput())
	edit := migration.Edit{Label: created.Label, Sections: map[string]migration.SectionEdit{}}
	for id, sec := range created.Sections {
		edit.Sections[id] = migration.SectionEdit{Label: sec.Label, RequirementPolicy: sec.RequirementPolicy}
	}
	res, err := h.svc.Migrate(ctx, created.ID, edit)
	if err != nil {
		t.Fatalf("resubmit unchanged: %v", err)
	}
	if res.Report.SectionsRetained != len(created.Sections) || res.Report.QuestionsDropped != 0 {
		t.Fatalf("unchanged resubmit report: got=%+v", res.Report)
	}
}

func TestCreateRejectsUnknownSectionPolicy(t *testing.T) {
	h := newHarness(t)
	_, err := h.svc.CreateProfileType(context.Background(), CreateProfileTypeInput{
		Label:    "Student",
		Sections: map[string]SectionInput{"education": {Label: "Education", RequirementPolicy: "mostly"}},
	})
	if !domainagg.IsCode(err, domainagg.CodeValidation) {
		t.Fatalf("unknown policy: want validation got=%v", err)
	}

	pt := h.create(t, CreateProfileTypeInput{
		Label:    "Student",
		Sections: map[string]SectionInput{"education": {Label: "Education", RequirementPolicy: schema.PolicyExplicitOnly}},
	})
	if pt.Sections["education"].RequirementPolicy != schema.PolicyExplicitOnly {
		t.Fatalf("explicit policy kept: got=%q", pt.Sections["education"].RequirementPolicy)
	}
}
