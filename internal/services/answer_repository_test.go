package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"

	domainagg "github.com/yungbote/profileforms-backend/internal/domain/aggregates"
	"github.com/yungbote/profileforms-backend/internal/modules/profiles/answers"
	"github.com/yungbote/profileforms-backend/internal/modules/profiles/progress"
	"github.com/yungbote/profileforms-backend/internal/modules/profiles/schema"
	"github.com/yungbote/profileforms-backend/internal/modules/profiles/validation"
	"github.com/yungbote/profileforms-backend/internal/realtime"
)

func TestGetAnswersMaterializesDefaults(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.create(t, CreateProfileTypeInput{
		Label: "Student",
		Sections: map[string]SectionInput{
			"profile": {Label: "Profile", Questions: []schema.Question{
				{ID: "bio", Type: schema.TypeTextarea, Question: "Bio"},
				{ID: "langs", Type: schema.TypeMultipleChoice, Question: "Languages", Options: []string{"go", "rust"}},
				{ID: "cv", Type: schema.TypeFile, Question: "CV"},
			}},
		},
	})
	user := h.userOn(t, "student")

	got, err := h.svc.GetAnswers(ctx, user, "profile")
	if err != nil {
		t.Fatalf("GetAnswers: %v", err)
	}
	want := map[string]any{"bio": "", "langs": []any{}, "cv": nil}
	gotMap := got.Answers.Map()
	for id, def := range want {
		v, ok := gotMap[id]
		if !ok {
			t.Fatalf("missing key %s", id)
		}
		if a, b := mustJSON(t, v), mustJSON(t, def); a != b {
			t.Fatalf("default for %s: want=%s got=%s", id, b, a)
		}
	}
	if got.Status != progress.StatusIncomplete {
		t.Fatalf("empty section status: want incomplete got=%s", got.Status)
	}
	if h.bus.count() != 0 {
		t.Fatalf("read published events")
	}
}

func TestSaveAnswersScenarioA(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.create(t, studentInput())
	user := h.userOn(t, "student")

	res, err := h.svc.SaveAnswers(ctx, user, "education", map[string]any{"summary": ""})
	if err != nil {
		t.Fatalf("SaveAnswers empty: %v", err)
	}
	if res.Status != progress.StatusIncomplete || len(res.Errors) != 1 || res.Errors[0].Reason != validation.ReasonRequired {
		t.Fatalf("empty answer: status=%s errors=%v", res.Status, res.Errors)
	}
	p, err := h.svc.UserProgress(ctx, user)
	if err != nil || p.Percent != 0 {
		t.Fatalf("progress after empty: want 0 got=%d err=%v", p.Percent, err)
	}

	res, err = h.svc.SaveAnswers(ctx, user, "education", map[string]any{"summary": "twelve chars"})
	if err != nil {
		t.Fatalf("SaveAnswers: %v", err)
	}
	if res.Status != progress.StatusComplete || len(res.Errors) != 0 {
		t.Fatalf("valid answer: status=%s errors=%v", res.Status, res.Errors)
	}
	p, err = h.svc.UserProgress(ctx, user)
	if err != nil || p.Percent != 100 || p.PerSectionStatus["education"] != progress.StatusComplete {
		t.Fatalf("progress after valid: got=%+v err=%v", p, err)
	}
	if h.bus.count() != 2 {
		t.Fatalf("events: want one per save (2) got=%d", h.bus.count())
	}
	msg := h.bus.published[1]
	evt, ok := msg.Data.(realtime.SectionUpdated)
	if msg.Channel != realtime.UserChannel(user) || !ok || evt.Status != string(progress.StatusComplete) || !evt.UpdatedAt.Equal(fixedNow) {
		t.Fatalf("event: got=%+v", msg)
	}
}

func TestSaveAnswersPersistenceFailurePublishesNothing(t *testing.T) {
	h := newHarness(t)
	h.create(t, studentInput())
	user := h.userOn(t, "student")
	h.answers.upsertErr = errors.New("connection reset")

	_, err := h.svc.SaveAnswers(context.Background(), user, "education", map[string]any{"summary": "twelve chars"})
	if !domainagg.IsCode(err, domainagg.CodePersistence) {
		t.Fatalf("want persistence got=%v", err)
	}
	if h.bus.count() != 0 {
		t.Fatalf("failed save published %d events", h.bus.count())
	}
}

func TestSaveAnswersSurvivesPublishFailure(t *testing.T) {
	h := newHarness(t)
	h.create(t, studentInput())
	user := h.userOn(t, "student")
	h.bus.publishErr = errors.New("redis down")

	if _, err := h.svc.SaveAnswers(context.Background(), user, "education", map[string]any{"summary": "twelve chars"}); err != nil {
		t.Fatalf("publish failure leaked into save: %v", err)
	}
	if len(h.answers.rows) != 1 {
		t.Fatalf("answers not stored")
	}
}

func TestSaveAnswersReportsFieldErrorsAndKeepsDraft(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.create(t, CreateProfileTypeInput{
		Label: "Student",
		Sections: map[string]SectionInput{
			"profile": {Label: "Profile", Questions: []schema.Question{
				{ID: "name", Type: schema.TypeText, Question: "Name", Required: true},
				{ID: "langs", Type: schema.TypeMultipleChoice, Question: "Languages", Options: []string{"go"}},
			}},
		},
	})
	user := h.userOn(t, "student")

	res, err := h.svc.SaveAnswers(ctx, user, "profile", map[string]any{
		"name":  "Ada",
		"langs": "go",
		"extra": "x",
	})
	if err != nil {
		t.Fatalf("SaveAnswers: %v", err)
	}
	byField := res.Errors.ByField()
	if byField["langs"] != validation.ReasonWrongType || byField["extra"] != validation.ReasonUnknownQuestion {
		t.Fatalf("field errors: got=%v", byField)
	}

	got, err := h.svc.GetAnswers(ctx, user, "profile")
	if err != nil {
		t.Fatalf("GetAnswers: %v", err)
	}
	m := got.Answers.Map()
	if m["name"] != "Ada" {
		t.Fatalf("draft value lost: %v", m["name"])
	}
	if _, stored := m["extra"]; stored {
		t.Fatalf("undeclared key stored")
	}
	if mustJSON(t, m["langs"]) != "[]" {
		t.Fatalf("wrong-shape answer kept: %v", m["langs"])
	}
}

func TestSaveAnswersCarriesUndeclaredStoredEntries(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.create(t, mentorInput())
	user := h.userOn(t, "mentor")
	if _, err := h.svc.SaveAnswers(ctx, user, "personal-info", map[string]any{"first": "Ada", "email": "ada@example.com"}); err != nil {
		t.Fatalf("SaveAnswers: %v", err)
	}

	if _, err := h.svc.SaveSectionQuestions(ctx, SaveQuestionsInput{
		ProfileTypeID: "mentor", SectionID: "personal-info",
		Questions: []schema.Question{{ID: "first", Type: schema.TypeText, Question: "First name", Required: true}},
	}); err != nil {
		t.Fatalf("SaveSectionQuestions: %v", err)
	}
	if _, err := h.svc.SaveAnswers(ctx, user, "personal-info", map[string]any{"first": "Grace"}); err != nil {
		t.Fatalf("SaveAnswers after edit: %v", err)
	}

	row := h.answers.rows[answerKey{user, "personal-info"}]
	var entries []answers.Entry
	if err := json.Unmarshal(row.Questions, &entries); err != nil {
		t.Fatalf("decode stored: %v", err)
	}
	ids := map[string]any{}
	for _, e := range entries {
		ids[e.ID] = e.Answer
	}
	if ids["first"] != "Grace" || ids["email"] != "ada@example.com" {
		t.Fatalf("stored entries: got=%v", ids)
	}
}

func TestAnswersRequireAssignedProfileType(t *testing.T) {
	h := newHarness(t)
	h.create(t, studentInput())
	_, err := h.svc.GetAnswers(context.Background(), uuid.New(), "education")
	if !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("unassigned user: want not_found got=%v", err)
	}
	user := h.userOn(t, "student")
	_, err = h.svc.SaveAnswers(context.Background(), user, "nope", map[string]any{})
	if !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("unknown section: want not_found got=%v", err)
	}
}

func TestStrictOptionsThroughService(t *testing.T) {
	h := newHarness(t, validation.WithStrictOptions())
	h.create(t, CreateProfileTypeInput{
		Label: "Student",
		Sections: map[string]SectionInput{
			"prefs": {Label: "Preferences", Questions: []schema.Question{
				{ID: "level", Type: schema.TypeDropdown, Question: "Level", Required: true, Options: []string{"junior", "senior"}},
			}},
		},
	})
	user := h.userOn(t, "student")
	res, err := h.svc.SaveAnswers(context.Background(), user, "prefs", map[string]any{"level": "principal"})
	if err != nil {
		t.Fatalf("SaveAnswers: %v", err)
	}
	if len(res.Errors) != 1 || res.Errors[0].Reason != validation.ReasonNotAnOption {
		t.Fatalf("strict option: got=%v", res.Errors)
	}
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	raw, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return string(raw)
}
