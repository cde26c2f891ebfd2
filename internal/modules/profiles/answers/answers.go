// Package answers materializes per-user, per-section answer sets against the
// current section definition.
package answers

import (
	"time"

	"github.com/yungbote/profileforms-backend/internal/modules/profiles/schema"
	"github.com/yungbote/profileforms-backend/internal/modules/profiles/validation"
)

// AnswerSet is one user's answers for one section.
type AnswerSet struct {
	ID        string    `json:"id"`
	Label     string    `json:"label"`
	Questions []Entry   `json:"questions"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

type Entry struct {
	ID       string              `json:"id"`
	Type     schema.QuestionType `json:"type"`
	Question string              `json:"question"`
	Required bool                `json:"required"`
	Answer   any                 `json:"answer"`
}

// DefaultFor returns the typed empty answer for t.
func DefaultFor(t schema.QuestionType) any {
	switch t {
	case schema.TypeMultipleChoice, schema.TypeRepeater:
		return []any{}
	case schema.TypeFile:
		return nil
	default:
		return ""
	}
}

// Map returns the answers keyed by question id.
func (s AnswerSet) Map() map[string]any {
	out := make(map[string]any, len(s.Questions))
	for _, e := range s.Questions {
		out[e.ID] = e.Answer
	}
	return out
}

func (s AnswerSet) Entry(id string) (Entry, bool) {
	for _, e := range s.Questions {
		if e.ID == id {
			return e, true
		}
	}
	return Entry{}, false
}

// Materialize returns an answer set with exactly one entry per declared
// question, in section order. Stored answers whose shape no longer fits the
// declared type fall back to the typed default.
func Materialize(sec schema.Section, stored *AnswerSet) AnswerSet {
	var prev map[string]any
	out := AnswerSet{ID: sec.ID, Label: sec.Label, Questions: make([]Entry, 0, len(sec.Questions))}
	if stored != nil {
		prev = stored.Map()
		out.UpdatedAt = stored.UpdatedAt
	}
	for _, q := range sec.Questions {
		out.Questions = append(out.Questions, entryFor(q, prev[q.ID]))
	}
	return out
}

// Merge applies submitted answers on top of stored ones. Declared questions
// take the submitted value when the key is present, else the stored value,
// else the default. Stored entries for questions the section no longer
// declares are carried over untouched; undeclared submitted keys are dropped.
func Merge(sec schema.Section, stored *AnswerSet, submitted map[string]any, now time.Time) AnswerSet {
	var prev map[string]any
	if stored != nil {
		prev = stored.Map()
	}
	out := AnswerSet{ID: sec.ID, Label: sec.Label, Questions: make([]Entry, 0, len(sec.Questions)), UpdatedAt: now}
	declared := make(map[string]bool, len(sec.Questions))
	for _, q := range sec.Questions {
		declared[q.ID] = true
		v, ok := submitted[q.ID]
		if !ok {
			v = prev[q.ID]
		}
		out.Questions = append(out.Questions, entryFor(q, v))
	}
	if stored != nil {
		for _, e := range stored.Questions {
			if !declared[e.ID] {
				out.Questions = append(out.Questions, e)
			}
		}
	}
	return out
}

func entryFor(q schema.Question, v any) Entry {
	if v == nil || !validation.ShapeMatches(q.Type, v) {
		v = DefaultFor(q.Type)
	}
	return Entry{ID: q.ID, Type: q.Type, Question: q.Question, Required: q.Required, Answer: v}
}
