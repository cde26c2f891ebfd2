package validation

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/yungbote/profileforms-backend/internal/modules/profiles/schema"
)

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"2006-01",
	"01/02/2006",
}

type Option func(*Validator)

// WithStrictOptions rejects dropdown and multipleChoice answers outside the declared options.
func WithStrictOptions() Option {
	return func(v *Validator) { v.strictOptions = true }
}

// Validator is stateless apart from its options and safe for concurrent use.
type Validator struct {
	strictOptions bool
}

func New(opts ...Option) *Validator {
	v := &Validator{}
	for _, o := range opts {
		if o != nil {
			o(v)
		}
	}
	return v
}

func (v *Validator) StrictOptions() bool { return v != nil && v.strictOptions }

var std = New()

// Validate checks an answer against its question using the default options.
func Validate(q schema.Question, answer any) Result {
	return std.Validate(q, answer)
}

// Validate checks answer against q, honouring q.Required as declared.
func (v *Validator) Validate(q schema.Question, answer any) Result {
	return v.ValidateAs(q, answer, q.Required)
}

// ValidateAs checks answer with the requiredness decided by the caller, which
// is how section-level requirement policies are applied.
func (v *Validator) ValidateAs(q schema.Question, answer any, required bool) Result {
	var errs FieldErrors
	v.check(q, answer, required, q.ID, &errs)
	return resultOf(errs)
}

// ValidateSection validates every declared question of s against answers
// using the section's requirement policy, and reports undeclared keys.
func (v *Validator) ValidateSection(s schema.Section, answers map[string]any) FieldErrors {
	var errs FieldErrors
	required := s.RequirementPolicy.Resolve(s.Questions)
	declared := make(map[string]bool, len(s.Questions))
	for i, q := range s.Questions {
		declared[q.ID] = true
		v.check(q, answers[q.ID], required[i], q.ID, &errs)
	}
	for _, key := range sortedKeys(answers) {
		if !declared[key] {
			errs = append(errs, FieldError{FieldID: key, Reason: ReasonUnknownQuestion})
		}
	}
	return errs
}

func (v *Validator) check(q schema.Question, answer any, required bool, path string, errs *FieldErrors) {
	fail := func(reason string) {
		*errs = append(*errs, FieldError{FieldID: path, Reason: reason})
	}
	if IsEmpty(answer) {
		if required {
			fail(ReasonRequired)
			return
		}
		// An optional question may be left blank; a repeater's minGroups
		// applies only once a group is given. An empty value still has to
		// have the right container shape.
		if answer == nil || ShapeMatches(q.Type, answer) {
			return
		}
		fail(ReasonWrongType)
		return
	}

	switch q.Type {
	case schema.TypeText, schema.TypeTextarea:
		s, ok := asString(answer)
		if !ok {
			fail(ReasonWrongType)
			return
		}
		v.checkText(q, strings.TrimSpace(s), fail)
	case schema.TypeDropdown:
		s, ok := asString(answer)
		if !ok {
			fail(ReasonWrongType)
			return
		}
		if v.strictOptions && !contains(q.Options, s) {
			fail(ReasonNotAnOption)
		}
	case schema.TypeMultipleChoice:
		picked, ok := asStrings(answer)
		if !ok {
			fail(ReasonWrongType)
			return
		}
		if v.strictOptions {
			for _, p := range picked {
				if !contains(q.Options, p) {
					fail(ReasonNotAnOption)
					return
				}
			}
		}
	case schema.TypeFile:
		obj, ok := asObject(answer)
		if !ok {
			fail(ReasonWrongType)
			return
		}
		if url, _ := obj["url"].(string); strings.TrimSpace(url) == "" {
			fail(ReasonMissingURL)
		}
	case schema.TypeDate:
		s, ok := asString(answer)
		if !ok {
			fail(ReasonWrongType)
			return
		}
		if !parseableDate(strings.TrimSpace(s)) {
			fail(ReasonBadDate)
		}
	case schema.TypeRepeater:
		groups, ok := asGroups(answer)
		if !ok {
			fail(ReasonWrongType)
			return
		}
		v.checkGroups(q, groups, path, fail, errs)
	default:
		fail(ReasonUnknownType)
	}
}

func (v *Validator) checkText(q schema.Question, s string, fail func(string)) {
	n := utf8.RuneCountInString(s)
	if q.Validation.MinLength > 0 && n < q.Validation.MinLength {
		fail(ReasonTooShort)
		return
	}
	if q.Validation.MaxLength > 0 && n > q.Validation.MaxLength {
		fail(ReasonTooLong)
		return
	}
	if q.Validation.Pattern == "" {
		return
	}
	re, err := schema.CompilePattern(q.Validation.Pattern)
	if err != nil {
		fail(ReasonBadPattern)
		return
	}
	if !re.MatchString(s) {
		fail(ReasonPattern)
	}
}

func (v *Validator) checkGroups(q schema.Question, groups []map[string]any, path string, fail func(string), errs *FieldErrors) {
	min, max := q.GroupBounds()
	if len(groups) < min {
		fail(ReasonTooFewGroups)
		return
	}
	if max > 0 && len(groups) > max {
		fail(ReasonTooManyGroups)
		return
	}
	required := q.RequirementPolicy.Resolve(q.RepeaterFields)
	for gi, g := range groups {
		for fi, f := range q.RepeaterFields {
			v.check(f, g[f.ID], required[fi], fmt.Sprintf("%s[%d].%s", path, gi, f.ID), errs)
		}
	}
}

// ShapeMatches reports whether answer has the container shape of t.
func ShapeMatches(t schema.QuestionType, answer any) bool {
	switch t {
	case schema.TypeText, schema.TypeTextarea, schema.TypeDropdown, schema.TypeDate:
		_, ok := asString(answer)
		return ok
	case schema.TypeMultipleChoice:
		_, ok := asStrings(answer)
		return ok
	case schema.TypeFile:
		_, ok := asObject(answer)
		return ok
	case schema.TypeRepeater:
		_, ok := asGroups(answer)
		return ok
	}
	return false
}

func parseableDate(s string) bool {
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}

func contains(options []string, s string) bool {
	for _, o := range options {
		if o == s {
			return true
		}
	}
	return false
}
