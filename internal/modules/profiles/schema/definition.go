package schema

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
)

// NormalizeQuestions checks a question list and returns it in canonical form:
// ids filled from the question text when empty, types canonicalised, and
// stable-sorted by Order. The input is not modified.
//
// Problems are returned as DefinitionErrors; invalid patterns appear as
// *RegexConfigError inside it, reachable with errors.As.
func NormalizeQuestions(questions []Question) ([]Question, error) {
	out := cloneQuestions(questions)
	var errs DefinitionErrors
	normalizeList(out, "questions", false, &errs)
	if err := errs.orNil(); err != nil {
		return nil, err
	}
	SortByOrder(out)
	return out, nil
}

// SortByOrder stable-sorts questions by Order; equal orders keep their input order.
func SortByOrder(questions []Question) {
	sort.SliceStable(questions, func(i, j int) bool { return questions[i].Order < questions[j].Order })
	for i := range questions {
		if len(questions[i].RepeaterFields) > 0 {
			SortByOrder(questions[i].RepeaterFields)
		}
	}
}

func normalizeList(qs []Question, path string, nested bool, errs *DefinitionErrors) {
	seen := make(map[string]int, len(qs))
	for i := range qs {
		q := &qs[i]
		p := fmt.Sprintf("%s[%d]", path, i)

		q.ID = strings.TrimSpace(q.ID)
		if q.ID == "" {
			q.ID = Slugify(q.Question)
		}
		if q.ID == "" {
			*errs = append(*errs, &DefinitionError{Path: p, Reason: "id or question text is required"})
		} else if !ValidID(q.ID) {
			*errs = append(*errs, &DefinitionError{Path: p, Reason: fmt.Sprintf("id %q contains reserved characters", q.ID)})
		} else if prev, dup := seen[q.ID]; dup {
			*errs = append(*errs, &DefinitionError{Path: p, Reason: fmt.Sprintf("duplicate id %q (also at index %d)", q.ID, prev)})
		} else {
			seen[q.ID] = i
		}
		if q.ID != "" {
			p = path + "." + q.ID
		}

		t, err := ParseQuestionType(string(q.Type))
		if err != nil {
			*errs = append(*errs, &DefinitionError{Path: p, Reason: err.Error()})
			continue
		}
		q.Type = t
		checkQuestion(q, p, nested, errs)
	}
}

func checkQuestion(q *Question, p string, nested bool, errs *DefinitionErrors) {
	add := func(format string, args ...any) {
		*errs = append(*errs, &DefinitionError{Path: p, Reason: fmt.Sprintf(format, args...)})
	}
	v := q.Validation

	for _, reason := range checkFields(q) {
		add("%s", reason)
	}
	if v.Pattern != "" {
		if !q.Type.IsTextual() {
			add("pattern is only supported on text and textarea")
		} else if _, err := CompilePattern(v.Pattern); err != nil {
			*errs = append(*errs, &RegexConfigError{Path: p, Pattern: v.Pattern, Err: err})
		}
	}
	if q.EnableRewrite && q.Type != TypeText {
		add("enableRewrite is only supported on text")
	}
	if q.Type.IsChoice() {
		if len(q.Options) == 0 {
			add("%s requires at least one option", q.Type)
		}
		seen := map[string]bool{}
		for _, o := range q.Options {
			if strings.TrimSpace(o) == "" {
				add("options must not be blank")
			} else if seen[o] {
				add("duplicate option %q", o)
			}
			seen[o] = true
		}
	} else if len(q.Options) > 0 {
		add("options are only supported on dropdown and multipleChoice")
	}

	if q.Type != TypeRepeater {
		if len(q.RepeaterFields) > 0 {
			add("repeaterFields are only supported on repeater")
		}
		return
	}
	if nested {
		add("repeaters cannot be nested")
		return
	}
	if len(q.RepeaterFields) == 0 {
		add("repeater requires at least one field")
	}
	if !q.AllowMultipleGroups && v.MinGroups > 1 {
		add("minGroups %d requires allowMultipleGroups", v.MinGroups)
	}
	normalizeList(q.RepeaterFields, p+".repeaterFields", true, errs)
}

// ValidID reports whether id can key a question or section: non-blank and
// free of the characters used in field paths.
func ValidID(id string) bool {
	return strings.TrimSpace(id) == id && id != "" && !strings.ContainsAny(id, " .[]")
}

// CheckSection validates section-level fields; questions are checked by NormalizeQuestions.
func CheckSection(s Section) error {
	var errs DefinitionErrors
	if strings.TrimSpace(s.Label) == "" {
		errs = append(errs, &DefinitionError{Path: "sections." + s.ID, Reason: "label is required"})
	}
	if !s.RequirementPolicy.Valid() {
		errs = append(errs, &DefinitionError{Path: "sections." + s.ID, Reason: fmt.Sprintf("unknown requirementPolicy %q", s.RequirementPolicy)})
	}
	return errs.orNil()
}

var patternCache sync.Map // string -> *regexp.Regexp

// CompilePattern compiles and caches a validation pattern.
func CompilePattern(pattern string) (*regexp.Regexp, error) {
	if re, ok := patternCache.Load(pattern); ok {
		return re.(*regexp.Regexp), nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	patternCache.Store(pattern, re)
	return re, nil
}
