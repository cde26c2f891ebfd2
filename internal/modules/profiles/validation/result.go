package validation

import (
	"fmt"
	"strings"
)

// FieldError is one rejected answer; FieldID is a path such as "workHistory[1].role".
type FieldError struct {
	FieldID string `json:"fieldId"`
	Reason  string `json:"reason"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.FieldID, e.Reason)
}

type FieldErrors []FieldError

func (es FieldErrors) Error() string {
	parts := make([]string, 0, len(es))
	for _, e := range es {
		parts = append(parts, e.Error())
	}
	return "answer validation failed: " + strings.Join(parts, "; ")
}

// Reasons groups every reason by field path, in the order found.
func (es FieldErrors) Reasons() map[string][]string {
	out := make(map[string][]string, len(es))
	for _, e := range es {
		out[e.FieldID] = append(out[e.FieldID], e.Reason)
	}
	return out
}

// ByField keeps the first reason per field path.
func (es FieldErrors) ByField() map[string]string {
	out := make(map[string]string, len(es))
	for _, e := range es {
		if _, ok := out[e.FieldID]; !ok {
			out[e.FieldID] = e.Reason
		}
	}
	return out
}

// Result of validating one question's answer.
type Result struct {
	Valid   bool        `json:"valid"`
	Reason  string      `json:"reason,omitempty"`
	FieldID string      `json:"fieldId,omitempty"`
	Errors  FieldErrors `json:"errors,omitempty"`
}

func resultOf(errs FieldErrors) Result {
	if len(errs) == 0 {
		return Result{Valid: true}
	}
	return Result{Valid: false, Reason: errs[0].Reason, FieldID: errs[0].FieldID, Errors: errs}
}

const (
	ReasonRequired        = "required"
	ReasonWrongType       = "wrong answer type"
	ReasonTooShort        = "shorter than minimum length"
	ReasonTooLong         = "longer than maximum length"
	ReasonPattern         = "does not match pattern"
	ReasonBadPattern      = "question pattern is misconfigured"
	ReasonNotAnOption     = "not one of the allowed options"
	ReasonMissingURL      = "file url is required"
	ReasonBadDate         = "not a valid date"
	ReasonTooFewGroups    = "fewer groups than minimum"
	ReasonTooManyGroups   = "more groups than maximum"
	ReasonUnknownQuestion = "question is not declared in this section"
	ReasonUnknownType     = "unknown question type"
)
