// Package progress scores how much of a profile type a user has completed.
package progress

import (
	"math"

	"github.com/yungbote/profileforms-backend/internal/modules/profiles/schema"
	"github.com/yungbote/profileforms-backend/internal/modules/profiles/validation"
)

type Status string

const (
	StatusComplete   Status = "complete"
	StatusIncomplete Status = "incomplete"
)

type Result struct {
	Percent          int               `json:"percent"`
	PerSectionStatus map[string]Status `json:"perSectionStatus"`
}

// Evaluator scores answers with a configured validator.
type Evaluator struct {
	validator *validation.Validator
}

func NewEvaluator(v *validation.Validator) *Evaluator {
	if v == nil {
		v = validation.New()
	}
	return &Evaluator{validator: v}
}

var std = NewEvaluator(nil)

// ComputeProgress scores answers (section id -> question id -> answer) against pt.
func ComputeProgress(pt schema.ProfileType, answers map[string]map[string]any) Result {
	return std.Compute(pt, answers)
}

// Compute returns the weighted completion percentage and per-section status.
// Answers for sections pt no longer declares are ignored.
func (e *Evaluator) Compute(pt schema.ProfileType, answers map[string]map[string]any) Result {
	res := Result{PerSectionStatus: make(map[string]Status, len(pt.Sections))}
	if len(pt.Sections) == 0 {
		return res
	}
	total, done := 0, 0
	for id, sec := range pt.Sections {
		w := Weight(sec)
		total += w
		if e.SectionComplete(sec, answers[id]) {
			done += w
			res.PerSectionStatus[id] = StatusComplete
		} else {
			res.PerSectionStatus[id] = StatusIncomplete
		}
	}
	res.Percent = int(math.Round(100 * float64(done) / float64(total)))
	return res
}

// SectionComplete reports whether every required question of sec, under its
// requirement policy, has an accepted answer.
func (e *Evaluator) SectionComplete(sec schema.Section, answers map[string]any) bool {
	required := sec.RequirementPolicy.Resolve(sec.Questions)
	for i, q := range sec.Questions {
		if !required[i] {
			continue
		}
		if !e.validator.ValidateAs(q, answers[q.ID], true).Valid {
			return false
		}
	}
	return true
}

// Weight is the number of explicitly required questions, at least 1.
func Weight(sec schema.Section) int {
	if n := schema.CountRequired(sec.Questions); n > 0 {
		return n
	}
	return 1
}

// StatusOf is SectionComplete as a Status.
func (e *Evaluator) StatusOf(sec schema.Section, answers map[string]any) Status {
	if e.SectionComplete(sec, answers) {
		return StatusComplete
	}
	return StatusIncomplete
}
