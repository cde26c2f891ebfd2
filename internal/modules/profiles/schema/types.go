package schema

import (
	"sort"
	"time"
)

// Document is the single persisted aggregate holding every profile type.
type Document struct {
	ProfileTypes map[string]ProfileType `json:"profileTypes"`
}

type ProfileType struct {
	ID       string             `json:"id"`
	Label    string             `json:"label"`
	Subtitle string             `json:"subtitle,omitempty"`
	Icon     string             `json:"icon,omitempty"`
	Sections map[string]Section `json:"sections"`
	Metadata Metadata           `json:"metadata"`
}

type Metadata struct {
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Version   int       `json:"version"`
}

type Section struct {
	ID                string            `json:"id"`
	Label             string            `json:"label"`
	Questions         []Question        `json:"questions"`
	RequirementPolicy RequirementPolicy `json:"requirementPolicy,omitempty"`
	UpdatedAt         time.Time         `json:"updatedAt"`
}

type Question struct {
	ID       string       `json:"id"`
	Type     QuestionType `json:"type"`
	Question string       `json:"question" validate:"notblank"`
	Required bool         `json:"required"`
	Order    int          `json:"order"`
	Width    string       `json:"width,omitempty" validate:"omitempty,oneof=full half third"`

	Validation Validation `json:"validation"`

	// choice types
	Options []string `json:"options,omitempty"`

	// repeater only
	RepeaterFields      []Question        `json:"repeaterFields,omitempty"`
	AllowMultipleGroups bool              `json:"allowMultipleGroups,omitempty"`
	RequirementPolicy   RequirementPolicy `json:"requirementPolicy,omitempty" validate:"omitempty,oneof=all_if_none_required explicit_only"`

	// text only
	EnableRewrite bool `json:"enableRewrite,omitempty"`
}

// Validation bounds; zero means "no bound".
type Validation struct {
	MinLength int    `json:"minLength,omitempty" validate:"gte=0"`
	MaxLength int    `json:"maxLength,omitempty" validate:"omitempty,gte=0,gtefield=MinLength"`
	Pattern   string `json:"pattern,omitempty"`
	MinGroups int    `json:"minGroups,omitempty" validate:"gte=0"`
	MaxGroups int    `json:"maxGroups,omitempty" validate:"omitempty,gte=0,gtefield=MinGroups"`
}

// GroupBounds returns the effective [min, max] repeater group count; max 0 is unbounded.
func (q Question) GroupBounds() (int, int) {
	min, max := q.Validation.MinGroups, q.Validation.MaxGroups
	if !q.AllowMultipleGroups {
		max = 1
		if min > 1 {
			min = 1
		}
	}
	return min, max
}

// NewDocument returns an empty aggregate.
func NewDocument() Document {
	return Document{ProfileTypes: map[string]ProfileType{}}
}

// Get returns the profile type with id.
func (d Document) Get(id string) (ProfileType, bool) {
	pt, ok := d.ProfileTypes[id]
	return pt, ok
}

// List returns all profile types ordered by label, then id.
func (d Document) List() []ProfileType {
	out := make([]ProfileType, 0, len(d.ProfileTypes))
	for _, pt := range d.ProfileTypes {
		out = append(out, pt.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Label != out[j].Label {
			return out[i].Label < out[j].Label
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (d Document) Clone() Document {
	out := Document{ProfileTypes: make(map[string]ProfileType, len(d.ProfileTypes))}
	for id, pt := range d.ProfileTypes {
		out.ProfileTypes[id] = pt.Clone()
	}
	return out
}

func (pt ProfileType) Clone() ProfileType {
	out := pt
	out.Sections = make(map[string]Section, len(pt.Sections))
	for id, s := range pt.Sections {
		out.Sections[id] = s.Clone()
	}
	return out
}

// SectionIDs returns section ids in lexical order.
func (pt ProfileType) SectionIDs() []string {
	ids := make([]string, 0, len(pt.Sections))
	for id := range pt.Sections {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// QuestionCount is the number of top-level questions across all sections.
func (pt ProfileType) QuestionCount() int {
	n := 0
	for _, s := range pt.Sections {
		n += len(s.Questions)
	}
	return n
}

func (s Section) Clone() Section {
	out := s
	out.Questions = cloneQuestions(s.Questions)
	return out
}

// Question looks up a top-level question by id.
func (s Section) Question(id string) (Question, bool) {
	for _, q := range s.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

func (q Question) Clone() Question {
	out := q
	if q.Options != nil {
		out.Options = append([]string(nil), q.Options...)
	}
	out.RepeaterFields = cloneQuestions(q.RepeaterFields)
	return out
}

func cloneQuestions(in []Question) []Question {
	if in == nil {
		return nil
	}
	out := make([]Question, len(in))
	for i, q := range in {
		out[i] = q.Clone()
	}
	return out
}
