package migration

import (
	"fmt"
	"strings"
	"time"

	"github.com/yungbote/profileforms-backend/internal/modules/profiles/schema"
)

// Edit is an admin's submitted profile type. Section questions are not taken
// from the edit: they are carried over from the stored schema and changed
// only through question saves.
type Edit struct {
	Label           string                 `json:"label"`
	Subtitle        string                 `json:"subtitle"`
	Icon            string                 `json:"icon"`
	Sections        map[string]SectionEdit `json:"sections"`
	ExplicitMapping map[string]string      `json:"explicitMapping"`
	ExpectedVersion *int                   `json:"expectedVersion,omitempty"`
}

type SectionEdit struct {
	Label             string                   `json:"label"`
	RequirementPolicy schema.RequirementPolicy `json:"requirementPolicy,omitempty"`
}

// Plan is the outcome of applying an Edit to a stored profile type.
type Plan struct {
	OldID  string
	NewID  string
	After  schema.ProfileType
	Diff   Diff
	Report Report
}

// IDChanged reports whether users referencing OldID must be rewritten.
func (p Plan) IDChanged() bool { return p.OldID != p.NewID }

// Build plans edit against existing. It never mutates existing.
func Build(existing schema.ProfileType, edit Edit, now time.Time) (Plan, error) {
	newID := schema.Slugify(edit.Label)
	if newID == "" {
		return Plan{}, &schema.DefinitionError{Path: "label", Reason: "label is required"}
	}
	if err := checkSections(edit.Sections); err != nil {
		return Plan{}, err
	}

	incomingIDs := make([]string, 0, len(edit.Sections))
	for id := range edit.Sections {
		incomingIDs = append(incomingIDs, id)
	}
	diff, err := ComputeDiff(existing.SectionIDs(), incomingIDs, edit.ExplicitMapping)
	if err != nil {
		return Plan{}, err
	}

	after := schema.ProfileType{
		ID:       newID,
		Label:    strings.TrimSpace(edit.Label),
		Subtitle: edit.Subtitle,
		Icon:     edit.Icon,
		Sections: make(map[string]schema.Section, len(edit.Sections)),
		Metadata: schema.Metadata{
			CreatedAt: existing.Metadata.CreatedAt,
			UpdatedAt: now,
			Version:   existing.Metadata.Version + 1,
		},
	}
	carry := func(fromID, toID string) {
		in := edit.Sections[toID]
		from := existing.Sections[fromID]
		policy := in.RequirementPolicy
		if policy == "" {
			policy = from.RequirementPolicy
		}
		after.Sections[toID] = schema.Section{
			ID:                toID,
			Label:             strings.TrimSpace(in.Label),
			Questions:         from.Clone().Questions,
			RequirementPolicy: policy,
			UpdatedAt:         now,
		}
	}
	for oldID, newSectionID := range diff.Renamed {
		carry(oldID, newSectionID)
	}
	for _, id := range diff.Retained {
		carry(id, id)
	}
	for _, id := range diff.Added {
		in := edit.Sections[id]
		after.Sections[id] = schema.Section{
			ID:                id,
			Label:             strings.TrimSpace(in.Label),
			Questions:         []schema.Question{},
			RequirementPolicy: in.RequirementPolicy,
			UpdatedAt:         now,
		}
	}

	return Plan{
		OldID:  existing.ID,
		NewID:  newID,
		After:  after,
		Diff:   diff,
		Report: newReport(existing, after, diff),
	}, nil
}

// ApplyTo returns a copy of doc with the planned profile type in place of the old one.
func (p Plan) ApplyTo(doc schema.Document) schema.Document {
	out := doc.Clone()
	delete(out.ProfileTypes, p.OldID)
	out.ProfileTypes[p.NewID] = p.After.Clone()
	return out
}

func checkSections(sections map[string]SectionEdit) error {
	var errs schema.DefinitionErrors
	for id, s := range sections {
		path := "sections." + id
		if !schema.ValidID(id) {
			errs = append(errs, &schema.DefinitionError{Path: path, Reason: fmt.Sprintf("invalid section id %q", id)})
			continue
		}
		if err := schema.CheckSection(schema.Section{ID: id, Label: s.Label, RequirementPolicy: s.RequirementPolicy}); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}
