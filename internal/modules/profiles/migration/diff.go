package migration

import (
	"sort"
	"strings"
)

// Diff classifies section ids between the stored and the submitted profile type.
type Diff struct {
	Renamed  map[string]string `json:"renamed"` // existing id -> incoming id
	Retained []string          `json:"retained"`
	Added    []string          `json:"added"`
	Removed  []string          `json:"removed"`
}

// ComputeDiff builds the diff. Every mapping entry must name an existing and
// an incoming section, and no two existing sections may map to the same target.
func ComputeDiff(existing, incoming []string, mapping map[string]string) (Diff, error) {
	ex := toSet(existing)
	in := toSet(incoming)
	d := Diff{Renamed: map[string]string{}}

	targets := map[string]string{}
	for _, oldID := range sortedKeys(mapping) {
		newID := strings.TrimSpace(mapping[oldID])
		if !ex[oldID] {
			return Diff{}, &ConflictError{OldID: oldID, NewID: newID, Reason: "source section does not exist"}
		}
		if !in[newID] {
			return Diff{}, &ConflictError{OldID: oldID, NewID: newID, Reason: "target section is not in the edit"}
		}
		if prev, dup := targets[newID]; dup {
			return Diff{}, &ConflictError{OldID: oldID, NewID: newID, Reason: "target already mapped from " + prev}
		}
		targets[newID] = oldID
		d.Renamed[oldID] = newID
	}

	for id := range ex {
		if _, mapped := d.Renamed[id]; mapped {
			continue
		}
		if _, consumed := targets[id]; in[id] && !consumed {
			d.Retained = append(d.Retained, id)
		} else {
			d.Removed = append(d.Removed, id)
		}
	}
	for id := range in {
		if _, mapped := targets[id]; mapped {
			continue
		}
		if !ex[id] || isMappedSource(d.Renamed, id) {
			d.Added = append(d.Added, id)
		}
	}
	sort.Strings(d.Retained)
	sort.Strings(d.Added)
	sort.Strings(d.Removed)
	return d, nil
}

// Empty reports whether the edit keeps every section as is.
func (d Diff) Empty() bool {
	return len(d.Renamed) == 0 && len(d.Added) == 0 && len(d.Removed) == 0
}

func isMappedSource(renamed map[string]string, id string) bool {
	_, ok := renamed[id]
	return ok
}

func toSet(ids []string) map[string]bool {
	out := make(map[string]bool, len(ids))
	for _, id := range ids {
		out[id] = true
	}
	return out
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
