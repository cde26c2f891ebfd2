package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/yungbote/profileforms-backend/internal/modules/profiles/schema"
)

func TestDefaultSeedParses(t *testing.T) {
	seed, err := LoadSeed("")
	if err != nil {
		t.Fatalf("LoadSeed: %v", err)
	}
	if len(seed) != 2 {
		t.Fatalf("profile types: want=2 got=%d", len(seed))
	}
	student := seed[0]
	if student.Label != "Student" {
		t.Fatalf("first label: want=Student got=%q", student.Label)
	}
	exp, ok := student.Sections["experience"]
	if !ok {
		t.Fatalf("experience section missing: %v", student.Sections)
	}
	if exp.RequirementPolicy != schema.PolicyExplicitOnly {
		t.Fatalf("policy: want=%s got=%s", schema.PolicyExplicitOnly, exp.RequirementPolicy)
	}
	roles := exp.Questions[0]
	if roles.Type != schema.TypeRepeater || len(roles.RepeaterFields) != 3 || roles.Validation.MaxGroups != 10 {
		t.Fatalf("repeater: got=%+v", roles)
	}
	level := student.Sections["education"].Questions[1]
	if len(level.Options) != 3 {
		t.Fatalf("dropdown options: want=3 got=%v", level.Options)
	}
}

func TestDefaultSeedPassesDefinitionChecks(t *testing.T) {
	seed, err := LoadSeed("")
	if err != nil {
		t.Fatalf("LoadSeed: %v", err)
	}
	for _, pt := range seed {
		for id, sec := range pt.Sections {
			qs, err := schema.NormalizeQuestions(sec.Questions)
			if err != nil {
				t.Fatalf("%s/%s normalize: %v", pt.Label, id, err)
			}
			if err := schema.CheckSection(schema.Section{ID: id, Label: sec.Label, Questions: qs}); err != nil {
				t.Fatalf("%s/%s check: %v", pt.Label, id, err)
			}
		}
	}
}

func TestLoadSeedFromPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	body := "- label: Alumni\n  sections:\n    about:\n      label: About\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	seed, err := LoadSeed(path)
	if err != nil {
		t.Fatalf("LoadSeed: %v", err)
	}
	if len(seed) != 1 || seed[0].Label != "Alumni" || seed[0].Sections["about"].Label != "About" {
		t.Fatalf("seed: got=%+v", seed)
	}

	if _, err := LoadSeed(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("missing file: want error")
	}
	if _, err := ParseSeed([]byte("label: [")); err == nil {
		t.Fatalf("bad yaml: want error")
	}
}
