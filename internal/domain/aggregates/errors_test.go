package aggregates

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{NewError(CodeNotFound, "schema.get", "profile type missing", nil), "schema.get: profile type missing (not_found)"},
		{NewError(CodeConflict, "schema.write", "", nil), "schema.write (conflict)"},
		{NewError(CodeRegexConfig, "", "bad pattern", nil), "bad pattern (regex_config)"},
		{NewError(CodeInternal, "", "", nil), "internal"},
	}
	for _, tc := range cases {
		if got := tc.err.Error(); got != tc.want {
			t.Fatalf("Error(): want=%q got=%q", tc.want, got)
		}
	}
}

func TestCodeOfThroughWrapping(t *testing.T) {
	cause := errors.New("boom")
	err := fmt.Errorf("outer: %w", Wrap(CodeMigrationConflict, "migrate", cause))
	if !IsCode(err, CodeMigrationConflict) {
		t.Fatalf("expected migration_conflict, got %q", CodeOf(err))
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause to be reachable")
	}
	if CodeOf(cause) != "" {
		t.Fatalf("plain error should carry no code")
	}
	if Wrap(CodeInternal, "x", nil) != nil {
		t.Fatalf("Wrap(nil) must be nil")
	}
}

func TestIsPersistence(t *testing.T) {
	if !IsPersistence(NewError(CodeRetryable, "op", "lock timeout", nil)) {
		t.Fatalf("retryable should count as persistence")
	}
	if !IsPersistence(NewError(CodePersistence, "op", "io", nil)) {
		t.Fatalf("persistence should count as persistence")
	}
	if IsPersistence(NewError(CodeValidation, "op", "bad", nil)) {
		t.Fatalf("validation is not persistence")
	}
}
