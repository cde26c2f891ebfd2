package schema

import (
	"fmt"
	"strings"
)

// DefinitionError is a single malformed question or section definition.
type DefinitionError struct {
	Path   string
	Reason string
}

func (e *DefinitionError) Error() string {
	if e.Path == "" {
		return e.Reason
	}
	return e.Path + ": " + e.Reason
}

// RegexConfigError reports a validation.pattern that does not compile.
type RegexConfigError struct {
	Path    string
	Pattern string
	Err     error
}

func (e *RegexConfigError) Error() string {
	return fmt.Sprintf("%s: invalid pattern %q: %v", e.Path, e.Pattern, e.Err)
}

func (e *RegexConfigError) Unwrap() error { return e.Err }

// DefinitionErrors collects every problem found in one definition pass.
type DefinitionErrors []error

func (es DefinitionErrors) Error() string {
	parts := make([]string, 0, len(es))
	for _, e := range es {
		parts = append(parts, e.Error())
	}
	return "invalid question definitions: " + strings.Join(parts, "; ")
}

func (es DefinitionErrors) Unwrap() []error { return es }

func (es DefinitionErrors) orNil() error {
	if len(es) == 0 {
		return nil
	}
	return es
}
