package schema

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// fieldRules runs the `validate` tags on Question and Validation. Rules that
// depend on the question type stay in checkQuestion.
var fieldRules = newFieldRules()

func newFieldRules() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// checkFields reports every tag violation on q as a reason string.
func checkFields(q *Question) []string {
	err := fieldRules.Struct(q)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}
	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, ruleReason(fe))
	}
	return out
}

func ruleReason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return fe.Field() + " is required"
	case "oneof":
		return fmt.Sprintf("unknown %s %q", fe.Field(), fmt.Sprint(fe.Value()))
	case "gte":
		return fe.Field() + " must not be negative"
	case "gtefield":
		return fmt.Sprintf("%s %v is below %s", fe.Field(), fe.Value(), jsonName(fe.Param()))
	default:
		return fmt.Sprintf("%s fails %s", fe.Field(), fe.Tag())
	}
}

// jsonName lower-cases the first letter of a Go field name.
func jsonName(field string) string {
	if field == "" {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}
