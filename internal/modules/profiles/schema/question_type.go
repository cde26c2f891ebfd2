package schema

import (
	"fmt"
	"strings"
)

// QuestionType is the closed set of question variants.
type QuestionType string

const (
	TypeText           QuestionType = "text"
	TypeTextarea       QuestionType = "textarea"
	TypeDropdown       QuestionType = "dropdown"
	TypeMultipleChoice QuestionType = "multipleChoice"
	TypeFile           QuestionType = "file"
	TypeDate           QuestionType = "date"
	TypeRepeater       QuestionType = "repeater"
)

var questionTypes = []QuestionType{
	TypeText,
	TypeTextarea,
	TypeDropdown,
	TypeMultipleChoice,
	TypeFile,
	TypeDate,
	TypeRepeater,
}

// legacy spellings accepted from admin payloads
var questionTypeAliases = map[string]QuestionType{
	"singlechoice": TypeDropdown,
	"select":       TypeDropdown,
	"multiselect":  TypeMultipleChoice,
	"group":        TypeRepeater,
}

// QuestionTypes lists every variant.
func QuestionTypes() []QuestionType {
	return append([]QuestionType(nil), questionTypes...)
}

func ParseQuestionType(raw string) (QuestionType, error) {
	key := strings.ToLower(strings.TrimSpace(raw))
	for _, t := range questionTypes {
		if strings.ToLower(string(t)) == key {
			return t, nil
		}
	}
	if t, ok := questionTypeAliases[key]; ok {
		return t, nil
	}
	return "", fmt.Errorf("unknown question type %q", raw)
}

func (t QuestionType) Valid() bool {
	for _, known := range questionTypes {
		if t == known {
			return true
		}
	}
	return false
}

// IsChoice reports whether the type carries an options list.
func (t QuestionType) IsChoice() bool {
	return t == TypeDropdown || t == TypeMultipleChoice
}

// IsTextual reports whether length/pattern bounds apply.
func (t QuestionType) IsTextual() bool {
	return t == TypeText || t == TypeTextarea
}
