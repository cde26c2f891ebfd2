package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// EncodeDocument serialises the aggregate for storage.
func EncodeDocument(d Document) ([]byte, error) {
	if d.ProfileTypes == nil {
		d.ProfileTypes = map[string]ProfileType{}
	}
	b, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("encode schema document: %w", err)
	}
	return b, nil
}

// DecodeDocument parses a stored aggregate; empty input yields an empty document.
func DecodeDocument(raw []byte) (Document, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return NewDocument(), nil
	}
	var d Document
	if err := json.Unmarshal(raw, &d); err != nil {
		return Document{}, fmt.Errorf("decode schema document: %w", err)
	}
	if d.ProfileTypes == nil {
		d.ProfileTypes = map[string]ProfileType{}
	}
	for id, pt := range d.ProfileTypes {
		if pt.Sections == nil {
			pt.Sections = map[string]Section{}
			d.ProfileTypes[id] = pt
		}
	}
	return d, nil
}

func EncodeQuestions(qs []Question) ([]byte, error) {
	if qs == nil {
		qs = []Question{}
	}
	return json.Marshal(qs)
}

func DecodeQuestions(raw []byte) ([]Question, error) {
	var qs []Question
	if err := json.Unmarshal(raw, &qs); err != nil {
		return nil, fmt.Errorf("decode questions: %w", err)
	}
	return qs, nil
}
