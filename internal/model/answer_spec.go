package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// AnswerShape discriminates the closed union of canonical answer shapes.
// The shape is resolved once when the question is loaded, never re-inferred
// per submission.
type AnswerShape string

const (
	ShapeString       AnswerShape = "string"
	ShapeOrderedList  AnswerShape = "ordered_list"
	ShapeUnorderedSet AnswerShape = "unordered_set"
	ShapeMapping      AnswerShape = "mapping"
)

// AnswerSpec is the authoritative correct-answer representation of a
// question. Exactly one of Value, Values or Pairs is populated, according
// to Shape.
type AnswerSpec struct {
	Shape            AnswerShape
	Value            string
	Values           []string
	Pairs            map[string]string
	AcceptVariations []string
	CaseSensitive    bool
	OrderMatters     bool
}

// answerSpecDoc is the wire form stored on the question row.
type answerSpecDoc struct {
	Value            json.RawMessage `json:"value"`
	AcceptVariations []string        `json:"accept_variations,omitempty"`
	CaseSensitive    bool            `json:"case_sensitive,omitempty"`
	OrderMatters     bool            `json:"order_matters,omitempty"`
}

// ParseAnswerSpec decodes a stored answer document and resolves its shape.
// A list-valued answer is an ordered list only when order_matters is set;
// a multi-select question forces the set shape regardless.
func ParseAnswerSpec(raw []byte, multiSelect bool) (AnswerSpec, error) {
	var doc answerSpecDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return AnswerSpec{}, fmt.Errorf("invalid answer document: %w", err)
	}
	if len(doc.Value) == 0 || string(doc.Value) == "null" {
		return AnswerSpec{}, fmt.Errorf("answer document has no value")
	}

	spec := AnswerSpec{
		AcceptVariations: doc.AcceptVariations,
		CaseSensitive:    doc.CaseSensitive,
		OrderMatters:     doc.OrderMatters,
	}

	var s string
	if err := json.Unmarshal(doc.Value, &s); err == nil {
		spec.Shape = ShapeString
		spec.Value = s
		return spec, nil
	}

	var list []string
	if err := json.Unmarshal(doc.Value, &list); err == nil {
		spec.Values = list
		if doc.OrderMatters && !multiSelect {
			spec.Shape = ShapeOrderedList
		} else {
			spec.Shape = ShapeUnorderedSet
		}
		return spec, nil
	}

	var pairs map[string]string
	if err := json.Unmarshal(doc.Value, &pairs); err == nil {
		spec.Shape = ShapeMapping
		spec.Pairs = pairs
		return spec, nil
	}

	return AnswerSpec{}, fmt.Errorf("answer value is neither string, list nor mapping")
}

// Canonical returns the display form of the correct answer.
func (s AnswerSpec) Canonical() any {
	switch s.Shape {
	case ShapeString:
		return s.Value
	case ShapeOrderedList, ShapeUnorderedSet:
		return s.Values
	case ShapeMapping:
		return s.Pairs
	}
	return nil
}

// SubmittedAnswer is a submission parsed into the same shape family as the
// canonical values: a raw string, a list, or a key-value mapping.
type SubmittedAnswer struct {
	Text    string
	List    []string
	Pairs   map[string]string
	IsText  bool
	IsList  bool
	IsPairs bool
}

// ParseSubmittedAnswer decodes a submission payload. Anything that is not
// a JSON string, string array or string mapping is a malformed shape.
func ParseSubmittedAnswer(raw json.RawMessage) (SubmittedAnswer, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return SubmittedAnswer{}, ErrMalformedAnswerShape
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return SubmittedAnswer{Text: s, IsText: true}, nil
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return SubmittedAnswer{List: list, IsList: true}, nil
	}

	var pairs map[string]string
	if err := json.Unmarshal(raw, &pairs); err == nil {
		return SubmittedAnswer{Pairs: pairs, IsPairs: true}, nil
	}

	return SubmittedAnswer{}, ErrMalformedAnswerShape
}

// listForm returns the submission as a list of elements, splitting a raw
// comma-separated string when needed. ok is false for mapping submissions.
func (a SubmittedAnswer) listForm() ([]string, bool) {
	if a.IsList {
		return a.List, true
	}
	if a.IsText {
		return splitList(a.Text), true
	}
	return nil, false
}

func splitList(text string) []string {
	parts := strings.Split(text, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
