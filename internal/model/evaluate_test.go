package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustSubmit(t *testing.T, raw string) SubmittedAnswer {
	t.Helper()
	submitted, err := ParseSubmittedAnswer(json.RawMessage(raw))
	require.NoError(t, err)
	return submitted
}

func TestEvaluateAnswer_String(t *testing.T) {
	spec := AnswerSpec{
		Shape:            ShapeString,
		Value:            "Paris",
		AcceptVariations: []string{"paris, france"},
	}

	tests := []struct {
		name string
		raw  string
		want bool
	}{
		{"exact", `"Paris"`, true},
		{"lowercase", `"paris"`, true},
		{"uppercase", `"PARIS"`, true},
		{"surrounding whitespace", `"  Paris  "`, true},
		{"accepted variation", `"Paris, France"`, true},
		{"wrong answer", `"London"`, false},
		{"empty", `""`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := EvaluateAnswer(mustSubmit(t, tt.raw), spec)
			require.NoError(t, err)
			assert.Equal(t, tt.want, result.Correct)
		})
	}
}

func TestEvaluateAnswer_StringCaseSensitive(t *testing.T) {
	spec := AnswerSpec{Shape: ShapeString, Value: "pH", CaseSensitive: true}

	result, err := EvaluateAnswer(mustSubmit(t, `"pH"`), spec)
	require.NoError(t, err)
	assert.True(t, result.Correct)

	result, err = EvaluateAnswer(mustSubmit(t, `"PH"`), spec)
	require.NoError(t, err)
	assert.False(t, result.Correct)
}

func TestEvaluateAnswer_OrderedList(t *testing.T) {
	spec := AnswerSpec{
		Shape:        ShapeOrderedList,
		Values:       []string{"first", "second", "third"},
		OrderMatters: true,
	}

	tests := []struct {
		name string
		raw  string
		want bool
	}{
		{"correct order", `["first", "second", "third"]`, true},
		{"mixed case", `["FIRST", "Second", "third"]`, true},
		{"wrong order", `["second", "first", "third"]`, false},
		{"missing element", `["first", "second"]`, false},
		{"extra element", `["first", "second", "third", "fourth"]`, false},
		{"comma string form", `"first, second, third"`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := EvaluateAnswer(mustSubmit(t, tt.raw), spec)
			require.NoError(t, err)
			assert.Equal(t, tt.want, result.Correct)
		})
	}
}

func TestEvaluateAnswer_UnorderedSet(t *testing.T) {
	spec := AnswerSpec{
		Shape:  ShapeUnorderedSet,
		Values: []string{"red", "green", "blue"},
	}

	tests := []struct {
		name string
		raw  string
		want bool
	}{
		{"same order", `["red", "green", "blue"]`, true},
		{"any order", `["blue", "red", "green"]`, true},
		{"duplicates collapse", `["red", "red", "green", "blue"]`, true},
		{"missing element", `["red", "green"]`, false},
		{"extra element", `["red", "green", "blue", "yellow"]`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := EvaluateAnswer(mustSubmit(t, tt.raw), spec)
			require.NoError(t, err)
			assert.Equal(t, tt.want, result.Correct)
		})
	}
}

func TestEvaluateAnswer_Mapping(t *testing.T) {
	spec := AnswerSpec{
		Shape: ShapeMapping,
		Pairs: map[string]string{"cat": "kitten", "dog": "puppy"},
	}

	tests := []struct {
		name string
		raw  string
		want bool
	}{
		{"exact", `{"cat": "kitten", "dog": "puppy"}`, true},
		{"case folded values", `{"cat": "KITTEN", "dog": "Puppy"}`, true},
		{"case folded keys", `{"Cat": "kitten", "DOG": "puppy"}`, true},
		{"wrong value", `{"cat": "puppy", "dog": "kitten"}`, false},
		{"missing key", `{"cat": "kitten"}`, false},
		{"extra key", `{"cat": "kitten", "dog": "puppy", "cow": "calf"}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := EvaluateAnswer(mustSubmit(t, tt.raw), spec)
			require.NoError(t, err)
			assert.Equal(t, tt.want, result.Correct)
		})
	}
}

func TestEvaluateAnswer_ShapeMismatch(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		spec AnswerSpec
	}{
		{"list against string", `["Paris"]`, AnswerSpec{Shape: ShapeString, Value: "Paris"}},
		{"mapping against string", `{"a": "b"}`, AnswerSpec{Shape: ShapeString, Value: "Paris"}},
		{"mapping against list", `{"a": "b"}`, AnswerSpec{Shape: ShapeOrderedList, Values: []string{"a"}}},
		{"string against mapping", `"kitten"`, AnswerSpec{Shape: ShapeMapping, Pairs: map[string]string{"cat": "kitten"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := EvaluateAnswer(mustSubmit(t, tt.raw), tt.spec)
			assert.ErrorIs(t, err, ErrMalformedAnswerShape)
			assert.False(t, result.Correct)
		})
	}
}

func TestParseSubmittedAnswer_Malformed(t *testing.T) {
	for _, raw := range []string{``, `42`, `true`, `[1, 2]`, `{"a": 1}`} {
		_, err := ParseSubmittedAnswer(json.RawMessage(raw))
		assert.ErrorIs(t, err, ErrMalformedAnswerShape, "payload %q", raw)
	}
}

func TestHintAdjustedScore(t *testing.T) {
	tests := []struct {
		name      string
		correct   bool
		hintsUsed int
		penalty   float64
		want      float64
	}{
		{"no hints", true, 0, 0.5, 1.0},
		{"one hint", true, 1, 0.5, 0.5},
		{"two hints floors at zero", true, 2, 0.5, 0.0},
		{"three hints stays at zero", true, 3, 0.5, 0.0},
		{"incorrect scores zero regardless", false, 0, 0.5, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, HintAdjustedScore(tt.correct, tt.hintsUsed, tt.penalty), 1e-9)
		})
	}
}
