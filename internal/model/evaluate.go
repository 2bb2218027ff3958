package model

import "strings"

// EvalResult is the outcome of checking one submission against a question's
// answer specification.
type EvalResult struct {
	Correct   bool
	Canonical any
}

// EvaluateAnswer applies the comparison rule selected by the canonical
// value's shape. It never panics on unrecognised input: a structural
// mismatch yields Correct=false plus ErrMalformedAnswerShape, and the
// caller decides whether that is a user error or a data error.
func EvaluateAnswer(submitted SubmittedAnswer, spec AnswerSpec) (EvalResult, error) {
	result := EvalResult{Canonical: spec.Canonical()}

	switch spec.Shape {
	case ShapeString:
		if !submitted.IsText {
			return result, ErrMalformedAnswerShape
		}
		result.Correct = matchesString(submitted.Text, spec)
		return result, nil

	case ShapeOrderedList:
		list, ok := submitted.listForm()
		if !ok {
			return result, ErrMalformedAnswerShape
		}
		result.Correct = matchesOrdered(list, spec) || matchesVariationList(list, spec, true)
		return result, nil

	case ShapeUnorderedSet:
		list, ok := submitted.listForm()
		if !ok {
			return result, ErrMalformedAnswerShape
		}
		result.Correct = matchesSet(list, spec.Values, spec) || matchesVariationList(list, spec, false)
		return result, nil

	case ShapeMapping:
		if !submitted.IsPairs {
			return result, ErrMalformedAnswerShape
		}
		result.Correct = matchesMapping(submitted.Pairs, spec)
		return result, nil
	}

	return result, ErrMalformedAnswerShape
}

// HintAdjustedScore applies the fixed per-hint deduction to the base score,
// flooring at zero.
func HintAdjustedScore(correct bool, hintsUsed int, hintPenalty float64) float64 {
	if !correct {
		return 0
	}
	score := 1.0 - float64(hintsUsed)*hintPenalty
	if score < 0 {
		return 0
	}
	return score
}

// normalize trims surrounding whitespace and case-folds unless the spec is
// case sensitive.
func normalize(s string, caseSensitive bool) string {
	s = strings.TrimSpace(s)
	if !caseSensitive {
		s = strings.ToLower(s)
	}
	return s
}

func matchesString(submitted string, spec AnswerSpec) bool {
	got := normalize(submitted, spec.CaseSensitive)
	if got == normalize(spec.Value, spec.CaseSensitive) {
		return true
	}
	for _, v := range spec.AcceptVariations {
		if got == normalize(v, spec.CaseSensitive) {
			return true
		}
	}
	return false
}

func matchesOrdered(submitted []string, spec AnswerSpec) bool {
	if len(submitted) != len(spec.Values) {
		return false
	}
	for i, want := range spec.Values {
		if normalize(submitted[i], spec.CaseSensitive) != normalize(want, spec.CaseSensitive) {
			return false
		}
	}
	return true
}

// matchesSet compares duplicate- and order-insensitively: every canonical
// element must be present and no extra elements may be submitted.
func matchesSet(submitted, canonical []string, spec AnswerSpec) bool {
	got := make(map[string]struct{}, len(submitted))
	for _, s := range submitted {
		got[normalize(s, spec.CaseSensitive)] = struct{}{}
	}
	want := make(map[string]struct{}, len(canonical))
	for _, s := range canonical {
		want[normalize(s, spec.CaseSensitive)] = struct{}{}
	}
	if len(got) != len(want) {
		return false
	}
	for k := range want {
		if _, ok := got[k]; !ok {
			return false
		}
	}
	return true
}

// matchesVariationList treats each accepted variation as a comma-separated
// rendering of the list shape.
func matchesVariationList(submitted []string, spec AnswerSpec, ordered bool) bool {
	for _, v := range spec.AcceptVariations {
		alt := splitList(v)
		if ordered {
			altSpec := spec
			altSpec.Values = alt
			if matchesOrdered(submitted, altSpec) {
				return true
			}
		} else if matchesSet(submitted, alt, spec) {
			return true
		}
	}
	return false
}

func matchesMapping(submitted map[string]string, spec AnswerSpec) bool {
	if len(submitted) != len(spec.Pairs) {
		return false
	}
	for key, want := range spec.Pairs {
		got, ok := lookupKey(submitted, key, spec.CaseSensitive)
		if !ok {
			return false
		}
		if normalize(got, spec.CaseSensitive) != normalize(want, spec.CaseSensitive) {
			return false
		}
	}
	return true
}

func lookupKey(pairs map[string]string, key string, caseSensitive bool) (string, bool) {
	if v, ok := pairs[key]; ok {
		return v, true
	}
	want := normalize(key, caseSensitive)
	for k, v := range pairs {
		if normalize(k, caseSensitive) == want {
			return v, true
		}
	}
	return "", false
}
