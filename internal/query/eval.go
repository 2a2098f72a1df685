package query

import (
	"reflect"
	"strings"
)

// lookupPath walks data segment by segment along a dot-separated path.
// A missing segment yields nil.
func lookupPath(data map[string]any, path string) any {
	var cur any = data
	for _, seg := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur = m[seg]
	}
	return cur
}

// equalValues compares two values: case-insensitive when both are strings,
// numerically when both are numbers (the wire has a single number type),
// structural equality otherwise.
func equalValues(a, b any) bool {
	if as, ok := a.(string); ok {
		if bs, ok := b.(string); ok {
			return strings.EqualFold(as, bs)
		}
		return false
	}
	if af, ok := toFloat(a); ok {
		if bf, ok := toFloat(b); ok {
			return af == bf
		}
		return false
	}
	return reflect.DeepEqual(a, b)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// containsValue reports whether the sequence hay has an element equal to
// needle. Objects in hay match only on full structural equality.
func containsValue(hay any, needle any) bool {
	list, ok := hay.([]any)
	if !ok {
		return false
	}
	for _, e := range list {
		if equalValues(e, needle) {
			return true
		}
	}
	return false
}

// intersectsAny reports whether hay and needles share at least one element.
// String elements of hay are case-folded into a set; everything else falls
// back to a structural scan.
func intersectsAny(hay any, needles []any) bool {
	list, ok := hay.([]any)
	if !ok {
		return false
	}
	folded := make(map[string]bool)
	var rest []any
	for _, e := range list {
		if s, ok := e.(string); ok {
			folded[strings.ToLower(s)] = true
		} else {
			rest = append(rest, e)
		}
	}
	for _, n := range needles {
		if s, ok := n.(string); ok {
			if folded[strings.ToLower(s)] {
				return true
			}
			continue
		}
		for _, e := range rest {
			if equalValues(e, n) {
				return true
			}
		}
	}
	return false
}

func asList(v any) []any {
	if list, ok := v.([]any); ok {
		return list
	}
	return nil
}

// Matches evaluates one deferred clause against a retrieved document's
// value mapping. Range operators report true: they were already enforced
// by the store.
func Matches(data map[string]any, f Filter) bool {
	fieldVal := lookupPath(data, f.Field)
	switch f.Op {
	case OpEqual:
		return equalValues(fieldVal, f.Value)
	case OpIn:
		for _, v := range asList(f.Value) {
			if equalValues(fieldVal, v) {
				return true
			}
		}
		return false
	case OpNotIn:
		for _, v := range asList(f.Value) {
			if equalValues(fieldVal, v) {
				return false
			}
		}
		return true
	case OpArrayContains:
		return containsValue(fieldVal, f.Value)
	case OpArrayContainsAny:
		return intersectsAny(fieldVal, asList(f.Value))
	}
	return true
}

// MatchesAll reports whether the document satisfies every deferred clause,
// matching the store side's AND semantics.
func MatchesAll(data map[string]any, filters []Filter) bool {
	for _, f := range filters {
		if !Matches(data, f) {
			return false
		}
	}
	return true
}
