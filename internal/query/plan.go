package query

import "strings"

// Condition is a store-native constraint. Path holds the field path split on
// dots so nested segments with spaces or accents address correctly.
type Condition struct {
	Path  []string
	Op    Op
	Value any
}

// Plan is the result of compiling a request: the constraints pushed down to
// the store, the clauses deferred to in-memory evaluation, and the limit to
// push down (0 when the limit must be applied locally instead).
type Plan struct {
	Native      []Condition
	Post        []Filter
	NativeLimit int
}

// postOps are the operators that need case-insensitive semantics for
// string-typed values, which the store cannot provide.
var postOps = map[Op]bool{
	OpEqual:            true,
	OpIn:               true,
	OpNotIn:            true,
	OpArrayContains:    true,
	OpArrayContainsAny: true,
}

// isStringLike reports whether v is a string or a list whose every element
// is a string.
func isStringLike(v any) bool {
	switch t := v.(type) {
	case string:
		return true
	case []any:
		for _, e := range t {
			if _, ok := e.(string); !ok {
				return false
			}
		}
		return true
	}
	return false
}

// Compile splits a request into native constraints and deferred clauses.
// A clause is deferred exactly when its operator is equality or containment
// and its value is string-typed; range comparisons always run natively
// since ordering is unaffected by case concerns. The request limit is only
// pushed down when nothing is deferred — otherwise the store would truncate
// the candidate set before the deferred clauses run, silently dropping
// matching rows.
func Compile(req Request) Plan {
	var plan Plan
	for _, f := range req.Filters {
		if postOps[f.Op] && isStringLike(f.Value) {
			plan.Post = append(plan.Post, f)
			continue
		}

		var val any
		if listOps[f.Op] {
			val = coerceList(f.Field, f.Value)
		} else {
			val = coerceValue(f.Field, f.Value)
		}

		plan.Native = append(plan.Native, Condition{
			Path:  strings.Split(f.Field, "."),
			Op:    f.Op,
			Value: val,
		})
	}

	if req.Limit > 0 && len(plan.Post) == 0 {
		plan.NativeLimit = req.Limit
	}
	return plan
}
