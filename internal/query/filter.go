// Package query implements the filter-to-query compiler shared by the
// endpoint and item query paths. A request's filter list is validated,
// coerced, and split into constraints the document store can evaluate
// natively and clauses that must be re-checked in memory after retrieval,
// because the store's equality and containment operators are code-point
// exact while string matching here is case-insensitive.
package query

import (
	"fmt"
)

// Op is a filter operator, using the store's operator spelling on the wire.
type Op string

const (
	OpEqual            Op = "=="
	OpLess             Op = "<"
	OpLessOrEqual      Op = "<="
	OpGreater          Op = ">"
	OpGreaterOrEqual   Op = ">="
	OpArrayContains    Op = "array-contains"
	OpArrayContainsAny Op = "array-contains-any"
	OpIn               Op = "in"
	OpNotIn            Op = "not-in"
)

// MaxLimit caps the result-count limit a request may ask for.
const MaxLimit = 200

// MaxListValues is the store's cap on list values for in / not-in /
// array-contains-any.
const MaxListValues = 10

var validOps = map[Op]bool{
	OpEqual:            true,
	OpLess:             true,
	OpLessOrEqual:      true,
	OpGreater:          true,
	OpGreaterOrEqual:   true,
	OpArrayContains:    true,
	OpArrayContainsAny: true,
	OpIn:               true,
	OpNotIn:            true,
}

// listOps are the operators whose value must be a list.
var listOps = map[Op]bool{
	OpIn:               true,
	OpNotIn:            true,
	OpArrayContainsAny: true,
}

// Filter is one field/operator/value predicate. Field may be a dot-separated
// path into nested values (e.g. "data.Título").
type Filter struct {
	Field string `json:"field"`
	Op    Op     `json:"op"`
	Value any    `json:"value"`
}

// Request is an ordered list of filters, AND-combined, plus an optional
// result-count limit.
type Request struct {
	Filters []Filter `json:"filters"`
	Limit   int      `json:"limit,omitempty"`
}

// Violation is a field-level validation failure.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

// Validate checks the request shape before anything reaches the store.
// It returns the full list of violations, not just the first.
func (r Request) Validate() []Violation {
	var out []Violation
	if r.Filters == nil {
		out = append(out, Violation{Field: "filters", Message: "filters is required"})
	}
	if r.Limit < 0 || r.Limit > MaxLimit {
		out = append(out, Violation{
			Field:   "limit",
			Message: fmt.Sprintf("limit must be between 1 and %d", MaxLimit),
		})
	}
	for i, f := range r.Filters {
		name := fmt.Sprintf("filters[%d]", i)
		if f.Field == "" {
			out = append(out, Violation{Field: name + ".field", Message: "field is required"})
		}
		if !validOps[f.Op] {
			out = append(out, Violation{
				Field:   name + ".op",
				Message: fmt.Sprintf("unknown operator %q", string(f.Op)),
			})
			continue
		}
		if listOps[f.Op] {
			list, ok := f.Value.([]any)
			if !ok {
				out = append(out, Violation{
					Field:   name + ".value",
					Message: fmt.Sprintf("operator %q requires a list value", string(f.Op)),
				})
				continue
			}
			if len(list) == 0 {
				out = append(out, Violation{
					Field:   name + ".value",
					Message: fmt.Sprintf("operator %q requires a non-empty list", string(f.Op)),
				})
			}
			if len(list) > MaxListValues {
				out = append(out, Violation{
					Field:   name + ".value",
					Message: fmt.Sprintf("at most %d values allowed for %q", MaxListValues, string(f.Op)),
				})
			}
		}
	}
	return out
}
