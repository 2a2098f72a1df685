package query

import (
	"strings"
	"testing"
)

func TestValidateRequiresFilters(t *testing.T) {
	req := Request{}
	violations := req.Validate()
	if len(violations) != 1 {
		t.Fatalf("expected 1 violation, got %d", len(violations))
	}
	if violations[0].Field != "filters" {
		t.Errorf("expected violation on filters, got %q", violations[0].Field)
	}
}

func TestValidateEmptyFilterListIsValid(t *testing.T) {
	req := Request{Filters: []Filter{}}
	if v := req.Validate(); len(v) != 0 {
		t.Errorf("expected no violations for empty list, got %v", v)
	}
}

func TestValidateLimitBounds(t *testing.T) {
	cases := []struct {
		limit int
		ok    bool
	}{
		{0, true},
		{1, true},
		{MaxLimit, true},
		{-1, false},
		{MaxLimit + 1, false},
	}
	for _, tc := range cases {
		req := Request{Filters: []Filter{}, Limit: tc.limit}
		violations := req.Validate()
		if tc.ok && len(violations) != 0 {
			t.Errorf("limit %d: expected valid, got %v", tc.limit, violations)
		}
		if !tc.ok && len(violations) == 0 {
			t.Errorf("limit %d: expected violation", tc.limit)
		}
	}
}

func TestValidateUnknownOperator(t *testing.T) {
	req := Request{Filters: []Filter{{Field: "title", Op: "!=", Value: "x"}}}
	violations := req.Validate()
	if len(violations) != 1 {
		t.Fatalf("expected 1 violation, got %v", violations)
	}
	if !strings.Contains(violations[0].Message, "!=") {
		t.Errorf("message should name the operator: %q", violations[0].Message)
	}
}

func TestValidateEmptyField(t *testing.T) {
	req := Request{Filters: []Filter{{Field: "", Op: OpEqual, Value: "x"}}}
	violations := req.Validate()
	if len(violations) != 1 || violations[0].Field != "filters[0].field" {
		t.Fatalf("expected field violation, got %v", violations)
	}
}

func TestValidateListOperators(t *testing.T) {
	big := make([]any, MaxListValues+1)
	for i := range big {
		big[i] = i
	}

	cases := []struct {
		name  string
		value any
		ok    bool
	}{
		{"non-list", "x", false},
		{"empty list", []any{}, false},
		{"one value", []any{"x"}, true},
		{"at cap", make([]any, MaxListValues), true},
		{"over cap", big, false},
	}
	for _, op := range []Op{OpIn, OpNotIn, OpArrayContainsAny} {
		for _, tc := range cases {
			req := Request{Filters: []Filter{{Field: "tags", Op: op, Value: tc.value}}}
			violations := req.Validate()
			if tc.ok && len(violations) != 0 {
				t.Errorf("%s %s: expected valid, got %v", op, tc.name, violations)
			}
			if !tc.ok && len(violations) == 0 {
				t.Errorf("%s %s: expected violation", op, tc.name)
			}
		}
	}
}

func TestValidateCollectsAllViolations(t *testing.T) {
	req := Request{
		Limit: -5,
		Filters: []Filter{
			{Field: "", Op: OpEqual, Value: 1},
			{Field: "tags", Op: OpIn, Value: "not-a-list"},
		},
	}
	violations := req.Validate()
	if len(violations) != 3 {
		t.Errorf("expected 3 violations, got %v", violations)
	}
}
