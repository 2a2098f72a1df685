package query

import (
	"reflect"
	"testing"
	"time"
)

func TestCompileStringEqualityDeferred(t *testing.T) {
	plan := Compile(Request{Filters: []Filter{
		{Field: "data.Nome", Op: OpEqual, Value: "Ana"},
	}})
	if len(plan.Native) != 0 {
		t.Errorf("string equality must not go native: %v", plan.Native)
	}
	if len(plan.Post) != 1 {
		t.Fatalf("expected 1 deferred clause, got %d", len(plan.Post))
	}
}

func TestCompileNonStringEqualityNative(t *testing.T) {
	plan := Compile(Request{Filters: []Filter{
		{Field: "data.idade", Op: OpEqual, Value: float64(30)},
	}})
	if len(plan.Post) != 0 {
		t.Errorf("numeric equality must not be deferred: %v", plan.Post)
	}
	if len(plan.Native) != 1 {
		t.Fatalf("expected 1 native condition, got %d", len(plan.Native))
	}
	if !reflect.DeepEqual(plan.Native[0].Path, []string{"data", "idade"}) {
		t.Errorf("path should split on dots, got %v", plan.Native[0].Path)
	}
}

func TestCompileRangeAlwaysNative(t *testing.T) {
	for _, op := range []Op{OpLess, OpLessOrEqual, OpGreater, OpGreaterOrEqual} {
		plan := Compile(Request{Filters: []Filter{
			{Field: "title", Op: op, Value: "m"},
		}})
		if len(plan.Native) != 1 || len(plan.Post) != 0 {
			t.Errorf("op %s: range comparisons must go native even on strings", op)
		}
	}
}

func TestCompileMixedStringListDeferred(t *testing.T) {
	plan := Compile(Request{Filters: []Filter{
		{Field: "tags", Op: OpIn, Value: []any{"a", "b"}},
	}})
	if len(plan.Post) != 1 {
		t.Errorf("all-string list should be deferred, got native=%v", plan.Native)
	}

	plan = Compile(Request{Filters: []Filter{
		{Field: "tags", Op: OpIn, Value: []any{"a", float64(1)}},
	}})
	if len(plan.Native) != 1 {
		t.Errorf("mixed list should go native, got post=%v", plan.Post)
	}
}

func TestCompileCoercesNativeTimestamps(t *testing.T) {
	plan := Compile(Request{Filters: []Filter{
		{Field: "createdAt", Op: OpGreaterOrEqual, Value: "2024-01-01T00:00:00.000Z"},
	}})
	if len(plan.Native) != 1 {
		t.Fatalf("expected native condition, got %v", plan)
	}
	if _, ok := plan.Native[0].Value.(time.Time); !ok {
		t.Errorf("createdAt value should be coerced to time.Time, got %T", plan.Native[0].Value)
	}
}

func TestCompileLimitPushdown(t *testing.T) {
	// No deferred clauses: push the limit down.
	plan := Compile(Request{
		Filters: []Filter{{Field: "n", Op: OpGreater, Value: float64(1)}},
		Limit:   25,
	})
	if plan.NativeLimit != 25 {
		t.Errorf("expected pushed limit 25, got %d", plan.NativeLimit)
	}

	// A deferred clause forces local truncation.
	plan = Compile(Request{
		Filters: []Filter{{Field: "name", Op: OpEqual, Value: "ana"}},
		Limit:   25,
	})
	if plan.NativeLimit != 0 {
		t.Errorf("limit must not be pushed when clauses are deferred, got %d", plan.NativeLimit)
	}
}

func TestCompileEmptyRequest(t *testing.T) {
	plan := Compile(Request{Filters: []Filter{}})
	if len(plan.Native) != 0 || len(plan.Post) != 0 || plan.NativeLimit != 0 {
		t.Errorf("empty request should compile to an empty plan: %+v", plan)
	}
}
