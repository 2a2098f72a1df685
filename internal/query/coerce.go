package query

import (
	"regexp"
	"time"
)

// timestampFields are the field paths whose filter values are coerced to
// native timestamps before being handed to the store.
var timestampFields = map[string]bool{
	"createdAt": true,
	"updatedAt": true,
}

var isoDatePrefix = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T`)

// coerceValue converts date-like filter values on createdAt/updatedAt into
// time.Time: an ISO-8601 string becomes the instant it names, a number is
// read as epoch milliseconds, and a time.Time passes through. Anything else
// passes through verbatim; an unparseable value is left for the store to
// reject.
func coerceValue(field string, value any) any {
	if !timestampFields[field] {
		return value
	}
	switch v := value.(type) {
	case time.Time:
		return v
	case string:
		if !isoDatePrefix.MatchString(v) {
			return value
		}
		if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
			return t
		}
		return value
	case float64:
		return time.UnixMilli(int64(v)).UTC()
	case int:
		return time.UnixMilli(int64(v)).UTC()
	case int64:
		return time.UnixMilli(v).UTC()
	}
	return value
}

// coerceList applies coerceValue element-wise. Non-list values yield an
// empty list, mirroring the validation rule that list operators require one.
func coerceList(field string, value any) []any {
	list, ok := value.([]any)
	if !ok {
		return []any{}
	}
	out := make([]any, len(list))
	for i, v := range list {
		out[i] = coerceValue(field, v)
	}
	return out
}
