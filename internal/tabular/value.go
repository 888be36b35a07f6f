package tabular

import (
	"fmt"
	"reflect"
	"sync"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// collator performs locale-aware, case-insensitive string comparison.
// A collate.Collator keeps internal buffers and is not safe for concurrent
// use, so all access goes through collatorMu.
var (
	collatorMu sync.Mutex
	collator   = collate.New(language.Und, collate.IgnoreCase)
)

// compareStrings compares two strings using the shared collator.
func compareStrings(a, b string) int {
	collatorMu.Lock()
	defer collatorMu.Unlock()
	return collator.CompareString(a, b)
}

// Compare performs type-aware comparison of two extracted cell values.
// Returns -1, 0, or 1.
//
// Rules, applied in order:
//  1. Both nullish: equal.
//  2. A nullish value compares greater than any non-nullish value, so
//     nullish cells sort to the end regardless of direction.
//  3. String vs string: locale-aware, case-insensitive collation.
//  4. Number vs number: arithmetic comparison.
//  5. Time vs time: comparison of instants.
//  6. Anything else: both sides stringified, then rule 3.
//
// Compare never panics and has no side effects.
func Compare(a, b any) int {
	aNull, bNull := isNullish(a), isNullish(b)
	switch {
	case aNull && bNull:
		return 0
	case aNull:
		return 1
	case bNull:
		return -1
	}

	if as, ok := a.(string); ok {
		if bs, ok := b.(string); ok {
			return compareStrings(as, bs)
		}
	}

	if af, ok := toFloat(a); ok {
		if bf, ok := toFloat(b); ok {
			switch {
			case af < bf:
				return -1
			case af > bf:
				return 1
			default:
				return 0
			}
		}
	}

	if at, ok := toTime(a); ok {
		if bt, ok := toTime(b); ok {
			return at.Compare(bt)
		}
	}

	// Mismatched or unknown types: fall back to stringified collation.
	return compareStrings(fmt.Sprint(a), fmt.Sprint(b))
}

// IsNullish reports whether an extracted cell value should be treated as
// absent. Renderers use it to draw empty cells instead of "<nil>".
func IsNullish(v any) bool { return isNullish(v) }

// isNullish reports whether a value should be treated as absent.
// Covers untyped nil and typed nil pointers/interfaces/maps/slices, which
// is what the extractor produces for missing path segments.
func isNullish(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

// toFloat converts any numeric kind to float64 for comparison.
func toFloat(v any) (float64, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}

// toTime extracts a time.Time from a value or pointer to one.
func toTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case *time.Time:
		if t != nil {
			return *t, true
		}
	}
	return time.Time{}, false
}
