package tabular

import (
	"reflect"
	"strings"
)

// Extract resolves a column key against a row and returns the scalar value
// at that path, or nil if any segment is absent or the current value is not
// something that can be indexed into.
//
// Keys may be dotted ("department.name"). Struct fields are matched by their
// json tag first, then by field name (case-insensitive). Map values are
// looked up by string key. Pointers are dereferenced along the way.
//
// Extract never panics.
func Extract(row any, key string) any {
	if key == "" {
		return nil
	}

	current := row
	for _, segment := range strings.Split(key, ".") {
		next, ok := extractSegment(current, segment)
		if !ok {
			return nil
		}
		current = next
	}
	return current
}

// extractSegment resolves a single path segment against a value.
func extractSegment(v any, segment string) (any, bool) {
	if v == nil {
		return nil, false
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Struct:
		return extractField(rv, segment)

	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		mv := rv.MapIndex(reflect.ValueOf(segment))
		if !mv.IsValid() {
			return nil, false
		}
		return mv.Interface(), true

	default:
		return nil, false
	}
}

// extractField finds a struct field by json tag or name.
func extractField(rv reflect.Value, segment string) (any, bool) {
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}
		if jsonTagName(field) == segment || strings.EqualFold(field.Name, segment) {
			return rv.Field(i).Interface(), true
		}
	}
	return nil, false
}

// jsonTagName returns the name portion of a field's json tag, or "" when
// the field has no usable tag.
func jsonTagName(field reflect.StructField) string {
	tag := field.Tag.Get("json")
	if tag == "" || tag == "-" {
		return ""
	}
	if idx := strings.Index(tag, ","); idx >= 0 {
		tag = tag[:idx]
	}
	return tag
}
