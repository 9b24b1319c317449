package annotations

// AttributeValues returns the named attribute as strings. Scalars become a one
// element slice and lists are flattened one level. The result is empty,
// never nil, when the attribute is absent.
func AttributeValues(m Marker, name string) []string {
	return AttributeOf(m, name, func(v Value) (string, bool) {
		return v.String(), true
	})
}

// AttributeOf is the typed variant of AttributeValues. Values the mapper rejects
// are skipped.
func AttributeOf[T any](m Marker, name string, mapper func(Value) (T, bool)) []T {
	out := make([]T, 0)
	v, ok := m.Get(name)
	if !ok {
		return out
	}
	for _, item := range v.Values() {
		if mapped, ok := mapper(item); ok {
			out = append(out, mapped)
		}
	}
	return out
}

// FirstAttribute returns the first value of AttributeValues, or "".
func FirstAttribute(m Marker, name string) string {
	if values := AttributeValues(m, name); len(values) > 0 {
		return values[0]
	}
	return ""
}

// AsInt maps integer values for AttributeOf
func AsInt(v Value) (int64, bool) {
	return v.Int, v.Kind == IntValue
}

// AsBool maps boolean values for AttributeOf
func AsBool(v Value) (bool, bool) {
	return v.Bool, v.Kind == BoolValue
}
