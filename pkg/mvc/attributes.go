package mvc

import (
	"fmt"
	"sort"
)

// Attributes are the route attributes collected from attribute markers.
// Values are strings, numbers, booleans, slices of those or nested
// Attributes.
type Attributes map[string]any

// Attribute is one named attribute value
type Attribute struct {
	Name  string
	Value any
}

// Attr creates an attribute entry
func Attr(name string, value any) Attribute {
	return Attribute{Name: name, Value: value}
}

// AttributesOf builds attributes from alternating names and values. It
// panics when a name is not a string or a value is missing.
func AttributesOf(pairs ...any) Attributes {
	if len(pairs)%2 != 0 {
		panic(fmt.Sprintf("mvc: AttributesOf needs name/value pairs, got %d arguments", len(pairs)))
	}
	attrs := make(Attributes, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		name, ok := pairs[i].(string)
		if !ok {
			panic(fmt.Sprintf("mvc: attribute name %v is %T, not string", pairs[i], pairs[i]))
		}
		attrs[name] = pairs[i+1]
	}
	return attrs
}

// AttributesOfEntries builds attributes from entries
func AttributesOfEntries(entries ...Attribute) Attributes {
	attrs := make(Attributes, len(entries))
	for _, e := range entries {
		attrs[e.Name] = e.Value
	}
	return attrs
}

// Get returns the value of an attribute
func (a Attributes) Get(name string) (any, bool) {
	v, ok := a[name]
	return v, ok
}

// String returns a string attribute, empty when absent or not a string
func (a Attributes) String(name string) string {
	s, _ := a[name].(string)
	return s
}

// Nested returns a nested attribute map
func (a Attributes) Nested(name string) Attributes {
	nested, _ := a[name].(Attributes)
	return nested
}

// Names returns the attribute names, sorted
func (a Attributes) Names() []string {
	names := make([]string, 0, len(a))
	for name := range a {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
