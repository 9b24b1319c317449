package annotations

import (
	"strconv"
	"strings"

	"github.com/toyz/mvcgen/internal/errors"
)

// Category groups marker identifiers by the role they play in a route
type Category int

const (
	UnknownCategory Category = iota
	HTTPVerb
	Path
	QueryParam
	PathParam
	HeaderParam
	CookieParam
	FormParam
	SessionParam
	FlashParam
	GenericLookup
	Produces
	Consumes
	Dispatch
	Controller
	Nullability
	Custom
)

// String returns the string representation of the category
func (c Category) String() string {
	switch c {
	case HTTPVerb:
		return "http-verb"
	case Path:
		return "path"
	case QueryParam:
		return "query-param"
	case PathParam:
		return "path-param"
	case HeaderParam:
		return "header-param"
	case CookieParam:
		return "cookie-param"
	case FormParam:
		return "form-param"
	case SessionParam:
		return "session-param"
	case FlashParam:
		return "flash-param"
	case GenericLookup:
		return "value-lookup"
	case Produces:
		return "produces"
	case Consumes:
		return "consumes"
	case Dispatch:
		return "dispatch"
	case Controller:
		return "controller"
	case Nullability:
		return "nullability"
	case Custom:
		return "custom"
	default:
		return "unknown"
	}
}

// ValueKind identifies the shape of a marker attribute value
type ValueKind int

const (
	StringValue ValueKind = iota
	IntValue
	FloatValue
	BoolValue
	ListValue
	MapValue
)

// Value is a parsed marker attribute value. Lists and nested maps keep
// their declaration order.
type Value struct {
	Kind  ValueKind
	Str   string
	Int   int64
	Float float64
	Bool  bool
	List  []Value
	Map   []Attribute
}

// String returns the textual form of a scalar value. Lists are joined
// with commas and maps are rendered as {k=v}.
func (v Value) String() string {
	switch v.Kind {
	case IntValue:
		return strconv.FormatInt(v.Int, 10)
	case FloatValue:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	case BoolValue:
		return strconv.FormatBool(v.Bool)
	case ListValue:
		parts := make([]string, len(v.List))
		for i, item := range v.List {
			parts[i] = item.String()
		}
		return strings.Join(parts, ",")
	case MapValue:
		parts := make([]string, len(v.Map))
		for i, entry := range v.Map {
			parts[i] = entry.Name + "=" + entry.Value.String()
		}
		return "{" + strings.Join(parts, ",") + "}"
	default:
		return v.Str
	}
}

// Values returns the list items of a list value, or the value itself
func (v Value) Values() []Value {
	if v.Kind == ListValue {
		return v.List
	}
	return []Value{v}
}

// Attribute is a single named marker attribute
type Attribute struct {
	Name  string
	Value Value
}

// Marker is one //mvc:: comment attached to a type, method or parameter
type Marker struct {
	Identifier string
	Category   Category
	Target     string // parameter name for parameter-level markers
	Attributes []Attribute
	Location   errors.SourceLocation
	Raw        string
}

// Get returns the named attribute
func (m Marker) Get(name string) (Value, bool) {
	for _, attr := range m.Attributes {
		if attr.Name == name {
			return attr.Value, true
		}
	}
	return Value{}, false
}

// Has reports whether the attribute is present
func (m Marker) Has(name string) bool {
	_, ok := m.Get(name)
	return ok
}

// Flag reports whether a boolean attribute is set to true
func (m Marker) Flag(name string) bool {
	v, ok := m.Get(name)
	return ok && v.Kind == BoolValue && v.Bool
}

// ShiftValue removes the first positional value and returns its text.
// The host uses it to peel the parameter name off parameter-level markers.
func (m *Marker) ShiftValue() (string, bool) {
	for i, attr := range m.Attributes {
		if attr.Name != ValueAttribute {
			continue
		}
		items := attr.Value.Values()
		if len(items) == 0 {
			return "", false
		}
		head := items[0].String()
		switch rest := items[1:]; len(rest) {
		case 0:
			m.Attributes = append(m.Attributes[:i:i], m.Attributes[i+1:]...)
		case 1:
			m.Attributes[i].Value = rest[0]
		default:
			m.Attributes[i].Value = Value{Kind: ListValue, List: rest}
		}
		return head, true
	}
	return "", false
}
