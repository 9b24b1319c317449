package mvc

import (
	"reflect"
	"strings"
)

// TypeKind tells how a Type descriptor was built
type TypeKind int

const (
	LeafType TypeKind = iota
	OptionalType
	ListType
	SetType
	MapType
	ReifiedType
)

// Type describes a Go type at runtime, keeping the arguments of container
// and generic types that reflection alone does not expose in a uniform
// way. Generated routers build them for route return types and method
// parameters.
type Type struct {
	Kind TypeKind
	// Raw is the Go type. It is nil for Optional, which reflection cannot
	// instantiate.
	Raw  reflect.Type
	Args []*Type
}

// TypeOf describes T as a leaf
func TypeOf[T any]() *Type {
	return &Type{Kind: LeafType, Raw: reflect.TypeFor[T]()}
}

// OptionalOf describes Optional[elem]
func OptionalOf(elem *Type) *Type {
	return &Type{Kind: OptionalType, Args: []*Type{elem}}
}

// ListOf describes a slice or array of elem
func ListOf(elem *Type) *Type {
	t := &Type{Kind: ListType, Args: []*Type{elem}}
	if elem.Raw != nil {
		t.Raw = reflect.SliceOf(elem.Raw)
	}
	return t
}

// SetOf describes a map[elem]struct{} set
func SetOf(elem *Type) *Type {
	t := &Type{Kind: SetType, Args: []*Type{elem}}
	if elem.Raw != nil && elem.Raw.Comparable() {
		t.Raw = reflect.MapOf(elem.Raw, reflect.TypeFor[struct{}]())
	}
	return t
}

// MapOf describes a map from key to value
func MapOf(key, value *Type) *Type {
	t := &Type{Kind: MapType, Args: []*Type{key, value}}
	if key.Raw != nil && value.Raw != nil && key.Raw.Comparable() {
		t.Raw = reflect.MapOf(key.Raw, value.Raw)
	}
	return t
}

// Reified describes an instantiated generic type: raw is the instantiated
// type itself and args describe its type arguments
func Reified(raw *Type, args ...*Type) *Type {
	return &Type{Kind: ReifiedType, Raw: raw.Raw, Args: args}
}

// Equal reports whether both descriptors describe the same type
func (t *Type) Equal(other *Type) bool {
	if t == nil || other == nil {
		return t == other
	}
	if t.Kind != other.Kind || t.Raw != other.Raw || len(t.Args) != len(other.Args) {
		return false
	}
	for i := range t.Args {
		if !t.Args[i].Equal(other.Args[i]) {
			return false
		}
	}
	return true
}

// String spells the type as List[int], Map[string,int], Optional[string]
// or Box[Foo] for reified generics
func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	switch t.Kind {
	case OptionalType:
		return "Optional" + t.args()
	case ListType:
		return "List" + t.args()
	case SetType:
		return "Set" + t.args()
	case MapType:
		return "Map" + t.args()
	case ReifiedType:
		return baseName(t.Raw) + t.args()
	default:
		if t.Raw == nil {
			return "<nil>"
		}
		return t.Raw.String()
	}
}

func (t *Type) args() string {
	names := make([]string, len(t.Args))
	for i, arg := range t.Args {
		names[i] = arg.String()
	}
	return "[" + strings.Join(names, ",") + "]"
}

// baseName strips the package and the instantiation from a generic name
func baseName(raw reflect.Type) string {
	if raw == nil {
		return "<nil>"
	}
	prefix := ""
	for raw.Kind() == reflect.Pointer {
		prefix += "*"
		raw = raw.Elem()
	}
	name := raw.Name()
	if i := strings.IndexByte(name, '['); i >= 0 {
		name = name[:i]
	}
	return prefix + name
}
