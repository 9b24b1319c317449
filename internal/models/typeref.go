package models

import (
	"strconv"
	"strings"
)

// Kind classifies a TypeRef
type Kind int

const (
	KindInvalid Kind = iota
	KindBasic
	KindNamed
	KindPointer
	KindSlice
	KindArray
	KindMap
	KindSet
	KindInterface
	KindStruct
	KindFunc
	KindChan
	KindTypeParam
)

// String returns the string representation of the kind
func (k Kind) String() string {
	switch k {
	case KindBasic:
		return "basic"
	case KindNamed:
		return "named"
	case KindPointer:
		return "pointer"
	case KindSlice:
		return "slice"
	case KindArray:
		return "array"
	case KindMap:
		return "map"
	case KindSet:
		return "set"
	case KindInterface:
		return "interface"
	case KindStruct:
		return "struct"
	case KindFunc:
		return "func"
	case KindChan:
		return "chan"
	case KindTypeParam:
		return "typeparam"
	default:
		return "invalid"
	}
}

// TypeRef is a host independent description of a Go type
type TypeRef struct {
	Kind        Kind
	Name        string    // basic or named type name; source text for literal kinds
	Package     string    // import path of a named type
	PackageName string    // package name of a named type
	Elem        *TypeRef  // pointer, slice, array, map value
	Key         *TypeRef  // map and set key
	Args        []TypeRef // type arguments of an instantiated generic type
	Len         int64     // array length
	Underlying  Kind      // underlying kind of a named type
	Enum        bool      // named basic type with declared constants
}

// Basic returns a TypeRef for a predeclared type
func Basic(name string) TypeRef {
	return TypeRef{Kind: KindBasic, Name: name}
}

// Named returns a TypeRef for a named type, optionally instantiated
func Named(pkgPath, name string, args ...TypeRef) TypeRef {
	return TypeRef{
		Kind:        KindNamed,
		Name:        name,
		Package:     pkgPath,
		PackageName: lastSegment(pkgPath),
		Args:        args,
		Underlying:  KindStruct,
	}
}

// Pointer returns *elem
func Pointer(elem TypeRef) TypeRef {
	return TypeRef{Kind: KindPointer, Elem: &elem}
}

// Slice returns []elem
func Slice(elem TypeRef) TypeRef {
	return TypeRef{Kind: KindSlice, Elem: &elem}
}

// Array returns [n]elem
func Array(n int64, elem TypeRef) TypeRef {
	return TypeRef{Kind: KindArray, Elem: &elem, Len: n}
}

// Map returns map[key]elem
func Map(key, elem TypeRef) TypeRef {
	return TypeRef{Kind: KindMap, Key: &key, Elem: &elem}
}

// Set returns map[key]struct{}
func Set(key TypeRef) TypeRef {
	return TypeRef{Kind: KindSet, Key: &key}
}

// Literal returns a TypeRef for an anonymous type spelled as source text
func Literal(kind Kind, source string) TypeRef {
	return TypeRef{Kind: kind, Name: source}
}

// Qualified returns importpath.Name for named types and Name otherwise
func (t TypeRef) Qualified() string {
	if t.Kind == KindNamed && t.Package != "" {
		return t.Package + "." + t.Name
	}
	return t.Name
}

// Raw returns the erasure of the type: type arguments are dropped and
// container kinds collapse to their kind name.
func (t TypeRef) Raw() string {
	switch t.Kind {
	case KindPointer:
		return "*" + t.Elem.Raw()
	case KindSlice, KindArray, KindMap, KindSet:
		return t.Kind.String()
	default:
		return t.Qualified()
	}
}

// IsError reports whether the type is the predeclared error interface
func (t TypeRef) IsError() bool {
	return t.Kind == KindNamed && t.Package == "" && t.Name == "error"
}

// String renders the type as Go source qualified by package name
func (t TypeRef) String() string {
	return t.Format(func(pkgPath, pkgName string) string { return pkgName })
}

// Format renders the type as Go source. qualify maps a package to the
// identifier used to reference it; an empty result means unqualified.
func (t TypeRef) Format(qualify func(pkgPath, pkgName string) string) string {
	var sb strings.Builder
	t.write(&sb, qualify)
	return sb.String()
}

func (t TypeRef) write(sb *strings.Builder, qualify func(pkgPath, pkgName string) string) {
	switch t.Kind {
	case KindNamed:
		if t.Package != "" {
			if q := qualify(t.Package, t.PackageName); q != "" {
				sb.WriteString(q)
				sb.WriteByte('.')
			}
		}
		sb.WriteString(t.Name)
		if len(t.Args) > 0 {
			sb.WriteByte('[')
			for i, arg := range t.Args {
				if i > 0 {
					sb.WriteString(", ")
				}
				arg.write(sb, qualify)
			}
			sb.WriteByte(']')
		}
	case KindPointer:
		sb.WriteByte('*')
		t.Elem.write(sb, qualify)
	case KindSlice:
		sb.WriteString("[]")
		t.Elem.write(sb, qualify)
	case KindArray:
		sb.WriteString("[" + strconv.FormatInt(t.Len, 10) + "]")
		t.Elem.write(sb, qualify)
	case KindMap:
		sb.WriteString("map[")
		t.Key.write(sb, qualify)
		sb.WriteByte(']')
		t.Elem.write(sb, qualify)
	case KindSet:
		sb.WriteString("map[")
		t.Key.write(sb, qualify)
		sb.WriteString("]struct{}")
	default:
		sb.WriteString(t.Name)
	}
}

// Packages returns the import paths referenced by the type, in order of
// first appearance.
func (t TypeRef) Packages() []string {
	var out []string
	seen := make(map[string]bool)
	var walk func(TypeRef)
	walk = func(r TypeRef) {
		if r.Kind == KindNamed && r.Package != "" && !seen[r.Package] {
			seen[r.Package] = true
			out = append(out, r.Package)
		}
		if r.Key != nil {
			walk(*r.Key)
		}
		if r.Elem != nil {
			walk(*r.Elem)
		}
		for _, arg := range r.Args {
			walk(arg)
		}
	}
	walk(t)
	return out
}

func lastSegment(pkgPath string) string {
	if i := strings.LastIndexByte(pkgPath, '/'); i >= 0 {
		return pkgPath[i+1:]
	}
	return pkgPath
}
