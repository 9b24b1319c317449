package models

import (
	"go/token"
	"strings"

	"github.com/toyz/mvcgen/internal/errors"
)

// Element is anything the host can attach markers to
type Element interface {
	ElementName() string
	Location() errors.SourceLocation
}

// ControllerType is a host handle for a struct type that may carry routes
type ControllerType struct {
	Package     string    // import path
	PackageName string    // package clause name
	Name        string    // type name without type arguments
	TypeArgs    []TypeRef // set when the handle is an instantiated generic
	Dir         string    // directory holding the package sources
	Loc         errors.SourceLocation
}

// Key identifies the type across rounds
func (t *ControllerType) Key() string {
	return t.Ref().Qualified() + typeArgsSuffix(t.TypeArgs)
}

// Ref returns the TypeRef naming this type
func (t *ControllerType) Ref() TypeRef {
	ref := Named(t.Package, t.Name, t.TypeArgs...)
	ref.PackageName = t.PackageName
	return ref
}

// ElementName implements Element
func (t *ControllerType) ElementName() string {
	return t.PackageName + "." + t.Name + typeArgsSuffix(t.TypeArgs)
}

// Location implements Element
func (t *ControllerType) Location() errors.SourceLocation {
	return t.Loc
}

func typeArgsSuffix(args []TypeRef) string {
	if len(args) == 0 {
		return ""
	}
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = arg.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// ActionMethod is a method declared on a controller type
type ActionMethod struct {
	Name     string
	Owner    *ControllerType
	Params   []*Parameter
	Results  []TypeRef
	Variadic bool // the last parameter is ...T
	Loc      errors.SourceLocation
}

// Signature is the route key: the method name followed by the erased
// parameter types.
func (m *ActionMethod) Signature() string {
	parts := make([]string, len(m.Params))
	for i, p := range m.Params {
		parts[i] = p.Type.Raw()
	}
	return m.Name + "(" + strings.Join(parts, ",") + ")"
}

// Exported reports whether the method can be called from another package
func (m *ActionMethod) Exported() bool {
	return token.IsExported(m.Name)
}

// Param returns the parameter with the given name
func (m *ActionMethod) Param(name string) (*Parameter, bool) {
	for _, p := range m.Params {
		if p.Name == name {
			return p, true
		}
	}
	return nil, false
}

// ElementName implements Element
func (m *ActionMethod) ElementName() string {
	if m.Owner == nil {
		return m.Name
	}
	return m.Owner.ElementName() + "." + m.Name
}

// Location implements Element
func (m *ActionMethod) Location() errors.SourceLocation {
	return m.Loc
}

// Parameter is one formal parameter of an ActionMethod
type Parameter struct {
	Name   string
	Index  int
	Type   TypeRef
	Method *ActionMethod
	Loc    errors.SourceLocation
}

// ElementName implements Element
func (p *Parameter) ElementName() string {
	if p.Method == nil {
		return p.Name
	}
	return p.Method.ElementName() + "#" + p.Name
}

// Location implements Element
func (p *Parameter) Location() errors.SourceLocation {
	if p.Loc.IsEmpty() && p.Method != nil {
		return p.Method.Loc
	}
	return p.Loc
}
