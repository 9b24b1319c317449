// Package typedesc answers structural questions about parameter and return
// types and renders their runtime descriptors.
package typedesc

import (
	"strings"

	"github.com/toyz/mvcgen/internal/ir"
	"github.com/toyz/mvcgen/internal/models"
)

// Descriptor wraps a TypeRef with erasure aware queries
type Descriptor struct {
	ref models.TypeRef
}

// Of creates a Descriptor
func Of(ref models.TypeRef) *Descriptor {
	return &Descriptor{ref: ref}
}

// Ref returns the wrapped TypeRef
func (d *Descriptor) Ref() models.TypeRef {
	return d.ref
}

// RawType returns the erasure used for every type equality
func (d *Descriptor) RawType() string {
	return d.ref.Raw()
}

// IsParameterizedType reports whether the type has type arguments or is a
// container with element types.
func (d *Descriptor) IsParameterizedType() bool {
	switch d.ref.Kind {
	case models.KindSlice, models.KindArray, models.KindMap, models.KindSet:
		return true
	case models.KindNamed:
		return len(d.ref.Args) > 0
	default:
		return false
	}
}

// Arguments returns the type arguments in declaration order
func (d *Descriptor) Arguments() []*Descriptor {
	var refs []models.TypeRef
	switch d.ref.Kind {
	case models.KindSlice, models.KindArray:
		refs = []models.TypeRef{*d.ref.Elem}
	case models.KindMap:
		refs = []models.TypeRef{*d.ref.Key, *d.ref.Elem}
	case models.KindSet:
		refs = []models.TypeRef{*d.ref.Key}
	case models.KindNamed:
		refs = d.ref.Args
	}
	out := make([]*Descriptor, len(refs))
	for i, r := range refs {
		out[i] = Of(r)
	}
	return out
}

// Is compares erasures. Runtime package types may be named with the mvc
// prefix, and List, Set, Map, Optional and Enum are accepted as structural
// names. When args are given the type arguments must match in number and,
// recursively, by erasure.
func (d *Descriptor) Is(target string, args ...string) bool {
	if !d.matches(target) {
		return false
	}
	if len(args) == 0 {
		return true
	}
	own := d.Arguments()
	if len(own) != len(args) {
		return false
	}
	for i, arg := range args {
		if !own[i].Is(arg) {
			return false
		}
	}
	return true
}

func (d *Descriptor) matches(target string) bool {
	raw := d.RawType()
	switch target {
	case raw:
		return true
	case "Enum":
		return d.IsEnum()
	case "List":
		return d.ref.Kind == models.KindSlice || d.ref.Kind == models.KindArray
	case "Set":
		return d.ref.Kind == models.KindSet
	case "Map":
		return d.ref.Kind == models.KindMap
	case "Optional":
		return d.IsOptional()
	}
	if name, ok := strings.CutPrefix(target, "mvc."); ok {
		return raw == models.RuntimePackage+"."+name
	}
	if ptr, ok := strings.CutPrefix(target, "*mvc."); ok {
		return raw == "*"+models.RuntimePackage+"."+ptr
	}
	return false
}

// IsEnum reports whether the type is a named basic type with constants
func (d *Descriptor) IsEnum() bool {
	return d.ref.Kind == models.KindNamed && d.ref.Enum
}

// IsOptional reports whether the type is mvc.Optional[T]
func (d *Descriptor) IsOptional() bool {
	return d.ref.Kind == models.KindNamed &&
		d.ref.Qualified() == models.RuntimePackage+".Optional" &&
		len(d.ref.Args) == 1
}

// IsPrimitive reports whether the type is a value type without a natural
// absent state: predeclared basic types and named types over them.
func (d *Descriptor) IsPrimitive() bool {
	switch d.ref.Kind {
	case models.KindBasic:
		return d.ref.Name != "unsafe.Pointer"
	case models.KindNamed:
		return d.ref.Underlying == models.KindBasic
	default:
		return false
	}
}

// SimpleName is the unqualified erasure, used to build readable names
func (d *Descriptor) SimpleName() string {
	raw := strings.TrimLeft(d.RawType(), "*")
	if i := strings.LastIndexByte(raw, '.'); i >= 0 {
		raw = raw[i+1:]
	}
	if i := strings.LastIndexByte(raw, '/'); i >= 0 {
		raw = raw[i+1:]
	}
	return raw
}

// GoType returns the type as an IR type expression
func (d *Descriptor) GoType() ir.Expr {
	return ir.Type(d.ref)
}

// ToRuntimeDescriptor builds the expression that recreates this type at
// runtime. Optional, list, set and map containers use dedicated factories,
// other generic types reify their raw type with one descriptor per type
// argument, and everything else is a leaf TypeOf.
func (d *Descriptor) ToRuntimeDescriptor() ir.Expr {
	switch {
	case d.IsOptional():
		return runtimeCall("OptionalOf", d.Arguments()[0].ToRuntimeDescriptor())
	case d.ref.Kind == models.KindSlice || d.ref.Kind == models.KindArray:
		return runtimeCall("ListOf", d.Arguments()[0].ToRuntimeDescriptor())
	case d.ref.Kind == models.KindSet:
		return runtimeCall("SetOf", d.Arguments()[0].ToRuntimeDescriptor())
	case d.ref.Kind == models.KindMap:
		args := d.Arguments()
		return runtimeCall("MapOf", args[0].ToRuntimeDescriptor(), args[1].ToRuntimeDescriptor())
	case d.IsParameterizedType():
		args := []ir.Expr{d.leaf()}
		for _, arg := range d.Arguments() {
			args = append(args, arg.ToRuntimeDescriptor())
		}
		return runtimeCall("Reified", args...)
	default:
		return d.leaf()
	}
}

func (d *Descriptor) leaf() ir.Expr {
	return ir.Call{
		Fun:      ir.Qual{Path: models.RuntimePackage, Name: "TypeOf"},
		TypeArgs: []ir.Expr{d.GoType()},
	}
}

func runtimeCall(name string, args ...ir.Expr) ir.Expr {
	return ir.CallOf(ir.Qual{Path: models.RuntimePackage, Name: name}, args...)
}

// String returns the Go spelling of the type, for diagnostics
func (d *Descriptor) String() string {
	return d.ref.String()
}
