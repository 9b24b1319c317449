// Package binder decides where each controller method parameter comes
// from and builds the expression that produces it inside a dispatch method.
package binder

import (
	"strconv"

	"github.com/toyz/mvcgen/internal/annotations"
	"github.com/toyz/mvcgen/internal/errors"
	"github.com/toyz/mvcgen/internal/ir"
	"github.com/toyz/mvcgen/internal/models"
	"github.com/toyz/mvcgen/internal/typedesc"
)

// SourceKind tells where a parameter value comes from
type SourceKind int

const (
	ContextInjected SourceKind = iota
	MarkerBound
	BodyFallback
)

// String returns the string representation of the source kind
func (k SourceKind) String() string {
	switch k {
	case ContextInjected:
		return "context"
	case MarkerBound:
		return "marker"
	case BodyFallback:
		return "body"
	default:
		return "unknown"
	}
}

// Binding is the resolved source of one parameter. It is immutable once
// returned by Bind.
type Binding struct {
	Name     string // binding name used at runtime; parameter name for injected values
	Param    *models.Parameter
	Type     *typedesc.Descriptor
	Nullable bool
	Source   SourceKind
	Category annotations.Category // for MarkerBound
	Marker   *annotations.Marker  // for MarkerBound
	Expr     ir.Expr
	Fallible bool // Expr yields (value, error)
}

// Request is what a marker builder receives
type Request struct {
	Marker      annotations.Marker
	Type        *typedesc.Descriptor
	Param       *models.Parameter
	BindingName string
	Nullable    bool
}

// Builder produces the binding expression for one parameter source
// category. Builders always yield (value, error).
type Builder func(req Request) (ir.Expr, error)

// Binder maps parameters to bindings
type Binder struct {
	builders map[annotations.Category]Builder
}

// New creates a binder with a builder for every parameter source category
func New() *Binder {
	b := &Binder{builders: make(map[annotations.Category]Builder)}
	registerDefaults(b)
	return b
}

// Register installs or replaces the builder for a category
func (b *Binder) Register(c annotations.Category, builder Builder) {
	b.builders[c] = builder
}

// Bind resolves a parameter. markers are the markers attached to the
// parameter itself.
func (b *Binder) Bind(param *models.Parameter, markers []annotations.Marker) (*Binding, error) {
	desc := typedesc.Of(param.Type)
	binding := &Binding{
		Name:     param.Name,
		Param:    param,
		Type:     desc,
		Nullable: nullable(desc, markers),
	}

	if inj, ok := injected[desc.RawType()]; ok {
		binding.Source = ContextInjected
		if inj.byName && !validName(param.Name) {
			return nil, errors.NewSignatureError(methodName(param), "parameter "+describe(param)+" needs a name to bind "+desc.String())
		}
		binding.Expr, binding.Fallible = inj.build(binding)
		return binding, nil
	}

	source, err := sourceMarker(param, markers)
	if err != nil {
		return nil, err
	}
	if source != nil {
		builder, ok := b.builders[source.Category]
		if !ok {
			return nil, errors.NewUnsupportedTypeError(param.Name, desc.String(), "no builder for "+source.Category.String())
		}
		name := bindingName(*source, param)
		if !validName(name) {
			return nil, errors.NewSignatureError(methodName(param), "parameter "+describe(param)+" has no binding name; add -Name to the "+source.Identifier+" marker")
		}
		binding.Name = name
		binding.Source = MarkerBound
		binding.Category = source.Category
		binding.Marker = source
		binding.Expr, err = builder(Request{
			Marker:      *source,
			Type:        desc,
			Param:       param,
			BindingName: name,
			Nullable:    binding.Nullable,
		})
		if err != nil {
			return nil, err
		}
		binding.Fallible = true
		return binding, nil
	}

	if reason, ok := bodyIneligible(desc); ok {
		return nil, errors.NewUnsupportedTypeError(describe(param), desc.String(), reason)
	}
	binding.Source = BodyFallback
	binding.Expr = bodyExpr(desc, binding.Nullable)
	binding.Fallible = true
	return binding, nil
}

// nullable applies the nullability markers: any nullable marker wins over
// non-null ones. Without markers anything that is not a primitive is
// nullable.
func nullable(desc *typedesc.Descriptor, markers []annotations.Marker) bool {
	for _, m := range markers {
		if annotations.IsNullable(m.Identifier) {
			return true
		}
	}
	for _, m := range markers {
		if annotations.IsNonNull(m.Identifier) {
			return false
		}
	}
	return !desc.IsPrimitive()
}

func sourceMarker(param *models.Parameter, markers []annotations.Marker) (*annotations.Marker, error) {
	var first *annotations.Marker
	for i := range markers {
		m := markers[i]
		if !annotations.IsParameterSource(m.Category) {
			continue
		}
		if first == nil {
			first = &m
			continue
		}
		if m.Category != first.Category {
			return nil, errors.NewUnsupportedTypeError(describe(param), param.Type.String(),
				"conflicting source markers "+first.Identifier+" and "+m.Identifier)
		}
	}
	return first, nil
}

func bindingName(m annotations.Marker, param *models.Parameter) string {
	if name := annotations.FirstAttribute(m, "Name"); name != "" {
		return name
	}
	return param.Name
}

func validName(name string) bool {
	return name != "" && name != "_"
}

func bodyIneligible(desc *typedesc.Descriptor) (string, bool) {
	ref := desc.Ref()
	switch ref.Kind {
	case models.KindFunc:
		return "functions cannot be decoded from a request body", true
	case models.KindChan:
		return "channels cannot be decoded from a request body", true
	case models.KindTypeParam:
		return "type parameters cannot be decoded from a request body", true
	case models.KindBasic:
		if ref.Name == "unsafe.Pointer" {
			return "unsafe pointers cannot be decoded from a request body", true
		}
	}
	return "", false
}

func describe(param *models.Parameter) string {
	if param.Name == "" {
		return "#" + strconv.Itoa(param.Index)
	}
	return param.Name
}

func methodName(param *models.Parameter) string {
	if param.Method == nil {
		return "?"
	}
	return param.Method.ElementName()
}
