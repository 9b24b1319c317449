package parser

import (
	"go/types"

	"github.com/toyz/mvcgen/internal/models"
)

// typeRef converts a go/types type to the host independent TypeRef
func (g *Graph) typeRef(t types.Type) models.TypeRef {
	t = types.Unalias(t)
	switch t := t.(type) {
	case *types.Basic:
		if t.Kind() == types.UnsafePointer {
			return models.Basic("unsafe.Pointer")
		}
		return models.Basic(t.Name())
	case *types.Pointer:
		return models.Pointer(g.typeRef(t.Elem()))
	case *types.Slice:
		return models.Slice(g.typeRef(t.Elem()))
	case *types.Array:
		return models.Array(t.Len(), g.typeRef(t.Elem()))
	case *types.Map:
		if isEmptyStruct(t.Elem()) {
			return models.Set(g.typeRef(t.Key()))
		}
		return models.Map(g.typeRef(t.Key()), g.typeRef(t.Elem()))
	case *types.Named:
		return g.namedRef(t)
	case *types.TypeParam:
		return models.Literal(models.KindTypeParam, t.Obj().Name())
	case *types.Interface:
		if t.Empty() {
			return models.Literal(models.KindInterface, "any")
		}
		return models.Literal(models.KindInterface, g.typeString(t))
	case *types.Struct:
		return models.Literal(models.KindStruct, g.typeString(t))
	case *types.Signature:
		return models.Literal(models.KindFunc, g.typeString(t))
	case *types.Chan:
		return models.Literal(models.KindChan, g.typeString(t))
	default:
		return models.Literal(models.KindInvalid, g.typeString(t))
	}
}

func (g *Graph) namedRef(n *types.Named) models.TypeRef {
	obj := n.Obj()
	var args []models.TypeRef
	if targs := n.TypeArgs(); targs != nil {
		for i := 0; i < targs.Len(); i++ {
			args = append(args, g.typeRef(targs.At(i)))
		}
	}

	pkgPath := ""
	if obj.Pkg() != nil {
		pkgPath = obj.Pkg().Path()
	}
	ref := models.Named(pkgPath, obj.Name(), args...)
	if obj.Pkg() != nil {
		ref.PackageName = obj.Pkg().Name()
	}
	ref.Underlying = underlyingKind(n.Underlying())
	ref.Enum = ref.Underlying == models.KindBasic && g.isEnum(n)
	return ref
}

func underlyingKind(t types.Type) models.Kind {
	switch t := t.(type) {
	case *types.Basic:
		return models.KindBasic
	case *types.Pointer:
		return models.KindPointer
	case *types.Slice:
		return models.KindSlice
	case *types.Array:
		return models.KindArray
	case *types.Map:
		if isEmptyStruct(t.Elem()) {
			return models.KindSet
		}
		return models.KindMap
	case *types.Interface:
		return models.KindInterface
	case *types.Signature:
		return models.KindFunc
	case *types.Chan:
		return models.KindChan
	default:
		return models.KindStruct
	}
}

func isEmptyStruct(t types.Type) bool {
	s, ok := types.Unalias(t).(*types.Struct)
	return ok && s.NumFields() == 0
}

// isEnum reports whether the package declaring n also declares constants
// of type n
func (g *Graph) isEnum(n *types.Named) bool {
	obj := n.Origin().Obj()
	if known, ok := g.enums[obj]; ok {
		return known
	}
	enum := false
	if pkg := obj.Pkg(); pkg != nil {
		scope := pkg.Scope()
		for _, name := range scope.Names() {
			if c, ok := scope.Lookup(name).(*types.Const); ok && types.Identical(c.Type(), n) {
				enum = true
				break
			}
		}
	}
	g.enums[obj] = enum
	return enum
}

func (g *Graph) typeString(t types.Type) string {
	return types.TypeString(t, func(p *types.Package) string { return p.Name() })
}
