package binder

import (
	"github.com/toyz/mvcgen/internal/annotations"
	"github.com/toyz/mvcgen/internal/errors"
	"github.com/toyz/mvcgen/internal/ir"
	"github.com/toyz/mvcgen/internal/models"
	"github.com/toyz/mvcgen/internal/typedesc"
)

var ctxIdent = ir.Ident("ctx")

func runtime(name string) ir.Qual {
	return ir.Qual{Path: models.RuntimePackage, Name: name}
}

type injector struct {
	byName bool
	build  func(b *Binding) (ir.Expr, bool)
}

func ctxMethod(name string) injector {
	return injector{build: func(*Binding) (ir.Expr, bool) {
		return ir.Method(ctxIdent, name), false
	}}
}

func runtimeFunc(name string, fallible bool) injector {
	return injector{build: func(*Binding) (ir.Expr, bool) {
		return ir.CallOf(runtime(name), ctxIdent), fallible
	}}
}

func byName(name string) injector {
	return injector{byName: true, build: func(b *Binding) (ir.Expr, bool) {
		return ir.CallOf(runtime(name), ctxIdent, ir.String(b.Param.Name)), true
	}}
}

// injected lists the types resolved from the request context by raw type
var injected = map[string]injector{
	models.RuntimePackage + ".Context": {build: func(*Binding) (ir.Expr, bool) {
		return ctxIdent, false
	}},
	"context.Context":                      ctxMethod("Context"),
	models.RuntimePackage + ".QueryString": ctxMethod("QueryString"),
	"*" + models.RuntimePackage + ".Route": ctxMethod("Route"),
	models.RuntimePackage + ".Formdata":    runtimeFunc("FormdataOf", true),
	models.RuntimePackage + ".FlashMap":    runtimeFunc("FlashOf", true),
	models.RuntimePackage + ".Body":        runtimeFunc("BodyOf", true),
	models.RuntimePackage + ".FileUpload":  byName("FileOf"),
	models.RuntimePackage + ".FilePath":    byName("FilePathOf"),
	models.RuntimePackage + ".Session": {build: func(b *Binding) (ir.Expr, bool) {
		if b.Nullable {
			return ir.CallOf(runtime("SessionOrNil"), ctxIdent), false
		}
		return ir.CallOf(runtime("SessionOf"), ctxIdent), true
	}},
}

// IsInjected reports whether values of the raw type come from the context
func IsInjected(rawType string) bool {
	_, ok := injected[rawType]
	return ok
}

func nullability(nullable bool) ir.Expr {
	if nullable {
		return runtime("Nullable")
	}
	return runtime("Required")
}

func registerDefaults(b *Binder) {
	for category, fn := range map[annotations.Category]string{
		annotations.PathParam:    "PathParam",
		annotations.QueryParam:   "QueryParam",
		annotations.HeaderParam:  "HeaderParam",
		annotations.CookieParam:  "CookieParam",
		annotations.FormParam:    "FormParam",
		annotations.SessionParam: "SessionParam",
		annotations.FlashParam:   "FlashParam",
	} {
		b.Register(category, valueBuilder(fn))
	}
	b.Register(annotations.GenericLookup, lookupBuilder)
}

// valueBuilder emits mvc.<fn>[T](ctx, name, nullability)
func valueBuilder(fn string) Builder {
	return func(req Request) (ir.Expr, error) {
		return ir.Call{
			Fun:      runtime(fn),
			TypeArgs: []ir.Expr{req.Type.GoType()},
			Args:     []ir.Expr{ctxIdent, ir.String(req.BindingName), nullability(req.Nullable)},
		}, nil
	}
}

var lookupSources = map[string]string{
	"path":    "FromPath",
	"query":   "FromQuery",
	"header":  "FromHeader",
	"cookie":  "FromCookie",
	"form":    "FromForm",
	"session": "FromSession",
	"flash":   "FromFlash",
}

// lookupBuilder emits mvc.Lookup[T](ctx, name, nullability, sources...).
// Sources come from -Sources or the remaining positional values; none
// means every source in runtime order.
func lookupBuilder(req Request) (ir.Expr, error) {
	names := annotations.AttributeValues(req.Marker, "Sources")
	if len(names) == 0 {
		names = annotations.AttributeValues(req.Marker, annotations.ValueAttribute)
	}
	args := []ir.Expr{ctxIdent, ir.String(req.BindingName), nullability(req.Nullable)}
	for _, name := range names {
		source, ok := lookupSources[name]
		if !ok {
			return nil, errors.NewSignatureError(methodName(req.Param), "unknown lookup source "+name+" for parameter "+describe(req.Param))
		}
		args = append(args, runtime(source))
	}
	return ir.Call{Fun: runtime("Lookup"), TypeArgs: []ir.Expr{req.Type.GoType()}, Args: args}, nil
}

func bodyExpr(desc *typedesc.Descriptor, nullable bool) ir.Expr {
	return ir.Call{
		Fun:      runtime("BodyAs"),
		TypeArgs: []ir.Expr{desc.GoType()},
		Args:     []ir.Expr{ctxIdent, nullability(nullable)},
	}
}
