// Package router models the generated artifact of one controller type: its
// routes, the naming of their dispatch methods and the emitted source file.
package router

import (
	"go/token"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/toyz/mvcgen/internal/annotations"
	"github.com/toyz/mvcgen/internal/binder"
	"github.com/toyz/mvcgen/internal/ir"
	"github.com/toyz/mvcgen/internal/models"
	"github.com/toyz/mvcgen/internal/session"
	"github.com/toyz/mvcgen/internal/templates"
	"github.com/toyz/mvcgen/internal/typedesc"
)

// Router accumulates the routes of one controller type, keyed by method
// signature and kept in insertion order.
type Router struct {
	session *session.Session
	binder  *binder.Binder
	target  *models.ControllerType
	routes  map[string]*Route
	order   []string
}

// New creates an empty router for target
func New(s *session.Session, b *binder.Binder, target *models.ControllerType) *Router {
	return &Router{
		session: s,
		binder:  b,
		target:  target,
		routes:  make(map[string]*Route),
	}
}

// Target returns the controller type the router dispatches to
func (r *Router) Target() *models.ControllerType {
	return r.target
}

// Name is the generated type name: UsersController -> UsersControllerRouter
func (r *Router) Name() string {
	return r.target.Name + "Router"
}

// Identifier is the fully qualified router name written to the manifest
func (r *Router) Identifier() string {
	return r.target.Package + "." + r.Name()
}

// FileName is the generated file name inside the controller's directory
func (r *Router) FileName() string {
	return "autogen_" + templates.ToSnakeCase(r.target.Name) + "_router.go"
}

// IsAbstract reports whether the target only feeds inheritance
func (r *Router) IsAbstract() bool {
	return r.session.Graph().IsAbstract(r.target)
}

// IsEmpty reports whether the router has no route
func (r *Router) IsEmpty() bool {
	return len(r.order) == 0
}

// Put records method under verb. A method already present with the same
// signature gains the verb when it was declared on the target itself or is
// the same method; otherwise the new method replaces it in place.
func (r *Router) Put(verb annotations.Marker, method *models.ActionMethod, paths []string) *Route {
	sig := method.Signature()
	if existing, ok := r.routes[sig]; ok {
		if existing.method.Owner.Key() == r.target.Key() || sameMethod(existing.method, method) {
			existing.AddHTTPMethod(verb, paths)
			return existing
		}
		route := NewRoute(r.session, r.binder, r.target, method, verb, paths)
		r.routes[sig] = route
		return route
	}

	route := NewRoute(r.session, r.binder, r.target, method, verb, paths)
	r.routes[sig] = route
	r.order = append(r.order, sig)
	return route
}

func sameMethod(a, b *models.ActionMethod) bool {
	return a == b || (a.Owner.Key() == b.Owner.Key() && a.Name == b.Name)
}

// Routes returns the routes in insertion order
func (r *Router) Routes() []*Route {
	out := make([]*Route, 0, len(r.order))
	for _, sig := range r.order {
		out = append(out, r.routes[sig])
	}
	return out
}

// Has reports whether a route with the signature exists
func (r *Router) Has(signature string) bool {
	_, ok := r.routes[signature]
	return ok
}

var title = cases.Title(language.Und, cases.NoLower)

// reservedNames are the members every router declares itself
var reservedNames = map[string]bool{"provider": true}

// AssignNames gives every route its dispatch method name. Names shared by
// more than one route are suffixed with the simple names of the parameter
// types. Keywords and router members get a Handler suffix, and whatever
// still collides gets a numeric suffix.
func (r *Router) AssignNames() {
	routes := r.Routes()
	counts := make(map[string]int)
	for _, route := range routes {
		counts[route.method.Name]++
	}

	used := make(map[string]int)
	for _, route := range routes {
		name := templates.LowerFirst(route.method.Name)
		if counts[route.method.Name] > 1 {
			var sb strings.Builder
			sb.WriteString(name)
			for _, p := range route.method.Params {
				sb.WriteString(title.String(typedesc.Of(p.Type).SimpleName()))
			}
			name = sb.String()
		}
		if token.IsKeyword(name) || reservedNames[name] {
			name += "Handler"
		}
		used[name]++
		if n := used[name]; n > 1 {
			name += strconv.Itoa(n)
		}
		route.name = name
	}
}

// Emittable returns the routes that produced no error
func (r *Router) Emittable() []*Route {
	var out []*Route
	for _, route := range r.Routes() {
		if route.err == nil {
			out = append(out, route)
		}
	}
	return out
}

// Artifact builds the generated file. Routes whose dispatch method cannot
// be built are reported and left out.
func (r *Router) Artifact() *ir.File {
	name := r.Name()
	self := ir.Type(models.Pointer(r.target.Ref()))
	provider := ir.FuncType{
		Params:  []ir.Expr{runtimeQual("Context")},
		Results: []ir.Expr{self, ir.Ident("error")},
	}

	decls := []ir.Decl{
		ir.StructDecl{
			Doc:    name + " dispatches requests to " + r.target.Name + ".",
			Name:   name,
			Fields: []ir.Field{{Name: "provider", Type: provider}},
		},
		r.constructor(name, self, provider),
		r.providerConstructor(name, self, provider),
		r.typeConstructor(name, self, provider),
	}

	var handlers []ir.Decl
	var registrations []ir.Stmt
	for _, route := range r.Emittable() {
		fn, err := route.Dispatch(name)
		if err != nil {
			route.fail(err, route.method)
			continue
		}
		handlers = append(handlers, fn)
		registrations = append(registrations, route.Registrations(ir.Ident("app"), ir.Ident("r"))...)
	}

	decls = append(decls, ir.FuncDecl{
		Doc:     "Install registers every route of " + r.target.Name + " with app.",
		Recv:    &ir.Field{Name: "r", Type: ir.Ident("*" + name)},
		Name:    "Install",
		Params:  []ir.Field{{Name: "app", Type: runtimeQual("App")}},
		Results: []ir.Expr{ir.Ident("error")},
		Body:    append(registrations, ir.Return{Results: []ir.Expr{ir.Nil}}),
	})
	decls = append(decls, handlers...)

	return &ir.File{
		Header:      templates.Header,
		PackageName: r.target.PackageName,
		PackagePath: r.target.Package,
		Decls:       decls,
	}
}

func (r *Router) constructor(name string, self ir.Expr, provider ir.FuncType) ir.FuncDecl {
	return ir.FuncDecl{
		Doc:     "New" + name + " dispatches every request to c.",
		Name:    "New" + name,
		Params:  []ir.Field{{Name: "c", Type: self}},
		Results: []ir.Expr{ir.Ident("*" + name)},
		Body: []ir.Stmt{ir.Return{Results: []ir.Expr{
			routerLit(name, ir.FuncLit{
				Params:  []ir.Field{{Name: "_", Type: runtimeQual("Context")}},
				Results: provider.Results,
				Body:    []ir.Stmt{ir.Return{Results: []ir.Expr{ir.Ident("c"), ir.Nil}}},
			}),
		}}},
	}
}

func (r *Router) providerConstructor(name string, self ir.Expr, provider ir.FuncType) ir.FuncDecl {
	return ir.FuncDecl{
		Doc:     "New" + name + "WithProvider asks provider for a controller on every request.",
		Name:    "New" + name + "WithProvider",
		Params:  []ir.Field{{Name: "provider", Type: ir.FuncType{Results: []ir.Expr{self}}}},
		Results: []ir.Expr{ir.Ident("*" + name)},
		Body: []ir.Stmt{ir.Return{Results: []ir.Expr{
			routerLit(name, ir.FuncLit{
				Params:  []ir.Field{{Name: "_", Type: runtimeQual("Context")}},
				Results: provider.Results,
				Body:    []ir.Stmt{ir.Return{Results: []ir.Expr{ir.CallOf(ir.Ident("provider")), ir.Nil}}},
			}),
		}}},
	}
}

func (r *Router) typeConstructor(name string, self ir.Expr, provider ir.FuncType) ir.FuncDecl {
	return ir.FuncDecl{
		Doc:     "New" + name + "ForType resolves the controller from the request's registry.",
		Name:    "New" + name + "ForType",
		Params:  []ir.Field{{Name: "t", Type: ir.Qual{Path: "reflect", Name: "Type"}}},
		Results: []ir.Expr{ir.Ident("*" + name)},
		Body: []ir.Stmt{ir.Return{Results: []ir.Expr{
			routerLit(name, ir.FuncLit{
				Params:  []ir.Field{{Name: "ctx", Type: runtimeQual("Context")}},
				Results: provider.Results,
				Body: []ir.Stmt{ir.Return{Results: []ir.Expr{ir.Call{
					Fun:      runtimeQual("Require"),
					TypeArgs: []ir.Expr{self},
					Args:     []ir.Expr{ir.Ident("ctx"), ir.Ident("t")},
				}}}},
			}),
		}}},
	}
}

// routerLit is &Name{provider: fn}
func routerLit(name string, fn ir.FuncLit) ir.Expr {
	return ir.Unary{Op: "&", X: ir.Composite{Type: ir.Ident(name), Fields: []ir.KeyValue{{Key: "provider", Value: fn}}}}
}

// ToSourceCode renders the artifact as Go source
func (r *Router) ToSourceCode() ([]byte, error) {
	return templates.Render(r.Artifact())
}

// SortByIdentifier orders routers by their manifest identifier
func SortByIdentifier(routers []*Router) {
	sort.SliceStable(routers, func(i, j int) bool {
		return routers[i].Identifier() < routers[j].Identifier()
	})
}
