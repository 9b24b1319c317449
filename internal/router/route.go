package router

import (
	"go/token"
	"strconv"

	"github.com/toyz/mvcgen/internal/annotations"
	"github.com/toyz/mvcgen/internal/attrgen"
	"github.com/toyz/mvcgen/internal/binder"
	"github.com/toyz/mvcgen/internal/errors"
	"github.com/toyz/mvcgen/internal/ir"
	"github.com/toyz/mvcgen/internal/models"
	"github.com/toyz/mvcgen/internal/session"
	"github.com/toyz/mvcgen/internal/templates"
	"github.com/toyz/mvcgen/internal/typedesc"
)

// ReturnKind is the shape of a controller method's result
type ReturnKind int

const (
	Void ReturnKind = iota
	StatusCode
	Body
)

// String returns the string representation of the return kind
func (k ReturnKind) String() string {
	switch k {
	case Void:
		return "void"
	case StatusCode:
		return "status-code"
	default:
		return "body"
	}
}

// VerbEntry is one HTTP verb a route answers, with its composed paths
type VerbEntry struct {
	Marker annotations.Marker
	Paths  []string
}

// Verb returns the HTTP method name
func (v VerbEntry) Verb() string {
	return v.Marker.Identifier
}

// Route is one controller method exposed under one or more verbs
type Route struct {
	session    *session.Session
	target     *models.ControllerType
	method     *models.ActionMethod
	verbs      []VerbEntry
	bindings   []*binder.Binding
	returnKind ReturnKind
	returnType *typedesc.Descriptor
	hasError   bool
	name       string
	err        error
}

// NewRoute builds a route for method as seen from the router target.
// Bindings and the return shape are computed once here; a route that fails
// records the error, reports it, and is skipped at emission.
func NewRoute(s *session.Session, b *binder.Binder, target *models.ControllerType, method *models.ActionMethod, verb annotations.Marker, paths []string) *Route {
	r := &Route{
		session: s,
		target:  target,
		method:  method,
		name:    templates.LowerFirst(method.Name),
	}
	r.AddHTTPMethod(verb, paths)

	if method.Variadic {
		r.fail(errors.NewSignatureError(method.ElementName(), "variadic methods cannot be routes"), method)
		return r
	}
	if err := r.resolveReturn(); err != nil {
		r.fail(err, method)
		return r
	}
	for _, param := range method.Params {
		binding, err := b.Bind(param, s.MarkersOn(param))
		if err != nil {
			r.fail(err, param)
			return r
		}
		r.bindings = append(r.bindings, binding)
	}
	return r
}

func (r *Route) fail(err error, anchor models.Element) {
	r.err = err
	r.session.Report(err, anchor)
}

// AddHTTPMethod attaches another verb. Attaching a verb twice only merges
// the paths.
func (r *Route) AddHTTPMethod(verb annotations.Marker, paths []string) {
	for i := range r.verbs {
		if r.verbs[i].Verb() == verb.Identifier {
			r.verbs[i].Paths = mergePaths(r.verbs[i].Paths, paths)
			return
		}
	}
	r.verbs = append(r.verbs, VerbEntry{Marker: verb, Paths: mergePaths(nil, paths)})
}

func mergePaths(existing, more []string) []string {
	out := append([]string(nil), existing...)
	for _, p := range more {
		dup := false
		for _, e := range out {
			if e == p {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, p)
		}
	}
	return out
}

// Method returns the underlying controller method
func (r *Route) Method() *models.ActionMethod {
	return r.method
}

// Verbs returns the verbs in attachment order
func (r *Route) Verbs() []VerbEntry {
	return r.verbs
}

// Bindings returns one binding per parameter
func (r *Route) Bindings() []*binder.Binding {
	return r.bindings
}

// ReturnKind returns the result shape
func (r *Route) ReturnKind() ReturnKind {
	return r.returnKind
}

// GeneratedName is the name of the dispatch method
func (r *Route) GeneratedName() string {
	return r.name
}

// Err returns the error that disqualified the route, if any
func (r *Route) Err() error {
	return r.err
}

func (r *Route) resolveReturn() error {
	results := r.method.Results
	if n := len(results); n > 0 && results[n-1].IsError() {
		r.hasError = true
		results = results[:n-1]
	}
	switch len(results) {
	case 0:
		r.returnKind = Void
	case 1:
		desc := typedesc.Of(results[0])
		if desc.Is("mvc.StatusCode") {
			r.returnKind = StatusCode
		} else {
			r.returnKind = Body
			r.returnType = desc
		}
	default:
		return errors.NewSignatureError(r.method.ElementName(), "return either a value, a value and an error, or only an error")
	}
	return nil
}

// runtimeReturnType is the type the dispatch method hands to the app
func (r *Route) runtimeReturnType() *typedesc.Descriptor {
	if r.returnKind == Body {
		return r.returnType
	}
	return typedesc.Of(models.Runtime("StatusCode"))
}

// Registrations builds one app.Route(...) chain per (verb, path)
func (r *Route) Registrations(app ir.Expr, router ir.Expr) []ir.Stmt {
	var calls []ir.Call
	if consumes := r.mediaTypes(annotations.Consumes, "Consumes"); len(consumes) > 0 {
		calls = append(calls, ir.CallOf(ir.Ident("SetConsumes"), stringArgs(consumes)...))
	}
	if produces := r.mediaTypes(annotations.Produces, "Produces"); len(produces) > 0 {
		calls = append(calls, ir.CallOf(ir.Ident("SetProduces"), stringArgs(produces)...))
	}
	if queue, ok := r.dispatchQueue(); ok {
		calls = append(calls, ir.CallOf(ir.Ident("SetDispatch"), ir.String(queue)))
	}
	if attrs, ok := attrgen.Generate(r.attributes()); ok {
		calls = append(calls, ir.CallOf(ir.Ident("SetAttributes"), attrs))
	}
	calls = append(calls,
		ir.CallOf(ir.Ident("SetReturnType"), r.runtimeReturnType().ToRuntimeDescriptor()),
		ir.CallOf(ir.Ident("SetMvcMethod"), r.methodRef()),
	)

	var stmts []ir.Stmt
	for _, verb := range r.verbs {
		for _, path := range verb.Paths {
			head := ir.Method(app, "Route", ir.String(verb.Verb()), ir.String(path), ir.Sel{X: router, Name: r.name})
			stmts = append(stmts, ir.ExprStmt{X: ir.Chain{X: head, Calls: calls}})
		}
	}
	return stmts
}

func stringArgs(values []string) []ir.Expr {
	out := make([]ir.Expr, len(values))
	for i, v := range values {
		out[i] = ir.String(v)
	}
	return out
}

// mediaTypes resolves consumes or produces: the verb marker attribute,
// then method markers, then the controller chain nearest first. The first
// non-empty list wins.
func (r *Route) mediaTypes(category annotations.Category, verbAttr string) []string {
	for _, verb := range r.verbs {
		if values := annotations.AttributeValues(verb.Marker, verbAttr); len(values) > 0 {
			return values
		}
	}
	for _, markers := range r.markerScopes() {
		var values []string
		for _, m := range markers {
			if m.Category == category {
				values = append(values, annotations.AttributeValues(m, annotations.ValueAttribute)...)
			}
		}
		if len(values) > 0 {
			return values
		}
	}
	return nil
}

func (r *Route) dispatchQueue() (string, bool) {
	for _, markers := range r.markerScopes() {
		for _, m := range markers {
			if m.Category != annotations.Dispatch {
				continue
			}
			if queue := annotations.FirstAttribute(m, annotations.ValueAttribute); queue != "" {
				return queue, true
			}
			return annotations.DefaultDispatchQueue, true
		}
	}
	return "", false
}

func (r *Route) attributes() []annotations.Attribute {
	scopes := r.markerScopes()
	return attrgen.Collect(scopes[1:], scopes[0])
}

// markerScopes returns the method markers followed by the marker lists of
// the target's type chain, nearest first.
func (r *Route) markerScopes() [][]annotations.Marker {
	scopes := [][]annotations.Marker{r.session.MarkersOn(r.method)}
	for _, t := range r.session.SuperTypes(r.target) {
		scopes = append(scopes, r.session.MarkersOn(t))
	}
	return scopes
}

func (r *Route) methodRef() ir.Expr {
	args := []ir.Expr{ir.String(r.method.Name)}
	for _, p := range r.method.Params {
		args = append(args, typedesc.Of(p.Type).ToRuntimeDescriptor())
	}
	return ir.Call{
		Fun:      runtimeQual("MethodOf"),
		TypeArgs: []ir.Expr{ir.Type(models.Pointer(r.target.Ref()))},
		Args:     args,
	}
}

// receiver returns the expression the method is invoked on. Promoted
// methods are called on the controller directly, so a nearer method of the
// same shape takes the call. When a nearer type declares the name with a
// different shape the embedding path is spelled out.
func (r *Route) receiver(controller ir.Expr) (ir.Expr, error) {
	owner := r.method.Owner
	if !r.method.Exported() && owner.Package != r.target.Package {
		return nil, errors.NewSignatureError(r.method.ElementName(), "unexported method is not reachable from package "+r.target.PackageName)
	}

	chain := r.session.SuperTypes(r.target)
	depth := -1
	for i, t := range chain {
		if t.Key() == owner.Key() {
			depth = i
			break
		}
	}
	if depth < 0 {
		return nil, errors.NewSignatureError(r.method.ElementName(), "declaring type is not in the supertype chain of "+r.target.ElementName())
	}
	if depth == 0 || !r.shadowed(chain[:depth]) {
		return controller, nil
	}

	recv := controller
	for i := 1; i <= depth; i++ {
		field := chain[i].Name
		if !token.IsExported(field) && chain[i-1].Package != r.target.Package {
			return nil, errors.NewSignatureError(r.method.ElementName(), "embedded field "+field+" is not reachable from package "+r.target.PackageName)
		}
		recv = ir.Sel{X: recv, Name: field}
	}
	return recv, nil
}

func (r *Route) shadowed(nearer []*models.ControllerType) bool {
	for _, t := range nearer {
		methods, err := r.session.Graph().DeclaredMethods(t)
		if err != nil {
			continue
		}
		for _, m := range methods {
			if m.Name == r.method.Name && !sameShape(m, r.method) {
				return true
			}
		}
	}
	return false
}

func sameShape(a, b *models.ActionMethod) bool {
	if a.Signature() != b.Signature() || len(a.Results) != len(b.Results) {
		return false
	}
	for i := range a.Results {
		if a.Results[i].Raw() != b.Results[i].Raw() {
			return false
		}
	}
	return true
}

// localName picks the variable holding a bound parameter
func localName(b *binder.Binding, index int, reserved map[string]bool) string {
	name := b.Param.Name
	if name == "" || name == "_" || reserved[name] {
		return "arg" + strconv.Itoa(index)
	}
	return name
}

// Dispatch builds the dispatch method. It fails when the controller
// method cannot be reached from the router's package.
func (r *Route) Dispatch(routerType string) (ir.FuncDecl, error) {
	controller := ir.Ident("c")
	recv, err := r.receiver(controller)
	if err != nil {
		return ir.FuncDecl{}, err
	}

	body := []ir.Stmt{
		ir.Assign{LHS: []string{"c", "err"}, Define: true, RHS: []ir.Expr{ir.CallOf(ir.Sel{X: ir.Ident("r"), Name: "provider"}, ir.Ident("ctx"))}},
		ir.If{Cond: ir.ErrNotNil, Body: []ir.Stmt{ir.ReturnErr(ir.Nil)}},
	}

	reserved := r.reservedNames()
	args := make([]ir.Expr, 0, len(r.bindings))
	for i, b := range r.bindings {
		name := localName(b, i, reserved)
		reserved[name] = true
		if b.Fallible {
			body = append(body,
				ir.Assign{LHS: []string{name, "err"}, Define: true, RHS: []ir.Expr{b.Expr}},
				ir.If{Cond: ir.ErrNotNil, Body: []ir.Stmt{ir.ReturnErr(ir.Nil)}},
			)
		} else {
			body = append(body, ir.Assign{LHS: []string{name}, Define: true, RHS: []ir.Expr{b.Expr}})
		}
		args = append(args, ir.Ident(name))
	}

	call := ir.Method(recv, r.method.Name, args...)
	body = append(body, r.invoke(call)...)

	return ir.FuncDecl{
		Recv:    &ir.Field{Name: "r", Type: ir.Ident("*" + routerType)},
		Name:    r.name,
		Params:  []ir.Field{{Name: "ctx", Type: runtimeQual("Context")}},
		Results: []ir.Expr{ir.Ident("any"), ir.Ident("error")},
		Body:    body,
	}, nil
}

func (r *Route) invoke(call ir.Call) []ir.Stmt {
	switch r.returnKind {
	case Void:
		status := r.voidStatus()
		stmts := []ir.Stmt{ir.ExprStmt{X: ir.Method(ir.Ident("ctx"), "SetResponseCode", status)}}
		if r.hasError {
			stmts = append(stmts, ir.If{
				Init: ir.Assign{LHS: []string{"err"}, Define: true, RHS: []ir.Expr{call}},
				Cond: ir.ErrNotNil,
				Body: []ir.Stmt{ir.ReturnErr(ir.Nil)},
			})
		} else {
			stmts = append(stmts, ir.ExprStmt{X: call})
		}
		return append(stmts, ir.Return{Results: []ir.Expr{ir.Method(ir.Ident("ctx"), "ResponseCode"), ir.Nil}})
	case StatusCode:
		var stmts []ir.Stmt
		if r.hasError {
			stmts = append(stmts,
				ir.Assign{LHS: []string{"status", "err"}, Define: true, RHS: []ir.Expr{call}},
				ir.If{Cond: ir.ErrNotNil, Body: []ir.Stmt{ir.ReturnErr(ir.Nil)}},
			)
		} else {
			stmts = append(stmts, ir.Assign{LHS: []string{"status"}, Define: true, RHS: []ir.Expr{call}})
		}
		return append(stmts,
			ir.ExprStmt{X: ir.Method(ir.Ident("ctx"), "SetResponseCode", ir.Ident("status"))},
			ir.Return{Results: []ir.Expr{ir.Ident("status"), ir.Nil}},
		)
	default:
		if !r.hasError {
			return []ir.Stmt{ir.Return{Results: []ir.Expr{call, ir.Nil}}}
		}
		return []ir.Stmt{
			ir.Assign{LHS: []string{"result", "err"}, Define: true, RHS: []ir.Expr{call}},
			ir.If{Cond: ir.ErrNotNil, Body: []ir.Stmt{ir.ReturnErr(ir.Nil)}},
			ir.Return{Results: []ir.Expr{ir.Ident("result"), ir.Nil}},
		}
	}
}

// voidStatus is 204 for DELETE routes and 200 otherwise. A route that
// answers DELETE and other verbs decides at request time.
func (r *Route) voidStatus() ir.Expr {
	deletes := 0
	for _, v := range r.verbs {
		if v.Verb() == "DELETE" {
			deletes++
		}
	}
	switch deletes {
	case 0:
		return runtimeQual("StatusOK")
	case len(r.verbs):
		return runtimeQual("StatusNoContent")
	default:
		return ir.CallOf(runtimeQual("DefaultStatus"), ir.Ident("ctx"))
	}
}

func (r *Route) reservedNames() map[string]bool {
	reserved := map[string]bool{
		"ctx": true, "c": true, "r": true, "err": true, "result": true, "status": true,
		"mvc": true, "reflect": true, "any": true, "error": true,
	}
	for _, p := range r.method.Params {
		for _, pkg := range p.Type.Packages() {
			reserved[models.Named(pkg, "").PackageName] = true
		}
	}
	return reserved
}

func runtimeQual(name string) ir.Qual {
	return ir.Qual{Path: models.RuntimePackage, Name: name}
}
