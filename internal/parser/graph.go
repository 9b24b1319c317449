// Package parser is the Go host: it reads controller types, methods and
// their marker comments from packages loaded with go/packages and serves
// them through models.TypeGraph.
package parser

import (
	"go/ast"
	"go/token"
	"go/types"
	"path/filepath"
	"sort"

	"golang.org/x/tools/go/packages"

	"github.com/toyz/mvcgen/internal/annotations"
	"github.com/toyz/mvcgen/internal/errors"
	"github.com/toyz/mvcgen/internal/models"
)

// Graph implements models.Host over loaded packages
type Graph struct {
	fset        *token.FileSet
	roots       []*packages.Package
	incremental bool
	parser      *annotations.Parser
	reporter    *ErrorReporter

	typeMarkers map[*types.TypeName][]annotations.Marker
	funcMarkers map[*types.Func][]annotations.Marker
	typeOrder   map[*packages.Package][]*types.TypeName

	controllers map[string]*models.ControllerType
	named       map[*models.ControllerType]*types.Named
	methods     map[string][]*models.ActionMethod
	markers     map[models.Element][]annotations.Marker
	isCtrl      map[*types.TypeName]bool
	enums       map[*types.TypeName]bool
	errs        []error
}

// NewGraph indexes the marker comments of roots and, when loaded with
// their syntax, of their dependencies. roots must be in dependency order.
func NewGraph(roots []*packages.Package, incremental bool) *Graph {
	g := &Graph{
		roots:       roots,
		incremental: incremental,
		parser:      annotations.NewParser(),
		reporter:    NewErrorReporter(),
		typeMarkers: make(map[*types.TypeName][]annotations.Marker),
		funcMarkers: make(map[*types.Func][]annotations.Marker),
		typeOrder:   make(map[*packages.Package][]*types.TypeName),
		controllers: make(map[string]*models.ControllerType),
		named:       make(map[*models.ControllerType]*types.Named),
		methods:     make(map[string][]*models.ActionMethod),
		markers:     make(map[models.Element][]annotations.Marker),
		isCtrl:      make(map[*types.TypeName]bool),
		enums:       make(map[*types.TypeName]bool),
	}
	if len(roots) > 0 {
		g.fset = roots[0].Fset
	}
	packages.Visit(roots, nil, func(p *packages.Package) {
		g.index(p)
	})
	return g
}

// Errors returns marker syntax errors and misplaced parameter markers
func (g *Graph) Errors() []error {
	return g.errs
}

// Packages returns the root packages in dependency order
func (g *Graph) Packages() []*packages.Package {
	return g.roots
}

func (g *Graph) index(p *packages.Package) {
	if p.TypesInfo == nil {
		return
	}
	for _, file := range p.Syntax {
		if g.fset != nil && IsGeneratedFile(g.fset.Position(file.Package).Filename) {
			continue
		}
		for _, decl := range file.Decls {
			switch decl := decl.(type) {
			case *ast.GenDecl:
				if decl.Tok != token.TYPE {
					continue
				}
				for _, spec := range decl.Specs {
					ts, ok := spec.(*ast.TypeSpec)
					if !ok {
						continue
					}
					obj, ok := p.TypesInfo.Defs[ts.Name].(*types.TypeName)
					if !ok || obj.IsAlias() {
						continue
					}
					doc := ts.Doc
					if doc == nil && !decl.Lparen.IsValid() {
						doc = decl.Doc
					}
					g.typeMarkers[obj] = g.parseDoc(doc)
					g.typeOrder[p] = append(g.typeOrder[p], obj)
				}
			case *ast.FuncDecl:
				if decl.Recv == nil || decl.Doc == nil {
					continue
				}
				if fn, ok := p.TypesInfo.Defs[decl.Name].(*types.Func); ok {
					g.funcMarkers[fn] = g.parseDoc(decl.Doc)
				}
			}
		}
	}
}

func (g *Graph) parseDoc(doc *ast.CommentGroup) []annotations.Marker {
	if doc == nil {
		return nil
	}
	lines := make([]string, len(doc.List))
	for i, c := range doc.List {
		lines[i] = c.Text
	}
	markers, errs := g.parser.ParseComments(lines, func(i int) errors.SourceLocation {
		return g.position(doc.List[i].Slash)
	})
	g.errs = append(g.errs, errs...)
	return markers
}

func (g *Graph) position(pos token.Pos) errors.SourceLocation {
	if g.fset == nil || !pos.IsValid() {
		return errors.SourceLocation{}
	}
	p := g.fset.Position(pos)
	return errors.SourceLocation{File: p.Filename, Line: p.Line, Column: p.Column}
}

// isController reports whether obj is a struct type with markers, with
// verb-marked methods, or embedding such a type.
func (g *Graph) isController(obj *types.TypeName) bool {
	if known, ok := g.isCtrl[obj]; ok {
		return known
	}
	g.isCtrl[obj] = false

	n, ok := types.Unalias(obj.Type()).(*types.Named)
	if !ok {
		return false
	}
	st, ok := n.Underlying().(*types.Struct)
	if !ok {
		return false
	}

	result := len(g.typeMarkers[obj]) > 0
	for i := 0; !result && i < n.NumMethods(); i++ {
		for _, m := range g.funcMarkers[n.Method(i).Origin()] {
			if m.Category == annotations.HTTPVerb {
				result = true
				break
			}
		}
	}
	for i := 0; !result && i < st.NumFields(); i++ {
		if embedded := embeddedNamed(st.Field(i)); embedded != nil {
			result = g.isController(embedded.Obj())
		}
	}

	g.isCtrl[obj] = result
	return result
}

func embeddedNamed(f *types.Var) *types.Named {
	if !f.Embedded() {
		return nil
	}
	t := types.Unalias(f.Type())
	if ptr, ok := t.(*types.Pointer); ok {
		t = types.Unalias(ptr.Elem())
	}
	n, _ := t.(*types.Named)
	return n
}

// controllerFor returns the handle of n, creating it on first use so every
// query hands out the same pointer.
func (g *Graph) controllerFor(n *types.Named) *models.ControllerType {
	obj := n.Obj()
	loc := g.position(obj.Pos())
	ct := &models.ControllerType{
		Package:     obj.Pkg().Path(),
		PackageName: obj.Pkg().Name(),
		Name:        obj.Name(),
		Dir:         filepath.Dir(loc.File),
		Loc:         loc,
	}
	if targs := n.TypeArgs(); targs != nil {
		for i := 0; i < targs.Len(); i++ {
			ct.TypeArgs = append(ct.TypeArgs, g.typeRef(targs.At(i)))
		}
	}
	if existing, ok := g.controllers[ct.Key()]; ok {
		return existing
	}
	g.controllers[ct.Key()] = ct
	g.named[ct] = n
	return ct
}

// DeclaredMethods implements models.TypeGraph
func (g *Graph) DeclaredMethods(t *models.ControllerType) ([]*models.ActionMethod, error) {
	if cached, ok := g.methods[t.Key()]; ok {
		return cached, nil
	}
	n, ok := g.named[t]
	if !ok {
		return nil, errors.NewDiscoveryError(t.ElementName(), "type is not part of the loaded packages", nil)
	}

	funcs := make([]*types.Func, 0, n.NumMethods())
	for i := 0; i < n.NumMethods(); i++ {
		funcs = append(funcs, n.Method(i))
	}
	sort.SliceStable(funcs, func(i, j int) bool { return funcs[i].Origin().Pos() < funcs[j].Origin().Pos() })

	out := make([]*models.ActionMethod, 0, len(funcs))
	for _, fn := range funcs {
		out = append(out, g.actionMethod(t, fn))
	}
	g.methods[t.Key()] = out
	return out, nil
}

func (g *Graph) actionMethod(owner *models.ControllerType, fn *types.Func) *models.ActionMethod {
	sig := fn.Type().(*types.Signature)
	m := &models.ActionMethod{
		Name:     fn.Name(),
		Owner:    owner,
		Variadic: sig.Variadic(),
		Loc:      g.position(fn.Origin().Pos()),
	}
	for i := 0; i < sig.Params().Len(); i++ {
		v := sig.Params().At(i)
		m.Params = append(m.Params, &models.Parameter{
			Name:   v.Name(),
			Index:  i,
			Type:   g.typeRef(v.Type()),
			Method: m,
			Loc:    g.position(v.Pos()),
		})
	}
	for i := 0; i < sig.Results().Len(); i++ {
		m.Results = append(m.Results, g.typeRef(sig.Results().At(i).Type()))
	}

	for _, marker := range g.funcMarkers[fn.Origin()] {
		if !annotations.IsParameterLevel(marker.Category) {
			g.markers[m] = append(g.markers[m], marker)
			continue
		}
		target, ok := marker.ShiftValue()
		param, found := m.Param(target)
		if !ok || !found {
			g.errs = append(g.errs, g.reporter.UnknownParameter(m, marker, target))
			continue
		}
		marker.Target = target
		g.markers[param] = append(g.markers[param], marker)
	}
	return m
}

// DirectSupertype implements models.TypeGraph. The supertype is the one
// embedded controller field; more than one is ambiguous.
func (g *Graph) DirectSupertype(t *models.ControllerType) (*models.ControllerType, error) {
	n, ok := g.named[t]
	if !ok {
		return nil, nil
	}
	st, ok := n.Underlying().(*types.Struct)
	if !ok {
		return nil, nil
	}

	var found []*types.Named
	for i := 0; i < st.NumFields(); i++ {
		if embedded := embeddedNamed(st.Field(i)); embedded != nil && g.isController(embedded.Obj()) {
			found = append(found, embedded)
		}
	}
	switch len(found) {
	case 0:
		return nil, nil
	case 1:
		return g.controllerFor(found[0]), nil
	default:
		names := make([]string, len(found))
		for i, f := range found {
			names[i] = f.Obj().Name()
		}
		return nil, g.reporter.AmbiguousSupertype(t, names)
	}
}

// MarkersOn implements models.TypeGraph
func (g *Graph) MarkersOn(e models.Element) []annotations.Marker {
	if ct, ok := e.(*models.ControllerType); ok {
		if n, ok := g.named[ct]; ok {
			return g.typeMarkers[n.Obj()]
		}
		return nil
	}
	return g.markers[e]
}

// IsAbstract implements models.TypeGraph. Generic types that are not
// instantiated are abstract too.
func (g *Graph) IsAbstract(t *models.ControllerType) bool {
	n, ok := g.named[t]
	if !ok {
		return true
	}
	if n.TypeParams().Len() > 0 && len(t.TypeArgs) == 0 {
		return true
	}
	for _, m := range g.typeMarkers[n.Obj()] {
		if m.Category == annotations.Controller && (m.Identifier == "abstract" || m.Flag("Abstract")) {
			return true
		}
	}
	return false
}

// Rounds implements models.Host. Each controller type is followed by its
// verb-marked methods.
func (g *Graph) Rounds() []models.Round {
	var rounds []models.Round
	var all []models.Element
	for _, p := range g.roots {
		elements := g.elements(p)
		if len(elements) == 0 {
			continue
		}
		if g.incremental {
			rounds = append(rounds, models.Round{Label: p.PkgPath, Elements: elements})
		} else {
			all = append(all, elements...)
		}
	}
	if !g.incremental && len(all) > 0 {
		rounds = append(rounds, models.Round{Label: "all packages", Elements: all})
	}
	return append(rounds, models.Round{Label: "final", ProcessingOver: true})
}

func (g *Graph) elements(p *packages.Package) []models.Element {
	var out []models.Element
	for _, obj := range g.typeOrder[p] {
		if !g.isController(obj) {
			continue
		}
		n, ok := types.Unalias(obj.Type()).(*types.Named)
		if !ok {
			continue
		}
		ct := g.controllerFor(n)
		out = append(out, ct)

		methods, _ := g.DeclaredMethods(ct)
		for _, m := range methods {
			for _, marker := range g.markers[m] {
				if marker.Category == annotations.HTTPVerb {
					out = append(out, m)
					break
				}
			}
		}
	}
	return out
}
