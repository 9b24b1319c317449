// Package modelstest provides an in-memory TypeGraph for tests.
package modelstest

import (
	"fmt"

	"github.com/toyz/mvcgen/internal/annotations"
	"github.com/toyz/mvcgen/internal/errors"
	"github.com/toyz/mvcgen/internal/models"
)

// Param describes a method parameter for Graph.Method
type Param struct {
	Name string
	Type models.TypeRef
}

// P is shorthand for Param
func P(name string, t models.TypeRef) Param {
	return Param{Name: name, Type: t}
}

type typeEntry struct {
	t        *models.ControllerType
	parent   *models.ControllerType
	err      error
	abstract bool
	methods  []*models.ActionMethod
}

// Graph is a hand-built models.Host
type Graph struct {
	parser  *annotations.Parser
	types   map[string]*typeEntry
	markers map[models.Element][]annotations.Marker
	rounds  []models.Round
	line    int
}

// New creates an empty graph
func New() *Graph {
	return &Graph{
		parser:  annotations.NewParser(),
		types:   make(map[string]*typeEntry),
		markers: make(map[models.Element][]annotations.Marker),
	}
}

func (g *Graph) loc() errors.SourceLocation {
	g.line++
	return errors.SourceLocation{File: "controllers.go", Line: g.line}
}

func (g *Graph) parse(marker string) annotations.Marker {
	m, err := g.parser.Parse("//mvc::"+marker, g.loc())
	if err != nil {
		panic(fmt.Sprintf("modelstest: %v", err))
	}
	return m
}

// Type declares a controller type with type-level markers such as
// "path /api" or "controller -Abstract".
func (g *Graph) Type(pkgPath, name string, markers ...string) *models.ControllerType {
	t := &models.ControllerType{
		Package:     pkgPath,
		PackageName: models.Named(pkgPath, name).PackageName,
		Name:        name,
		Dir:         "/src/" + pkgPath,
		Loc:         g.loc(),
	}
	entry := &typeEntry{t: t}
	g.types[t.Key()] = entry
	for _, raw := range markers {
		m := g.parse(raw)
		if m.Category == annotations.Controller && (m.Identifier == "abstract" || m.Flag("Abstract")) {
			entry.abstract = true
		}
		g.markers[t] = append(g.markers[t], m)
	}
	return t
}

// Embed makes parent the direct supertype of child
func (g *Graph) Embed(child, parent *models.ControllerType) {
	g.types[child.Key()].parent = parent
}

// FailSupertype makes DirectSupertype(child) return err
func (g *Graph) FailSupertype(child *models.ControllerType, err error) {
	g.types[child.Key()].err = err
}

// Method declares a method on owner. Parameter-level markers name their
// parameter as the first positional value, as in source comments.
func (g *Graph) Method(owner *models.ControllerType, name string, params []Param, results []models.TypeRef, markers ...string) *models.ActionMethod {
	m := &models.ActionMethod{
		Name:    name,
		Owner:   owner,
		Results: results,
		Loc:     g.loc(),
	}
	for i, p := range params {
		m.Params = append(m.Params, &models.Parameter{Name: p.Name, Index: i, Type: p.Type, Method: m})
	}
	for _, raw := range markers {
		marker := g.parse(raw)
		if annotations.IsParameterLevel(marker.Category) {
			target, ok := marker.ShiftValue()
			param, found := m.Param(target)
			if !ok || !found {
				panic(fmt.Sprintf("modelstest: marker %q names no parameter of %s", raw, name))
			}
			marker.Target = target
			g.markers[param] = append(g.markers[param], marker)
			continue
		}
		g.markers[m] = append(g.markers[m], marker)
	}
	entry := g.types[owner.Key()]
	entry.methods = append(entry.methods, m)
	return m
}

// Round queues a round of elements
func (g *Graph) Round(elements ...models.Element) {
	g.rounds = append(g.rounds, models.Round{Label: fmt.Sprintf("round-%d", len(g.rounds)+1), Elements: elements})
}

// Rounds implements models.Host
func (g *Graph) Rounds() []models.Round {
	out := append([]models.Round(nil), g.rounds...)
	return append(out, models.Round{Label: "final", ProcessingOver: true})
}

// DeclaredMethods implements models.TypeGraph
func (g *Graph) DeclaredMethods(t *models.ControllerType) ([]*models.ActionMethod, error) {
	entry, ok := g.types[t.Key()]
	if !ok {
		return nil, fmt.Errorf("unknown type %s", t.Key())
	}
	return entry.methods, nil
}

// DirectSupertype implements models.TypeGraph
func (g *Graph) DirectSupertype(t *models.ControllerType) (*models.ControllerType, error) {
	entry, ok := g.types[t.Key()]
	if !ok {
		return nil, nil
	}
	if entry.err != nil {
		return nil, entry.err
	}
	return entry.parent, nil
}

// MarkersOn implements models.TypeGraph
func (g *Graph) MarkersOn(e models.Element) []annotations.Marker {
	return g.markers[e]
}

// IsAbstract implements models.TypeGraph
func (g *Graph) IsAbstract(t *models.ControllerType) bool {
	entry, ok := g.types[t.Key()]
	return ok && entry.abstract
}
