// Package registry drives a build: it consumes host rounds, collects the
// routes of every controller across its embedding chain and emits the
// routers once processing is over.
package registry

import (
	"github.com/toyz/mvcgen/internal/annotations"
	"github.com/toyz/mvcgen/internal/binder"
	"github.com/toyz/mvcgen/internal/errors"
	"github.com/toyz/mvcgen/internal/models"
	"github.com/toyz/mvcgen/internal/router"
	"github.com/toyz/mvcgen/internal/session"
)

type verbMethod struct {
	verb   annotations.Marker
	method *models.ActionMethod
}

// Stats summarizes a finished build
type Stats struct {
	Controllers int
	Routers     int
	Routes      int
	Files       []string
}

// Builder accumulates routers across rounds
type Builder struct {
	session  *session.Session
	binder   *binder.Binder
	output   Output
	routers  map[string]*router.Router
	order    []string
	pending  map[string][]verbMethod
	expanded map[string]bool
	stats    Stats
	done     bool
}

// NewBuilder creates a builder that writes to output
func NewBuilder(s *session.Session, b *binder.Binder, output Output) *Builder {
	if b == nil {
		b = binder.New()
	}
	return &Builder{
		session:  s,
		binder:   b,
		output:   output,
		routers:  make(map[string]*router.Router),
		pending:  make(map[string][]verbMethod),
		expanded: make(map[string]bool),
	}
}

// Run feeds every round of host to the builder
func (b *Builder) Run(host models.Host) error {
	for _, round := range host.Rounds() {
		if err := b.Process(round); err != nil {
			return err
		}
	}
	return nil
}

// Process handles one round. Regular rounds record elements and expand the
// known routers; the final round emits them and returns every error
// reported during the build.
func (b *Builder) Process(round models.Round) error {
	if b.done {
		return nil
	}
	n := b.session.NextRound()
	b.session.Debug("processing round %d (%s): %d elements", n, round.Label, len(round.Elements))

	if round.ProcessingOver {
		b.done = true
		b.emit()
		return b.session.Err()
	}

	for _, e := range round.Elements {
		b.record(e)
	}
	for _, key := range b.order {
		b.expand(b.routers[key])
	}
	return nil
}

// Routers returns the routers in discovery order
func (b *Builder) Routers() []*router.Router {
	out := make([]*router.Router, 0, len(b.order))
	for _, key := range b.order {
		out = append(out, b.routers[key])
	}
	return out
}

// Stats returns the build summary, filled in by the final round
func (b *Builder) Stats() Stats {
	return b.stats
}

func (b *Builder) record(e models.Element) {
	b.warnUnknown(e)

	switch e := e.(type) {
	case *models.ControllerType:
		b.stats.Controllers++
		if !b.session.Graph().IsAbstract(e) {
			b.ensure(e)
		}
	case *models.ActionMethod:
		for _, m := range b.session.MarkersOn(e) {
			if b.session.IsHTTPVerbMarker(m) {
				b.pending[e.Owner.Key()] = append(b.pending[e.Owner.Key()], verbMethod{verb: m, method: e})
			}
		}
		if len(b.pending[e.Owner.Key()]) > 0 && !b.session.Graph().IsAbstract(e.Owner) {
			b.ensure(e.Owner)
		}
	}
}

func (b *Builder) warnUnknown(e models.Element) {
	for _, m := range b.session.MarkersOn(e) {
		if m.Category == annotations.UnknownCategory {
			b.session.Warning("unknown marker %q is ignored", m.Identifier, e)
		}
	}
}

func (b *Builder) ensure(t *models.ControllerType) *router.Router {
	if r, ok := b.routers[t.Key()]; ok {
		return r
	}
	r := router.New(b.session, b.binder, t)
	b.routers[t.Key()] = r
	b.order = append(b.order, t.Key())
	b.session.Debug("router %s created", r.Identifier(), t)
	return r
}

// expand puts the target's own verb methods, then the verb methods of every
// ancestor, nearest first. A signature claimed by a nearer level is not
// inherited again.
func (b *Builder) expand(r *router.Router) {
	target := r.Target()
	chain := b.session.SuperTypes(target)

	own := b.pending[target.Key()]
	claimed := make(map[string]bool)
	for _, vm := range own {
		claimed[vm.method.Signature()] = true
	}
	for _, vm := range own {
		b.put(r, chain, vm)
	}

	for _, ancestor := range chain[1:] {
		methods, err := b.session.Graph().DeclaredMethods(ancestor)
		if err != nil {
			if errors.CodeOf(err) == errors.UnknownErrorCode {
				err = errors.NewDiscoveryError(ancestor.ElementName(), "cannot list methods", err)
			}
			b.session.Report(err, ancestor)
			continue
		}
		var level []string
		for _, m := range methods {
			sig := m.Signature()
			if claimed[sig] {
				continue
			}
			for _, marker := range b.session.MarkersOn(m) {
				if b.session.IsHTTPVerbMarker(marker) {
					b.put(r, chain, verbMethod{verb: marker, method: m})
					level = append(level, sig)
				}
			}
		}
		for _, sig := range level {
			claimed[sig] = true
		}
	}
}

func (b *Builder) put(r *router.Router, chain []*models.ControllerType, vm verbMethod) {
	key := r.Target().Key() + "|" + vm.verb.Identifier + "|" + vm.method.Owner.Key() + "|" + vm.method.Signature()
	if b.expanded[key] {
		return
	}
	b.expanded[key] = true

	paths := session.ComposePath(b.prefixes(chain), b.methodPaths(vm))
	r.Put(vm.verb, vm.method, paths)
	b.session.Debug("%s %v -> %s", vm.verb.Identifier, paths, vm.method.ElementName(), vm.method)
}

// prefixes come from the nearest type in the chain with a path marker
func (b *Builder) prefixes(chain []*models.ControllerType) []string {
	for _, t := range chain {
		var out []string
		for _, m := range b.session.MarkersOn(t) {
			if m.Category == annotations.Path {
				out = append(out, annotations.AttributeValues(m, annotations.ValueAttribute)...)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return nil
}

// methodPaths are the verb marker values, or the method's path markers
func (b *Builder) methodPaths(vm verbMethod) []string {
	if paths := annotations.AttributeValues(vm.verb, annotations.ValueAttribute); len(paths) > 0 {
		return paths
	}
	var out []string
	for _, m := range b.session.MarkersOn(vm.method) {
		if m.Category == annotations.Path {
			out = append(out, annotations.AttributeValues(m, annotations.ValueAttribute)...)
		}
	}
	return out
}

func (b *Builder) emit() {
	var identifiers []string
	for _, r := range b.Routers() {
		if r.IsAbstract() {
			continue
		}
		if r.IsEmpty() {
			b.session.Warning("controller %s declares no routes", r.Target().ElementName(), r.Target())
			continue
		}
		r.AssignNames()
		file, err := b.output.WriteRouter(r)
		if err != nil {
			b.session.Report(errors.NewCodeGenError(r.Identifier(), err), r.Target())
			continue
		}
		identifiers = append(identifiers, r.Identifier())
		b.stats.Routers++
		b.stats.Routes += len(r.Emittable())
		b.stats.Files = append(b.stats.Files, file)
		b.session.Info("generated %s", file, r.Target())
	}

	if !b.session.Options().Services {
		return
	}
	if err := b.output.WriteManifest(identifiers); err != nil {
		b.session.Report(errors.NewCodeGenError("service manifest", err), nil)
	}
}
