// Package session holds the state shared by one build: flags, the round
// counter, the diagnostics sink and the type graph queries every other
// component needs.
package session

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/toyz/mvcgen/internal/annotations"
	"github.com/toyz/mvcgen/internal/diagnostic"
	"github.com/toyz/mvcgen/internal/errors"
	"github.com/toyz/mvcgen/internal/models"
)

// Options are the build flags
type Options struct {
	Debug       bool // log build events at debug level
	Incremental bool // the host delivers one round per package
	Services    bool // write the service manifest
	Strict      bool // warnings fail the build
}

// Session is the per-build context
type Session struct {
	opts   Options
	graph  models.TypeGraph
	diags  *diagnostic.Collector
	logger *zap.Logger
	round  int
	supers map[string][]*models.ControllerType
}

// New creates a session over graph. A nil logger discards build events.
func New(graph models.TypeGraph, opts Options, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		opts:   opts,
		graph:  graph,
		diags:  diagnostic.NewCollector(opts.Strict, false),
		logger: logger,
		supers: make(map[string][]*models.ControllerType),
	}
}

// Options returns the build flags
func (s *Session) Options() Options {
	return s.opts
}

// Graph returns the host type graph
func (s *Session) Graph() models.TypeGraph {
	return s.graph
}

// Logger returns the build event logger
func (s *Session) Logger() *zap.Logger {
	return s.logger
}

// NextRound advances the round counter and returns the new round number
func (s *Session) NextRound() int {
	s.round++
	s.logger.Debug("round started", zap.Int("round", s.round))
	return s.round
}

// Round returns the current round number, starting at 1
func (s *Session) Round() int {
	return s.round
}

// MarkersOn returns the markers the host attached to e
func (s *Session) MarkersOn(e models.Element) []annotations.Marker {
	return s.graph.MarkersOn(e)
}

// IsHTTPVerbMarker reports whether m is one of the HTTP verb markers
func (s *Session) IsHTTPVerbMarker(m annotations.Marker) bool {
	return m.Category == annotations.HTTPVerb
}

// SuperTypes returns t followed by its ancestors, nearest first. The walk
// stops when a type has no supertype, when it would revisit a type, or when
// the host fails; the failure is reported once as a DiscoveryError.
func (s *Session) SuperTypes(t *models.ControllerType) []*models.ControllerType {
	if cached, ok := s.supers[t.Key()]; ok {
		return cached
	}

	chain := []*models.ControllerType{t}
	seen := map[string]bool{t.Key(): true}
	for current := t; ; {
		parent, err := s.graph.DirectSupertype(current)
		if err != nil {
			if errors.CodeOf(err) == errors.UnknownErrorCode {
				err = errors.NewDiscoveryError(current.ElementName(), "cannot resolve supertype", err)
			}
			s.Report(err, current)
			break
		}
		if parent == nil || seen[parent.Key()] {
			break
		}
		seen[parent.Key()] = true
		chain = append(chain, parent)
		current = parent
	}

	s.supers[t.Key()] = chain
	return chain
}

// ComposePath joins every prefix with every method path. A missing prefix
// list behaves as ["/"] and an empty method path list keeps the prefixes.
// Duplicates are dropped, first occurrence wins.
func ComposePath(prefixes, methodPaths []string) []string {
	if len(prefixes) == 0 {
		prefixes = []string{"/"}
	}
	if len(methodPaths) == 0 {
		return dedupe(prefixes)
	}
	out := make([]string, 0, len(prefixes)*len(methodPaths))
	for _, prefix := range prefixes {
		for _, path := range methodPaths {
			out = append(out, joinPath(prefix, path))
		}
	}
	return dedupe(out)
}

func joinPath(prefix, path string) string {
	prefix = strings.TrimRight(prefix, "/")
	path = strings.Trim(path, "/")
	switch {
	case path == "" && prefix == "":
		return "/"
	case path == "":
		return ensureLeadingSlash(prefix)
	default:
		return ensureLeadingSlash(prefix + "/" + path)
	}
}

func ensureLeadingSlash(p string) string {
	if strings.HasPrefix(p, "/") {
		return p
	}
	return "/" + p
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

// Debug logs a build event. A trailing models.Element argument anchors the
// message instead of being formatted.
func (s *Session) Debug(format string, args ...any) {
	if !s.opts.Debug {
		return
	}
	msg, anchor := split(format, args)
	s.logger.Debug(msg, anchorFields(anchor)...)
}

// Info logs a build event, anchored like Debug
func (s *Session) Info(format string, args ...any) {
	msg, anchor := split(format, args)
	s.logger.Info(msg, anchorFields(anchor)...)
}

// Warning records a warning diagnostic, anchored like Debug
func (s *Session) Warning(format string, args ...any) {
	msg, anchor := split(format, args)
	s.diags.Add(diagnostic.Diagnostic{
		Severity: s.warnSeverity(),
		Location: locationOf(anchor),
		Element:  nameOf(anchor),
		Message:  msg,
	})
	s.logger.Warn(msg, anchorFields(anchor)...)
}

// Error records an error diagnostic, anchored like Debug
func (s *Session) Error(format string, args ...any) {
	msg, anchor := split(format, args)
	s.diags.Add(diagnostic.Diagnostic{
		Severity: diagnostic.SeverityError,
		Location: locationOf(anchor),
		Element:  nameOf(anchor),
		Message:  msg,
	})
	s.logger.Error(msg, anchorFields(anchor)...)
}

// Report records err as an error diagnostic anchored at anchor. Taxonomy
// errors keep their code and location.
func (s *Session) Report(err error, anchor models.Element) {
	if err == nil {
		return
	}
	s.diags.AddError(err, locationOf(anchor), nameOf(anchor))
	s.logger.Error(err.Error(), append(anchorFields(anchor), zap.String("code", errors.CodeOf(err).String()))...)
}

func (s *Session) warnSeverity() diagnostic.Severity {
	if s.opts.Strict {
		return diagnostic.SeverityError
	}
	return diagnostic.SeverityWarning
}

// Diagnostics returns everything reported so far
func (s *Session) Diagnostics() []diagnostic.Diagnostic {
	return s.diags.Diagnostics()
}

// Collector exposes the diagnostics sink
func (s *Session) Collector() *diagnostic.Collector {
	return s.diags
}

// HasErrors reports whether any error diagnostic was recorded
func (s *Session) HasErrors() bool {
	return s.diags.HasErrors()
}

// Err joins all error diagnostics
func (s *Session) Err() error {
	return s.diags.Err()
}

func split(format string, args []any) (string, models.Element) {
	var anchor models.Element
	if n := len(args); n > 0 {
		if e, ok := args[n-1].(models.Element); ok {
			anchor = e
			args = args[:n-1]
		}
	}
	if len(args) == 0 {
		return format, anchor
	}
	return fmt.Sprintf(format, args...), anchor
}

func locationOf(e models.Element) errors.SourceLocation {
	if e == nil {
		return errors.SourceLocation{}
	}
	return e.Location()
}

func nameOf(e models.Element) string {
	if e == nil {
		return ""
	}
	return e.ElementName()
}

func anchorFields(e models.Element) []zap.Field {
	if e == nil {
		return nil
	}
	return []zap.Field{
		zap.String("element", e.ElementName()),
		zap.Stringer("location", e.Location()),
	}
}
