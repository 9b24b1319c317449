// Package generator runs a complete build: it loads the packages, feeds
// the host rounds to the registry builder and writes the generated files.
package generator

import (
	"context"
	"path/filepath"
	"sort"

	"go.uber.org/zap"

	"github.com/toyz/mvcgen/internal/binder"
	"github.com/toyz/mvcgen/internal/diagnostic"
	"github.com/toyz/mvcgen/internal/parser"
	"github.com/toyz/mvcgen/internal/registry"
	"github.com/toyz/mvcgen/internal/session"
	"github.com/toyz/mvcgen/internal/utils"
)

// Options configures one build
type Options struct {
	Dir          string   // directory patterns are resolved against
	Patterns     []string // package patterns, ./... when empty
	Tags         []string
	ManifestPath string // relative paths are resolved against Dir
	Session      session.Options
	Prune        bool // remove generated files no controller produces anymore
}

// Result describes a finished build
type Result struct {
	Packages    int
	Stats       registry.Stats
	Removed     []string
	Diagnostics []diagnostic.Diagnostic
	Summary     string
}

// Generator runs builds
type Generator struct {
	loader func(dir string, opts Options) parser.PackageLoader
	binder *binder.Binder
	logger *zap.Logger
}

// New creates a generator logging build events to logger
func New(logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{
		loader: defaultLoader,
		binder: binder.New(),
		logger: logger,
	}
}

func defaultLoader(dir string, opts Options) parser.PackageLoader {
	l := parser.NewLoader(dir, opts.Session.Incremental)
	l.Tags = opts.Tags
	return l
}

// Binder exposes the parameter binder so callers can register builders
func (g *Generator) Binder() *binder.Binder {
	return g.binder
}

// Run performs one build. A failure to load the packages returns no result;
// otherwise the result is always returned, along with the joined error
// diagnostics of the build.
func (g *Generator) Run(ctx context.Context, opts Options) (*Result, error) {
	graph, err := g.loader(opts.Dir, opts).Load(ctx, opts.Patterns...)
	if err != nil {
		return nil, err
	}

	s := session.New(graph, opts.Session, g.logger)
	for _, e := range graph.Errors() {
		s.Report(e, nil)
	}

	out := NewFileOutput(manifestPath(opts))
	b := registry.NewBuilder(s, g.binder, out)
	runErr := b.Run(graph)

	result := &Result{
		Packages: len(graph.Packages()),
		Stats:    b.Stats(),
	}
	if runErr == nil && opts.Prune {
		removed, err := prune(packageDirs(graph), out)
		result.Removed = removed
		if err != nil {
			s.Report(err, nil)
			runErr = s.Err()
		}
	}
	result.Diagnostics = s.Diagnostics()
	result.Summary = s.Collector().Summary()
	return result, runErr
}

func manifestPath(opts Options) string {
	path := opts.ManifestPath
	if path == "" {
		path = DefaultManifestFile
	}
	if filepath.IsAbs(path) || opts.Dir == "" {
		return path
	}
	return filepath.Join(opts.Dir, path)
}

func packageDirs(graph *parser.Graph) []string {
	seen := make(map[string]bool)
	var dirs []string
	for _, pkg := range graph.Packages() {
		for _, f := range pkg.GoFiles {
			dir := filepath.Dir(f)
			if !seen[dir] {
				seen[dir] = true
				dirs = append(dirs, dir)
			}
		}
	}
	sort.Strings(dirs)
	return dirs
}

// prune removes generated router files of the loaded packages that this
// build did not write
func prune(dirs []string, out *FileOutput) ([]string, error) {
	files, err := utils.FindFiles(dirs, utils.GeneratedFileFilter(parser.IsGeneratedFile))
	if err != nil {
		return nil, err
	}
	var stale []string
	for _, f := range files {
		if !out.Written(f) {
			stale = append(stale, f)
		}
	}
	return utils.RemoveFiles(stale)
}
