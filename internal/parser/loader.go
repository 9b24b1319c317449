package parser

import (
	"context"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/multierr"
	"golang.org/x/tools/go/packages"

	"github.com/toyz/mvcgen/internal/errors"
)

// Loader loads packages with go/packages
type Loader struct {
	Dir         string   // working directory patterns are resolved against
	Tags        []string // build tags
	LoadDeps    bool     // also read markers from packages outside the patterns
	Incremental bool     // one round per package
}

// NewLoader creates a loader rooted at dir
func NewLoader(dir string, incremental bool) *Loader {
	return &Loader{Dir: dir, Incremental: incremental}
}

// Load loads the packages matching patterns. Errors located in generated
// router files are ignored so stale output never blocks regeneration.
func (l *Loader) Load(ctx context.Context, patterns ...string) (*Graph, error) {
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}

	mode := LoadMode
	if l.LoadDeps {
		mode |= packages.NeedDeps
	}
	cfg := &packages.Config{
		Context: ctx,
		Mode:    mode,
		Dir:     l.Dir,
	}
	if len(l.Tags) > 0 {
		cfg.BuildFlags = []string{"-tags=" + strings.Join(l.Tags, ",")}
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, errors.NewDiscoveryError("", "failed to load packages "+strings.Join(patterns, " "), err)
	}

	var loadErr error
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			if isGeneratedError(e) {
				continue
			}
			loadErr = multierr.Append(loadErr, errors.NewDiscoveryError(pkg.PkgPath, "package does not load", e))
		}
	}
	if loadErr != nil {
		return nil, loadErr
	}
	if len(pkgs) == 0 {
		return nil, errors.NewDiscoveryError("", "no packages match "+strings.Join(patterns, " "), nil).
			WithSuggestion("run mvcgen from inside a Go module or pass package patterns such as ./...")
	}

	return NewGraph(orderRoots(pkgs), l.Incremental), nil
}

// orderRoots returns the root packages in dependency order, dependencies
// first, ties broken by import path.
func orderRoots(roots []*packages.Package) []*packages.Package {
	isRoot := make(map[*packages.Package]bool, len(roots))
	for _, p := range roots {
		isRoot[p] = true
	}
	sorted := append([]*packages.Package(nil), roots...)
	sortPackages(sorted)

	var ordered []*packages.Package
	packages.Visit(sorted, nil, func(p *packages.Package) {
		if isRoot[p] {
			ordered = append(ordered, p)
		}
	})
	return ordered
}

func sortPackages(pkgs []*packages.Package) {
	sort.Slice(pkgs, func(i, j int) bool { return pkgs[i].PkgPath < pkgs[j].PkgPath })
}

// isGeneratedError reports whether every position of a load error points
// into a generated router file. Compile errors reported by the go command
// carry "-" as position and list the real ones in the message.
func isGeneratedError(e packages.Error) bool {
	if e.Pos != "" && e.Pos != "-" {
		return isGeneratedPosition(e.Pos)
	}
	found := false
	for _, line := range strings.Split(e.Msg, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || line == "too many errors" {
			continue
		}
		pos, _, ok := strings.Cut(line, ": ")
		if !ok || !isGeneratedPosition(pos) {
			return false
		}
		found = true
	}
	return found
}

// isGeneratedPosition reports whether a "file:line:col" position points
// into a generated router file
func isGeneratedPosition(pos string) bool {
	file := pos
	for range 2 {
		i := strings.LastIndexByte(file, ':')
		if i < 0 {
			break
		}
		if _, err := strconv.Atoi(file[i+1:]); err != nil {
			break
		}
		file = file[:i]
	}
	return IsGeneratedFile(file)
}

// IsGeneratedFile reports whether path names a generated router file
func IsGeneratedFile(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, GeneratedFilePrefix) && strings.HasSuffix(base, GeneratedFileSuffix)
}
