package cli

import (
	"fmt"

	"github.com/toyz/mvcgen/internal/errors"
	"github.com/toyz/mvcgen/internal/utils"
)

// ModuleInfo describes the module a build runs in
type ModuleInfo struct {
	Path string // module path
	Root string // directory holding go.mod
}

// ModuleResolver handles resolving Go module information
type ModuleResolver struct {
	parser *utils.GoModParser
}

// NewModuleResolver creates a new module resolver
func NewModuleResolver() *ModuleResolver {
	return &ModuleResolver{parser: utils.NewGoModParser()}
}

// Resolve finds the module governing dir. A non-empty customModule must
// match the module path declared in go.mod.
func (r *ModuleResolver) Resolve(dir, customModule string) (*ModuleInfo, error) {
	goMod, err := r.parser.FindGoModFile(dir)
	if err != nil {
		return nil, errors.WrapConfigurationError("go.mod", "locate", err).
			WithSuggestion("run mvcgen inside a Go module or create one with go mod init")
	}

	path, err := r.parser.ParseModuleName(goMod)
	if err != nil {
		return nil, errors.WrapConfigurationError(goMod, "parse", err)
	}

	if customModule != "" && customModule != path {
		return nil, errors.WrapConfigurationError("module", "match",
			fmt.Errorf("--module %s does not match %s declared in %s", customModule, path, goMod)).
			WithSuggestion("drop --module or set it to " + path)
	}

	root, err := r.parser.ModuleRoot(dir)
	if err != nil {
		return nil, errors.WrapConfigurationError("go.mod", "locate", err)
	}
	return &ModuleInfo{Path: path, Root: root}, nil
}

// BuildPackagePath builds the full import path for a package directory
func (r *ModuleResolver) BuildPackagePath(info *ModuleInfo, packageDir string) (string, error) {
	return utils.ImportPath(info.Path, info.Root, packageDir)
}
