package templates

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ImportManager assigns a local name to every package a generated file
// references and renders the import block.
type ImportManager struct {
	self  string            // import path of the file's own package
	names map[string]string // path -> local name
	taken map[string]string // local name -> path
}

// NewImportManager creates an import manager for a file in package self
func NewImportManager(self string) *ImportManager {
	return &ImportManager{
		self:  self,
		names: make(map[string]string),
		taken: make(map[string]string),
	}
}

// Qualify returns the identifier used to reference path, registering the
// import on first use. It returns "" for the file's own package.
func (im *ImportManager) Qualify(path, name string) string {
	if path == "" || path == im.self {
		return ""
	}
	if existing, ok := im.names[path]; ok {
		return existing
	}
	if name == "" {
		name = defaultName(path)
	}
	candidate := name
	for i := 2; ; i++ {
		if _, clash := im.taken[candidate]; !clash {
			break
		}
		candidate = name + strconv.Itoa(i)
	}
	im.names[path] = candidate
	im.taken[candidate] = path
	return candidate
}

// Paths returns the registered import paths, sorted
func (im *ImportManager) Paths() []string {
	paths := make([]string, 0, len(im.names))
	for path := range im.names {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// GenerateImports renders the import block: standard library first, then
// everything else, each group sorted.
func (im *ImportManager) GenerateImports() string {
	if len(im.names) == 0 {
		return ""
	}

	var std, external []string
	for _, path := range im.Paths() {
		spec := strconv.Quote(path)
		if im.names[path] != defaultName(path) {
			spec = im.names[path] + " " + spec
		}
		if isStandard(path) {
			std = append(std, spec)
		} else {
			external = append(external, spec)
		}
	}

	var result strings.Builder
	result.WriteString("import (\n")
	for _, spec := range std {
		result.WriteString(fmt.Sprintf("\t%s\n", spec))
	}
	if len(std) > 0 && len(external) > 0 {
		result.WriteString("\n")
	}
	for _, spec := range external {
		result.WriteString(fmt.Sprintf("\t%s\n", spec))
	}
	result.WriteString(")\n")
	return result.String()
}

func defaultName(path string) string {
	name := path
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		name = name[i+1:]
	}
	// major version suffixes are not part of the package name
	if len(name) > 1 && name[0] == 'v' && strings.Trim(name[1:], "0123456789") == "" {
		trimmed := strings.TrimSuffix(path, "/"+name)
		if i := strings.LastIndexByte(trimmed, '/'); i >= 0 {
			name = trimmed[i+1:]
		} else {
			name = trimmed
		}
	}
	name = strings.TrimPrefix(name, "go-")
	return strings.Map(func(r rune) rune {
		if r == '-' || r == '.' {
			return '_'
		}
		return r
	}, name)
}

func isStandard(path string) bool {
	first := path
	if i := strings.IndexByte(path, '/'); i >= 0 {
		first = path[:i]
	}
	return !strings.Contains(first, ".")
}
