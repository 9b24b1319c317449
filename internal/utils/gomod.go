package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/mod/modfile"
)

// GoModParser provides utilities for parsing go.mod files
type GoModParser struct {
	cache map[string]string
}

// NewGoModParser creates a go.mod parser that remembers parsed module names
func NewGoModParser() *GoModParser {
	return &GoModParser{cache: make(map[string]string)}
}

// ParseModuleName extracts the module path from a go.mod file
func (p *GoModParser) ParseModuleName(goModPath string) (string, error) {
	cleanPath := filepath.Clean(goModPath)
	if filepath.Base(cleanPath) != "go.mod" {
		return "", fmt.Errorf("file is not a go.mod file: %s", goModPath)
	}
	if name, ok := p.cache[cleanPath]; ok {
		return name, nil
	}

	content, err := os.ReadFile(cleanPath)
	if err != nil {
		return "", fmt.Errorf("failed to read go.mod file: %w", err)
	}
	path := modfile.ModulePath(content)
	if path == "" {
		if _, err := modfile.ParseLax(cleanPath, content, nil); err != nil {
			return "", fmt.Errorf("failed to parse go.mod file: %w", err)
		}
		return "", fmt.Errorf("no module declaration found in %s", cleanPath)
	}

	p.cache[cleanPath] = path
	return path, nil
}

// FindGoModFile searches for go.mod starting at startDir and walking up
func (p *GoModParser) FindGoModFile(startDir string) (string, error) {
	currentDir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", startDir, err)
	}

	for {
		goModPath := filepath.Join(currentDir, "go.mod")
		if info, err := os.Stat(goModPath); err == nil && !info.IsDir() {
			return goModPath, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			break
		}
		currentDir = parentDir
	}

	return "", fmt.Errorf("go.mod file not found above %s", startDir)
}

// ModuleRoot returns the directory holding the go.mod that governs dir
func (p *GoModParser) ModuleRoot(dir string) (string, error) {
	goMod, err := p.FindGoModFile(dir)
	if err != nil {
		return "", err
	}
	return filepath.Dir(goMod), nil
}

// ImportPath builds the import path of the package in dir, which must live
// inside the module rooted at moduleRoot
func ImportPath(modulePath, moduleRoot, dir string) (string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve package directory: %w", err)
	}
	rel, err := filepath.Rel(moduleRoot, absDir)
	if err != nil {
		return "", fmt.Errorf("failed to calculate relative path: %w", err)
	}
	rel = filepath.ToSlash(rel)
	if rel == "." {
		return modulePath, nil
	}
	if strings.HasPrefix(rel, "../") || rel == ".." {
		return "", fmt.Errorf("%s is outside the module rooted at %s", dir, moduleRoot)
	}
	return modulePath + "/" + rel, nil
}
