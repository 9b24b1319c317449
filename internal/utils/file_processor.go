package utils

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FileFilter decides whether a file is collected
type FileFilter func(path string, info os.DirEntry) bool

// DirectoryFilter decides whether a directory is descended into
type DirectoryFilter func(path string, info os.DirEntry) bool

// FileWalkOptions configures file walking behavior
type FileWalkOptions struct {
	FileFilter      FileFilter
	DirectoryFilter DirectoryFilter
	Recursive       bool
	SkipErrors      bool
}

// SourceFileFilter accepts .go files that are neither tests nor matched by
// generated
func SourceFileFilter(generated func(string) bool) FileFilter {
	return func(path string, info os.DirEntry) bool {
		if info.IsDir() {
			return false
		}
		name := info.Name()
		return strings.HasSuffix(name, ".go") &&
			!strings.HasSuffix(name, "_test.go") &&
			!generated(path)
	}
}

// GeneratedFileFilter accepts the files matched by generated
func GeneratedFileFilter(generated func(string) bool) FileFilter {
	return func(path string, info os.DirEntry) bool {
		return !info.IsDir() && generated(path)
	}
}

// DefaultDirectoryFilter skips directories that never hold package sources
func DefaultDirectoryFilter() DirectoryFilter {
	skipDirs := map[string]bool{
		"vendor":       true,
		"node_modules": true,
		"testdata":     true,
	}

	return func(path string, info os.DirEntry) bool {
		name := info.Name()
		if strings.HasPrefix(name, ".") && name != "." && name != ".." {
			return false
		}
		if strings.HasPrefix(name, "_") {
			return false
		}
		return !skipDirs[name]
	}
}

// SplitPattern turns a package pattern into a directory and whether it
// recurses: "./..." -> (".", true), "./api" -> ("./api", false)
func SplitPattern(pattern string) (string, bool) {
	if pattern == "..." {
		return ".", true
	}
	if base, ok := strings.CutSuffix(pattern, "/..."); ok {
		if base == "" {
			base = "."
		}
		return base, true
	}
	return pattern, false
}

// WalkFiles collects the files under rootDir accepted by the filters. The
// root itself is never rejected by the directory filter.
func WalkFiles(rootDir string, options FileWalkOptions) ([]string, error) {
	var matched []string

	err := filepath.WalkDir(rootDir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			if options.SkipErrors {
				return nil
			}
			return err
		}

		if entry.IsDir() {
			if path == rootDir {
				return nil
			}
			if !options.Recursive {
				return filepath.SkipDir
			}
			if options.DirectoryFilter != nil && !options.DirectoryFilter(path, entry) {
				return filepath.SkipDir
			}
			return nil
		}

		if options.FileFilter == nil || options.FileFilter(path, entry) {
			matched = append(matched, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", rootDir, err)
	}

	sort.Strings(matched)
	return matched, nil
}

// FindFiles expands package patterns and collects the matching files
func FindFiles(patterns []string, filter FileFilter) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	for _, pattern := range patterns {
		dir, recursive := SplitPattern(pattern)
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			continue
		}
		matched, err := WalkFiles(dir, FileWalkOptions{
			FileFilter:      filter,
			DirectoryFilter: DefaultDirectoryFilter(),
			Recursive:       recursive,
		})
		if err != nil {
			return nil, err
		}
		for _, f := range matched {
			if !seen[f] {
				seen[f] = true
				files = append(files, f)
			}
		}
	}
	return files, nil
}

// ScanPackageDirs expands package patterns into the directories that hold at
// least one file accepted by filter
func ScanPackageDirs(patterns []string, filter FileFilter) ([]string, error) {
	files, err := FindFiles(patterns, filter)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var dirs []string
	for _, f := range files {
		dir := filepath.Dir(f)
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}
	sort.Strings(dirs)
	return dirs, nil
}

// RemoveFiles deletes every file in paths and returns the ones removed.
// Files that vanished in the meantime are ignored.
func RemoveFiles(paths []string) ([]string, error) {
	var removed []string
	for _, path := range paths {
		if err := os.Remove(path); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return removed, fmt.Errorf("failed to remove %s: %w", path, err)
		}
		removed = append(removed, path)
	}
	return removed, nil
}
