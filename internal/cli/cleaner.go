package cli

import (
	"os"

	"github.com/toyz/mvcgen/internal/errors"
	"github.com/toyz/mvcgen/internal/utils"
)

// Cleaner handles cleaning up generated files
type Cleaner struct {
	scanner *DirectoryScanner
}

// NewCleaner creates a new cleaner
func NewCleaner() *Cleaner {
	return &Cleaner{
		scanner: NewDirectoryScanner(),
	}
}

// CleanGeneratedFiles removes every generated router file matched by
// patterns and, when manifest is not empty, the service manifest. It
// returns the removed paths.
func (c *Cleaner) CleanGeneratedFiles(patterns []string, manifest string) ([]string, error) {
	files, err := c.scanner.GeneratedFiles(patterns)
	if err != nil {
		return nil, errors.WrapFileSystemError("scan", "generated files", err)
	}
	if manifest != "" {
		if _, err := os.Stat(manifest); err == nil {
			files = append(files, manifest)
		}
	}

	removed, err := utils.RemoveFiles(files)
	if err != nil {
		return removed, errors.WrapFileSystemError("remove", "generated files", err)
	}
	return removed, nil
}
