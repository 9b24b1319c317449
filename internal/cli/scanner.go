package cli

import (
	"github.com/toyz/mvcgen/internal/parser"
	"github.com/toyz/mvcgen/internal/utils"
)

// DirectoryScanner expands package patterns into source directories
type DirectoryScanner struct{}

// NewDirectoryScanner creates a new directory scanner
func NewDirectoryScanner() *DirectoryScanner {
	return &DirectoryScanner{}
}

// ScanDirectories returns the directories matched by patterns that hold at
// least one non-generated, non-test Go file. Supports Go-style patterns
// like "./..." for recursive scanning.
func (s *DirectoryScanner) ScanDirectories(patterns []string) ([]string, error) {
	return utils.ScanPackageDirs(patterns, utils.SourceFileFilter(parser.IsGeneratedFile))
}

// GeneratedFiles returns the generated router files matched by patterns
func (s *DirectoryScanner) GeneratedFiles(patterns []string) ([]string, error) {
	return utils.FindFiles(patterns, utils.GeneratedFileFilter(parser.IsGeneratedFile))
}
