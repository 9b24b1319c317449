package utils

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/tools/imports"
)

// FormatGoSource formats generated code and fixes its import block the way
// goimports does. filename is used only to resolve the package context.
func FormatGoSource(filename string, source []byte) ([]byte, error) {
	formatted, err := imports.Process(filename, source, &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to format %s: %w", filepath.Base(filename), err)
	}
	return formatted, nil
}

// WriteGoFile formats source and writes it to filename. The file is written
// through a temporary sibling and renamed so a failed run never leaves a
// truncated file behind. Unformattable source is not written.
func WriteGoFile(filename string, source []byte) error {
	formatted, err := FormatGoSource(filename, source)
	if err != nil {
		return err
	}
	return WriteFileAtomic(filename, formatted)
}

// WriteFileAtomic writes data through a temporary file in the same directory
func WriteFileAtomic(filename string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(filename), "."+filepath.Base(filename)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file for %s: %w", filename, err)
	}
	name := tmp.Name()
	defer os.Remove(name)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}
	if err := os.Chmod(name, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}
	if err := os.Rename(name, filename); err != nil {
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}
	return nil
}
