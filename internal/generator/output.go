package generator

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/toyz/mvcgen/internal/router"
	"github.com/toyz/mvcgen/internal/templates"
	"github.com/toyz/mvcgen/internal/utils"
)

// DefaultManifestFile is where the service manifest goes when no path is set
const DefaultManifestFile = "mvc.services"

// FileOutput writes generated routers next to their controllers and the
// service manifest to ManifestPath
type FileOutput struct {
	ManifestPath string

	written map[string]bool
}

// NewFileOutput creates an output writing the manifest to manifestPath
func NewFileOutput(manifestPath string) *FileOutput {
	return &FileOutput{
		ManifestPath: manifestPath,
		written:      make(map[string]bool),
	}
}

// WriteRouter renders, formats and writes the router file
func (o *FileOutput) WriteRouter(r *router.Router) (string, error) {
	dir := r.Target().Dir
	if dir == "" {
		return "", fmt.Errorf("no source directory known for %s", r.Target().ElementName())
	}

	code, err := r.ToSourceCode()
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, r.FileName())
	if err := utils.WriteGoFile(path, code); err != nil {
		return "", err
	}

	o.written[path] = true
	return path, nil
}

// WriteManifest writes one router identifier per line
func (o *FileOutput) WriteManifest(identifiers []string) error {
	path := o.ManifestPath
	if path == "" {
		path = DefaultManifestFile
	}

	data, err := templates.RenderManifest(identifiers)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	return utils.WriteFileAtomic(path, data)
}

// Written reports whether path was produced by this output
func (o *FileOutput) Written(path string) bool {
	return o.written[path]
}
