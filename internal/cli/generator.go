package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/toyz/mvcgen/internal/generator"
	"github.com/toyz/mvcgen/internal/utils"
)

// Generator coordinates the CLI generation process
type Generator struct {
	dir         string
	resolver    *ModuleResolver
	reporter    *DiagnosticReporter
	diagnostics *utils.DiagnosticSystem
	build       *generator.Generator
}

// NewGenerator creates a CLI generator running in dir
func NewGenerator(dir string, cfg *Config, diagnostics *utils.DiagnosticSystem) (*Generator, error) {
	logger, err := utils.NewLogger(diagnostics.Level())
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return &Generator{
		dir:         dir,
		resolver:    NewModuleResolver(),
		reporter:    NewDiagnosticReporter(diagnostics, cfg.Verbose || cfg.Debug),
		diagnostics: diagnostics,
		build:       generator.New(logger),
	}, nil
}

// Reporter returns the reporter used for diagnostics
func (g *Generator) Reporter() *DiagnosticReporter {
	return g.reporter
}

// Run executes one complete build and reports its outcome. The returned
// error is what the command exits with; diagnostics were already printed.
func (g *Generator) Run(ctx context.Context, cfg *Config) (*generator.Result, error) {
	start := time.Now()
	g.diagnostics.Debug("patterns: %v", cfg.Patterns())

	module, err := g.resolver.Resolve(g.dir, cfg.Module)
	if err != nil {
		g.reporter.ReportError(err)
		return nil, err
	}
	g.diagnostics.Verbose("module %s at %s", module.Path, module.Root)

	manifest := cfg.ServicesFile
	if !filepath.IsAbs(manifest) {
		manifest = filepath.Join(module.Root, manifest)
	}

	result, err := g.build.Run(ctx, generator.Options{
		Dir:          g.dir,
		Patterns:     cfg.Patterns(),
		Tags:         cfg.Tags,
		ManifestPath: manifest,
		Session:      cfg.SessionOptions(),
		Prune:        cfg.Prune,
	})
	if result == nil {
		g.reporter.ReportError(err)
		return nil, err
	}

	g.reporter.ReportDiagnostics(result.Diagnostics)
	g.reporter.ReportSummary(module, result)
	g.diagnostics.Verbose("build took %s", time.Since(start).Round(time.Millisecond))
	if err != nil {
		return result, fmt.Errorf("generation failed: %s", result.Summary)
	}
	g.diagnostics.GenerationComplete()
	return result, nil
}
