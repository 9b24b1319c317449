package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/toyz/mvcgen/internal/cli"
)

func cleanCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "clean [packages...]",
		Args:  cobra.ArbitraryArgs,
		Short: "Delete generated router files and the service manifest",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := load(cmd, opts, args)
			if err != nil {
				return err
			}
			reporter := cli.NewDiagnosticReporter(s.diagnostics, s.cfg.Verbose)

			manifest := ""
			if module, err := cli.NewModuleResolver().Resolve(s.dir, s.cfg.Module); err == nil {
				manifest = s.cfg.ServicesFile
				if !filepath.IsAbs(manifest) {
					manifest = filepath.Join(module.Root, manifest)
				}
			} else {
				s.diagnostics.Debug("no module, keeping the service manifest: %v", err)
			}

			removed, err := cli.NewCleaner().CleanGeneratedFiles(s.cfg.Patterns(), manifest)
			reporter.ReportCleaned(removed)
			if err != nil {
				reporter.ReportError(err)
				return &reportedError{err: err}
			}
			return nil
		},
	}
}
