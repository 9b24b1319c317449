package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/toyz/mvcgen/internal/cli"
)

func runGenerate(cmd *cobra.Command, opts *options, args []string) error {
	s, err := load(cmd, opts, args)
	if err != nil {
		return err
	}

	s.diagnostics.Header("generating routers for " + strings.Join(s.cfg.Patterns(), " "))
	gen, err := cli.NewGenerator(s.dir, s.cfg, s.diagnostics)
	if err != nil {
		return err
	}
	if _, err := gen.Run(cmd.Context(), s.cfg); err != nil {
		return &reportedError{err: err}
	}
	return nil
}
