package main

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/toyz/mvcgen/internal/cli"
)

func watchCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "watch [packages...]",
		Args:  cobra.ArbitraryArgs,
		Short: "Regenerate routers whenever a source file changes",
		Long: `watch runs a full build, then rebuilds after every change to a
hand-written Go file under the given packages. Changes arriving within
--watch-debounce of each other trigger a single build. Stop with Ctrl+C.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := load(cmd, opts, args)
			if err != nil {
				return err
			}
			gen, err := cli.NewGenerator(s.dir, s.cfg, s.diagnostics)
			if err != nil {
				return err
			}

			watcher := cli.NewWatcher(s.cfg.WatchDebounce, s.diagnostics, func(ctx context.Context) error {
				_, err := gen.Run(ctx, s.cfg)
				return err
			})
			s.diagnostics.Header("watching " + strings.Join(s.cfg.Patterns(), " "))
			if err := watcher.Watch(cmd.Context(), s.cfg.Patterns()); err != nil {
				gen.Reporter().ReportError(err)
				return &reportedError{err: err}
			}
			return nil
		},
	}
}
