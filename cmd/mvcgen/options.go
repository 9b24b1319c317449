package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/toyz/mvcgen/internal/cli"
	"github.com/toyz/mvcgen/internal/utils"
)

// options holds the flags that are not settings
type options struct {
	configFile string
}

// flagKeys maps persistent flag names to their config keys
var flagKeys = map[string]string{
	"module":         "module",
	"verbose":        "verbose",
	"quiet":          "quiet",
	"debug":          "debug",
	"incremental":    "incremental",
	"services":       "services",
	"services-file":  "services_file",
	"strict":         "strict",
	"prune":          "prune",
	"tags":           "tags",
	"watch-debounce": "watch_debounce",
}

func addFlags(cmd *cobra.Command, opts *options) {
	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "Config file (default ./mvcgen.{yaml,json,toml})")
	flags.String("module", "", "Module path for imports (defaults to the go.mod module)")
	flags.BoolP("verbose", "v", false, "Verbose output and detailed error reporting")
	flags.BoolP("quiet", "q", false, "Only show errors")
	flags.Bool("debug", false, "Debug output, including per-round build traces")
	flags.Bool("incremental", false, "Process one package per round")
	flags.Bool("services", false, "Write the router service manifest")
	flags.String("services-file", cli.Defaults["services_file"].(string), "Service manifest path, relative to the module root")
	flags.Bool("strict", false, "Treat warnings as errors")
	flags.Bool("prune", false, "Remove generated routers no controller produces anymore")
	flags.StringSlice("tags", nil, "Build tags used when loading packages")
	flags.Duration("watch-debounce", cli.Defaults["watch_debounce"].(time.Duration), "Delay between a change and the rebuild in watch mode")
}

// session is everything a command needs to run
type session struct {
	dir         string
	cfg         *cli.Config
	diagnostics *utils.DiagnosticSystem
}

// load resolves the settings of cmd. args become the package patterns.
func load(cmd *cobra.Command, opts *options, args []string) (*session, error) {
	dir, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	v := cli.NewViper(dir, opts.configFile)
	for name, key := range flagKeys {
		if flag := cmd.Flags().Lookup(name); flag != nil {
			if err := v.BindPFlag(key, flag); err != nil {
				return nil, err
			}
		}
	}

	cfg, err := cli.LoadConfig(v)
	if err != nil {
		diagnostics := newDiagnostics(cmd, utils.DiagnosticError)
		cli.NewDiagnosticReporter(diagnostics, false).ReportError(err)
		return nil, &reportedError{err: err}
	}
	cfg.Directories = args

	return &session{
		dir:         dir,
		cfg:         cfg,
		diagnostics: newDiagnostics(cmd, utils.LevelFor(cfg.Quiet, cfg.Verbose, cfg.Debug)),
	}, nil
}

func newDiagnostics(cmd *cobra.Command, level utils.DiagnosticLevel) *utils.DiagnosticSystem {
	diagnostics := utils.NewDiagnosticSystem(level)
	diagnostics.SetOutput(cmd.OutOrStdout(), cmd.ErrOrStderr())
	return diagnostics
}
