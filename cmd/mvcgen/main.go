// Command mvcgen generates router files for annotated MVC controllers.
package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var version = "dev"

// reportedError marks a failure whose details were already printed
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }

func (e *reportedError) Unwrap() error { return e.err }

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		var reported *reportedError
		if !stderrors.As(err, &reported) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "mvcgen [packages...]",
		Short: "Generate routers for annotated MVC controllers",
		Long: `mvcgen scans Go packages for //mvc:: markers and writes one
autogen_<controller>_router.go file per controller.

Packages are Go-style patterns: ./... scans the current directory
recursively, ./internal/... scans a subtree and ./api scans one directory.
Settings come from flags, MVCGEN_* environment variables and an optional
mvcgen.yaml file, in that order.`,
		Example: `  mvcgen ./...
  mvcgen --services --services-file mvc.services ./internal/...
  mvcgen clean ./...
  mvcgen watch --watch-debounce 500ms ./...`,
		Args:          cobra.ArbitraryArgs,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, opts, args)
		},
	}

	addFlags(rootCmd, opts)

	rootCmd.AddCommand(cleanCmd(opts))
	rootCmd.AddCommand(watchCmd(opts))

	return rootCmd
}
