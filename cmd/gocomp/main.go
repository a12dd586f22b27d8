// Command gocomp renders compositing jobs described in HCL files.
//
// Usage:
//
//	gocomp render job.hcl          render every output with a path
//	gocomp render --watch job.hcl  re-render whenever the job file changes
//	gocomp validate job.hcl        check the graph without rendering
//	gocomp nodes                   list node kinds and their sockets
//
// Settings come from flags, a config file (--config) and GOCOMP_*
// environment variables, e.g. GOCOMP_RENDER_WORKERS=4.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	if err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run executes the command line in args.
func run(ctx context.Context, args []string, out, errOut io.Writer) error {
	root := newRootCmd(out, errOut)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}
