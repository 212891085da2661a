package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/kitsune-cli/kitsune/internal/cli"
)

var version = "0.1.0-dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes one invocation and returns the process exit code.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	root := cli.NewRootCommand(version)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetArgs(cli.NormalizeArgs(args))
	if err := root.ExecuteContext(ctx); err != nil {
		return 1
	}
	return 0
}
