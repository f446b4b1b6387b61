// Command weathr prints current conditions and the forecast for a location
// from the National Weather Service API.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rshade/weathr/internal/cli"
	"github.com/rshade/weathr/internal/version"
)

func main() {
	os.Exit(run())
}

// run executes the root command and returns the process exit code.
func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := cli.NewRootCmd(version.GetVersion())
	err := root.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return extractExitCode(err)
}

// extractExitCode returns the code carried by an ExitError anywhere in err's
// chain, 1 for any other error, and 0 for nil.
func extractExitCode(err error) int {
	return cli.ExitCodeFor(err)
}
