// Command xfail queries the expected-failure registry, enumerates e2e test
// catalogs and classifies test runs against a configuration.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := newRootCommand(os.Stdout, os.Stderr).ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "xfail: %v\n", err)
	}
	stop()
	os.Exit(exitCode(err))
}
