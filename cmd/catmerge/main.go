// catmerge merges the JSON artifacts of a conformance test catalog.
//
// Usage:
//
//	catmerge merge <older> <newer> [--target <dir>]
//	catmerge merge-runs <root>
//	catmerge remap <artifact>...
//	catmerge check <dir>
//	catmerge serve-mcp
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// version is set by goreleaser at build time.
var version = "dev"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := newRootCmd()
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}
