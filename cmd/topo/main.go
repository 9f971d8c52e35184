// Command topo is the TopoBuilder command-line interface.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/luskyqi1995/topobuilder/internal/cli"
)

func main() {
	// Interrupts cancel the context so long scheduler waits and pipeline
	// runs unwind cleanly instead of being killed mid-write.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := cli.New(os.Stderr, cli.LogInfo)
	root := c.RootCommand()

	// Classic workflow scripts pass long flags with a single dash.
	root.SetArgs(cli.NormalizeArgs(root, os.Args[1:]))

	if err := root.ExecuteContext(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130) // Standard shell convention for SIGINT
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
