// Package main is the entry point for the hop CLI.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/runger/hop/internal/cmd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := cmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		cmd.PrintError(os.Stderr, err)
		os.Exit(1)
	}
}
