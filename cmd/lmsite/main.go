// Package main is the entry point for the lmsite command.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/lmstudios/lmsite/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.Execute(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
