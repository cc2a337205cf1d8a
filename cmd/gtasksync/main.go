// Package main is the entry point for the gtasksync CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"gtasksync/internal/backend/googletasks"
	"gtasksync/internal/cli"
	"gtasksync/internal/commands"
)

func main() {
	// Cancel on interrupt so a sync stops between remote calls.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, googletasks.Connector)

	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
