package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/vsinha/mrpcore/pkg/interfaces/cli/commands"
)

func main() {
	// An interrupt cancels the run; the orchestrator aborts at the next level boundary
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := commands.Execute(ctx, os.Args[1:])
	stop()
	os.Exit(code)
}
