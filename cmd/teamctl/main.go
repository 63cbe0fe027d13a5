// teamctl is the terminal client for the team service.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/verrloren/hackathon-evrz/internal/cli"
	"github.com/verrloren/hackathon-evrz/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.Run(ctx, config.Load, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
