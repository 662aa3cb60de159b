package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/searchclick/searchclick/cmd/root"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := root.NewCommand(ctx).Execute(); err != nil {
		stop()
		os.Exit(1)
	}
}
