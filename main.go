package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"MyWhiteboard/internal/cli"
	"MyWhiteboard/internal/ui"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	c := cli.New(os.Stderr, ui.Run)
	if err := c.RootCommand().ExecuteContext(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130)
		}
		os.Exit(1)
	}
}
