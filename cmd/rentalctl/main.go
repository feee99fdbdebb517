package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"rental-manager/internal/cli"
	"rental-manager/internal/clock"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := cli.NewRootCommand(clock.NewRealClock())
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		stop()
		os.Exit(1)
	}
}
