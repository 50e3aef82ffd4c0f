package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/arthur-debert/indexpub/cmd/indexpub"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	rootCmd := indexpub.NewRootCmd()
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		indexpub.RenderError(rootCmd, os.Stderr, err)
		os.Exit(1)
	}
}
