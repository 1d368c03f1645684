package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ytget/puller/internal/cli"
)

func main() {
	// SIGINT and SIGTERM kill the running downloads
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.Run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
