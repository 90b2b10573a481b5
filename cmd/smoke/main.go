// Command smoke submits generated items against a running itemd instance
// and verifies the echo contract.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/parsab/itemd/internal/smoke"
	"github.com/parsab/itemd/pkg/logger"
)

func main() {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	cfg := smoke.ParseFlags()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if _, err := smoke.Run(ctx, cfg); err != nil {
		logger.Get().Error(ctx, "smoke run failed", logger.Error(err))
		os.Exit(1)
	}
}
