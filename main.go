package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/mensylisir/ipsprint/cmd"
	"github.com/mensylisir/ipsprint/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.Execute(ctx); err != nil {
		logger.Log.Errorf("%v", err)
		stop()
		os.Exit(1)
	}
}
