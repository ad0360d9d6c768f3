package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/tickforge/tickforge/internal/core/engine"
	"github.com/tickforge/tickforge/internal/core/observability/log"
	"github.com/tickforge/tickforge/internal/plugins/combat"
	"github.com/tickforge/tickforge/internal/plugins/farming"
	"github.com/tickforge/tickforge/internal/plugins/movement"
	"github.com/tickforge/tickforge/internal/server"
)

func main() {
	configPath := flag.String("config", "", "path to yaml config file")
	authToken := flag.String("token", "devtoken", "shared gateway auth token")
	flag.Parse()

	cfg, err := server.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error loading config:", err)
		os.Exit(1)
	}
	logger := log.New(log.ParseLevel(cfg.LogLevel))

	eng := engine.New(cfg.Engine, logger)
	plugins := []func() error{
		func() error { return eng.InstallPlugin(movement.New()) },
		func() error { return eng.InstallPlugin(combat.New()) },
		func() error { return eng.InstallPlugin(farming.New()) },
	}
	for _, install := range plugins {
		if err := install(); err != nil {
			logger.Fatal("plugin install failed", log.Error(err))
		}
	}
	eng.Start()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	gw := server.NewGateway(eng, cfg, server.TokenAuth(*authToken), logger)
	errCh := make(chan error, 1)
	go func() {
		errCh <- gw.Run(ctx)
	}()

	select {
	case <-stopCh:
	case err := <-errCh:
		if err != nil {
			logger.Error("gateway error", log.Error(err))
		}
	}
	cancel()
	eng.Stop()
}
