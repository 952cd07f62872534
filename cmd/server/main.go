package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"profile-sync/internal/app"
	"profile-sync/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := log.New(os.Stdout, "", log.LstdFlags)

	bootstrap, cleanup, err := app.Bootstrap(cfg, logger)
	if err != nil {
		log.Fatalf("failed to bootstrap app: %v", err)
	}
	defer func() {
		if err := cleanup(); err != nil {
			logger.Printf("cleanup error: %v", err)
		}
	}()

	addr, err := app.ListenAddr(cfg.App.HTTPPort)
	if err != nil {
		log.Fatalf("invalid HTTP port: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := bootstrap.Run(ctx, addr); err != nil {
		logger.Printf("server error: %v", err)
		stop()
		if cerr := cleanup(); cerr != nil {
			logger.Printf("cleanup error: %v", cerr)
		}
		os.Exit(1)
	}
}
