package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/preston-bernstein/next-to-go-service/internal/config"
	"github.com/preston-bernstein/next-to-go-service/internal/logging"
	"github.com/preston-bernstein/next-to-go-service/internal/server"
)

const (
	appName    = "next-to-go-service"
	appVersion = "dev"
)

func main() {
	if os.Getenv("SKIP_SERVER_RUN") == "1" {
		return
	}

	cfg, envErr := config.Load()
	logger := logging.NewLogger(logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: appName,
		Version: appVersion,
	})
	if envErr != nil {
		logging.Warn(logger, "env file ignored", slog.Any("err", envErr))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(cfg, logger)
	srv.Run(ctx, stop)
}
