package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/vanshika/creditlens/backend/internal/config"
	"github.com/vanshika/creditlens/backend/internal/experian"
	"github.com/vanshika/creditlens/backend/internal/logging"
	"github.com/vanshika/creditlens/backend/internal/repository"
	"github.com/vanshika/creditlens/backend/internal/server"
	"github.com/vanshika/creditlens/backend/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load(".")
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := logging.New(cfg.Logging)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := repository.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open %s report store: %w", cfg.Storage.Driver, err)
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			logger.Warn("closing report store failed", "error", err)
		}
	}()
	logger.Info("report store ready", "driver", cfg.Storage.Driver)

	reportService := service.NewReportService(store, experian.Extractor{}, cfg.Upload.MaxBytes)
	apiHandlers := server.NewAPIHandlers(logger.With("component", "api"), reportService)

	router := server.NewRouter(logger, server.RouterDependencies{
		Health:           server.StoreHealthService{Store: store},
		API:              apiHandlers,
		AllowedOrigins:   server.ParseAllowedOrigins(cfg.HTTP.AllowedOriginsCSV),
		AllowCredentials: true,
	})

	srv := server.New(logger, cfg.HTTP, router)
	if err := srv.Run(ctx); err != nil {
		logger.Error("server stopped unexpectedly", "error", err)
		return err
	}
	logger.Info("server stopped")
	return nil
}
