package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/vanshika/creditlens/backend/internal/config"
	"github.com/vanshika/creditlens/backend/internal/experian"
	"github.com/vanshika/creditlens/backend/internal/logging"
	"github.com/vanshika/creditlens/backend/internal/repository"
	"github.com/vanshika/creditlens/backend/internal/service"
	"github.com/vanshika/creditlens/backend/internal/watcher"
)

var errNoInput = errors.New("one of -file or -dir is required")

func main() {
	var (
		file   = flag.String("file", "", "Path to a single Experian XML report")
		dir    = flag.String("dir", "", "Directory of Experian XML reports")
		watch  = flag.Bool("watch", false, "Keep running and import reports added to -dir")
		settle = flag.Duration("settle", watcher.DefaultSettle, "Quiet period before a watched file is imported")
	)
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging).With("component", "ingest")

	if *file == "" && *dir == "" {
		logger.Error("nothing to import", "error", errNoInput)
		flag.Usage()
		os.Exit(2)
	}
	if *watch && *dir == "" {
		logger.Error("-watch requires -dir")
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	store, err := repository.Open(ctx, cfg)
	if err != nil {
		logger.Error("failed to open report store", "driver", cfg.Storage.Driver, "error", err)
		os.Exit(1)
	}

	svc := service.NewReportService(store, experian.Extractor{}, cfg.Upload.MaxBytes)
	importer := service.NewImporter(svc, logger)

	err = run(ctx, logger, importer, *file, *dir, *watch, *settle)
	if closeErr := store.Close(context.Background()); closeErr != nil {
		logger.Warn("closing report store failed", "error", closeErr)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("ingestion failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, importer *service.Importer, file, dir string, watch bool, settle time.Duration) error {
	start := time.Now()

	if file != "" {
		if _, err := importer.ImportFile(ctx, file); err != nil {
			return err
		}
	}

	if dir != "" {
		imported, err := importer.ImportDir(ctx, dir)
		logger.Info("directory import complete",
			"dir", dir,
			"imported", len(imported),
			"duration", time.Since(start).String(),
		)
		var importErr *service.ImportError
		if errors.As(err, &importErr) && watch {
			logger.Warn("some reports failed to import", "failures", len(importErr.Errors))
		} else if err != nil {
			return err
		}
	}

	if !watch {
		return nil
	}
	return watchDir(ctx, logger, importer, dir, settle)
}

func watchDir(ctx context.Context, logger *slog.Logger, importer *service.Importer, dir string, settle time.Duration) error {
	w, err := watcher.New(settle, logger)
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	paths, err := w.Watch(ctx, dir)
	if err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	logger.Info("watching for new reports", "dir", dir)

	for path := range paths {
		if _, err := importer.ImportFile(ctx, path); err != nil {
			logger.Warn("report import failed", "file", path, "error", err)
		}
	}
	return ctx.Err()
}
