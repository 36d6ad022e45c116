package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"doctrace/internal/document"
	"doctrace/internal/document/cache"
	dochandler "doctrace/internal/document/handler"
	"doctrace/internal/filestore"
	"doctrace/internal/platform/config"
	"doctrace/internal/platform/httpserver"
	"doctrace/internal/platform/logger"
	"doctrace/internal/platform/metrics"
	"doctrace/internal/platform/middleware"
	platformredis "doctrace/internal/platform/redis"
	"doctrace/internal/rowstore"
	"doctrace/internal/tracking"
	trackinghandler "doctrace/internal/tracking/handler"
)

// main wires high-level dependencies and keeps the server lifecycle small.
// Business logic lives in the internal services.
func main() {
	cfg := config.FromEnv()
	log := logger.New()
	ctx := context.Background()

	if cfg.SpreadsheetID == "" {
		log.Error("SHEETS_SPREADSHEET_ID must be set")
		os.Exit(1)
	}

	sheetsSvc, err := rowstore.NewSheetsService(ctx, cfg.CredentialsFile)
	if err != nil {
		log.Error("sheets client", "error", err)
		os.Exit(1)
	}
	docStore, err := rowstore.NewSheets(ctx, sheetsSvc, cfg.SpreadsheetID, cfg.DocsWorksheet, document.Columns)
	if err != nil {
		log.Error("open documents worksheet", "error", err)
		os.Exit(1)
	}
	archiveStore, err := rowstore.NewSheets(ctx, sheetsSvc, cfg.SpreadsheetID, cfg.ArchiveWorksheet, document.ArchiveColumns)
	if err != nil {
		log.Error("open archive worksheet", "error", err)
		os.Exit(1)
	}

	m := metrics.New()
	repo := document.NewRepository(docStore, log, m)
	archive := document.NewArchiveRepository(archiveStore)

	var opts []document.ServiceOption
	if cfg.DriveFolderID != "" {
		files, err := filestore.NewDrive(ctx, cfg.CredentialsFile, cfg.DriveFolderID)
		if err != nil {
			log.Error("drive client", "error", err)
			os.Exit(1)
		}
		opts = append(opts, document.WithFileStore(files, cfg.DriveDeletedFolderID))
	}

	redisClient, err := platformredis.New(ctx, cfg.RedisURL)
	if err != nil {
		log.Error("redis client", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		opts = append(opts, document.WithRecentCache(
			cache.NewSnapshot(redisClient.Client, cfg.CacheTTL, log)))
	}

	docService := document.NewService(repo, archive, log, opts...)
	trackingService := tracking.NewService(repo)

	r := chi.NewRouter()
	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	r.Use(middleware.Actor)
	r.Use(middleware.Logger(log))
	r.Use(middleware.Latency(m))

	dochandler.New(docService, log, m).Register(r)
	trackinghandler.New(trackingService, log).Register(r)
	// When a cache is configured it is part of the serving path, so the
	// health endpoint reports its state instead of a bare static ok.
	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		if redisClient != nil {
			if err := redisClient.Health(req.Context()); err != nil {
				log.WarnContext(req.Context(), "health check failed", "error", err)
				http.Error(w, "cache unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	srv := httpserver.New(cfg.Addr, r)
	log.Info("starting doctrace", "addr", cfg.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
}
