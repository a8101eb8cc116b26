package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/stoktrack/internal/config"
	"github.com/mamadbah2/stoktrack/internal/repository/mongodb"
	"github.com/mamadbah2/stoktrack/internal/repository/sheets"
	"github.com/mamadbah2/stoktrack/internal/repository/snapshot"
	"github.com/mamadbah2/stoktrack/internal/scheduler"
	"github.com/mamadbah2/stoktrack/internal/server/handlers"
	"github.com/mamadbah2/stoktrack/internal/server/router"
	"github.com/mamadbah2/stoktrack/internal/store"
	"github.com/mamadbah2/stoktrack/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New())
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	var backend snapshot.Backend
	switch cfg.Storage.Backend {
	case config.BackendMongoDB:
		mongoBackend, err := mongodb.NewSnapshotBackend(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName)
		if err != nil {
			baseLogger.Fatal("failed to init mongodb snapshot backend", zap.Error(err))
		}
		defer func() {
			if err := mongoBackend.Close(context.Background()); err != nil {
				baseLogger.Error("failed to close mongodb connection", zap.Error(err))
			}
		}()
		backend = mongoBackend
	default:
		backend = snapshot.NewFileBackend(cfg.Storage.SnapshotPath)
	}

	snapStore := snapshot.NewStore(backend, cfg.Storage, baseLogger.Named("repo.snapshot"))

	recordStore := store.New(snapStore, baseLogger.Named("store"))
	loadCtx, cancelLoad := context.WithTimeout(context.Background(), 30*time.Second)
	recordStore.Seed(snapStore.Load(loadCtx))
	cancelLoad()

	var exporter sheets.Exporter
	if cfg.SheetsEnabled() {
		exp, err := sheets.NewGoogleSheetExporter(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets exporter", zap.Error(err))
		}
		exporter = exp
		baseLogger.Info("sheets inventory export enabled")
	}

	invHandler := handlers.NewInventoryHandler(recordStore, baseLogger.Named("handlers.inventory"))
	engine := router.New(invHandler, baseLogger.Named("router"))

	sched := scheduler.NewScheduler(cfg.Autosave, recordStore, snapStore, exporter, baseLogger.Named("scheduler"))
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
