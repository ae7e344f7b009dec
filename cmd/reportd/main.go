package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"coop-reconciliation/internal/config"
	"coop-reconciliation/internal/gateway"
	"coop-reconciliation/internal/handler"
	"coop-reconciliation/internal/logger"
	"coop-reconciliation/internal/usecase"
)

func main() {
	log := logger.New(os.Getenv("LOG_LEVEL"))
	cfg := config.Load(log)
	log = logger.New(cfg.LogLevel)

	var repo usecase.RecordRepository
	switch cfg.DataSource {
	case "sqlite":
		db, err := gateway.OpenSQLite(cfg.DatabasePath)
		if err != nil {
			log.Fatalf("could not open database: %v", err)
		}
		defer db.Close()
		if err := gateway.EnsureSchema(context.Background(), db); err != nil {
			log.Fatalf("could not prepare database: %v", err)
		}
		repo = gateway.NewSQLiteRecordRepository(db, log)
	default:
		repo = gateway.NewCSVRecordRepository(cfg.DataDir, log)
	}

	// REPORT_CACHE_TTL=0 disables caching for sources written to behind the server's back.
	reports := usecase.NewReportUseCase(repo, usecase.NewReportCache(cfg.ReportCacheTTL), cfg.Policy, log)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler.NewReportHandler(reports, log).Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.WithField("addr", cfg.HTTPAddr).WithField("source", cfg.DataSource).Info("report server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
	log.Info("report server stopped")
}
