package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/osama347/general-store-management-system-sub000/internal/config"
	"github.com/osama347/general-store-management-system-sub000/internal/infra"
	"github.com/osama347/general-store-management-system-sub000/internal/repository"
	"github.com/osama347/general-store-management-system-sub000/internal/router"
	"github.com/osama347/general-store-management-system-sub000/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// @title Store Ledger API
// @version 1.0
// @description Inventory ledger for the multi-location store back office: pool intake, distribution, inter-location transfers and sale consumption.
// @BasePath /v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	if cfg.Env == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	dispatcher := worker.NewDispatcher(rdb)

	// Slip workers: PDF generation plus SMTP behind a circuit breaker.
	mailer := infra.NewMailer(cfg)
	breaker := infra.NewCircuitBreaker(infra.DefaultCBConfig())
	slipWorker := worker.NewSlipWorker(
		repository.NewTransferRepository(db),
		repository.NewCatalogRepository(db),
		repository.NewLocationRepository(db),
		mailer,
		breaker,
		cfg.SlipStoragePath,
		cfg.OpsEmail,
	)

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()
	worker.StartWorkerPool(workerCtx, rdb, &worker.WorkerHandlers{Slip: slipWorker}, cfg.WorkerPoolSize)

	engine := router.New(cfg, db, rdb, dispatcher)
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	stopWorkers()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
	if err := rdb.Close(); err != nil {
		log.Warn().Err(err).Msg("redis close")
	}
	log.Info().Msg("server stopped")
}
