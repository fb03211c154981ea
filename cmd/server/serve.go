package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vytor/vocabflash/internal/api"
	"github.com/vytor/vocabflash/internal/auth"
	"github.com/vytor/vocabflash/internal/jobs"
	"github.com/vytor/vocabflash/internal/maintenance"
	"github.com/vytor/vocabflash/internal/repository/sqlite"
	"github.com/vytor/vocabflash/internal/services"
	"github.com/vytor/vocabflash/internal/worker"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd)
		},
	}
}

func runServe(cmd *cobra.Command) error {
	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}

	log.Info("===========================================")
	log.Info("VocabFlash Server Starting")
	log.Info("===========================================")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("timezone=%s", cfg.Timezone)
	log.Debug("import_worker_count=%d", cfg.ImportWorkerCount)
	log.Debug("import_queue_size=%d", cfg.ImportQueueSize)
	log.Debug("maintenance_interval=%s", cfg.MaintenanceInterval)
	log.Debug("rate_limit=%d per %s", cfg.RateLimitRequests, cfg.RateLimitWindow)
	log.Debug("trust_proxy=%t", cfg.TrustProxy)

	database, err := openDB(cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	wordRepo := sqlite.NewWordRepository(database.DB)
	userRepo := sqlite.NewUserRepository(database.DB)
	progressRepo := sqlite.NewProgressRepository(database.DB)

	wordService := services.NewWordService(wordRepo)
	progressService := services.NewProgressService(progressRepo, wordRepo,
		services.WithLocation(cfg.Location()),
		services.WithLimits(cfg.DueLimit, cfg.PracticeLimit),
	)
	authService := services.NewAuthService(userRepo, auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL))

	importPool := worker.NewPool(cfg.ImportWorkerCount, cfg.ImportQueueSize)
	jobQueue := jobs.NewWorkerQueue(importPool, wordService, jobs.NewTracker(jobs.DefaultTrackerCapacity))

	srv := &api.Server{
		WordService:       wordService,
		ProgressService:   progressService,
		AuthService:       authService,
		JobQueue:          jobQueue,
		DB:                database,
		RateLimitRequests: cfg.RateLimitRequests,
		RateLimitWindow:   cfg.RateLimitWindow,
		TrustProxy:        cfg.TrustProxy,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	importPool.Start(context.Background())

	sched := maintenance.New(database, cfg.MaintenanceInterval)
	if err := sched.Start(); err != nil {
		importPool.Stop()
		return err
	}

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		log.Info("received shutdown signal, initiating graceful shutdown")
	case runErr = <-serveErr:
		if runErr != nil {
			log.Error("HTTP server error: %v", runErr)
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	log.Debug("stopping maintenance scheduler")
	sched.Stop()

	log.Debug("stopping import pool")
	importPool.Stop()

	log.Info("===========================================")
	log.Info("VocabFlash Server Stopped")
	log.Info("===========================================")

	if runErr != nil {
		return fmt.Errorf("http server: %w", runErr)
	}
	return nil
}
