package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/yusufkecer/nyenyak-backend/internal/classifier"
	"github.com/yusufkecer/nyenyak-backend/internal/config"
	"github.com/yusufkecer/nyenyak-backend/internal/db"
	"github.com/yusufkecer/nyenyak-backend/internal/diagnosis"
	"github.com/yusufkecer/nyenyak-backend/internal/handler"
	"github.com/yusufkecer/nyenyak-backend/internal/logging"
	"github.com/yusufkecer/nyenyak-backend/internal/metrics"
	"github.com/yusufkecer/nyenyak-backend/internal/middleware"
	"github.com/yusufkecer/nyenyak-backend/internal/repository"
	"github.com/yusufkecer/nyenyak-backend/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx := context.Background()

	database, err := db.Connect(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer database.Close()

	if err := db.RunMigrations(ctx, database, logger); err != nil {
		return fmt.Errorf("migrations failed: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	accountRepo := repository.NewAccountRepository(database)
	userRepo := repository.NewUserRepository(database)
	resetTokenRepo := repository.NewResetTokenRepository(database)
	diagnosisRepo := repository.NewDiagnosisRepository(database)
	solutionRepo := repository.NewSolutionRepository(database)

	classifierCfg := classifier.DefaultConfig(cfg.ClassifierURL)
	classifierCfg.Timeout = cfg.ClassifierTimeout
	classifierCfg.BreakerTimeout = cfg.ClassifierBreakerTimeout
	classifierCfg.BreakerFailureThreshold = cfg.ClassifierBreakerThreshold
	classifierCfg.BreakerMinRequests = cfg.ClassifierBreakerMinCalls
	predictor := classifier.New(classifierCfg, logger, m)

	diagnosisService := diagnosis.NewService(userRepo, diagnosisRepo, solutionRepo, predictor, logger, m)
	emailService := service.NewEmailService(cfg.ResendAPIKey, cfg.MailFrom)
	tokens := middleware.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)

	router := newRouter(routerDeps{
		logger:         logger,
		metrics:        m,
		gatherer:       registry,
		tokens:         tokens,
		apiKey:         cfg.APIKey,
		allowedOrigins: cfg.AllowedOrigins,
		health:         handler.NewHealthHandler(database, logger),
		auth:           handler.NewAuthHandler(tokens, accountRepo, resetTokenRepo, emailService, logger),
		users:          handler.NewUserHandler(userRepo, accountRepo, logger),
		diagnoses:      handler.NewDiagnosisHandler(diagnosisService, logger),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("received shutdown signal", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	logger.Info("server stopped")
	return nil
}
