package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"hermes/internal/adapters/ai"
	"hermes/internal/adapters/config"
	"hermes/internal/adapters/errors/noop"
	"hermes/internal/adapters/errors/sentry"
	redisadapter "hermes/internal/adapters/redis"
	"hermes/internal/agents"
	"hermes/internal/api"
	"hermes/internal/api/health"
	queryapi "hermes/internal/api/query"
	"hermes/internal/domain/session"
	"hermes/internal/metrics"
	"hermes/internal/repository/memory"
	"hermes/internal/repository/postgres"
	redisrepo "hermes/internal/repository/redis"
	queryservice "hermes/internal/services/query"
	"hermes/internal/tools/calculator"
	"hermes/internal/tools/marketdata"
	"hermes/pkg/errors"
	"hermes/pkg/logger"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	if err := logger.Init(cfg.App.LogLevel, cfg.App.Env); err != nil {
		panic("failed to init logger: " + err.Error())
	}
	defer logger.Sync()

	log := logger.Get()
	log.Infof("Starting %s in %s mode", cfg.App.Name, cfg.App.Env)

	errorTracker := initErrorTracker(cfg, log)
	logger.SetErrorTracker(errorTracker)

	metrics.Init()

	// Databases
	db, err := sqlx.Connect("postgres", cfg.Postgres.DSN())
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	db.SetMaxOpenConns(cfg.Postgres.MaxConns)
	defer db.Close()

	var redisClient *redisadapter.Client
	if cfg.Session.Store == "redis" || cfg.MarketData.NewsCacheTTL > 0 {
		redisClient, err = redisadapter.NewClient(cfg.Redis)
		if err != nil {
			log.Warnf("Redis unavailable, continuing without it: %v", err)
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	// LLM client
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	llm, err := ai.NewGeminiClient(ctx, cfg.AI)
	if err != nil {
		log.Fatalf("Failed to initialize Gemini client: %v", err)
	}

	// Session layer
	holdingsRepo := postgres.NewHoldingsRepository(db)
	registry := buildSessionRegistry(cfg, redisClient, log)
	sessions := session.NewService(registry, holdingsRepo, cfg.Session.MaxHistoryTurns)

	// Market data and portfolio tools
	finnhub := marketdata.NewFinnhubClient(cfg.MarketData)
	filings := marketdata.NewStaticFilingsSource()

	var marketExecutor *marketdata.Executor
	if redisClient != nil {
		marketExecutor = marketdata.NewExecutor(finnhub, finnhub, filings, redisClient, cfg.MarketData.NewsCacheTTL)
	} else {
		marketExecutor = marketdata.NewExecutor(finnhub, finnhub, filings, nil, cfg.MarketData.NewsCacheTTL)
	}
	portfolioExecutor := calculator.NewExecutor(finnhub)

	// Query pipeline
	orchestrator := agents.NewOrchestrator(
		agents.NewClassifier(llm, nil, cfg.AI.ConfidenceThreshold),
		agents.NewPlanner(llm),
		marketExecutor,
		portfolioExecutor,
		agents.NewResponseGenerator(llm),
		agents.NewValidator(llm),
	)
	queryService := queryservice.NewService(sessions, orchestrator)

	// HTTP server
	healthHandler := health.New(log, db, redisClient, cfg.App.Name, version)
	queryHandler := queryapi.NewHandler(queryService)
	server := api.NewServer(api.ServerConfig{
		Port:        cfg.HTTP.Port,
		ServiceName: cfg.App.Name,
		Version:     version,
	}, healthHandler, queryHandler, log)

	go func() {
		if err := server.Start(); err != nil {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	log.Info("System initialized successfully")

	waitForShutdown(cancel, server, errorTracker, cfg, log)
}

// initErrorTracker initializes error tracking (Sentry or no-op)
func initErrorTracker(cfg *config.Config, log *logger.Logger) errors.Tracker {
	if !cfg.ErrorTracking.Enabled || cfg.ErrorTracking.SentryDSN == "" {
		log.Info("Error tracking disabled")
		return noop.New()
	}

	tracker, err := sentry.New(cfg.ErrorTracking.SentryDSN, cfg.ErrorTracking.Environment)
	if err != nil {
		log.Warnf("Failed to initialize Sentry: %v", err)
		return noop.New()
	}

	log.Info("Error tracking initialized (Sentry)")
	return tracker
}

// buildSessionRegistry picks the configured session store.
func buildSessionRegistry(cfg *config.Config, redisClient *redisadapter.Client, log *logger.Logger) session.Registry {
	if cfg.Session.Store == "redis" && redisClient != nil {
		log.Info("Using Redis session registry")
		return redisrepo.NewSessionRegistry(redisClient, cfg.Session.TTL)
	}
	log.Info("Using in-memory session registry")
	return memory.NewSessionRegistry()
}

// waitForShutdown blocks until SIGINT/SIGTERM, then drains the server.
func waitForShutdown(cancel context.CancelFunc, server *api.Server, tracker errors.Tracker, cfg *config.Config, log *logger.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	log.Infof("Received signal %s, shutting down...", sig)
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Shutdown error: %v", err)
	}

	if err := tracker.Flush(shutdownCtx); err != nil {
		log.Warnf("Error tracker flush failed: %v", err)
	}
	log.Info("Shutdown complete")
}
