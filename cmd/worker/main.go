package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/wheels195/cfb-market-edge-sub006/internal/cache"
	"github.com/wheels195/cfb-market-edge-sub006/internal/client"
	"github.com/wheels195/cfb-market-edge-sub006/internal/config"
	"github.com/wheels195/cfb-market-edge-sub006/internal/identity"
	"github.com/wheels195/cfb-market-edge-sub006/internal/metrics"
	"github.com/wheels195/cfb-market-edge-sub006/internal/pipeline"
	"github.com/wheels195/cfb-market-edge-sub006/internal/repository"
	"github.com/wheels195/cfb-market-edge-sub006/internal/scheduler"
)

func main() {
	// Setup logger
	setupLogger()

	log.Info().Msg("Starting CFB market edge worker")

	// Load configuration
	cfg := config.MustLoad()
	log.Info().
		Str("env", cfg.AppEnv).
		Str("log_level", cfg.LogLevel).
		Str("model_version", cfg.ModelVersion).
		Msg("Configuration loaded")

	// Create context that listens for cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info().Msg("Received shutdown signal, gracefully shutting down...")
		cancel()
	}()

	// Initialize feed clients
	cfbdClient := client.NewCFBDClient(cfg.CFBDBaseURL, cfg.CFBDAPIKey, cfg.CFBDTimeout)
	oddsClient := client.NewOddsClient(cfg.OddsAPIBaseURL, cfg.OddsAPIKey, cfg.OddsAPITimeout, cfg.OddsAPIRateLimit)
	log.Info().Msg("Feed clients initialized")

	// Initialize database connection
	dbConfig := repository.Config{
		Host:     cfg.DatabaseHost,
		Port:     strconv.Itoa(cfg.DatabasePort),
		User:     cfg.DatabaseUser,
		Password: cfg.DatabasePassword,
		Database: cfg.DatabaseName,
		SSLMode:  cfg.DatabaseSSLMode,
	}

	db, err := repository.NewDatabase(ctx, dbConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()
	log.Info().Msg("Database connection established")

	// Initialize Redis client
	redisCache, err := cache.NewRedisCache(cache.Config{
		Host:     cfg.RedisHost,
		Port:     strconv.Itoa(cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		log.Warn().Err(err).Msg("Failed to connect to Redis - continuing without cache")
		redisCache = nil
	} else {
		defer redisCache.Close()
	}

	// Seed the identity resolver from stored teams
	resolver := identity.NewAliasResolver()
	if teams, err := db.Teams.List(ctx); err != nil {
		log.Warn().Err(err).Msg("Failed to seed identity resolver from database")
	} else {
		for _, team := range teams {
			resolver.AddCanonical(team.SchoolName, team.TeamID)
		}
		log.Info().Int("teams", len(teams)).Msg("Identity resolver seeded")
	}

	pipe := pipeline.New(cfg, db, cfbdClient, oddsClient, resolver, redisCache)

	// Start metrics HTTP server
	if cfg.EnableMetrics {
		go startMetricsServer(strconv.Itoa(cfg.MetricsPort))
	}

	// Update system uptime metric
	startTime := time.Now()
	go func() {
		ticker := time.NewTicker(10 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				metrics.SystemUptime.Set(time.Since(startTime).Seconds())
			case <-ctx.Done():
				return
			}
		}
	}()

	// Create and start scheduler
	sched := scheduler.NewScheduler(cfg, pipe)

	if cfg.EnableScheduler {
		log.Info().Msg("Starting scheduler...")
		if err := sched.Start(ctx); err != nil {
			log.Fatal().Err(err).Msg("Failed to start scheduler")
		}
	}

	// Run initial sync if enabled
	if cfg.InitialSyncEnabled {
		log.Info().Msg("Running initial refresh...")
		if err := sched.RunNightlyRefresh(ctx); err != nil {
			log.Error().Err(err).Msg("Initial refresh failed, continuing anyway...")
		} else {
			log.Info().Msg("Initial refresh completed successfully")
		}
	}

	// Keep running until context is cancelled
	<-ctx.Done()

	// Graceful shutdown
	log.Info().Msg("Shutting down scheduler...")
	sched.Stop()

	log.Info().Msg("Worker shutdown complete")
}

// setupLogger configures the zerolog logger
func setupLogger() {
	// Pretty console logging in development
	if os.Getenv("APP_ENV") == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		})
	}

	// Set log level
	level := zerolog.InfoLevel
	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		parsedLevel, err := zerolog.ParseLevel(lvl)
		if err == nil {
			level = parsedLevel
		}
	}
	zerolog.SetGlobalLevel(level)

	log.Info().
		Str("level", level.String()).
		Msg("Logger initialized")
}

// startMetricsServer starts the Prometheus metrics HTTP server
func startMetricsServer(port string) {
	http.Handle("/metrics", promhttp.Handler())

	// Health check endpoint
	http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	addr := fmt.Sprintf(":%s", port)
	log.Info().Str("port", port).Msg("Starting metrics server")

	if err := http.ListenAndServe(addr, nil); err != nil {
		log.Error().Err(err).Msg("Metrics server failed")
	}
}
