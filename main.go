package main

import (
	"fmt"
	"os"

	_ "github.com/lib/pq"

	"github.com/Andr3sV/mvp-geo-saas-sub004/internal/api"
	"github.com/Andr3sV/mvp-geo-saas-sub004/internal/config"
	"github.com/Andr3sV/mvp-geo-saas-sub004/internal/database"
	"github.com/Andr3sV/mvp-geo-saas-sub004/internal/handler"
	"github.com/Andr3sV/mvp-geo-saas-sub004/internal/logger"
	"github.com/Andr3sV/mvp-geo-saas-sub004/internal/stats"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}

	log, err := createLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		return 1
	}
	defer func() { _ = log.Sync() }()

	db, err := database.Connect(&cfg.Database, log)
	if err != nil {
		log.Error("Failed to connect to database", logger.Error(err))
		return 1
	}
	defer func() { _ = db.Close() }()

	engine := stats.NewService(stats.Deps{
		Rollup:      database.NewRollupRepository(db),
		Events:      database.NewEventRepository(db),
		Sentiment:   database.NewSentimentRepository(db, cfg.Stats.SentimentRowCap),
		Competitors: database.NewCompetitorRepository(db),
		Projects:    database.NewProjectRepository(db),
		Logger:      log,
		CutoffHour:  cfg.Stats.RollupCutoffHour,
	})

	statsHandler := handler.NewStatsHandler(engine, log)
	healthHandler := handler.NewHealthHandler(cfg.Service.Version, db.Ping)

	server := api.NewServer(cfg, statsHandler, healthHandler, log)

	log.Info("Metrics engine starting",
		logger.Int("port", cfg.Service.Port),
	)

	if err := server.Run(); err != nil {
		log.Error("Server error", logger.Error(err))
		return 1
	}

	log.Info("Metrics engine exited cleanly")
	return 0
}

// loadConfig loads and validates configuration.
func loadConfig() (*config.Config, error) {
	configPath := config.GetConfigPath("config.yml")
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if validationErr := cfg.Validate(); validationErr != nil {
		return nil, fmt.Errorf("validate config: %w", validationErr)
	}
	return cfg, nil
}

// createLogger creates a logger instance from configuration.
func createLogger(cfg *config.Config) (logger.Logger, error) {
	log, err := logger.New(logger.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Service.Debug,
	})
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	return log.With(logger.String("service", cfg.Service.Name)), nil
}
