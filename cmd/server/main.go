package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/symptom-diagnosis-server/internal/api"
	"github.com/symptom-diagnosis-server/internal/cache"
	"github.com/symptom-diagnosis-server/internal/config"
	"github.com/symptom-diagnosis-server/internal/diagnosis"
	"github.com/symptom-diagnosis-server/internal/domain"
	"github.com/symptom-diagnosis-server/internal/history"
	"github.com/symptom-diagnosis-server/internal/knowledge"
	"github.com/symptom-diagnosis-server/internal/logging"
)

func main() {
	// Load configuration
	configManager, err := config.NewManager()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Validate configuration
	if err := configManager.Validate(); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	cfg := configManager.GetConfig()
	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format)

	kb := knowledge.Default()
	if err := kb.Validate(); err != nil {
		logger.WithError(err).Fatal("Knowledge base validation failed")
	}

	engine := diagnosis.NewEngine(logger, kb)

	store, err := openStore(cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to open history store")
	}
	if store != nil {
		defer store.Close()
	}

	resultCache, err := openCache(cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to open result cache")
	}
	if resultCache != nil {
		defer resultCache.Close()
	}

	logger.WithFields(logrus.Fields{
		"host":    cfg.Server.Host,
		"port":    cfg.Server.Port,
		"storage": cfg.Storage.Backend,
		"cache":   cfg.Cache.Backend,
	}).Info("Starting symptom diagnosis server")

	// Create server
	server := api.NewServer(configManager, logger, engine, store, resultCache)

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Info("Shutdown signal received, gracefully shutting down")
		cancel()
	}()

	// Start server
	if err := server.Start(ctx); err != nil {
		logger.WithError(err).Fatal("Server failed")
	}

	logger.Info("Server stopped")
}

// openStore builds the history store selected by configuration.
// Returns nil when storage is disabled.
func openStore(cfg *domain.Config, logger *logrus.Logger) (history.Store, error) {
	switch cfg.Storage.Backend {
	case "off":
		logger.Warn("History storage is disabled")
		return nil, nil
	case "postgres":
		store, err := history.NewPostgresStoreFromURL(cfg.Storage)
		if err != nil {
			return nil, err
		}
		if err := store.EnsureSchema(context.Background()); err != nil {
			store.Close()
			return nil, err
		}
		return store, nil
	default:
		return history.NewSQLiteStore(cfg.Storage.SQLitePath)
	}
}

// openCache builds the result cache selected by configuration.
// Returns nil when caching is disabled.
func openCache(cfg *domain.Config, logger *logrus.Logger) (cache.Cache, error) {
	switch cfg.Cache.Backend {
	case "off":
		logger.Warn("Result caching is disabled")
		return nil, nil
	case "redis":
		return cache.NewRedisCache(cfg.Cache)
	default:
		return cache.NewMemoryCache(cfg.Cache.MaxEntries, cfg.Cache.DefaultTTL)
	}
}
