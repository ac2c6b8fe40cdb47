package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/symptom-diagnosis-server/internal/cache"
	"github.com/symptom-diagnosis-server/internal/diagnosis"
	"github.com/symptom-diagnosis-server/internal/domain"
	"github.com/symptom-diagnosis-server/internal/history"
	"github.com/symptom-diagnosis-server/internal/middleware"
)

// Server represents the HTTP server
type Server struct {
	configManager domain.ConfigManager
	logger        *logrus.Logger
	engine        *diagnosis.Engine
	store         history.Store
	cache         cache.Cache
	router        *gin.Engine
	server        *http.Server
}

// NewServer creates a new HTTP server instance. The store and cache may
// be nil, in which case persistence and caching are disabled.
func NewServer(configManager domain.ConfigManager, logger *logrus.Logger, engine *diagnosis.Engine, store history.Store, resultCache cache.Cache) *Server {
	cfg := configManager.GetConfig()

	// Set Gin mode based on environment
	if cfg.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	serverCfg := configManager.GetServerConfig()
	limiter := middleware.NewRateLimiter(logger, serverCfg.RequestsPerSecond, serverCfg.Burst)

	// Add middleware
	router.Use(gin.Recovery())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.CorrelationID())
	router.Use(middleware.RequestLogger())
	router.Use(limiter.Handler())

	server := &Server{
		configManager: configManager,
		logger:        logger,
		engine:        engine,
		store:         store,
		cache:         resultCache,
		router:        router,
	}

	// Setup routes
	server.setupRoutes()

	return server
}

// Start starts the HTTP server and blocks until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	cfg := s.configManager.GetServerConfig()
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.WithField("addr", addr).Info("HTTP server listening")
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return s.server.Shutdown(shutdownCtx)
}

// Router exposes the underlying handler, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// setupRoutes configures the API routes
func (s *Server) setupRoutes() {
	// Health check endpoint
	s.router.GET("/health", s.handleHealth)

	// API v1 routes
	v1 := s.router.Group("/api/v1")
	{
		v1.POST("/diagnose", s.handleDiagnose)
		v1.GET("/symptoms", s.handleListSymptoms)
		v1.GET("/conditions", s.handleListConditions)
		v1.GET("/history", s.handleListHistory)
		v1.GET("/history/:id", s.handleGetHistory)
		v1.DELETE("/history/:id", s.handleDeleteHistory)
	}
}

// handleHealth handles health check requests
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"version":   "1.0.0",
	})
}
