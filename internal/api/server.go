// Package api exposes the duplicate-detection and linking operations
// over HTTP for the web and desktop clients.
package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/taxfolio/ledgerlink-backend/internal/api/handlers"
	"github.com/taxfolio/ledgerlink-backend/internal/application/service"
)

// Config holds API server configuration.
type Config struct {
	Port           int
	AllowedOrigins []string
}

// DefaultConfig returns sensible defaults for the API server.
func DefaultConfig() Config {
	return Config{
		Port:           8080,
		AllowedOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
	}
}

// Server is the HTTP API server.
type Server struct {
	config     Config
	router     *gin.Engine
	httpServer *http.Server
	logger     *slog.Logger
	service    *service.LinkService
}

// NewServer creates a new API server.
func NewServer(cfg Config, svc *service.LinkService, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		config:  cfg,
		router:  gin.New(),
		logger:  logger,
		service: svc,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// setupMiddleware configures global middleware.
func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())

	s.router.Use(cors.New(cors.Config{
		AllowOrigins:     s.config.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Request logging
	s.router.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	})
}

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	// Health check (no /api prefix - for load balancers)
	s.router.GET("/health", handlers.Health)

	api := s.router.Group("/api")
	{
		// Documents
		documentsHandler := handlers.NewDocumentsHandler(s.service)
		api.GET("/documents", documentsHandler.List)
		api.POST("/documents", documentsHandler.Create)
		api.GET("/documents/:id", documentsHandler.Get)
		api.GET("/documents/:id/duplicates", documentsHandler.Duplicates)
		api.GET("/documents/:id/payment-match", documentsHandler.PaymentMatch)

		// Links
		linksHandler := handlers.NewLinksHandler(s.service)
		api.POST("/links", linksHandler.Create)
		api.POST("/links/auto", linksHandler.Auto)
		api.GET("/links/suggestions", linksHandler.Suggestions)
		api.DELETE("/links/:id", linksHandler.Delete)

		// Uploads
		uploadsHandler := handlers.NewUploadsHandler(s.service)
		api.GET("/uploads/check", uploadsHandler.Check)

		// Stats
		statsHandler := handlers.NewStatsHandler(s.service)
		api.GET("/stats", statsHandler.Get)
	}
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("starting API server", "addr", addr)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down API server")

	if s.httpServer == nil {
		return nil
	}

	return s.httpServer.Shutdown(ctx)
}

// Router returns the gin engine for testing.
func (s *Server) Router() *gin.Engine {
	return s.router
}
