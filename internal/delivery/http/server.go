package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	fiberSwagger "github.com/swaggo/fiber-swagger"
	"go.uber.org/zap"

	"github.com/municipal-boundary-service/internal/config"
	"github.com/municipal-boundary-service/internal/delivery/http/handler"
	"github.com/municipal-boundary-service/internal/delivery/http/middleware"
)

// Server is the Fiber HTTP server fronting the resolution engine.
type Server struct {
	app    *fiber.App
	config *config.Config
	logger *zap.Logger

	resolveHandler *handler.ResolveHandler
	adminHandler   *handler.AdminHandler
}

func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	resolveHandler *handler.ResolveHandler,
	adminHandler *handler.AdminHandler,
) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "Municipal Boundary Service",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: customErrorHandler(logger),
	})

	s := &Server{
		app:            app,
		config:         cfg,
		logger:         logger,
		resolveHandler: resolveHandler,
		adminHandler:   adminHandler,
	}

	s.setupMiddlewares()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddlewares() {
	s.app.Use(middleware.Recovery())
	s.app.Use(middleware.Logger(s.logger))
	s.app.Use(middleware.CORS())
	s.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
}

func (s *Server) setupRoutes() {
	// Swagger documentation route
	s.app.Get("/swagger/*", fiberSwagger.WrapHandler)

	// Prometheus metrics
	s.app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := s.app.Group("/api/v1")

	// Health check
	api.Get("/health", s.adminHandler.Health)

	// Resolution routes: POST for API callers, GET for webhook-style ones
	api.Post("/resolve", s.resolveHandler.Resolve)
	api.Get("/resolve", s.resolveHandler.ResolveGET)

	// Admin routes
	admin := api.Group("/admin")
	admin.Post("/reload", s.adminHandler.Reload)
}

func (s *Server) Start() error {
	addr := s.config.GetServerAddr()
	s.logger.Info("Starting HTTP server", zap.String("address", addr))
	return s.app.Listen(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.app.ShutdownWithContext(ctx)
}

func customErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError

		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
		}

		logger.Error("HTTP Error",
			zap.String("path", c.Path()),
			zap.Int("status", code),
			zap.Error(err),
		)

		return c.Status(code).JSON(fiber.Map{
			"error": fiber.Map{
				"code":    "INTERNAL_SERVER_ERROR",
				"message": err.Error(),
			},
		})
	}
}
