// Package server exposes a dashboard session over HTTP.
package server

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/spektr-org/prodistat/dashboard"
	"github.com/spektr-org/prodistat/engine"
)

// Server wires HTTP routes to one dashboard session.
type Server struct {
	app     *fiber.App
	session *dashboard.Session
	log     *zap.Logger
	now     func() time.Time
}

// New builds the fiber app and registers every route.
func New(session *dashboard.Session, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{
		session: session,
		log:     log,
		now:     time.Now,
	}

	app := fiber.New(fiber.Config{
		AppName:               "prodistat",
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          30 * time.Second,
		DisableStartupMessage: true,
		ErrorHandler:          s.errorHandler,
	})

	app.Use(recover.New())
	app.Use(s.requestLogger)
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))

	app.Get("/healthz", s.handleHealth)

	api := app.Group("/api")
	api.Get("/summary", s.handleSummary)
	api.Get("/stats", s.handleStats)
	api.Get("/charts", s.handleCharts)
	api.Get("/filters", s.handleGetFilters)
	api.Put("/filters/:dimension", s.handleSetFilter)
	api.Delete("/filters", s.handleResetFilters)
	api.Put("/search", s.handleSetSearch)
	api.Get("/options/:dimension", s.handleOptions)
	api.Get("/export", s.handleExport)

	s.app = app
	return s
}

// App returns the underlying fiber app.
func (s *Server) App() *fiber.App { return s.app }

// Listen serves on addr until Shutdown.
func (s *Server) Listen(addr string) error {
	s.log.Info("server listening", zap.String("addr", addr), zap.String("session", s.session.ID()))
	return s.app.Listen(addr)
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func (s *Server) requestLogger(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	s.log.Debug("request",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Int("status", c.Response().StatusCode()),
		zap.Duration("latency", time.Since(start)))
	return err
}

// statusFor maps pipeline errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, engine.ErrDataUnavailable):
		return fiber.StatusServiceUnavailable
	case errors.Is(err, dashboard.ErrUnknownDimension):
		return fiber.StatusBadRequest
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return fiber.StatusInternalServerError
}

func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	code := statusFor(err)
	if code >= fiber.StatusInternalServerError && code != fiber.StatusServiceUnavailable {
		s.log.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
	}
	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
	})
}
