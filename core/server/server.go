package server

import (
	"context"

	"balance-mirror/core/balance"
	"balance-mirror/core/engine"
	"balance-mirror/core/source"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Server is the operational HTTP surface of the mirror.
type Server struct {
	cfg Config
	app *fiber.App
	log *zap.Logger
}

// New creates the ops server over the running pipeline components.
func New(cfg Config, eng *engine.Engine, src *source.Manager, store balance.Store, log *zap.Logger) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	s := &Server{cfg: cfg, app: app, log: log.Named("server")}

	app.Get("/healthz", func(c *fiber.Ctx) error {
		if !src.Connected() {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status":     "degraded",
				"subscribed": false,
			})
		}
		return c.JSON(fiber.Map{
			"status":     "ok",
			"subscribed": true,
		})
	})

	app.Get("/stats", s.requireKey, func(c *fiber.Ctx) error {
		accounts, err := store.Count(c.Context())
		if err != nil {
			s.log.Error("stats: account count failed", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "store unavailable",
			})
		}
		return c.JSON(fiber.Map{
			"engine":   eng.Stats(),
			"source":   src.Stats(),
			"accounts": accounts,
		})
	})

	return s
}

// requireKey guards an endpoint with the configured API key.
func (s *Server) requireKey(c *fiber.Ctx) error {
	if s.cfg.ApiKey != "" && c.Get("X-API-Key") != s.cfg.ApiKey {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "invalid api key",
		})
	}
	return c.Next()
}

// Listen serves until Shutdown is called.
func (s *Server) Listen() error {
	s.log.Info("ops server listening", zap.String("port", s.cfg.Port))
	return s.app.Listen(":" + s.cfg.Port)
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}
