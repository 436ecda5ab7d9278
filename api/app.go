package api

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"schedsim/config"
	"schedsim/internal/store"
)

// NewApp builds the Fiber application with all routes mounted.
func NewApp(cfg *config.SchedulerConfig, st *store.Store, logger *slog.Logger) *fiber.App {
	app := fiber.New()
	handler := NewSchedulerHandlerImpl(cfg, st, logger)

	api := app.Group("/api")
	v1 := api.Group("/v1")
	handler.Register(v1)

	app.Get("/health", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{"status": "ok"})
	})
	return app
}
