package api

import (
	"runtime"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/terraincognita07/streaky/internal/db"
	"github.com/terraincognita07/streaky/internal/services"
	"go.uber.org/zap"
)

func (handler *Handler) Healthz(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"ok": true})
}

// Health checks the database connection.
func (handler *Handler) Health(c *fiber.Ctx) error {
	if err := db.Ping(handler.db); err != nil {
		handler.requestLogger(c).Error("health_check_failed", zap.Error(err))
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status":   "unhealthy",
			"database": "unreachable",
		})
	}
	return c.JSON(fiber.Map{
		"status":   "ok",
		"database": "connected",
	})
}

func (handler *Handler) Version(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"version":     handler.version,
		"environment": handler.environment,
		"go_version":  runtime.Version(),
	})
}

func (handler *Handler) Metrics(c *fiber.Ctx) error {
	return adaptor.HTTPHandler(handler.metrics.Handler())(c)
}

func (handler *Handler) BusinessMetrics(c *fiber.Ctx) error {
	snapshot, err := handler.monitoringService.BusinessMetrics(handler.today())
	if err != nil {
		return handler.respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"total_habits":  snapshot.TotalHabits,
		"total_entries": snapshot.TotalEntries,
		"entries_today": snapshot.EntriesToday,
		"date":          services.FormatDate(handler.today()),
	})
}
