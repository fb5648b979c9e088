package api

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, handler *Handler) {
	registerMonitoringRoutes(app, handler)
	registerAPIRoutes(app, handler)
}

func registerMonitoringRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Healthz)
	app.Get("/health", handler.Health)
	app.Get("/version", handler.Version)
	app.Get("/metrics", handler.Metrics)
	app.Get("/business-metrics", handler.BusinessMetrics)
}

func registerAPIRoutes(app *fiber.App, handler *Handler) {
	app.Post("/auth/register", handler.Register)
	app.Post("/token", handler.Token)

	habits := app.Group("/habits", handler.AuthRequired)
	habits.Get("", handler.ListHabits)
	habits.Post("", handler.CreateHabit)
	habits.Get("/:id", handler.GetHabit)
	habits.Put("/:id", handler.UpdateHabit)
	habits.Delete("/:id", handler.DeleteHabit)
	habits.Get("/:id/calendar", handler.HabitCalendar)
	habits.Get("/:id/stats", handler.HabitStats)

	habits.Post("/:id/entries", handler.LogEntry)
	habits.Get("/:id/entries", handler.ListEntries)
	habits.Get("/:id/entries/:date", handler.GetEntry)
	habits.Delete("/:id/entries/:date", handler.DeleteEntry)
	habits.Put("/:id/entries/:date/journal", handler.SetJournal)

	categories := app.Group("/categories", handler.AuthRequired)
	categories.Get("", handler.ListCategories)
	categories.Post("", handler.CreateCategory)
	categories.Get("/:id", handler.GetCategory)
	categories.Put("/:id", handler.UpdateCategory)
	categories.Delete("/:id", handler.DeleteCategory)
	categories.Post("/:id/habits/:habit_id", handler.AssignHabit)
	categories.Delete("/:id/habits/:habit_id", handler.UnassignHabit)
}
