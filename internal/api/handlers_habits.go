package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/streaky/internal/services"
)

func (handler *Handler) ListHabits(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthorizedError(c, "unauthorized")
	}
	categoryID, err := parseOptionalIDQuery(c, "category_id")
	if err != nil {
		return validationError(c, err.Error())
	}

	views, err := handler.habitService.List(userID, categoryID, handler.today())
	if err != nil {
		return handler.respondError(c, err)
	}
	return c.JSON(newHabitResponses(views))
}

func (handler *Handler) CreateHabit(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthorizedError(c, "unauthorized")
	}

	var input habitCreateInput
	if err := handler.bindJSON(c, &input); err != nil {
		return validationError(c, err.Error())
	}

	view, err := handler.habitService.Create(userID, services.HabitInput{
		Name:         input.Name,
		GoalType:     input.GoalType,
		ReminderTime: input.ReminderTime,
	})
	if err != nil {
		return handler.respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(newHabitResponse(view))
}

func (handler *Handler) GetHabit(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthorizedError(c, "unauthorized")
	}
	habitID, err := parseIDParam(c, "id")
	if err != nil {
		return validationError(c, err.Error())
	}

	view, err := handler.habitService.Get(userID, habitID, handler.today())
	if err != nil {
		return handler.respondError(c, err)
	}
	return c.JSON(newHabitResponse(view))
}

func (handler *Handler) UpdateHabit(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthorizedError(c, "unauthorized")
	}
	habitID, err := parseIDParam(c, "id")
	if err != nil {
		return validationError(c, err.Error())
	}

	var input habitUpdateInput
	if err := handler.bindJSON(c, &input); err != nil {
		return validationError(c, err.Error())
	}

	view, err := handler.habitService.Update(userID, habitID, services.HabitUpdate{
		Name:         input.Name,
		GoalType:     input.GoalType,
		ReminderTime: toServiceOptional(input.ReminderTime),
	}, handler.today())
	if err != nil {
		return handler.respondError(c, err)
	}
	return c.JSON(newHabitResponse(view))
}

func (handler *Handler) DeleteHabit(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthorizedError(c, "unauthorized")
	}
	habitID, err := parseIDParam(c, "id")
	if err != nil {
		return validationError(c, err.Error())
	}

	if err := handler.habitService.Delete(userID, habitID); err != nil {
		return handler.respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (handler *Handler) HabitCalendar(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthorizedError(c, "unauthorized")
	}
	habitID, err := parseIDParam(c, "id")
	if err != nil {
		return validationError(c, err.Error())
	}
	year, month, err := parseMonthQuery(c, handler.today())
	if err != nil {
		return handler.respondError(c, err)
	}

	days, err := handler.habitService.MonthView(userID, habitID, year, month)
	if err != nil {
		return handler.respondError(c, err)
	}
	return c.JSON(newCalendarResponse(habitID, year, month, days))
}

func (handler *Handler) HabitStats(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthorizedError(c, "unauthorized")
	}
	habitID, err := parseIDParam(c, "id")
	if err != nil {
		return validationError(c, err.Error())
	}
	days, err := services.ParseStatsRange(c.Query("range"))
	if err != nil {
		return handler.respondError(c, err)
	}

	stats, err := handler.habitService.Stats(userID, habitID, days, handler.today())
	if err != nil {
		return handler.respondError(c, err)
	}
	return c.JSON(newStatsResponse(stats))
}
