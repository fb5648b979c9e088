package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/streaky/internal/services"
)

func (handler *Handler) ListCategories(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthorizedError(c, "unauthorized")
	}

	categories, err := handler.categoryService.List(userID)
	if err != nil {
		return handler.respondError(c, err)
	}
	return c.JSON(newCategoryResponses(categories))
}

func (handler *Handler) CreateCategory(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthorizedError(c, "unauthorized")
	}

	var input categoryCreateInput
	if err := handler.bindJSON(c, &input); err != nil {
		return validationError(c, err.Error())
	}

	category, err := handler.categoryService.Create(userID, services.CategoryInput{
		Name:  input.Name,
		Color: input.Color,
	})
	if err != nil {
		return handler.respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(newCategoryResponse(category))
}

func (handler *Handler) GetCategory(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthorizedError(c, "unauthorized")
	}
	categoryID, err := parseIDParam(c, "id")
	if err != nil {
		return validationError(c, err.Error())
	}

	category, err := handler.categoryService.Get(userID, categoryID)
	if err != nil {
		return handler.respondError(c, err)
	}
	return c.JSON(newCategoryResponse(category))
}

func (handler *Handler) UpdateCategory(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthorizedError(c, "unauthorized")
	}
	categoryID, err := parseIDParam(c, "id")
	if err != nil {
		return validationError(c, err.Error())
	}

	var input categoryUpdateInput
	if err := handler.bindJSON(c, &input); err != nil {
		return validationError(c, err.Error())
	}

	category, err := handler.categoryService.Update(userID, categoryID, services.CategoryUpdate{
		Name:  input.Name,
		Color: input.Color,
	})
	if err != nil {
		return handler.respondError(c, err)
	}
	return c.JSON(newCategoryResponse(category))
}

func (handler *Handler) DeleteCategory(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthorizedError(c, "unauthorized")
	}
	categoryID, err := parseIDParam(c, "id")
	if err != nil {
		return validationError(c, err.Error())
	}

	if err := handler.categoryService.Delete(userID, categoryID); err != nil {
		return handler.respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (handler *Handler) AssignHabit(c *fiber.Ctx) error {
	return handler.changeHabitLink(c, handler.categoryService.AssignHabit)
}

func (handler *Handler) UnassignHabit(c *fiber.Ctx) error {
	return handler.changeHabitLink(c, handler.categoryService.UnassignHabit)
}

func (handler *Handler) changeHabitLink(c *fiber.Ctx, change func(userID uint, categoryID uint, habitID uint) error) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthorizedError(c, "unauthorized")
	}
	categoryID, err := parseIDParam(c, "id")
	if err != nil {
		return validationError(c, err.Error())
	}
	habitID, err := parseIDParam(c, "habit_id")
	if err != nil {
		return validationError(c, err.Error())
	}

	if err := change(userID, categoryID, habitID); err != nil {
		return handler.respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
