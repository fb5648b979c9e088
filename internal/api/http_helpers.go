package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/streaky/internal/services"
	"go.uber.org/zap"
)

func apiError(c *fiber.Ctx, status int, kind services.ErrorKind, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message, "kind": string(kind)})
}

func statusForKind(kind services.ErrorKind) int {
	switch kind {
	case services.KindValidation:
		return fiber.StatusBadRequest
	case services.KindNotFound:
		return fiber.StatusNotFound
	case services.KindConflict:
		return fiber.StatusConflict
	case services.KindUnauthorized:
		return fiber.StatusUnauthorized
	default:
		return fiber.StatusInternalServerError
	}
}

// respondError maps a service error to its HTTP status. Internal causes are
// logged and never sent to the client.
func (handler *Handler) respondError(c *fiber.Ctx, err error) error {
	kind := services.KindOf(err)
	if kind == services.KindInternal {
		handler.requestLogger(c).Error("request_failed", zap.Error(err))
	}
	return apiError(c, statusForKind(kind), kind, services.PublicMessage(err))
}

func validationError(c *fiber.Ctx, message string) error {
	return apiError(c, fiber.StatusBadRequest, services.KindValidation, message)
}

func unauthorizedError(c *fiber.Ctx, message string) error {
	return apiError(c, fiber.StatusUnauthorized, services.KindUnauthorized, message)
}

// ErrorHandler renders errors that escape handlers, such as unmatched routes
// and oversized bodies, in the same JSON shape as domain errors.
func ErrorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	message := "internal error"
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		status = fiberErr.Code
		message = fiberErr.Message
	}

	kind := services.KindInternal
	switch {
	case status == fiber.StatusNotFound:
		kind = services.KindNotFound
	case status == fiber.StatusUnauthorized:
		kind = services.KindUnauthorized
	case status == fiber.StatusConflict:
		kind = services.KindConflict
	case status >= 400 && status < 500:
		kind = services.KindValidation
	}
	return apiError(c, status, kind, message)
}
