package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/streaky/internal/services"
	"go.uber.org/zap"
)

// LogEntry is an upsert: logging the same date again returns the existing
// entry with 200.
func (handler *Handler) LogEntry(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthorizedError(c, "unauthorized")
	}
	habitID, err := parseIDParam(c, "id")
	if err != nil {
		return validationError(c, err.Error())
	}

	var input entryCreateInput
	if err := handler.bindJSON(c, &input); err != nil {
		return validationError(c, err.Error())
	}
	day, err := services.ParseDate(input.Date)
	if err != nil {
		return handler.respondError(c, err)
	}

	entry, err := handler.entryService.LogEntry(userID, habitID, day, input.Journal, handler.today())
	if err != nil {
		return handler.respondError(c, err)
	}

	handler.metrics.EntryLogged(entry.Journal != nil)
	handler.requestLogger(c).Debug("entry_logged",
		zap.Uint("habit_id", habitID),
		zap.String("date", entry.Date),
	)
	return c.JSON(newEntryResponse(entry))
}

func (handler *Handler) ListEntries(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthorizedError(c, "unauthorized")
	}
	habitID, err := parseIDParam(c, "id")
	if err != nil {
		return validationError(c, err.Error())
	}

	entries, err := handler.entryService.ListEntries(userID, habitID)
	if err != nil {
		return handler.respondError(c, err)
	}
	return c.JSON(newEntryResponses(entries))
}

func (handler *Handler) GetEntry(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthorizedError(c, "unauthorized")
	}
	habitID, err := parseIDParam(c, "id")
	if err != nil {
		return validationError(c, err.Error())
	}
	day, err := parseDateParam(c)
	if err != nil {
		return handler.respondError(c, err)
	}

	entry, err := handler.entryService.GetEntry(userID, habitID, day)
	if err != nil {
		return handler.respondError(c, err)
	}
	return c.JSON(newEntryResponse(entry))
}

func (handler *Handler) SetJournal(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthorizedError(c, "unauthorized")
	}
	habitID, err := parseIDParam(c, "id")
	if err != nil {
		return validationError(c, err.Error())
	}
	day, err := parseDateParam(c)
	if err != nil {
		return handler.respondError(c, err)
	}

	var input journalInput
	if err := handler.bindJSON(c, &input); err != nil {
		return validationError(c, err.Error())
	}
	if !input.Journal.Set {
		return validationError(c, "journal is required, use null to clear it")
	}

	entry, err := handler.entryService.SetJournal(userID, habitID, day, input.Journal.Value)
	if err != nil {
		return handler.respondError(c, err)
	}

	handler.metrics.JournalUpdated()
	return c.JSON(newEntryResponse(entry))
}

func (handler *Handler) DeleteEntry(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthorizedError(c, "unauthorized")
	}
	habitID, err := parseIDParam(c, "id")
	if err != nil {
		return validationError(c, err.Error())
	}
	day, err := parseDateParam(c)
	if err != nil {
		return handler.respondError(c, err)
	}

	if err := handler.entryService.DeleteEntry(userID, habitID, day); err != nil {
		return handler.respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
