package api

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	contextUserIDKey    = "user_id"
	contextRequestIDKey = "request_id"
	requestIDHeader     = "X-Request-ID"
	maxRequestIDLength  = 128
)

// RequestContext stamps a request id, then records the request in the log
// and in the HTTP metrics once the handler chain returns.
func (handler *Handler) RequestContext(c *fiber.Ctx) error {
	start := time.Now()

	requestID := utils.CopyString(strings.TrimSpace(c.Get(requestIDHeader)))
	if requestID == "" || len(requestID) > maxRequestIDLength {
		requestID = uuid.NewString()
	}
	c.Locals(contextRequestIDKey, requestID)
	c.Set(requestIDHeader, requestID)

	chainErr := c.Next()
	if chainErr != nil {
		if err := c.App().ErrorHandler(c, chainErr); err != nil {
			_ = c.SendStatus(fiber.StatusInternalServerError)
		}
	}

	path := c.Route().Path
	if path == "" || path == "/" && c.Path() != "/" {
		path = "unmatched"
	}
	// Fiber reuses the request buffer; the label must outlive it.
	method := utils.CopyString(c.Method())
	status := c.Response().StatusCode()
	elapsed := time.Since(start)

	handler.metrics.ObserveRequest(method, path, status, elapsed)
	handler.requestLogger(c).Info("http_request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", status),
		zap.Float64("duration", elapsed.Seconds()),
		zap.String("client_ip", c.IP()),
	)
	return nil
}

func (handler *Handler) requestLogger(c *fiber.Ctx) *zap.Logger {
	requestID, _ := c.Locals(contextRequestIDKey).(string)
	if requestID == "" {
		return handler.logger
	}
	return handler.logger.With(zap.String("request_id", requestID))
}

func (handler *Handler) AuthRequired(c *fiber.Ctx) error {
	userID, err := handler.authenticateRequest(c)
	if err != nil {
		c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
		return unauthorizedError(c, "could not validate credentials")
	}

	c.Locals(contextUserIDKey, userID)
	return c.Next()
}

func currentUserID(c *fiber.Ctx) (uint, bool) {
	userID, ok := c.Locals(contextUserIDKey).(uint)
	return userID, ok && userID != 0
}
