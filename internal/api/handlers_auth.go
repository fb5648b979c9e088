package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/terraincognita07/streaky/internal/services"
	"go.uber.org/zap"
)

func (handler *Handler) Register(c *fiber.Ctx) error {
	var input credentialsInput
	if err := handler.bindJSON(c, &input); err != nil {
		return validationError(c, err.Error())
	}

	user, err := handler.authService.Register(input.Username, input.Password)
	if err != nil {
		return handler.respondError(c, err)
	}

	handler.requestLogger(c).Info("user_registered", zap.Uint("user_id", user.ID))
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":       user.ID,
		"username": user.Username,
	})
}

// Token accepts form or JSON credentials and issues a bearer token.
// Failures are counted per client IP.
func (handler *Handler) Token(c *fiber.Ctx) error {
	limiterKey := requestLimiterKey(c)
	blocked, err := handler.limiter.TooManyRecent(c.UserContext(), limiterKey)
	if err != nil {
		handler.requestLogger(c).Warn("login_limiter_unavailable", zap.Error(err))
	}
	if blocked {
		return apiError(c, fiber.StatusTooManyRequests, services.KindUnauthorized, "too many login attempts, try again later")
	}

	var input credentialsInput
	if err := c.BodyParser(&input); err != nil {
		return validationError(c, errInvalidPayload.Error())
	}

	user, err := handler.authService.Authenticate(input.Username, input.Password)
	if err != nil {
		if services.KindOf(err) == services.KindUnauthorized {
			if limiterErr := handler.limiter.AddFailure(c.UserContext(), limiterKey); limiterErr != nil {
				handler.requestLogger(c).Warn("login_limiter_unavailable", zap.Error(limiterErr))
			}
			c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
		}
		return handler.respondError(c, err)
	}
	if err := handler.limiter.Reset(c.UserContext(), limiterKey); err != nil {
		handler.requestLogger(c).Warn("login_limiter_unavailable", zap.Error(err))
	}

	token, err := handler.buildToken(user)
	if err != nil {
		handler.requestLogger(c).Error("token_sign_failed", zap.Error(err))
		return apiError(c, fiber.StatusInternalServerError, services.KindInternal, "failed to issue token")
	}
	return c.JSON(fiber.Map{
		"access_token": token,
		"token_type":   "bearer",
	})
}

func requestLimiterKey(c *fiber.Ctx) string {
	key := utils.CopyString(strings.TrimSpace(c.IP()))
	if key == "" {
		return "unknown"
	}
	return key
}
