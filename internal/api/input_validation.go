package api

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/streaky/internal/services"
)

var errInvalidPayload = errors.New("invalid payload")

func newValidator() *validator.Validate {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	return validate
}

// bindJSON decodes the body into payload and applies its validate tags.
func (handler *Handler) bindJSON(c *fiber.Ctx, payload any) error {
	if err := c.BodyParser(payload); err != nil {
		return errInvalidPayload
	}
	return handler.validateStruct(payload)
}

func (handler *Handler) validateStruct(payload any) error {
	err := handler.validate.Struct(payload)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) || len(fieldErrors) == 0 {
		return errInvalidPayload
	}
	return errors.New(describeFieldError(fieldErrors[0]))
}

func describeFieldError(fieldErr validator.FieldError) string {
	field := fieldErr.Field()
	switch fieldErr.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fieldErr.Param())
	case "datetime":
		if fieldErr.Param() == "15:04" {
			return fmt.Sprintf("%s must be HH:MM", field)
		}
		return fmt.Sprintf("%s must be YYYY-MM-DD", field)
	case "hexcolor":
		return fmt.Sprintf("%s must be #RRGGBB", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

func parseIDParam(c *fiber.Ctx, name string) (uint, error) {
	raw := strings.TrimSpace(c.Params(name))
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%s must be a positive integer", name)
	}
	return uint(id), nil
}

func parseOptionalIDQuery(c *fiber.Ctx, name string) (*uint, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return nil, fmt.Errorf("%s must be a positive integer", name)
	}
	value := uint(id)
	return &value, nil
}

func parseDateParam(c *fiber.Ctx) (time.Time, error) {
	return services.ParseDate(c.Params("date"))
}

// parseMonthQuery defaults missing year or month to today's.
func parseMonthQuery(c *fiber.Ctx, today time.Time) (int, int, error) {
	year := today.Year()
	month := int(today.Month())

	if raw := strings.TrimSpace(c.Query("year")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return 0, 0, services.ErrInvalidYear
		}
		year = parsed
	}
	if raw := strings.TrimSpace(c.Query("month")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return 0, 0, services.ErrInvalidMonth
		}
		month = parsed
	}
	return year, month, nil
}

func toServiceOptional(field optionalString) services.OptionalString {
	return services.OptionalString{Set: field.Set, Value: field.Value}
}
