package handlers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/cv-tailor/internal/services"
)

// RequestIDKey is where the requestid middleware stores the request ID.
const RequestIDKey = "requestid"

// statusFor maps the service error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	var fiberErr *fiber.Error

	switch {
	case errors.As(err, &fiberErr):
		return fiberErr.Code
	case errors.Is(err, services.ErrServiceUnconfigured):
		return fiber.StatusServiceUnavailable
	case errors.Is(err, services.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrInvalidInput):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrAnalysisFailed):
		return fiber.StatusBadGateway
	case errors.Is(err, services.ErrPersistenceFailed):
		return fiber.StatusInternalServerError
	default:
		return fiber.StatusInternalServerError
	}
}

func writeError(c *fiber.Ctx, err error) error {
	code := statusFor(err)

	return c.Status(code).JSON(fiber.Map{
		"error":      err.Error(),
		"code":       code,
		"request_id": requestID(c),
	})
}

// ErrorHandler is the fiber ErrorHandler. It keeps the same body shape as
// errors written by the handlers themselves.
func ErrorHandler(c *fiber.Ctx, err error) error {
	return writeError(c, err)
}

func requestID(c *fiber.Ctx) string {
	if id, ok := c.Locals(RequestIDKey).(string); ok {
		return id
	}
	return ""
}

func invalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: %s", services.ErrInvalidInput, fmt.Sprintf(format, args...))
}

// paramID parses a positive numeric route parameter.
func paramID(c *fiber.Ctx, name string) (uint, error) {
	id, err := c.ParamsInt(name)
	if err != nil || id <= 0 {
		return 0, invalidInput("invalid %s", name)
	}
	return uint(id), nil
}
