package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"letterapi/internal/apperr"
	"letterapi/internal/http/middleware"
)

// errorPayload is the JSON body of every error response.
type errorPayload struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	Field     string `json:"field,omitempty"`
	RequestID string `json:"request_id"`
}

// writeError writes a JSON error response. message must be safe to show to
// the caller.
func writeError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(errorPayload{
		Error:     message,
		Code:      code,
		RequestID: middleware.RequestIDFromCtx(c),
	})
}

// writePipelineError maps a tagged pipeline error to its response.
// Invalid requests are the caller's fault; every stage failure is a 500.
func writePipelineError(c *fiber.Ctx, err error) error {
	var e *apperr.Error
	if !errors.As(err, &e) {
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}

	status := fiber.StatusInternalServerError
	if e.Kind == apperr.KindInvalidRequest {
		status = fiber.StatusBadRequest
	}
	return c.Status(status).JSON(errorPayload{
		Error:     e.Error(),
		Code:      string(e.Kind),
		Field:     e.Field,
		RequestID: middleware.RequestIDFromCtx(c),
	})
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		case fiber.StatusRequestEntityTooLarge:
			return writeError(c, status, "PAYLOAD_TOO_LARGE", "request body too large")
		default:
			return writeError(c, status, "INTERNAL_ERROR", "internal server error")
		}
	}
}
