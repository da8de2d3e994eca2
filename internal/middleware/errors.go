package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/example/storefront/internal/apperr"
	"github.com/example/storefront/internal/repository"
)

const internalErrorMessage = "internal server error"

// ErrorHandler renders every error returned by a handler as
//
//	{"success": false, "error": {"code": ..., "message": ..., "fields": ...}}
//
// Unclassified errors become 500s; their text is hidden when production is
// set.
func ErrorHandler(production bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status, body := describeError(err)

		if status >= fiber.StatusInternalServerError {
			slog.ErrorContext(c.UserContext(), "request failed",
				"method", c.Method(),
				"path", c.Path(),
				"error", err,
			)
			if production {
				body["message"] = internalErrorMessage
			}
		}

		return c.Status(status).JSON(fiber.Map{
			"success": false,
			"error":   body,
		})
	}
}

func describeError(err error) (int, fiber.Map) {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		body := fiber.Map{
			"code":    appErr.Kind.Code(),
			"message": appErr.Message,
		}
		if len(appErr.Fields) > 0 {
			body["fields"] = appErr.Fields
		}
		return appErr.Kind.Status(), body
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiberErr.Code, fiber.Map{
			"code":    statusCode(fiberErr.Code),
			"message": fiberErr.Message,
		}
	}

	if errors.Is(err, repository.ErrNotFound) {
		return fiber.StatusNotFound, fiber.Map{
			"code":    apperr.KindNotFound.Code(),
			"message": "not found",
		}
	}

	return fiber.StatusInternalServerError, fiber.Map{
		"code":    "internal_error",
		"message": err.Error(),
	}
}

func statusCode(status int) string {
	text := http.StatusText(status)
	if text == "" {
		return "error"
	}
	return strings.ToLower(strings.ReplaceAll(text, " ", "_"))
}
