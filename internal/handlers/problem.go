package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	problemTypeBadRequest = "https://tools.ietf.org/html/rfc9110#section-15.5.1"
	problemTypeNotFound   = "https://tools.ietf.org/html/rfc9110#section-15.5.5"
	problemTypeServer     = "https://tools.ietf.org/html/rfc9110#section-15.6.1"

	validationTitle = "One or more validation errors occurred."
)

// Problem is an RFC 9457 problem details body.
type Problem struct {
	Type   string              `json:"type"`
	Title  string              `json:"title"`
	Status int                 `json:"status"`
	Detail string              `json:"detail,omitempty"`
	Errors map[string][]string `json:"errors,omitempty"`
}

// ValidationProblem responds 400 with per-field messages.
func ValidationProblem(c *fiber.Ctx, errs map[string][]string) error {
	return writeProblem(c, Problem{
		Type:   problemTypeBadRequest,
		Title:  validationTitle,
		Status: fiber.StatusBadRequest,
		Errors: errs,
	})
}

// BadRequestProblem responds 400 with a detail message.
func BadRequestProblem(c *fiber.Ctx, detail string) error {
	return writeProblem(c, Problem{
		Type:   problemTypeBadRequest,
		Title:  "Bad Request",
		Status: fiber.StatusBadRequest,
		Detail: detail,
	})
}

// NotFoundProblem responds 404.
func NotFoundProblem(c *fiber.Ctx) error {
	return writeProblem(c, Problem{
		Type:   problemTypeNotFound,
		Title:  "Not Found",
		Status: fiber.StatusNotFound,
	})
}

// ServerProblem responds with a 5xx problem carrying detail.
func ServerProblem(c *fiber.Ctx, status int, detail string) error {
	return writeProblem(c, Problem{
		Type:   problemTypeServer,
		Title:  "An error occurred while processing your request.",
		Status: status,
		Detail: detail,
	})
}

func writeProblem(c *fiber.Ctx, p Problem) error {
	c.Status(p.Status)
	if err := c.JSON(p); err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "application/problem+json")
	return nil
}

// ErrorHandler renders errors that escaped a handler as problem bodies.
// Anything that is not a *fiber.Error becomes a 500 and is logged.
func ErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			if fe.Code == fiber.StatusNotFound {
				return NotFoundProblem(c)
			}
			return writeProblem(c, Problem{
				Type:   "about:blank",
				Title:  fe.Message,
				Status: fe.Code,
			})
		}

		logger.Error("Unhandled request error",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		return ServerProblem(c, fiber.StatusInternalServerError, "An unexpected error occurred.")
	}
}
