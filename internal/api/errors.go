package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"OilLens/internal/dashboard"
	"OilLens/internal/loader"
	"OilLens/internal/window"
)

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code"`
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, window.ErrInvalidRange), errors.Is(err, dashboard.ErrInvalidParam):
		return fiber.StatusBadRequest
	case errors.Is(err, dashboard.ErrUnknownCommand):
		return fiber.StatusNotFound
	case errors.Is(err, dashboard.ErrNotLoaded), errors.Is(err, loader.ErrSourceUnavailable):
		return fiber.StatusServiceUnavailable
	case errors.Is(err, dashboard.ErrNoCollaborator):
		return fiber.StatusNotImplemented
	default:
		return fiber.StatusBadGateway
	}
}

func fail(c *fiber.Ctx, title string, err error) error {
	code := statusFor(err)
	return c.Status(code).JSON(ErrorResponse{
		Error:   title,
		Message: err.Error(),
		Code:    code,
	})
}

// CustomErrorHandler handles errors fiber raises itself, such as unmatched routes.
func CustomErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}

	return c.Status(code).JSON(ErrorResponse{
		Error:   "Request failed",
		Message: err.Error(),
		Code:    code,
	})
}
