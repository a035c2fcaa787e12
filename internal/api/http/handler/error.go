package handler

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/dtroode/accounts-server/internal/apierror"
	"github.com/dtroode/accounts-server/internal/logger"
	"github.com/dtroode/accounts-server/internal/model"
)

// DetailResponse is the body of every error and of delete confirmations.
type DetailResponse struct {
	Detail string `json:"detail"`
}

func handleError(err error) *apierror.APIError {
	var apiErr *apierror.APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	switch {
	case errors.Is(err, model.ErrNotFound):
		return apierror.NewErrUserNotFound()
	case errors.Is(err, model.ErrConflict):
		return apierror.NewErrUserAlreadyExists()
	default:
		return apierror.NewErrInternalServerError(err)
	}
}

// ErrorHandler renders errors returned by routes and middleware as {"detail": ...}.
func ErrorHandler(logger *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(DetailResponse{Detail: http.StatusText(fiberErr.Code)})
		}

		apiErr := handleError(err)
		if apiErr.Status >= http.StatusInternalServerError {
			logger.Error("HTTP: internal error",
				"method", c.Method(),
				"path", c.Path(),
				"error", err.Error())
		}

		for key, value := range apiErr.Headers {
			c.Set(key, value)
		}

		return c.Status(apiErr.Status).JSON(DetailResponse{Detail: apiErr.Detail})
	}
}
