package handler

import (
	"errors"
	"strings"

	"talent-match/internal/delivery/http/middleware"
	"talent-match/internal/pkg/response"
	"talent-match/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

var invalidInputPrefix = usecase.ErrInvalidInput.Error() + ": "

func mapUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrTooManyCandidates):
		return middleware.NewAppError(fiber.StatusBadRequest, "Too many candidates", nil, err)
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, invalidInputMessage(err), nil, err)
	case errors.Is(err, usecase.ErrNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Not found", nil, err)
	case errors.Is(err, usecase.ErrNoResume):
		return middleware.NewAppError(fiber.StatusUnprocessableEntity, "Application has no resume", nil, err)
	case errors.Is(err, usecase.ErrExtractionFailed):
		return middleware.NewAppError(fiber.StatusBadGateway, response.MessageBadGateway, nil, err)
	case errors.Is(err, usecase.ErrPersistenceOff):
		return middleware.NewAppError(fiber.StatusServiceUnavailable, "Persistence is not configured", nil, err)
	case errors.Is(err, usecase.ErrQueueUnavailable):
		return middleware.NewAppError(fiber.StatusServiceUnavailable, response.MessageUnavailable, nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}

// invalidInputMessage returns the detail behind the "invalid input" prefixes.
func invalidInputMessage(err error) string {
	msg := err.Error()
	for strings.HasPrefix(msg, invalidInputPrefix) {
		msg = strings.TrimPrefix(msg, invalidInputPrefix)
	}
	if msg == "" || msg == usecase.ErrInvalidInput.Error() {
		return "Invalid input"
	}
	return msg
}
