package handler

import (
	"talent-match/internal/delivery/http/dto"
	"talent-match/internal/delivery/http/middleware"

	"github.com/gofiber/fiber/v3"
)

// bindJSON decodes the request body into out and validates it.
func bindJSON(c fiber.Ctx, out any) error {
	if err := c.Bind().JSON(out); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request body", nil, err)
	}
	fields, err := dto.Validate(out)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request body", nil, err)
	}
	if len(fields) > 0 {
		return middleware.NewAppError(fiber.StatusBadRequest, "Validation failed", fields, nil)
	}
	return nil
}
