package handler

import (
	"talent-match/internal/delivery/http/dto"
	"talent-match/internal/delivery/http/middleware"
	"talent-match/internal/pkg/response"
	"talent-match/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type AnalysisHandler struct {
	uc usecase.ApplicationAnalysisUsecase
}

func NewAnalysisHandler(uc usecase.ApplicationAnalysisUsecase) *AnalysisHandler {
	return &AnalysisHandler{uc: uc}
}

func (h *AnalysisHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	grp := r.Group("/applications")
	grp.Post("/:application_id/analysis", h.Analyze)
	grp.Post("/:application_id/analysis/async", h.RequestAnalysis)
}

func (h *AnalysisHandler) Analyze(c fiber.Ctx) error {
	id, err := applicationID(c)
	if err != nil {
		return err
	}

	a, err := h.uc.AnalyzeApplication(c.Context(), id)
	if err != nil {
		return mapUsecaseError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewSkillAnalysisResponse(id, a))
}

func (h *AnalysisHandler) RequestAnalysis(c fiber.Ctx) error {
	id, err := applicationID(c)
	if err != nil {
		return err
	}

	if err := h.uc.RequestAnalysis(c.Context(), id); err != nil {
		return mapUsecaseError(err)
	}

	return response.Success(c, fiber.StatusAccepted, response.MessageAccepted, dto.AnalysisAcceptedResponse{
		ApplicationID: id,
		Status:        "queued",
	})
}

func applicationID(c fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("application_id"))
	if err != nil {
		return uuid.Nil, middleware.NewAppError(fiber.StatusBadRequest, "Invalid application id", nil, err)
	}
	return id, nil
}
