package handler

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"talent-match/internal/delivery/http/dto"
	"talent-match/internal/delivery/http/middleware"
	"talent-match/internal/domain/matching"
	"talent-match/internal/export"
	"talent-match/internal/pkg/response"
	"talent-match/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type EvaluationHandler struct {
	uc usecase.EvaluationUsecase
}

func NewEvaluationHandler(uc usecase.EvaluationUsecase) *EvaluationHandler {
	return &EvaluationHandler{uc: uc}
}

func (h *EvaluationHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Post("/evaluations", h.Evaluate)
	r.Post("/evaluations/export", h.Export)
	r.Post("/jobs/:job_id/evaluations", h.EvaluateJob)
}

func (h *EvaluationHandler) Evaluate(c fiber.Ctx) error {
	report, err := h.evaluate(c)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewEvaluationReportResponse(report))
}

func (h *EvaluationHandler) Export(c fiber.Ctx) error {
	report, err := h.evaluate(c)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := export.WriteReport(&buf, report); err != nil {
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}

	c.Set(fiber.HeaderContentType, export.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, reportFilename(report.JobTitle)))
	return c.Status(fiber.StatusOK).Send(buf.Bytes())
}

func (h *EvaluationHandler) EvaluateJob(c fiber.Ctx) error {
	jobID, err := uuid.Parse(c.Params("job_id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid job id", nil, err)
	}

	res, err := h.uc.EvaluateJob(c.Context(), jobID)
	if err != nil {
		return mapUsecaseError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.JobEvaluationResponse{
		ReportID: res.ReportID,
		JobID:    res.JobID,
		Report:   dto.NewEvaluationReportResponse(res.Report),
	})
}

func (h *EvaluationHandler) evaluate(c fiber.Ctx) (matching.EvaluationReport, error) {
	var req dto.EvaluateRequest
	if err := bindJSON(c, &req); err != nil {
		return matching.EvaluationReport{}, err
	}

	report, err := h.uc.Evaluate(c.Context(), req.Input())
	if err != nil {
		return matching.EvaluationReport{}, mapUsecaseError(err)
	}
	return report, nil
}

var unsafeFilenameChars = regexp.MustCompile(`[^a-z0-9]+`)

func reportFilename(jobTitle string) string {
	slug := strings.Trim(unsafeFilenameChars.ReplaceAllString(strings.ToLower(jobTitle), "-"), "-")
	if slug == "" {
		slug = "evaluation"
	}
	return slug + "-report.xlsx"
}
