package routes

import (
	"talent-match/internal/delivery/http/handler"
	"talent-match/internal/delivery/http/middleware"

	"github.com/gofiber/fiber/v3"
)

type Registry struct {
	health     *handler.HealthHandler
	evaluation *handler.EvaluationHandler
	analysis   *handler.AnalysisHandler
	auth       *middleware.AuthMiddleware
}

type Handlers struct {
	Health     *handler.HealthHandler
	Evaluation *handler.EvaluationHandler
	Analysis   *handler.AnalysisHandler
	Auth       *middleware.AuthMiddleware
}

func NewRegistry(h Handlers) *Registry {
	return &Registry{
		health:     h.Health,
		evaluation: h.Evaluation,
		analysis:   h.Analysis,
		auth:       h.Auth,
	}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.registerHealth(app)
	r.registerAPI(app)
}

func (r *Registry) registerHealth(app *fiber.App) {
	if r.health != nil {
		r.health.RegisterRoutes(app)
	}
}

func (r *Registry) registerAPI(app *fiber.App) {
	v1 := app.Group("/api").Group("/v1")

	protected := v1
	if r.auth != nil {
		protected = v1.Group("", r.auth.Middleware())
	}

	if r.evaluation != nil {
		r.evaluation.RegisterRoutes(protected)
	}
	if r.analysis != nil {
		r.analysis.RegisterRoutes(protected)
	}
}
