package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"talent-match/internal/domain/matching"
	"talent-match/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const persistConcurrency = 8

type EvaluateInput struct {
	JobTitle       string                      `json:"jobTitle"`
	RequiredSkills []string                    `json:"requiredSkills"`
	ExperienceTier string                      `json:"experienceTier"`
	Candidates     []matching.CandidateProfile `json:"candidates"`
}

type JobEvaluation struct {
	ReportID uuid.UUID
	JobID    uuid.UUID
	Report   matching.EvaluationReport
}

type ReportCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
}

type EvaluationUsecase interface {
	Evaluate(ctx context.Context, in EvaluateInput) (matching.EvaluationReport, error)
	EvaluateJob(ctx context.Context, jobID uuid.UUID) (JobEvaluation, error)
}

type EvaluationDeps struct {
	Evaluator     *matching.Evaluator
	Jobs          repository.JobRepository
	Applications  repository.ApplicationRepository
	Reports       repository.EvaluationReportRepository
	Cache         ReportCache
	MaxCandidates int
	Log           *zap.Logger
}

type Evaluation struct {
	evaluator     *matching.Evaluator
	jobs          repository.JobRepository
	applications  repository.ApplicationRepository
	reports       repository.EvaluationReportRepository
	cache         ReportCache
	maxCandidates int
	log           *zap.Logger
}

func NewEvaluationUsecase(d EvaluationDeps) *Evaluation {
	if d.Evaluator == nil {
		d.Evaluator = matching.NewEvaluator(nil, 0)
	}
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	return &Evaluation{
		evaluator:     d.Evaluator,
		jobs:          d.Jobs,
		applications:  d.Applications,
		reports:       d.Reports,
		cache:         d.Cache,
		maxCandidates: d.MaxCandidates,
		log:           d.Log.Named("evaluation"),
	}
}

var _ EvaluationUsecase = (*Evaluation)(nil)

func (u *Evaluation) Evaluate(ctx context.Context, in EvaluateInput) (matching.EvaluationReport, error) {
	if len(in.Candidates) == 0 {
		return matching.EvaluationReport{}, fmt.Errorf("%w: no candidates to evaluate", ErrInvalidInput)
	}
	if u.maxCandidates > 0 && len(in.Candidates) > u.maxCandidates {
		return matching.EvaluationReport{}, fmt.Errorf("%w: %d exceeds the limit of %d", ErrTooManyCandidates, len(in.Candidates), u.maxCandidates)
	}

	var key string
	if u.cache != nil {
		key = EvaluationCacheKey(in, u.evaluator.Weights(), u.evaluator.Threshold(), u.evaluator.Now())
		var cached matching.EvaluationReport
		found, err := u.cache.GetJSON(ctx, key, &cached)
		if err != nil {
			u.log.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		}
		if found {
			u.log.Debug("evaluation served from cache", zap.String("key", key))
			return cached, nil
		}
	}

	job := matching.JobRequirement{
		Title:          in.JobTitle,
		RequiredSkills: in.RequiredSkills,
		Tier:           matching.ParseTier(in.ExperienceTier),
	}
	report, err := u.evaluate(job, in.Candidates)
	if err != nil {
		return matching.EvaluationReport{}, err
	}

	if u.cache != nil {
		if err := u.cache.SetJSON(ctx, key, report, 0); err != nil {
			u.log.Warn("cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return report, nil
}

func (u *Evaluation) EvaluateJob(ctx context.Context, jobID uuid.UUID) (JobEvaluation, error) {
	if jobID == uuid.Nil {
		return JobEvaluation{}, fmt.Errorf("%w: job id is required", ErrInvalidInput)
	}
	if u.jobs == nil || u.applications == nil || u.reports == nil {
		return JobEvaluation{}, ErrPersistenceOff
	}

	job, err := u.jobs.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, repository.ErrJobNotFound) {
			return JobEvaluation{}, fmt.Errorf("%w: job %s", ErrNotFound, jobID)
		}
		return JobEvaluation{}, internal(err)
	}

	applicants, err := u.applications.ListApplicantsByJob(ctx, jobID)
	if err != nil {
		return JobEvaluation{}, internal(err)
	}
	if len(applicants) == 0 {
		return JobEvaluation{}, fmt.Errorf("%w: job %s has no applications", ErrInvalidInput, jobID)
	}

	profiles := make([]matching.CandidateProfile, 0, len(applicants))
	applicationByCandidate := make(map[string]uuid.UUID, len(applicants))
	for _, a := range applicants {
		p := a.ToProfile()
		profiles = append(profiles, p)
		applicationByCandidate[p.ID] = a.ApplicationID
	}

	report, err := u.evaluate(matching.JobRequirement{
		Title:          job.Title,
		RequiredSkills: job.Skills,
		Tier:           matching.ParseTier(job.ExperienceLevel),
	}, profiles)
	if err != nil {
		return JobEvaluation{}, err
	}

	reportID, err := u.reports.Save(ctx, &jobID, report)
	if err != nil {
		return JobEvaluation{}, internal(err)
	}

	if err := u.persistScores(ctx, report, applicationByCandidate); err != nil {
		return JobEvaluation{}, internal(err)
	}

	u.log.Info("job evaluated",
		zap.String("job_id", jobID.String()),
		zap.String("report_id", reportID.String()),
		zap.Int("candidates", report.TotalCandidates),
		zap.Int("shortlisted", len(report.Shortlisted)),
	)
	return JobEvaluation{ReportID: reportID, JobID: jobID, Report: report}, nil
}

func (u *Evaluation) evaluate(job matching.JobRequirement, candidates []matching.CandidateProfile) (matching.EvaluationReport, error) {
	report, err := u.evaluator.Evaluate(job, candidates)
	if err != nil {
		if errors.Is(err, matching.ErrInvalidInput) {
			return matching.EvaluationReport{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		return matching.EvaluationReport{}, internal(err)
	}
	return report, nil
}

func (u *Evaluation) persistScores(ctx context.Context, report matching.EvaluationReport, applicationByCandidate map[string]uuid.UUID) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(persistConcurrency)

	save := func(b matching.ScoreBreakdown) {
		appID, ok := applicationByCandidate[b.CandidateID]
		if !ok {
			return
		}
		g.Go(func() error {
			return u.applications.SaveScore(gctx, repository.ScoreUpdate{
				ApplicationID:  appID,
				Score:          b.Score,
				Recommendation: string(b.Recommendation),
				MatchedSkills:  b.MatchedSkills,
			})
		})
	}
	for _, b := range report.Shortlisted {
		save(b)
	}
	for _, b := range report.NotShortlisted {
		save(b)
	}
	return g.Wait()
}
