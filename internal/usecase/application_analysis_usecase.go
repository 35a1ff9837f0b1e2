package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"talent-match/internal/domain/matching"
	"talent-match/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type SkillExtractor interface {
	ExtractSkills(ctx context.Context, resumeURL string) ([]string, error)
}

type AnalysisNotifier interface {
	NotifyAnalysisCompleted(applicationID, jobID uuid.UUID, analysis matching.SkillAnalysis)
}

type AnalysisDispatcher interface {
	Dispatch(ctx context.Context, applicationID uuid.UUID) error
}

type ApplicationAnalysisUsecase interface {
	AnalyzeApplication(ctx context.Context, applicationID uuid.UUID) (matching.SkillAnalysis, error)
	RequestAnalysis(ctx context.Context, applicationID uuid.UUID) error
}

type AnalysisDeps struct {
	Applications repository.ApplicationRepository
	Extractor    SkillExtractor
	Notifier     AnalysisNotifier
	Dispatcher   AnalysisDispatcher
	Now          func() time.Time
	Log          *zap.Logger
}

type ApplicationAnalysis struct {
	applications repository.ApplicationRepository
	extractor    SkillExtractor
	notifier     AnalysisNotifier
	dispatcher   AnalysisDispatcher
	now          func() time.Time
	log          *zap.Logger
}

func NewApplicationAnalysisUsecase(d AnalysisDeps) *ApplicationAnalysis {
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	return &ApplicationAnalysis{
		applications: d.Applications,
		extractor:    d.Extractor,
		notifier:     d.Notifier,
		dispatcher:   d.Dispatcher,
		now:          d.Now,
		log:          d.Log.Named("analysis"),
	}
}

var _ ApplicationAnalysisUsecase = (*ApplicationAnalysis)(nil)

func (u *ApplicationAnalysis) AnalyzeApplication(ctx context.Context, applicationID uuid.UUID) (matching.SkillAnalysis, error) {
	app, err := u.load(ctx, applicationID)
	if err != nil {
		return matching.SkillAnalysis{}, err
	}

	if u.extractor == nil {
		return matching.SkillAnalysis{}, fmt.Errorf("%w: no extractor configured", ErrExtractionFailed)
	}
	extracted, err := u.extractor.ExtractSkills(ctx, app.ResumeURL)
	if err != nil {
		return matching.SkillAnalysis{}, fmt.Errorf("%w: %w", ErrExtractionFailed, err)
	}

	analysis := matching.AnalyzeSkills(extracted, app.RequiredSkills)
	analysis.AnalyzedAt = u.now().UTC()

	if err := u.applications.SaveSkillAnalysis(ctx, app.ID, analysis); err != nil {
		if errors.Is(err, repository.ErrApplicationNotFound) {
			return matching.SkillAnalysis{}, fmt.Errorf("%w: application %s", ErrNotFound, applicationID)
		}
		return matching.SkillAnalysis{}, internal(err)
	}

	if u.notifier != nil {
		u.notifier.NotifyAnalysisCompleted(app.ID, app.JobID, analysis)
	}

	u.log.Info("application analyzed",
		zap.String("application_id", app.ID.String()),
		zap.String("job_title", app.JobTitle),
		zap.Float64("match_percentage", analysis.MatchPercentage),
		zap.String("recommendation", analysis.Recommendation),
	)
	return analysis, nil
}

// RequestAnalysis validates the application and hands it to the dispatcher.
// The analysis itself runs later and reports failures through the log only.
func (u *ApplicationAnalysis) RequestAnalysis(ctx context.Context, applicationID uuid.UUID) error {
	if _, err := u.load(ctx, applicationID); err != nil {
		return err
	}
	if u.dispatcher == nil {
		return ErrQueueUnavailable
	}
	if err := u.dispatcher.Dispatch(ctx, applicationID); err != nil {
		u.log.Warn("analysis dispatch failed", zap.String("application_id", applicationID.String()), zap.Error(err))
		return fmt.Errorf("%w: %w", ErrQueueUnavailable, err)
	}
	return nil
}

func (u *ApplicationAnalysis) load(ctx context.Context, applicationID uuid.UUID) (repository.ApplicationForAnalysis, error) {
	if applicationID == uuid.Nil {
		return repository.ApplicationForAnalysis{}, fmt.Errorf("%w: application id is required", ErrInvalidInput)
	}
	if u.applications == nil {
		return repository.ApplicationForAnalysis{}, ErrPersistenceOff
	}
	app, err := u.applications.GetForAnalysis(ctx, applicationID)
	if err != nil {
		if errors.Is(err, repository.ErrApplicationNotFound) {
			return repository.ApplicationForAnalysis{}, fmt.Errorf("%w: application %s", ErrNotFound, applicationID)
		}
		return repository.ApplicationForAnalysis{}, internal(err)
	}
	if strings.TrimSpace(app.ResumeURL) == "" {
		return repository.ApplicationForAnalysis{}, ErrNoResume
	}
	return app, nil
}
