package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"talent-match/internal/domain/matching"
	"talent-match/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type analysisFixture struct {
	uc         *ApplicationAnalysis
	apps       *mockApplicationRepo
	extractor  *mockExtractor
	notifier   *mockNotifier
	dispatcher *mockDispatcher
	app        repository.ApplicationForAnalysis
}

func newAnalysisFixture() analysisFixture {
	app := repository.ApplicationForAnalysis{
		ID:             uuid.New(),
		JobID:          uuid.New(),
		JobTitle:       "Backend Engineer",
		RequiredSkills: []string{"Go", "PostgreSQL", "Kubernetes"},
		ResumeURL:      "https://files.example.com/cv.pdf",
	}
	apps := newMockApplicationRepo()
	apps.forAnalysis[app.ID] = app

	f := analysisFixture{
		apps:       apps,
		extractor:  &mockExtractor{skills: []string{"golang", "PostgreSQL", "Go"}},
		notifier:   &mockNotifier{},
		dispatcher: &mockDispatcher{},
		app:        app,
	}
	f.uc = NewApplicationAnalysisUsecase(AnalysisDeps{
		Applications: apps,
		Extractor:    f.extractor,
		Notifier:     f.notifier,
		Dispatcher:   f.dispatcher,
		Now:          func() time.Time { return testNow },
	})
	return f
}

func TestApplicationAnalysis_AnalyzeApplication(t *testing.T) {
	f := newAnalysisFixture()

	got, err := f.uc.AnalyzeApplication(context.Background(), f.app.ID)
	require.NoError(t, err)

	assert.Equal(t, []string{"https://files.example.com/cv.pdf"}, f.extractor.urls)
	assert.Equal(t, []string{"golang", "postgresql", "go"}, got.ExtractedSkills)
	assert.Equal(t, []string{"Go", "PostgreSQL"}, got.MatchedSkills)
	assert.Equal(t, []string{"Kubernetes"}, got.MissingSkills)
	assert.InDelta(t, 66.67, got.MatchPercentage, 1e-9)
	assert.Equal(t, matching.AnalysisRecommended, got.Recommendation)
	assert.Equal(t, testNow, got.AnalyzedAt)

	assert.Equal(t, got, f.apps.analyses[f.app.ID])
	require.Len(t, f.notifier.events, 1)
	assert.Equal(t, f.app.JobID, f.notifier.events[0].jobID)
}

func TestApplicationAnalysis_AnalyzeApplication_Errors(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		f := newAnalysisFixture()
		_, err := f.uc.AnalyzeApplication(context.Background(), uuid.New())
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("no resume", func(t *testing.T) {
		f := newAnalysisFixture()
		app := f.app
		app.ResumeURL = " "
		f.apps.forAnalysis[app.ID] = app
		_, err := f.uc.AnalyzeApplication(context.Background(), app.ID)
		assert.ErrorIs(t, err, ErrNoResume)
		assert.Empty(t, f.extractor.urls)
	})

	t.Run("extractor failure", func(t *testing.T) {
		f := newAnalysisFixture()
		f.extractor.err = errors.New("status=500")
		_, err := f.uc.AnalyzeApplication(context.Background(), f.app.ID)
		assert.ErrorIs(t, err, ErrExtractionFailed)
		assert.Empty(t, f.apps.analyses)
		assert.Empty(t, f.notifier.events)
	})

	t.Run("persistence failure", func(t *testing.T) {
		f := newAnalysisFixture()
		f.apps.saveErr = errors.New("db down")
		_, err := f.uc.AnalyzeApplication(context.Background(), f.app.ID)
		assert.ErrorIs(t, err, ErrInternal)
		assert.Empty(t, f.notifier.events)
	})

	t.Run("nil id", func(t *testing.T) {
		f := newAnalysisFixture()
		_, err := f.uc.AnalyzeApplication(context.Background(), uuid.Nil)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestApplicationAnalysis_RequestAnalysis(t *testing.T) {
	f := newAnalysisFixture()

	require.NoError(t, f.uc.RequestAnalysis(context.Background(), f.app.ID))
	assert.Equal(t, []uuid.UUID{f.app.ID}, f.dispatcher.ids)
	assert.Empty(t, f.extractor.urls)

	err := f.uc.RequestAnalysis(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Len(t, f.dispatcher.ids, 1)

	f.dispatcher.err = errors.New("worker queue full")
	err = f.uc.RequestAnalysis(context.Background(), f.app.ID)
	assert.ErrorIs(t, err, ErrQueueUnavailable)
}

func TestApplicationAnalysis_RequestAnalysis_NoDispatcher(t *testing.T) {
	f := newAnalysisFixture()
	uc := NewApplicationAnalysisUsecase(AnalysisDeps{Applications: f.apps, Extractor: f.extractor})
	assert.ErrorIs(t, uc.RequestAnalysis(context.Background(), f.app.ID), ErrQueueUnavailable)
}

func TestApplicationAnalysis_WithoutPersistence(t *testing.T) {
	uc := NewApplicationAnalysisUsecase(AnalysisDeps{})

	_, err := uc.AnalyzeApplication(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrPersistenceOff)
	assert.ErrorIs(t, uc.RequestAnalysis(context.Background(), uuid.New()), ErrPersistenceOff)
}
