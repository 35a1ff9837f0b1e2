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

func yearsAgo(n int) *time.Time {
	t := testNow.AddDate(-n, 0, 0)
	return &t
}

func sampleInput() EvaluateInput {
	return EvaluateInput{
		JobTitle:       "Backend Engineer",
		RequiredSkills: []string{"Go", "PostgreSQL", "Docker"},
		ExperienceTier: "Mid Level",
		Candidates: []matching.CandidateProfile{
			{
				ID: "a", Name: "Ada", Email: "ada@example.com",
				Skills:       []string{"Go", "PostgreSQL", "Docker"},
				Experience:   []matching.ExperienceEntry{{Start: yearsAgo(4), IsCurrent: true}},
				HasEducation: true, HasResume: true,
			},
			{ID: "b", Name: "Bob", Email: "bob@example.com", Skills: []string{}},
		},
	}
}

func TestEvaluation_Evaluate(t *testing.T) {
	uc := NewEvaluationUsecase(EvaluationDeps{Evaluator: testEvaluator()})

	report, err := uc.Evaluate(context.Background(), sampleInput())
	require.NoError(t, err)

	assert.Equal(t, "Backend Engineer", report.JobTitle)
	assert.Equal(t, 2, report.TotalCandidates)
	require.Len(t, report.Shortlisted, 1)
	assert.Equal(t, "a", report.Shortlisted[0].CandidateID)
	require.Len(t, report.NotShortlisted, 1)
	assert.Equal(t, 0, report.NotShortlisted[0].Score)
}

func TestEvaluation_Evaluate_InvalidInput(t *testing.T) {
	uc := NewEvaluationUsecase(EvaluationDeps{Evaluator: testEvaluator(), MaxCandidates: 1})

	tests := []struct {
		name   string
		mutate func(*EvaluateInput)
		target error
	}{
		{name: "no candidates", mutate: func(in *EvaluateInput) { in.Candidates = nil }, target: ErrInvalidInput},
		{name: "blank title", mutate: func(in *EvaluateInput) { in.JobTitle = "  "; in.Candidates = in.Candidates[:1] }, target: ErrInvalidInput},
		{name: "missing skills", mutate: func(in *EvaluateInput) { in.RequiredSkills = nil; in.Candidates = in.Candidates[:1] }, target: matching.ErrInvalidInput},
		{name: "too many candidates", mutate: func(*EvaluateInput) {}, target: ErrTooManyCandidates},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := sampleInput()
			tt.mutate(&in)
			_, err := uc.Evaluate(context.Background(), in)
			require.ErrorIs(t, err, tt.target)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestEvaluation_Evaluate_UsesCache(t *testing.T) {
	cache := newMockCache()
	uc := NewEvaluationUsecase(EvaluationDeps{Evaluator: testEvaluator(), Cache: cache})

	first, err := uc.Evaluate(context.Background(), sampleInput())
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets)

	second, err := uc.Evaluate(context.Background(), sampleInput())
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets)
	assert.Equal(t, 2, cache.gets)
	assert.Equal(t, first, second)
}

func TestEvaluation_Evaluate_CacheErrorFallsThrough(t *testing.T) {
	cache := newMockCache()
	cache.getErr = errors.New("connection reset")
	uc := NewEvaluationUsecase(EvaluationDeps{Evaluator: testEvaluator(), Cache: cache})

	report, err := uc.Evaluate(context.Background(), sampleInput())
	require.NoError(t, err)
	assert.Equal(t, 2, report.TotalCandidates)
}

func TestEvaluationCacheKey(t *testing.T) {
	w := matching.DefaultWeights()
	in := sampleInput()

	k1 := EvaluationCacheKey(in, w, 60, testNow)
	assert.Equal(t, k1, EvaluationCacheKey(in, w, 60, testNow.Add(3*time.Hour)))

	tier := in
	tier.ExperienceTier = "mid_level"
	assert.Equal(t, k1, EvaluationCacheKey(tier, w, 60, testNow))

	assert.NotEqual(t, k1, EvaluationCacheKey(in, w, 70, testNow))
	assert.NotEqual(t, k1, EvaluationCacheKey(in, w, 60, testNow.AddDate(0, 0, 1)))

	other := sampleInput()
	other.Candidates[1].HasResume = true
	assert.NotEqual(t, k1, EvaluationCacheKey(other, w, 60, testNow))
}

func jobFixture() (repository.Job, []repository.Applicant) {
	job := repository.Job{ID: uuid.New(), Title: "Data Engineer", Skills: []string{"Python", "SQL"}, ExperienceLevel: "Senior"}
	applicants := []repository.Applicant{
		{
			ApplicationID: uuid.New(), CandidateID: uuid.New(), Name: "Grace", Email: "grace@example.com",
			Skills:       []string{"python", "sql", "spark"},
			Experience:   []repository.ExperienceRecord{{StartDate: yearsAgo(8), IsCurrent: true}},
			HasEducation: true, ResumeURL: "https://files.example.com/grace.pdf",
		},
		{ApplicationID: uuid.New(), CandidateID: uuid.New(), Name: "Linus", Email: "linus@example.com"},
	}
	return job, applicants
}

func TestEvaluation_EvaluateJob(t *testing.T) {
	job, applicants := jobFixture()
	apps := newMockApplicationRepo()
	apps.applicants = applicants
	reports := &mockReportRepo{}

	uc := NewEvaluationUsecase(EvaluationDeps{
		Evaluator:    testEvaluator(),
		Jobs:         mockJobRepo{job: job},
		Applications: apps,
		Reports:      reports,
	})

	res, err := uc.EvaluateJob(context.Background(), job.ID)
	require.NoError(t, err)

	assert.Equal(t, job.ID, res.JobID)
	assert.NotEqual(t, uuid.Nil, res.ReportID)
	require.Len(t, reports.saved, 1)
	require.NotNil(t, reports.jobID)
	assert.Equal(t, job.ID, *reports.jobID)

	require.Len(t, res.Report.Shortlisted, 1)
	assert.Equal(t, "Grace", res.Report.Shortlisted[0].Name)

	require.Len(t, apps.scores, 2)
	grace := apps.scores[applicants[0].ApplicationID]
	assert.Equal(t, res.Report.Shortlisted[0].Score, grace.Score)
	assert.Equal(t, string(matching.RecommendationInterview), grace.Recommendation)
	assert.Equal(t, []string{"python", "sql"}, grace.MatchedSkills)

	linus := apps.scores[applicants[1].ApplicationID]
	assert.Equal(t, 0, linus.Score)
	assert.Equal(t, string(matching.RecommendationDecline), linus.Recommendation)
}

func TestEvaluation_EvaluateJob_Errors(t *testing.T) {
	job, applicants := jobFixture()

	t.Run("unknown job", func(t *testing.T) {
		uc := NewEvaluationUsecase(EvaluationDeps{Jobs: mockJobRepo{job: job}, Applications: newMockApplicationRepo()})
		_, err := uc.EvaluateJob(context.Background(), uuid.New())
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("no applications", func(t *testing.T) {
		uc := NewEvaluationUsecase(EvaluationDeps{Jobs: mockJobRepo{job: job}, Applications: newMockApplicationRepo()})
		_, err := uc.EvaluateJob(context.Background(), job.ID)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("repository failure", func(t *testing.T) {
		uc := NewEvaluationUsecase(EvaluationDeps{Jobs: mockJobRepo{err: errors.New("db down")}})
		_, err := uc.EvaluateJob(context.Background(), job.ID)
		assert.ErrorIs(t, err, ErrInternal)
	})

	t.Run("score persistence failure", func(t *testing.T) {
		apps := newMockApplicationRepo()
		apps.applicants = applicants
		apps.saveErr = errors.New("write failed")
		uc := NewEvaluationUsecase(EvaluationDeps{
			Evaluator: testEvaluator(), Jobs: mockJobRepo{job: job}, Applications: apps, Reports: &mockReportRepo{},
		})
		_, err := uc.EvaluateJob(context.Background(), job.ID)
		assert.ErrorIs(t, err, ErrInternal)
	})

	t.Run("nil job id", func(t *testing.T) {
		uc := NewEvaluationUsecase(EvaluationDeps{})
		_, err := uc.EvaluateJob(context.Background(), uuid.Nil)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestEvaluation_EvaluateJob_WithoutPersistence(t *testing.T) {
	uc := NewEvaluationUsecase(EvaluationDeps{Evaluator: testEvaluator()})

	_, err := uc.EvaluateJob(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrPersistenceOff)
}
