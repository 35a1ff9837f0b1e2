package usecase

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"talent-match/internal/domain/matching"
	"talent-match/internal/repository"

	"github.com/google/uuid"
)

var testNow = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

func testEvaluator() *matching.Evaluator {
	scorer := matching.NewScorer(matching.DefaultWeights(), matching.WithClock(func() time.Time { return testNow }))
	return matching.NewEvaluator(scorer, matching.DefaultShortlistThreshold)
}

type mockJobRepo struct {
	job repository.Job
	err error
}

func (m mockJobRepo) GetByID(_ context.Context, id uuid.UUID) (repository.Job, error) {
	if m.err != nil {
		return repository.Job{}, m.err
	}
	if m.job.ID != id {
		return repository.Job{}, repository.ErrJobNotFound
	}
	return m.job, nil
}

type mockApplicationRepo struct {
	mu sync.Mutex

	applicants []repository.Applicant
	listErr    error

	forAnalysis map[uuid.UUID]repository.ApplicationForAnalysis
	getErr      error

	saveErr  error
	analyses map[uuid.UUID]matching.SkillAnalysis
	scores   map[uuid.UUID]repository.ScoreUpdate
}

func newMockApplicationRepo() *mockApplicationRepo {
	return &mockApplicationRepo{
		forAnalysis: map[uuid.UUID]repository.ApplicationForAnalysis{},
		analyses:    map[uuid.UUID]matching.SkillAnalysis{},
		scores:      map[uuid.UUID]repository.ScoreUpdate{},
	}
}

func (m *mockApplicationRepo) ListApplicantsByJob(context.Context, uuid.UUID) ([]repository.Applicant, error) {
	return m.applicants, m.listErr
}

func (m *mockApplicationRepo) GetForAnalysis(_ context.Context, id uuid.UUID) (repository.ApplicationForAnalysis, error) {
	if m.getErr != nil {
		return repository.ApplicationForAnalysis{}, m.getErr
	}
	a, ok := m.forAnalysis[id]
	if !ok {
		return repository.ApplicationForAnalysis{}, repository.ErrApplicationNotFound
	}
	return a, nil
}

func (m *mockApplicationRepo) SaveSkillAnalysis(_ context.Context, id uuid.UUID, a matching.SkillAnalysis) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.analyses[id] = a
	return nil
}

func (m *mockApplicationRepo) SaveScore(_ context.Context, u repository.ScoreUpdate) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scores[u.ApplicationID] = u
	return nil
}

type mockReportRepo struct {
	saved []matching.EvaluationReport
	jobID *uuid.UUID
	err   error
}

func (m *mockReportRepo) Save(_ context.Context, jobID *uuid.UUID, r matching.EvaluationReport) (uuid.UUID, error) {
	if m.err != nil {
		return uuid.Nil, m.err
	}
	m.saved = append(m.saved, r)
	m.jobID = jobID
	return uuid.New(), nil
}

type mockCache struct {
	data   map[string][]byte
	gets   int
	sets   int
	getErr error
}

func newMockCache() *mockCache { return &mockCache{data: map[string][]byte{}} }

func (m *mockCache) GetJSON(_ context.Context, key string, out any) (bool, error) {
	m.gets++
	if m.getErr != nil {
		return false, m.getErr
	}
	b, ok := m.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, out)
}

func (m *mockCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	m.sets++
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.data[key] = b
	return nil
}

type mockExtractor struct {
	skills []string
	err    error
	urls   []string
}

func (m *mockExtractor) ExtractSkills(_ context.Context, url string) ([]string, error) {
	m.urls = append(m.urls, url)
	return m.skills, m.err
}

type notification struct {
	applicationID uuid.UUID
	jobID         uuid.UUID
	analysis      matching.SkillAnalysis
}

type mockNotifier struct {
	events []notification
}

func (m *mockNotifier) NotifyAnalysisCompleted(applicationID, jobID uuid.UUID, a matching.SkillAnalysis) {
	m.events = append(m.events, notification{applicationID: applicationID, jobID: jobID, analysis: a})
}

type mockDispatcher struct {
	ids []uuid.UUID
	err error
}

func (m *mockDispatcher) Dispatch(_ context.Context, id uuid.UUID) error {
	if m.err != nil {
		return m.err
	}
	m.ids = append(m.ids, id)
	return nil
}
