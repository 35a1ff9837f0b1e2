package matching

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

var ErrInvalidInput = errors.New("invalid input")

const DefaultShortlistThreshold = 60

type EvaluationReport struct {
	JobTitle           string           `json:"jobTitle"`
	TotalCandidates    int              `json:"totalCandidates"`
	Shortlisted        []ScoreBreakdown `json:"shortlisted"`
	NotShortlisted     []ScoreBreakdown `json:"notShortlisted"`
	CriteriaWeights    Weights          `json:"criteriaWeights"`
	ShortlistThreshold int              `json:"shortlistThreshold"`
}

// Evaluator scores a batch of candidates against one job. It holds no
// per-call state and is safe for concurrent use.
type Evaluator struct {
	scorer    *Scorer
	threshold int
}

func NewEvaluator(scorer *Scorer, shortlistThreshold int) *Evaluator {
	if scorer == nil {
		scorer = NewScorer(DefaultWeights())
	}
	if shortlistThreshold <= 0 {
		shortlistThreshold = DefaultShortlistThreshold
	}
	return &Evaluator{scorer: scorer, threshold: shortlistThreshold}
}

func (e *Evaluator) Weights() Weights { return e.scorer.weights }

func (e *Evaluator) Threshold() int { return e.threshold }

// Now reports the evaluation clock.
func (e *Evaluator) Now() time.Time { return e.scorer.now() }

func (e *Evaluator) Evaluate(job JobRequirement, candidates []CandidateProfile) (EvaluationReport, error) {
	if err := validateBatch(job, candidates); err != nil {
		return EvaluationReport{}, err
	}

	now := e.scorer.now()
	shortlisted := make([]ScoreBreakdown, 0, len(candidates))
	notShortlisted := make([]ScoreBreakdown, 0, len(candidates))
	for _, c := range candidates {
		b := e.scorer.scoreAt(job, c, now)
		if b.Score >= e.threshold {
			shortlisted = append(shortlisted, b)
		} else {
			notShortlisted = append(notShortlisted, b)
		}
	}

	sortByScoreDesc(shortlisted)
	sortByScoreDesc(notShortlisted)

	return EvaluationReport{
		JobTitle:           job.Title,
		TotalCandidates:    len(candidates),
		Shortlisted:        shortlisted,
		NotShortlisted:     notShortlisted,
		CriteriaWeights:    e.scorer.weights,
		ShortlistThreshold: e.threshold,
	}, nil
}

func validateBatch(job JobRequirement, candidates []CandidateProfile) error {
	if strings.TrimSpace(job.Title) == "" {
		return fmt.Errorf("%w: job title is required", ErrInvalidInput)
	}
	if job.RequiredSkills == nil {
		return fmt.Errorf("%w: required skills are missing", ErrInvalidInput)
	}
	if len(candidates) == 0 {
		return fmt.Errorf("%w: no candidates to evaluate", ErrInvalidInput)
	}
	return nil
}

func sortByScoreDesc(items []ScoreBreakdown) {
	sort.SliceStable(items, func(i, j int) bool { return items[i].Score > items[j].Score })
}
