package matching

import (
	"fmt"
	"math"
	"time"
)

type JobRequirement struct {
	Title          string
	RequiredSkills []string
	Tier           Tier
}

// CandidateProfile is expected to be normalized by the caller: absent
// collections are empty and absent flags are false.
type CandidateProfile struct {
	ID           string
	Name         string
	Email        string
	Skills       []string
	Experience   []ExperienceEntry
	HasEducation bool
	HasResume    bool
}

type Components struct {
	Skills     float64 `json:"skills"`
	Experience float64 `json:"experience"`
	Education  float64 `json:"education"`
	Resume     float64 `json:"resume"`
}

func (c Components) Sum() float64 {
	return c.Skills + c.Experience + c.Education + c.Resume
}

type ScoreBreakdown struct {
	CandidateID    string         `json:"candidateId"`
	Name           string         `json:"name"`
	Email          string         `json:"email"`
	Score          int            `json:"score"`
	Recommendation Recommendation `json:"recommendation"`
	Reasoning      string         `json:"reasoning"`
	Strengths      []string       `json:"strengths"`
	Weaknesses     []string       `json:"weaknesses"`
	MatchedSkills  []string       `json:"matchedSkills"`
	Components     Components     `json:"components"`
	TotalYears     float64        `json:"totalYears"`
}

const (
	phraseNoSkillMatch      = "Limited skill matches"
	phraseNoExperience      = "No work experience listed"
	phraseLimitedExperience = "Limited work experience"
	phraseEducation         = "Relevant education background"
	phraseNoEducation       = "No education information"
	phraseResume            = "Resume available"
	phraseNoResume          = "No resume uploaded"

	seasonedYears = 2.0
)

type Scorer struct {
	weights  Weights
	reasoner Reasoner
	now      func() time.Time
}

type ScorerOption func(*Scorer)

func WithReasoner(r Reasoner) ScorerOption {
	return func(s *Scorer) {
		if r != nil {
			s.reasoner = r
		}
	}
}

// WithClock sets the source of "now" used for current experience entries.
func WithClock(now func() time.Time) ScorerOption {
	return func(s *Scorer) {
		if now != nil {
			s.now = now
		}
	}
}

func NewScorer(w Weights, opts ...ScorerOption) *Scorer {
	s := &Scorer{
		weights:  w,
		reasoner: TemplateReasoner{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Scorer) Weights() Weights {
	return s.weights
}

func (s *Scorer) Score(job JobRequirement, c CandidateProfile) ScoreBreakdown {
	return s.scoreAt(job, c, s.now())
}

func (s *Scorer) scoreAt(job JobRequirement, c CandidateProfile, now time.Time) ScoreBreakdown {
	w := s.weights
	strengths := make([]string, 0, 4)
	weaknesses := make([]string, 0, 4)
	var comp Components

	matched := MatchSkills(c.Skills, job.RequiredSkills)
	denom := len(job.RequiredSkills)
	if denom < 1 {
		denom = 1
	}
	comp.Skills = float64(len(matched)) / float64(denom) * float64(w.Skills)
	if len(matched) > 0 {
		strengths = append(strengths, fmt.Sprintf("%d matching skills", len(matched)))
	} else {
		weaknesses = append(weaknesses, phraseNoSkillMatch)
	}

	var years float64
	if len(c.Experience) > 0 {
		years = TotalYears(c.Experience, now)
		comp.Experience = ScoreForTier(years, job.Tier) * float64(w.Experience) / experienceCurveBase
		if years >= seasonedYears {
			strengths = append(strengths, fmt.Sprintf("%d years experience", int(math.Round(years))))
		} else {
			weaknesses = append(weaknesses, phraseLimitedExperience)
		}
	} else {
		weaknesses = append(weaknesses, phraseNoExperience)
	}

	if c.HasEducation {
		comp.Education = float64(w.Education)
		strengths = append(strengths, phraseEducation)
	} else {
		weaknesses = append(weaknesses, phraseNoEducation)
	}

	if c.HasResume {
		comp.Resume = float64(w.Resume)
		strengths = append(strengths, phraseResume)
	} else {
		weaknesses = append(weaknesses, phraseNoResume)
	}

	score := clampInt(int(math.Round(comp.Sum())), 0, 100)

	return ScoreBreakdown{
		CandidateID:    c.ID,
		Name:           c.Name,
		Email:          c.Email,
		Score:          score,
		Recommendation: RecommendationFor(score),
		Reasoning:      s.reasoner.Reason(score, strengths, weaknesses),
		Strengths:      strengths,
		Weaknesses:     weaknesses,
		MatchedSkills:  matched,
		Components:     comp,
		TotalYears:     years,
	}
}

func clampInt(v, minV, maxV int) int {
	if v < minV {
		return minV
	}
	if v > maxV {
		return maxV
	}
	return v
}
