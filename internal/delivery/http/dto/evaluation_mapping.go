package dto

import (
	"talent-match/internal/domain/matching"
	"talent-match/internal/usecase"

	"github.com/google/uuid"
)

// Input normalizes the request into the evaluation input: absent skill lists
// become empty and absent dates become nil.
func (r EvaluateRequest) Input() usecase.EvaluateInput {
	candidates := make([]matching.CandidateProfile, 0, len(r.Candidates))
	for _, cr := range r.Candidates {
		entries := make([]matching.ExperienceEntry, 0, len(cr.ExperienceEntries))
		for _, e := range cr.ExperienceEntries {
			entries = append(entries, matching.ExperienceEntry{
				Start:     e.StartDate.Ptr(),
				End:       e.EndDate.Ptr(),
				IsCurrent: e.IsCurrent,
			})
		}
		candidates = append(candidates, matching.CandidateProfile{
			ID:           cr.ID,
			Name:         cr.Name,
			Email:        cr.Email,
			Skills:       nonNil(cr.Skills),
			Experience:   entries,
			HasEducation: cr.HasEducationEntry,
			HasResume:    cr.HasResume,
		})
	}

	return usecase.EvaluateInput{
		JobTitle:       r.JobTitle,
		RequiredSkills: r.RequiredSkills,
		ExperienceTier: r.ExperienceTier,
		Candidates:     candidates,
	}
}

func NewEvaluationReportResponse(r matching.EvaluationReport) EvaluationReportResponse {
	return EvaluationReportResponse{
		JobTitle:        r.JobTitle,
		TotalCandidates: r.TotalCandidates,
		Shortlisted:     newBreakdownResponses(r.Shortlisted),
		NotShortlisted:  newBreakdownResponses(r.NotShortlisted),
		CriteriaWeights: CriteriaWeightsResponse{
			Skills:     r.CriteriaWeights.Skills,
			Experience: r.CriteriaWeights.Experience,
			Education:  r.CriteriaWeights.Education,
			Resume:     r.CriteriaWeights.Resume,
		},
		ShortlistThreshold: r.ShortlistThreshold,
	}
}

func newBreakdownResponses(in []matching.ScoreBreakdown) []ScoreBreakdownResponse {
	out := make([]ScoreBreakdownResponse, 0, len(in))
	for _, b := range in {
		out = append(out, ScoreBreakdownResponse{
			CandidateID:    b.CandidateID,
			Name:           b.Name,
			Email:          b.Email,
			Score:          b.Score,
			Recommendation: string(b.Recommendation),
			Reasoning:      b.Reasoning,
			Strengths:      nonNil(b.Strengths),
			Weaknesses:     nonNil(b.Weaknesses),
			MatchedSkills:  nonNil(b.MatchedSkills),
			TotalYears:     b.TotalYears,
			Components: ScoreComponentsResponse{
				Skills:     b.Components.Skills,
				Experience: b.Components.Experience,
				Education:  b.Components.Education,
				Resume:     b.Components.Resume,
			},
		})
	}
	return out
}

func NewSkillAnalysisResponse(applicationID uuid.UUID, a matching.SkillAnalysis) SkillAnalysisResponse {
	return SkillAnalysisResponse{
		ApplicationID:   applicationID,
		ExtractedSkills: nonNil(a.ExtractedSkills),
		MatchedSkills:   nonNil(a.MatchedSkills),
		MissingSkills:   nonNil(a.MissingSkills),
		MatchPercentage: a.MatchPercentage,
		Recommendation:  a.Recommendation,
		AnalyzedAt:      a.AnalyzedAt,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
