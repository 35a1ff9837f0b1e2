package dto

import "github.com/google/uuid"

type ScoreComponentsResponse struct {
	Skills     float64 `json:"skills"`
	Experience float64 `json:"experience"`
	Education  float64 `json:"education"`
	Resume     float64 `json:"resume"`
}

type ScoreBreakdownResponse struct {
	CandidateID    string                  `json:"candidateId"`
	Name           string                  `json:"name"`
	Email          string                  `json:"email"`
	Score          int                     `json:"score"`
	Recommendation string                  `json:"recommendation"`
	Reasoning      string                  `json:"reasoning"`
	Strengths      []string                `json:"strengths"`
	Weaknesses     []string                `json:"weaknesses"`
	MatchedSkills  []string                `json:"matchedSkills"`
	TotalYears     float64                 `json:"totalYears"`
	Components     ScoreComponentsResponse `json:"components"`
}

type CriteriaWeightsResponse struct {
	Skills     int `json:"skills"`
	Experience int `json:"experience"`
	Education  int `json:"education"`
	Resume     int `json:"resume"`
}

type EvaluationReportResponse struct {
	JobTitle           string                   `json:"jobTitle"`
	TotalCandidates    int                      `json:"totalCandidates"`
	Shortlisted        []ScoreBreakdownResponse `json:"shortlisted"`
	NotShortlisted     []ScoreBreakdownResponse `json:"notShortlisted"`
	CriteriaWeights    CriteriaWeightsResponse  `json:"criteriaWeights"`
	ShortlistThreshold int                      `json:"shortlistThreshold"`
}

type JobEvaluationResponse struct {
	ReportID uuid.UUID                `json:"reportId"`
	JobID    uuid.UUID                `json:"jobId"`
	Report   EvaluationReportResponse `json:"report"`
}

type FieldErrorResponse struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}
