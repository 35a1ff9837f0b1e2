package dto

import "talent-match/internal/pkg/jsondate"

type EvaluateRequest struct {
	JobTitle       string             `json:"jobTitle" validate:"required,max=256"`
	RequiredSkills []string           `json:"requiredSkills" validate:"required,dive,max=128"`
	ExperienceTier string             `json:"experienceTier" validate:"max=64"`
	Candidates     []CandidateRequest `json:"candidates" validate:"required,min=1,dive"`
}

type CandidateRequest struct {
	ID                string                   `json:"id" validate:"max=128"`
	Name              string                   `json:"name" validate:"max=256"`
	Email             string                   `json:"email" validate:"max=320"`
	Skills            []string                 `json:"skills" validate:"dive,max=128"`
	ExperienceEntries []ExperienceEntryRequest `json:"experienceEntries" validate:"dive"`
	HasEducationEntry bool                     `json:"hasEducationEntry"`
	HasResume         bool                     `json:"hasResume"`
}

type ExperienceEntryRequest struct {
	StartDate *Date `json:"startDate"`
	EndDate   *Date `json:"endDate"`
	IsCurrent bool  `json:"isCurrent"`
}

// Date is lenient: unparseable strings decode as absent.
type Date = jsondate.Date
