package dto

import (
	"time"

	"github.com/google/uuid"
)

type SkillAnalysisResponse struct {
	ApplicationID   uuid.UUID `json:"applicationId"`
	ExtractedSkills []string  `json:"extractedSkills"`
	MatchedSkills   []string  `json:"matchedSkills"`
	MissingSkills   []string  `json:"missingSkills"`
	MatchPercentage float64   `json:"matchPercentage"`
	Recommendation  string    `json:"recommendation"`
	AnalyzedAt      time.Time `json:"analyzedAt"`
}

type AnalysisAcceptedResponse struct {
	ApplicationID uuid.UUID `json:"applicationId"`
	Status        string    `json:"status"`
}
