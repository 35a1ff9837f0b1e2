package ws

import (
	"encoding/json"
	"time"

	"talent-match/internal/domain/matching"

	"github.com/google/uuid"
)

const EventAnalysisCompleted = "analysis_completed"

type AnalysisCompletedEvent struct {
	Type            string    `json:"type"`
	ApplicationID   uuid.UUID `json:"applicationId"`
	JobID           uuid.UUID `json:"jobId"`
	MatchPercentage float64   `json:"matchPercentage"`
	Recommendation  string    `json:"recommendation"`
	MatchedSkills   []string  `json:"matchedSkills"`
	MissingSkills   []string  `json:"missingSkills"`
	Timestamp       string    `json:"timestamp"`
}

func (h *Hub) NotifyAnalysisCompleted(applicationID, jobID uuid.UUID, analysis matching.SkillAnalysis) {
	if h == nil {
		return
	}
	ts := analysis.AnalyzedAt
	if ts.IsZero() {
		ts = time.Now()
	}

	b, err := json.Marshal(AnalysisCompletedEvent{
		Type:            EventAnalysisCompleted,
		ApplicationID:   applicationID,
		JobID:           jobID,
		MatchPercentage: analysis.MatchPercentage,
		Recommendation:  analysis.Recommendation,
		MatchedSkills:   analysis.MatchedSkills,
		MissingSkills:   analysis.MissingSkills,
		Timestamp:       ts.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return
	}
	h.Broadcast(b)
}
