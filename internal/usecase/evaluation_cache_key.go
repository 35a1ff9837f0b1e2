package usecase

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"talent-match/internal/domain/matching"
)

const evaluationCachePrefix = "evaluations:"

type evaluationCacheKeyInput struct {
	Input     EvaluateInput    `json:"input"`
	Weights   matching.Weights `json:"weights"`
	Threshold int              `json:"threshold"`
	Date      string           `json:"date"`
}

// EvaluationCacheKey hashes everything that determines a report. Experience
// durations depend on the evaluation day, so the UTC date is part of the key.
func EvaluationCacheKey(in EvaluateInput, w matching.Weights, threshold int, now time.Time) string {
	in.JobTitle = strings.TrimSpace(in.JobTitle)
	in.ExperienceTier = matching.ParseTier(in.ExperienceTier).String()

	b, _ := json.Marshal(evaluationCacheKeyInput{
		Input:     in,
		Weights:   w,
		Threshold: threshold,
		Date:      now.UTC().Format(time.DateOnly),
	})
	sum := sha256.Sum256(b)
	return evaluationCachePrefix + hex.EncodeToString(sum[:])
}
