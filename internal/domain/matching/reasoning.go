package matching

import "strings"

type Recommendation string

const (
	RecommendationInterview Recommendation = "recommended"
	RecommendationConsider  Recommendation = "consider"
	RecommendationDecline   Recommendation = "not_recommended"
)

const (
	strongScoreMin = 70
	decentScoreMin = 50
)

func RecommendationFor(score int) Recommendation {
	switch {
	case score >= strongScoreMin:
		return RecommendationInterview
	case score >= decentScoreMin:
		return RecommendationConsider
	default:
		return RecommendationDecline
	}
}

// Reasoner turns a scored candidate into a one-sentence justification.
type Reasoner interface {
	Reason(score int, strengths, weaknesses []string) string
}

type ReasonerFunc func(score int, strengths, weaknesses []string) string

func (f ReasonerFunc) Reason(score int, strengths, weaknesses []string) string {
	return f(score, strengths, weaknesses)
}

// TemplateReasoner renders the English recommendation sentences. A clause
// whose list is empty is left out instead of rendering "with ." or "but .".
type TemplateReasoner struct{}

func (TemplateReasoner) Reason(score int, strengths, weaknesses []string) string {
	s := strings.Join(strengths, ", ")
	w := strings.Join(weaknesses, ", ")

	var b strings.Builder
	switch RecommendationFor(score) {
	case RecommendationInterview:
		b.WriteString("Strong candidate")
		if s != "" {
			b.WriteString(" with " + s)
		}
		b.WriteString(". Recommended for interview.")
	case RecommendationConsider:
		b.WriteString("Decent candidate")
		if s != "" {
			b.WriteString(" with " + s)
		}
		if w != "" {
			b.WriteString(", but " + w)
		}
		b.WriteString(". Consider for interview.")
	default:
		b.WriteString("Limited match")
		if w != "" {
			b.WriteString(" due to " + w)
		}
		b.WriteString(". May not be suitable for this role.")
	}
	return b.String()
}
