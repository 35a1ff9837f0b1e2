package matching

import (
	"math"
	"strings"
	"time"
)

const (
	AnalysisRecommended    = "Recommended"
	AnalysisNotRecommended = "Not Recommended"

	analysisRecommendedMin = 60.0
)

// SkillAnalysis compares skills extracted from a résumé with a job's required
// skills. Unlike the composite score it counts distinct satisfied
// requirements, so MatchPercentage never exceeds 100.
type SkillAnalysis struct {
	ExtractedSkills []string  `json:"extractedSkills"`
	MatchedSkills   []string  `json:"matchedSkills"`
	MissingSkills   []string  `json:"missingSkills"`
	MatchPercentage float64   `json:"matchPercentage"`
	Recommendation  string    `json:"recommendation"`
	AnalyzedAt      time.Time `json:"analyzedAt"`
}

func AnalyzeSkills(extracted, required []string) SkillAnalysis {
	skills := dedupeLower(extracted)

	matched := make([]string, 0, len(required))
	missing := make([]string, 0, len(required))
	total := 0
	for _, r := range required {
		lr := normalizeSkill(r)
		if lr == "" {
			continue
		}
		total++
		if anyEquivalent(skills, lr) {
			matched = append(matched, r)
		} else {
			missing = append(missing, r)
		}
	}

	var pct float64
	if total > 0 {
		pct = math.Round(float64(len(matched))/float64(total)*100*100) / 100
	}

	rec := AnalysisNotRecommended
	if pct >= analysisRecommendedMin {
		rec = AnalysisRecommended
	}

	return SkillAnalysis{
		ExtractedSkills: skills,
		MatchedSkills:   matched,
		MissingSkills:   missing,
		MatchPercentage: pct,
		Recommendation:  rec,
	}
}

func dedupeLower(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
