package matching

import "strings"

// MatchSkills returns the candidate skills that are equivalent to at least one
// required skill, in candidate order. Two skills are equivalent when one is a
// case-insensitive substring of the other. Near-duplicate candidate skills are
// all kept, so the result may be longer than required.
func MatchSkills(candidate, required []string) []string {
	matched := make([]string, 0, len(candidate))
	reqs := normalizeSkills(required)
	if len(reqs) == 0 {
		return matched
	}

	for _, s := range candidate {
		ls := normalizeSkill(s)
		if ls == "" {
			continue
		}
		for _, r := range reqs {
			if skillsEquivalent(ls, r) {
				matched = append(matched, s)
				break
			}
		}
	}
	return matched
}

// MissingSkills returns the required skills no candidate skill is equivalent to.
func MissingSkills(candidate, required []string) []string {
	missing := make([]string, 0, len(required))
	have := normalizeSkills(candidate)
	for _, r := range required {
		lr := normalizeSkill(r)
		if lr == "" {
			continue
		}
		if !anyEquivalent(have, lr) {
			missing = append(missing, r)
		}
	}
	return missing
}

func anyEquivalent(pool []string, skill string) bool {
	for _, p := range pool {
		if skillsEquivalent(p, skill) {
			return true
		}
	}
	return false
}

func skillsEquivalent(a, b string) bool {
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// normalizeSkill lowercases s; blank skills normalize to "" and never match,
// since the empty string is a substring of everything.
func normalizeSkill(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	return strings.ToLower(s)
}

func normalizeSkills(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if ls := normalizeSkill(s); ls != "" {
			out = append(out, ls)
		}
	}
	return out
}
