package matching

import (
	"fmt"
	"strings"
)

const (
	requiredSkillsWeight  = 0.7
	preferredSkillsWeight = 0.3
)

// SkillMatch is the outcome of comparing resume skills with job skills.
type SkillMatch struct {
	Score             float64
	RequiredCoverage  float64
	PreferredCoverage float64
	Matched           []string
	Missing           []string
	Transferable      []string
	ExperienceSummary string
	MatchedRequired   int
	MatchedPreferred  int
	RequiredTotal     int
	PreferredTotal    int
}

// MatchSkills scores resume skills against required and preferred job skills.
//
// An empty required set gives full required coverage while an empty preferred
// set gives none. Matched skills list required matches first, then preferred
// ones; a skill present in both job lists is reported twice.
func MatchSkills(resumeSkills, required, preferred []string) SkillMatch {
	resume := NewSkillSet(resumeSkills)
	req := NewSkillSet(required)
	pref := NewSkillSet(preferred)

	have := resume.index()

	matchedRequired := make([]string, 0, len(req))
	missing := make([]string, 0, len(req))
	for _, skill := range req {
		if _, ok := have[skill]; ok {
			matchedRequired = append(matchedRequired, skill)
			continue
		}
		missing = append(missing, skill)
	}

	matchedPreferred := make([]string, 0, len(pref))
	for _, skill := range pref {
		if _, ok := have[skill]; ok {
			matchedPreferred = append(matchedPreferred, skill)
		}
	}

	requiredCoverage := 1.0
	if len(req) > 0 {
		requiredCoverage = float64(len(matchedRequired)) / float64(len(req))
	}

	preferredCoverage := 0.0
	if len(pref) > 0 {
		preferredCoverage = float64(len(matchedPreferred)) / float64(len(pref))
	}

	matched := make([]string, 0, len(matchedRequired)+len(matchedPreferred))
	matched = append(matched, matchedRequired...)
	matched = append(matched, matchedPreferred...)

	summary := fmt.Sprintf("Matched %d/%d required skills and %d/%d preferred skills",
		len(matchedRequired), len(req), len(matchedPreferred), len(pref))

	return SkillMatch{
		Score:             requiredSkillsWeight*requiredCoverage + preferredSkillsWeight*preferredCoverage,
		RequiredCoverage:  requiredCoverage,
		PreferredCoverage: preferredCoverage,
		Matched:           matched,
		Missing:           missing,
		Transferable:      transferableSkills(resume, missing),
		ExperienceSummary: summary,
		MatchedRequired:   len(matchedRequired),
		MatchedPreferred:  len(matchedPreferred),
		RequiredTotal:     len(req),
		PreferredTotal:    len(pref),
	}
}

// transferableSkills reports, for every unmatched job skill, the first resume
// skill sharing at least one whitespace-separated token with it. This is a
// token-overlap heuristic only.
func transferableSkills(resume SkillSet, unmatched []string) []string {
	transferable := make([]string, 0)

	for _, jobSkill := range unmatched {
		jobTokens := strings.Fields(jobSkill)
		for _, resumeSkill := range resume {
			if sharesToken(jobTokens, strings.Fields(resumeSkill)) {
				transferable = append(transferable, resumeSkill)
				break
			}
		}
	}

	return transferable
}

func sharesToken(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}
