package matching

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

const maxCountedYears = 10.0

var (
	yearsPattern  = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:years?|yrs?)`)
	monthsPattern = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*months?`)
)

// ExperienceResult is the outcome of evaluating a candidate's work history.
type ExperienceResult struct {
	Score           float64
	TotalYears      float64
	RelevantEntries int
	TotalEntries    int
}

// EvaluateExperience averages the share of relevant positions with the total
// years of experience capped at ten. No entries means no credit.
func EvaluateExperience(entries []ExperienceEntry, jobDescription string) ExperienceResult {
	if len(entries) == 0 {
		return ExperienceResult{}
	}

	description := strings.ToLower(jobDescription)

	var (
		totalYears float64
		relevant   int
	)
	for _, entry := range entries {
		totalYears += ParseDurationYears(entry.Duration)
		if isRelevant(entry, description) {
			relevant++
		}
	}

	ratio := float64(relevant) / float64(len(entries))
	years := math.Min(totalYears/maxCountedYears, 1.0)

	return ExperienceResult{
		Score:           math.Min(1.0, (ratio+years)/2.0),
		TotalYears:      totalYears,
		RelevantEntries: relevant,
		TotalEntries:    len(entries),
	}
}

// ParseDurationYears reads "N years"/"N yrs" or, failing that, "N months"
// from a free-form duration. Unrecognized input yields zero.
func ParseDurationYears(duration string) float64 {
	if m := yearsPattern.FindStringSubmatch(duration); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			return v
		}
	}

	if m := monthsPattern.FindStringSubmatch(duration); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			return v / 12.0
		}
	}

	return 0
}

// isRelevant reports whether the role title or company name appears verbatim
// in the lower-cased job description. Blank fields never match.
func isRelevant(entry ExperienceEntry, description string) bool {
	role := strings.ToLower(strings.TrimSpace(entry.Role))
	if role != "" && strings.Contains(description, role) {
		return true
	}

	company := strings.ToLower(strings.TrimSpace(entry.Company))
	return company != "" && strings.Contains(description, company)
}
