package matching

import (
	"strings"
)

// Names of the built-in bonus detectors.
const (
	SignalCertification     = "certification"
	SignalCompanyExperience = "company_experience"
	SignalAdvancedEducation = "advanced_education"
	SignalLeadership        = "leadership"
	SignalAchievements      = "achievements"
)

// DetectFunc reports whether a bonus signal is present. Implementations must be
// pure and total over any pair of strings.
type DetectFunc func(resumeText, jobText string) bool

// Detector is a named bonus signal check.
type Detector struct {
	Name   string
	Detect DetectFunc
	// Keywords is informational; it is what Describe reports.
	Keywords []string
}

// KeywordLists configures the built-in detectors.
type KeywordLists struct {
	Certification     []string `mapstructure:"certification"`
	CompanyExperience []string `mapstructure:"company-experience"`
	AdvancedEducation []string `mapstructure:"advanced-education"`
	Leadership        []string `mapstructure:"leadership"`
	Achievements      []string `mapstructure:"achievements"`
}

// DefaultKeywordLists returns the stock keyword lists.
func DefaultKeywordLists() KeywordLists {
	return KeywordLists{
		Certification:     []string{"certified", "certification", "certificate", "aws", "azure", "gcp", "ccna", "pmp", "scrum", "saas"},
		CompanyExperience: []string{"previous company", "worked at"},
		AdvancedEducation: []string{"master", "phd", "doctorate", "mba", "advanced degree"},
		Leadership:        []string{"lead", "managed", "manager", "supervisor", "director", "head of", "team lead", "senior"},
		Achievements:      []string{"achieved", "improved", "increased", "reduced", "saved", "generated", "awarded", "recognized"},
	}
}

// withDefaults fills every empty list from the stock configuration.
func (k KeywordLists) withDefaults() KeywordLists {
	def := DefaultKeywordLists()
	if len(k.Certification) == 0 {
		k.Certification = def.Certification
	}
	if len(k.CompanyExperience) == 0 {
		k.CompanyExperience = def.CompanyExperience
	}
	if len(k.AdvancedEducation) == 0 {
		k.AdvancedEducation = def.AdvancedEducation
	}
	if len(k.Leadership) == 0 {
		k.Leadership = def.Leadership
	}
	if len(k.Achievements) == 0 {
		k.Achievements = def.Achievements
	}
	return k
}

// DefaultDetectors builds the five stock detectors in their fixed order.
// Matching is case-insensitive substring containment, so "senior" also
// fires on "seniority".
func DefaultDetectors(lists KeywordLists) []Detector {
	lists = lists.withDefaults()

	certification := lowerAll(lists.Certification)
	company := lowerAll(lists.CompanyExperience)
	education := lowerAll(lists.AdvancedEducation)
	leadership := lowerAll(lists.Leadership)
	achievements := lowerAll(lists.Achievements)

	return []Detector{
		{
			Name:     SignalCertification,
			Keywords: certification,
			Detect: func(resumeText, jobText string) bool {
				resume, job := strings.ToLower(resumeText), strings.ToLower(jobText)
				for _, keyword := range certification {
					if strings.Contains(resume, keyword) && strings.Contains(job, keyword) {
						return true
					}
				}
				return false
			},
		},
		{
			Name:     SignalCompanyExperience,
			Keywords: company,
			Detect: func(resumeText, _ string) bool {
				resume := strings.ToLower(resumeText)
				return strings.Contains(resume, "experience") && containsAny(resume, company)
			},
		},
		{
			Name:     SignalAdvancedEducation,
			Keywords: education,
			Detect:   resumeContainsAny(education),
		},
		{
			Name:     SignalLeadership,
			Keywords: leadership,
			Detect:   resumeContainsAny(leadership),
		},
		{
			Name:     SignalAchievements,
			Keywords: achievements,
			Detect:   resumeContainsAny(achievements),
		},
	}
}

// BonusResult is the outcome of running the detectors.
type BonusResult struct {
	Score float64
	Hits  []string
}

// DetectBonusSignals runs every detector once and scores hits over the number
// of detectors. An empty registry scores zero.
func DetectBonusSignals(detectors []Detector, resumeText, jobText string) BonusResult {
	hits := make([]string, 0, len(detectors))
	for _, d := range detectors {
		if d.Detect != nil && d.Detect(resumeText, jobText) {
			hits = append(hits, d.Name)
		}
	}

	if len(detectors) == 0 {
		return BonusResult{Hits: hits}
	}

	return BonusResult{
		Score: clamp01(float64(len(hits)) / float64(len(detectors))),
		Hits:  hits,
	}
}

// DetectorStatus describes a registered detector.
type DetectorStatus struct {
	Name     string   `json:"name"`
	Keywords []string `json:"keywords"`
}

// DescribeDetectors returns status entries in registry order.
func DescribeDetectors(detectors []Detector) []DetectorStatus {
	statuses := make([]DetectorStatus, 0, len(detectors))
	for _, d := range detectors {
		statuses = append(statuses, DetectorStatus{Name: d.Name, Keywords: d.Keywords})
	}
	return statuses
}

func resumeContainsAny(keywords []string) DetectFunc {
	return func(resumeText, _ string) bool {
		return containsAny(strings.ToLower(resumeText), keywords)
	}
}

func containsAny(text string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}

func lowerAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
