package matching

import "strings"

// SkillSet is an ordered, duplicate-free collection of normalized skills.
type SkillSet []string

// NewSkillSet lower-cases and trims every skill, dropping blanks and repeats.
// The first occurrence keeps its position.
func NewSkillSet(skills []string) SkillSet {
	set := make(SkillSet, 0, len(skills))
	seen := make(map[string]struct{}, len(skills))

	for _, skill := range skills {
		normalized := NormalizeSkill(skill)
		if normalized == "" {
			continue
		}
		if _, ok := seen[normalized]; ok {
			continue
		}
		seen[normalized] = struct{}{}
		set = append(set, normalized)
	}

	return set
}

// NormalizeSkill returns the comparable form of a skill.
func NormalizeSkill(skill string) string {
	return strings.ToLower(strings.TrimSpace(skill))
}

func (s SkillSet) Len() int { return len(s) }

func (s SkillSet) index() map[string]struct{} {
	idx := make(map[string]struct{}, len(s))
	for _, skill := range s {
		idx[skill] = struct{}{}
	}
	return idx
}

// ExperienceEntry is a single position listed on a resume.
type ExperienceEntry struct {
	Role     string `mapstructure:"role" json:"role"`
	Company  string `mapstructure:"company" json:"company"`
	Duration string `mapstructure:"duration" json:"duration"`
}

// Resume is the parsed candidate input.
type Resume struct {
	ID         string            `mapstructure:"id" json:"id,omitempty"`
	Name       string            `mapstructure:"name" json:"name,omitempty"`
	Content    string            `mapstructure:"content" json:"content"`
	Skills     []string          `mapstructure:"skills" json:"skills"`
	Experience []ExperienceEntry `mapstructure:"experience" json:"experience"`
}

// Job is the job posting input. ExperienceRequired and Responsibilities are
// carried for display only and do not affect scoring.
type Job struct {
	ID                 string   `mapstructure:"id" json:"id,omitempty"`
	Title              string   `mapstructure:"title" json:"title,omitempty"`
	Description        string   `mapstructure:"description" json:"description"`
	RequiredSkills     []string `mapstructure:"required-skills" json:"required_skills"`
	PreferredSkills    []string `mapstructure:"preferred-skills" json:"preferred_skills"`
	ExperienceRequired string   `mapstructure:"experience-required" json:"experience_required,omitempty"`
	Responsibilities   []string `mapstructure:"responsibilities" json:"role_responsibilities,omitempty"`
}

// MatchScore holds the four dimension scores and their weighted combination.
type MatchScore struct {
	Skills       float64 `json:"skills_score"`
	Experience   float64 `json:"experience_score"`
	RoleFit      float64 `json:"role_fit_score"`
	BonusSignals float64 `json:"bonus_signals_score"`
	Overall      float64 `json:"overall_score"`
}

// MatchAnalysis is the complete result of scoring one resume against one job.
// It is built once by Engine.ScoreMatch and never mutated afterwards.
type MatchAnalysis struct {
	Score              MatchScore `json:"match_score"`
	MatchedSkills      []string   `json:"matched_skills"`
	MissingSkills      []string   `json:"missing_skills"`
	TransferableSkills []string   `json:"transferable_skills"`
	ExperienceSummary  string     `json:"experience_summary"`
	RoleRecommendation string     `json:"role_recommendation"`
	Explanation        string     `json:"explanation"`

	// SemanticSimilarity is the raw cosine before clamping into RoleFit.
	SemanticSimilarity float64  `json:"semantic_similarity"`
	TotalYears         float64  `json:"total_years"`
	Signals            []string `json:"signals"`
}
