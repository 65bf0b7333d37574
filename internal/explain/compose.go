// Package explain turns a scored match into a structured, human-readable
// report.
package explain

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/spigell/resume-matcher/internal/matching"
	"github.com/spigell/resume-matcher/internal/utils"
)

// ErrInvalidAnalysis is returned when an analysis is missing or malformed.
var ErrInvalidAnalysis = errors.New("invalid match analysis")

const (
	listLimit      = 10
	highlightLimit = 5
	feedbackGroup  = 3
	briefLimit     = 100

	reportType = "Match Explanation Report"
)

var genericTips = []string{
	"Focus on highlighting transferable skills from your experience",
	"Consider pursuing relevant certifications to bridge skill gaps",
	"Emphasize projects or experiences that demonstrate relevant competencies",
}

// SkillsAnalysis breaks down skill coverage.
type SkillsAnalysis struct {
	Summary           string   `json:"summary"`
	MatchedCount      int      `json:"matched_skills_count"`
	MissingCount      int      `json:"missing_skills_count"`
	TransferableCount int      `json:"transferable_skills_count"`
	Matched           []string `json:"matched_skills"`
	Missing           []string `json:"missing_skills"`
	Transferable      []string `json:"transferable_skills"`
	AlignmentLevel    string   `json:"skills_alignment_level"`
	KeyStrengths      []string `json:"key_strengths"`
	CriticalGaps      []string `json:"critical_gaps"`
}

// ExperienceInsights describes the experience score.
type ExperienceInsights struct {
	Summary             string  `json:"summary"`
	Score               float64 `json:"experience_score"`
	AlignmentLevel      string  `json:"experience_alignment_level"`
	RelevanceAssessment string  `json:"relevance_assessment"`
	Brief               string  `json:"experience_brief"`
}

// RoleFitEvaluation describes the semantic role fit.
type RoleFitEvaluation struct {
	SemanticSimilarity  float64  `json:"semantic_similarity"`
	Level               string   `json:"role_fit_level"`
	ContextualRelevance string   `json:"contextual_relevance"`
	FitFactors          []string `json:"fit_factors"`
}

// Recommendation is the hiring verdict with its confidence and next step.
type Recommendation struct {
	Recommendation string `json:"recommendation"`
	Confidence     string `json:"confidence"`
	NextSteps      string `json:"next_steps"`
}

// Explanation is the detailed breakdown of one match.
type Explanation struct {
	OverallAssessment  string             `json:"overall_assessment"`
	SkillsAnalysis     SkillsAnalysis     `json:"skills_analysis"`
	ExperienceInsights ExperienceInsights `json:"experience_insights"`
	RoleFitEvaluation  RoleFitEvaluation  `json:"role_fit_evaluation"`
	Recommendation     Recommendation     `json:"recommendation"`
	ActionableFeedback []string           `json:"actionable_feedback"`
	ConfidenceLevel    string             `json:"confidence_level"`
}

// Report wraps an Explanation with the raw scores and a short digest.
type Report struct {
	ReportType      string              `json:"report_type"`
	GeneratedAt     time.Time           `json:"generated_at"`
	AnalysisSummary matching.MatchScore `json:"analysis_summary"`
	Detailed        *Explanation        `json:"detailed_explanation"`
	Highlights      []string            `json:"highlights"`
	Summary         string              `json:"summary"`
}

// Compose builds the explanation of a. It fails with ErrInvalidAnalysis
// instead of defaulting missing fields.
func Compose(a *matching.MatchAnalysis) (*Explanation, error) {
	if err := validate(a); err != nil {
		return nil, err
	}

	s := a.Score
	return &Explanation{
		OverallAssessment: matching.AssessmentLadder.Classify(s.Overall),
		SkillsAnalysis: SkillsAnalysis{
			Summary:           fmt.Sprintf("Skills match score: %.2f", s.Skills),
			MatchedCount:      len(a.MatchedSkills),
			MissingCount:      len(a.MissingSkills),
			TransferableCount: len(a.TransferableSkills),
			Matched:           utils.Head(a.MatchedSkills, listLimit),
			Missing:           utils.Head(a.MissingSkills, listLimit),
			Transferable:      utils.Head(a.TransferableSkills, listLimit),
			AlignmentLevel:    matching.AlignmentLadder.Classify(s.Skills),
			KeyStrengths:      utils.Head(a.MatchedSkills, highlightLimit),
			CriticalGaps:      utils.Head(a.MissingSkills, highlightLimit),
		},
		ExperienceInsights: ExperienceInsights{
			Summary:             a.ExperienceSummary,
			Score:               s.Experience,
			AlignmentLevel:      matching.AlignmentLadder.Classify(s.Experience),
			RelevanceAssessment: matching.ExperienceRelevanceLadder.Classify(s.Experience),
			Brief:               brief(a.ExperienceSummary),
		},
		RoleFitEvaluation: RoleFitEvaluation{
			SemanticSimilarity:  s.RoleFit,
			Level:               matching.AlignmentLadder.Classify(s.RoleFit),
			ContextualRelevance: matching.ContextualRelevanceLadder.Classify(s.RoleFit),
			FitFactors:          matching.FitFactors(s.RoleFit),
		},
		Recommendation: Recommendation{
			Recommendation: a.RoleRecommendation,
			Confidence:     matching.ConfidenceLadder.Classify(s.Overall),
			NextSteps:      matching.NextStepLadder.Classify(s.Overall),
		},
		ActionableFeedback: Feedback(a.MissingSkills),
		ConfidenceLevel:    matching.ConfidenceLadder.Classify(s.Overall),
	}, nil
}

// NewReport composes the explanation of a and wraps it into a report stamped
// with at.
func NewReport(a *matching.MatchAnalysis, at time.Time) (*Report, error) {
	explanation, err := Compose(a)
	if err != nil {
		return nil, err
	}

	var highlights []string
	for _, h := range []string{
		explanation.OverallAssessment,
		explanation.SkillsAnalysis.Summary,
		explanation.Recommendation.Recommendation,
	} {
		if h != "" {
			highlights = append(highlights, h)
		}
	}

	return &Report{
		ReportType:      reportType,
		GeneratedAt:     at.UTC(),
		AnalysisSummary: a.Score,
		Detailed:        explanation,
		Highlights:      highlights,
		Summary:         a.Explanation,
	}, nil
}

// Feedback lists up to two suggestions naming missing skills followed by the
// generic tips.
func Feedback(missing []string) []string {
	items := make([]string, 0, 2+len(genericTips))

	if len(missing) > 0 {
		items = append(items, "Consider acquiring these key skills: "+strings.Join(utils.Head(missing, feedbackGroup), ", "))
	}
	if len(missing) > feedbackGroup {
		items = append(items, "Also consider developing additional skills from: "+strings.Join(utils.Head(missing[feedbackGroup:], feedbackGroup), ", "))
	}

	return append(items, genericTips...)
}

func brief(summary string) string {
	runes := []rune(summary)
	if len(runes) <= briefLimit {
		return summary
	}
	return string(runes[:briefLimit]) + "..."
}

func validate(a *matching.MatchAnalysis) error {
	if a == nil {
		return fmt.Errorf("%w: analysis is nil", ErrInvalidAnalysis)
	}

	for _, d := range []struct {
		name  string
		value float64
	}{
		{"skills_score", a.Score.Skills},
		{"experience_score", a.Score.Experience},
		{"role_fit_score", a.Score.RoleFit},
		{"bonus_signals_score", a.Score.BonusSignals},
		{"overall_score", a.Score.Overall},
	} {
		if math.IsNaN(d.value) || d.value < 0 || d.value > 1 {
			return fmt.Errorf("%w: %s %v outside [0, 1]", ErrInvalidAnalysis, d.name, d.value)
		}
	}

	if strings.TrimSpace(a.RoleRecommendation) == "" {
		return fmt.Errorf("%w: role recommendation is empty", ErrInvalidAnalysis)
	}
	if strings.TrimSpace(a.ExperienceSummary) == "" {
		return fmt.Errorf("%w: experience summary is empty", ErrInvalidAnalysis)
	}

	return nil
}
