package matching

// Rung is one bucket of a Ladder: scores at or above Min get Label.
type Rung struct {
	Min   float64
	Label string
}

// Ladder maps a continuous score to a label. Rungs are ordered best first and
// the last rung catches everything below the previous thresholds.
type Ladder []Rung

// Classify returns the label of the first rung whose lower bound the score
// reaches, or the last label when none does.
func (l Ladder) Classify(score float64) string {
	if len(l) == 0 {
		return ""
	}
	for _, rung := range l[:len(l)-1] {
		if score >= rung.Min {
			return rung.Label
		}
	}
	return l[len(l)-1].Label
}

func fiveTier(excellent, good, fair, weak, poor string) Ladder {
	return Ladder{{0.8, excellent}, {0.6, good}, {0.4, fair}, {0.2, weak}, {0, poor}}
}

func fourTier(high, medium, low, none string) Ladder {
	return Ladder{{0.8, high}, {0.6, medium}, {0.4, low}, {0, none}}
}

// Role recommendation labels.
const (
	RecommendationStrong        = "Strong Recommendation - Highly Suitable"
	RecommendationModerate      = "Moderate Recommendation - Good Fit"
	RecommendationConsideration = "Consideration Needed - Partial Fit"
	RecommendationNone          = "Not Recommended - Poor Fit"
)

var (
	// RecommendationLadder drives MatchAnalysis.RoleRecommendation.
	RecommendationLadder = fourTier(RecommendationStrong, RecommendationModerate, RecommendationConsideration, RecommendationNone)

	// AssessmentLadder labels the overall score.
	AssessmentLadder = fiveTier(
		"Excellent Match - Strong alignment with job requirements",
		"Good Match - Solid alignment with minor gaps",
		"Partial Match - Some alignment with significant gaps",
		"Weak Match - Limited alignment with major gaps",
		"Poor Match - Minimal alignment with job requirements",
	)

	// AlignmentLadder labels a single dimension score.
	AlignmentLadder = fiveTier("Excellent", "Good", "Fair", "Poor", "Very Poor")

	// ConfidenceLadder labels how much the overall score can be trusted.
	ConfidenceLadder = fourTier("High Confidence", "Medium Confidence", "Low Confidence", "Very Low Confidence")

	// NextStepLadder suggests what a recruiter should do next.
	NextStepLadder = fourTier(
		"Proceed with interview process",
		"Consider for interview with additional screening",
		"Evaluate other candidates first",
		"Not recommended for this role",
	)

	// ExperienceRelevanceLadder describes the experience score.
	ExperienceRelevanceLadder = fourTier(
		"Highly relevant experience with strong alignment to role requirements",
		"Moderately relevant experience with good alignment",
		"Some relevant experience but with notable gaps",
		"Limited relevant experience for this role",
	)

	// ContextualRelevanceLadder describes the role-fit score.
	ContextualRelevanceLadder = fourTier(
		"Strong contextual alignment with job requirements and responsibilities",
		"Good contextual alignment with most job requirements",
		"Partial contextual alignment with some overlap",
		"Limited contextual alignment with job requirements",
	)
)

// Recommend returns the role recommendation tier for an overall score.
func Recommend(overall float64) string {
	return RecommendationLadder.Classify(overall)
}

// FitFactors lists the role-fit factors for a role-fit score.
func FitFactors(roleFit float64) []string {
	switch {
	case roleFit >= 0.8:
		return []string{"Strong semantic alignment", "Good role comprehension", "Relevant background"}
	case roleFit >= 0.6:
		return []string{"Moderate semantic alignment", "Decent role comprehension"}
	case roleFit >= 0.4:
		return []string{"Partial semantic alignment", "Limited role alignment"}
	default:
		return []string{"Weak semantic alignment", "Poor role alignment"}
	}
}
