package matching

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchSkills(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name                string
		resume              []string
		required, preferred []string
		score               float64
		matched, missing    []string
		transferable        []string
		summary             string
	}{
		{
			name:      "partial required, full preferred",
			resume:    []string{"python", "sql"},
			required:  []string{"python", "java"},
			preferred: []string{"sql"},
			score:     0.65,
			matched:   []string{"python", "sql"},
			missing:   []string{"java"},
			summary:   "Matched 1/2 required skills and 1/1 preferred skills",
		},
		{
			name:    "no job skills",
			resume:  []string{"go"},
			score:   0.7,
			matched: []string{},
			missing: []string{},
			summary: "Matched 0/0 required skills and 0/0 preferred skills",
		},
		{
			name:      "case and duplicates",
			resume:    []string{"Python", " python ", ""},
			required:  []string{"PYTHON", "python"},
			preferred: []string{"Docker"},
			score:     0.7,
			matched:   []string{"python"},
			missing:   []string{},
			summary:   "Matched 1/1 required skills and 0/1 preferred skills",
		},
		{
			name:         "transferable by shared token",
			resume:       []string{"machine learning", "sql"},
			required:     []string{"deep learning"},
			score:        0,
			matched:      []string{},
			missing:      []string{"deep learning"},
			transferable: []string{"machine learning"},
			summary:      "Matched 0/1 required skills and 0/0 preferred skills",
		},
		{
			name:      "skill in both lists is reported twice",
			resume:    []string{"go"},
			required:  []string{"go"},
			preferred: []string{"go"},
			score:     1,
			matched:   []string{"go", "go"},
			missing:   []string{},
			summary:   "Matched 1/1 required skills and 1/1 preferred skills",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := MatchSkills(tt.resume, tt.required, tt.preferred)
			assert.InDelta(t, tt.score, got.Score, 1e-9)
			assert.Equal(t, tt.matched, got.Matched)
			assert.Equal(t, tt.missing, got.Missing)
			if tt.transferable == nil {
				assert.Empty(t, got.Transferable)
			} else {
				assert.Equal(t, tt.transferable, got.Transferable)
			}
			assert.Equal(t, tt.summary, got.ExperienceSummary)
		})
	}
}

func TestParseDurationYears(t *testing.T) {
	t.Parallel()

	tests := map[string]float64{
		"2 years":          2,
		"1 year":           1,
		"3 yrs":            3,
		"1.5 Years":        1.5,
		"6 months":         0.5,
		"18 Months":        1.5,
		"2 years 6 months": 2,
		"since 2019":       0,
		"":                 0,
	}

	for in, want := range tests {
		assert.InDelta(t, want, ParseDurationYears(in), 1e-9, in)
	}
}

func TestEvaluateExperience(t *testing.T) {
	t.Parallel()

	t.Run("no entries", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, ExperienceResult{}, EvaluateExperience(nil, "anything"))
	})

	t.Run("durations without relevance", func(t *testing.T) {
		t.Parallel()

		got := EvaluateExperience([]ExperienceEntry{
			{Duration: "2 years"},
			{Duration: "6 months"},
		}, "We need a backend developer")

		assert.InDelta(t, 0.125, got.Score, 1e-9)
		assert.InDelta(t, 2.5, got.TotalYears, 1e-9)
		assert.Zero(t, got.RelevantEntries)
	})

	t.Run("relevant role and company", func(t *testing.T) {
		t.Parallel()

		got := EvaluateExperience([]ExperienceEntry{
			{Role: "Backend Engineer", Company: "Initech", Duration: "4 years"},
			{Role: "Barista", Company: "Acme", Duration: "2 years"},
			{Role: "Designer", Company: "Globex", Duration: "1 year"},
		}, "Acme is hiring a backend engineer")

		assert.Equal(t, 2, got.RelevantEntries)
		assert.Equal(t, 3, got.TotalEntries)
		assert.InDelta(t, (2.0/3.0+0.7)/2, got.Score, 1e-9)
	})

	t.Run("capped years", func(t *testing.T) {
		t.Parallel()

		got := EvaluateExperience([]ExperienceEntry{
			{Role: "Engineer", Duration: "25 years"},
		}, "Senior engineer")

		assert.InDelta(t, 1.0, got.Score, 1e-9)
		assert.InDelta(t, 25.0, got.TotalYears, 1e-9)
	})

	t.Run("blank role and company never match", func(t *testing.T) {
		t.Parallel()

		got := EvaluateExperience([]ExperienceEntry{{Role: " ", Duration: "1 year"}}, "any description")
		assert.Zero(t, got.RelevantEntries)
		assert.InDelta(t, 0.05, got.Score, 1e-9)
	})
}

func TestDetectBonusSignals(t *testing.T) {
	t.Parallel()

	detectors := DefaultDetectors(KeywordLists{})

	got := DetectBonusSignals(detectors,
		"I am a certified AWS professional and managed a team of 5.",
		"Looking for aws experience",
	)
	assert.InDelta(t, 0.4, got.Score, 1e-9)
	assert.Equal(t, []string{SignalCertification, SignalLeadership}, got.Hits)

	got = DetectBonusSignals(detectors, "Certified AWS professional", "Python developer")
	assert.NotContains(t, got.Hits, SignalCertification)

	got = DetectBonusSignals(detectors, "Experience: worked at Initech. Holds a PhD. Improved latency.", "")
	assert.Equal(t, []string{SignalCompanyExperience, SignalAdvancedEducation, SignalAchievements}, got.Hits)
	assert.InDelta(t, 0.6, got.Score, 1e-9)

	assert.Zero(t, DetectBonusSignals(nil, "lead", "lead").Score)
}

func TestCustomKeywordLists(t *testing.T) {
	t.Parallel()

	detectors := DefaultDetectors(KeywordLists{Leadership: []string{"Captain"}})
	require.Len(t, detectors, 5)

	got := DetectBonusSignals(detectors, "Team captain", "")
	assert.Equal(t, []string{SignalLeadership}, got.Hits)

	got = DetectBonusSignals(detectors, "Team lead", "")
	assert.Empty(t, got.Hits)

	statuses := DescribeDetectors(detectors)
	assert.Equal(t, SignalLeadership, statuses[3].Name)
	assert.Equal(t, []string{"captain"}, statuses[3].Keywords)
	assert.Equal(t, DefaultKeywordLists().Certification, statuses[0].Keywords)
}

func TestAggregate(t *testing.T) {
	t.Parallel()

	score := Aggregate(MatchScore{Skills: 0.65, Experience: 0.125, RoleFit: 0.5, BonusSignals: 0.4}, DefaultWeights())
	assert.InDelta(t, 0.4375, score.Overall, 1e-9)
	assert.Equal(t, "Partial Match - Some alignment with significant gaps", AssessmentLadder.Classify(score.Overall))
	assert.Equal(t, RecommendationConsideration, Recommend(score.Overall))

	perfect := Aggregate(MatchScore{Skills: 1, Experience: 1, RoleFit: 1, BonusSignals: 1}, DefaultWeights())
	assert.InDelta(t, 1.0, perfect.Overall, 1e-9)
}

func TestAggregateStaysInRange(t *testing.T) {
	t.Parallel()

	weightSets := map[string]Weights{
		"default":          DefaultWeights(),
		"skills only":      {Skills: 1},
		"bonus only":       {Bonus: 1},
		"even":             {Skills: 0.25, Experience: 0.25, RoleFit: 0.25, Bonus: 0.25},
		"sum at tolerance": {Skills: 0.4, Experience: 0.3, RoleFit: 0.2, Bonus: 0.1000005},
		"sum below one":    {Skills: 0.4, Experience: 0.3, RoleFit: 0.2, Bonus: 0.0999995},
	}
	extremes := []float64{0, 0.5, 1}

	for name, w := range weightSets {
		require.NoError(t, w.Validate(), name)

		for _, skills := range extremes {
			for _, experience := range extremes {
				for _, roleFit := range extremes {
					for _, bonus := range extremes {
						got := Aggregate(MatchScore{
							Skills:       skills,
							Experience:   experience,
							RoleFit:      roleFit,
							BonusSignals: bonus,
						}, w)
						assert.GreaterOrEqual(t, got.Overall, 0.0, name)
						assert.LessOrEqual(t, got.Overall, 1.0, name)
					}
				}
			}
		}
	}

	top := Aggregate(MatchScore{Skills: 1, Experience: 1, RoleFit: 1, BonusSignals: 1}, weightSets["sum at tolerance"])
	assert.Equal(t, 1.0, top.Overall)
}

func TestWeightsValidate(t *testing.T) {
	t.Parallel()

	require.NoError(t, DefaultWeights().Validate())
	require.NoError(t, Weights{Skills: 1}.Validate())

	for name, w := range map[string]Weights{
		"sum below one": {Skills: 0.4, Experience: 0.3, RoleFit: 0.2},
		"sum above one": {Skills: 0.5, Experience: 0.3, RoleFit: 0.2, Bonus: 0.1},
		"negative":      {Skills: 1.2, Experience: -0.2},
		"nan":           {Skills: math.NaN(), Experience: 1},
		"infinite":      {Skills: math.Inf(1)},
	} {
		err := w.Validate()
		require.Error(t, err, name)
		assert.True(t, errors.Is(err, ErrConfiguration), name)
	}
}

func TestLadders(t *testing.T) {
	t.Parallel()

	tests := []struct {
		score      float64
		alignment  string
		recommend  string
		confidence string
	}{
		{1, "Excellent", RecommendationStrong, "High Confidence"},
		{0.8, "Excellent", RecommendationStrong, "High Confidence"},
		{0.7999, "Good", RecommendationModerate, "Medium Confidence"},
		{0.6, "Good", RecommendationModerate, "Medium Confidence"},
		{0.4, "Fair", RecommendationConsideration, "Low Confidence"},
		{0.3999, "Poor", RecommendationNone, "Very Low Confidence"},
		{0.2, "Poor", RecommendationNone, "Very Low Confidence"},
		{0.1, "Very Poor", RecommendationNone, "Very Low Confidence"},
		{0, "Very Poor", RecommendationNone, "Very Low Confidence"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.alignment, AlignmentLadder.Classify(tt.score), tt.score)
		assert.Equal(t, tt.recommend, Recommend(tt.score), tt.score)
		assert.Equal(t, tt.confidence, ConfidenceLadder.Classify(tt.score), tt.score)
	}

	assert.Empty(t, Ladder(nil).Classify(0.5))
	assert.Len(t, FitFactors(0.9), 3)
	assert.Equal(t, []string{"Weak semantic alignment", "Poor role alignment"}, FitFactors(0.1))
}
