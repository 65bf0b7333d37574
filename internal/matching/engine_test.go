package matching

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/resume-matcher/internal/ai"
	"github.com/spigell/resume-matcher/internal/embedding"
)

type brokenProvider struct{}

func (brokenProvider) Encode(context.Context, string) (embedding.Vector, error) {
	return nil, errors.New("model unavailable")
}

func (brokenProvider) EncodeBatch(context.Context, []string) ([]embedding.Vector, error) {
	return nil, errors.New("model unavailable")
}

func (brokenProvider) Similarity(a, b embedding.Vector) (float64, error) {
	return embedding.Cosine(a, b)
}

// fixedProvider returns the same similarity for any pair of texts.
type fixedProvider struct {
	similarity float64
}

func (p fixedProvider) Encode(context.Context, string) (embedding.Vector, error) {
	return embedding.Vector{1}, nil
}

func (p fixedProvider) EncodeBatch(_ context.Context, texts []string) ([]embedding.Vector, error) {
	out := make([]embedding.Vector, len(texts))
	for i := range texts {
		out[i] = embedding.Vector{1}
	}
	return out, nil
}

func (p fixedProvider) Similarity(embedding.Vector, embedding.Vector) (float64, error) {
	return p.similarity, nil
}

type stubNarrator struct {
	mu    sync.Mutex
	text  string
	err   error
	calls []ai.Narration
}

func (s *stubNarrator) Narrate(_ context.Context, in ai.Narration) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, in)
	return s.text, s.err
}

func scenario() (Resume, Job) {
	resume := Resume{
		ID:      "r1",
		Content: "I am a certified AWS professional and managed a team of 5.",
		Skills:  []string{"python", "sql"},
		Experience: []ExperienceEntry{
			{Role: "Analyst", Company: "Initech", Duration: "2 years"},
			{Role: "Intern", Company: "Globex", Duration: "6 months"},
		},
	}
	job := Job{
		ID:              "j1",
		Title:           "Data Engineer",
		Description:     "Data engineer with aws background",
		RequiredSkills:  []string{"python", "java"},
		PreferredSkills: []string{"sql"},
	}
	return resume, job
}

func TestNewEngineValidates(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Weights.Bonus = 0.5

	_, err := NewEngine(cfg, embedding.NewLocal(0))
	require.ErrorIs(t, err, ErrConfiguration)

	_, err = NewEngine(DefaultConfig(), nil)
	require.ErrorIs(t, err, ErrConfiguration)

	e, err := NewEngine(DefaultConfig(), embedding.NewLocal(0))
	require.NoError(t, err)
	assert.Equal(t, DefaultWeights(), e.Weights())
	assert.InDelta(t, 0.5, e.SimilarityThreshold(), 1e-9)
	assert.Len(t, e.Detectors(), 5)
}

func TestScoreMatchScenario(t *testing.T) {
	t.Parallel()

	e, err := NewEngine(DefaultConfig(), fixedProvider{similarity: 0.5})
	require.NoError(t, err)

	resume, job := scenario()
	a, err := e.ScoreMatch(context.Background(), resume, job)
	require.NoError(t, err)

	assert.InDelta(t, 0.65, a.Score.Skills, 1e-9)
	assert.InDelta(t, 0.125, a.Score.Experience, 1e-9)
	assert.InDelta(t, 0.5, a.Score.RoleFit, 1e-9)
	assert.InDelta(t, 0.4, a.Score.BonusSignals, 1e-9)
	assert.InDelta(t, 0.4375, a.Score.Overall, 1e-9)

	assert.Equal(t, []string{"python", "sql"}, a.MatchedSkills)
	assert.Equal(t, []string{"java"}, a.MissingSkills)
	assert.Equal(t, RecommendationConsideration, a.RoleRecommendation)
	assert.Equal(t, []string{SignalCertification, SignalLeadership}, a.Signals)
	assert.InDelta(t, 2.5, a.TotalYears, 1e-9)
	assert.Equal(t, RuleBasedExplanation(a), a.Explanation)
	assert.Contains(t, a.Explanation, "Missing skills: java.")
	assert.Contains(t, a.Explanation, "Experience Level: Low")
}

func TestScoreMatchClampsNegativeSimilarity(t *testing.T) {
	t.Parallel()

	e, err := NewEngine(DefaultConfig(), fixedProvider{similarity: -0.3})
	require.NoError(t, err)

	resume, job := scenario()
	a, err := e.ScoreMatch(context.Background(), resume, job)
	require.NoError(t, err)

	assert.Zero(t, a.Score.RoleFit)
	assert.InDelta(t, -0.3, a.SemanticSimilarity, 1e-9)
	assert.GreaterOrEqual(t, a.Score.Overall, 0.0)
}

func TestScoreMatchIsIdempotent(t *testing.T) {
	t.Parallel()

	e, err := NewEngine(DefaultConfig(), embedding.NewLocal(0))
	require.NoError(t, err)

	resume, job := scenario()
	first, err := e.ScoreMatch(context.Background(), resume, job)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]*MatchAnalysis, 8)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], _ = e.ScoreMatch(context.Background(), resume, job)
		}()
	}
	wg.Wait()

	for _, r := range results {
		require.NotNil(t, r)
		assert.Equal(t, first, r)
	}
}

func TestScoreMatchEmbeddingFailure(t *testing.T) {
	t.Parallel()

	core, observed := observer.New(zapcore.WarnLevel)
	narrator := &stubNarrator{text: "never used"}

	e, err := NewEngine(DefaultConfig(), brokenProvider{}, WithLogger(zap.New(core)), WithNarrator(narrator))
	require.NoError(t, err)

	resume, job := scenario()
	a, err := e.ScoreMatch(context.Background(), resume, job)
	require.ErrorIs(t, err, ErrEmbedding)
	assert.Nil(t, a)
	assert.Empty(t, narrator.calls)

	entries := observed.FilterMessage("role fit estimation failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "r1", entries[0].ContextMap()["resume_id"])
}

func TestScoreMatchNarrator(t *testing.T) {
	t.Parallel()

	t.Run("uses narration", func(t *testing.T) {
		t.Parallel()

		narrator := &stubNarrator{text: "  A solid candidate.  "}
		e, err := NewEngine(DefaultConfig(), fixedProvider{similarity: 0.5}, WithNarrator(narrator))
		require.NoError(t, err)

		resume, job := scenario()
		a, err := e.ScoreMatch(context.Background(), resume, job)
		require.NoError(t, err)

		assert.Equal(t, "A solid candidate.", a.Explanation)
		require.Len(t, narrator.calls, 1)
		call := narrator.calls[0]
		assert.Equal(t, "r1", call.ResumeID)
		assert.Equal(t, "j1", call.JobID)
		assert.InDelta(t, 0.4375, call.Overall, 1e-9)
		assert.Equal(t, []string{"java"}, call.Missing)
	})

	t.Run("falls back on error", func(t *testing.T) {
		t.Parallel()

		core, observed := observer.New(zapcore.WarnLevel)
		narrator := &stubNarrator{err: errors.New("quota exceeded")}
		e, err := NewEngine(DefaultConfig(), fixedProvider{similarity: 0.5}, WithNarrator(narrator), WithLogger(zap.New(core)))
		require.NoError(t, err)

		resume, job := scenario()
		a, err := e.ScoreMatch(context.Background(), resume, job)
		require.NoError(t, err)

		assert.Equal(t, RuleBasedExplanation(a), a.Explanation)
		assert.Len(t, observed.FilterMessage("narrator unavailable, using rule-based explanation").All(), 1)
	})

	t.Run("falls back on blank text", func(t *testing.T) {
		t.Parallel()

		e, err := NewEngine(DefaultConfig(), fixedProvider{similarity: 0.5}, WithNarrator(&stubNarrator{text: " \n"}))
		require.NoError(t, err)

		resume, job := scenario()
		a, err := e.ScoreMatch(context.Background(), resume, job)
		require.NoError(t, err)
		assert.Equal(t, RuleBasedExplanation(a), a.Explanation)
	})
}

func TestWithDetectors(t *testing.T) {
	t.Parallel()

	always := Detector{Name: "always", Detect: func(string, string) bool { return true }}
	e, err := NewEngine(DefaultConfig(), fixedProvider{similarity: 1}, WithDetectors([]Detector{always}))
	require.NoError(t, err)

	resume, job := scenario()
	a, err := e.ScoreMatch(context.Background(), resume, job)
	require.NoError(t, err)

	assert.InDelta(t, 1.0, a.Score.BonusSignals, 1e-9)
	assert.Equal(t, []string{"always"}, a.Signals)
}

func TestEstimateRoleFit(t *testing.T) {
	t.Parallel()

	fit, err := EstimateRoleFit(context.Background(), embedding.NewLocal(0), "Go developer", "Go developer")
	require.NoError(t, err)
	assert.InDelta(t, 1.0, fit.Score, 1e-9)

	fit, err = EstimateRoleFit(context.Background(), embedding.NewLocal(0), "", "Go developer")
	require.NoError(t, err)
	assert.Zero(t, fit.Score)

	_, err = EstimateRoleFit(context.Background(), nil, "a", "b")
	require.ErrorIs(t, err, ErrEmbedding)
}
