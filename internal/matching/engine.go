package matching

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/resume-matcher/internal/ai"
	"github.com/spigell/resume-matcher/internal/embedding"
	"github.com/spigell/resume-matcher/internal/logger"
)

// Config is the read-only scoring configuration loaded once at startup.
type Config struct {
	Weights Weights `mapstructure:"weights"`
	// SimilarityThreshold is reserved; the scoring math does not read it.
	SimilarityThreshold float64      `mapstructure:"similarity-threshold"`
	Signals             KeywordLists `mapstructure:"signals"`
}

// DefaultConfig returns the stock weights and keyword lists.
func DefaultConfig() Config {
	return Config{
		Weights:             DefaultWeights(),
		SimilarityThreshold: 0.5,
		Signals:             DefaultKeywordLists(),
	}
}

// Engine scores resumes against jobs. It holds no mutable state, so a single
// Engine may serve concurrent ScoreMatch calls.
type Engine struct {
	weights   Weights
	threshold float64
	detectors []Detector
	provider  embedding.Provider
	narrator  ai.Narrator
	logger    *zap.Logger
}

// Option customizes an Engine.
type Option func(*Engine)

// WithNarrator sets an optional narrator for free-text explanations.
func WithNarrator(n ai.Narrator) Option {
	return func(e *Engine) { e.narrator = n }
}

// WithLogger sets the engine logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithDetectors replaces the default bonus detectors.
func WithDetectors(detectors []Detector) Option {
	return func(e *Engine) {
		e.detectors = append([]Detector(nil), detectors...)
	}
}

// NewEngine validates cfg and builds an engine around the embedding provider.
func NewEngine(cfg Config, provider embedding.Provider, opts ...Option) (*Engine, error) {
	if err := cfg.Weights.Validate(); err != nil {
		return nil, err
	}
	if provider == nil {
		return nil, fmt.Errorf("%w: embedding provider is required", ErrConfiguration)
	}

	e := &Engine{
		weights:   cfg.Weights,
		threshold: cfg.SimilarityThreshold,
		detectors: DefaultDetectors(cfg.Signals),
		provider:  provider,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = logger.WithFields(e.logger)

	return e, nil
}

// Weights returns the configured weights.
func (e *Engine) Weights() Weights { return e.weights }

// SimilarityThreshold returns the reserved similarity threshold.
func (e *Engine) SimilarityThreshold() float64 { return e.threshold }

// Detectors returns a copy of the registered bonus detectors.
func (e *Engine) Detectors() []Detector {
	return append([]Detector(nil), e.detectors...)
}

// ScoreMatch computes the complete analysis of resume against job. Either
// every field is computed or an error is returned; an embedding failure is
// reported as ErrEmbedding.
func (e *Engine) ScoreMatch(ctx context.Context, resume Resume, job Job) (*MatchAnalysis, error) {
	log := logger.WithFields(e.logger, logger.MatchFields(resume.ID, job.ID)...)

	skills := MatchSkills(resume.Skills, job.RequiredSkills, job.PreferredSkills)
	experience := EvaluateExperience(resume.Experience, job.Description)
	bonus := DetectBonusSignals(e.detectors, resume.Content, job.Description)

	fit, err := EstimateRoleFit(ctx, e.provider, resume.Content, job.Description)
	if err != nil {
		log.Warn("role fit estimation failed", zap.Error(err))
		return nil, err
	}

	score := Aggregate(MatchScore{
		Skills:       skills.Score,
		Experience:   experience.Score,
		RoleFit:      fit.Score,
		BonusSignals: bonus.Score,
	}, e.weights)

	analysis := &MatchAnalysis{
		Score:              score,
		MatchedSkills:      skills.Matched,
		MissingSkills:      skills.Missing,
		TransferableSkills: skills.Transferable,
		ExperienceSummary:  skills.ExperienceSummary,
		RoleRecommendation: Recommend(score.Overall),
		SemanticSimilarity: fit.Similarity,
		TotalYears:         experience.TotalYears,
		Signals:            bonus.Hits,
	}
	analysis.Explanation = e.explain(ctx, log, resume, job, analysis)

	log.Debug("match scored",
		zap.Float64("overall", score.Overall),
		zap.Float64("skills", score.Skills),
		zap.Float64("experience", score.Experience),
		zap.Float64("role_fit", score.RoleFit),
		zap.Float64("bonus_signals", score.BonusSignals),
		zap.Strings("signals", bonus.Hits),
	)

	return analysis, nil
}

func (e *Engine) explain(ctx context.Context, log *zap.Logger, resume Resume, job Job, a *MatchAnalysis) string {
	if e.narrator == nil {
		return RuleBasedExplanation(a)
	}

	text, err := e.narrator.Narrate(ctx, ai.Narration{
		ResumeID:       resume.ID,
		JobID:          job.ID,
		ResumeText:     resume.Content,
		JobText:        job.Description,
		Overall:        a.Score.Overall,
		Skills:         a.Score.Skills,
		Experience:     a.Score.Experience,
		RoleFit:        a.Score.RoleFit,
		BonusSignals:   a.Score.BonusSignals,
		Matched:        a.MatchedSkills,
		Missing:        a.MissingSkills,
		Recommendation: a.RoleRecommendation,
	})
	if err != nil || strings.TrimSpace(text) == "" {
		log.Warn("narrator unavailable, using rule-based explanation", zap.Error(err))
		return RuleBasedExplanation(a)
	}

	return strings.TrimSpace(text)
}

// RuleBasedExplanation is the deterministic explanation used without a
// narrator or when the narrator fails.
func RuleBasedExplanation(a *MatchAnalysis) string {
	missing := "none"
	if len(a.MissingSkills) > 0 {
		missing = strings.Join(a.MissingSkills, ", ")
	}

	level := "Low"
	switch {
	case a.Score.Experience >= 0.7:
		level = "High"
	case a.Score.Experience >= 0.4:
		level = "Medium"
	}

	parts := []string{
		fmt.Sprintf("Skills Match: %s. Missing skills: %s.", a.ExperienceSummary, missing),
		fmt.Sprintf("Experience Level: %s - Based on relevance and duration of past roles.", level),
		fmt.Sprintf("Role Fit: %s - Semantic similarity between resume and job requirements.", AlignmentLadder.Classify(a.Score.RoleFit)),
		fmt.Sprintf("Final Recommendation: %s", a.RoleRecommendation),
	}

	return strings.Join(parts, " ")
}
