package cmd

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/spigell/resume-matcher/internal/ai"
	"github.com/spigell/resume-matcher/internal/ai/gemini"
	"github.com/spigell/resume-matcher/internal/embedding"
	"github.com/spigell/resume-matcher/internal/logger"
	"github.com/spigell/resume-matcher/internal/matching"
	"github.com/spigell/resume-matcher/internal/secrets"
	"github.com/spigell/resume-matcher/internal/skills"
)

const (
	providerLocal  = "local"
	providerGemini = "gemini"
	providerOpenAI = "openai"
)

// stack is everything a command needs to score matches.
type stack struct {
	engine     *matching.Engine
	vocabulary *skills.Vocabulary
}

func buildStack(ctx context.Context, config *Config, log *zap.Logger) (*stack, error) {
	vocab := skills.New(config.Skills)

	var client *genai.Client
	geminiClient := func(key secrets.Source) (*genai.Client, error) {
		if client != nil {
			return client, nil
		}
		apiKey, err := secrets.Load(key)
		if err != nil {
			return nil, err
		}
		client, err = gemini.NewClient(ctx, apiKey)
		return client, err
	}

	provider, err := newEmbeddingProvider(config.Embedding, geminiClient, log)
	if err != nil {
		return nil, fmt.Errorf("building embedding provider: %w", err)
	}

	opts := []matching.Option{matching.WithLogger(log)}

	narrator, err := newNarrator(config.AI, geminiClient, log)
	if err != nil {
		log.Warn("skipping ai narration, rule-based explanations will be used", zap.Error(err))
	} else if narrator != nil {
		opts = append(opts, matching.WithNarrator(narrator))
	}

	engine, err := matching.NewEngine(config.Matching, provider, opts...)
	if err != nil {
		return nil, err
	}

	log.Debug("matching stack ready",
		zap.String(logger.FieldEmbeddingProvider, config.Embedding.Provider),
		zap.Int("skills_vocabulary", vocab.Len()),
		zap.Int("detectors", len(engine.Detectors())),
		zap.Bool("narrator", narrator != nil),
	)

	return &stack{engine: engine, vocabulary: vocab}, nil
}

func newEmbeddingProvider(cfg *EmbeddingConfig, geminiClient func(secrets.Source) (*genai.Client, error), log *zap.Logger) (embedding.Provider, error) {
	name := strings.TrimSpace(strings.ToLower(cfg.Provider))
	log = logger.WithFields(log, zap.String(logger.FieldEmbeddingProvider, name), zap.String(logger.FieldModel, cfg.Model))

	var provider embedding.Provider

	switch name {
	case "", providerLocal:
		provider = embedding.NewLocal(cfg.Dimensions)
	case providerGemini:
		client, err := geminiClient(secrets.Source{
			Name:  "gemini api key",
			Value: cfg.APIKey,
			File:  cfg.APIKeyFile,
			Env:   "GEMINI_API_KEY",
		})
		if err != nil {
			return nil, err
		}
		embedder, err := gemini.NewEmbedder(client, cfg.Model, cfg.Dimensions, cfg.MaxRetries, log)
		if err != nil {
			return nil, err
		}
		provider = embedder
	case providerOpenAI:
		apiKey, err := secrets.Load(secrets.Source{
			Name:  "openai api key",
			Value: cfg.APIKey,
			File:  cfg.APIKeyFile,
			Env:   "OPENAI_API_KEY",
		})
		if err != nil {
			return nil, err
		}
		provider = embedding.NewOpenAI(apiKey, cfg.Model, cfg.Dimensions, log)
	default:
		return nil, fmt.Errorf("%w: unsupported embedding provider %q", matching.ErrConfiguration, cfg.Provider)
	}

	if cfg.Cache {
		provider = embedding.NewCached(provider)
	}

	return provider, nil
}

// newNarrator returns nil without error when narration is disabled.
func newNarrator(cfg *AIConfig, geminiClient func(secrets.Source) (*genai.Client, error), log *zap.Logger) (ai.Narrator, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, nil
	}

	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != providerGemini {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}
	if cfg.Gemini == nil {
		return nil, fmt.Errorf("gemini configuration is required when ai is enabled")
	}

	client, err := geminiClient(secrets.Source{
		Name:  "gemini api key",
		Value: cfg.Gemini.APIKey,
		File:  cfg.Gemini.APIKeyFile,
		Env:   "GEMINI_API_KEY",
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY)", err)
	}

	genLogger := logger.WithFields(log,
		zap.String(logger.FieldProvider, providerGemini),
		zap.String(logger.FieldModel, cfg.Gemini.Model),
		zap.Int("ai_retry_attempts", cfg.Gemini.MaxRetries),
	)

	generator, err := gemini.NewGenerator(client, cfg.Gemini.Model, cfg.Gemini.MaxRetries, genLogger)
	if err != nil {
		return nil, err
	}

	narrator := gemini.NewNarrator(generator, genLogger, cfg.Gemini.MaxLogLength)
	narrator.SetPromptOverrides(cfg.Gemini.Prompt)

	return narrator, nil
}
