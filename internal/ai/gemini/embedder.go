package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/spigell/resume-matcher/internal/embedding"
	"github.com/spigell/resume-matcher/internal/logger"
)

const (
	defaultEmbeddingModel = "text-embedding-004"
	similarityTask        = "SEMANTIC_SIMILARITY"
)

type contentEmbedder interface {
	EmbedContent(ctx context.Context, model string, contents []*genai.Content, config *genai.EmbedContentConfig) (*genai.EmbedContentResponse, error)
}

// Embedder is an embedding.Provider backed by the Gemini embeddings API.
type Embedder struct {
	models     contentEmbedder
	model      string
	dimensions int
	maxRetries int
	logger     *zap.Logger
}

// NewEmbedder returns an Embedder for model. dims of zero keeps the model's
// native size.
func NewEmbedder(client *genai.Client, model string, dims, maxRetries int, log *zap.Logger) (*Embedder, error) {
	if client == nil {
		return nil, errors.New("gemini client is required")
	}
	if model = strings.TrimSpace(model); model == "" {
		model = defaultEmbeddingModel
	}
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	return &Embedder{
		models:     client.Models,
		model:      model,
		dimensions: dims,
		maxRetries: maxRetries,
		logger:     logger.WithCommonFields(log, providerName, model),
	}, nil
}

// Encode embeds a single text.
func (e *Embedder) Encode(ctx context.Context, text string) (embedding.Vector, error) {
	vectors, err := e.EncodeBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EncodeBatch embeds all texts with one request.
func (e *Embedder) EncodeBatch(ctx context.Context, texts []string) ([]embedding.Vector, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	contents := make([]*genai.Content, len(texts))
	for i, text := range texts {
		if strings.TrimSpace(text) == "" {
			return nil, fmt.Errorf("text %d: %w", i, embedding.ErrEmptyText)
		}
		contents[i] = genai.NewContentFromText(text, genai.RoleUser)
	}

	config := &genai.EmbedContentConfig{TaskType: similarityTask}
	if e.dimensions > 0 {
		config.OutputDimensionality = genai.Ptr(int32(e.dimensions))
	}

	var resp *genai.EmbedContentResponse
	err := withRetry(ctx, e.logger, e.maxRetries, func() error {
		var err error
		resp, err = e.models.EmbedContent(ctx, e.model, contents, config)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("embed content: %w", err)
	}

	if resp == nil || len(resp.Embeddings) != len(texts) {
		got := 0
		if resp != nil {
			got = len(resp.Embeddings)
		}
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(texts), got)
	}

	out := make([]embedding.Vector, len(texts))
	for i, emb := range resp.Embeddings {
		if emb == nil {
			return nil, fmt.Errorf("embedding %d is missing", i)
		}
		out[i] = embedding.FromFloat32(emb.Values)
	}

	e.logger.Debug("gemini embeddings received", zap.Int("texts", len(texts)))

	return out, nil
}

// Similarity returns the cosine of a and b.
func (e *Embedder) Similarity(a, b embedding.Vector) (float64, error) {
	return embedding.Cosine(a, b)
}
