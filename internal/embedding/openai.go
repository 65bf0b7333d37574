package embedding

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"go.uber.org/zap"
)

// ErrEmptyText is returned by remote providers for blank input.
var ErrEmptyText = errors.New("text cannot be empty")

type embeddingsCreator interface {
	New(ctx context.Context, body openai.EmbeddingNewParams, opts ...option.RequestOption) (*openai.CreateEmbeddingResponse, error)
}

// OpenAI encodes texts with the OpenAI embeddings endpoint.
type OpenAI struct {
	embeddings embeddingsCreator
	model      string
	dimensions int
	logger     *zap.Logger
}

// NewOpenAI builds a provider for the given model. dims of zero keeps the
// model's native size.
func NewOpenAI(apiKey, model string, dims int, logger *zap.Logger) *OpenAI {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	if model == "" {
		model = string(openai.EmbeddingModelTextEmbedding3Small)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &OpenAI{
		embeddings: &client.Embeddings,
		model:      model,
		dimensions: dims,
		logger:     logger,
	}
}

// Encode embeds a single text.
func (o *OpenAI) Encode(ctx context.Context, text string) (Vector, error) {
	vectors, err := o.EncodeBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EncodeBatch embeds all texts with a single request.
func (o *OpenAI) EncodeBatch(ctx context.Context, texts []string) ([]Vector, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	for i, text := range texts {
		if strings.TrimSpace(text) == "" {
			return nil, fmt.Errorf("text %d: %w", i, ErrEmptyText)
		}
	}

	params := openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{
			OfArrayOfStrings: texts,
		},
		Model: openai.EmbeddingModel(o.model),
	}
	if o.dimensions > 0 {
		params.Dimensions = openai.Int(int64(o.dimensions))
	}

	o.logger.Debug("requesting openai embeddings", zap.String("model", o.model), zap.Int("texts", len(texts)))

	resp, err := o.embeddings.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to generate embeddings: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(texts), len(resp.Data))
	}

	out := make([]Vector, len(texts))
	for _, data := range resp.Data {
		idx := int(data.Index)
		if idx < 0 || idx >= len(out) {
			return nil, fmt.Errorf("embedding index %d out of range", idx)
		}
		out[idx] = Vector(append([]float64(nil), data.Embedding...))
	}

	return out, nil
}

// Similarity returns the cosine of a and b.
func (o *OpenAI) Similarity(a, b Vector) (float64, error) {
	return Cosine(a, b)
}
