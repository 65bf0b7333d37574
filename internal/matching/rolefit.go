package matching

import (
	"context"
	"fmt"

	"github.com/spigell/resume-matcher/internal/embedding"
)

// RoleFit holds the semantic alignment between resume and job texts.
type RoleFit struct {
	// Similarity is the cosine reported by the provider, in [-1, 1].
	Similarity float64
	// Score is Similarity clamped into [0, 1].
	Score float64
}

// EstimateRoleFit encodes both texts in a single batch and compares them.
// Provider failures are returned wrapped in ErrEmbedding.
func EstimateRoleFit(ctx context.Context, provider embedding.Provider, resumeText, jobText string) (RoleFit, error) {
	if provider == nil {
		return RoleFit{}, fmt.Errorf("%w: provider is not configured", ErrEmbedding)
	}

	vectors, err := provider.EncodeBatch(ctx, []string{resumeText, jobText})
	if err != nil {
		return RoleFit{}, fmt.Errorf("%w: encode texts: %w", ErrEmbedding, err)
	}
	if len(vectors) != 2 {
		return RoleFit{}, fmt.Errorf("%w: expected 2 vectors, got %d", ErrEmbedding, len(vectors))
	}

	similarity, err := provider.Similarity(vectors[0], vectors[1])
	if err != nil {
		return RoleFit{}, fmt.Errorf("%w: similarity: %w", ErrEmbedding, err)
	}

	return RoleFit{Similarity: similarity, Score: clamp01(similarity)}, nil
}
