// Package embedding turns text into vectors and compares them.
package embedding

import (
	"context"
	"errors"
	"fmt"
	"math"
)

// Vector is a fixed-length embedding.
type Vector []float64

// ErrDimensionMismatch is returned when comparing vectors of different length.
var ErrDimensionMismatch = errors.New("vector dimensions differ")

// Provider encodes texts and compares the resulting vectors.
type Provider interface {
	Encode(ctx context.Context, text string) (Vector, error)
	EncodeBatch(ctx context.Context, texts []string) ([]Vector, error)
	Similarity(a, b Vector) (float64, error)
}

// Cosine returns the cosine similarity of a and b in [-1, 1]. A zero vector
// is similar to nothing and yields 0.
func Cosine(a, b Vector) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d != %d", ErrDimensionMismatch, len(a), len(b))
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0, nil
	}

	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	// Rounding can push identical vectors slightly past 1.
	return math.Max(-1, math.Min(1, sim)), nil
}

// encodeEach implements EncodeBatch on top of Encode for providers without
// a native batch call.
func encodeEach(ctx context.Context, p interface {
	Encode(ctx context.Context, text string) (Vector, error)
}, texts []string) ([]Vector, error) {
	out := make([]Vector, 0, len(texts))
	for i, text := range texts {
		v, err := p.Encode(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("encode text %d: %w", i, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// FromFloat32 converts a float32 embedding as returned by most APIs.
func FromFloat32(values []float32) Vector {
	v := make(Vector, len(values))
	for i, f := range values {
		v[i] = float64(f)
	}
	return v
}
