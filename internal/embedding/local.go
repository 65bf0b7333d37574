package embedding

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"unicode"
)

const defaultLocalDimensions = 512

// Local is an offline provider that embeds text by hashing its words into a
// fixed number of buckets. It needs no model or network and is deterministic,
// which makes it the default for tests and air-gapped runs.
type Local struct {
	dims int
}

// NewLocal returns a hashing provider with the given dimensionality.
func NewLocal(dims int) *Local {
	if dims <= 0 {
		dims = defaultLocalDimensions
	}
	return &Local{dims: dims}
}

// Dimensions returns the vector length.
func (l *Local) Dimensions() int { return l.dims }

// Encode hashes every word of text into the vector. Repeated words grow
// logarithmically.
func (l *Local) Encode(ctx context.Context, text string) (Vector, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for _, word := range tokenize(text) {
		counts[word]++
	}

	v := make(Vector, l.dims)
	for word, n := range counts {
		h := fnv.New64a()
		_, _ = h.Write([]byte(word))
		sum := h.Sum64()

		bucket := int(sum % uint64(l.dims))
		sign := 1.0
		if sum>>63 == 1 {
			sign = -1.0
		}
		v[bucket] += sign * (1 + math.Log(float64(n)))
	}

	return v, nil
}

// EncodeBatch encodes every text in order.
func (l *Local) EncodeBatch(ctx context.Context, texts []string) ([]Vector, error) {
	return encodeEach(ctx, l, texts)
}

// Similarity returns the cosine of a and b.
func (l *Local) Similarity(a, b Vector) (float64, error) {
	return Cosine(a, b)
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '+' && r != '#'
	})
}
