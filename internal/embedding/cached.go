package embedding

import (
	"context"
	"crypto/sha256"
	"fmt"
	"strings"
	"sync"
)

// Cached memoizes Encode results of another provider by content hash. Job
// descriptions are encoded once per ranked resume, so ranking benefits most.
type Cached struct {
	next Provider

	mu      sync.RWMutex
	vectors map[string]Vector
}

// NewCached wraps next with an in-memory cache.
func NewCached(next Provider) *Cached {
	return &Cached{next: next, vectors: make(map[string]Vector)}
}

// Encode returns the cached vector for text or asks the wrapped provider.
func (c *Cached) Encode(ctx context.Context, text string) (Vector, error) {
	key := hashText(text)

	if v, ok := c.lookup(key); ok {
		return v, nil
	}

	v, err := c.next.Encode(ctx, text)
	if err != nil {
		return nil, err
	}

	c.store(key, v)
	return v, nil
}

// EncodeBatch sends only uncached texts to the wrapped provider, in one call.
func (c *Cached) EncodeBatch(ctx context.Context, texts []string) ([]Vector, error) {
	out := make([]Vector, len(texts))
	keys := make([]string, len(texts))
	missing := make([]int, 0, len(texts))

	for i, text := range texts {
		keys[i] = hashText(text)
		if v, ok := c.lookup(keys[i]); ok {
			out[i] = v
			continue
		}
		missing = append(missing, i)
	}

	if len(missing) == 0 {
		return out, nil
	}

	pending := make([]string, len(missing))
	for j, i := range missing {
		pending[j] = texts[i]
	}

	vectors, err := c.next.EncodeBatch(ctx, pending)
	if err != nil {
		return nil, err
	}
	if len(vectors) != len(pending) {
		return nil, fmt.Errorf("provider returned %d vectors for %d texts", len(vectors), len(pending))
	}

	for j, i := range missing {
		out[i] = vectors[j]
		c.store(keys[i], vectors[j])
	}

	return out, nil
}

// Similarity delegates to the wrapped provider.
func (c *Cached) Similarity(a, b Vector) (float64, error) {
	return c.next.Similarity(a, b)
}

// Len returns the number of cached vectors.
func (c *Cached) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.vectors)
}

func (c *Cached) lookup(key string) (Vector, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.vectors[key]
	return v, ok
}

func (c *Cached) store(key string, v Vector) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vectors[key] = v
}

func hashText(text string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(text)))
	return fmt.Sprintf("%x", sum[:])
}
