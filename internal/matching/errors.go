package matching

import "errors"

var (
	// ErrEmbedding marks failures of the embedding provider. A scoring call that
	// hits it produces no analysis at all.
	ErrEmbedding = errors.New("embedding failure")
	// ErrConfiguration marks invalid engine configuration, detected at startup.
	ErrConfiguration = errors.New("configuration error")
)
